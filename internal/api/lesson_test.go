package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"member-portal/internal/models"
	"member-portal/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// seededCourse carries the IDs of the catalog rows created for a content
// test: one course, two modules, three lessons in module-then-position
// order
type seededCourse struct {
	productID string
	lessonIDs []string
}

// setupContentRouter mounts the member-facing content routes behind a
// middleware that injects a fixed session user, against an isolated test
// database
func setupContentRouter(t *testing.T, userID string) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := openTestDB(t)
	catalogService = services.NewCatalogServiceWith(db)
	progressService = services.NewProgressServiceWith(db)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Next()
	})
	r.GET("/api/courses/:id/lessons/:lessonId", GetLessonHandler)
	r.POST("/api/courses/:id/lessons/:lessonId/complete", CompleteLessonHandler)
	r.GET("/api/materials/:id", GetMaterialHandler)
	return r, db
}

// seedCourse creates a course with modules Basics (two lessons) and
// Advanced (one lesson), optionally granting access to a user
func seedCourse(t *testing.T, db *gorm.DB, grantTo string) seededCourse {
	t.Helper()

	course := models.Product{Name: "Course A", IsCourse: true}
	require.NoError(t, db.Create(&course).Error)

	basics := models.Module{ProductID: course.ID, Title: "Basics", Position: 1}
	advanced := models.Module{ProductID: course.ID, Title: "Advanced", Position: 2}
	require.NoError(t, db.Create(&basics).Error)
	require.NoError(t, db.Create(&advanced).Error)

	lessons := []models.Lesson{
		{ModuleID: basics.ID, Title: "First", Position: 1},
		{ModuleID: basics.ID, Title: "Second", Position: 2},
		{ModuleID: advanced.ID, Title: "Third", Position: 1},
	}
	ids := make([]string, 0, len(lessons))
	for i := range lessons {
		require.NoError(t, db.Create(&lessons[i]).Error)
		ids = append(ids, lessons[i].ID)
	}

	if grantTo != "" {
		require.NoError(t, db.Create(&models.UserProduct{
			UserID:          grantTo,
			ProductID:       course.ID,
			AccessGrantedAt: time.Now(),
		}).Error)
	}

	return seededCourse{productID: course.ID, lessonIDs: ids}
}

func getLesson(r *gin.Engine, productID, lessonID string) (*httptest.ResponseRecorder, map[string]interface{}) {
	req := httptest.NewRequest("GET", "/api/courses/"+productID+"/lessons/"+lessonID, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp struct {
		Data map[string]interface{} `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	return w, resp.Data
}

func TestGetLessonFirstOfCourseHasNoPrev(t *testing.T) {
	r, db := setupContentRouter(t, "U1")
	course := seedCourse(t, db, "U1")

	w, data := getLesson(r, course.productID, course.lessonIDs[0])
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "", data["prev_lesson_id"])
	assert.Equal(t, course.lessonIDs[1], data["next_lesson_id"])
}

func TestGetLessonLastOfCourseHasNoNext(t *testing.T) {
	r, db := setupContentRouter(t, "U1")
	course := seedCourse(t, db, "U1")

	w, data := getLesson(r, course.productID, course.lessonIDs[2])
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, course.lessonIDs[1], data["prev_lesson_id"])
	assert.Equal(t, "", data["next_lesson_id"])
}

func TestGetLessonNextCrossesModuleBoundary(t *testing.T) {
	r, db := setupContentRouter(t, "U1")
	course := seedCourse(t, db, "U1")

	// Last lesson of the first module points at the first lesson of the
	// second module
	w, data := getLesson(r, course.productID, course.lessonIDs[1])
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, course.lessonIDs[0], data["prev_lesson_id"])
	assert.Equal(t, course.lessonIDs[2], data["next_lesson_id"])
}

func TestGetLessonFromAnotherCourse(t *testing.T) {
	r, db := setupContentRouter(t, "U1")
	courseA := seedCourse(t, db, "U1")
	courseB := seedCourse(t, db, "U1")

	w, _ := getLesson(r, courseA.productID, courseB.lessonIDs[0])
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetLessonRequiresGrant(t *testing.T) {
	r, db := setupContentRouter(t, "U1")
	course := seedCourse(t, db, "someone-else")

	w, _ := getLesson(r, course.productID, course.lessonIDs[0])
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCompleteLessonMarksComplete(t *testing.T) {
	r, db := setupContentRouter(t, "U1")
	course := seedCourse(t, db, "U1")

	body, err := json.Marshal(CompleteLessonRequest{Completed: false})
	require.NoError(t, err)

	req := httptest.NewRequest("POST",
		"/api/courses/"+course.productID+"/lessons/"+course.lessonIDs[0]+"/complete",
		bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var progress models.UserProgress
	require.NoError(t, db.Where("user_id = ? AND lesson_id = ?", "U1", course.lessonIDs[0]).First(&progress).Error)
	assert.True(t, progress.Completed)
}
