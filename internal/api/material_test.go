package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"member-portal/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getMaterial(r *gin.Engine, materialID string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", "/api/materials/"+materialID, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGetMaterialAttachedToLesson(t *testing.T) {
	r, db := setupContentRouter(t, "U1")
	course := seedCourse(t, db, "U1")

	material := models.Material{
		LessonID: &course.lessonIDs[0],
		Title:    "Workbook",
		FileURL:  "https://example.com/workbook.pdf",
		FileType: "PDF",
	}
	require.NoError(t, db.Create(&material).Error)

	w := getMaterial(r, material.ID)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetMaterialAttachedToProduct(t *testing.T) {
	r, db := setupContentRouter(t, "U1")
	course := seedCourse(t, db, "U1")

	material := models.Material{
		ProductID: &course.productID,
		Title:     "Slides",
		FileURL:   "https://example.com/slides.pdf",
		FileType:  "PDF",
	}
	require.NoError(t, db.Create(&material).Error)

	w := getMaterial(r, material.ID)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetMaterialWithoutOwnerIsNotFound(t *testing.T) {
	r, db := setupContentRouter(t, "U1")
	seedCourse(t, db, "U1")

	// Attached to neither a product nor a lesson
	material := models.Material{
		Title:    "Orphan",
		FileURL:  "https://example.com/orphan.pdf",
		FileType: "PDF",
	}
	require.NoError(t, db.Create(&material).Error)

	w := getMaterial(r, material.ID)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetMaterialRequiresGrant(t *testing.T) {
	r, db := setupContentRouter(t, "U1")
	course := seedCourse(t, db, "someone-else")

	material := models.Material{
		LessonID: &course.lessonIDs[0],
		Title:    "Workbook",
		FileURL:  "https://example.com/workbook.pdf",
		FileType: "PDF",
	}
	require.NoError(t, db.Create(&material).Error)

	w := getMaterial(r, material.ID)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestGetMaterialUnknownID(t *testing.T) {
	r, _ := setupContentRouter(t, "U1")

	w := getMaterial(r, "no-such-material")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
