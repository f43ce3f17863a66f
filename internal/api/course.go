package api

import (
	"net/http"

	"member-portal/internal/database"
	"member-portal/internal/response"

	"github.com/gin-gonic/gin"
)

// GetCourseHandler returns a course with its ordered modules and lessons,
// the session user's aggregate progress, and the course materials. The
// user must hold an access grant for the product.
// GET /api/courses/:id
func GetCourseHandler(c *gin.Context) {
	userID := c.GetString("user_id")
	productID := c.Param("id")

	hasAccess, err := database.HasAccessGrant(userID, productID)
	if err != nil {
		response.ErrorJSON(c, http.StatusInternalServerError, "Failed to check access: "+err.Error())
		return
	}
	if !hasAccess {
		response.ErrorJSON(c, http.StatusForbidden, "You do not have access to this product")
		return
	}

	product, err := catalogService.GetProduct(productID)
	if err != nil || !product.IsCourse {
		response.ErrorJSON(c, http.StatusNotFound, "Course not found")
		return
	}

	modules, err := database.GetCourseModules(productID)
	if err != nil {
		response.ErrorJSON(c, http.StatusInternalServerError, "Failed to load course content: "+err.Error())
		return
	}

	progress, err := progressService.GetCourseProgress(userID, productID)
	if err != nil {
		response.ErrorJSON(c, http.StatusInternalServerError, "Failed to compute progress: "+err.Error())
		return
	}

	// Completed lesson IDs let the client mark each lesson row
	var lessonIDs []string
	for _, module := range modules {
		for _, lesson := range module.Lessons {
			lessonIDs = append(lessonIDs, lesson.ID)
		}
	}
	rows, err := database.GetUserProgressForLessons(userID, lessonIDs)
	if err != nil {
		response.ErrorJSON(c, http.StatusInternalServerError, "Failed to load progress: "+err.Error())
		return
	}
	completedIDs := make([]string, 0, len(rows))
	for _, row := range rows {
		if row.Completed {
			completedIDs = append(completedIDs, row.LessonID)
		}
	}

	materials, err := catalogService.GetCourseMaterials(productID)
	if err != nil {
		response.ErrorJSON(c, http.StatusInternalServerError, "Failed to load materials: "+err.Error())
		return
	}

	response.SuccessJSON(c, gin.H{
		"product":              product,
		"modules":              modules,
		"progress":             progress,
		"completed_lesson_ids": completedIDs,
		"materials":            materials,
	})
}
