package api

import (
	"errors"
	"net/http"

	"member-portal/internal/database"
	"member-portal/internal/models"
	"member-portal/internal/response"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GetLessonHandler returns a lesson with its materials, the user's
// progress row, and the previous/next lessons in course order.
// GET /api/courses/:id/lessons/:lessonId
func GetLessonHandler(c *gin.Context) {
	userID := c.GetString("user_id")
	productID := c.Param("id")
	lessonID := c.Param("lessonId")

	hasAccess, err := database.HasAccessGrant(userID, productID)
	if err != nil {
		response.ErrorJSON(c, http.StatusInternalServerError, "Failed to check access: "+err.Error())
		return
	}
	if !hasAccess {
		response.ErrorJSON(c, http.StatusForbidden, "You do not have access to this product")
		return
	}

	product, lesson, err := catalogService.GetProductForLesson(lessonID)
	if err != nil || product.ID != productID {
		response.ErrorJSON(c, http.StatusNotFound, "Lesson not found")
		return
	}

	var progress *models.UserProgress
	progress, err = database.GetUserProgress(userID, lessonID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			response.ErrorJSON(c, http.StatusInternalServerError, "Failed to load progress: "+err.Error())
			return
		}
		progress = nil
	}

	materials, err := catalogService.GetLessonMaterials(lessonID)
	if err != nil {
		response.ErrorJSON(c, http.StatusInternalServerError, "Failed to load materials: "+err.Error())
		return
	}

	// Previous/next in module-then-position order
	sequence, err := catalogService.GetCourseLessonSequence(productID)
	if err != nil {
		response.ErrorJSON(c, http.StatusInternalServerError, "Failed to load course sequence: "+err.Error())
		return
	}
	var prevID, nextID string
	for i, item := range sequence {
		if item.ID == lessonID {
			if i > 0 {
				prevID = sequence[i-1].ID
			}
			if i < len(sequence)-1 {
				nextID = sequence[i+1].ID
			}
			break
		}
	}

	response.SuccessJSON(c, gin.H{
		"lesson":         lesson,
		"progress":       progress,
		"materials":      materials,
		"prev_lesson_id": prevID,
		"next_lesson_id": nextID,
	})
}

// CompleteLessonRequest carries the client's last-known completion state
type CompleteLessonRequest struct {
	Completed bool `json:"completed"`
}

// CompleteLessonHandler toggles lesson completion for the session user.
// POST /api/courses/:id/lessons/:lessonId/complete
func CompleteLessonHandler(c *gin.Context) {
	userID := c.GetString("user_id")
	productID := c.Param("id")
	lessonID := c.Param("lessonId")

	hasAccess, err := database.HasAccessGrant(userID, productID)
	if err != nil {
		response.ErrorJSON(c, http.StatusInternalServerError, "Failed to check access: "+err.Error())
		return
	}
	if !hasAccess {
		response.ErrorJSON(c, http.StatusForbidden, "You do not have access to this product")
		return
	}

	var req CompleteLessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorJSON(c, http.StatusBadRequest, "Invalid request format: "+err.Error())
		return
	}

	progress, err := progressService.SetCompletion(userID, lessonID, req.Completed)
	if err != nil {
		response.ErrorJSON(c, http.StatusInternalServerError, "Failed to update progress: "+err.Error())
		return
	}

	response.SuccessJSON(c, progress)
}
