package api

import (
	"net/http"

	"member-portal/internal/database"
	"member-portal/internal/models"
	"member-portal/internal/response"

	"github.com/gin-gonic/gin"
)

// GetProfileHandler returns the session user's profile.
// GET /api/profile
func GetProfileHandler(c *gin.Context) {
	userID := c.GetString("user_id")

	profile, err := database.GetProfileByID(userID)
	if err != nil {
		response.ErrorJSON(c, http.StatusNotFound, "Profile not found")
		return
	}

	response.SuccessJSON(c, profile)
}

// UpdateProfileRequest represents an update profile request
type UpdateProfileRequest struct {
	FullName  string `json:"full_name"`
	AvatarURL string `json:"avatar_url"`
}

// UpdateProfileHandler updates the session user's profile.
// PUT /api/profile
func UpdateProfileHandler(c *gin.Context) {
	userID := c.GetString("user_id")

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorJSON(c, http.StatusBadRequest, "Invalid request format: "+err.Error())
		return
	}

	// Build update map
	updates := make(map[string]interface{})
	if req.FullName != "" {
		updates["full_name"] = req.FullName
	}
	if req.AvatarURL != "" {
		updates["avatar_url"] = req.AvatarURL
	}
	if len(updates) == 0 {
		response.ErrorJSON(c, http.StatusBadRequest, "Nothing to update")
		return
	}

	result := database.GetDB().Model(&models.Profile{}).Where("id = ?", userID).Updates(updates)
	if result.Error != nil {
		response.ErrorJSON(c, http.StatusInternalServerError, "Failed to update profile: "+result.Error.Error())
		return
	}
	if result.RowsAffected == 0 {
		response.ErrorJSON(c, http.StatusNotFound, "Profile not found")
		return
	}

	profile, err := database.GetProfileByID(userID)
	if err != nil {
		response.ErrorJSON(c, http.StatusInternalServerError, "Failed to reload profile: "+err.Error())
		return
	}

	response.SuccessJSON(c, profile)
}
