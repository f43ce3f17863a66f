package api

import (
	"net/http"

	"member-portal/internal/response"

	"github.com/gin-gonic/gin"
)

// GetPlatformStatsHandler returns the admin dashboard counters.
// GET /api/admin/stats
func GetPlatformStatsHandler(c *gin.Context) {
	stats, err := statsService.GetPlatformStats()
	if err != nil {
		response.ErrorJSON(c, http.StatusInternalServerError, "Failed to load stats: "+err.Error())
		return
	}

	response.SuccessJSON(c, stats)
}
