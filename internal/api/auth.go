package api

import (
	"net/http"
	"strings"

	"member-portal/internal/middleware"
	"member-portal/internal/response"

	"github.com/gin-gonic/gin"
)

// LogoutHandler drops the cached session for the caller's bearer token.
// The token itself stays owned by the identity provider; invalidating the
// cache forces the next request carrying it to re-resolve there.
// POST /api/logout
func LogoutHandler(c *gin.Context) {
	token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")

	if err := middleware.Sessions.InvalidateToken(c.Request.Context(), token); err != nil {
		response.ErrorJSON(c, http.StatusInternalServerError, "Failed to invalidate session: "+err.Error())
		return
	}

	response.SuccessJSON(c, gin.H{"logged_out": true})
}
