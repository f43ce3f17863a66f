package api

import (
	"net/http"

	"member-portal/internal/response"

	"github.com/gin-gonic/gin"
)

// GetLibraryHandler lists the catalog for the session user, each product
// flagged with whether the user may open it.
// GET /api/library?search=&tab=all|courses|ebooks|materials|accessible|blocked
func GetLibraryHandler(c *gin.Context) {
	userID := c.GetString("user_id")

	search := c.Query("search")
	tab := c.DefaultQuery("tab", "all")

	items, err := catalogService.ListProducts(userID, search, tab)
	if err != nil {
		response.ErrorJSON(c, http.StatusInternalServerError, "Failed to load library: "+err.Error())
		return
	}

	response.SuccessJSON(c, gin.H{
		"products": items,
		"tab":      tab,
	})
}
