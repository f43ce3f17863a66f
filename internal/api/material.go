package api

import (
	"net/http"

	"member-portal/internal/database"
	"member-portal/internal/response"

	"github.com/gin-gonic/gin"
)

// GetMaterialHandler returns a downloadable material. Access follows the
// owning product: either the material's own product or the product of
// the lesson it is attached to.
// GET /api/materials/:id
func GetMaterialHandler(c *gin.Context) {
	userID := c.GetString("user_id")
	materialID := c.Param("id")

	material, err := catalogService.GetMaterial(materialID)
	if err != nil {
		response.ErrorJSON(c, http.StatusNotFound, "Material not found")
		return
	}

	var productID string
	switch {
	case material.ProductID != nil:
		productID = *material.ProductID
	case material.LessonID != nil:
		product, _, err := catalogService.GetProductForLesson(*material.LessonID)
		if err != nil {
			response.ErrorJSON(c, http.StatusInternalServerError, "Failed to resolve material product: "+err.Error())
			return
		}
		productID = product.ID
	default:
		response.ErrorJSON(c, http.StatusNotFound, "Material is not attached to any product")
		return
	}

	hasAccess, err := database.HasAccessGrant(userID, productID)
	if err != nil {
		response.ErrorJSON(c, http.StatusInternalServerError, "Failed to check access: "+err.Error())
		return
	}
	if !hasAccess {
		response.ErrorJSON(c, http.StatusForbidden, "You do not have access to this material")
		return
	}

	response.SuccessJSON(c, material)
}
