package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"member-portal/internal/services"
	"member-portal/pkg/logging"

	"github.com/gin-gonic/gin"
)

// PurchaseWebhookHandler ingests purchase notifications from the payment
// platform and provisions product access.
// POST /api/webhooks
func PurchaseWebhookHandler(c *gin.Context) {
	startTime := time.Now()

	// Read raw body; it is stored verbatim for audit
	body, err := c.GetRawData()
	if err != nil {
		logging.Errorf("Failed to read webhook body: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Failed to read request body",
		})
		return
	}

	var payload services.PurchasePayload
	if err := json.Unmarshal(body, &payload); err != nil {
		logging.Errorf("Failed to parse purchase payload: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid payload format",
		})
		return
	}

	// Only approved sales provision anything; everything else is
	// acknowledged without side effects
	if !payload.Approved() {
		logging.Infof("Webhook ignored - status: %q", payload.Status)
		c.JSON(http.StatusOK, gin.H{
			"success": false,
			"message": "Webhook ignored: status is not APPROVED",
		})
		return
	}

	event, err := purchaseService.ProcessPurchase(body, &payload)
	if err != nil {
		logging.Errorf("Failed to process purchase webhook: %v", err)
		status := http.StatusInternalServerError
		message := "Internal server error"
		if errors.Is(err, services.ErrMissingCustomerEmail) {
			message = "Incomplete customer data"
		}
		c.JSON(status, gin.H{
			"error":   message,
			"message": err.Error(),
		})
		return
	}

	logging.Infof("Purchase webhook processed - event: %s, time: %v", event.ID, time.Since(startTime))

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"message":  "Webhook processed successfully",
		"event_id": event.ID,
	})
}
