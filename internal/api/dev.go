package api

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"member-portal/internal/config"
	"member-portal/internal/services"

	"github.com/gin-gonic/gin"
)

// SeedProductsHandler inserts the sample catalog. Debug mode only.
// POST /api/webhooks/seed-products
func SeedProductsHandler(c *gin.Context) {
	if err := catalogService.SeedSampleCatalog(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to seed products: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Sample catalog seeded",
	})
}

// samplePurchasePayload mirrors what the payment platform sends for an
// approved sale of the seeded products
func samplePurchasePayload() services.PurchasePayload {
	return services.PurchasePayload{
		Event:         "SALE_APPROVED",
		Status:        "APPROVED",
		CheckoutID:    "Q8J1N6K3",
		SaleID:        "D2RP8RQ7",
		PaymentMethod: "CREDIT_CARD",
		TotalPrice:    "R$ 169,80",
		Customer: services.PurchaseCustomer{
			Name:        "João da Silva",
			Document:    "23875090127",
			Email:       "exemplo@email.com",
			PhoneNumber: "5511987654321",
		},
		Products: []services.PurchaseProduct{
			{
				ID:        "37710ed6-2828-4a60-9495-52c81c59d73e",
				Name:      "Stock Market Fundamentals",
				Price:     "R$ 119,90",
				OfferID:   "7770e395-ea53-43ea-9c98-07be9c607dce",
				OfferName: "Stock Market Fundamentals",
			},
			{
				ID:          "201a28e2-de38-4bd4-8c56-3394a294f456",
				Name:        "Spreadsheets for Investors",
				Price:       "R$ 49,90",
				OfferID:     "25ec0384-bf31-47a3-8c32-8d10b102093a",
				OfferName:   "Spreadsheets for Investors",
				IsOrderBump: true,
			},
		},
	}
}

// TestWebhookHandler self-posts a sample approved-sale payload to the
// webhook endpoint, authenticated with the configured credentials. Debug
// mode only.
// GET /api/webhooks/test
func TestWebhookHandler(c *gin.Context) {
	payload := samplePurchasePayload()

	jsonData, err := json.Marshal(payload)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to marshal test payload: " + err.Error(),
		})
		return
	}

	webhookURL := fmt.Sprintf("http://%s/api/webhooks", c.Request.Host)
	req, err := http.NewRequest("POST", webhookURL, bytes.NewBuffer(jsonData))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to build test request: " + err.Error(),
		})
		return
	}
	req.Header.Set("Content-Type", "application/json")

	cfg := config.AppConfig
	if cfg.WebhookSigningSecret != "" {
		mac := hmac.New(sha256.New, []byte(cfg.WebhookSigningSecret))
		mac.Write(jsonData)
		req.Header.Set("X-Webhook-Signature", hex.EncodeToString(mac.Sum(nil)))
	} else if len(cfg.WebhookSecrets) > 0 {
		req.Header.Set("Authorization", "Bearer "+cfg.WebhookSecrets[0])
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to call webhook: " + err.Error(),
		})
		return
	}
	defer resp.Body.Close()

	var result map[string]interface{}
	respBody, _ := io.ReadAll(resp.Body)
	_ = json.Unmarshal(respBody, &result)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Webhook test executed",
		"status":  resp.StatusCode,
		"result":  result,
	})
}
