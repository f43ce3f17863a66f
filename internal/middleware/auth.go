package middleware

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"io"
	"net/http"
	"strings"
	"time"

	"member-portal/internal/config"
	"member-portal/internal/response"
	"member-portal/internal/services"
	"member-portal/pkg/logging"

	"github.com/gin-gonic/gin"
)

var Sessions *services.SessionService

// InitSessionService initializes the shared session service
func InitSessionService() {
	Sessions = services.NewSessionService()
}

// SessionAuthMiddleware resolves the bearer session token to a user and
// stores user_id / user_email in the request context
func SessionAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Missing session token"))
			c.Abort()
			return
		}

		user, err := Sessions.GetUserForToken(c.Request.Context(), token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Invalid session token"))
			c.Abort()
			return
		}

		c.Set("user_id", user.ID)
		c.Set("user_email", user.Email)
		c.Set("request_time", time.Now())
		c.Next()
	}
}

// WebhookAuthMiddleware authenticates inbound payment-platform calls.
// With a signing secret configured it requires a valid HMAC-SHA256 body
// signature; otherwise it falls back to a shared bearer secret from
// config. There is no built-in default secret: an empty configuration
// rejects everything.
func WebhookAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		cfg := config.AppConfig

		if cfg.WebhookSigningSecret != "" {
			body, err := c.GetRawData()
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read request body"})
				c.Abort()
				return
			}
			// Handlers downstream still need the body
			c.Request.Body = io.NopCloser(bytes.NewBuffer(body))

			signature := c.GetHeader("X-Webhook-Signature")
			if signature == "" || !verifySignature(body, cfg.WebhookSigningSecret, signature) {
				logging.Errorf("Webhook rejected: bad or missing signature")
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid signature"})
				c.Abort()
				return
			}
			c.Next()
			return
		}

		token := bearerToken(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		if !matchesSecret(token, cfg.WebhookSecrets) {
			logging.Errorf("Webhook rejected: invalid token")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		c.Next()
	}
}

// bearerToken extracts the token from an Authorization: Bearer header
func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(header, "Bearer ")
}

// matchesSecret compares the token against every accepted secret in
// constant time
func matchesSecret(token string, secrets []string) bool {
	matched := false
	for _, secret := range secrets {
		if subtle.ConstantTimeCompare([]byte(token), []byte(secret)) == 1 {
			matched = true
		}
	}
	return matched
}

// verifySignature checks an HMAC-SHA256 hex signature over the raw body
func verifySignature(body []byte, secret, signature string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)

	provided, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}
	return hmac.Equal(provided, mac.Sum(nil))
}
