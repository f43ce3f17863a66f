package api

import (
	"member-portal/internal/middleware"
	"member-portal/internal/services"

	"github.com/gin-gonic/gin"
)

// Shared service instances for the handlers in this package
var (
	purchaseService *services.PurchaseService
	progressService *services.ProgressService
	catalogService  *services.CatalogService
	statsService    *services.StatsService
)

// InitHandlers initializes the handler services
func InitHandlers() {
	purchaseService = services.NewPurchaseService()
	progressService = services.NewProgressService()
	catalogService = services.NewCatalogService()
	statsService = services.NewStatsService()
}

// SetupRoutes sets up all routes
func SetupRoutes(r *gin.Engine) {
	// Initialize session resolution and handler services
	middleware.InitSessionService()
	InitHandlers()

	// API route group
	api := r.Group("/api")
	{
		// Payment platform webhook (authenticated by shared secret or
		// body signature, not by a user session)
		webhooks := api.Group("/webhooks")
		{
			webhooks.POST("", middleware.WebhookAuthMiddleware(), PurchaseWebhookHandler)

			// Development helpers, never mounted in release mode
			if gin.Mode() == gin.DebugMode {
				webhooks.GET("/test", TestWebhookHandler)
				webhooks.POST("/seed-products", SeedProductsHandler)
			}
		}

		// Member-facing routes (require a session)
		dashboard := api.Group("")
		dashboard.Use(middleware.SessionAuthMiddleware())
		{
			dashboard.GET("/library", GetLibraryHandler)
			dashboard.GET("/courses/:id", GetCourseHandler)
			dashboard.GET("/courses/:id/lessons/:lessonId", GetLessonHandler)
			dashboard.POST("/courses/:id/lessons/:lessonId/complete", CompleteLessonHandler)
			dashboard.GET("/materials/:id", GetMaterialHandler)
			dashboard.GET("/profile", GetProfileHandler)
			dashboard.PUT("/profile", UpdateProfileHandler)
			dashboard.POST("/logout", LogoutHandler)
		}

		// Admin routes (require a session; role checks belong to the
		// identity provider)
		admin := api.Group("/admin")
		admin.Use(middleware.SessionAuthMiddleware())
		{
			admin.GET("/stats", GetPlatformStatsHandler)
		}
	}

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": "member-portal",
		})
	})
}
