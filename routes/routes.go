package routes

import (
	"net/http"
	"time"

	"amanthos/config"
	"amanthos/handlers"
	"amanthos/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "amanthos-website-api"})
	})
}

// RegisterAPIRoutes sets up the public guest-facing endpoints.
func RegisterAPIRoutes(r *gin.Engine, hb *handlers.HandlerBundle, limiter *middleware.RateLimiter) {
	api := r.Group("/api")
	{
		api.GET("/properties", hb.GetPropertiesHandler)
		api.GET("/offers", hb.GetOffersHandler)
		api.GET("/availability", hb.GetAvailabilityHandler)

		// Public write endpoints are rate-limited per client IP and action.
		api.POST("/bookings", limiter.Limit("booking"), hb.CreateBookingHandler)
		api.POST("/payment-link", limiter.Limit("payment_link"), hb.PaymentLinkHandler)
		api.POST("/chat", limiter.Limit("chat"), hb.ChatTurnHandler)

		// Operator-only: exposes guest PII.
		api.GET("/pending-bookings", middleware.AdminAuthMiddleware(), hb.PendingBookingsHandler)
	}
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle, limiter *middleware.RateLimiter) {
	// Only allow-listed origins get CORS; there is no wildcard fallback.
	r.Use(cors.New(cors.Config{
		AllowOrigins: config.AllowedOriginList(),
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Content-Type", "X-API-Key"},
		MaxAge:       24 * time.Hour,
	}))

	RegisterHealthRoute(r)
	RegisterAPIRoutes(r, hb, limiter)
}
