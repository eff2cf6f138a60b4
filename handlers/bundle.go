package handlers

import "github.com/gin-gonic/gin"

// HandlerBundle groups all route handlers for registration.
type HandlerBundle struct {
	// Catalogue and quoting endpoints.
	GetPropertiesHandler   gin.HandlerFunc
	GetOffersHandler       gin.HandlerFunc
	GetAvailabilityHandler gin.HandlerFunc

	// Booking and payment endpoints.
	CreateBookingHandler gin.HandlerFunc
	PaymentLinkHandler   gin.HandlerFunc

	// Chat assistant endpoint.
	ChatTurnHandler gin.HandlerFunc

	// Admin endpoints.
	PendingBookingsHandler gin.HandlerFunc
}
