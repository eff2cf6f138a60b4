package handlers

import (
	"net/http"
	"strconv"
	"time"

	"amanthos/models"
	"amanthos/services/booking"
	"amanthos/utils"

	"github.com/gin-gonic/gin"
)

// OffersHandler serves the property catalogue, offer quotes, and raw
// unit-group availability.
type OffersHandler struct {
	Bookings booking.Service
}

func NewOffersHandler(bookings booking.Service) *OffersHandler {
	return &OffersHandler{Bookings: bookings}
}

// GetPropertiesHandler returns the static house catalogue.
func (h *OffersHandler) GetPropertiesHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"properties": models.Properties})
}

// GetOffersHandler quotes categorized, priced offers for a stay.
func (h *OffersHandler) GetOffersHandler(c *gin.Context) {
	propertyID := c.Query("propertyId")
	arrival := c.Query("arrival")
	departure := c.Query("departure")
	adults := c.DefaultQuery("adults", "1")

	if !models.IsValidProperty(propertyID) {
		utils.JSONError(c, http.StatusBadRequest, "Invalid propertyId. Must be one of: GBAL, GNBE, NYAL")
		return
	}
	if arrival == "" || departure == "" {
		utils.JSONError(c, http.StatusBadRequest, "arrival and departure dates required (YYYY-MM-DD)")
		return
	}

	adultCount, err := strconv.Atoi(adults)
	if err != nil || adultCount < 1 {
		adultCount = 1
	}

	offers, err := h.Bookings.QuoteOffers(c.Request.Context(), propertyID, arrival, departure, adultCount)
	if err != nil {
		utils.JSONError(c, http.StatusBadGateway, "Could not retrieve offers. Please try again.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"property":     propertyID,
		"propertyName": models.Properties[propertyID].Name,
		"arrival":      arrival,
		"departure":    departure,
		"nights":       nightsOrZero(arrival, departure),
		"adults":       adultCount,
		"offers":       offers,
	})
}

// GetAvailabilityHandler passes unit-group availability through unchanged.
func (h *OffersHandler) GetAvailabilityHandler(c *gin.Context) {
	propertyID := c.Query("propertyId")
	if !models.IsValidProperty(propertyID) {
		utils.JSONError(c, http.StatusBadRequest, "Invalid propertyId")
		return
	}

	raw, err := h.Bookings.CheckAvailability(c.Request.Context(), propertyID, c.Query("arrival"), c.Query("departure"))
	if err != nil {
		utils.JSONError(c, http.StatusBadGateway, "Could not check availability. Please try again.")
		return
	}
	c.Data(http.StatusOK, "application/json", raw)
}

// nightsOrZero is display-only; invalid dates show as zero nights.
func nightsOrZero(arrival, departure string) int {
	arr, errA := time.Parse("2006-01-02", arrival)
	dep, errD := time.Parse("2006-01-02", departure)
	if errA != nil || errD != nil {
		return 0
	}
	return int(dep.Sub(arr).Hours() / 24)
}
