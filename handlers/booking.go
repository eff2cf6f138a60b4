package handlers

import (
	"net/http"
	"time"

	"amanthos/models"
	"amanthos/services/booking"
	"amanthos/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingHandler creates bookings and issues payment links.
type BookingHandler struct {
	Bookings booking.Service
	Links    booking.LinkOrchestrator
	Ledger   booking.PendingLedger
	Logger   *zap.Logger
}

func NewBookingHandler(bookings booking.Service, links booking.LinkOrchestrator, ledger booking.PendingLedger, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{Bookings: bookings, Links: links, Ledger: ledger, Logger: logger}
}

// CreateBookingHandler submits the booking, then attempts a payment link. A
// missing link is not a failure: the booking stands and the guest gets a
// retry affordance.
func (h *BookingHandler) CreateBookingHandler(c *gin.Context) {
	var req models.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	if !models.IsValidProperty(req.PropertyID) {
		utils.JSONError(c, http.StatusBadRequest, "Invalid propertyId")
		return
	}
	if msg := validateBookingRequest(req); msg != "" {
		utils.JSONError(c, http.StatusBadRequest, msg)
		return
	}

	result, err := h.Bookings.CreateBooking(c.Request.Context(), req)
	if err != nil {
		utils.JSONError(c, http.StatusBadGateway, "Booking could not be created. Please try again or contact info@amanthosliving.com.")
		return
	}

	currency := req.Currency
	if currency == "" {
		currency = "CHF"
	}
	isFree := booking.IsPromoFree(req.TotalAmount, req.Comment)
	if isFree {
		h.Logger.Info("Free booking via promo code, skipping payment link", zap.String("bookingId", result.BookingID))
	}

	var link *models.PaymentLink
	if !isFree && (result.ReservationID != "" || result.BookingID != "") {
		link, err = h.Links.CreatePaymentLink(c.Request.Context(), booking.LinkRequest{
			ReservationID: result.ReservationID,
			BookingID:     result.BookingID,
			PropertyID:    req.PropertyID,
			PayerEmail:    req.Booker.Email,
			Amount:        req.TotalAmount,
			Currency:      currency,
		})
		if err != nil {
			h.Logger.Error("Payment link creation errored", zap.String("bookingId", result.BookingID), zap.Error(err))
		}
	}

	response := gin.H{
		"success":        true,
		"confirmationId": result.BookingID,
		"reservationId":  result.ReservationID,
		"propertyId":     req.PropertyID,
	}

	switch {
	case isFree:
		response["paymentRequired"] = false
		response["paymentLink"] = nil
		response["message"] = "Your reservation is confirmed! No payment required — your promo code covers the full amount."
	case link != nil && link.URL != "":
		response["paymentRequired"] = true
		response["paymentLink"] = link.URL
		response["paymentLinkExpiresAt"] = link.ExpiresAt
		response["message"] = "Your reservation has been created but is NOT yet confirmed. Please complete the payment to confirm your booking."
		h.trackPendingBooking(result, req, link.URL, currency)
	default:
		h.Logger.Warn("No payment link generated for booking", zap.String("bookingId", result.BookingID))
		response["paymentRequired"] = true
		response["paymentLink"] = nil
		response["message"] = "Your reservation has been created but the payment link could not be generated. Please use the retry button or contact us."
	}

	c.JSON(http.StatusCreated, response)
}

// PaymentLinkHandler regenerates a payment link for an existing booking.
func (h *BookingHandler) PaymentLinkHandler(c *gin.Context) {
	var req struct {
		BookingID     string  `json:"bookingId"`
		ReservationID string  `json:"reservationId"`
		PropertyID    string  `json:"propertyId"`
		Email         string  `json:"email"`
		TotalAmount   float64 `json:"totalAmount"`
		Currency      string  `json:"currency"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	if req.PropertyID == "" || req.Email == "" {
		utils.JSONError(c, http.StatusBadRequest, "Missing required fields: propertyId, email")
		return
	}
	if req.BookingID == "" && req.ReservationID == "" {
		utils.JSONError(c, http.StatusBadRequest, "Missing required field: bookingId or reservationId")
		return
	}
	if !models.IsValidProperty(req.PropertyID) {
		utils.JSONError(c, http.StatusBadRequest, "Invalid propertyId")
		return
	}

	link, err := h.Links.CreatePaymentLink(c.Request.Context(), booking.LinkRequest{
		ReservationID: req.ReservationID,
		BookingID:     req.BookingID,
		PropertyID:    req.PropertyID,
		PayerEmail:    req.Email,
		Amount:        req.TotalAmount,
		Currency:      req.Currency,
	})
	if err != nil {
		h.Logger.Error("Payment link retry errored", zap.Error(err))
	}
	if link == nil || link.URL == "" {
		utils.JSONError(c, http.StatusBadGateway, "Failed to generate payment link. Please contact info@amanthosliving.com.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"paymentLink": link.URL,
		"expiresAt":   link.ExpiresAt,
	})
}

func (h *BookingHandler) trackPendingBooking(result *models.BookingResult, req models.BookingRequest, linkURL, currency string) {
	rec := models.PendingBooking{
		BookingID:     result.BookingID,
		ReservationID: result.ReservationID,
		PropertyID:    req.PropertyID,
		Email:         req.Booker.Email,
		FirstName:     req.Booker.FirstName,
		LastName:      req.Booker.LastName,
		PaymentLink:   linkURL,
		Amount:        req.TotalAmount,
		Currency:      currency,
		CreatedAt:     time.Now().UTC(),
		Status:        models.StatusPendingPayment,
	}
	if err := h.Ledger.Append(rec); err != nil {
		h.Logger.Error("Failed to record pending booking", zap.String("bookingId", result.BookingID), zap.Error(err))
	}
}

func validateBookingRequest(req models.BookingRequest) string {
	switch {
	case req.RatePlanID == "":
		return "Missing required field: ratePlanId"
	case req.Arrival == "":
		return "Missing required field: arrival"
	case req.Departure == "":
		return "Missing required field: departure"
	case req.Adults < 1:
		return "Missing required field: adults"
	case req.Booker == nil:
		return "Missing required field: booker"
	case req.Booker.FirstName == "":
		return "Missing booker field: firstName"
	case req.Booker.LastName == "":
		return "Missing booker field: lastName"
	case req.Booker.Email == "":
		return "Missing booker field: email"
	}
	return ""
}
