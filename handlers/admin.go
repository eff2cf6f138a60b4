package handlers

import (
	"net/http"

	"amanthos/services/booking"
	"amanthos/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AdminHandler exposes operator-only views; access is gated by the
// shared-secret middleware, not here.
type AdminHandler struct {
	Ledger booking.PendingLedger
	Logger *zap.Logger
}

func NewAdminHandler(ledger booking.PendingLedger, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{Ledger: ledger, Logger: logger}
}

// PendingBookingsHandler lists bookings still awaiting payment.
func (h *AdminHandler) PendingBookingsHandler(c *gin.Context) {
	records, err := h.Ledger.Load()
	if err != nil {
		h.Logger.Error("Failed to load pending bookings", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Could not load pending bookings")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"pendingBookings": records,
		"count":           len(records),
	})
}
