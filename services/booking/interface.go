// File: services/booking/interface.go
package booking

import (
	"context"
	"encoding/json"

	"amanthos/models"
)

// Service quotes availability and creates bookings against the PMS.
type Service interface {
	QuoteOffers(ctx context.Context, propertyID, arrival, departure string, adults int) ([]models.Offer, error)
	CheckAvailability(ctx context.Context, propertyID, from, to string) (json.RawMessage, error)
	CreateBooking(ctx context.Context, req models.BookingRequest) (*models.BookingResult, error)
}

// LinkRequest identifies the target of a payment link and the amount to collect.
// Either ReservationID or BookingID must be set.
type LinkRequest struct {
	ReservationID string
	BookingID     string
	PropertyID    string
	PayerEmail    string
	Amount        float64
	Currency      string
}

// LinkOrchestrator produces a guest-payable URL for a reservation or booking.
// A nil link with a nil error means no link could be produced; the booking
// still stands and the guest is offered a retry.
type LinkOrchestrator interface {
	CreatePaymentLink(ctx context.Context, req LinkRequest) (*models.PaymentLink, error)
}

// PendingLedger records bookings awaiting payment for the external reminder job.
type PendingLedger interface {
	Append(rec models.PendingBooking) error
	Load() ([]models.PendingBooking, error)
}
