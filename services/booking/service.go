// File: services/booking/service.go
package booking

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"amanthos/models"
	"amanthos/services/pms"

	"go.uber.org/zap"
)

// UpstreamError wraps a PMS error body. The text is for logs and fallback
// decisions only and must never be echoed to guests.
type UpstreamError struct {
	Op   string
	Body string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("booking: %s failed upstream: %s", e.Op, e.Body)
}

// DefaultBookingService implements Service on top of the PMS gateway.
type DefaultBookingService struct {
	PMS    pms.Gateway
	Logger *zap.Logger
}

func NewBookingService(gw pms.Gateway, logger *zap.Logger) *DefaultBookingService {
	return &DefaultBookingService{PMS: gw, Logger: logger}
}

// QuoteOffers fetches direct-channel offers for the stay and reduces them to
// the guest-facing categorized set.
func (s *DefaultBookingService) QuoteOffers(ctx context.Context, propertyID, arrival, departure string, adults int) ([]models.Offer, error) {
	query := url.Values{
		"propertyId":  {propertyID},
		"arrival":     {arrival},
		"departure":   {departure},
		"adults":      {strconv.Itoa(adults)},
		"channelCode": {"Direct"},
	}
	res := s.PMS.Call(ctx, "GET", "/booking/v1/offers?"+query.Encode(), nil)
	if res.Failed() {
		s.Logger.Error("Offers lookup failed", zap.String("propertyId", propertyID), zap.String("upstream", truncate(res.Err, 300)))
		return nil, &UpstreamError{Op: "offers", Body: res.Err}
	}

	var raw models.OffersResponse
	if err := res.Decode(&raw); err != nil {
		return nil, &UpstreamError{Op: "offers", Body: err.Error()}
	}
	return pms.FilterOffers(raw), nil
}

// CheckAvailability passes the unit-group availability of the PMS through unchanged.
func (s *DefaultBookingService) CheckAvailability(ctx context.Context, propertyID, from, to string) (json.RawMessage, error) {
	query := url.Values{
		"propertyId":        {propertyID},
		"from":              {from},
		"to":                {to},
		"timeSliceTemplate": {"OverNight"},
	}
	res := s.PMS.Call(ctx, "GET", "/availability/v1/unit-groups?"+query.Encode(), nil)
	if res.Failed() {
		s.Logger.Error("Availability lookup failed", zap.String("propertyId", propertyID), zap.String("upstream", truncate(res.Err, 300)))
		return nil, &UpstreamError{Op: "availability", Body: res.Err}
	}
	return json.RawMessage(res.Body), nil
}

// CreateBooking submits a direct-channel booking with one time slice per night
// and reads the booking and reservation identifiers back.
func (s *DefaultBookingService) CreateBooking(ctx context.Context, req models.BookingRequest) (*models.BookingResult, error) {
	nights := NightsBetween(req.Arrival, req.Departure)
	slices := make([]models.BookingTimeSlice, nights)
	for i := range slices {
		slices[i] = models.BookingTimeSlice{RatePlanID: req.RatePlanID}
	}

	payload := models.BookingPayload{
		Booker: *req.Booker,
		Reservations: []models.ReservationPayload{{
			Arrival:     req.Arrival,
			Departure:   req.Departure,
			Adults:      req.Adults,
			ChannelCode: "Direct",
			PrimaryGuest: models.Booker{
				FirstName: req.Booker.FirstName,
				LastName:  req.Booker.LastName,
				Email:     req.Booker.Email,
			},
			TimeSlices: slices,
			Comment:    req.Comment,
		}},
	}

	res := s.PMS.Call(ctx, "POST", "/booking/v1/bookings", payload)
	if res.Failed() {
		s.Logger.Error("Booking creation failed", zap.String("propertyId", req.PropertyID), zap.String("upstream", truncate(res.Err, 300)))
		return nil, &UpstreamError{Op: "booking", Body: res.Err}
	}

	var created models.BookingCreated
	if err := res.Decode(&created); err != nil {
		return nil, &UpstreamError{Op: "booking", Body: err.Error()}
	}

	result := &models.BookingResult{
		BookingID:     created.ID,
		ReservationID: created.FirstReservationID(),
	}
	s.Logger.Info("Booking created",
		zap.String("bookingId", result.BookingID),
		zap.String("reservationId", result.ReservationID))
	return result, nil
}

// NightsBetween returns the number of nights between two YYYY-MM-DD dates,
// never less than one. Unparseable dates count as a single night.
func NightsBetween(arrival, departure string) int {
	arr, errA := time.Parse("2006-01-02", arrival)
	dep, errD := time.Parse("2006-01-02", departure)
	if errA != nil || errD != nil {
		return 1
	}
	nights := int(dep.Sub(arr).Hours() / 24)
	if nights < 1 {
		return 1
	}
	return nights
}

// IsPromoFree reports whether a promo code covered the full amount, in which
// case no payment link is created and nothing is appended to the ledger.
func IsPromoFree(totalAmount float64, comment string) bool {
	return totalAmount <= 0 && strings.Contains(comment, "Promo:")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
