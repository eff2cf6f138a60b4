// File: services/assistant/tools.go
package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"amanthos/models"
	"amanthos/services/booking"

	"go.uber.org/zap"
)

// ChatTools is the fixed toolset offered to the provider on every turn.
var ChatTools = []Tool{
	{
		Name:        "get_offers",
		Description: "Get real-time availability and prices for a specific property and date range from the booking system.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"propertyId": {
					"type": "string",
					"enum": ["GBAL", "GNBE", "NYAL"],
					"description": "Property ID: GBAL (Zurich Airport), GNBE (Solothurn/Grenchen), NYAL (Nyon/Duillier)"
				},
				"arrival": {"type": "string", "description": "Check-in date in YYYY-MM-DD format"},
				"departure": {"type": "string", "description": "Check-out date in YYYY-MM-DD format"},
				"adults": {"type": "integer", "minimum": 1, "maximum": 4, "description": "Number of adult guests"}
			},
			"required": ["propertyId", "arrival", "departure", "adults"]
		}`),
	},
	{
		Name:        "create_booking",
		Description: "Create a reservation in the booking system after collecting all required guest information.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"propertyId": {"type": "string", "enum": ["GBAL", "GNBE", "NYAL"]},
				"ratePlanId": {"type": "string", "description": "The rate plan ID from get_offers"},
				"arrival": {"type": "string"},
				"departure": {"type": "string"},
				"adults": {"type": "integer", "minimum": 1},
				"firstName": {"type": "string"},
				"lastName": {"type": "string"},
				"email": {"type": "string"},
				"phone": {"type": "string"}
			},
			"required": ["propertyId", "ratePlanId", "arrival", "departure", "adults", "firstName", "lastName", "email"]
		}`),
	},
}

type getOffersInput struct {
	PropertyID string `json:"propertyId"`
	Arrival    string `json:"arrival"`
	Departure  string `json:"departure"`
	Adults     int    `json:"adults"`
}

type createBookingInput struct {
	PropertyID  string  `json:"propertyId"`
	RatePlanID  string  `json:"ratePlanId"`
	Arrival     string  `json:"arrival"`
	Departure   string  `json:"departure"`
	Adults      int     `json:"adults"`
	FirstName   string  `json:"firstName"`
	LastName    string  `json:"lastName"`
	Email       string  `json:"email"`
	Phone       string  `json:"phone"`
	TotalAmount float64 `json:"totalAmount"`
	Currency    string  `json:"currency"`
}

// ToolRunner dispatches provider-issued tool calls to the booking primitives.
// Failures are serialized back as JSON error objects so the conversation can
// continue instead of aborting the turn.
type ToolRunner struct {
	Bookings booking.Service
	Links    booking.LinkOrchestrator
	Logger   *zap.Logger
}

func NewToolRunner(bookings booking.Service, links booking.LinkOrchestrator, logger *zap.Logger) *ToolRunner {
	return &ToolRunner{Bookings: bookings, Links: links, Logger: logger}
}

// Run executes one tool call and returns its serialized result.
func (t *ToolRunner) Run(ctx context.Context, name string, input json.RawMessage) string {
	switch name {
	case "get_offers":
		return t.runGetOffers(ctx, input)
	case "create_booking":
		return t.runCreateBooking(ctx, input)
	default:
		return toolError(fmt.Sprintf("Unknown tool: %s", name))
	}
}

func (t *ToolRunner) runGetOffers(ctx context.Context, input json.RawMessage) string {
	var in getOffersInput
	if err := json.Unmarshal(input, &in); err != nil {
		return toolError("invalid get_offers input: " + err.Error())
	}

	offers, err := t.Bookings.QuoteOffers(ctx, in.PropertyID, in.Arrival, in.Departure, in.Adults)
	if err != nil {
		return toolError(upstreamText(err))
	}

	out, _ := json.Marshal(map[string]any{
		"offers":    offers,
		"property":  in.PropertyID,
		"arrival":   in.Arrival,
		"departure": in.Departure,
	})
	return string(out)
}

func (t *ToolRunner) runCreateBooking(ctx context.Context, input json.RawMessage) string {
	var in createBookingInput
	if err := json.Unmarshal(input, &in); err != nil {
		return toolError("invalid create_booking input: " + err.Error())
	}

	result, err := t.Bookings.CreateBooking(ctx, models.BookingRequest{
		PropertyID: in.PropertyID,
		RatePlanID: in.RatePlanID,
		Arrival:    in.Arrival,
		Departure:  in.Departure,
		Adults:     in.Adults,
		Booker: &models.Booker{
			FirstName: in.FirstName,
			LastName:  in.LastName,
			Email:     in.Email,
			Phone:     in.Phone,
		},
	})
	if err != nil {
		return toolError(upstreamText(err))
	}

	response := map[string]any{
		"success":        true,
		"confirmationId": result.BookingID,
		"reservationId":  result.ReservationID,
	}

	// Chat bookings rarely carry amount info; a zero amount routes the
	// orchestrator to the account-level fallback.
	if result.ReservationID != "" || result.BookingID != "" {
		link, err := t.Links.CreatePaymentLink(ctx, booking.LinkRequest{
			ReservationID: result.ReservationID,
			BookingID:     result.BookingID,
			PropertyID:    in.PropertyID,
			PayerEmail:    in.Email,
			Amount:        in.TotalAmount,
			Currency:      in.Currency,
		})
		if err != nil {
			t.Logger.Warn("Chat booking payment link failed", zap.Error(err))
		} else if link != nil && link.URL != "" {
			response["paymentLink"] = link.URL
		}
	}

	out, _ := json.Marshal(response)
	return string(out)
}

func toolError(detail string) string {
	out, _ := json.Marshal(map[string]string{"error": detail})
	return string(out)
}

// upstreamText extracts the raw upstream error body for the provider to see.
// This text goes back into the model conversation, never to the guest.
func upstreamText(err error) string {
	var ue *booking.UpstreamError
	if errors.As(err, &ue) {
		return ue.Body
	}
	return err.Error()
}
