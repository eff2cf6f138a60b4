package models

// Booker carries the contact details of the person placing a booking.
type Booker struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
}

// BookingRequest is the public input for creating a booking.
type BookingRequest struct {
	PropertyID  string  `json:"propertyId"`
	RatePlanID  string  `json:"ratePlanId"`
	Arrival     string  `json:"arrival"`
	Departure   string  `json:"departure"`
	Adults      int     `json:"adults"`
	Booker      *Booker `json:"booker"`
	Comment     string  `json:"comment,omitempty"`
	TotalAmount float64 `json:"totalAmount,omitempty"`
	Currency    string  `json:"currency,omitempty"`
}

// BookingTimeSlice is one night of a reservation; Apaleo requires one per night.
type BookingTimeSlice struct {
	RatePlanID string `json:"ratePlanId"`
}

// ReservationPayload is the per-reservation part of the Apaleo booking payload.
type ReservationPayload struct {
	Arrival      string             `json:"arrival"`
	Departure    string             `json:"departure"`
	Adults       int                `json:"adults"`
	ChannelCode  string             `json:"channelCode"`
	PrimaryGuest Booker             `json:"primaryGuest"`
	TimeSlices   []BookingTimeSlice `json:"timeSlices"`
	Comment      string             `json:"comment,omitempty"`
}

// BookingPayload is the body of POST /booking/v1/bookings.
type BookingPayload struct {
	Booker       Booker               `json:"booker"`
	Reservations []ReservationPayload `json:"reservations"`
}

// BookingCreated is the subset of Apaleo's booking-creation response we read back.
// Apaleo returns "reservationIds"; older responses used "reservations".
type BookingCreated struct {
	ID             string          `json:"id"`
	ReservationIDs []ReservationID `json:"reservationIds"`
	Reservations   []ReservationID `json:"reservations"`
}

// ReservationID is an id-only reservation reference.
type ReservationID struct {
	ID string `json:"id"`
}

// FirstReservationID returns the id of the first created reservation, if any.
func (b BookingCreated) FirstReservationID() string {
	if len(b.ReservationIDs) > 0 {
		return b.ReservationIDs[0].ID
	}
	if len(b.Reservations) > 0 {
		return b.Reservations[0].ID
	}
	return ""
}

// BookingResult is what the booking service hands back to callers.
type BookingResult struct {
	BookingID     string
	ReservationID string
}
