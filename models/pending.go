package models

import "time"

// Pending-booking statuses. The reminder job owns the terminal transitions;
// this service only ever appends records in StatusPendingPayment.
const StatusPendingPayment = "pending_payment"

// PendingBooking is one entry of the payment-reminder ledger. The file is
// shared with the external reminder/cancellation job, which flips the sent
// flags and the status; field names are part of that contract.
type PendingBooking struct {
	BookingID      string     `json:"bookingId"`
	ReservationID  string     `json:"reservationId"`
	PropertyID     string     `json:"propertyId"`
	Email          string     `json:"email"`
	FirstName      string     `json:"firstName"`
	LastName       string     `json:"lastName"`
	PaymentLink    string     `json:"paymentLink"`
	Amount         float64    `json:"amount"`
	Currency       string     `json:"currency"`
	CreatedAt      time.Time  `json:"createdAt"`
	ReminderSent   bool       `json:"reminderSent"`
	ReminderSentAt *time.Time `json:"reminderSentAt"`
	WarningSent    bool       `json:"warningSent"`
	WarningSentAt  *time.Time `json:"warningSentAt"`
	Status         string     `json:"status"`
}
