// File: services/booking/paymentlink.go
package booking

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"amanthos/models"
	"amanthos/services/pms"

	"go.uber.org/zap"
)

// ErrInvalidTarget is returned when neither a reservation nor a booking id is given.
var ErrInvalidTarget = errors.New("payment link: reservation or booking id required")

const (
	linkExpiry         = 72 * time.Hour
	linkCountryCode    = "CH"
	linkDescription    = "Payment for your stay at Amanthos Living"
	paymentLinkType    = "PaymentLink"
	paymentStatusValue = "Pending"
)

// DefaultLinkOrchestrator produces guest-payable URLs despite the PMS exposing
// two unrelated link-creation mechanisms, eventually-consistent URL
// materialization, and no idempotency guarantee. Each invocation is
// re-entrant; retried calls recover existing pending links instead of
// stacking duplicates.
type DefaultLinkOrchestrator struct {
	PMS    pms.Gateway
	Logger *zap.Logger

	// Injectable for tests; production uses time.Sleep / time.Now.
	Sleep func(time.Duration)
	Now   func() time.Time
}

func NewLinkOrchestrator(gw pms.Gateway, logger *zap.Logger) *DefaultLinkOrchestrator {
	return &DefaultLinkOrchestrator{
		PMS:    gw,
		Logger: logger,
		Sleep:  time.Sleep,
		Now:    time.Now,
	}
}

// CreatePaymentLink runs the folio-first strategy: only the folio path can
// show the amount owed on the payment page, so it is preferred; the
// account-level fallback covers reservations without an accessible folio.
// A (nil, nil) return means "payment link unavailable" - the booking stands
// and the guest is offered a retry.
func (o *DefaultLinkOrchestrator) CreatePaymentLink(ctx context.Context, req LinkRequest) (*models.PaymentLink, error) {
	if req.ReservationID == "" && req.BookingID == "" {
		return nil, ErrInvalidTarget
	}

	expiresAt := o.Now().UTC().Add(linkExpiry).Format("2006-01-02T15:04:05Z")

	if link := o.tryFolioLink(ctx, req, expiresAt); link != nil {
		return link, nil
	}

	return o.tryAccountLink(ctx, req, expiresAt), nil
}

// tryFolioLink creates a payment-by-link against the reservation's folio.
func (o *DefaultLinkOrchestrator) tryFolioLink(ctx context.Context, req LinkRequest, expiresAt string) *models.PaymentLink {
	if req.ReservationID == "" {
		return nil
	}

	folioID := o.findFolio(ctx, req.ReservationID)
	if folioID == "" {
		return nil
	}

	amount, currency := req.Amount, currencyOrCHF(req.Currency)
	if amount <= 0 {
		amount, currency = o.folioBalanceOwed(ctx, folioID, currency)
	}
	if amount <= 0 {
		return nil
	}

	payload := models.FolioPaymentPayload{
		Amount:      models.MonetaryAmount{Amount: round2(amount), Currency: currency},
		ExpiresAt:   expiresAt,
		CountryCode: linkCountryCode,
		Description: linkDescription,
		PayerEmail:  req.PayerEmail,
	}
	o.Logger.Info("Creating folio payment link",
		zap.String("reservationId", req.ReservationID),
		zap.String("folioId", folioID),
		zap.Float64("amount", amount),
		zap.String("currency", currency))

	path := fmt.Sprintf("/finance/v1/folios/%s/payments/by-link", folioID)
	res := o.PMS.Call(ctx, "POST", path, payload)
	if res.Failed() {
		o.Logger.Warn("Folio payment link failed", zap.String("upstream", truncate(res.Err, 300)))
		if linkAlreadyExists(res.Err) {
			return o.findPendingFolioPayment(ctx, folioID, expiresAt)
		}
		return nil
	}

	var created struct {
		ID string `json:"id"`
	}
	if err := res.Decode(&created); err != nil || created.ID == "" {
		return nil
	}

	// The PMS answers "created" before the payment page URL exists; a couple
	// of delayed re-reads trade latency for correctness without unbounded
	// blocking.
	url := o.pollFolioPaymentURL(ctx, folioID, created.ID)
	if url == "" {
		return nil
	}
	return &models.PaymentLink{URL: url, ExpiresAt: expiresAt, Status: paymentStatusValue}
}

// findFolio prefers the main open folio, falling back to any returned one.
func (o *DefaultLinkOrchestrator) findFolio(ctx context.Context, reservationID string) string {
	res := o.PMS.Call(ctx, "GET", "/finance/v1/folios?reservationIds="+reservationID, nil)
	if res.Failed() {
		o.Logger.Warn("Folio lookup failed", zap.String("upstream", truncate(res.Err, 200)))
		return ""
	}
	var list models.FolioListResponse
	if err := res.Decode(&list); err != nil {
		return ""
	}
	for _, f := range list.Folios {
		if f.IsMainFolio && f.Status == "Open" {
			return f.ID
		}
	}
	if len(list.Folios) > 0 {
		return list.Folios[0].ID
	}
	return ""
}

// folioBalanceOwed fetches the folio balance; the guest owes money only when
// the balance is negative.
func (o *DefaultLinkOrchestrator) folioBalanceOwed(ctx context.Context, folioID, currency string) (float64, string) {
	res := o.PMS.Call(ctx, "GET", "/finance/v1/folios/"+folioID, nil)
	if res.Failed() {
		return 0, currency
	}
	var folio models.Folio
	if err := res.Decode(&folio); err != nil || folio.Balance == nil {
		return 0, currency
	}
	if folio.Balance.Amount < 0 {
		o.Logger.Info("Amount taken from folio balance",
			zap.Float64("amount", math.Abs(folio.Balance.Amount)),
			zap.String("currency", folio.Balance.Currency))
		return math.Abs(folio.Balance.Amount), currencyOrCHF(folio.Balance.Currency)
	}
	return 0, currency
}

// pollFolioPaymentURL re-reads the payment until its URL materializes: once
// after 1s, and a final time after a further 2s.
func (o *DefaultLinkOrchestrator) pollFolioPaymentURL(ctx context.Context, folioID, paymentID string) string {
	path := fmt.Sprintf("/finance/v1/folios/%s/payments/%s", folioID, paymentID)

	o.Sleep(1 * time.Second)
	if url := o.fetchFolioPaymentURL(ctx, path); url != "" {
		return url
	}

	o.Sleep(2 * time.Second)
	return o.fetchFolioPaymentURL(ctx, path)
}

func (o *DefaultLinkOrchestrator) fetchFolioPaymentURL(ctx context.Context, path string) string {
	res := o.PMS.Call(ctx, "GET", path, nil)
	if res.Failed() {
		return ""
	}
	var payment models.FolioPayment
	if err := res.Decode(&payment); err != nil {
		return ""
	}
	return payment.URL
}

// findPendingFolioPayment recovers the URL of an already-created link when the
// PMS rejects a duplicate submission.
func (o *DefaultLinkOrchestrator) findPendingFolioPayment(ctx context.Context, folioID, expiresAt string) *models.PaymentLink {
	res := o.PMS.Call(ctx, "GET", fmt.Sprintf("/finance/v1/folios/%s/payments", folioID), nil)
	if res.Failed() {
		return nil
	}
	var list models.FolioPaymentList
	if err := res.Decode(&list); err != nil {
		return nil
	}
	for _, p := range list.Payments {
		if p.Status == paymentStatusValue && p.Type == paymentLinkType && p.URL != "" {
			o.Logger.Info("Recovered existing folio payment link", zap.String("folioId", folioID))
			exp := p.ExpiresAt
			if exp == "" {
				exp = expiresAt
			}
			return &models.PaymentLink{URL: p.URL, ExpiresAt: exp, Status: paymentStatusValue}
		}
	}
	return nil
}

// tryAccountLink is the account-level fallback. It shows no amount on the
// payment page but works for targets without an accessible folio.
func (o *DefaultLinkOrchestrator) tryAccountLink(ctx context.Context, req LinkRequest, expiresAt string) *models.PaymentLink {
	target := models.PaymentAccountTarget{Type: "Reservation", ID: req.ReservationID}
	if req.ReservationID == "" {
		target = models.PaymentAccountTarget{Type: "Booking", ID: req.BookingID}
	}
	o.Logger.Info("Falling back to payment-account link",
		zap.String("targetType", target.Type), zap.String("targetId", target.ID))

	payload := models.PaymentAccountPayload{
		Target:      target,
		PropertyID:  req.PropertyID,
		ExpiresAt:   expiresAt,
		CountryCode: linkCountryCode,
		Description: linkDescription,
		PayerEmail:  req.PayerEmail,
	}

	res := o.PMS.Call(ctx, "POST", "/booking/v1/payment-accounts/by-link", payload)
	if res.Failed() {
		o.Logger.Warn("Payment account link failed", zap.String("upstream", truncate(res.Err, 300)))
		if linkAlreadyExists(res.Err) {
			return o.findPendingAccount(ctx, req, expiresAt)
		}
		return nil
	}

	var account models.PaymentAccount
	if err := res.Decode(&account); err != nil {
		return nil
	}

	url := ""
	if account.ID != "" {
		url = o.pollAccountURL(ctx, account.ID)
	}
	if url == "" {
		url = account.LinkURL()
	}
	if url == "" {
		return nil
	}
	return &models.PaymentLink{URL: url, ExpiresAt: expiresAt, Status: paymentStatusValue}
}

// pollAccountURL re-reads the payment account until its link URL materializes:
// once after 1.5s, and a final time after a further 2s.
func (o *DefaultLinkOrchestrator) pollAccountURL(ctx context.Context, accountID string) string {
	path := "/booking/v1/payment-accounts/" + accountID

	o.Sleep(1500 * time.Millisecond)
	if url := o.fetchAccountURL(ctx, path); url != "" {
		return url
	}

	o.Sleep(2 * time.Second)
	return o.fetchAccountURL(ctx, path)
}

func (o *DefaultLinkOrchestrator) fetchAccountURL(ctx context.Context, path string) string {
	res := o.PMS.Call(ctx, "GET", path, nil)
	if res.Failed() {
		return ""
	}
	var account models.PaymentAccount
	if err := res.Decode(&account); err != nil {
		return ""
	}
	return account.LinkURL()
}

// findPendingAccount recovers the URL of an already-pending payment account
// for the same target.
func (o *DefaultLinkOrchestrator) findPendingAccount(ctx context.Context, req LinkRequest, expiresAt string) *models.PaymentLink {
	query := "reservationIds=" + req.ReservationID
	if req.ReservationID == "" {
		query = "bookingId=" + req.BookingID
	}
	res := o.PMS.Call(ctx, "GET", "/booking/v1/payment-accounts?"+query, nil)
	if res.Failed() {
		return nil
	}
	var list models.PaymentAccountList
	if err := res.Decode(&list); err != nil {
		return nil
	}
	for _, acc := range list.PaymentAccounts {
		if acc.Status == paymentStatusValue && acc.LinkURL() != "" {
			o.Logger.Info("Recovered existing payment account link", zap.String("targetId", acc.ID))
			exp := expiresAt
			if acc.PaymentLink != nil && acc.PaymentLink.ExpiresAt != "" {
				exp = acc.PaymentLink.ExpiresAt
			}
			return &models.PaymentLink{URL: acc.LinkURL(), ExpiresAt: exp, Status: paymentStatusValue}
		}
	}
	return nil
}

// linkAlreadyExists reports whether the PMS error text indicates a link or
// account is already pending for the target. The wording is not contractually
// stable upstream; extend the marker list as it evolves.
func linkAlreadyExists(errText string) bool {
	s := strings.ToLower(errText)
	for _, marker := range []string{"pending", "already"} {
		if strings.Contains(s, marker) {
			return true
		}
	}
	return false
}

func currencyOrCHF(currency string) string {
	if currency == "" {
		return "CHF"
	}
	return currency
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
