package booking

import (
	"context"
	"strings"
	"testing"
	"time"

	"amanthos/models"
	"amanthos/services/pms"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeGateway routes calls to a scripted handler and records the call order.
type fakeGateway struct {
	calls   []string
	bodies  []any
	handler func(method, path string, body any) pms.Result
}

func (g *fakeGateway) Call(_ context.Context, method, path string, body any) pms.Result {
	g.calls = append(g.calls, method+" "+path)
	g.bodies = append(g.bodies, body)
	return g.handler(method, path, body)
}

func (g *fakeGateway) called(fragment string) bool {
	for _, c := range g.calls {
		if strings.Contains(c, fragment) {
			return true
		}
	}
	return false
}

func (g *fakeGateway) calledExactly(call string) bool {
	for _, c := range g.calls {
		if c == call {
			return true
		}
	}
	return false
}

func ok(body string) pms.Result {
	return pms.Result{Status: 200, Body: []byte(body)}
}

func failed(status int, errText string) pms.Result {
	return pms.Result{Status: status, Err: errText}
}

func newTestOrchestrator(gw *fakeGateway) (*DefaultLinkOrchestrator, *[]time.Duration) {
	sleeps := &[]time.Duration{}
	o := NewLinkOrchestrator(gw, zap.NewNop())
	o.Sleep = func(d time.Duration) { *sleeps = append(*sleeps, d) }
	o.Now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	return o, sleeps
}

func TestCreatePaymentLink_FolioPathUsesBalanceWhenNoAmountGiven(t *testing.T) {
	gw := &fakeGateway{}
	gw.handler = func(method, path string, body any) pms.Result {
		switch {
		case method == "GET" && path == "/finance/v1/folios?reservationIds=RES-1":
			return ok(`{"folios":[{"id":"F-SIDE","isMainFolio":false,"status":"Open"},{"id":"F-MAIN","isMainFolio":true,"status":"Open"}]}`)
		case method == "GET" && path == "/finance/v1/folios/F-MAIN":
			return ok(`{"id":"F-MAIN","balance":{"amount":-150.0,"currency":"CHF"}}`)
		case method == "POST" && path == "/finance/v1/folios/F-MAIN/payments/by-link":
			payload, isPayload := body.(models.FolioPaymentPayload)
			require.True(t, isPayload)
			require.Equal(t, 150.0, payload.Amount.Amount)
			require.Equal(t, "CHF", payload.Amount.Currency)
			require.Equal(t, "CH", payload.CountryCode)
			require.Equal(t, "guest@example.com", payload.PayerEmail)
			return ok(`{"id":"PAY-1"}`)
		case method == "GET" && path == "/finance/v1/folios/F-MAIN/payments/PAY-1":
			return ok(`{"id":"PAY-1","status":"Pending","type":"PaymentLink","url":"https://pay.example/abc"}`)
		}
		t.Fatalf("unexpected call: %s %s", method, path)
		return pms.Result{}
	}

	o, sleeps := newTestOrchestrator(gw)
	link, err := o.CreatePaymentLink(context.Background(), LinkRequest{
		ReservationID: "RES-1",
		PropertyID:    "GBAL",
		PayerEmail:    "guest@example.com",
	})
	require.NoError(t, err)
	require.NotNil(t, link)
	require.Equal(t, "https://pay.example/abc", link.URL)
	require.Equal(t, "Pending", link.Status)
	require.Equal(t, "2026-03-04T12:00:00Z", link.ExpiresAt)

	// The URL materialized on the first re-read.
	require.Equal(t, []time.Duration{1 * time.Second}, *sleeps)
}

func TestCreatePaymentLink_ExplicitAmountSkipsBalanceLookup(t *testing.T) {
	gw := &fakeGateway{}
	gw.handler = func(method, path string, body any) pms.Result {
		switch {
		case method == "GET" && strings.HasPrefix(path, "/finance/v1/folios?"):
			return ok(`{"folios":[{"id":"F-1","isMainFolio":true,"status":"Open"}]}`)
		case method == "POST" && path == "/finance/v1/folios/F-1/payments/by-link":
			payload := body.(models.FolioPaymentPayload)
			require.Equal(t, 200.0, payload.Amount.Amount)
			require.Equal(t, "EUR", payload.Amount.Currency)
			return ok(`{"id":"PAY-2"}`)
		case method == "GET" && path == "/finance/v1/folios/F-1/payments/PAY-2":
			return ok(`{"id":"PAY-2","url":"https://pay.example/def"}`)
		}
		t.Fatalf("unexpected call: %s %s", method, path)
		return pms.Result{}
	}

	o, _ := newTestOrchestrator(gw)
	link, err := o.CreatePaymentLink(context.Background(), LinkRequest{
		ReservationID: "RES-2",
		Amount:        200,
		Currency:      "EUR",
	})
	require.NoError(t, err)
	require.Equal(t, "https://pay.example/def", link.URL)
	require.False(t, gw.calledExactly("GET /finance/v1/folios/F-1"), "balance must not be fetched when an amount is given")
}

func TestCreatePaymentLink_URLMaterializesOnSecondPoll(t *testing.T) {
	reads := 0
	gw := &fakeGateway{}
	gw.handler = func(method, path string, body any) pms.Result {
		switch {
		case method == "GET" && strings.HasPrefix(path, "/finance/v1/folios?"):
			return ok(`{"folios":[{"id":"F-1","isMainFolio":true,"status":"Open"}]}`)
		case method == "POST" && strings.HasSuffix(path, "/payments/by-link"):
			return ok(`{"id":"PAY-3"}`)
		case method == "GET" && path == "/finance/v1/folios/F-1/payments/PAY-3":
			reads++
			if reads == 1 {
				return ok(`{"id":"PAY-3","status":"Pending"}`)
			}
			return ok(`{"id":"PAY-3","url":"https://pay.example/slow"}`)
		}
		t.Fatalf("unexpected call: %s %s", method, path)
		return pms.Result{}
	}

	o, sleeps := newTestOrchestrator(gw)
	link, err := o.CreatePaymentLink(context.Background(), LinkRequest{ReservationID: "RES-3", Amount: 90})
	require.NoError(t, err)
	require.Equal(t, "https://pay.example/slow", link.URL)
	require.Equal(t, []time.Duration{1 * time.Second, 2 * time.Second}, *sleeps)
}

func TestCreatePaymentLink_RecoversExistingPendingFolioLink(t *testing.T) {
	gw := &fakeGateway{}
	gw.handler = func(method, path string, body any) pms.Result {
		switch {
		case method == "GET" && strings.HasPrefix(path, "/finance/v1/folios?"):
			return ok(`{"folios":[{"id":"F-1","isMainFolio":true,"status":"Open"}]}`)
		case method == "POST" && strings.HasSuffix(path, "/payments/by-link"):
			return failed(409, "Folio F-1 already has a pending payment link")
		case method == "GET" && path == "/finance/v1/folios/F-1/payments":
			return ok(`{"payments":[
				{"id":"PAY-OLD","status":"Canceled","type":"PaymentLink","url":"https://pay.example/old"},
				{"id":"PAY-CUR","status":"Pending","type":"PaymentLink","url":"https://pay.example/current","expiresAt":"2026-03-03T00:00:00Z"}
			]}`)
		}
		t.Fatalf("unexpected call: %s %s", method, path)
		return pms.Result{}
	}

	o, sleeps := newTestOrchestrator(gw)
	link, err := o.CreatePaymentLink(context.Background(), LinkRequest{ReservationID: "RES-4", Amount: 120})
	require.NoError(t, err)
	require.Equal(t, "https://pay.example/current", link.URL)
	require.Equal(t, "2026-03-03T00:00:00Z", link.ExpiresAt)
	require.Empty(t, *sleeps, "recovery must not wait for URL materialization")
}

func TestCreatePaymentLink_FallsBackToPaymentAccount(t *testing.T) {
	gw := &fakeGateway{}
	gw.handler = func(method, path string, body any) pms.Result {
		switch {
		case method == "GET" && strings.HasPrefix(path, "/finance/v1/folios?"):
			return ok(`{"folios":[]}`)
		case method == "POST" && path == "/booking/v1/payment-accounts/by-link":
			payload := body.(models.PaymentAccountPayload)
			require.Equal(t, "Reservation", payload.Target.Type)
			require.Equal(t, "RES-5", payload.Target.ID)
			require.Equal(t, "GNBE", payload.PropertyID)
			return ok(`{"id":"ACC-1"}`)
		case method == "GET" && path == "/booking/v1/payment-accounts/ACC-1":
			return ok(`{"id":"ACC-1","paymentLink":{"url":"https://pay.example/acc","expiresAt":"2026-03-04T12:00:00Z"}}`)
		}
		t.Fatalf("unexpected call: %s %s", method, path)
		return pms.Result{}
	}

	o, sleeps := newTestOrchestrator(gw)
	link, err := o.CreatePaymentLink(context.Background(), LinkRequest{
		ReservationID: "RES-5",
		PropertyID:    "GNBE",
		Amount:        80,
	})
	require.NoError(t, err)
	require.Equal(t, "https://pay.example/acc", link.URL)
	require.Equal(t, []time.Duration{1500 * time.Millisecond}, *sleeps)
}

func TestCreatePaymentLink_BookingOnlyTargetUsesAccountPath(t *testing.T) {
	gw := &fakeGateway{}
	gw.handler = func(method, path string, body any) pms.Result {
		switch {
		case method == "POST" && path == "/booking/v1/payment-accounts/by-link":
			payload := body.(models.PaymentAccountPayload)
			require.Equal(t, "Booking", payload.Target.Type)
			require.Equal(t, "BK-9", payload.Target.ID)
			return ok(`{"id":"ACC-2","url":"https://pay.example/inline"}`)
		case method == "GET" && path == "/booking/v1/payment-accounts/ACC-2":
			// URL never materializes on the account reads.
			return ok(`{"id":"ACC-2"}`)
		}
		t.Fatalf("unexpected call: %s %s", method, path)
		return pms.Result{}
	}

	o, _ := newTestOrchestrator(gw)
	link, err := o.CreatePaymentLink(context.Background(), LinkRequest{BookingID: "BK-9"})
	require.NoError(t, err)

	// The inline URL from the creation response is the last resort.
	require.Equal(t, "https://pay.example/inline", link.URL)
	require.False(t, gw.called("/finance/v1/folios"), "no folio calls without a reservation id")
}

func TestCreatePaymentLink_RecoversExistingPendingAccount(t *testing.T) {
	gw := &fakeGateway{}
	gw.handler = func(method, path string, body any) pms.Result {
		switch {
		case method == "GET" && strings.HasPrefix(path, "/finance/v1/folios?"):
			return ok(`{"folios":[]}`)
		case method == "POST" && path == "/booking/v1/payment-accounts/by-link":
			return failed(400, "A payment account for this reservation is already pending")
		case method == "GET" && path == "/booking/v1/payment-accounts?reservationIds=RES-6":
			return ok(`{"paymentAccounts":[{"id":"ACC-3","status":"Pending","paymentLink":{"url":"https://pay.example/recovered"}}]}`)
		}
		t.Fatalf("unexpected call: %s %s", method, path)
		return pms.Result{}
	}

	o, _ := newTestOrchestrator(gw)
	link, err := o.CreatePaymentLink(context.Background(), LinkRequest{ReservationID: "RES-6", Amount: 50})
	require.NoError(t, err)
	require.Equal(t, "https://pay.example/recovered", link.URL)
}

func TestCreatePaymentLink_NothingOwedFallsThroughToAccount(t *testing.T) {
	gw := &fakeGateway{}
	gw.handler = func(method, path string, body any) pms.Result {
		switch {
		case method == "GET" && strings.HasPrefix(path, "/finance/v1/folios?"):
			return ok(`{"folios":[{"id":"F-1","isMainFolio":true,"status":"Open"}]}`)
		case method == "GET" && path == "/finance/v1/folios/F-1":
			// Positive balance means nothing is owed.
			return ok(`{"id":"F-1","balance":{"amount":25.0,"currency":"CHF"}}`)
		case method == "POST" && path == "/booking/v1/payment-accounts/by-link":
			return ok(`{"id":"ACC-4","url":"https://pay.example/acc4"}`)
		case method == "GET" && path == "/booking/v1/payment-accounts/ACC-4":
			return ok(`{"id":"ACC-4","url":"https://pay.example/acc4"}`)
		}
		t.Fatalf("unexpected call: %s %s", method, path)
		return pms.Result{}
	}

	o, _ := newTestOrchestrator(gw)
	link, err := o.CreatePaymentLink(context.Background(), LinkRequest{ReservationID: "RES-7"})
	require.NoError(t, err)
	require.Equal(t, "https://pay.example/acc4", link.URL)
	require.False(t, gw.called("payments/by-link"), "folio link must not be created when nothing is owed")
}

func TestCreatePaymentLink_UnavailableIsNilNil(t *testing.T) {
	gw := &fakeGateway{}
	gw.handler = func(method, path string, body any) pms.Result {
		switch {
		case method == "GET" && strings.HasPrefix(path, "/finance/v1/folios?"):
			return ok(`{"folios":[]}`)
		case method == "POST" && path == "/booking/v1/payment-accounts/by-link":
			return failed(500, "internal upstream failure")
		}
		t.Fatalf("unexpected call: %s %s", method, path)
		return pms.Result{}
	}

	o, _ := newTestOrchestrator(gw)
	link, err := o.CreatePaymentLink(context.Background(), LinkRequest{ReservationID: "RES-8", Amount: 60})
	require.NoError(t, err)
	require.Nil(t, link, "unavailable link is reported as nil, nil; the booking stands")
}

func TestCreatePaymentLink_RequiresTarget(t *testing.T) {
	o, _ := newTestOrchestrator(&fakeGateway{handler: func(string, string, any) pms.Result {
		return pms.Result{}
	}})
	_, err := o.CreatePaymentLink(context.Background(), LinkRequest{})
	require.ErrorIs(t, err, ErrInvalidTarget)
}
