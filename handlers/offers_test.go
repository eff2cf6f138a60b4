package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"amanthos/models"
	"amanthos/services/booking"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func getPath(t *testing.T, handler gin.HandlerFunc, route, path string) *httptest.ResponseRecorder {
	t.Helper()
	router := gin.New()
	router.GET(route, handler)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestGetProperties_ReturnsCatalogue(t *testing.T) {
	h := NewOffersHandler(&stubBookingService{})

	w := getPath(t, h.GetPropertiesHandler, "/api/properties", "/api/properties")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Properties map[string]models.Property `json:"properties"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Properties, 3)
	require.Contains(t, body.Properties, "GBAL")
	require.Contains(t, body.Properties, "GNBE")
	require.Contains(t, body.Properties, "NYAL")
}

func TestGetOffers_ReturnsQuoteWithNights(t *testing.T) {
	h := NewOffersHandler(&stubBookingService{offers: []models.Offer{
		{RatePlanID: "RP-1", RatePlanCode: "FLEX", Category: models.CategoryRefundable},
	}})

	w := getPath(t, h.GetOffersHandler, "/api/offers",
		"/api/offers?propertyId=GBAL&arrival=2026-09-01&departure=2026-09-04&adults=2")
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	require.Equal(t, "GBAL", body["property"])
	require.Equal(t, float64(3), body["nights"])
	require.Equal(t, float64(2), body["adults"])
	require.Len(t, body["offers"], 1)
	require.NotEmpty(t, body["propertyName"])
}

func TestGetOffers_InvalidProperty(t *testing.T) {
	h := NewOffersHandler(&stubBookingService{})

	w := getPath(t, h.GetOffersHandler, "/api/offers", "/api/offers?propertyId=ZZZZ&arrival=2026-09-01&departure=2026-09-04")
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, decodeBody(t, w)["error"], "GBAL, GNBE, NYAL")
}

func TestGetOffers_MissingDates(t *testing.T) {
	h := NewOffersHandler(&stubBookingService{})

	w := getPath(t, h.GetOffersHandler, "/api/offers", "/api/offers?propertyId=GBAL")
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, decodeBody(t, w)["error"], "arrival and departure")
}

func TestGetOffers_BadAdultsDefaultsToOne(t *testing.T) {
	h := NewOffersHandler(&stubBookingService{})

	w := getPath(t, h.GetOffersHandler, "/api/offers",
		"/api/offers?propertyId=GBAL&arrival=2026-09-01&departure=2026-09-04&adults=zero")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, float64(1), decodeBody(t, w)["adults"])
}

func TestGetOffers_UpstreamFailure(t *testing.T) {
	h := NewOffersHandler(&stubBookingService{offersErr: &booking.UpstreamError{Op: "offers", Body: "down"}})

	w := getPath(t, h.GetOffersHandler, "/api/offers",
		"/api/offers?propertyId=GBAL&arrival=2026-09-01&departure=2026-09-04")
	require.Equal(t, http.StatusBadGateway, w.Code)
	require.Contains(t, decodeBody(t, w)["error"], "Could not retrieve offers")
}

func TestGetAvailability_PassesRawBodyThrough(t *testing.T) {
	raw := `{"unitGroups":[{"id":"UG-1","availableCount":4}]}`
	h := NewOffersHandler(&stubBookingService{availability: json.RawMessage(raw)})

	w := getPath(t, h.GetAvailabilityHandler, "/api/availability",
		"/api/availability?propertyId=NYAL&arrival=2026-09-01&departure=2026-09-04")
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, raw, w.Body.String())
}

func TestGetAvailability_InvalidProperty(t *testing.T) {
	h := NewOffersHandler(&stubBookingService{})

	w := getPath(t, h.GetAvailabilityHandler, "/api/availability", "/api/availability?propertyId=NOPE")
	require.Equal(t, http.StatusBadRequest, w.Code)
}
