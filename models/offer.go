package models

// MonetaryAmount mirrors Apaleo's amount+currency pair.
type MonetaryAmount struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

// CancellationFee is the cancellation policy attached to a rate plan offer.
type CancellationFee struct {
	Code        string         `json:"code,omitempty"`
	Name        string         `json:"name,omitempty"`
	Description string         `json:"description,omitempty"`
	DueDateTime string         `json:"dueDateTime,omitempty"`
	Fee         MonetaryAmount `json:"fee,omitempty"`
}

// RawOffer is the subset of an Apaleo offer the filter consumes.
type RawOffer struct {
	RatePlan struct {
		ID   string `json:"id"`
		Code string `json:"code"`
		Name string `json:"name"`
	} `json:"ratePlan"`
	UnitGroup struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		Description string `json:"description"`
	} `json:"unitGroup"`
	AvailableUnits   int             `json:"availableUnits"`
	TotalGrossAmount MonetaryAmount  `json:"totalGrossAmount"`
	CancellationFee  CancellationFee `json:"cancellationFee"`
	CityTax          map[string]any  `json:"cityTax"`
	TimeSlices       []struct {
		From             string         `json:"from"`
		To               string         `json:"to"`
		TotalGrossAmount MonetaryAmount `json:"totalGrossAmount"`
	} `json:"timeSlices"`
}

// OffersResponse is the envelope returned by GET /booking/v1/offers.
type OffersResponse struct {
	Offers []RawOffer `json:"offers"`
}

// OfferTimeSlice is one night of a guest-facing offer.
type OfferTimeSlice struct {
	From   string         `json:"from"`
	To     string         `json:"to"`
	Amount MonetaryAmount `json:"amount"`
}

// Offer categories presented to guests. OTA/B2B rates are filtered out entirely.
const (
	CategoryRefundable    = "Refundable"
	CategoryNonRefundable = "Non-Refundable"
)

// Offer is a guest-facing, categorized rate plan offer.
type Offer struct {
	RatePlanID           string           `json:"ratePlanId"`
	RatePlanCode         string           `json:"ratePlanCode"`
	RatePlanName         string           `json:"ratePlanName"`
	Category             string           `json:"category"`
	UnitGroupID          string           `json:"unitGroupId"`
	UnitGroupName        string           `json:"unitGroupName"`
	UnitGroupDescription string           `json:"unitGroupDescription"`
	AvailableUnits       int              `json:"availableUnits"`
	TotalGrossAmount     MonetaryAmount   `json:"totalGrossAmount"`
	AveragePerNight      *MonetaryAmount  `json:"averagePerNight"`
	CancellationFee      CancellationFee  `json:"cancellationFee"`
	CityTax              map[string]any   `json:"cityTax"`
	TimeSlices           []OfferTimeSlice `json:"timeSlices"`
}
