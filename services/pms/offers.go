// File: services/pms/offers.go
package pms

import (
	"math"
	"strings"

	"amanthos/models"
)

// excludedRatePatterns marks rate plans sold through non-direct channels
// (OTA, B2B, wholesale and named intermediary brands). Matched
// case-insensitively against the rate plan code and name.
var excludedRatePatterns = []string{"ota", "b2b", "agency", "wholesale", "expedia", "booking.com"}

// FilterOffers turns raw PMS offers into guest-facing categorized offers,
// dropping anything sold through an excluded channel.
func FilterOffers(raw models.OffersResponse) []models.Offer {
	filtered := make([]models.Offer, 0, len(raw.Offers))
	for _, offer := range raw.Offers {
		rateCode := strings.ToLower(offer.RatePlan.Code)
		rateName := strings.ToLower(offer.RatePlan.Name)

		if isExcludedChannel(rateCode, rateName) {
			continue
		}

		category := models.CategoryRefundable
		cancelCode := strings.ToLower(offer.CancellationFee.Code)
		if strings.Contains(rateCode, "nonref") || strings.Contains(rateCode, "non-ref") || cancelCode == "nonrefundable" {
			category = models.CategoryNonRefundable
		}

		var avg *models.MonetaryAmount
		if nights := len(offer.TimeSlices); nights > 0 {
			avg = &models.MonetaryAmount{
				Amount:   round2(offer.TotalGrossAmount.Amount / float64(nights)),
				Currency: currencyOrDefault(offer.TotalGrossAmount.Currency),
			}
		}

		slices := make([]models.OfferTimeSlice, 0, len(offer.TimeSlices))
		for _, ts := range offer.TimeSlices {
			slices = append(slices, models.OfferTimeSlice{
				From:   ts.From,
				To:     ts.To,
				Amount: ts.TotalGrossAmount,
			})
		}

		filtered = append(filtered, models.Offer{
			RatePlanID:           offer.RatePlan.ID,
			RatePlanCode:         offer.RatePlan.Code,
			RatePlanName:         offer.RatePlan.Name,
			Category:             category,
			UnitGroupID:          offer.UnitGroup.ID,
			UnitGroupName:        offer.UnitGroup.Name,
			UnitGroupDescription: offer.UnitGroup.Description,
			AvailableUnits:       offer.AvailableUnits,
			TotalGrossAmount:     offer.TotalGrossAmount,
			AveragePerNight:      avg,
			CancellationFee:      offer.CancellationFee,
			CityTax:              offer.CityTax,
			TimeSlices:           slices,
		})
	}
	return filtered
}

func isExcludedChannel(rateCode, rateName string) bool {
	for _, pattern := range excludedRatePatterns {
		if strings.Contains(rateCode, pattern) || strings.Contains(rateName, pattern) {
			return true
		}
	}
	return false
}

func currencyOrDefault(currency string) string {
	if currency == "" {
		return "CHF"
	}
	return currency
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
