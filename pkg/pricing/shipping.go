package pricing

import (
	"strings"

	"github.com/shopspring/decimal"
)

const delhiMarker = "delhi"

// ShippingRates are the flat delivery charges.
type ShippingRates struct {
	Delhi decimal.Decimal `json:"delhi"`
	Other decimal.Decimal `json:"other"`
}

// DefaultShippingRates is free delivery inside Delhi and ₹45 elsewhere.
func DefaultShippingRates() ShippingRates {
	return ShippingRates{Delhi: decimal.Zero, Other: decimal.NewFromInt(45)}
}

// ComputeShipping returns the Delhi rate for any city containing "delhi"
// (case and surrounding whitespace ignored, so "New Delhi" matches) and the
// other rate for everything else.
func ComputeShipping(city string, rates ShippingRates) decimal.Decimal {
	normalized := strings.ToLower(strings.TrimSpace(city))
	if strings.Contains(normalized, delhiMarker) {
		return rates.Delhi
	}
	return rates.Other
}
