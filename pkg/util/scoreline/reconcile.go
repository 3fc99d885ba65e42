package scoreline

import "math"

// Reconcile rescales both rates so they sum to an external total goals estimate
// while keeping their ratio. Nothing changes when the estimate is absent,
// non-positive or non-finite, or when the current rates sum to zero.
// No floor is re-applied here.
func Reconcile(rates ExpectedRates, externalTotal *float64) ExpectedRates {
	if externalTotal == nil {
		return rates
	}
	ext := *externalTotal
	if math.IsNaN(ext) || math.IsInf(ext, 0) || ext <= 0 {
		return rates
	}
	sum := rates.Total()
	if sum <= 0 {
		return rates
	}
	scale := ext / sum
	return ExpectedRates{Home: rates.Home * scale, Away: rates.Away * scale}
}
