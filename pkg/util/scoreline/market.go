package scoreline

import (
	"fmt"
	"math"
)

// OverUnderOutcome is how a settled match grades against a line.
type OverUnderOutcome string

const (
	Over  OverUnderOutcome = "Over"
	Under OverUnderOutcome = "Under"
	Push  OverUnderOutcome = "Push"
)

// GradeOverUnder settles a line against the final total goals.
func GradeOverUnder(totalGoals int, line float64) (OverUnderOutcome, error) {
	if err := validLine(line); err != nil {
		return "", err
	}
	if totalGoals < 0 {
		return "", fmt.Errorf("total goals must be non-negative, got %d", totalGoals)
	}
	switch t := float64(totalGoals); {
	case t > line:
		return Over, nil
	case t == line:
		return Push, nil
	default:
		return Under, nil
	}
}

// Search bounds for ImpliedTotalGoals.
const (
	minImpliedTotal = 0.2
	maxImpliedTotal = 10.0

	// maxPricedLine is the highest line ImpliedTotalGoals accepts.
	maxPricedLine = 30.0
)

// ImpliedTotalGoals backs out the expected total goals a bookmaker is pricing.
// The two decimal prices are normalised to remove the margin, then the Poisson
// mean whose P(total > line) matches the fair over probability is found by
// bisection. For whole lines the push mass is excluded from both sides.
// The result is clamped to [0.2, 10].
func ImpliedTotalGoals(overPrice, underPrice, line float64) (float64, error) {
	if err := validLine(line); err != nil {
		return 0, err
	}
	if line > maxPricedLine {
		return 0, fmt.Errorf("%w: %v is above %v", ErrInvalidLine, line, maxPricedLine)
	}
	if !(overPrice > 1) || !(underPrice > 1) || math.IsInf(overPrice, 0) || math.IsInf(underPrice, 0) {
		return 0, fmt.Errorf("%w: over %v, under %v", ErrInvalidPrice, overPrice, underPrice)
	}
	overImp, underImp := 1/overPrice, 1/underPrice
	pOver := overImp / (overImp + underImp)

	lo, hi := minImpliedTotal, maxImpliedTotal
	for i := 0; i < 60; i++ {
		mid := (lo + hi) / 2
		if overProbability(mid, line) < pOver {
			lo = mid
		} else {
			hi = mid
		}
	}
	return (lo + hi) / 2, nil
}

// overProbability is P(total > line | no push) for total ~ Poisson(lambda).
func overProbability(lambda, line float64) float64 {
	if line > maxPricedLine {
		return 0
	}
	k := int(math.Floor(line))
	under := PoissonCDF(k, lambda)
	if isWholeLine(line) {
		push := PoissonPMF(k, lambda)
		under -= push
		decided := 1 - push
		if decided <= 0 {
			return 0
		}
		return (1 - push - under) / decided
	}
	return 1 - under
}
