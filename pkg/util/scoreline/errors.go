package scoreline

import "errors"

var (
	// ErrMissingHistoricalData is reported when a fit runs over zero usable records.
	// Projection still works against the resulting empty table by falling back to league means.
	ErrMissingHistoricalData = errors.New("no historical match records")

	ErrInvalidLine     = errors.New("over/under line must be a finite, non-negative number")
	ErrInvalidMaxGoals = errors.New("max goals must be non-negative")
	ErrInvalidPrice    = errors.New("decimal price must be greater than 1")

	// ErrNoStrengths is returned by a StrengthRepository that holds no table.
	ErrNoStrengths = errors.New("no strength table stored")
)
