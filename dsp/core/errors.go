package core

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidParameter marks parameter faults: non-positive derived sample
// rates, cutoffs above Nyquist, non-finite gains and the like. Callers match it
// with errors.Is through any amount of wrapping.
var ErrInvalidParameter = errors.New("invalid parameter")

// ValidateRate returns an ErrInvalidParameter-wrapped error unless rate > 0.
func ValidateRate(what string, rate int) error {
	if rate <= 0 {
		return fmt.Errorf("%w: %s sample rate must be > 0: %d", ErrInvalidParameter, what, rate)
	}

	return nil
}

// ValidateFinite returns an ErrInvalidParameter-wrapped error for NaN or Inf.
func ValidateFinite(what string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: %s must be finite: %f", ErrInvalidParameter, what, v)
	}

	return nil
}

// ValidateRange returns an ErrInvalidParameter-wrapped error unless v is
// finite and lo <= v <= hi.
func ValidateRange(what string, v, lo, hi float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < lo || v > hi {
		return fmt.Errorf("%w: %s must be in [%g, %g]: %g", ErrInvalidParameter, what, lo, hi, v)
	}

	return nil
}
