package resample

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-voicefx/dsp/core"
	"github.com/cwbudde/algo-voicefx/dsp/pcm"
)

// DeclaredRate returns round(rate * factor). Any factor or result that is not
// a positive finite value is reported as core.ErrInvalidParameter; there is
// no silent fallback.
func DeclaredRate(rate int, factor float64) (int, error) {
	if err := core.ValidateRate("input", rate); err != nil {
		return 0, err
	}

	if factor <= 0 || math.IsNaN(factor) || math.IsInf(factor, 0) {
		return 0, fmt.Errorf("%w: speed factor must be > 0 and finite: %f", core.ErrInvalidParameter, factor)
	}

	r := math.Round(float64(rate) * factor)
	if r <= 0 || r > math.MaxInt32 {
		return 0, fmt.Errorf("%w: derived sample rate out of range: %.0f (rate %d x %f)",
			core.ErrInvalidParameter, r, rate, factor)
	}

	return int(r), nil
}

// Reinterpret returns a copy of sig declared at round(sig.Rate * factor).
// The samples are not touched.
func Reinterpret(sig pcm.Signal, factor float64) (pcm.Signal, error) {
	rate, err := DeclaredRate(sig.Rate, factor)
	if err != nil {
		return pcm.Signal{}, err
	}

	out := sig.Clone()
	out.Rate = rate

	return out, nil
}

// ChangeSpeed reinterprets sig at factor times its rate, then converts the
// result to targetRate. A targetRate <= 0 means "back to sig.Rate", which
// plays factor times faster and higher.
func ChangeSpeed(sig pcm.Signal, factor float64, targetRate int, opts ...Option) (pcm.Signal, error) {
	if targetRate <= 0 {
		targetRate = sig.Rate
	}

	shifted, err := Reinterpret(sig, factor)
	if err != nil {
		return pcm.Signal{}, err
	}

	return Convert(shifted, targetRate, opts...)
}

// ShiftOctaves is ChangeSpeed with factor 2^octaves.
func ShiftOctaves(sig pcm.Signal, octaves float64, targetRate int, opts ...Option) (pcm.Signal, error) {
	if err := core.ValidateFinite("octave shift", octaves); err != nil {
		return pcm.Signal{}, err
	}

	return ChangeSpeed(sig, math.Pow(2, octaves), targetRate, opts...)
}
