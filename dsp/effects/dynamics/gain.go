package dynamics

import (
	"github.com/cwbudde/algo-vecmath"
	"github.com/cwbudde/algo-voicefx/dsp/core"
	"github.com/cwbudde/algo-voicefx/dsp/pcm"
)

// Scale returns sig multiplied by a linear factor.
func Scale(sig pcm.Signal, factor float64) (pcm.Signal, error) {
	if err := core.ValidateFinite("gain factor", factor); err != nil {
		return pcm.Signal{}, err
	}

	out := pcm.Signal{Samples: make([]float64, len(sig.Samples)), Rate: sig.Rate}
	vecmath.ScaleBlock(out.Samples, sig.Samples, factor)

	return out, nil
}

// Gain returns sig scaled by 10^(dB/20).
func Gain(sig pcm.Signal, dB float64) (pcm.Signal, error) {
	if err := core.ValidateFinite("gain", dB); err != nil {
		return pcm.Signal{}, err
	}

	return Scale(sig, core.DBToLinear(dB))
}
