package dynamics

import (
	"github.com/cwbudde/algo-voicefx/dsp/core"
	"github.com/cwbudde/algo-voicefx/dsp/filter/biquad"
	"github.com/cwbudde/algo-voicefx/dsp/filter/design"
	"github.com/cwbudde/algo-voicefx/dsp/pcm"
)

// LowPass filters sig with a second-order Butterworth low-pass whose -3 dB
// point is cutoffHz at sig's declared rate.
func LowPass(sig pcm.Signal, cutoffHz float64) (pcm.Signal, error) {
	if err := core.ValidateRate("low-pass", sig.Rate); err != nil {
		return pcm.Signal{}, err
	}

	coeffs, err := design.Lowpass(cutoffHz, design.ButterworthQ, float64(sig.Rate))
	if err != nil {
		return pcm.Signal{}, err
	}

	return biquad.Filter(sig, coeffs), nil
}
