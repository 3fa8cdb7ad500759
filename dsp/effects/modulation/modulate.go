package modulation

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"
	"github.com/cwbudde/algo-voicefx/dsp/core"
	"github.com/cwbudde/algo-voicefx/dsp/pcm"
)

// Modulate multiplies sig sample-wise by carrier. Both must have the same
// length.
func Modulate(sig pcm.Signal, carrier []float64) (pcm.Signal, error) {
	if len(carrier) != len(sig.Samples) {
		return pcm.Signal{}, fmt.Errorf("%w: carrier length %d does not match signal length %d",
			core.ErrInvalidParameter, len(carrier), len(sig.Samples))
	}

	out := pcm.Signal{Samples: make([]float64, len(sig.Samples)), Rate: sig.Rate}
	vecmath.MulBlock(out.Samples, sig.Samples, carrier)

	return out, nil
}

// Tremolo modulates sig with a Carrier generated at sig's own rate.
func Tremolo(sig pcm.Signal, opts ...CarrierOption) (pcm.Signal, error) {
	carrier, err := Carrier(sig.Len(), sig.Rate, opts...)
	if err != nil {
		return pcm.Signal{}, err
	}

	return Modulate(sig, carrier)
}

// Normalize rescales sig so its peak absolute value equals ceiling. No
// output sample exceeds ceiling in magnitude. A silent signal is returned
// unchanged.
func Normalize(sig pcm.Signal, ceiling float64) pcm.Signal {
	peak := core.PeakAbs(sig.Samples)
	if peak == 0 {
		return sig.Clone()
	}

	ceiling = math.Abs(ceiling)

	out := pcm.Signal{Samples: make([]float64, len(sig.Samples)), Rate: sig.Rate}
	vecmath.ScaleBlock(out.Samples, sig.Samples, ceiling/peak)

	// peak*(ceiling/peak) can round one ulp past ceiling.
	for i, v := range out.Samples {
		out.Samples[i] = core.Clamp(v, -ceiling, ceiling)
	}

	return out
}
