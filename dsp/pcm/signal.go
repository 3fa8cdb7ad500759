package pcm

import (
	"github.com/cwbudde/algo-voicefx/dsp/core"
)

// Signal is the float64 working form used inside effect chains. Values are
// in int16 units; quantization back to PCM happens once in Buffer().
type Signal struct {
	Samples []float64
	Rate    int
}

// Len returns the number of samples.
func (s Signal) Len() int {
	return len(s.Samples)
}

// Clone returns a deep copy of s.
func (s Signal) Clone() Signal {
	out := make([]float64, len(s.Samples))
	copy(out, s.Samples)

	return Signal{Samples: out, Rate: s.Rate}
}

// Reversed returns a copy of s with sample order reversed.
func (s Signal) Reversed() Signal {
	n := len(s.Samples)
	out := make([]float64, n)

	for i, v := range s.Samples {
		out[n-1-i] = v
	}

	return Signal{Samples: out, Rate: s.Rate}
}

// Buffer quantizes s to int16 (round half away from zero, saturating).
func (s Signal) Buffer() (*Buffer, error) {
	if err := core.ValidateRate("signal", s.Rate); err != nil {
		return nil, err
	}

	out := make([]int16, len(s.Samples))
	for i, v := range s.Samples {
		out[i] = core.QuantizeInt16(v)
	}

	return &Buffer{samples: out, rate: s.Rate}, nil
}
