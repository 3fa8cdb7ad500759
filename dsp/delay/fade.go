package delay

import (
	"github.com/cwbudde/algo-vecmath"
	"github.com/cwbudde/algo-voicefx/dsp/core"
	"github.com/cwbudde/algo-voicefx/dsp/pcm"
)

// Fade describes a linear fade-in/fade-out envelope in milliseconds.
type Fade struct {
	InMs  float64
	OutMs float64
}

// Apply returns sig with the envelope applied. Ramp lengths are clamped to
// the signal length; the first fade-in sample and the last fade-out sample
// are silent.
func (f Fade) Apply(sig pcm.Signal) pcm.Signal {
	out := sig.Clone()
	n := out.Len()

	if in := min(core.MsToSamples(f.InMs, sig.Rate), n); in > 0 {
		env := make([]float64, in)
		for i := range env {
			env[i] = float64(i) / float64(in)
		}

		vecmath.MulBlockInPlace(out.Samples[:in], env)
	}

	if fo := min(core.MsToSamples(f.OutMs, sig.Rate), n); fo > 0 {
		env := make([]float64, fo)
		for i := range env {
			env[i] = float64(fo-1-i) / float64(fo)
		}

		vecmath.MulBlockInPlace(out.Samples[n-fo:], env)
	}

	return out
}
