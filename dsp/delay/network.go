package delay

import (
	"github.com/cwbudde/algo-voicefx/dsp/core"
	"github.com/cwbudde/algo-voicefx/dsp/pcm"
)

// Tap is one delayed, attenuated contribution of the dry signal.
type Tap struct {
	DelayMs float64
	GainDB  float64
}

// Network is a feed-forward multi-tap delay: every tap overlays the dry
// input onto a running mix, then the envelope is applied once.
type Network struct {
	Taps     []Tap
	Envelope Fade
}

// Apply runs the network over sig and returns a new signal of equal length.
func (n Network) Apply(sig pcm.Signal) (pcm.Signal, error) {
	if err := core.ValidateRate("delay network", sig.Rate); err != nil {
		return pcm.Signal{}, err
	}

	mix := sig.Clone()

	for _, tap := range n.Taps {
		pos := core.MsToSamples(tap.DelayMs, sig.Rate)
		if err := overlayInPlace(mix.Samples, sig.Rate, sig, pos, tap.GainDB); err != nil {
			return pcm.Signal{}, err
		}
	}

	return n.Envelope.Apply(mix), nil
}
