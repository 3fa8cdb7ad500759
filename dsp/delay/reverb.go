package delay

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-voicefx/dsp/core"
	"github.com/cwbudde/algo-voicefx/dsp/pcm"
)

// ReverbConfig parameterizes the multi-tap reverb.
type ReverbConfig struct {
	Taps           int
	InitialDelayMs float64
	StepMs         float64
	MaxDelayMs     float64
	// DecayDB is the attenuation added per tap; tap i sits at -DecayDB*(i+1).
	DecayDB   float64
	FadeInMs  float64
	FadeOutMs float64
}

// DefaultReverbConfig returns 10 taps from 20 ms in 20 ms steps capped at
// 150 ms, decaying 5 dB per tap, with a 20 ms/50 ms envelope.
func DefaultReverbConfig() ReverbConfig {
	return ReverbConfig{
		Taps:           10,
		InitialDelayMs: 20,
		StepMs:         20,
		MaxDelayMs:     150,
		DecayDB:        5,
		FadeInMs:       20,
		FadeOutMs:      50,
	}
}

// Validate checks the configuration.
func (c ReverbConfig) Validate() error {
	if c.Taps < 0 {
		return fmt.Errorf("%w: reverb tap count must be >= 0: %d", core.ErrInvalidParameter, c.Taps)
	}

	for _, v := range []struct {
		name string
		val  float64
	}{
		{"initial delay", c.InitialDelayMs},
		{"delay step", c.StepMs},
		{"max delay", c.MaxDelayMs},
		{"decay", c.DecayDB},
		{"fade in", c.FadeInMs},
		{"fade out", c.FadeOutMs},
	} {
		if v.val < 0 || math.IsNaN(v.val) || math.IsInf(v.val, 0) {
			return fmt.Errorf("%w: reverb %s must be >= 0 and finite: %f", core.ErrInvalidParameter, v.name, v.val)
		}
	}

	return nil
}

// TapDelays returns the per-tap delays in ms. They never decrease and never
// exceed MaxDelayMs.
func (c ReverbConfig) TapDelays() []float64 {
	delays := make([]float64, max(c.Taps, 0))
	prev := 0.0

	for i := range delays {
		d := core.Clamp(c.InitialDelayMs+c.StepMs*float64(i), 0, c.MaxDelayMs)
		if d < prev {
			d = prev
		}

		delays[i] = d
		prev = d
	}

	return delays
}

// Network expands the configuration into taps and envelope.
func (c ReverbConfig) Network() (Network, error) {
	if err := c.Validate(); err != nil {
		return Network{}, err
	}

	delays := c.TapDelays()
	taps := make([]Tap, len(delays))

	for i, d := range delays {
		taps[i] = Tap{DelayMs: d, GainDB: -c.DecayDB * float64(i+1)}
	}

	return Network{Taps: taps, Envelope: Fade{InMs: c.FadeInMs, OutMs: c.FadeOutMs}}, nil
}

// Reverb applies the default reverb to sig.
func Reverb(sig pcm.Signal) (pcm.Signal, error) {
	return ReverbWith(sig, DefaultReverbConfig())
}

// ReverbWith applies a reverb built from cfg to sig.
func ReverbWith(sig pcm.Signal, cfg ReverbConfig) (pcm.Signal, error) {
	n, err := cfg.Network()
	if err != nil {
		return pcm.Signal{}, err
	}

	return n.Apply(sig)
}
