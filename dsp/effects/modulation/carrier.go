package modulation

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-voicefx/dsp/core"
)

const (
	defaultCarrierHz    = 50.0
	defaultCarrierDepth = 0.5
)

// CarrierOption mutates carrier construction parameters.
type CarrierOption func(*carrierConfig) error

type carrierConfig struct {
	freqHz float64
	depth  float64
}

// WithCarrierHz sets the carrier frequency in Hz.
func WithCarrierHz(freqHz float64) CarrierOption {
	return func(cfg *carrierConfig) error {
		if freqHz <= 0 || math.IsNaN(freqHz) || math.IsInf(freqHz, 0) {
			return fmt.Errorf("%w: carrier frequency must be > 0 and finite: %f",
				core.ErrInvalidParameter, freqHz)
		}

		cfg.freqHz = freqHz

		return nil
	}
}

// WithDepth sets the modulation depth in [0, 0.5]. The carrier swings
// between 1-2*depth and 1, so it never reaches zero below 0.5.
func WithDepth(depth float64) CarrierOption {
	return func(cfg *carrierConfig) error {
		if depth < 0 || depth > 0.5 || math.IsNaN(depth) {
			return fmt.Errorf("%w: carrier depth must be in [0, 0.5]: %f", core.ErrInvalidParameter, depth)
		}

		cfg.depth = depth

		return nil
	}
}

// Carrier returns n samples of (1-depth) + depth*sin(2*pi*f*i/sampleRate).
// With the defaults that is 0.5 + 0.5*sin(2*pi*50*t).
func Carrier(n, sampleRate int, opts ...CarrierOption) ([]float64, error) {
	if err := core.ValidateRate("carrier", sampleRate); err != nil {
		return nil, err
	}

	cfg := carrierConfig{freqHz: defaultCarrierHz, depth: defaultCarrierDepth}
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	out := make([]float64, max(n, 0))
	step := 2 * math.Pi * cfg.freqHz / float64(sampleRate)
	offset := 1 - cfg.depth

	for i := range out {
		out[i] = offset + cfg.depth*math.Sin(step*float64(i))
	}

	return out, nil
}
