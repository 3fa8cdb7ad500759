package effects

import (
	"fmt"

	"github.com/cwbudde/algo-voicefx/dsp/core"
)

// reverseSliderThreshold is the 0..100 reverse control value above which
// reversal is enabled.
const reverseSliderThreshold = 50

// Request selects an effect. Speed, Volume and Reverse are read only for
// KindCustom.
type Request struct {
	Kind Kind
	// Speed in [0, 100]; the speed factor is 1 + Speed/100.
	Speed int
	// Volume in [0, 100]; the gain is Volume-50 dB.
	Volume  int
	Reverse bool
}

// For returns a request for a fixed (non-Custom) effect.
func For(k Kind) Request {
	return Request{Kind: k}
}

// Custom returns a Custom request.
func Custom(speed, volume int, reverse bool) Request {
	return Request{Kind: KindCustom, Speed: speed, Volume: volume, Reverse: reverse}
}

// CustomFromSliders builds a Custom request from three 0..100 controls.
// Reversal is enabled when reverse > 50.
func CustomFromSliders(speed, volume, reverse int) Request {
	return Custom(speed, volume, reverse > reverseSliderThreshold)
}

// Validate rejects unknown kinds with ErrUnsupportedFilter and out-of-range
// Custom controls with core.ErrInvalidParameter.
func (r Request) Validate() error {
	if !r.Kind.Valid() {
		return fmt.Errorf("%w: %v", ErrUnsupportedFilter, r.Kind)
	}

	if r.Kind != KindCustom {
		return nil
	}

	if r.Speed < 0 || r.Speed > 100 {
		return fmt.Errorf("%w: custom speed must be in [0, 100]: %d", core.ErrInvalidParameter, r.Speed)
	}

	if r.Volume < 0 || r.Volume > 100 {
		return fmt.Errorf("%w: custom volume must be in [0, 100]: %d", core.ErrInvalidParameter, r.Volume)
	}

	return nil
}

// SpeedFactor returns 1 + Speed/100.
func (r Request) SpeedFactor() float64 {
	return 1 + float64(r.Speed)/100
}

// VolumeDB returns Volume - 50.
func (r Request) VolumeDB() float64 {
	return float64(r.Volume - 50)
}
