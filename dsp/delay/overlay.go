package delay

import (
	"fmt"

	"github.com/cwbudde/algo-vecmath"
	"github.com/cwbudde/algo-voicefx/dsp/core"
	"github.com/cwbudde/algo-voicefx/dsp/pcm"
)

// Overlay returns base with over added from sample offset position onward,
// scaled by 10^(gainDB/20). The result has len(base) samples.
func Overlay(base, over pcm.Signal, position int, gainDB float64) (pcm.Signal, error) {
	out := base.Clone()

	if err := overlayInPlace(out.Samples, base.Rate, over, position, gainDB); err != nil {
		return pcm.Signal{}, err
	}

	return out, nil
}

func overlayInPlace(dst []float64, rate int, over pcm.Signal, position int, gainDB float64) error {
	if over.Rate != rate {
		return fmt.Errorf("%w: overlay rate %d does not match base rate %d",
			core.ErrInvalidParameter, over.Rate, rate)
	}

	if position < 0 {
		return fmt.Errorf("%w: overlay position must be >= 0: %d", core.ErrInvalidParameter, position)
	}

	if err := core.ValidateFinite("overlay gain", gainDB); err != nil {
		return err
	}

	n := min(len(over.Samples), len(dst)-position)
	if n <= 0 {
		return nil
	}

	scaled := make([]float64, n)
	vecmath.ScaleBlock(scaled, over.Samples[:n], core.DBToLinear(gainDB))
	vecmath.AddBlockInPlace(dst[position:position+n], scaled)

	return nil
}
