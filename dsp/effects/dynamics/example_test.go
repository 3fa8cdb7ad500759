package dynamics_test

import (
	"fmt"

	"github.com/cwbudde/algo-voicefx/dsp/effects/dynamics"
)

func ExampleCompressor_CalculateOutputLevel() {
	c, err := dynamics.NewCompressor(44100)
	if err != nil {
		panic(err)
	}

	fmt.Printf("%.0f\n", c.CalculateOutputLevel(32767))
	// Output: 5827
}
