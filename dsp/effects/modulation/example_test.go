package modulation_test

import (
	"fmt"

	"github.com/cwbudde/algo-voicefx/dsp/effects/modulation"
	"github.com/cwbudde/algo-voicefx/dsp/pcm"
)

func ExampleNormalize() {
	sig := pcm.Signal{Samples: []float64{100, -200, 50}, Rate: 44100}
	fmt.Println(modulation.Normalize(sig, 1000).Samples)
	// Output: [500 -1000 250]
}
