package design

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-voicefx/dsp/core"
)

func TestLowpassMinus3dBAtCutoff(t *testing.T) {
	for _, tc := range []struct {
		freq, rate float64
	}{
		{150, 36750},
		{150, 44100},
		{1000, 48000},
	} {
		c, err := Lowpass(tc.freq, 0, tc.rate)
		if err != nil {
			t.Fatalf("Lowpass(%v, %v) error = %v", tc.freq, tc.rate, err)
		}

		got := c.MagnitudeDB(tc.freq, tc.rate)
		if math.Abs(got-(-3.0103)) > 0.01 {
			t.Fatalf("Lowpass(%v, %v) at cutoff = %v dB, want -3.01", tc.freq, tc.rate, got)
		}

		if !c.Stable() {
			t.Fatalf("Lowpass(%v, %v) is unstable: %+v", tc.freq, tc.rate, c)
		}

		if dc := c.DCGain(); math.Abs(dc-1) > 1e-9 {
			t.Fatalf("DC gain = %v, want 1", dc)
		}

		if hf := c.MagnitudeDB(tc.freq*10, tc.rate); hf > -35 {
			t.Fatalf("decade above cutoff = %v dB, want < -35", hf)
		}
	}
}

func TestLowpassRejectsInvalid(t *testing.T) {
	for _, tc := range []struct {
		name       string
		freq, rate float64
	}{
		{"zero freq", 0, 44100},
		{"at nyquist", 22050, 44100},
		{"zero rate", 100, 0},
		{"nan freq", math.NaN(), 44100},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Lowpass(tc.freq, ButterworthQ, tc.rate); !errors.Is(err, core.ErrInvalidParameter) {
				t.Fatalf("error = %v, want ErrInvalidParameter", err)
			}
		})
	}
}
