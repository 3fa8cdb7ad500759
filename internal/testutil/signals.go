package testutil

import (
	"math"
	"math/rand"
	"testing"

	"github.com/cwbudde/algo-voicefx/dsp/pcm"
)

// DeterministicSine generates a deterministic sine wave in float64 units.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// DeterministicNoise generates white noise with a fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// Impulse generates a unit impulse at the given position.
func Impulse(length, pos int) []float64 {
	out := make([]float64, length)
	if pos >= 0 && pos < length {
		out[pos] = 1
	}
	return out
}

// Int16 rounds float samples into int16 PCM, saturating at full scale.
func Int16(x []float64) []int16 {
	out := make([]int16, len(x))
	for i, v := range x {
		r := math.Round(v)
		switch {
		case r > 32767:
			r = 32767
		case r < -32768:
			r = -32768
		}
		out[i] = int16(r)
	}
	return out
}

// SineBuffer returns a pcm.Buffer holding a sine of freqHz at the given peak
// amplitude in int16 units.
func SineBuffer(t *testing.T, freqHz float64, rate int, amplitude float64, length int) *pcm.Buffer {
	t.Helper()
	return MustBuffer(t, Int16(DeterministicSine(freqHz, float64(rate), amplitude, length)), rate)
}

// NoiseBuffer returns a pcm.Buffer of seeded white noise.
func NoiseBuffer(t *testing.T, seed int64, rate int, amplitude float64, length int) *pcm.Buffer {
	t.Helper()
	return MustBuffer(t, Int16(DeterministicNoise(seed, amplitude, length)), rate)
}

// MustBuffer wraps pcm.New and fails t on error.
func MustBuffer(t *testing.T, samples []int16, rate int) *pcm.Buffer {
	t.Helper()
	b, err := pcm.New(samples, rate)
	if err != nil {
		t.Fatalf("pcm.New: %v", err)
	}
	return b
}
