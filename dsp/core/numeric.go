package core

import "math"

const defaultEpsilon = 1e-12

// Int16 full-scale bounds used when quantizing working signals back to PCM.
const (
	Int16Max = 32767
	Int16Min = -32768
)

// Clamp limits value to the inclusive range [min, max].
func Clamp(value, min, max float64) float64 {
	if min > max {
		min, max = max, min
	}

	if value < min {
		return min
	}

	if value > max {
		return max
	}

	return value
}

// NearlyEqual reports whether a and b are equal within eps.
func NearlyEqual(a, b, eps float64) bool {
	if eps <= 0 {
		eps = defaultEpsilon
	}

	diff := math.Abs(a - b)
	if diff <= eps {
		return true
	}

	largest := math.Max(math.Abs(a), math.Abs(b))
	if largest == 0 {
		return diff <= eps
	}

	return diff/largest <= eps
}

// DBToLinear converts dB to linear amplitude (20*log10 convention).
func DBToLinear(db float64) float64 {
	return math.Pow(10, db/20)
}

// LinearToDB converts linear amplitude to dB (20*log10 convention).
// Returns -Inf for zero and NaN for negative values.
func LinearToDB(linear float64) float64 {
	if linear < 0 {
		return math.NaN()
	}

	if linear == 0 {
		return math.Inf(-1)
	}

	return 20 * math.Log10(linear)
}

// MsToSamples converts a duration in milliseconds to a whole number of samples
// at sampleRate, rounding to nearest. Negative durations yield 0.
func MsToSamples(ms float64, sampleRate int) int {
	if ms <= 0 || sampleRate <= 0 {
		return 0
	}

	return int(math.Round(ms * float64(sampleRate) / 1000))
}

// PeakAbs returns the largest absolute value in x, or 0 for an empty slice.
func PeakAbs(x []float64) float64 {
	peak := 0.0
	for _, v := range x {
		if a := math.Abs(v); a > peak {
			peak = a
		}
	}

	return peak
}

// QuantizeInt16 rounds x half away from zero and saturates to the int16 range.
func QuantizeInt16(x float64) int16 {
	if math.IsNaN(x) {
		return 0
	}

	r := math.Round(x)
	if r > Int16Max {
		return Int16Max
	}

	if r < Int16Min {
		return Int16Min
	}

	return int16(r)
}
