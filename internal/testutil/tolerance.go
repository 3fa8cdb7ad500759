package testutil

import (
	"fmt"
	"math"
	"testing"
)

type sample interface {
	~int16 | ~float64
}

// worst returns the index and size of the largest |a[i]-b[i]|, or -1 for
// empty input. a and b must have equal length.
func worst[T sample](a, b []T) (int, float64) {
	idx, maxDiff := -1, 0.0

	for i := range a {
		if d := math.Abs(float64(a[i]) - float64(b[i])); idx < 0 || d > maxDiff || math.IsNaN(d) {
			idx, maxDiff = i, d
			if math.IsNaN(d) {
				break
			}
		}
	}

	return idx, maxDiff
}

func requireWithin[T sample](t *testing.T, got, want []T, tol float64) {
	t.Helper()

	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %d, want %d", len(got), len(want))
	}

	if i, d := worst(got, want); i >= 0 && !(d <= tol) {
		t.Fatalf("index %d: got %v, want %v (diff %v > tol %v)", i, got[i], want[i], d, tol)
	}
}

// RequireSliceNearlyEqual fails t unless got and want have equal length and
// every pair is within eps.
func RequireSliceNearlyEqual(t *testing.T, got, want []float64, eps float64) {
	t.Helper()
	requireWithin(t, got, want, eps)
}

// RequireInt16Within is RequireSliceNearlyEqual for PCM, with tol in counts.
func RequireInt16Within(t *testing.T, got, want []int16, tol int) {
	t.Helper()
	requireWithin(t, got, want, float64(tol))
}

// RequireFinite fails t on the first NaN or Inf.
func RequireFinite(t *testing.T, data []float64) {
	t.Helper()

	for i, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("index %d: non-finite value %v", i, v)
		}
	}
}

// PeakInt16 returns max |x[i]| as an int, so -32768 reports 32768.
func PeakInt16(x []int16) int {
	_, d := worst(x, make([]int16, len(x)))
	return int(d)
}

// MaxAbsDiff returns max |a[i]-b[i]|, or an error for unequal lengths.
func MaxAbsDiff(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("length mismatch: %d vs %d", len(a), len(b))
	}

	_, d := worst(a, b)

	return d, nil
}
