package testutil

import (
	"math"
	"testing"
)

func TestDeterministicSine(t *testing.T) {
	s := DeterministicSine(1000, 48000, 1.0, 48)
	if len(s) != 48 {
		t.Fatalf("len = %d, want 48", len(s))
	}
	if math.Abs(s[0]) > 1e-15 {
		t.Fatalf("s[0] = %v, want 0", s[0])
	}
	for i, v := range s {
		if v < -1 || v > 1 {
			t.Fatalf("s[%d] = %v out of range", i, v)
		}
	}
}

func TestDeterministicNoise(t *testing.T) {
	a := DeterministicNoise(42, 1.0, 64)
	b := DeterministicNoise(42, 1.0, 64)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("noise not deterministic at index %d", i)
		}
	}
}

func TestImpulse(t *testing.T) {
	imp := Impulse(8, 3)
	for i, v := range imp {
		want := 0.0
		if i == 3 {
			want = 1
		}
		if v != want {
			t.Fatalf("imp[%d] = %v, want %v", i, v, want)
		}
	}
	for i, v := range Impulse(4, 10) {
		if v != 0 {
			t.Fatalf("imp[%d] = %v, want all zeros for out-of-bounds pos", i, v)
		}
	}
}

func TestInt16Saturates(t *testing.T) {
	got := Int16([]float64{1e6, -1e6, 1.5, -0.4})
	want := []int16{32767, -32768, 2, 0}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Int16[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestSineBuffer(t *testing.T) {
	b := SineBuffer(t, 440, 44100, 10000, 441)
	if b.Len() != 441 || b.SampleRate() != 44100 {
		t.Fatalf("SineBuffer len=%d rate=%d", b.Len(), b.SampleRate())
	}
}
