package biquad

import (
	"math"

	"github.com/cwbudde/algo-voicefx/dsp/pcm"
)

// Coefficients are the a0-normalized taps of one second-order section:
//
//	H(z) = (B0 + B1 z^-1 + B2 z^-2) / (1 + A1 z^-1 + A2 z^-2)
type Coefficients struct {
	B0, B1, B2 float64
	A1, A2     float64
}

// DCGain returns H(1), the gain at 0 Hz.
func (c Coefficients) DCGain() float64 {
	return (c.B0 + c.B1 + c.B2) / (1 + c.A1 + c.A2)
}

// Stable reports whether both poles lie strictly inside the unit circle.
func (c Coefficients) Stable() bool {
	return math.Abs(c.A2) < 1 && math.Abs(c.A1) < 1+c.A2
}

// Section runs one set of coefficients in transposed direct form II:
//
//	y  = B0*x + s1
//	s1 = B1*x - A1*y + s2
//	s2 = B2*x - A2*y
type Section struct {
	c      Coefficients
	s1, s2 float64
}

// NewSection returns a Section with zero state.
func NewSection(c Coefficients) *Section {
	return &Section{c: c}
}

// Coefficients returns the coefficients s was built with.
func (s *Section) Coefficients() Coefficients {
	return s.c
}

// ProcessSample filters one sample.
func (s *Section) ProcessSample(x float64) float64 {
	y := s.c.B0*x + s.s1
	s.s1 = s.c.B1*x - s.c.A1*y + s.s2
	s.s2 = s.c.B2*x - s.c.A2*y

	return y
}

// ProcessTo filters src into dst[:len(src)]. dst may alias src.
func (s *Section) ProcessTo(dst, src []float64) {
	c := s.c
	s1, s2 := s.s1, s.s2

	for i, x := range src {
		y := c.B0*x + s1
		s1 = c.B1*x - c.A1*y + s2
		s2 = c.B2*x - c.A2*y
		dst[i] = y
	}

	s.s1, s.s2 = s1, s2
}

// ProcessBlock filters buf in place.
func (s *Section) ProcessBlock(buf []float64) {
	s.ProcessTo(buf, buf)
}

// Reset clears the state.
func (s *Section) Reset() {
	s.s1, s.s2 = 0, 0
}

// Filter runs c from zero state over sig and returns a new signal.
func Filter(sig pcm.Signal, c Coefficients) pcm.Signal {
	out := pcm.Signal{Samples: make([]float64, len(sig.Samples)), Rate: sig.Rate}
	NewSection(c).ProcessTo(out.Samples, sig.Samples)

	return out
}
