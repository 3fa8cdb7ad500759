package pcm

import (
	"fmt"
	"time"

	"github.com/cwbudde/algo-voicefx/dsp/core"
)

// Buffer is an ordered run of signed 16-bit mono samples with a declared
// sample rate. A zero-length Buffer is valid and represents silence.
type Buffer struct {
	samples []int16
	rate    int
}

// New copies samples into a new Buffer declared at rate Hz.
func New(samples []int16, rate int) (*Buffer, error) {
	if err := core.ValidateRate("buffer", rate); err != nil {
		return nil, err
	}

	s := make([]int16, len(samples))
	copy(s, samples)

	return &Buffer{samples: s, rate: rate}, nil
}

// Silence returns a zero-filled Buffer of n samples.
func Silence(n, rate int) (*Buffer, error) {
	if err := core.ValidateRate("buffer", rate); err != nil {
		return nil, err
	}

	if n < 0 {
		n = 0
	}

	return &Buffer{samples: make([]int16, n), rate: rate}, nil
}

// FromInterleaved builds a mono Buffer from interleaved frames by keeping the
// first channel. A trailing partial frame is ignored.
func FromInterleaved(data []int16, channels, rate int) (*Buffer, error) {
	if channels <= 0 {
		return nil, fmt.Errorf("%w: channel count must be > 0: %d", core.ErrInvalidParameter, channels)
	}

	if err := core.ValidateRate("buffer", rate); err != nil {
		return nil, err
	}

	frames := len(data) / channels
	s := make([]int16, frames)

	for i := range s {
		s[i] = data[i*channels]
	}

	return &Buffer{samples: s, rate: rate}, nil
}

// Concat joins blocks in order into one Buffer. Blocks are copied.
func Concat(rate int, blocks ...[]int16) (*Buffer, error) {
	if err := core.ValidateRate("buffer", rate); err != nil {
		return nil, err
	}

	total := 0
	for _, b := range blocks {
		total += len(b)
	}

	s := make([]int16, 0, total)
	for _, b := range blocks {
		s = append(s, b...)
	}

	return &Buffer{samples: s, rate: rate}, nil
}

// Samples returns the underlying samples. The slice must be treated as
// read-only; use Clone before modifying.
func (b *Buffer) Samples() []int16 {
	return b.samples
}

// Len returns the number of samples.
func (b *Buffer) Len() int {
	return len(b.samples)
}

// SampleRate returns the declared sample rate in Hz.
func (b *Buffer) SampleRate() int {
	return b.rate
}

// Duration returns Len()/SampleRate() as a time.Duration.
func (b *Buffer) Duration() time.Duration {
	if b.rate <= 0 {
		return 0
	}

	return time.Duration(float64(len(b.samples)) / float64(b.rate) * float64(time.Second))
}

// Clone returns a deep copy.
func (b *Buffer) Clone() *Buffer {
	s := make([]int16, len(b.samples))
	copy(s, b.samples)

	return &Buffer{samples: s, rate: b.rate}
}

// WithRate returns a copy of b declared at rate Hz. The samples are not
// resampled, so playback speed and pitch change together.
func (b *Buffer) WithRate(rate int) (*Buffer, error) {
	if err := core.ValidateRate("declared", rate); err != nil {
		return nil, err
	}

	c := b.Clone()
	c.rate = rate

	return c, nil
}

// Reversed returns a copy of b with sample order reversed.
func (b *Buffer) Reversed() *Buffer {
	n := len(b.samples)
	s := make([]int16, n)

	for i, v := range b.samples {
		s[n-1-i] = v
	}

	return &Buffer{samples: s, rate: b.rate}
}

// Signal converts b to its float64 working form. Sample values keep their
// int16 scale (full scale is ±32767), so no normalization is implied.
func (b *Buffer) Signal() Signal {
	out := make([]float64, len(b.samples))
	for i, v := range b.samples {
		out[i] = float64(v)
	}

	return Signal{Samples: out, Rate: b.rate}
}

// Equal reports whether a and b have identical rate and samples.
func (b *Buffer) Equal(o *Buffer) bool {
	if b == nil || o == nil {
		return b == o
	}

	if b.rate != o.rate || len(b.samples) != len(o.samples) {
		return false
	}

	for i := range b.samples {
		if b.samples[i] != o.samples[i] {
			return false
		}
	}

	return true
}
