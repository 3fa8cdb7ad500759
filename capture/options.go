package capture

import (
	"time"

	"github.com/cwbudde/algo-voicefx/internal/observe"
)

const (
	defaultFramesPerBlock = 1024
	defaultRingWindow     = time.Second
)

// Option configures a Session.
type Option func(*config)

type config struct {
	sampleRate     float64
	framesPerBlock int
	ringWindow     time.Duration
	maxDuration    time.Duration
	metrics        *observe.Metrics
}

func defaultConfig() config {
	return config{
		framesPerBlock: defaultFramesPerBlock,
		ringWindow:     defaultRingWindow,
	}
}

// WithSampleRate fixes the stream rate instead of asking the backend for the
// device default.
func WithSampleRate(hz float64) Option {
	return func(c *config) {
		if hz > 0 {
			c.sampleRate = hz
		}
	}
}

// WithFramesPerBlock sets the callback block size.
func WithFramesPerBlock(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.framesPerBlock = n
		}
	}
}

// WithRingWindow sets how much recent audio the ring keeps for display.
func WithRingWindow(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.ringWindow = d
		}
	}
}

// WithMaxDuration caps a recording. Audio past the cap is counted as
// dropped. Zero means unlimited.
func WithMaxDuration(d time.Duration) Option {
	return func(c *config) {
		if d >= 0 {
			c.maxDuration = d
		}
	}
}

// WithMetrics records capture counters on m.
func WithMetrics(m *observe.Metrics) Option {
	return func(c *config) {
		c.metrics = m
	}
}
