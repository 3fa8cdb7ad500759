package effects

import (
	"github.com/cwbudde/algo-voicefx/dsp/delay"
	"github.com/cwbudde/algo-voicefx/dsp/pcm"
	"github.com/cwbudde/algo-voicefx/dsp/resample"
)

// StageHook observes intermediate signals. stage names the step that just
// produced sig, e.g. "reinterpret" or "lowpass". Hooks must not retain or
// modify sig.Samples.
type StageHook func(stage string, sig pcm.Signal)

// Option configures a Dispatcher.
type Option func(*config)

type config struct {
	targetRate  int
	resampleOps []resample.Option
	reverb      delay.ReverbConfig
	hook        StageHook
}

func defaultConfig() config {
	return config{
		reverb: delay.DefaultReverbConfig(),
	}
}

// WithTargetRate sets the playback rate every result is normalized to.
// Zero or less keeps each input's own rate.
func WithTargetRate(rate int) Option {
	return func(c *config) {
		c.targetRate = rate
	}
}

// WithResampleOptions forwards options to the rate converter.
func WithResampleOptions(opts ...resample.Option) Option {
	return func(c *config) {
		c.resampleOps = append(c.resampleOps, opts...)
	}
}

// WithReverbConfig replaces the default reverb taps.
func WithReverbConfig(rc delay.ReverbConfig) Option {
	return func(c *config) {
		c.reverb = rc
	}
}

// WithStageHook installs a hook called after each pipeline stage.
func WithStageHook(h StageHook) Option {
	return func(c *config) {
		c.hook = h
	}
}

func (c *config) stage(name string, sig pcm.Signal) {
	if c.hook != nil {
		c.hook(name, sig)
	}
}

func (c *config) target(sig pcm.Signal) int {
	if c.targetRate > 0 {
		return c.targetRate
	}

	return sig.Rate
}
