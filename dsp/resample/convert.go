package resample

import (
	"fmt"

	"github.com/cwbudde/algo-voicefx/dsp/core"
	"github.com/cwbudde/algo-voicefx/dsp/pcm"
)

// Quality controls default anti-aliasing filter settings.
type Quality int

const (
	// QualityFast prioritizes lower CPU usage.
	QualityFast Quality = iota
	// QualityBalanced is the default quality/performance trade-off.
	QualityBalanced
	// QualityBest prioritizes stopband attenuation and passband flatness.
	QualityBest
)

// Profile exposes default filter parameters for each quality mode.
type Profile struct {
	TapsPerPhase int
	CutoffScale  float64
	KaiserBeta   float64
}

// QualityProfile returns the default profile used by quality mode q.
func QualityProfile(q Quality) Profile {
	switch q {
	case QualityFast:
		return Profile{TapsPerPhase: 16, CutoffScale: 0.88, KaiserBeta: 5.0}
	case QualityBest:
		return Profile{TapsPerPhase: 64, CutoffScale: 0.96, KaiserBeta: 9.0}
	default:
		return Profile{TapsPerPhase: 32, CutoffScale: 0.92, KaiserBeta: 7.5}
	}
}

const defaultMaxDenominator = 1024

type config struct {
	quality Quality
	maxDen  int
}

// Option configures Convert.
type Option func(*config)

// WithQuality selects a predefined anti-aliasing quality mode.
func WithQuality(q Quality) Option {
	return func(cfg *config) {
		cfg.quality = q
	}
}

// WithMaxDenominator caps the denominator used to approximate the rate ratio.
// Larger values track odd rates more exactly at the cost of a longer filter.
func WithMaxDenominator(n int) Option {
	return func(cfg *config) {
		if n > 0 {
			cfg.maxDen = n
		}
	}
}

// Convert resamples sig to targetRate. Equal rates return a copy unchanged.
// The filter's group delay is compensated, so output sample m lines up with
// input time m/targetRate.
func Convert(sig pcm.Signal, targetRate int, opts ...Option) (pcm.Signal, error) {
	if err := core.ValidateRate("input", sig.Rate); err != nil {
		return pcm.Signal{}, err
	}

	if err := core.ValidateRate("target", targetRate); err != nil {
		return pcm.Signal{}, err
	}

	if sig.Rate == targetRate {
		return sig.Clone(), nil
	}

	cfg := config{quality: QualityBalanced, maxDen: defaultMaxDenominator}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	up, down := rateRatio(sig.Rate, targetRate, cfg.maxDen)

	k, err := designKernel(up, down, QualityProfile(cfg.quality))
	if err != nil {
		return pcm.Signal{}, err
	}

	return pcm.Signal{Samples: k.apply(sig.Samples), Rate: targetRate}, nil
}

// kernel is a zero-phase polyphase FIR prototype at up times the input rate.
type kernel struct {
	up, down int
	taps     []float64
	center   int
}

func designKernel(up, down int, p Profile) (*kernel, error) {
	if up <= 0 || down <= 0 {
		return nil, fmt.Errorf("%w: resample ratio %d/%d", core.ErrInvalidParameter, up, down)
	}

	// Even taps-per-phase times up keeps the centre tap on an integer index.
	span := p.TapsPerPhase * up
	if span%2 != 0 {
		span++
	}

	n := span + 1
	fc := 0.5 / float64(max(up, down)) * p.CutoffScale
	center := span / 2

	win := newKaiser(n, p.KaiserBeta)
	taps := make([]float64, n)
	sum := 0.0

	for i := range taps {
		t := float64(i - center)
		taps[i] = 2 * fc * sinc(2*fc*t) * win.at(i)
		sum += taps[i]
	}

	if sum == 0 {
		return nil, fmt.Errorf("resample: designed zero-sum filter for %d/%d", up, down)
	}

	scale := float64(up) / sum
	for i := range taps {
		taps[i] *= scale
	}

	return &kernel{up: up, down: down, taps: taps, center: center}, nil
}

// apply evaluates the zero-stuffed convolution only at the taps that hit
// real input samples.
func (k *kernel) apply(x []float64) []float64 {
	n := len(x)
	if n == 0 {
		return []float64{}
	}

	outLen := (n*k.up + k.down/2) / k.down
	if outLen < 1 {
		outLen = 1
	}

	out := make([]float64, outLen)

	for m := range out {
		j0 := m*k.down + k.center

		var y float64

		for t := j0 % k.up; t < len(k.taps); t += k.up {
			idx := (j0 - t) / k.up
			if idx < 0 {
				break
			}

			if idx >= n {
				continue
			}

			y += k.taps[t] * x[idx]
		}

		out[m] = y
	}

	return out
}
