package capture

import (
	"context"
	"fmt"
	"math"
	"math/bits"
	"sync/atomic"
	"time"

	algofft "github.com/cwbudde/algo-fft"
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-voicefx/dsp/window"
)

const (
	defaultScopeInterval = 30 * time.Millisecond
	defaultScopeFFTSize  = 1024
	defaultScopeBuffer   = 4

	spectrumFloorDB = -120.0
)

// Frame is one display update.
type Frame struct {
	// Samples is the ring window, oldest first.
	Samples []int16
	Peak    int
	// RMS is in int16 units.
	RMS float64
	// SpectrumDB holds FFTSize/2+1 bins in dB relative to a full-scale sine.
	SpectrumDB []float64
	// Written is the ring's total sample count at snapshot time.
	Written uint64
}

// ScopeOption configures a Scope.
type ScopeOption func(*scopeConfig)

type scopeConfig struct {
	interval time.Duration
	fftSize  int
	buffer   int
	window   window.Type
}

// WithInterval sets the minimum spacing between frames.
func WithInterval(d time.Duration) ScopeOption {
	return func(c *scopeConfig) {
		if d >= 0 {
			c.interval = d
		}
	}
}

// WithFFTSize sets the spectrum length. It must be a power of two.
func WithFFTSize(n int) ScopeOption {
	return func(c *scopeConfig) {
		c.fftSize = n
	}
}

// WithWindow sets the analysis window. The default is Hann.
func WithWindow(t window.Type) ScopeOption {
	return func(c *scopeConfig) {
		c.window = t
	}
}

// WithFrameBuffer sets how many unread frames are kept.
func WithFrameBuffer(n int) ScopeOption {
	return func(c *scopeConfig) {
		if n > 0 {
			c.buffer = n
		}
	}
}

type forwardPlan interface {
	Forward(dst, src []complex128) error
}

// Scope turns ring snapshots into Frames on its own goroutine.
type Scope struct {
	session *Session
	cfg     scopeConfig
	out     chan Frame
	plan    forwardPlan
	window  []float64
	norm    float64

	dropped atomic.Uint64
}

// NewScope creates a scope over s. Call Run to start it.
func NewScope(s *Session, opts ...ScopeOption) (*Scope, error) {
	cfg := scopeConfig{
		interval: defaultScopeInterval,
		fftSize:  defaultScopeFFTSize,
		buffer:   defaultScopeBuffer,
		window:   window.TypeHann,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.fftSize < 2 || bits.OnesCount(uint(cfg.fftSize)) != 1 {
		return nil, fmt.Errorf("scope FFT size must be a power of two >= 2: %d", cfg.fftSize)
	}

	plan, err := algofft.NewPlan64(cfg.fftSize)
	if err != nil {
		return nil, fmt.Errorf("scope FFT plan: %w", err)
	}

	coeffs := window.Generate(cfg.window, cfg.fftSize, window.WithPeriodic())

	gain, err := window.CoherentGain(coeffs)
	if err != nil {
		return nil, fmt.Errorf("scope window %v: %w", cfg.window, err)
	}

	return &Scope{
		session: s,
		cfg:     cfg,
		out:     make(chan Frame, cfg.buffer),
		plan:    plan,
		window:  coeffs,
		// A full-scale sine reads 0 dB at its bin.
		norm: 2 / (gain * float64(cfg.fftSize) * 32767),
	}, nil
}

// Frames returns the output channel. It is closed when Run returns.
func (sc *Scope) Frames() <-chan Frame { return sc.out }

// Dropped returns how many frames were discarded because the consumer lagged.
func (sc *Scope) Dropped() uint64 { return sc.dropped.Load() }

// Run publishes a frame after each data-ready signal, no more often than
// the configured interval, until ctx is done.
func (sc *Scope) Run(ctx context.Context) error {
	defer close(sc.out)

	var (
		last time.Time
		snap []int16
	)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-sc.session.Ready():
		}

		if wait := sc.cfg.interval - time.Since(last); !last.IsZero() && wait > 0 {
			t := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				t.Stop()
				return ctx.Err()
			case <-t.C:
			}
		}

		ring := sc.session.Ring()
		if ring == nil {
			continue
		}

		written := ring.Written()
		snap = ring.Snapshot(snap)

		f, err := sc.frame(snap, written)
		if err != nil {
			return err
		}

		sc.publish(f)
		last = time.Now()
	}
}

func (sc *Scope) publish(f Frame) {
	for {
		select {
		case sc.out <- f:
			return
		default:
		}

		select {
		case <-sc.out:
			sc.dropped.Add(1)
		default:
		}
	}
}

func (sc *Scope) frame(snap []int16, written uint64) (Frame, error) {
	samples := make([]int16, len(snap))
	copy(samples, snap)

	peak := 0
	sumSq := 0.0

	for _, v := range samples {
		a := int(v)
		if a < 0 {
			a = -a
		}

		peak = max(peak, a)
		sumSq += float64(v) * float64(v)
	}

	rms := 0.0
	if len(samples) > 0 {
		rms = math.Sqrt(sumSq / float64(len(samples)))
	}

	spec, err := sc.spectrum(samples)
	if err != nil {
		return Frame{}, err
	}

	return Frame{
		Samples:    samples,
		Peak:       peak,
		RMS:        rms,
		SpectrumDB: spec,
		Written:    written,
	}, nil
}

// spectrum analyses the newest fftSize samples, zero-padded on the left
// when the window is shorter.
func (sc *Scope) spectrum(samples []int16) ([]float64, error) {
	n := sc.cfg.fftSize
	frame := make([]float64, n)

	tail := samples
	if len(tail) > n {
		tail = tail[len(tail)-n:]
	}

	offset := n - len(tail)
	for i, v := range tail {
		frame[offset+i] = float64(v)
	}

	if err := window.ApplyCoefficientsInPlace(frame, sc.window); err != nil {
		return nil, fmt.Errorf("scope window: %w", err)
	}

	in := make([]complex128, n)
	for i, v := range frame {
		in[i] = complex(v, 0)
	}

	out := make([]complex128, n)
	if err := sc.plan.Forward(out, in); err != nil {
		return nil, fmt.Errorf("scope FFT: %w", err)
	}

	bins := n/2 + 1
	re := make([]float64, bins)
	im := make([]float64, bins)

	for i := range bins {
		re[i] = real(out[i])
		im[i] = imag(out[i])
	}

	mag := make([]float64, bins)
	vecmath.Magnitude(mag, re, im)

	for i, m := range mag {
		db := 20 * math.Log10(m*sc.norm)
		if math.IsInf(db, -1) || db < spectrumFloorDB {
			db = spectrumFloorDB
		}

		mag[i] = db
	}

	return mag, nil
}
