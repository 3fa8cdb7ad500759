package capture

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-voicefx/dsp/pcm"
	"github.com/cwbudde/algo-voicefx/wavio"
)

var (
	// ErrNoAudioCaptured is returned by Stop when no block was delivered.
	// No file is written.
	ErrNoAudioCaptured = errors.New("no audio captured")
	// ErrAlreadyRecording is returned by Start while recording.
	ErrAlreadyRecording = errors.New("already recording")
	// ErrNotRecording is returned by Stop while idle.
	ErrNotRecording = errors.New("not recording")
	// ErrNothingToRetry is returned by Retry when no failed recording is held.
	ErrNothingToRetry = errors.New("no pending recording")
)

// Phase is the session state.
type Phase int32

const (
	PhaseIdle Phase = iota
	PhaseRecording
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseRecording:
		return "recording"
	default:
		return fmt.Sprintf("Phase(%d)", int32(p))
	}
}

// Stats are the counters of the current or last recording.
type Stats struct {
	Blocks  uint64
	Samples uint64
	Dropped uint64
	// InlineSlabs counts storage slabs allocated on the callback because
	// no preallocated spare was ready.
	InlineSlabs uint64
	// Faults counts callbacks that panicked and were recovered.
	Faults uint64
}

// Session owns one input stream and its recorded audio. Start and Stop may
// be called from any goroutine; they are serialized internally.
type Session struct {
	backend Backend
	cfg     config

	mu         sync.Mutex
	stream     Stream
	rate       int
	acc        *arena
	stopRefill context.CancelFunc
	refillDone chan struct{}
	pending    *pcm.Buffer

	phase atomic.Int32
	ring  atomic.Pointer[Ring]

	// Callback side.
	notify      chan struct{}
	inFlight    atomic.Int32
	closed      atomic.Bool
	blocks      atomic.Uint64
	samples     atomic.Uint64
	dropped     atomic.Uint64
	inlineSlabs atomic.Uint64
	faults      atomic.Uint64
}

// NewSession returns an idle session on backend.
func NewSession(backend Backend, opts ...Option) *Session {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	s := &Session{
		backend: backend,
		cfg:     cfg,
		notify:  make(chan struct{}, 1),
	}
	s.closed.Store(true)

	return s
}

// Phase returns the current state.
func (s *Session) Phase() Phase { return Phase(s.phase.Load()) }

// SampleRate returns the stream rate of the current or last recording, or
// 0 before the first Start.
func (s *Session) SampleRate() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.rate
}

// Ring returns the display ring of the current or last recording, or nil
// before the first Start.
func (s *Session) Ring() *Ring { return s.ring.Load() }

// Ready is signalled, without blocking the callback, after every block.
// Signals coalesce: one pending value stands for any number of blocks.
func (s *Session) Ready() <-chan struct{} { return s.notify }

// Stats returns the counters of the current or last recording.
func (s *Session) Stats() Stats {
	return Stats{
		Blocks:      s.blocks.Load(),
		Samples:     s.samples.Load(),
		Dropped:     s.dropped.Load(),
		InlineSlabs: s.inlineSlabs.Load(),
		Faults:      s.faults.Load(),
	}
}

// Pending returns the recording held after a failed encode, or nil.
func (s *Session) Pending() *pcm.Buffer {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.pending
}

// Start opens the input stream and begins recording. Any earlier
// accumulation, including a pending failed recording, is discarded.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Phase() == PhaseRecording {
		return ErrAlreadyRecording
	}

	rate := s.cfg.sampleRate
	if rate <= 0 {
		r, err := s.backend.DefaultSampleRate()
		if err != nil {
			return fmt.Errorf("query input sample rate: %w", err)
		}

		rate = r
	}

	irate := int(math.Round(rate))
	if irate <= 0 {
		return fmt.Errorf("invalid input sample rate %f", rate)
	}

	limit := 0
	if s.cfg.maxDuration > 0 {
		limit = int(math.Round(s.cfg.maxDuration.Seconds() * float64(irate)))
	}

	ringLen := int(math.Round(s.cfg.ringWindow.Seconds() * float64(irate)))

	s.rate = irate
	s.pending = nil
	s.acc = newArena(irate, limit, &s.inlineSlabs)
	s.ring.Store(NewRing(ringLen))
	s.blocks.Store(0)
	s.samples.Store(0)
	s.dropped.Store(0)
	s.inlineSlabs.Store(0)
	s.faults.Store(0)
	s.drainNotify()
	s.closed.Store(false)

	stream, err := s.backend.OpenInput(float64(irate), s.cfg.framesPerBlock, s.onBlock)
	if err != nil {
		s.closed.Store(true)
		return fmt.Errorf("open input stream: %w", err)
	}

	refillCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	done := make(chan struct{})

	go func(a *arena) {
		defer close(done)
		a.refill(refillCtx)
	}(s.acc)

	if err := stream.Start(); err != nil {
		s.closed.Store(true)
		_ = stream.Close()

		cancel()
		<-done

		return fmt.Errorf("start input stream: %w", err)
	}

	s.stream = stream
	s.stopRefill = cancel
	s.refillDone = done
	s.phase.Store(int32(PhaseRecording))

	if s.cfg.metrics != nil {
		s.cfg.metrics.RecordingStarted(ctx)
	}

	logrus.WithFields(logrus.Fields{
		"function":         "Start",
		"sample_rate":      irate,
		"frames_per_block": s.cfg.framesPerBlock,
		"max_duration":     s.cfg.maxDuration,
	}).Info("Recording started")

	return nil
}

// onBlock runs on the driver's callback thread.
func (s *Session) onBlock(in []int16) {
	s.inFlight.Add(1)
	defer s.inFlight.Add(-1)

	if s.closed.Load() {
		return
	}

	// accounted is how much of in has been counted as stored or dropped.
	accounted := 0

	defer func() {
		if r := recover(); r != nil {
			s.faults.Add(1)
			s.dropped.Add(uint64(len(in) - accounted))
		}
	}()

	stored := s.acc.append(in)
	s.samples.Add(uint64(stored))
	s.dropped.Add(uint64(len(in) - stored))
	accounted = len(in)

	s.blocks.Add(1)
	s.ring.Load().Write(in)

	select {
	case s.notify <- struct{}{}:
	default:
	}
}

// halt closes the stream and waits until no callback is in flight. s.mu
// must be held.
func (s *Session) halt() error {
	stopErr := s.stream.Stop()
	closeErr := s.stream.Close()
	s.stream = nil

	s.closed.Store(true)

	for s.inFlight.Load() != 0 {
		runtime.Gosched()
	}

	s.stopRefill()
	<-s.refillDone

	s.phase.Store(int32(PhaseIdle))

	return errors.Join(stopErr, closeErr)
}

// Stop ends the recording and encodes it to path. It returns path on
// success, ErrNoAudioCaptured if nothing was delivered, or a
// *wavio.EncodeError if writing failed; in that case the recording is kept
// for Retry.
func (s *Session) Stop(ctx context.Context, path string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Phase() != PhaseRecording {
		return "", ErrNotRecording
	}

	log := logrus.WithFields(logrus.Fields{
		"function": "Stop",
		"path":     path,
	})

	if err := s.halt(); err != nil {
		log.WithError(err).Warn("Input stream did not shut down cleanly")
	}

	stats := s.Stats()
	if s.cfg.metrics != nil {
		s.cfg.metrics.RecordingStopped(ctx, int64(stats.Samples), int64(stats.Dropped))
	}

	if stats.Dropped > 0 || stats.Faults > 0 {
		log.WithFields(logrus.Fields{
			"dropped": stats.Dropped,
			"faults":  stats.Faults,
		}).Warn("Samples dropped during recording")
	}

	if stats.InlineSlabs > 0 {
		log.WithField("inline_slabs", stats.InlineSlabs).Debug("Slabs allocated on the callback")
	}

	if s.acc.len() == 0 {
		log.Info("Recording stopped with no audio")
		return "", ErrNoAudioCaptured
	}

	buf, err := pcm.New(s.acc.samples(), s.rate)
	if err != nil {
		return "", err
	}

	s.acc = nil
	s.pending = buf

	return s.encodePending(log, path)
}

// Retry encodes the recording kept after a failed Stop to path.
func (s *Session) Retry(path string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending == nil {
		return "", ErrNothingToRetry
	}

	return s.encodePending(logrus.WithFields(logrus.Fields{
		"function": "Retry",
		"path":     path,
	}), path)
}

func (s *Session) encodePending(log *logrus.Entry, path string) (string, error) {
	if err := wavio.Encode(s.pending, path); err != nil {
		log.WithError(err).Error("Failed to write recording; keeping it for retry")
		return "", err
	}

	log.WithFields(logrus.Fields{
		"samples":  s.pending.Len(),
		"duration": s.pending.Duration(),
	}).Info("Recording saved")

	s.pending = nil

	return path, nil
}

func (s *Session) drainNotify() {
	select {
	case <-s.notify:
	default:
	}
}
