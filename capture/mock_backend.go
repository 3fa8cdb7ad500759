package capture

import (
	"context"
	"errors"
	"sync"
	"time"
)

// MockBackend is an in-process Backend. Tests push blocks through
// MockStream.Deliver; the CLI demo mode drives it with MockStream.Run.
type MockBackend struct {
	mu       sync.Mutex
	rate     float64
	openErr  error
	startErr error
	streams  []*MockStream
}

// NewMockBackend returns a backend whose default input runs at rate.
func NewMockBackend(rate float64) *MockBackend {
	return &MockBackend{rate: rate}
}

// SetOpenError makes OpenInput fail with err.
func (m *MockBackend) SetOpenError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.openErr = err
}

// SetStartError makes Start on newly opened streams fail with err.
func (m *MockBackend) SetStartError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startErr = err
}

// DefaultSampleRate returns the configured rate.
func (m *MockBackend) DefaultSampleRate() (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.rate <= 0 {
		return 0, errors.New("mock: no default input device")
	}

	return m.rate, nil
}

// OpenInput returns a MockStream bound to cb.
func (m *MockBackend) OpenInput(sampleRate float64, framesPerBlock int, cb Callback) (Stream, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.openErr != nil {
		return nil, m.openErr
	}

	s := &MockStream{
		sampleRate: sampleRate,
		frames:     framesPerBlock,
		cb:         cb,
		startErr:   m.startErr,
		driverBuf:  make([]int16, framesPerBlock),
	}
	m.streams = append(m.streams, s)

	return s, nil
}

// Last returns the most recently opened stream, or nil.
func (m *MockBackend) Last() *MockStream {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.streams) == 0 {
		return nil
	}

	return m.streams[len(m.streams)-1]
}

// MockStream imitates a driver stream: callbacks are serialized, Stop waits
// for a running callback, and the block handed to the callback is a reused
// buffer that is scribbled over after the callback returns.
type MockStream struct {
	sampleRate float64
	frames     int
	startErr   error

	mu        sync.Mutex
	cb        Callback
	driverBuf []int16
	started   bool
	closed    bool

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// SampleRate returns the rate the stream was opened at.
func (s *MockStream) SampleRate() float64 { return s.sampleRate }

// FramesPerBlock returns the block size the stream was opened with.
func (s *MockStream) FramesPerBlock() int { return s.frames }

func (s *MockStream) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return errors.New("mock: stream closed")
	}

	if s.startErr != nil {
		return s.startErr
	}

	s.started = true

	return nil
}

func (s *MockStream) Stop() error {
	s.mu.Lock()
	s.started = false
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}

	s.wg.Wait()

	return nil
}

func (s *MockStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.started = false
	s.closed = true

	return nil
}

// Deliver runs the callback once with samples copied into the driver
// buffer. It reports false, without calling back, unless the stream is
// started.
func (s *MockStream) Deliver(samples []int16) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return false
	}

	if cap(s.driverBuf) < len(samples) {
		s.driverBuf = make([]int16, len(samples))
	}

	buf := s.driverBuf[:len(samples)]
	copy(buf, samples)
	s.cb(buf)

	for i := range buf {
		buf[i] = -1
	}

	return true
}

// Run delivers a block from gen every interval until Stop. gen fills the
// block it is given.
func (s *MockStream) Run(interval time.Duration, gen func(block []int16)) {
	ctx, cancel := context.WithCancel(context.Background())

	s.mu.Lock()
	s.cancel = cancel
	s.mu.Unlock()

	block := make([]int16, s.frames)

	s.wg.Add(1)

	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				gen(block)
				s.Deliver(block)
			}
		}
	}()
}
