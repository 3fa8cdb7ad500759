package capture

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-voicefx/wavio"
)

const testRate = 44100

func startSession(t *testing.T, opts ...Option) (*Session, *MockStream) {
	t.Helper()

	backend := NewMockBackend(testRate)
	s := NewSession(backend, opts...)
	require.NoError(t, s.Start(context.Background()))
	require.Equal(t, PhaseRecording, s.Phase())

	stream := backend.Last()
	require.NotNil(t, stream)

	return s, stream
}

func ramp(start, n int) []int16 {
	out := make([]int16, n)
	for i := range out {
		out[i] = int16(start + i)
	}

	return out
}

func TestStopWithoutAudio(t *testing.T) {
	s, _ := startSession(t)
	path := filepath.Join(t.TempDir(), "empty.wav")

	got, err := s.Stop(context.Background(), path)

	require.ErrorIs(t, err, ErrNoAudioCaptured)
	assert.Empty(t, got)
	assert.Equal(t, PhaseIdle, s.Phase())

	_, statErr := os.Stat(path)
	assert.True(t, errors.Is(statErr, os.ErrNotExist), "file written for empty recording")
}

func TestStopWritesDeliveredAudio(t *testing.T) {
	s, stream := startSession(t, WithFramesPerBlock(256))

	var want []int16

	for i := range 10 {
		block := ramp(i*256, 256)
		want = append(want, block...)
		require.True(t, stream.Deliver(block))
	}

	path := filepath.Join(t.TempDir(), "rec.wav")
	got, err := s.Stop(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, path, got)

	buf, err := wavio.Decode(path)
	require.NoError(t, err)

	// The mock scribbles over its block after each callback, so equality
	// proves every block was copied.
	assert.Equal(t, want, buf.Samples())
	assert.Equal(t, testRate, buf.SampleRate())
	assert.InDelta(t, float64(len(want))/testRate, buf.Duration().Seconds(), 256.0/testRate)

	stats := s.Stats()
	assert.Equal(t, uint64(10), stats.Blocks)
	assert.Equal(t, uint64(len(want)), stats.Samples)
	assert.Zero(t, stats.Dropped)
}

func TestDeliveryAfterStopIsIgnored(t *testing.T) {
	s, stream := startSession(t)
	require.True(t, stream.Deliver([]int16{1, 2, 3}))

	_, err := s.Stop(context.Background(), filepath.Join(t.TempDir(), "a.wav"))
	require.NoError(t, err)

	assert.False(t, stream.Deliver([]int16{4, 5, 6}))
	s.onBlock([]int16{4, 5, 6})
	assert.Equal(t, uint64(3), s.Stats().Samples)
}

func TestStartTwice(t *testing.T) {
	s, _ := startSession(t)
	assert.ErrorIs(t, s.Start(context.Background()), ErrAlreadyRecording)
}

func TestStopWhileIdle(t *testing.T) {
	s := NewSession(NewMockBackend(testRate))

	_, err := s.Stop(context.Background(), "unused.wav")
	assert.ErrorIs(t, err, ErrNotRecording)
}

func TestRestartClearsAccumulation(t *testing.T) {
	s, stream := startSession(t)
	require.True(t, stream.Deliver([]int16{1, 2, 3}))

	dir := t.TempDir()
	_, err := s.Stop(context.Background(), filepath.Join(dir, "first.wav"))
	require.NoError(t, err)

	require.NoError(t, s.Start(context.Background()))
	_, err = s.Stop(context.Background(), filepath.Join(dir, "second.wav"))
	require.ErrorIs(t, err, ErrNoAudioCaptured)
}

func TestMaxDurationCountsDropped(t *testing.T) {
	// 1 ms at 44100 Hz is 44 samples.
	s, stream := startSession(t, WithMaxDuration(time.Millisecond))

	require.True(t, stream.Deliver(ramp(0, 30)))
	require.True(t, stream.Deliver(ramp(30, 30)))

	path := filepath.Join(t.TempDir(), "capped.wav")
	_, err := s.Stop(context.Background(), path)
	require.NoError(t, err)

	stats := s.Stats()
	assert.Equal(t, uint64(44), stats.Samples)
	assert.Equal(t, uint64(16), stats.Dropped)

	buf, err := wavio.Decode(path)
	require.NoError(t, err)
	assert.Equal(t, ramp(0, 44), buf.Samples())
}

func TestEncodeFailureKeepsRecordingForRetry(t *testing.T) {
	s, stream := startSession(t)
	require.True(t, stream.Deliver(ramp(0, 100)))

	dir := t.TempDir()
	bad := filepath.Join(dir, "no-such-dir", "rec.wav")

	_, err := s.Stop(context.Background(), bad)

	var ee *wavio.EncodeError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, PhaseIdle, s.Phase())
	require.NotNil(t, s.Pending())
	assert.Equal(t, 100, s.Pending().Len())

	good := filepath.Join(dir, "rec.wav")
	got, err := s.Retry(good)
	require.NoError(t, err)
	assert.Equal(t, good, got)
	assert.Nil(t, s.Pending())

	buf, err := wavio.Decode(good)
	require.NoError(t, err)
	assert.Equal(t, ramp(0, 100), buf.Samples())

	_, err = s.Retry(good)
	assert.ErrorIs(t, err, ErrNothingToRetry)
}

func TestBackendErrors(t *testing.T) {
	t.Run("open", func(t *testing.T) {
		backend := NewMockBackend(testRate)
		backend.SetOpenError(errors.New("device busy"))

		s := NewSession(backend)
		err := s.Start(context.Background())
		require.ErrorContains(t, err, "device busy")
		assert.Equal(t, PhaseIdle, s.Phase())
	})

	t.Run("start", func(t *testing.T) {
		backend := NewMockBackend(testRate)
		backend.SetStartError(errors.New("no permission"))

		s := NewSession(backend)
		err := s.Start(context.Background())
		require.ErrorContains(t, err, "no permission")
		assert.Equal(t, PhaseIdle, s.Phase())
	})

	t.Run("no default device", func(t *testing.T) {
		s := NewSession(NewMockBackend(0))
		require.Error(t, s.Start(context.Background()))
	})
}

func TestExplicitSampleRate(t *testing.T) {
	backend := NewMockBackend(testRate)
	s := NewSession(backend, WithSampleRate(16000))
	require.NoError(t, s.Start(context.Background()))

	assert.Equal(t, 16000, s.SampleRate())
	assert.InDelta(t, 16000, backend.Last().SampleRate(), 0)

	_, err := s.Stop(context.Background(), filepath.Join(t.TempDir(), "x.wav"))
	require.ErrorIs(t, err, ErrNoAudioCaptured)
}

func TestConcurrentCaptureAndScope(t *testing.T) {
	s, stream := startSession(t, WithFramesPerBlock(128), WithRingWindow(50*time.Millisecond))

	sc, err := NewScope(s, WithInterval(time.Millisecond), WithFFTSize(256))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	scopeDone := make(chan error, 1)
	go func() { scopeDone <- sc.Run(ctx) }()

	next := 0
	stream.Run(time.Millisecond, func(block []int16) {
		for i := range block {
			block[i] = int16(next % 1000)
			next++
		}
	})

	require.Eventually(t, func() bool { return s.Stats().Blocks >= 20 }, 5*time.Second, time.Millisecond)

	var frame Frame
	select {
	case frame = <-sc.Frames():
	case <-time.After(5 * time.Second):
		t.Fatal("no scope frame")
	}

	assert.Len(t, frame.Samples, s.Ring().Cap())

	path := filepath.Join(t.TempDir(), "live.wav")
	_, err = s.Stop(context.Background(), path)
	require.NoError(t, err)

	cancel()
	assert.ErrorIs(t, <-scopeDone, context.Canceled)

	buf, err := wavio.Decode(path)
	require.NoError(t, err)

	stats := s.Stats()
	assert.Equal(t, int(stats.Samples), buf.Len())

	for i, v := range buf.Samples() {
		if v != int16(i%1000) {
			t.Fatalf("sample %d = %d, want %d", i, v, i%1000)
		}
	}
}

func TestBurstDeliveryKeepsEverySample(t *testing.T) {
	backend := NewMockBackend(8000)
	s := NewSession(backend, WithFramesPerBlock(1024))
	require.NoError(t, s.Start(context.Background()))

	stream := backend.Last()
	want := make([]int16, 0, 200*1024)

	// Back-to-back blocks fill a one-second slab every eight callbacks,
	// faster than the refill goroutine is guaranteed to run.
	for i := range 200 {
		block := ramp(i*1024, 1024)
		want = append(want, block...)
		require.True(t, stream.Deliver(block))
	}

	path := filepath.Join(t.TempDir(), "burst.wav")
	_, err := s.Stop(context.Background(), path)
	require.NoError(t, err)

	stats := s.Stats()
	assert.Zero(t, stats.Dropped)
	assert.Equal(t, uint64(200*1024), stats.Samples)
	assert.Equal(t, uint64(200), stats.Blocks)

	buf, err := wavio.Decode(path)
	require.NoError(t, err)
	assert.Equal(t, 200*1024, buf.Len())
	assert.Equal(t, want, buf.Samples())
}

func TestCallbackPanicIsRecovered(t *testing.T) {
	t.Run("after storing", func(t *testing.T) {
		s, stream := startSession(t)
		ring := s.Ring()

		// Writing to a nil ring panics once the block is already stored.
		s.ring.Store(nil)
		require.True(t, stream.Deliver(ramp(0, 50)))

		stats := s.Stats()
		assert.Equal(t, uint64(1), stats.Faults)
		assert.Equal(t, uint64(50), stats.Samples)
		assert.Zero(t, stats.Dropped)
		assert.Zero(t, s.inFlight.Load())

		s.ring.Store(ring)
		require.True(t, stream.Deliver(ramp(50, 50)))

		path := filepath.Join(t.TempDir(), "kept.wav")
		_, err := s.Stop(context.Background(), path)
		require.NoError(t, err)
		assert.Equal(t, PhaseIdle, s.Phase())

		buf, err := wavio.Decode(path)
		require.NoError(t, err)
		assert.Equal(t, ramp(0, 100), buf.Samples())
	})

	t.Run("before storing", func(t *testing.T) {
		s, stream := startSession(t)
		acc := s.acc

		s.acc = nil
		require.True(t, stream.Deliver(ramp(0, 50)))

		stats := s.Stats()
		assert.Equal(t, uint64(1), stats.Faults)
		assert.Equal(t, uint64(50), stats.Dropped)
		assert.Zero(t, stats.Samples)
		assert.Zero(t, s.inFlight.Load())

		s.acc = acc
		require.True(t, stream.Deliver(ramp(50, 30)))

		path := filepath.Join(t.TempDir(), "partial.wav")
		_, err := s.Stop(context.Background(), path)
		require.NoError(t, err)

		stats = s.Stats()
		assert.Equal(t, uint64(50), stats.Dropped)
		assert.Equal(t, uint64(30), stats.Samples)

		buf, err := wavio.Decode(path)
		require.NoError(t, err)
		assert.Equal(t, ramp(50, 30), buf.Samples())
	})
}
