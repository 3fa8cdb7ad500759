package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-voicefx/capture"
	"github.com/cwbudde/algo-voicefx/dsp/window"
	"github.com/cwbudde/algo-voicefx/wavio"
)

const (
	mockToneHz  = 220.0
	mockToneAmp = 8000.0
	meterWidth  = 40
)

func runRecord(ctx context.Context, a *app, args []string) error {
	c := a.cfg.Capture

	fs := newFlagSet(a, "record", "[flags]")
	out := fs.String("out", "", "output WAV file (default <output_dir>/recording-<time>.wav)")
	duration := fs.Duration("duration", 0, "stop after this long; 0 records until interrupted")
	backendName := fs.String("backend", c.Backend, "capture backend: portaudio or mock")
	scope := fs.Bool("scope", false, "show a live level meter")
	play := fs.Bool("play", false, "play the result when done")

	var ef effectFlags
	ef.register(fs, "none")

	if err := parseFlags(fs, args); err != nil {
		return err
	}

	req, err := ef.request(a)
	if err != nil {
		return err
	}

	path := *out
	if path == "" {
		path = filepath.Join(c.OutputDir, "recording-"+time.Now().Format("20060102-150405")+".wav")
	}

	backend, cleanup, err := newBackend(*backendName, c.SampleRate)
	if err != nil {
		return err
	}
	defer cleanup()

	session := capture.NewSession(backend,
		capture.WithSampleRate(c.SampleRate),
		capture.WithFramesPerBlock(c.FramesPerBlock),
		capture.WithRingWindow(c.RingWindow()),
		capture.WithMaxDuration(c.MaxDuration()),
		capture.WithMetrics(a.metrics),
	)

	if err := session.Start(ctx); err != nil {
		return err
	}

	if mock, ok := backend.(*capture.MockBackend); ok {
		driveMock(mock.Last(), session.SampleRate())
	}

	scopeCtx, stopScope := context.WithCancel(ctx)
	meterDone := make(chan struct{})

	if *scope {
		sc, err := a.newScope(session)
		if err != nil {
			stopScope()
			_, _ = session.Stop(context.WithoutCancel(ctx), path)

			return err
		}

		go func() { _ = sc.Run(scopeCtx) }()
		go func() {
			defer close(meterDone)
			printMeter(a.stderr, sc.Frames())
		}()
	} else {
		close(meterDone)
	}

	fmt.Fprintf(a.stderr, "Recording at %d Hz to %s; press Ctrl+C to stop\n", session.SampleRate(), path)

	waitRecording(ctx, *duration)
	stopScope()
	<-meterDone

	saved, err := stopSession(context.WithoutCancel(ctx), session, path)
	if err != nil {
		return err
	}

	stats := session.Stats()
	fmt.Fprintf(a.stdout, "%s\t%d samples\t%.2fs\n",
		saved, stats.Samples, float64(stats.Samples)/float64(session.SampleRate()))

	if req.Kind == kindNone && !*play {
		return nil
	}

	post := context.WithoutCancel(ctx)

	buf, err := wavio.Decode(saved)
	if err != nil {
		return err
	}

	label := "recording"

	if req.Kind != kindNone {
		buf, err = a.applyEffect(post, buf, req)
		if err != nil {
			return err
		}

		effPath := suffixPath(saved, req.Kind.Slug())
		if err := wavio.Encode(buf, effPath); err != nil {
			return err
		}

		label = req.Kind.String()
		fmt.Fprintf(a.stdout, "%s\t%s\n", effPath, label)
	}

	if *play {
		return a.play(post, buf, label)
	}

	return nil
}

func (a *app) newScope(session *capture.Session) (*capture.Scope, error) {
	c := a.cfg.Capture

	win, err := window.ParseType(c.ScopeWindow)
	if err != nil {
		return nil, err
	}

	return capture.NewScope(session,
		capture.WithInterval(c.ScopeInterval()),
		capture.WithFFTSize(c.ScopeFFTSize),
		capture.WithWindow(win),
	)
}

func waitRecording(ctx context.Context, d time.Duration) {
	if d <= 0 {
		<-ctx.Done()
		return
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

// stopSession stops the recording. If path cannot be written the recording
// is saved to the temporary directory instead.
func stopSession(ctx context.Context, s *capture.Session, path string) (string, error) {
	saved, err := s.Stop(ctx, path)

	var encErr *wavio.EncodeError
	if !errors.As(err, &encErr) {
		return saved, err
	}

	fallback := filepath.Join(os.TempDir(), filepath.Base(path))

	logrus.WithFields(logrus.Fields{
		"function": "stopSession",
		"path":     path,
		"fallback": fallback,
	}).WithError(err).Warn("Could not save recording; retrying in temporary directory")

	saved, retryErr := s.Retry(fallback)
	if retryErr != nil {
		return "", fmt.Errorf("save recording: %w", errors.Join(err, retryErr))
	}

	return saved, nil
}

// driveMock feeds the mock stream a sine tone in real time.
func driveMock(stream *capture.MockStream, rate int) {
	interval := time.Duration(float64(stream.FramesPerBlock()) / float64(rate) * float64(time.Second))
	step := 2 * math.Pi * mockToneHz / float64(rate)
	phase := 0.0

	stream.Run(interval, func(block []int16) {
		for i := range block {
			block[i] = int16(mockToneAmp * math.Sin(phase))
			phase = math.Mod(phase+step, 2*math.Pi)
		}
	})
}

func printMeter(w io.Writer, frames <-chan capture.Frame) {
	printed := false

	for f := range frames {
		n := int(math.Round(float64(f.Peak) / 32767 * meterWidth))
		n = min(max(n, 0), meterWidth)

		fmt.Fprintf(w, "\r[%-*s] peak %5d rms %7.1f", meterWidth, strings.Repeat("#", n), f.Peak, f.RMS)

		printed = true
	}

	if printed {
		fmt.Fprintln(w)
	}
}

// suffixPath turns "dir/take.wav" into "dir/take-suffix.wav".
func suffixPath(path, suffix string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "-" + suffix + ext
}
