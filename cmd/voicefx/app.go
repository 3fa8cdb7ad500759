package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-voicefx/capture"
	"github.com/cwbudde/algo-voicefx/dsp/effects"
	"github.com/cwbudde/algo-voicefx/dsp/pcm"
	"github.com/cwbudde/algo-voicefx/dsp/resample"
	"github.com/cwbudde/algo-voicefx/internal/config"
	"github.com/cwbudde/algo-voicefx/internal/observe"
	"github.com/cwbudde/algo-voicefx/preset"
)

type globalFlags struct {
	configPath    string
	logLevel      string
	logFormat     string
	metricsListen string
	presetsFile   string
}

// app carries what every command needs.
type app struct {
	cfg        *config.Config
	stdout     io.Writer
	stderr     io.Writer
	metrics    *observe.Metrics
	dispatcher *effects.Dispatcher
	presets    preset.Store

	provider *observe.Provider
	server   *http.Server
}

func newApp(g globalFlags, stdout, stderr io.Writer) (*app, error) {
	cfg, err := config.Load(g.configPath)
	if err != nil {
		return nil, err
	}

	if g.logLevel != "" {
		cfg.Log.Level = g.logLevel
	}

	if g.logFormat != "" {
		cfg.Log.Format = g.logFormat
	}

	if g.metricsListen != "" {
		cfg.Metrics.Listen = g.metricsListen
	}

	if g.presetsFile != "" {
		cfg.Presets.File = g.presetsFile
	}

	if err := config.Validate(cfg); err != nil {
		return nil, err
	}

	if err := observe.SetupLogging(stderr, cfg.Log.Level, cfg.Log.Format); err != nil {
		return nil, err
	}

	a := &app{
		cfg:        cfg,
		stdout:     stdout,
		stderr:     stderr,
		dispatcher: effects.NewDispatcher(effectOptions(cfg.Effects)...),
		presets:    preset.NewFileStore(cfg.Presets.File),
	}

	if cfg.Metrics.Listen != "" {
		if err := a.startMetrics(cfg.Metrics.Listen); err != nil {
			return nil, err
		}
	}

	return a, nil
}

func effectOptions(c config.EffectsConfig) []effects.Option {
	q := resample.QualityBalanced

	switch c.Quality {
	case "fast":
		q = resample.QualityFast
	case "best":
		q = resample.QualityBest
	}

	return []effects.Option{
		effects.WithTargetRate(c.TargetRate),
		effects.WithResampleOptions(resample.WithQuality(q)),
	}
}

func (a *app) startMetrics(addr string) error {
	p, err := observe.InitProvider(context.Background(), observe.ProviderConfig{ServiceName: "voicefx"})
	if err != nil {
		return fmt.Errorf("init metrics: %w", err)
	}

	m, err := observe.NewMetrics(p.MeterProvider)
	if err != nil {
		_ = p.Shutdown(context.Background())
		return fmt.Errorf("init metrics: %w", err)
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		_ = p.Shutdown(context.Background())
		return fmt.Errorf("metrics listener: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", p.Handler())

	a.provider = p
	a.metrics = m
	a.server = &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := a.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithError(err).Error("Metrics server stopped")
		}
	}()

	logrus.WithFields(logrus.Fields{
		"function": "startMetrics",
		"addr":     ln.Addr().String(),
	}).Info("Serving metrics")

	return nil
}

func (a *app) close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if a.server != nil {
		_ = a.server.Shutdown(ctx)
	}

	if a.provider != nil {
		_ = a.provider.Shutdown(ctx)
	}
}

// applyEffect runs one request and records it on the metrics. kindNone
// copies the buffer unchanged.
func (a *app) applyEffect(ctx context.Context, buf *pcm.Buffer, req effects.Request) (*pcm.Buffer, error) {
	if req.Kind == kindNone {
		return buf.Clone(), nil
	}

	start := time.Now()
	out, err := a.dispatcher.Apply(buf, req)
	elapsed := time.Since(start)

	a.metrics.RecordEffect(ctx, req.Kind.Slug(), elapsed, err)

	log := logrus.WithFields(logrus.Fields{
		"function": "applyEffect",
		"effect":   req.Kind.String(),
		"elapsed":  elapsed,
	})

	if err != nil {
		log.WithError(err).Error("Effect failed")
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"in_samples":  buf.Len(),
		"out_samples": out.Len(),
		"out_rate":    out.SampleRate(),
	}).Debug("Effect applied")

	return out, nil
}

// kindNone is the "None" menu entry. It never reaches the dispatcher.
const kindNone effects.Kind = 0

// effectFlags are the flags shared by commands that select an effect.
type effectFlags struct {
	effect     string
	speed      int
	volume     int
	reverse    int
	presetName string
}

func (f *effectFlags) register(fs *flag.FlagSet, defaultEffect string) {
	fs.StringVar(&f.effect, "effect", defaultEffect, `effect: none, robot, echo, "high pitch", reverb, "bass boost" or custom`)
	fs.IntVar(&f.speed, "speed", 0, "custom speed control, 0..100")
	fs.IntVar(&f.volume, "volume", 50, "custom volume control, 0..100 (50 = unchanged)")
	fs.IntVar(&f.reverse, "reverse", 0, "custom reverse control, 0..100 (above 50 reverses)")
	fs.StringVar(&f.presetName, "preset", "", "use a saved Custom preset (implies -effect custom)")
}

// request resolves the flags to a request. "none" yields kindNone.
func (f *effectFlags) request(a *app) (effects.Request, error) {
	if f.presetName != "" {
		p, err := preset.Get(a.presets, f.presetName)
		if err != nil {
			return effects.Request{}, err
		}

		return p.Request(), nil
	}

	if f.effect == "" || strings.EqualFold(strings.TrimSpace(f.effect), "none") {
		return effects.Request{Kind: kindNone}, nil
	}

	kind, err := effects.ParseKind(f.effect)
	if err != nil {
		return effects.Request{}, fmt.Errorf("%w: %v", errUsage, err)
	}

	if kind == effects.KindCustom {
		return effects.CustomFromSliders(f.speed, f.volume, f.reverse), nil
	}

	return effects.For(kind), nil
}

// newBackend returns the capture backend named by name and a cleanup
// function.
func newBackend(name string, rate float64) (capture.Backend, func(), error) {
	switch name {
	case "mock":
		if rate <= 0 {
			rate = 44100
		}

		return capture.NewMockBackend(rate), func() {}, nil
	case "portaudio":
		b := capture.NewPortAudioBackend()
		if err := b.Initialize(); err != nil {
			return nil, nil, err
		}

		return b, func() { _ = b.Terminate() }, nil
	default:
		return nil, nil, fmt.Errorf("%w: unknown capture backend %q", errUsage, name)
	}
}
