package config

import (
	"errors"
	"fmt"
	"io"
	"math/bits"
	"os"
	"slices"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

var (
	validLogFormats       = []string{"text", "json"}
	validCaptureBackends  = []string{"portaudio", "mock"}
	validScopeWindows     = []string{"rectangular", "hann", "hamming", "blackman"}
	validQualities        = []string{"fast", "balanced", "best"}
	validPlaybackBackends = []string{"portaudio", "nats", "none"}
)

// Load reads and validates the YAML file at path. An empty path returns
// Default().
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}

	logrus.WithFields(logrus.Fields{
		"function": "Load",
		"path":     path,
	}).Debug("Configuration loaded")

	return cfg, nil
}

// LoadFromReader decodes YAML from r, applies defaults and validates the
// result. Unknown keys are an error. An empty document yields Default().
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := &Config{}

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}

	ApplyDefaults(cfg)

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate reports every invalid field, joined.
func Validate(cfg *Config) error {
	var errs []error

	if _, err := logrus.ParseLevel(cfg.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level %q is invalid", cfg.Log.Level))
	}

	errs = appendOneOf(errs, "log.format", cfg.Log.Format, validLogFormats)

	c := cfg.Capture
	errs = appendOneOf(errs, "capture.backend", c.Backend, validCaptureBackends)

	if c.SampleRate < 0 {
		errs = append(errs, fmt.Errorf("capture.sample_rate %.0f must not be negative", c.SampleRate))
	}

	if c.FramesPerBlock < 0 {
		errs = append(errs, fmt.Errorf("capture.frames_per_block %d must be positive", c.FramesPerBlock))
	}

	if c.RingWindowMs < 0 {
		errs = append(errs, fmt.Errorf("capture.ring_window_ms %d must be positive", c.RingWindowMs))
	}

	if c.ScopeIntervalMs < 0 {
		errs = append(errs, fmt.Errorf("capture.scope_interval_ms %d must not be negative", c.ScopeIntervalMs))
	}

	if c.ScopeFFTSize < 2 || bits.OnesCount(uint(c.ScopeFFTSize)) != 1 {
		errs = append(errs, fmt.Errorf("capture.scope_fft_size %d must be a power of two", c.ScopeFFTSize))
	}

	errs = appendOneOf(errs, "capture.scope_window", c.ScopeWindow, validScopeWindows)

	if c.MaxSeconds < 0 {
		errs = append(errs, fmt.Errorf("capture.max_seconds %.1f must not be negative", c.MaxSeconds))
	}

	if cfg.Effects.TargetRate < 0 {
		errs = append(errs, fmt.Errorf("effects.target_rate %d must not be negative", cfg.Effects.TargetRate))
	}

	errs = appendOneOf(errs, "effects.quality", cfg.Effects.Quality, validQualities)

	p := cfg.Playback
	errs = appendOneOf(errs, "playback.backend", p.Backend, validPlaybackBackends)

	if p.ChunkSize < 0 {
		errs = append(errs, fmt.Errorf("playback.chunk_size %d must be positive", p.ChunkSize))
	}

	if p.NATS.ChunkBytes < 0 {
		errs = append(errs, fmt.Errorf("playback.nats.chunk_bytes %d must not be negative", p.NATS.ChunkBytes))
	}

	if p.Backend == "nats" && p.NATS.Subject == "" {
		errs = append(errs, errors.New("playback.nats.subject is required when playback.backend is nats"))
	}

	return errors.Join(errs...)
}

func appendOneOf(errs []error, field, value string, valid []string) []error {
	if slices.Contains(valid, value) {
		return errs
	}

	return append(errs, fmt.Errorf("%s %q is invalid; valid values: %v", field, value, valid))
}
