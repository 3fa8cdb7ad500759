// Package config loads the voicefx YAML configuration file.
package config

import "time"

// Config is the root configuration.
type Config struct {
	Log      LogConfig      `yaml:"log"`
	Capture  CaptureConfig  `yaml:"capture"`
	Effects  EffectsConfig  `yaml:"effects"`
	Presets  PresetsConfig  `yaml:"presets"`
	Playback PlaybackConfig `yaml:"playback"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// LogConfig selects the logrus level and formatter.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// CaptureConfig configures recording.
type CaptureConfig struct {
	// Backend is "portaudio" or "mock".
	Backend string `yaml:"backend"`
	// SampleRate overrides the device default when positive.
	SampleRate      float64 `yaml:"sample_rate"`
	FramesPerBlock  int     `yaml:"frames_per_block"`
	RingWindowMs    int     `yaml:"ring_window_ms"`
	ScopeIntervalMs int     `yaml:"scope_interval_ms"`
	ScopeFFTSize    int     `yaml:"scope_fft_size"`
	// ScopeWindow is the spectrum window: rectangular, hann, hamming or
	// blackman.
	ScopeWindow string `yaml:"scope_window"`
	// MaxSeconds caps one recording. Zero means unlimited.
	MaxSeconds float64 `yaml:"max_seconds"`
	OutputDir  string  `yaml:"output_dir"`
}

// EffectsConfig configures the effect dispatcher.
type EffectsConfig struct {
	// TargetRate is the playback rate of every result. Zero keeps the
	// input's rate.
	TargetRate int `yaml:"target_rate"`
	// Quality is the resampler quality: "fast", "balanced" or "best".
	Quality string `yaml:"quality"`
}

// PresetsConfig locates the preset file.
type PresetsConfig struct {
	File string `yaml:"file"`
}

// PlaybackConfig selects where finished audio is played.
type PlaybackConfig struct {
	// Backend is "portaudio", "nats" or "none".
	Backend   string     `yaml:"backend"`
	ChunkSize int        `yaml:"chunk_size"`
	NATS      NATSConfig `yaml:"nats"`
}

// NATSConfig configures the NATS playback publisher.
type NATSConfig struct {
	URL     string `yaml:"url"`
	Subject string `yaml:"subject"`
	// TimeoutMs bounds connect and flush.
	TimeoutMs int `yaml:"timeout_ms"`
	// ChunkBytes caps the WAV bytes per message; 0 uses the publisher's
	// default. Chunks are also kept under the server's max_payload.
	ChunkBytes int `yaml:"chunk_bytes"`
}

// MetricsConfig configures the Prometheus endpoint. An empty Listen
// disables it.
type MetricsConfig struct {
	Listen string `yaml:"listen"`
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)

	return cfg
}

// ApplyDefaults fills zero-valued fields.
func ApplyDefaults(cfg *Config) {
	setDefault(&cfg.Log.Level, "info")
	setDefault(&cfg.Log.Format, "text")

	setDefault(&cfg.Capture.Backend, "portaudio")
	setDefault(&cfg.Capture.FramesPerBlock, 1024)
	setDefault(&cfg.Capture.RingWindowMs, 1000)
	setDefault(&cfg.Capture.ScopeIntervalMs, 30)
	setDefault(&cfg.Capture.ScopeFFTSize, 1024)
	setDefault(&cfg.Capture.ScopeWindow, "hann")
	setDefault(&cfg.Capture.OutputDir, ".")

	setDefault(&cfg.Effects.Quality, "balanced")

	setDefault(&cfg.Presets.File, "presets.yaml")

	setDefault(&cfg.Playback.Backend, "portaudio")
	setDefault(&cfg.Playback.ChunkSize, 2048)
	setDefault(&cfg.Playback.NATS.URL, "nats://127.0.0.1:4222")
	setDefault(&cfg.Playback.NATS.Subject, "voicefx.playback")
	setDefault(&cfg.Playback.NATS.TimeoutMs, 5000)
}

func setDefault[T comparable](field *T, value T) {
	var zero T
	if *field == zero {
		*field = value
	}
}

// RingWindow returns Capture.RingWindowMs as a duration.
func (c CaptureConfig) RingWindow() time.Duration {
	return time.Duration(c.RingWindowMs) * time.Millisecond
}

// ScopeInterval returns Capture.ScopeIntervalMs as a duration.
func (c CaptureConfig) ScopeInterval() time.Duration {
	return time.Duration(c.ScopeIntervalMs) * time.Millisecond
}

// MaxDuration returns Capture.MaxSeconds as a duration.
func (c CaptureConfig) MaxDuration() time.Duration {
	return time.Duration(c.MaxSeconds * float64(time.Second))
}

// Timeout returns NATS.TimeoutMs as a duration.
func (n NATSConfig) Timeout() time.Duration {
	return time.Duration(n.TimeoutMs) * time.Millisecond
}
