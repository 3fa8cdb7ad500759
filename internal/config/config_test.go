package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-voicefx/internal/config"
)

func TestDefaults(t *testing.T) {
	t.Parallel()

	cfg := config.Default()

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "portaudio", cfg.Capture.Backend)
	assert.Equal(t, 1024, cfg.Capture.FramesPerBlock)
	assert.Equal(t, "hann", cfg.Capture.ScopeWindow)
	assert.Equal(t, time.Second, cfg.Capture.RingWindow())
	assert.Equal(t, 30*time.Millisecond, cfg.Capture.ScopeInterval())
	assert.Zero(t, cfg.Capture.MaxDuration())
	assert.Equal(t, 2048, cfg.Playback.ChunkSize)
	assert.Equal(t, 5*time.Second, cfg.Playback.NATS.Timeout())
	assert.NoError(t, config.Validate(cfg))
}

func TestLoadFromReaderEmptyDocument(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadFromReader(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoadFromReaderOverrides(t *testing.T) {
	t.Parallel()

	yaml := `
log:
  level: debug
  format: json
capture:
  backend: mock
  sample_rate: 48000
  max_seconds: 2.5
  scope_window: blackman
effects:
  target_rate: 44100
  quality: best
playback:
  backend: nats
  nats:
    url: nats://example:4222
    subject: studio.play
    chunk_bytes: 65536
metrics:
  listen: ":9090"
`
	cfg, err := config.LoadFromReader(strings.NewReader(yaml))
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "mock", cfg.Capture.Backend)
	assert.InDelta(t, 48000, cfg.Capture.SampleRate, 0)
	assert.Equal(t, 2500*time.Millisecond, cfg.Capture.MaxDuration())
	assert.Equal(t, 1024, cfg.Capture.FramesPerBlock)
	assert.Equal(t, "blackman", cfg.Capture.ScopeWindow)
	assert.Equal(t, 44100, cfg.Effects.TargetRate)
	assert.Equal(t, "studio.play", cfg.Playback.NATS.Subject)
	assert.Equal(t, 5000, cfg.Playback.NATS.TimeoutMs)
	assert.Equal(t, 65536, cfg.Playback.NATS.ChunkBytes)
	assert.Equal(t, ":9090", cfg.Metrics.Listen)
}

func TestLoadFromReaderUnknownField(t *testing.T) {
	t.Parallel()

	_, err := config.LoadFromReader(strings.NewReader("capture:\n  bogus: 1\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bogus")
}

func TestValidateJoinsErrors(t *testing.T) {
	t.Parallel()

	yaml := `
log:
  level: loud
capture:
  backend: alsa
  scope_fft_size: 1000
  scope_window: kaiser
effects:
  quality: ultra
playback:
  backend: speakers
  nats:
    chunk_bytes: -1
`
	_, err := config.LoadFromReader(strings.NewReader(yaml))
	require.Error(t, err)

	for _, want := range []string{
		"log.level", "capture.backend", "capture.scope_fft_size",
		"capture.scope_window", "effects.quality", "playback.backend",
		"playback.nats.chunk_bytes",
	} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestLoad(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "voicefx.yaml")
	require.NoError(t, os.WriteFile(path, []byte("presets:\n  file: mine.yaml\n"), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "mine.yaml", cfg.Presets.File)

	_, err = config.Load(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	cfg, err = config.Load("")
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}
