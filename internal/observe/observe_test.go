package observe

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func newTestMetrics(t *testing.T) (*Metrics, *sdkmetric.ManualReader) {
	t.Helper()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	m, err := NewMetrics(mp)
	require.NoError(t, err)

	return m, reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	return rm
}

func findMetric(rm metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for _, sm := range rm.ScopeMetrics {
		for i := range sm.Metrics {
			if sm.Metrics[i].Name == name {
				return &sm.Metrics[i]
			}
		}
	}

	return nil
}

func sumByAttr(t *testing.T, m *metricdata.Metrics, key, value string) int64 {
	t.Helper()

	var total int64
	if m == nil {
		return total
	}

	switch data := m.Data.(type) {
	case metricdata.Sum[int64]:
		for _, dp := range data.DataPoints {
			if key == "" {
				total += dp.Value
				continue
			}

			if v, ok := dp.Attributes.Value(attribute.Key(key)); ok && v.AsString() == value {
				total += dp.Value
			}
		}
	default:
		t.Fatalf("%s: unexpected data type %T", m.Name, m.Data)
	}

	return total
}

func TestRecordEffect(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()

	m.RecordEffect(ctx, "echo", 3*time.Millisecond, nil)
	m.RecordEffect(ctx, "echo", 4*time.Millisecond, nil)
	m.RecordEffect(ctx, "custom", time.Millisecond, errors.New("bad"))

	rm := collect(t, reader)

	runs := findMetric(rm, "voicefx.effect.runs")
	require.NotNil(t, runs)
	assert.Equal(t, int64(2), sumByAttr(t, runs, "kind", "echo"))
	assert.Equal(t, int64(1), sumByAttr(t, runs, "status", "error"))

	hist := findMetric(rm, "voicefx.effect.duration")
	require.NotNil(t, hist)

	data, ok := hist.Data.(metricdata.Histogram[float64])
	require.True(t, ok)

	var count uint64
	for _, dp := range data.DataPoints {
		count += dp.Count
	}

	assert.Equal(t, uint64(3), count)
}

func TestRecordingCounters(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()

	m.RecordingStarted(ctx)
	m.RecordingStopped(ctx, 44100, 0)
	m.RecordingStarted(ctx)

	rm := collect(t, reader)

	assert.Equal(t, int64(2), sumByAttr(t, findMetric(rm, "voicefx.capture.recordings"), "", ""))
	assert.Equal(t, int64(1), sumByAttr(t, findMetric(rm, "voicefx.capture.active"), "", ""))
	assert.Equal(t, int64(44100), sumByAttr(t, findMetric(rm, "voicefx.capture.samples"), "", ""))
	assert.Zero(t, sumByAttr(t, findMetric(rm, "voicefx.capture.dropped"), "", ""))

	m.RecordingStopped(ctx, 10, 5)

	rm = collect(t, reader)
	assert.Equal(t, int64(5), sumByAttr(t, findMetric(rm, "voicefx.capture.dropped"), "", ""))
	assert.Equal(t, int64(0), sumByAttr(t, findMetric(rm, "voicefx.capture.active"), "", ""))
}

func TestRecordPlayback(t *testing.T) {
	m, reader := newTestMetrics(t)

	m.RecordPlayback(context.Background(), "nats", nil)

	rm := collect(t, reader)
	assert.Equal(t, int64(1), sumByAttr(t, findMetric(rm, "voicefx.playback.runs"), "backend", "nats"))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics

	ctx := context.Background()

	assert.NotPanics(t, func() {
		m.RecordEffect(ctx, "robot", time.Second, nil)
		m.RecordingStarted(ctx)
		m.RecordingStopped(ctx, 1, 1)
		m.RecordPlayback(ctx, "portaudio", nil)
	})
}

func TestInitProviderServesPrometheus(t *testing.T) {
	prev := otel.GetMeterProvider()
	t.Cleanup(func() { otel.SetMeterProvider(prev) })

	reg := prometheus.NewRegistry()

	p, err := InitProvider(context.Background(), ProviderConfig{ServiceVersion: "test", Registry: reg})
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Shutdown(context.Background()) })

	m, err := NewMetrics(otel.GetMeterProvider())
	require.NoError(t, err)

	m.RecordEffect(context.Background(), "reverb", 10*time.Millisecond, nil)

	rec := httptest.NewRecorder()
	p.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	require.Equal(t, 200, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "voicefx_effect_runs")
	assert.Contains(t, string(body), `kind="reverb"`)
}

func TestSetupLogging(t *testing.T) {
	std := logrus.StandardLogger()
	prevOut, prevLevel, prevFormatter := std.Out, std.GetLevel(), std.Formatter

	t.Cleanup(func() {
		logrus.SetOutput(prevOut)
		logrus.SetLevel(prevLevel)
		logrus.SetFormatter(prevFormatter)
	})

	var buf bytes.Buffer

	require.NoError(t, SetupLogging(&buf, "debug", "json"))
	assert.Equal(t, logrus.DebugLevel, logrus.GetLevel())

	logrus.WithField("function", "TestSetupLogging").Debug("hello")
	assert.True(t, strings.HasPrefix(buf.String(), "{"), "expected JSON, got %q", buf.String())
	assert.Contains(t, buf.String(), `"function":"TestSetupLogging"`)

	require.NoError(t, SetupLogging(nil, "", ""))
	assert.Equal(t, logrus.InfoLevel, logrus.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, logrus.StandardLogger().Formatter)

	assert.Error(t, SetupLogging(nil, "loud", "text"))
	assert.Error(t, SetupLogging(nil, "info", "xml"))
}
