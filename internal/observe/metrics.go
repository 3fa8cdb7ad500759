package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/cwbudde/algo-voicefx"

// Metrics holds the instruments used by capture, effects and playback.
type Metrics struct {
	// EffectDuration is the wall time of one effect run. Attributes: kind, status.
	EffectDuration metric.Float64Histogram
	// EffectRuns counts effect runs. Attributes: kind, status.
	EffectRuns metric.Int64Counter

	Recordings       metric.Int64Counter
	ActiveRecordings metric.Int64UpDownCounter
	CapturedSamples  metric.Int64Counter
	DroppedSamples   metric.Int64Counter

	// PlaybackRuns counts playback hand-offs. Attributes: backend, status.
	PlaybackRuns metric.Int64Counter
}

// Effects on a few seconds of audio finish in milliseconds; the long tail
// is Reverb and Custom on long recordings.
var effectBuckets = []float64{
	0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5,
}

// NewMetrics creates all instruments on mp.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	met := &Metrics{}

	var err error

	if met.EffectDuration, err = m.Float64Histogram("voicefx.effect.duration",
		metric.WithDescription("Duration of one effect run."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(effectBuckets...),
	); err != nil {
		return nil, err
	}

	if met.EffectRuns, err = m.Int64Counter("voicefx.effect.runs",
		metric.WithDescription("Effect runs by kind and status."),
	); err != nil {
		return nil, err
	}

	if met.Recordings, err = m.Int64Counter("voicefx.capture.recordings",
		metric.WithDescription("Recordings started."),
	); err != nil {
		return nil, err
	}

	if met.ActiveRecordings, err = m.Int64UpDownCounter("voicefx.capture.active",
		metric.WithDescription("Recordings in progress."),
	); err != nil {
		return nil, err
	}

	if met.CapturedSamples, err = m.Int64Counter("voicefx.capture.samples",
		metric.WithDescription("Samples stored by finished recordings."),
	); err != nil {
		return nil, err
	}

	if met.DroppedSamples, err = m.Int64Counter("voicefx.capture.dropped",
		metric.WithDescription("Samples delivered by the device but not stored."),
	); err != nil {
		return nil, err
	}

	if met.PlaybackRuns, err = m.Int64Counter("voicefx.playback.runs",
		metric.WithDescription("Playback hand-offs by backend and status."),
	); err != nil {
		return nil, err
	}

	return met, nil
}

func status(err error) attribute.KeyValue {
	if err != nil {
		return attribute.String("status", "error")
	}

	return attribute.String("status", "ok")
}

// RecordEffect records one effect run.
func (m *Metrics) RecordEffect(ctx context.Context, kind string, d time.Duration, err error) {
	if m == nil {
		return
	}

	attrs := metric.WithAttributes(attribute.String("kind", kind), status(err))
	m.EffectDuration.Record(ctx, d.Seconds(), attrs)
	m.EffectRuns.Add(ctx, 1, attrs)
}

// RecordingStarted marks a recording as active.
func (m *Metrics) RecordingStarted(ctx context.Context) {
	if m == nil {
		return
	}

	m.Recordings.Add(ctx, 1)
	m.ActiveRecordings.Add(ctx, 1)
}

// RecordingStopped closes a recording started with RecordingStarted.
func (m *Metrics) RecordingStopped(ctx context.Context, samples, dropped int64) {
	if m == nil {
		return
	}

	m.ActiveRecordings.Add(ctx, -1)
	m.CapturedSamples.Add(ctx, samples)

	if dropped > 0 {
		m.DroppedSamples.Add(ctx, dropped)
	}
}

// RecordPlayback records one playback hand-off.
func (m *Metrics) RecordPlayback(ctx context.Context, backend string, err error) {
	if m == nil {
		return
	}

	m.PlaybackRuns.Add(ctx, 1, metric.WithAttributes(attribute.String("backend", backend), status(err)))
}
