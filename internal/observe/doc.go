// Package observe holds the process-wide observability setup: logrus
// configuration, OpenTelemetry metric instruments and the Prometheus
// exporter bridge that serves them on /metrics.
//
// Library packages receive a *Metrics explicitly; a nil *Metrics is valid
// and records nothing. Tests should build one with [NewMetrics] over a
// private provider instead of touching the global one.
package observe
