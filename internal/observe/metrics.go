// Package observe provides observability primitives for clarivox:
// OpenTelemetry metrics, tracing helpers, and a corrector instrumentation
// decorator that ties them together.
//
// Metrics are recorded through the OpenTelemetry Metrics API. A Prometheus
// exporter bridge is available via [InitProvider] so long-running deployments
// can scrape a standard /metrics endpoint. A package-level default [Metrics]
// instance ([DefaultMetrics]) is provided for convenience; tests should use
// [NewMetrics] with a custom [metric.MeterProvider] to avoid cross-test
// pollution.
package observe

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// meterName is the instrumentation scope name used for all clarivox metrics.
const meterName = "github.com/tkoeppen/clarivox"

// latencyBuckets defines histogram bucket boundaries (in seconds). LLM
// correction calls sit in the 0.5–5 s range; local recognition can take
// longer on big files.
var latencyBuckets = []float64{
	0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60,
}

// Metrics holds all OpenTelemetry metric instruments for the application.
// All fields are safe for concurrent use — the underlying OTel types handle
// their own synchronisation.
type Metrics struct {
	// CorrectionDuration tracks LLM correction-pass latency.
	CorrectionDuration metric.Float64Histogram

	// RecognitionDuration tracks speech-recognition latency in
	// full-pipeline evaluation runs.
	RecognitionDuration metric.Float64Histogram

	// CorrectionRequests counts correction calls. Use with attributes:
	//   attribute.String("provider", ...), attribute.String("status", ...)
	CorrectionRequests metric.Int64Counter

	// CorrectionErrors counts failed correction calls by provider.
	CorrectionErrors metric.Int64Counter

	// EvalScenarios counts evaluated scenarios. Use with attributes:
	//   attribute.String("category", ...), attribute.String("result", ...)
	EvalScenarios metric.Int64Counter
}

// NewMetrics creates a fully initialised [Metrics] struct using the given
// [metric.MeterProvider]. Returns an error if any instrument creation fails.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.CorrectionDuration, err = m.Float64Histogram("clarivox.correction.duration",
		metric.WithDescription("Latency of the LLM correction pass."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.RecognitionDuration, err = m.Float64Histogram("clarivox.recognition.duration",
		metric.WithDescription("Latency of speech recognition during evaluation."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.CorrectionRequests, err = m.Int64Counter("clarivox.correction.requests",
		metric.WithDescription("Total correction calls by provider and status."),
	); err != nil {
		return nil, err
	}
	if met.CorrectionErrors, err = m.Int64Counter("clarivox.correction.errors",
		metric.WithDescription("Total failed correction calls by provider."),
	); err != nil {
		return nil, err
	}
	if met.EvalScenarios, err = m.Int64Counter("clarivox.eval.scenarios",
		metric.WithDescription("Total evaluated scenarios by category and result."),
	); err != nil {
		return nil, err
	}

	return met, nil
}

// defaultMetrics is the lazily-initialised package-level Metrics instance.
var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns the package-level [Metrics] instance, creating it on
// first call using [otel.GetMeterProvider]. Subsequent calls return the same
// pointer. Panics if instrument creation fails (should not happen with the
// global provider).
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		var err error
		defaultMetrics, err = NewMetrics(otel.GetMeterProvider())
		if err != nil {
			panic("observe: failed to create default metrics: " + err.Error())
		}
	})
	return defaultMetrics
}

// RecordCorrection records one correction call with the standard attribute
// set.
func (m *Metrics) RecordCorrection(ctx context.Context, provider, status string, seconds float64) {
	attrs := metric.WithAttributes(
		attribute.String("provider", provider),
		attribute.String("status", status),
	)
	m.CorrectionRequests.Add(ctx, 1, attrs)
	m.CorrectionDuration.Record(ctx, seconds, attrs)
	if status != "ok" {
		m.CorrectionErrors.Add(ctx, 1, metric.WithAttributes(attribute.String("provider", provider)))
	}
}

// RecordEvalScenario records one evaluated scenario outcome.
func (m *Metrics) RecordEvalScenario(ctx context.Context, category, result string) {
	m.EvalScenarios.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("category", category),
			attribute.String("result", result),
		),
	)
}
