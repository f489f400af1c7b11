package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tkoeppen/clarivox/pkg/corrector"
)

// instrumentedCorrector wraps a [corrector.Corrector] with metrics and a span
// around every call.
type instrumentedCorrector struct {
	inner    corrector.Corrector
	metrics  *Metrics
	provider string
}

// InstrumentCorrector returns a [corrector.Corrector] that records request
// counts, error counts and latency for every Correct call, attributed to the
// given provider tag, and wraps each call in a span. When m is nil,
// [DefaultMetrics] is used.
func InstrumentCorrector(c corrector.Corrector, m *Metrics, provider string) corrector.Corrector {
	if m == nil {
		m = DefaultMetrics()
	}
	return &instrumentedCorrector{inner: c, metrics: m, provider: provider}
}

func (ic *instrumentedCorrector) Correct(ctx context.Context, rawText string) (string, error) {
	ctx, span := StartSpan(ctx, "corrector.Correct",
		trace.WithAttributes(
			attribute.String("provider", ic.provider),
			attribute.Int("input_chars", len(rawText)),
		),
	)
	defer span.End()

	start := time.Now()
	out, err := ic.inner.Correct(ctx, rawText)
	elapsed := time.Since(start).Seconds()

	status := "ok"
	if err != nil {
		status = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	ic.metrics.RecordCorrection(ctx, ic.provider, status, elapsed)

	return out, err
}
