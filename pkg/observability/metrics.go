package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricRunsTotal        = "stagegate.runs.total"
	metricStageDuration    = "stagegate.stage.duration.seconds"
	metricDiagnosticsTotal = "stagegate.diagnostics.total"
	metricStagesInflight   = "stagegate.stages.inflight"

	attrStage    = "stage"
	attrOutcome  = "outcome"
	attrSeverity = "severity"
)

// Outcome labels recorded on run and stage metrics.
const (
	OutcomePass = "pass"
	OutcomeFail = "fail"
)

// OutcomeLabel maps a pass/fail result onto its metric label value.
func OutcomeLabel(passed bool) string {
	if passed {
		return OutcomePass
	}

	return OutcomeFail
}

// durationBucketBoundaries covers 10ms to 120s. Stage validation is usually
// sub-second but large generated trees with deep re-export chains can take
// considerably longer.
var durationBucketBoundaries = []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120}

// RunMetrics holds the OTel instruments recorded during validation runs.
type RunMetrics struct {
	runsTotal        metric.Int64Counter
	stageDuration    metric.Float64Histogram
	diagnosticsTotal metric.Int64Counter
	stagesInflight   metric.Int64UpDownCounter
}

// NewRunMetrics creates validation metric instruments from the given meter.
func NewRunMetrics(mt metric.Meter) (*RunMetrics, error) {
	runs, err := mt.Int64Counter(metricRunsTotal,
		metric.WithDescription("Total number of validation runs"),
		metric.WithUnit("{run}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricRunsTotal, err)
	}

	duration, err := mt.Float64Histogram(metricStageDuration,
		metric.WithDescription("Per-stage validation duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBucketBoundaries...),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricStageDuration, err)
	}

	diagnostics, err := mt.Int64Counter(metricDiagnosticsTotal,
		metric.WithDescription("Total diagnostics emitted, by stage and severity"),
		metric.WithUnit("{diagnostic}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricDiagnosticsTotal, err)
	}

	inflight, err := mt.Int64UpDownCounter(metricStagesInflight,
		metric.WithDescription("Number of stage validations in flight"),
		metric.WithUnit("{stage}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricStagesInflight, err)
	}

	return &RunMetrics{
		runsTotal:        runs,
		stageDuration:    duration,
		diagnosticsTotal: diagnostics,
		stagesInflight:   inflight,
	}, nil
}

// RecordRun records a completed run with its outcome.
func (rm *RunMetrics) RecordRun(ctx context.Context, outcome string) {
	rm.runsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(attrOutcome, outcome),
	))
}

// RecordStage records a completed stage validation with its duration and
// diagnostic counts.
func (rm *RunMetrics) RecordStage(ctx context.Context, stage int, outcome string, duration time.Duration, errors, warnings int) {
	attrs := metric.WithAttributes(
		attribute.Int(attrStage, stage),
		attribute.String(attrOutcome, outcome),
	)

	rm.stageDuration.Record(ctx, duration.Seconds(), attrs)

	if errors > 0 {
		rm.diagnosticsTotal.Add(ctx, int64(errors), metric.WithAttributes(
			attribute.Int(attrStage, stage),
			attribute.String(attrSeverity, "error"),
		))
	}

	if warnings > 0 {
		rm.diagnosticsTotal.Add(ctx, int64(warnings), metric.WithAttributes(
			attribute.Int(attrStage, stage),
			attribute.String(attrSeverity, "warning"),
		))
	}
}

// TrackStage increments the in-flight gauge and returns a function to decrement it.
func (rm *RunMetrics) TrackStage(ctx context.Context, stage int) func() {
	attrs := metric.WithAttributes(attribute.Int(attrStage, stage))
	rm.stagesInflight.Add(ctx, 1, attrs)

	return func() {
		rm.stagesInflight.Add(ctx, -1, attrs)
	}
}
