package validators

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/stagegate-dev/stagegate/pkg/observability"
	"github.com/stagegate-dev/stagegate/pkg/report"
)

// Runner executes selected stage validators over one set of inputs and
// records telemetry for each stage.
type Runner struct {
	registry *Registry
	tracer   trace.Tracer
	metrics  *observability.RunMetrics
	logger   loggerLike
}

// loggerLike is the slice of slog.Logger the runner needs; kept narrow so
// tests can pass a bare logger without provider setup.
type loggerLike interface {
	Info(msg string, args ...any)
}

// NewRunner creates a runner over the registry with the given providers.
func NewRunner(registry *Registry, providers observability.Providers) (*Runner, error) {
	metrics, err := observability.NewRunMetrics(providers.Meter)
	if err != nil {
		return nil, fmt.Errorf("create run metrics: %w", err)
	}

	return &Runner{
		registry: registry,
		tracer:   providers.Tracer,
		metrics:  metrics,
		logger:   providers.Logger,
	}, nil
}

// Run validates the requested stages in order and aggregates the results.
// An empty stage list selects every registered stage.
func (r *Runner) Run(ctx context.Context, in *Inputs, stages []int) (report.Run, error) {
	selected, err := r.registry.Select(stages)
	if err != nil {
		return report.Run{}, err
	}

	started := time.Now()
	run := report.Run{Root: in.Root, Started: started}

	for _, validator := range selected {
		run.Stages = append(run.Stages, r.runStage(ctx, validator, in))
	}

	run.Duration = time.Since(started)

	r.metrics.RecordRun(ctx, observability.OutcomeLabel(run.Passed()))
	r.logger.Info("validation run finished",
		"stages", len(run.Stages),
		"errors", run.TotalErrors(),
		"warnings", run.TotalWarnings(),
		"duration", run.Duration,
	)

	return run, nil
}

func (r *Runner) runStage(ctx context.Context, validator Validator, in *Inputs) report.StageResult {
	desc := validator.Descriptor()

	stageCtx, span := r.tracer.Start(ctx, "validate."+desc.Name,
		trace.WithAttributes(attribute.Int("stage", desc.Stage)),
	)
	defer span.End()

	done := r.metrics.TrackStage(stageCtx, desc.Stage)
	defer done()

	stageStart := time.Now()
	outcome := validator.Validate(stageCtx, in)
	duration := time.Since(stageStart)

	result := report.StageResult{
		Stage:       desc.Stage,
		Name:        desc.Name,
		Checks:      outcome.Checks,
		Diagnostics: outcome.Diagnostics,
		Duration:    duration,
	}

	errors := len(result.Errors())
	warnings := len(result.Warnings())

	r.metrics.RecordStage(stageCtx, desc.Stage, observability.OutcomeLabel(result.Passed()), duration, errors, warnings)
	r.logger.Info("stage validated",
		"stage", desc.Stage,
		"name", desc.Name,
		"checks", outcome.Checks,
		"errors", errors,
		"warnings", warnings,
		"duration", duration,
	)

	return result
}
