package service

import (
	"context"
	"errors"
	"time"

	"importmover/internal/domain/valueobject"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric names.
const (
	FilesProcessedCounterName  = "importmover_files_processed_total"
	ImportsResolvedCounterName = "importmover_imports_resolved_total"
	FileDurationHistogramName  = "importmover_file_duration_seconds"
	RunsCounterName            = "importmover_runs_total"
)

// Attribute keys.
const (
	AttrDecision  = "decision"
	AttrChanged   = "changed"
	AttrDryRun    = "dry_run"
	AttrRunResult = "run_result"
	AttrRunID     = "run_id"
)

func fileDurationBuckets() []float64 {
	return []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0}
}

// RefactorMetrics records OpenTelemetry metrics for refactor runs.
type RefactorMetrics struct {
	filesProcessed  metric.Int64Counter
	importsResolved metric.Int64Counter
	runs            metric.Int64Counter
	fileDuration    metric.Float64Histogram

	runAttr attribute.KeyValue
}

// NewRefactorMetrics creates metrics on the global meter provider.
func NewRefactorMetrics(runID string) (*RefactorMetrics, error) {
	return NewRefactorMetricsWithProvider(runID, otel.GetMeterProvider())
}

// NewRefactorMetricsWithProvider creates metrics on provider.
func NewRefactorMetricsWithProvider(runID string, provider metric.MeterProvider) (*RefactorMetrics, error) {
	if runID == "" {
		return nil, errors.New("run ID cannot be empty")
	}
	if provider == nil {
		return nil, errors.New("meter provider cannot be nil")
	}

	meter := provider.Meter("importmover/service", metric.WithInstrumentationVersion("1.0.0"))

	filesProcessed, err := meter.Int64Counter(
		FilesProcessedCounterName,
		metric.WithDescription("Files visited by refactor runs"),
		metric.WithUnit("{file}"),
	)
	if err != nil {
		return nil, err
	}

	importsResolved, err := meter.Int64Counter(
		ImportsResolvedCounterName,
		metric.WithDescription("Import specifiers resolved, by decision"),
		metric.WithUnit("{import}"),
	)
	if err != nil {
		return nil, err
	}

	runs, err := meter.Int64Counter(
		RunsCounterName,
		metric.WithDescription("Completed refactor runs, by result"),
		metric.WithUnit("{run}"),
	)
	if err != nil {
		return nil, err
	}

	fileDuration, err := meter.Float64Histogram(
		FileDurationHistogramName,
		metric.WithDescription("Time spent processing one file"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(fileDurationBuckets()...),
	)
	if err != nil {
		return nil, err
	}

	return &RefactorMetrics{
		filesProcessed:  filesProcessed,
		importsResolved: importsResolved,
		runs:            runs,
		fileDuration:    fileDuration,
		runAttr:         attribute.String(AttrRunID, runID),
	}, nil
}

// RecordImport counts one resolved import.
func (m *RefactorMetrics) RecordImport(ctx context.Context, kind valueobject.ResolutionKind) {
	if m == nil {
		return
	}
	m.importsResolved.Add(ctx, 1, metric.WithAttributes(
		attribute.String(AttrDecision, kind.String()),
		m.runAttr,
	))
}

// RecordFile counts one processed file and its duration.
func (m *RefactorMetrics) RecordFile(ctx context.Context, changed, dryRun bool, duration time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.Bool(AttrChanged, changed),
		attribute.Bool(AttrDryRun, dryRun),
		m.runAttr,
	)
	m.filesProcessed.Add(ctx, 1, attrs)
	m.fileDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordRun counts a finished run as "success" or "error".
func (m *RefactorMetrics) RecordRun(ctx context.Context, err error) {
	if m == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "error"
	}
	m.runs.Add(ctx, 1, metric.WithAttributes(attribute.String(AttrRunResult, result), m.runAttr))
}
