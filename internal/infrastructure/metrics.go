package infrastructure

import (
	"context"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Row drop reasons reported by PipelineMetrics
const (
	DropReasonRole        = "role"
	DropReasonNoLanguages = "no_languages"
)

// PipelineMetrics are the instruments recorded while the survey pipeline runs
type PipelineMetrics struct {
	rowsRead     metric.Int64Counter
	rowsRetained metric.Int64Counter
	rowsDropped  metric.Int64Counter
	cacheHits    metric.Int64Counter
	stepsTotal   metric.Int64Counter
	stepDuration metric.Float64Histogram
}

// NewPipelineMetrics creates the pipeline instruments on meter
func NewPipelineMetrics(meter metric.Meter) (*PipelineMetrics, error) {
	rowsRead, err := meter.Int64Counter(
		"survey_rows_read",
		metric.WithDescription("Raw survey rows read per year"),
	)
	if err != nil {
		return nil, err
	}

	rowsRetained, err := meter.Int64Counter(
		"survey_rows_retained",
		metric.WithDescription("Rows kept in the processed table per year"),
	)
	if err != nil {
		return nil, err
	}

	rowsDropped, err := meter.Int64Counter(
		"survey_rows_dropped",
		metric.WithDescription("Rows removed by filtering, by reason and year"),
	)
	if err != nil {
		return nil, err
	}

	cacheHits, err := meter.Int64Counter(
		"survey_artifact_cache_hits",
		metric.WithDescription("Runs that reused an existing processed table"),
	)
	if err != nil {
		return nil, err
	}

	stepsTotal, err := meter.Int64Counter(
		"survey_pipeline_steps",
		metric.WithDescription("Pipeline steps finished, by step and status"),
	)
	if err != nil {
		return nil, err
	}

	stepDuration, err := meter.Float64Histogram(
		"survey_step_duration",
		metric.WithDescription("Pipeline step duration"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return &PipelineMetrics{
		rowsRead:     rowsRead,
		rowsRetained: rowsRetained,
		rowsDropped:  rowsDropped,
		cacheHits:    cacheHits,
		stepsTotal:   stepsTotal,
		stepDuration: stepDuration,
	}, nil
}

func yearAttr(year int) attribute.KeyValue {
	return attribute.String("year", strconv.Itoa(year))
}

// RowsRead records raw rows loaded for a year
func (m *PipelineMetrics) RowsRead(ctx context.Context, year int, n int) {
	if m == nil {
		return
	}
	m.rowsRead.Add(ctx, int64(n), metric.WithAttributes(yearAttr(year)))
}

// RowsRetained records rows persisted for a year
func (m *PipelineMetrics) RowsRetained(ctx context.Context, year int, n int) {
	if m == nil {
		return
	}
	m.rowsRetained.Add(ctx, int64(n), metric.WithAttributes(yearAttr(year)))
}

// RowsDropped records rows removed for a reason
func (m *PipelineMetrics) RowsDropped(ctx context.Context, year int, reason string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.rowsDropped.Add(ctx, int64(n), metric.WithAttributes(yearAttr(year), attribute.String("reason", reason)))
}

// CacheHit records a run that skipped reprocessing
func (m *PipelineMetrics) CacheHit(ctx context.Context) {
	if m == nil {
		return
	}
	m.cacheHits.Add(ctx, 1)
}

// StepFinished records a finished step and its duration
func (m *PipelineMetrics) StepFinished(ctx context.Context, step, status string, d time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("step", step), attribute.String("status", status))
	m.stepsTotal.Add(ctx, 1, attrs)
	m.stepDuration.Record(ctx, d.Seconds(), attrs)
}
