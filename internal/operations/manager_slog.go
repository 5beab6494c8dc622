package operations

import (
	"context"
	"sort"
	"time"
)

func (m *Manager) logOperationStart(ctx context.Context, operationID string, steps []Step) {
	ids := make([]string, len(steps))
	for i, step := range steps {
		ids[i] = step.ID()
	}
	m.logger.InfoContext(ctx, "operation_start",
		"operation_id", operationID,
		"steps", ids,
		"registered_steps", m.registry.Count())
}

func (m *Manager) logOperationComplete(ctx context.Context, state *OperationState) {
	attrs := []any{
		"operation_id", state.ID,
		"status", string(state.GetStatus()),
		"duration", state.Duration(),
	}
	if state.HasFailures() {
		failed := state.GetFailedStages()
		ids := make([]string, len(failed))
		for i, s := range failed {
			ids[i] = s.ID
		}
		sort.Strings(ids)
		attrs = append(attrs, "failed_steps", ids)
	}
	m.logger.InfoContext(ctx, "operation_complete", attrs...)
}

func (m *Manager) logOperationError(ctx context.Context, operationID string, err error) {
	m.logger.ErrorContext(ctx, "operation_error",
		"operation_id", operationID,
		"error_type", string(GetErrorType(err)),
		"error", err.Error())
}

func (m *Manager) logStageStart(ctx context.Context, operationID string, step Step) {
	m.logger.InfoContext(ctx, "stage_start",
		"operation_id", operationID,
		"step", step.ID(),
		"step_name", step.Name())
}

func (m *Manager) logStageComplete(ctx context.Context, operationID, stepID string, duration time.Duration) {
	m.logger.InfoContext(ctx, "stage_complete",
		"operation_id", operationID,
		"step", stepID,
		"duration", duration)
}

func (m *Manager) logStageSkipped(ctx context.Context, operationID, stepID, reason string) {
	m.logger.InfoContext(ctx, "stage_skipped",
		"operation_id", operationID,
		"step", stepID,
		"reason", reason)
}

func (m *Manager) logStageError(ctx context.Context, operationID, stepID string, err error) {
	m.logger.ErrorContext(ctx, "stage_error",
		"operation_id", operationID,
		"step", stepID,
		"error", err.Error())
}
