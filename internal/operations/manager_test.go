package operations_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"surveycli/internal/infrastructure"
	"surveycli/internal/operations"
	"surveycli/internal/operations/testutil"
)

func newTestManager(t *testing.T, steps ...operations.Step) (*operations.Manager, *bytes.Buffer) {
	t.Helper()
	registry := operations.NewRegistry()
	for _, s := range steps {
		require.NoError(t, registry.Register(s))
	}
	var buf bytes.Buffer
	logger := infrastructure.NewLogger(&buf, "debug")
	return operations.NewManager(registry, nil, logger), &buf
}

func TestManagerExecuteSequential(t *testing.T) {
	log := &testutil.ExecutionLog{}
	manager, buf := newTestManager(t,
		testutil.CreateRecordingStage(log, "load"),
		testutil.CreateRecordingStage(log, "filter", "load"),
		testutil.CreateRecordingStage(log, "persist", "filter"),
	)

	resp, err := manager.Execute(context.Background(), operations.OperationRequest{ID: "run-1"})
	require.NoError(t, err)

	assert.Equal(t, "run-1", resp.ID)
	assert.Equal(t, operations.OperationStatusCompleted, resp.Status)
	assert.Equal(t, []string{"load", "filter", "persist"}, log.IDs())
	assert.Equal(t, []string{"load", "filter", "persist"}, resp.StepOrder)
	for _, id := range resp.StepOrder {
		assert.Equal(t, operations.StepStatusCompleted, resp.Steps[id].GetStatus(), id)
	}

	out := buf.String()
	assert.Contains(t, out, `"msg":"operation_start"`)
	assert.Contains(t, out, `"msg":"stage_complete"`)
	assert.Contains(t, out, `"trace_id":"run-1"`)
}

func TestManagerStopsAtFirstFailure(t *testing.T) {
	boom := errors.New("disk full")
	log := &testutil.ExecutionLog{}
	failing := testutil.CreateFailingStage("persist", "Persist", boom, "load")
	after := testutil.CreateRecordingStage(log, "aggregate", "persist")

	manager, buf := newTestManager(t,
		testutil.CreateRecordingStage(log, "load"),
		failing,
		after,
	)

	resp, err := manager.Execute(context.Background(), operations.OperationRequest{})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)

	var opErr *operations.OperationError
	require.True(t, errors.As(err, &opErr))
	assert.Equal(t, "persist", opErr.Step)
	assert.Equal(t, operations.ErrorTypeExecution, opErr.Type)
	assert.Equal(t, "step execution failed", opErr.Message)

	assert.Equal(t, operations.OperationStatusFailed, resp.Status)
	assert.NotEmpty(t, resp.ID, "an ID is generated when the request has none")
	assert.Equal(t, []string{"load"}, log.IDs())
	assert.Equal(t, operations.StepStatusFailed, resp.Steps["persist"].GetStatus())
	assert.Equal(t, operations.StepStatusSkipped, resp.Steps["aggregate"].GetStatus())
	assert.Equal(t, 0, after.GetExecuteCalls())
	assert.Contains(t, buf.String(), `"msg":"stage_error"`)
	assert.Contains(t, buf.String(), `"failed_steps":["persist"]`)
}

func TestManagerRejectsBrokenDependencies(t *testing.T) {
	orphan := testutil.CreateSuccessfulStage("filter", "Filter", "load")
	manager, buf := newTestManager(t, orphan)

	resp, err := manager.Execute(context.Background(), operations.OperationRequest{Steps: []string{"filter"}})
	require.Error(t, err)
	assert.Equal(t, operations.ErrorTypeFatal, operations.GetErrorType(err))
	assert.ErrorContains(t, err, "non-existent step load")
	assert.Equal(t, operations.OperationStatusFailed, resp.Status)
	assert.Equal(t, 0, orphan.GetExecuteCalls())
	assert.Contains(t, buf.String(), `"msg":"operation_error"`)
}

func TestManagerValidationFailure(t *testing.T) {
	stage := testutil.CreateValidationFailingStage("aggregate", "Aggregate", errors.New("processed table not available"))
	manager, _ := newTestManager(t, stage)

	resp, err := manager.Execute(context.Background(), operations.OperationRequest{})
	require.Error(t, err)
	assert.Equal(t, operations.ErrorTypeValidation, operations.GetErrorType(err))
	assert.Equal(t, 0, stage.GetExecuteCalls())
	assert.Equal(t, operations.StepStatusFailed, resp.Steps["aggregate"].GetStatus())
}

func TestManagerSkipper(t *testing.T) {
	log := &testutil.ExecutionLog{}
	cache := &testutil.MockStage{
		IDValue:   "cache",
		NameValue: "Cache",
		ExecuteFunc: func(ctx context.Context, state *operations.OperationState) error {
			state.SetContext(operations.ContextKeyCacheHit, true)
			return nil
		},
	}
	load := testutil.SkippableStage{MockStage: testutil.CreateRecordingStage(log, "load")}
	load.SkipFunc = func(state *operations.OperationState) (bool, string) {
		return state.CacheHit(), "cached"
	}
	aggregate := testutil.CreateRecordingStage(log, "aggregate", "load")

	manager, buf := newTestManager(t, cache, load, aggregate)
	resp, err := manager.Execute(context.Background(), operations.OperationRequest{})
	require.NoError(t, err)

	assert.True(t, resp.CacheHit)
	assert.Equal(t, []string{"aggregate"}, log.IDs(), "a skipped dependency still lets dependents run")
	assert.Equal(t, operations.StepStatusSkipped, resp.Steps["load"].GetStatus())
	assert.Equal(t, "cached", resp.Steps["load"].Message)
	assert.Contains(t, buf.String(), `"msg":"stage_skipped"`)
}

func TestManagerRequestedSteps(t *testing.T) {
	log := &testutil.ExecutionLog{}
	manager, _ := newTestManager(t,
		testutil.CreateRecordingStage(log, "load"),
		testutil.CreateRecordingStage(log, "filter", "load"),
		testutil.CreateRecordingStage(log, "report"),
	)

	resp, err := manager.Execute(context.Background(), operations.OperationRequest{Steps: []string{"load", "filter"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"load", "filter"}, log.IDs())
	assert.NotContains(t, resp.Steps, "report")

	_, err = manager.Execute(context.Background(), operations.OperationRequest{Steps: []string{"missing"}})
	assert.ErrorIs(t, err, operations.ErrStepNotFound)
	assert.Equal(t, operations.ErrorTypeFatal, operations.GetErrorType(err))
}

func TestManagerCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	first := &testutil.MockStage{
		IDValue:   "load",
		NameValue: "Load",
		ExecuteFunc: func(ctx context.Context, state *operations.OperationState) error {
			cancel()
			return nil
		},
	}
	second := testutil.CreateSuccessfulStage("filter", "Filter", "load")
	manager, _ := newTestManager(t, first, second)

	resp, err := manager.Execute(ctx, operations.OperationRequest{})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, operations.OperationStatusCancelled, resp.Status)
	assert.Equal(t, operations.StepStatusSkipped, resp.Steps["filter"].GetStatus())
	assert.Equal(t, 0, second.GetExecuteCalls())
}
