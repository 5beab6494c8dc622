package operations

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"surveycli/internal/infrastructure"
)

// Manager runs registered steps in order, one at a time. The first failing
// step ends the run; every later step is marked skipped.
type Manager struct {
	registry *Registry
	tracer   *OperationTracer
	logger   *slog.Logger
}

// NewManager creates a new operation manager
func NewManager(registry *Registry, tracer *OperationTracer, logger *slog.Logger) *Manager {
	if registry == nil {
		registry = NewRegistry()
	}
	if tracer == nil {
		tracer = NewNoopTracer()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		registry: registry,
		tracer:   tracer,
		logger:   logger,
	}
}

// Execute runs an operation with the given request
func (m *Manager) Execute(ctx context.Context, req OperationRequest) (*OperationResponse, error) {
	if req.ID == "" {
		req.ID = infrastructure.GetTraceID(ctx)
	}
	if req.ID == "" {
		req.ID = infrastructure.GenerateTraceID()
	}
	ctx = infrastructure.WithTraceID(ctx, req.ID)

	state := NewOperationState(req.ID)

	steps, err := m.resolveSteps(req)
	if err != nil {
		err = NewFatalError("failed to resolve steps", err)
		m.logOperationError(ctx, req.ID, err)
		state.Fail(err)
		return m.createResponse(state, nil), err
	}

	order := make([]string, len(steps))
	for i, step := range steps {
		state.SetStage(step.ID(), NewStepState(step.ID(), step.Name()))
		order[i] = step.ID()
	}

	ctx, span := m.tracer.TraceOperationExecution(ctx, req.ID, len(steps))
	m.logOperationStart(ctx, req.ID, steps)
	state.Start()

	err = m.executeSequential(ctx, state, steps)
	switch {
	case err == nil:
		state.Complete()
	case GetErrorType(err) == ErrorTypeCancellation:
		state.Cancel(err)
	default:
		state.Fail(err)
	}

	status := state.GetStatus()
	m.tracer.RecordOperationCompletion(span, status, state.Duration(), err)
	if err != nil {
		m.logOperationError(ctx, req.ID, err)
	}
	m.logOperationComplete(ctx, state)

	return m.createResponse(state, order), err
}

func (m *Manager) resolveSteps(req OperationRequest) ([]Step, error) {
	if err := m.registry.ValidateDependencies(); err != nil {
		return nil, err
	}
	if len(req.Steps) > 0 {
		return m.registry.Resolve(req.Steps)
	}
	return m.registry.GetDependencyOrder()
}

// executeSequential executes steps one by one
func (m *Manager) executeSequential(ctx context.Context, state *OperationState, steps []Step) error {
	for i, step := range steps {
		if err := ctx.Err(); err != nil {
			cancelErr := NewCancellationError(step.ID(), err)
			m.skipRemaining(ctx, state, steps[i:], "operation cancelled")
			return cancelErr
		}

		if skipper, ok := step.(Skipper); ok {
			if skip, reason := skipper.ShouldSkip(state); skip {
				state.GetStage(step.ID()).Skip(reason)
				m.tracer.RecordStageSkipped(ctx, step.ID(), reason)
				m.logStageSkipped(ctx, state.ID, step.ID(), reason)
				continue
			}
		}

		if err := m.executeStage(ctx, state, step); err != nil {
			m.logStageError(ctx, state.ID, step.ID(), err)
			m.skipRemaining(ctx, state, steps[i+1:], fmt.Sprintf("step %s failed", step.ID()))
			return err
		}
	}
	return nil
}

// executeStage runs a single step and records its outcome
func (m *Manager) executeStage(ctx context.Context, state *OperationState, step Step) error {
	stepState := state.GetStage(step.ID())
	if stepState == nil {
		return NewFatalError(fmt.Sprintf("state for step %s not found", step.ID()), nil)
	}

	if err := m.checkDependencies(state, step); err != nil {
		stepState.Fail(err)
		return err
	}

	if err := step.Validate(state); err != nil {
		vErr := WrapError(err, step.ID(), "step validation failed")
		if vErr.Type == ErrorTypeExecution {
			vErr.Type = ErrorTypeValidation
		}
		stepState.Fail(vErr)
		return vErr
	}

	m.logStageStart(ctx, state.ID, step)
	stepCtx, span := m.tracer.TraceStageExecution(ctx, state.ID, step.ID())
	stepState.Start()
	start := time.Now()

	err := step.Execute(stepCtx, state)
	duration := time.Since(start)

	if err != nil {
		if ctx.Err() != nil {
			err = NewCancellationError(step.ID(), err)
		} else {
			err = WrapError(err, step.ID(), "step execution failed")
		}
		stepState.Fail(err)
		m.tracer.RecordStageCompletion(stepCtx, span, step.ID(), StepStatusFailed, duration, err)
		return err
	}

	stepState.Complete()
	m.tracer.RecordStageCompletion(stepCtx, span, step.ID(), StepStatusCompleted, duration, nil)
	m.logStageComplete(ctx, state.ID, step.ID(), duration)
	return nil
}

// skipRemaining marks every pending step as skipped
func (m *Manager) skipRemaining(ctx context.Context, state *OperationState, steps []Step, reason string) {
	for _, step := range steps {
		stepState := state.GetStage(step.ID())
		if stepState != nil && stepState.GetStatus() == StepStatusPending {
			stepState.Skip(reason)
			m.tracer.RecordStageSkipped(ctx, step.ID(), reason)
		}
	}
}

// checkDependencies verifies that every dependency in this run finished.
// Skipped dependencies count as satisfied; a skip means the step had
// nothing to do, not that it failed.
func (m *Manager) checkDependencies(state *OperationState, step Step) error {
	for _, dep := range step.GetDependencies() {
		depState := state.GetStage(dep)
		if depState == nil {
			continue
		}
		switch depState.GetStatus() {
		case StepStatusCompleted, StepStatusSkipped:
		default:
			return NewDependencyError(step.ID(), dep, fmt.Sprintf("status %s", depState.GetStatus()))
		}
	}
	return nil
}

// createResponse creates an operation response from state
func (m *Manager) createResponse(state *OperationState, order []string) *OperationResponse {
	resp := &OperationResponse{
		ID:        state.ID,
		Status:    state.GetStatus(),
		Duration:  state.Duration(),
		StepOrder: order,
		Steps:     state.Steps,
		CacheHit:  state.CacheHit(),
		Outputs:   state.Outputs(),
	}
	if state.Error != nil {
		resp.Error = state.Error.Error()
	}
	return resp
}
