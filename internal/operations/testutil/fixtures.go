package testutil

import (
	"context"
	"sync"

	"surveycli/internal/operations"
)

// CreateSuccessfulStage creates a step that always succeeds
func CreateSuccessfulStage(id, name string, deps ...string) *MockStage {
	return &MockStage{
		IDValue:           id,
		NameValue:         name,
		DependenciesValue: deps,
	}
}

// CreateFailingStage creates a step whose Execute returns err
func CreateFailingStage(id, name string, err error, deps ...string) *MockStage {
	return &MockStage{
		IDValue:           id,
		NameValue:         name,
		DependenciesValue: deps,
		ExecuteFunc: func(ctx context.Context, state *operations.OperationState) error {
			return err
		},
	}
}

// CreateValidationFailingStage creates a step whose Validate returns err
func CreateValidationFailingStage(id, name string, err error, deps ...string) *MockStage {
	return &MockStage{
		IDValue:           id,
		NameValue:         name,
		DependenciesValue: deps,
		ValidateFunc: func(state *operations.OperationState) error {
			return err
		},
	}
}

// ExecutionLog records the order steps ran in
type ExecutionLog struct {
	mu  sync.Mutex
	ids []string
}

// IDs returns the recorded step IDs
func (l *ExecutionLog) IDs() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.ids...)
}

// CreateRecordingStage creates a step that appends its ID to log when run
func CreateRecordingStage(log *ExecutionLog, id string, deps ...string) *MockStage {
	return &MockStage{
		IDValue:           id,
		NameValue:         id,
		DependenciesValue: deps,
		ExecuteFunc: func(ctx context.Context, state *operations.OperationState) error {
			log.mu.Lock()
			log.ids = append(log.ids, id)
			log.mu.Unlock()
			return nil
		},
	}
}
