package operations_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "surveycli/internal/errors"
	"surveycli/internal/operations"
)

func TestOperationErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  *operations.OperationError
		want string
	}{
		{
			name: "with step",
			err:  operations.NewValidationError("load", "no survey years configured"),
			want: "[validation] load: no survey years configured",
		},
		{
			name: "with cause",
			err:  operations.NewExecutionError("persist", errors.New("disk full")),
			want: "[execution] persist: step execution failed: disk full",
		},
		{
			name: "without step",
			err:  operations.NewFatalError("failed to resolve steps", nil),
			want: "[fatal] failed to resolve steps",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestWrapErrorKeepsCause(t *testing.T) {
	cause := apperrors.NewSchemaMismatchError(2019, "DevType", "DevType", "column missing from header")
	wrapped := operations.WrapError(fmt.Errorf("survey 2019: %w", cause), "load", "step execution failed")

	assert.Equal(t, "load", wrapped.Step)
	assert.Equal(t, operations.ErrorTypeExecution, wrapped.Type)
	assert.True(t, errors.Is(wrapped, apperrors.ErrSchemaMismatch))

	var schemaErr *apperrors.SchemaMismatchError
	assert.True(t, errors.As(wrapped, &schemaErr))
	assert.Equal(t, 2019, schemaErr.Year)
}

func TestWrapErrorReusesOperationError(t *testing.T) {
	original := operations.NewCancellationError("", errors.New("context canceled"))
	wrapped := operations.WrapError(fmt.Errorf("outer: %w", original), "features", "ignored")

	assert.Same(t, original, wrapped)
	assert.Equal(t, "features", wrapped.Step)
	assert.Equal(t, operations.ErrorTypeCancellation, operations.GetErrorType(wrapped))
	assert.Nil(t, operations.WrapError(nil, "load", "x"))
}

func TestGetErrorType(t *testing.T) {
	assert.Equal(t, operations.ErrorType(""), operations.GetErrorType(nil))
	assert.Equal(t, operations.ErrorTypeExecution, operations.GetErrorType(errors.New("plain")))
	assert.Equal(t, operations.ErrorTypeDependency,
		operations.GetErrorType(operations.NewDependencyError("report", "aggregate", "status failed")))
}
