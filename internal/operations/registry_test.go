package operations_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"surveycli/internal/operations"
	"surveycli/internal/operations/testutil"
)

func TestRegistryRegister(t *testing.T) {
	registry := operations.NewRegistry()
	assert.Equal(t, 0, registry.Count())

	stage1 := testutil.CreateSuccessfulStage("stage1", "Step 1")
	stage2 := testutil.CreateSuccessfulStage("stage2", "Step 2")
	require.NoError(t, registry.Register(stage1))
	require.NoError(t, registry.Register(stage2))

	assert.Equal(t, 2, registry.Count())
	got, err := registry.Get("stage1")
	require.NoError(t, err)
	assert.Same(t, stage1, got)

	resolved, err := registry.Resolve([]string{"stage2", "stage1"})
	require.NoError(t, err)
	require.Len(t, resolved, 2)
	assert.Same(t, stage2, resolved[0])
	assert.Same(t, stage1, resolved[1])

	_, err = registry.Resolve([]string{"stage1", "stage3"})
	assert.ErrorIs(t, err, operations.ErrStepNotFound)
}

func TestRegistryRegisterErrors(t *testing.T) {
	registry := operations.NewRegistry()

	assert.ErrorContains(t, registry.Register(nil), "nil step")
	assert.ErrorContains(t, registry.Register(&testutil.MockStage{NameValue: "no id"}), "ID cannot be empty")

	dup := testutil.CreateSuccessfulStage("dup", "Duplicate")
	require.NoError(t, registry.Register(dup))
	assert.ErrorContains(t, registry.Register(dup), "already registered")

	_, err := registry.Get("missing")
	assert.True(t, errors.Is(err, operations.ErrStepNotFound))
}

func TestRegistryDependencyOrder(t *testing.T) {
	tests := []struct {
		name   string
		stages []*testutil.MockStage
		want   []string
	}{
		{
			name: "linear chain registered in order",
			stages: []*testutil.MockStage{
				testutil.CreateSuccessfulStage("load", "Load"),
				testutil.CreateSuccessfulStage("filter", "Filter", "load"),
				testutil.CreateSuccessfulStage("persist", "Persist", "filter"),
			},
			want: []string{"load", "filter", "persist"},
		},
		{
			name: "dependency registered after dependent",
			stages: []*testutil.MockStage{
				testutil.CreateSuccessfulStage("report", "Report", "aggregate"),
				testutil.CreateSuccessfulStage("aggregate", "Aggregate"),
			},
			want: []string{"aggregate", "report"},
		},
		{
			name: "independent roots keep registration order",
			stages: []*testutil.MockStage{
				testutil.CreateSuccessfulStage("cache", "Cache"),
				testutil.CreateSuccessfulStage("load", "Load"),
				testutil.CreateSuccessfulStage("filter", "Filter", "load"),
				testutil.CreateSuccessfulStage("aggregate", "Aggregate", "filter"),
			},
			want: []string{"cache", "load", "filter", "aggregate"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry := operations.NewRegistry()
			for _, s := range tt.stages {
				require.NoError(t, registry.Register(s))
			}

			ordered, err := registry.GetDependencyOrder()
			require.NoError(t, err)

			ids := make([]string, len(ordered))
			for i, s := range ordered {
				ids[i] = s.ID()
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestRegistryDependencyErrors(t *testing.T) {
	t.Run("missing dependency", func(t *testing.T) {
		registry := operations.NewRegistry()
		registry.MustRegister(testutil.CreateSuccessfulStage("filter", "Filter", "load"))

		assert.ErrorContains(t, registry.ValidateDependencies(), "non-existent step load")
	})

	t.Run("cycle", func(t *testing.T) {
		registry := operations.NewRegistry()
		registry.MustRegister(
			testutil.CreateSuccessfulStage("a", "A", "b"),
			testutil.CreateSuccessfulStage("b", "B", "a"),
		)

		_, err := registry.GetDependencyOrder()
		assert.ErrorContains(t, err, "cycle")
	})
}

func TestRegistryResolve(t *testing.T) {
	registry := operations.NewRegistry()
	registry.MustRegister(
		testutil.CreateSuccessfulStage("load", "Load"),
		testutil.CreateSuccessfulStage("persist", "Persist", "load"),
	)

	steps, err := registry.Resolve([]string{"persist", "load"})
	require.NoError(t, err)
	assert.Equal(t, "persist", steps[0].ID())
	assert.Equal(t, "load", steps[1].ID())

	_, err = registry.Resolve([]string{"load", "report"})
	assert.ErrorIs(t, err, operations.ErrStepNotFound)
}
