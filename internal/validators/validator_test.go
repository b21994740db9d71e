package validators_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stagegate-dev/stagegate/internal/validators"
)

func TestDefaultRegistry_AllStagesInOrder(t *testing.T) {
	t.Parallel()

	all := validators.DefaultRegistry().All()
	require.Len(t, all, 5)

	for i, validator := range all {
		assert.Equal(t, i+1, validator.Descriptor().Stage)
		assert.NotEmpty(t, validator.Descriptor().Name)
	}
}

func TestRegistry_SelectPreservesRequestedOrder(t *testing.T) {
	t.Parallel()

	registry := validators.DefaultRegistry()

	selected, err := registry.Select([]int{5, 2})
	require.NoError(t, err)
	require.Len(t, selected, 2)
	assert.Equal(t, 5, selected[0].Descriptor().Stage)
	assert.Equal(t, 2, selected[1].Descriptor().Stage)
}

func TestRegistry_SelectEmptyReturnsAll(t *testing.T) {
	t.Parallel()

	selected, err := validators.DefaultRegistry().Select(nil)
	require.NoError(t, err)
	assert.Len(t, selected, 5)
}

func TestRegistry_SelectUnknownStage(t *testing.T) {
	t.Parallel()

	_, err := validators.DefaultRegistry().Select([]int{9})
	require.ErrorIs(t, err, validators.ErrUnknownStage)
}

func TestNewRegistry_DuplicateStage(t *testing.T) {
	t.Parallel()

	_, err := validators.NewRegistry(&validators.Stage1{}, &validators.Stage1{})
	require.ErrorIs(t, err, validators.ErrDuplicateStage)
}

func TestRegistry_Lookup(t *testing.T) {
	t.Parallel()

	registry := validators.DefaultRegistry()

	validator, ok := registry.Lookup(3)
	require.True(t, ok)
	assert.Equal(t, "infrastructure", validator.Descriptor().Name)

	_, ok = registry.Lookup(0)
	assert.False(t, ok)
}
