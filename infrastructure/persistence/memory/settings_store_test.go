package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "thoughtgraph/pkg/errors"
)

func TestSettingsStore(t *testing.T) {
	ctx := context.Background()
	store := NewSettingsStore()

	_, err := store.Get(ctx)
	assert.True(t, pkgerrors.IsNotFound(err))

	input := []byte(`{"linkWidth":2}`)
	require.NoError(t, store.Put(ctx, input))
	input[0] = 'x'

	got, err := store.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, `{"linkWidth":2}`, string(got))

	got[0] = 'y'
	again, err := store.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, `{"linkWidth":2}`, string(again))
}
