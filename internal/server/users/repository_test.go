package users

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/useradmin/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepository_CRUD(t *testing.T) {
	r := NewMemoryRepository()
	ctx := context.Background()

	for _, name := range []string{"a", "b", "c"} {
		require.NoError(t, r.Create(ctx, &User{Name: name}))
	}
	require.NoError(t, r.Delete(ctx, 2))
	require.NoError(t, r.Create(ctx, &User{Name: "d"}))

	list, err := r.List(ctx)
	require.NoError(t, err)
	ids := make([]int64, 0, len(list))
	for _, u := range list {
		ids = append(ids, u.ID)
	}
	assert.Equal(t, []int64{1, 3, 4}, ids)

	got, err := r.Get(ctx, 3)
	require.NoError(t, err)
	got.Name = "changed"
	again, _ := r.Get(ctx, 3)
	assert.Equal(t, "c", again.Name)

	require.NoError(t, r.Update(ctx, got))
	again, _ = r.Get(ctx, 3)
	assert.Equal(t, "changed", again.Name)

	require.ErrorIs(t, r.Update(ctx, &User{ID: 99}), common.ErrorNotFound)
	require.ErrorIs(t, r.Delete(ctx, 99), common.ErrorNotFound)
	_, err = r.Get(ctx, 2)
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestMemoryRepository_EmptyListIsNotNil(t *testing.T) {
	list, err := NewMemoryRepository().List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}
