package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/talleres-api/pkg/errors"
)

func TestMemoryCacheRepositoryExpiry(t *testing.T) {
	repo := NewMemoryCacheRepository()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "listing:a", map[string]int{"total": 1}, time.Minute))

	var got map[string]int
	require.NoError(t, repo.Get(ctx, "listing:a", &got, 0))
	require.Equal(t, 1, got["total"])

	now = now.Add(2 * time.Minute)
	require.ErrorIs(t, repo.Get(ctx, "listing:a", &got, 0), appErrors.ErrCacheMiss)
}

func TestMemoryCacheRepositoryRefreshSlidesExpiry(t *testing.T) {
	repo := NewMemoryCacheRepository()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "listing:a", "snapshot", time.Minute))

	var got string
	for i := 0; i < 3; i++ {
		now = now.Add(45 * time.Second)
		require.NoError(t, repo.Get(ctx, "listing:a", &got, time.Minute), "read %d", i)
	}

	now = now.Add(61 * time.Second)
	require.ErrorIs(t, repo.Get(ctx, "listing:a", &got, time.Minute), appErrors.ErrCacheMiss)
}

func TestMemoryCacheRepositorySweepsOnSet(t *testing.T) {
	repo := NewMemoryCacheRepository()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "listing:old", "x", time.Minute))
	now = now.Add(time.Hour)
	require.NoError(t, repo.Set(ctx, "listing:new", "y", time.Minute))

	assert.Equal(t, 1, repo.Len())
}

func TestMemoryCacheRepositoryDelete(t *testing.T) {
	repo := NewMemoryCacheRepository()
	ctx := context.Background()
	require.NoError(t, repo.Set(ctx, "k", "v", 0))
	require.NoError(t, repo.Delete(ctx, "k"))

	var got string
	require.ErrorIs(t, repo.Get(ctx, "k", &got, 0), appErrors.ErrCacheMiss)
}
