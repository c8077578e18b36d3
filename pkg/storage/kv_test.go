package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryKVRoundTrip(t *testing.T) {
	kv := NewMemoryKV()
	ctx := context.Background()

	_, err := kv.Get(ctx, "enrollments")
	require.ErrorIs(t, err, ErrKeyNotFound)

	payload := []byte(`[{"id":"a"}]`)
	require.NoError(t, kv.Set(ctx, "enrollments", payload))
	payload[0] = 'x'

	got, err := kv.Get(ctx, "enrollments")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"a"}]`, string(got))
}

func TestRedisKVKeyNamespace(t *testing.T) {
	assert.Equal(t, "talleres:kv:enrollments", NewRedisKV(nil, redisKVPrefix).key("enrollments"))
	assert.Equal(t, "talleres:kv:enrollments", NewRedisKV(nil, "talleres:kv:").key("enrollments"))
	assert.Equal(t, "enrollments", NewRedisKV(nil, "").key("enrollments"))
}

func TestFileKVPersistsAcrossHandles(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	files, err := NewLocalStorage(dir)
	require.NoError(t, err)
	kv := NewFileKV(files)

	_, err = kv.Get(ctx, "enrollments")
	require.ErrorIs(t, err, ErrKeyNotFound)

	require.NoError(t, kv.Set(ctx, "enrollments", []byte(`[]`)))
	require.NoError(t, kv.Set(ctx, "enrollments", []byte(`[{"id":"b"}]`)))

	reopened, err := NewLocalStorage(dir)
	require.NoError(t, err)
	got, err := NewFileKV(reopened).Get(ctx, "enrollments")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"b"}]`, string(got))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "enrollments.json", entries[0].Name())
}

func TestFileKVHonoursCancelledContext(t *testing.T) {
	files, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.ErrorIs(t, NewFileKV(files).Set(ctx, "k", []byte("v")), context.Canceled)
}

func TestLocalStorageCleanupOlderThan(t *testing.T) {
	dir := t.TempDir()
	files, err := NewLocalStorage(dir)
	require.NoError(t, err)

	_, err = files.Save("old.csv", []byte("a"))
	require.NoError(t, err)
	_, err = files.Save("fresh.csv", []byte("b"))
	require.NoError(t, err)
	past := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(dir, "old.csv"), past, past))

	deleted, err := files.CleanupOlderThan(time.Hour)
	require.NoError(t, err)
	assert.Equal(t, []string{"old.csv"}, deleted)

	_, err = files.Read("fresh.csv")
	require.NoError(t, err)
	_, err = files.Read("old.csv")
	require.ErrorIs(t, err, ErrKeyNotFound)
}
