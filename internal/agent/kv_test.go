package agent

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileKV_RoundTripAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "state.json")

	kv, err := NewFileKV(path)
	require.NoError(t, err)

	var missing string
	found, err := kv.Get(ctx, "token", &missing)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, kv.Set(ctx, "token", "abc"))
	require.NoError(t, kv.Set(ctx, "count", 3))

	reopened, err := NewFileKV(path)
	require.NoError(t, err)

	var token string
	found, err = reopened.Get(ctx, "token", &token)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "abc", token)

	var count int
	_, err = reopened.Get(ctx, "count", &count)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestFileKV_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	_, err := NewFileKV(path)
	assert.Error(t, err)
}

func TestFileKV_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, nil, 0600))

	kv, err := NewFileKV(path)
	require.NoError(t, err)
	require.NoError(t, kv.Set(context.Background(), "k", "v"))
}

func TestFileKV_FailedWriteKeepsPreviousValue(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "state.json")

	kv, err := NewFileKV(path)
	require.NoError(t, err)
	require.NoError(t, kv.Set(ctx, "k", "first"))

	// Point the store at a path whose parent is a regular file.
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0600))
	kv.path = filepath.Join(blocker, "state.json")

	assert.Error(t, kv.Set(ctx, "k", "second"))
	assert.Error(t, kv.Set(ctx, "other", "x"))

	var got string
	found, err := kv.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "first", got)

	found, err = kv.Get(ctx, "other", &got)
	require.NoError(t, err)
	assert.False(t, found)
}
