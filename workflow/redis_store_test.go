package workflow

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestrelworks/taskweave/types"
)

func newTestRedisStore(t *testing.T, cfg RedisConfig) *RedisCheckpointStore {
	t.Helper()
	mr := miniredis.RunT(t)
	cfg.Addr = mr.Addr()
	store, err := NewRedisCheckpointStore(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRedisCheckpointStoreRoundTrip(t *testing.T) {
	store := newTestRedisStore(t, RedisConfig{})
	ctx := context.Background()

	cp := sampleCheckpoint()
	require.NoError(t, store.Save(ctx, cp))

	loaded, err := store.Load(ctx, "wf-1")
	require.NoError(t, err)
	assert.Equal(t, cp.WorkflowID, loaded.WorkflowID)
	assert.Equal(t, cp.State, loaded.State)
	assert.Equal(t, cp.CompletedTaskIDs, loaded.CompletedTaskIDs)
	assert.Equal(t, 1, loaded.Tasks["extract"].RetryCount)
}

func TestRedisCheckpointStoreMissing(t *testing.T) {
	store := newTestRedisStore(t, RedisConfig{})

	_, err := store.Load(context.Background(), "no-such-workflow")
	require.Error(t, err)
	assert.Equal(t, types.ErrCheckpointIO, types.GetErrorCode(err))
}

func TestRedisCheckpointStoreKeyPrefix(t *testing.T) {
	mr := miniredis.RunT(t)
	store, err := NewRedisCheckpointStore(RedisConfig{Addr: mr.Addr(), KeyPrefix: "custom:"})
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	require.NoError(t, store.Save(context.Background(), sampleCheckpoint()))
	assert.True(t, mr.Exists("custom:checkpoint:wf-1"))
}

func TestRedisCheckpointStoreTTL(t *testing.T) {
	mr := miniredis.RunT(t)
	store, err := NewRedisCheckpointStore(RedisConfig{Addr: mr.Addr(), TTL: time.Minute})
	require.NoError(t, err)
	defer func() { _ = store.Close() }()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, sampleCheckpoint()))

	mr.FastForward(2 * time.Minute)
	_, err = store.Load(ctx, "wf-1")
	require.Error(t, err)
}

func TestRedisCheckpointStoreUnreachable(t *testing.T) {
	_, err := NewRedisCheckpointStore(RedisConfig{Addr: "127.0.0.1:1"})
	require.Error(t, err)
	assert.Equal(t, types.ErrCheckpointIO, types.GetErrorCode(err))
}
