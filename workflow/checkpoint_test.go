package workflow

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestrelworks/taskweave/types"
)

func sampleCheckpoint() *Checkpoint {
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	end := start.Add(42 * time.Second)
	result := "1204 rows"
	return &Checkpoint{
		SchemaVersion: CheckpointSchemaVersion,
		WorkflowID:    "wf-1",
		State:         types.WorkflowStateRunning,
		Timestamp:     time.Now().UTC(),
		Tasks: map[string]CheckpointTask{
			"extract": {
				ID:         "extract",
				AgentType:  "db",
				Status:     types.TaskStatusCompleted,
				Result:     &result,
				StartTime:  &start,
				EndTime:    &end,
				RetryCount: 1,
				MaxRetries: 3,
			},
			"load": {
				ID:           "load",
				AgentType:    "crm",
				Dependencies: []string{"extract"},
				Status:       types.TaskStatusPending,
				MaxRetries:   3,
			},
		},
		CompletedTaskIDs: []string{"extract"},
		FailedTaskIDs:    []string{},
		TaskResults:      map[string]string{"extract": "1204 rows"},
	}
}

func TestFileCheckpointStoreRoundTrip(t *testing.T) {
	// Path includes a parent that does not exist yet; Save must create it.
	path := filepath.Join(t.TempDir(), "nested", "dir", "checkpoint.json")
	store := NewFileCheckpointStore(path)
	ctx := context.Background()

	cp := sampleCheckpoint()
	require.NoError(t, store.Save(ctx, cp))

	loaded, err := store.Load(ctx, "wf-1")
	require.NoError(t, err)

	assert.Equal(t, cp.WorkflowID, loaded.WorkflowID)
	assert.Equal(t, cp.State, loaded.State)
	assert.Equal(t, cp.CompletedTaskIDs, loaded.CompletedTaskIDs)

	extract := loaded.Tasks["extract"]
	assert.Equal(t, types.TaskStatusCompleted, extract.Status)
	assert.Equal(t, 1, extract.RetryCount)
	require.NotNil(t, extract.StartTime)
	require.NotNil(t, extract.EndTime)
	assert.True(t, extract.StartTime.Equal(*cp.Tasks["extract"].StartTime))

	// Results only survive as strings.
	require.NotNil(t, extract.Result)
	assert.Equal(t, "1204 rows", *extract.Result)
	assert.Equal(t, "1204 rows", loaded.TaskResults["extract"])
}

func TestFileCheckpointStoreMissingFile(t *testing.T) {
	store := NewFileCheckpointStore(filepath.Join(t.TempDir(), "absent.json"))
	_, err := store.Load(context.Background(), "wf-1")
	require.Error(t, err)
	assert.Equal(t, types.ErrCheckpointIO, types.GetErrorCode(err))
}

func TestFileCheckpointStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "checkpoint.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	store := NewFileCheckpointStore(path)
	_, err := store.Load(context.Background(), "wf-1")
	require.Error(t, err)
	assert.Equal(t, types.ErrCheckpointIO, types.GetErrorCode(err))
}

func TestFileCheckpointStoreSchemaVersionMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "checkpoint.json")
	store := NewFileCheckpointStore(path)
	ctx := context.Background()

	cp := sampleCheckpoint()
	cp.SchemaVersion = 99
	require.NoError(t, store.Save(ctx, cp))

	_, err := store.Load(ctx, "wf-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema version")
}

func TestFileCheckpointStoreOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "checkpoint.json")
	store := NewFileCheckpointStore(path)
	ctx := context.Background()

	cp := sampleCheckpoint()
	require.NoError(t, store.Save(ctx, cp))

	cp.State = types.WorkflowStateCompleted
	require.NoError(t, store.Save(ctx, cp))

	loaded, err := store.Load(ctx, "wf-1")
	require.NoError(t, err)
	assert.Equal(t, types.WorkflowStateCompleted, loaded.State)

	// The temp file from the atomic write must not linger.
	_, statErr := os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(statErr))
}

func TestMemoryCheckpointStore(t *testing.T) {
	store := NewMemoryCheckpointStore()
	ctx := context.Background()

	_, err := store.Load(ctx, "wf-1")
	require.Error(t, err)

	cp := sampleCheckpoint()
	require.NoError(t, store.Save(ctx, cp))

	loaded, err := store.Load(ctx, "wf-1")
	require.NoError(t, err)
	assert.Equal(t, cp.WorkflowID, loaded.WorkflowID)
	assert.Equal(t, cp.CompletedTaskIDs, loaded.CompletedTaskIDs)

	// The stored copy is decoupled from the caller's struct.
	cp.State = types.WorkflowStateFailed
	loaded, err = store.Load(ctx, "wf-1")
	require.NoError(t, err)
	assert.Equal(t, types.WorkflowStateRunning, loaded.State)
}
