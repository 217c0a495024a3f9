package workflow

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/kestrelworks/taskweave/types"
)

// CheckpointSchemaVersion identifies the checkpoint wire format. Loads of a
// different version are rejected like any other parse failure (non-fatal:
// the orchestrator proceeds with fresh state).
const CheckpointSchemaVersion = 1

// Checkpoint is a point-in-time snapshot of orchestrator and task control
// state. Task results are stringified on save and are not restored on load;
// only control fields round-trip.
type Checkpoint struct {
	SchemaVersion    int                       `json:"schema_version"`
	WorkflowID       string                    `json:"workflow_id"`
	State            types.WorkflowState       `json:"state"`
	Timestamp        time.Time                 `json:"timestamp"`
	Tasks            map[string]CheckpointTask `json:"tasks"`
	CompletedTaskIDs []string                  `json:"completed_task_ids"`
	FailedTaskIDs    []string                  `json:"failed_task_ids"`
	// TaskResults holds human-readable stringifications only.
	TaskResults map[string]string `json:"task_results"`
}

// CheckpointTask captures one task's persisted fields.
type CheckpointTask struct {
	ID           string           `json:"id"`
	Description  string           `json:"description"`
	AgentType    string           `json:"agent_type"`
	Dependencies []string         `json:"dependencies"`
	Priority     int              `json:"priority"`
	Status       types.TaskStatus `json:"status"`
	Result       *string          `json:"result"`
	Error        string           `json:"error,omitempty"`
	StartTime    *time.Time       `json:"start_time"`
	EndTime      *time.Time       `json:"end_time"`
	RetryCount   int              `json:"retry_count"`
	MaxRetries   int              `json:"max_retries"`
}

// CheckpointStore persists checkpoints to durable storage.
type CheckpointStore interface {
	Save(ctx context.Context, cp *Checkpoint) error
	// Load retrieves the checkpoint for a workflow. Implementations return
	// an error when no checkpoint exists or the stored data does not parse.
	Load(ctx context.Context, workflowID string) (*Checkpoint, error)
}

// decodeCheckpoint parses and version-checks raw checkpoint bytes.
func decodeCheckpoint(data []byte) (*Checkpoint, error) {
	var cp Checkpoint
	if err := json.Unmarshal(data, &cp); err != nil {
		return nil, types.NewError(types.ErrCheckpointIO, "checkpoint does not parse").WithCause(err)
	}
	if cp.SchemaVersion != CheckpointSchemaVersion {
		return nil, types.NewError(types.ErrCheckpointIO,
			fmt.Sprintf("unsupported checkpoint schema version %d", cp.SchemaVersion))
	}
	return &cp, nil
}

// FileCheckpointStore persists one checkpoint as a JSON file. Writes are
// atomic: temp file then rename. Suitable for single-node deployments.
type FileCheckpointStore struct {
	path string
	mu   sync.Mutex
}

// NewFileCheckpointStore creates a file-backed store at the given path.
// Parent directories are created on first save.
func NewFileCheckpointStore(path string) *FileCheckpointStore {
	return &FileCheckpointStore{path: path}
}

// Path returns the checkpoint file path.
func (s *FileCheckpointStore) Path() string { return s.path }

func (s *FileCheckpointStore) Save(ctx context.Context, cp *Checkpoint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if dir := filepath.Dir(s.path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return types.NewError(types.ErrCheckpointIO, "failed to create checkpoint directory").WithCause(err)
		}
	}

	data, err := json.MarshalIndent(cp, "", "  ")
	if err != nil {
		return types.NewError(types.ErrCheckpointIO, "failed to encode checkpoint").WithCause(err)
	}

	tempPath := s.path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return types.NewError(types.ErrCheckpointIO, "failed to write checkpoint").WithCause(err)
	}
	if err := os.Rename(tempPath, s.path); err != nil {
		return types.NewError(types.ErrCheckpointIO, "failed to publish checkpoint").WithCause(err)
	}
	return nil
}

func (s *FileCheckpointStore) Load(ctx context.Context, workflowID string) (*Checkpoint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, types.NewError(types.ErrCheckpointIO, "failed to read checkpoint").WithCause(err)
	}
	return decodeCheckpoint(data)
}

// MemoryCheckpointStore keeps checkpoints in process memory, keyed by
// workflow id. Useful for tests and ephemeral runs.
type MemoryCheckpointStore struct {
	checkpoints map[string][]byte
	mu          sync.RWMutex
}

// NewMemoryCheckpointStore creates an empty in-memory store.
func NewMemoryCheckpointStore() *MemoryCheckpointStore {
	return &MemoryCheckpointStore{checkpoints: make(map[string][]byte)}
}

func (s *MemoryCheckpointStore) Save(ctx context.Context, cp *Checkpoint) error {
	data, err := json.Marshal(cp)
	if err != nil {
		return types.NewError(types.ErrCheckpointIO, "failed to encode checkpoint").WithCause(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checkpoints[cp.WorkflowID] = data
	return nil
}

func (s *MemoryCheckpointStore) Load(ctx context.Context, workflowID string) (*Checkpoint, error) {
	s.mu.RLock()
	data, ok := s.checkpoints[workflowID]
	s.mu.RUnlock()
	if !ok {
		return nil, types.NewError(types.ErrCheckpointIO, fmt.Sprintf("no checkpoint for workflow %s", workflowID))
	}
	return decodeCheckpoint(data)
}

var (
	_ CheckpointStore = (*FileCheckpointStore)(nil)
	_ CheckpointStore = (*MemoryCheckpointStore)(nil)
)
