package types

import "time"

// DefaultMaxRetries is applied when a task declares no retry budget.
const DefaultMaxRetries = 3

// Task is a unit of work bound to an agent type, with declared dependencies.
// A Task is mutated only by the goroutine currently executing it; the
// orchestrator serializes access to settled fields through its own lock.
type Task struct {
	ID           string     `json:"id"`
	Description  string     `json:"description"`
	AgentType    string     `json:"agent_type"`
	Dependencies []string   `json:"dependencies"`
	Priority     int        `json:"priority"`
	Status       TaskStatus `json:"status"`
	Result       any        `json:"result,omitempty"`
	Error        string     `json:"error,omitempty"`
	StartTime    *time.Time `json:"start_time,omitempty"`
	EndTime      *time.Time `json:"end_time,omitempty"`
	RetryCount   int        `json:"retry_count"`
	MaxRetries   int        `json:"max_retries"`
}

// Duration returns the task's own execution span, or zero while either
// timestamp is unset.
func (t *Task) Duration() time.Duration {
	if t.StartTime == nil || t.EndTime == nil {
		return 0
	}
	return t.EndTime.Sub(*t.StartTime)
}

// Snapshot returns a copy of the task safe to hand to callers while the
// orchestrator keeps mutating the original.
func (t *Task) Snapshot() TaskSnapshot {
	snap := TaskSnapshot{
		ID:          t.ID,
		Description: t.Description,
		AgentType:   t.AgentType,
		Priority:    t.Priority,
		Status:      t.Status,
		Error:       t.Error,
		RetryCount:  t.RetryCount,
		MaxRetries:  t.MaxRetries,
	}
	snap.Dependencies = append(snap.Dependencies, t.Dependencies...)
	if t.StartTime != nil {
		st := *t.StartTime
		snap.StartTime = &st
	}
	if t.EndTime != nil {
		et := *t.EndTime
		snap.EndTime = &et
	}
	return snap
}

// TaskSnapshot is a point-in-time, caller-owned view of a task.
type TaskSnapshot struct {
	ID           string     `json:"id"`
	Description  string     `json:"description"`
	AgentType    string     `json:"agent_type"`
	Dependencies []string   `json:"dependencies"`
	Priority     int        `json:"priority"`
	Status       TaskStatus `json:"status"`
	Error        string     `json:"error,omitempty"`
	StartTime    *time.Time `json:"start_time,omitempty"`
	EndTime      *time.Time `json:"end_time,omitempty"`
	RetryCount   int        `json:"retry_count"`
	MaxRetries   int        `json:"max_retries"`
}

// TaskContext is handed to an agent on invocation. Dependencies holds the
// results of the task's already-completed dependencies, keyed by task id.
type TaskContext struct {
	TaskID       string         `json:"task_id"`
	WorkflowID   string         `json:"workflow_id"`
	Dependencies map[string]any `json:"dependencies"`
}
