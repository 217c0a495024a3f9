package types

// TaskStatus represents the lifecycle state of a single task.
//
// Transitions: Pending -> Ready -> Running -> {Completed | Failed},
// with Running -> Pending on a retryable failure. Skipped is a terminal
// state reserved for callers that cascade-skip dependents; the default
// scheduler never produces it.
type TaskStatus string

const (
	TaskStatusPending   TaskStatus = "pending"
	TaskStatusReady     TaskStatus = "ready"
	TaskStatusRunning   TaskStatus = "running"
	TaskStatusCompleted TaskStatus = "completed"
	TaskStatusFailed    TaskStatus = "failed"
	TaskStatusSkipped   TaskStatus = "skipped"
)

// IsTerminal reports whether the status is final.
func (s TaskStatus) IsTerminal() bool {
	switch s {
	case TaskStatusCompleted, TaskStatusFailed, TaskStatusSkipped:
		return true
	}
	return false
}

// WorkflowState represents the lifecycle state of one orchestrator run.
//
// Transitions: Created -> Running -> {Completed | Failed}, with
// Running <-> Paused via explicit pause/resume calls.
type WorkflowState string

const (
	WorkflowStateCreated   WorkflowState = "created"
	WorkflowStateRunning   WorkflowState = "running"
	WorkflowStatePaused    WorkflowState = "paused"
	WorkflowStateCompleted WorkflowState = "completed"
	WorkflowStateFailed    WorkflowState = "failed"
)

// IsTerminal reports whether the workflow state is final.
func (s WorkflowState) IsTerminal() bool {
	return s == WorkflowStateCompleted || s == WorkflowStateFailed
}
