package workflow

import (
	"github.com/kestrelworks/taskweave/types"
)

// Report is the final result of an Execute call.
type Report struct {
	WorkflowID     string              `json:"workflow_id"`
	Name           string              `json:"name"`
	State          types.WorkflowState `json:"state"`
	TotalTasks     int                 `json:"total_tasks"`
	CompletedCount int                 `json:"completed_count"`
	FailedCount    int                 `json:"failed_count"`
	// TotalDurationSeconds sums each task's own end-start span. It is not
	// wall-clock time and overstates elapsed time when tasks ran in
	// parallel; kept that way deliberately.
	TotalDurationSeconds float64                       `json:"total_duration_seconds"`
	Tasks                map[string]types.TaskSnapshot `json:"tasks"`
	// Results holds the raw, typed task results, unlike the checkpoint's
	// stringified copies.
	Results map[string]any `json:"results"`
}

// Status is a read-only snapshot of an in-progress or finished run. Safe to
// request concurrently with Execute.
type Status struct {
	WorkflowID      string              `json:"workflow_id"`
	State           types.WorkflowState `json:"state"`
	ProgressPercent float64             `json:"progress_percent"`
	TotalTasks      int                 `json:"total_tasks"`
	CompletedCount  int                 `json:"completed_count"`
	FailedCount     int                 `json:"failed_count"`
	RunningCount    int                 `json:"running_count"`
	// PendingCount covers tasks not yet dispatched (pending or ready).
	PendingCount int                           `json:"pending_count"`
	Tasks        map[string]types.TaskSnapshot `json:"tasks"`
}

// buildReport assembles the final report from settled state.
func (o *Orchestrator) buildReport() *Report {
	o.mu.RLock()
	defer o.mu.RUnlock()

	report := &Report{
		WorkflowID:     o.config.WorkflowID,
		Name:           o.config.Name,
		State:          o.state,
		TotalTasks:     o.graph.Len(),
		CompletedCount: len(o.completedIDs),
		FailedCount:    len(o.failedIDs),
		Tasks:          make(map[string]types.TaskSnapshot, o.graph.Len()),
		Results:        make(map[string]any, len(o.results)),
	}

	for _, id := range o.graph.TaskIDs() {
		task, _ := o.graph.Task(id)
		report.Tasks[id] = task.Snapshot()
		report.TotalDurationSeconds += task.Duration().Seconds()
	}
	for id, res := range o.results {
		report.Results[id] = res
	}
	return report
}

// GetStatus returns a point-in-time snapshot of the run.
func (o *Orchestrator) GetStatus() *Status {
	o.mu.RLock()
	defer o.mu.RUnlock()

	status := &Status{
		WorkflowID:     o.config.WorkflowID,
		State:          o.state,
		TotalTasks:     o.graph.Len(),
		CompletedCount: len(o.completedIDs),
		FailedCount:    len(o.failedIDs),
		Tasks:          make(map[string]types.TaskSnapshot, o.graph.Len()),
	}

	for _, id := range o.graph.TaskIDs() {
		task, _ := o.graph.Task(id)
		status.Tasks[id] = task.Snapshot()
		switch task.Status {
		case types.TaskStatusRunning:
			status.RunningCount++
		case types.TaskStatusPending, types.TaskStatusReady:
			status.PendingCount++
		}
	}
	if status.TotalTasks > 0 {
		status.ProgressPercent = float64(status.CompletedCount) / float64(status.TotalTasks) * 100
	}
	return status
}
