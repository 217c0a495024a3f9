package workflow

import (
	"fmt"
	"sort"

	"github.com/kestrelworks/taskweave/types"
)

// Graph holds the task set plus dependency edges for one workflow run.
// It is not safe for concurrent use; the orchestrator serializes access.
type Graph struct {
	tasks map[string]*types.Task
	// order preserves registration order; it is the tie-breaker for
	// equal-priority tasks and the iteration order for reports.
	order []string
}

// NewGraph builds a graph from the declared task list. Task ids must be
// unique and every dependency must reference a declared task. Tasks with a
// zero retry budget get types.DefaultMaxRetries.
func NewGraph(tasks []types.Task) (*Graph, error) {
	g := &Graph{tasks: make(map[string]*types.Task, len(tasks))}

	for _, t := range tasks {
		if t.ID == "" {
			return nil, types.NewError(types.ErrInvalidConfig, "task with empty id")
		}
		if _, dup := g.tasks[t.ID]; dup {
			return nil, types.NewError(types.ErrInvalidConfig, fmt.Sprintf("duplicate task id: %s", t.ID))
		}
		task := t
		if task.Status == "" {
			task.Status = types.TaskStatusPending
		}
		if task.MaxRetries <= 0 {
			task.MaxRetries = types.DefaultMaxRetries
		}
		g.tasks[task.ID] = &task
		g.order = append(g.order, task.ID)
	}

	for _, id := range g.order {
		for _, dep := range g.tasks[id].Dependencies {
			if _, ok := g.tasks[dep]; !ok {
				return nil, types.NewError(types.ErrInvalidConfig,
					fmt.Sprintf("task %s depends on unknown task %s", id, dep))
			}
		}
	}

	return g, nil
}

// Task retrieves a task by id.
func (g *Graph) Task(id string) (*types.Task, bool) {
	t, ok := g.tasks[id]
	return t, ok
}

// TaskIDs returns all task ids in registration order.
func (g *Graph) TaskIDs() []string {
	ids := make([]string, len(g.order))
	copy(ids, g.order)
	return ids
}

// Len returns the number of tasks in the graph.
func (g *Graph) Len() int {
	return len(g.order)
}

// ComputeReady selects every pending task whose dependencies have all
// completed, sorted by priority descending. Ties keep registration order
// (the sort is stable on purpose). When parallel is true the list is
// truncated to maxParallel; sequential mode never truncates.
func (g *Graph) ComputeReady(parallel bool, maxParallel int) []*types.Task {
	var ready []*types.Task
	for _, id := range g.order {
		task := g.tasks[id]
		if task.Status != types.TaskStatusPending {
			continue
		}
		if g.depsCompleted(task) {
			ready = append(ready, task)
		}
	}

	sort.SliceStable(ready, func(i, j int) bool {
		return ready[i].Priority > ready[j].Priority
	})

	if parallel && maxParallel > 0 && len(ready) > maxParallel {
		ready = ready[:maxParallel]
	}
	return ready
}

func (g *Graph) depsCompleted(task *types.Task) bool {
	for _, dep := range task.Dependencies {
		if g.tasks[dep].Status != types.TaskStatusCompleted {
			return false
		}
	}
	return true
}

// RunningCount returns the number of tasks currently running.
func (g *Graph) RunningCount() int {
	n := 0
	for _, t := range g.tasks {
		if t.Status == types.TaskStatusRunning {
			n++
		}
	}
	return n
}

// AllTerminal reports whether every task has reached a terminal status.
func (g *Graph) AllTerminal() bool {
	for _, t := range g.tasks {
		if !t.Status.IsTerminal() {
			return false
		}
	}
	return true
}

// AllCompleted reports whether every task completed successfully.
func (g *Graph) AllCompleted() bool {
	for _, t := range g.tasks {
		if t.Status != types.TaskStatusCompleted {
			return false
		}
	}
	return true
}

// Stuck reports the deadlock condition: no task is ready or running while
// non-terminal tasks remain. This is the only cycle detection the scheduler
// performs; cycles and permanently blocked dependents both surface here.
func (g *Graph) Stuck() bool {
	if g.AllTerminal() {
		return false
	}
	if g.RunningCount() > 0 {
		return false
	}
	return len(g.ComputeReady(false, 0)) == 0
}
