package workflow

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/kestrelworks/taskweave/types"
)

// runRound executes one round of selected tasks. Sequential mode runs each
// task to completion before starting the next, in selection order. Parallel
// mode dispatches the whole batch and waits for all of it to settle; a slot
// freed by an early finisher is not reused within the round.
func (o *Orchestrator) runRound(ctx context.Context, ready []*types.Task) {
	if len(ready) == 0 {
		return
	}

	o.logger.Debug("starting round",
		zap.Int("tasks", len(ready)),
		zap.Bool("parallel", o.config.ParallelExecution),
	)

	if !o.config.ParallelExecution {
		for _, task := range ready {
			o.runTask(ctx, task)
		}
		return
	}

	bound := o.config.MaxParallelTasks
	if bound <= 0 {
		bound = len(ready)
	}
	sem := semaphore.NewWeighted(int64(bound))

	var wg sync.WaitGroup
	for _, task := range ready {
		wg.Add(1)
		go func(task *types.Task) {
			defer wg.Done()
			if err := sem.Acquire(ctx, 1); err != nil {
				// Round interrupted by cancellation; the task was
				// never dispatched.
				o.mu.Lock()
				task.Status = types.TaskStatusPending
				o.mu.Unlock()
				return
			}
			defer sem.Release(1)
			o.runTask(ctx, task)
		}(task)
	}
	wg.Wait()
}

// runTask performs one execution attempt for a task: mark running, resolve
// the agent, build the dependency context, invoke, then settle the outcome.
// On a retryable failure the task reverts to pending and this unit of work
// sleeps out the backoff before returning, so the round absorbs the delay.
func (o *Orchestrator) runTask(ctx context.Context, task *types.Task) {
	started := time.Now()

	o.mu.Lock()
	task.Status = types.TaskStatusRunning
	task.StartTime = &started
	tc := types.TaskContext{
		TaskID:       task.ID,
		WorkflowID:   o.config.WorkflowID,
		Dependencies: make(map[string]any, len(task.Dependencies)),
	}
	for _, dep := range task.Dependencies {
		if depTask, ok := o.graph.Task(dep); ok && depTask.Status == types.TaskStatusCompleted {
			tc.Dependencies[dep] = depTask.Result
		}
	}
	o.mu.Unlock()

	o.metrics.TaskStarted()
	defer o.metrics.TaskFinished()

	var result any
	var err error
	if agent, ok := o.registry.Lookup(task.AgentType); ok {
		result, err = agent.Execute(ctx, task.Description, tc)
		if err != nil {
			err = types.NewError(types.ErrAgentExecution,
				fmt.Sprintf("agent %s failed for task %s", task.AgentType, task.ID)).WithCause(err)
		}
	} else {
		err = types.NewError(types.ErrAgentNotRegistered,
			fmt.Sprintf("no agent registered for type %s", task.AgentType))
	}
	duration := time.Since(started)

	if err == nil {
		end := time.Now()
		o.mu.Lock()
		task.Result = result
		task.Status = types.TaskStatusCompleted
		task.EndTime = &end
		task.Error = ""
		o.completedIDs = append(o.completedIDs, task.ID)
		o.results[task.ID] = result
		o.mu.Unlock()

		o.metrics.RecordTaskExecution(task.AgentType, string(types.TaskStatusCompleted), duration)
		o.logger.Debug("task completed",
			zap.String("task_id", task.ID),
			zap.Duration("duration", duration),
		)
		return
	}

	o.mu.Lock()
	task.Error = err.Error()
	if task.RetryCount < task.MaxRetries {
		task.RetryCount++
		task.Status = types.TaskStatusPending
		retryCount := task.RetryCount
		o.mu.Unlock()

		o.metrics.RecordRetry(task.AgentType)
		o.metrics.RecordTaskExecution(task.AgentType, "retried", duration)
		delay := o.backoff.Delay(retryCount)
		o.logger.Warn("task failed, scheduling retry",
			zap.String("task_id", task.ID),
			zap.Int("retry_count", retryCount),
			zap.Int("max_retries", task.MaxRetries),
			zap.Duration("backoff", delay),
			zap.Error(err),
		)
		sleepContext(ctx, delay)
		return
	}

	end := time.Now()
	task.Status = types.TaskStatusFailed
	task.EndTime = &end
	o.failedIDs = append(o.failedIDs, task.ID)
	o.mu.Unlock()

	o.metrics.RecordTaskExecution(task.AgentType, string(types.TaskStatusFailed), duration)
	o.logger.Error("task failed permanently",
		zap.String("task_id", task.ID),
		zap.Int("retry_count", task.RetryCount),
		zap.Error(err),
	)
}

// sleepContext blocks for d or until the context is cancelled.
func sleepContext(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}

// stringifyResult renders a task result for the checkpoint's lossy results
// map.
func stringifyResult(v any) string {
	return fmt.Sprintf("%v", v)
}
