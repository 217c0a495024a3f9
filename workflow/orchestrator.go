package workflow

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kestrelworks/taskweave/internal/metrics"
	"github.com/kestrelworks/taskweave/types"
)

// Orchestrator drives one workflow run: it selects rounds of ready tasks,
// executes them through registered agents, retries failures, checkpoints
// state after every round, and assembles the final report.
//
// An Orchestrator is created fresh per run and owns its task map, aggregate
// id lists, and results map exclusively until Close. GetStatus may be called
// concurrently with an in-progress Execute.
type Orchestrator struct {
	config   types.WorkflowConfig
	graph    *Graph
	registry *Registry
	store    CheckpointStore
	backoff  BackoffPolicy
	metrics  *metrics.Collector
	logger   *zap.Logger

	// mu guards state, the graph's tasks, and the shared aggregates
	// written by concurrently-running tasks in a parallel round.
	mu           sync.RWMutex
	state        types.WorkflowState
	completedIDs []string
	failedIDs    []string
	results      map[string]any
	closed       bool
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the logger. Defaults to a nop logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *Orchestrator) { o.logger = logger }
}

// WithCheckpointStore overrides the checkpoint store. Without this option a
// file store at the configured checkpoint path is used when checkpointing
// is enabled.
func WithCheckpointStore(store CheckpointStore) Option {
	return func(o *Orchestrator) { o.store = store }
}

// WithMetrics attaches a metrics collector.
func WithMetrics(collector *metrics.Collector) Option {
	return func(o *Orchestrator) { o.metrics = collector }
}

// WithBackoff overrides the retry backoff policy. Defaults to
// ExponentialBackoff.
func WithBackoff(policy BackoffPolicy) Option {
	return func(o *Orchestrator) { o.backoff = policy }
}

// NewOrchestrator validates the workflow configuration and builds an
// orchestrator in the Created state. Agents must be registered before
// Execute is called.
func NewOrchestrator(cfg types.WorkflowConfig, opts ...Option) (*Orchestrator, error) {
	graph, err := NewGraph(cfg.Tasks)
	if err != nil {
		return nil, err
	}
	if cfg.WorkflowID == "" {
		cfg.WorkflowID = uuid.New().String()
	}

	o := &Orchestrator{
		config:   cfg,
		graph:    graph,
		registry: NewRegistry(),
		backoff:  ExponentialBackoff{},
		state:    types.WorkflowStateCreated,
		results:  make(map[string]any),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	o.logger = o.logger.With(
		zap.String("component", "orchestrator"),
		zap.String("workflow_id", cfg.WorkflowID),
	)
	if o.store == nil && cfg.CheckpointEnabled && cfg.CheckpointPath != "" {
		o.store = NewFileCheckpointStore(cfg.CheckpointPath)
	}
	return o, nil
}

// RegisterAgent registers an agent for the given task type, overwriting any
// previous registration.
func (o *Orchestrator) RegisterAgent(agentType string, agent types.Agent) {
	o.registry.Register(agentType, agent)
}

// Execute runs scheduler rounds until every task is terminal, the graph is
// stuck, or the run is paused. Expected failures (agent errors, stuck
// graphs, checkpoint I/O) never surface as a returned error; callers
// inspect the report's State and FailedCount instead. The returned error is
// non-nil only for context cancellation or programming errors.
func (o *Orchestrator) Execute(ctx context.Context) (*Report, error) {
	defer func() {
		if r := recover(); r != nil {
			o.mu.Lock()
			o.state = types.WorkflowStateFailed
			o.mu.Unlock()
			panic(r)
		}
	}()

	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return nil, types.NewError(types.ErrInvalidConfig, "orchestrator is closed")
	}
	fresh := o.state == types.WorkflowStateCreated
	o.mu.Unlock()

	if fresh && o.config.StatePersistence && o.store != nil {
		o.loadCheckpoint(ctx)
	}

	o.mu.Lock()
	o.state = types.WorkflowStateRunning
	o.mu.Unlock()

	o.logger.Info("workflow execution started",
		zap.Int("total_tasks", o.graph.Len()),
		zap.Bool("parallel", o.config.ParallelExecution),
	)

	for {
		if err := ctx.Err(); err != nil {
			o.mu.Lock()
			o.state = types.WorkflowStateFailed
			o.mu.Unlock()
			o.saveCheckpoint(context.WithoutCancel(ctx), false)
			return o.buildReport(), err
		}

		o.mu.Lock()
		if o.state == types.WorkflowStatePaused {
			o.mu.Unlock()
			o.logger.Info("workflow paused between rounds")
			return o.buildReport(), nil
		}
		if o.graph.AllTerminal() {
			o.mu.Unlock()
			break
		}
		ready := o.graph.ComputeReady(o.config.ParallelExecution, o.config.MaxParallelTasks)
		if len(ready) == 0 && o.graph.RunningCount() == 0 {
			o.state = types.WorkflowStateFailed
			o.mu.Unlock()
			o.logger.Error("workflow stuck: no ready or running tasks while non-terminal tasks remain",
				zap.String("code", string(types.ErrWorkflowStuck)))
			o.saveCheckpoint(ctx, false)
			return o.buildReport(), nil
		}
		for _, task := range ready {
			task.Status = types.TaskStatusReady
		}
		o.mu.Unlock()

		o.runRound(ctx, ready)
		o.metrics.RecordRound()
		o.saveCheckpoint(ctx, false)
	}

	o.mu.Lock()
	if o.graph.AllCompleted() {
		o.state = types.WorkflowStateCompleted
	} else {
		o.state = types.WorkflowStateFailed
	}
	state := o.state
	o.mu.Unlock()

	o.saveCheckpoint(ctx, false)
	o.logger.Info("workflow execution finished", zap.String("state", string(state)))
	return o.buildReport(), nil
}

// Pause requests a cooperative pause and forces a checkpoint save. It takes
// effect between rounds and never interrupts an in-flight round; the caller
// resumes by calling Resume and then Execute again.
func (o *Orchestrator) Pause(ctx context.Context) {
	o.mu.Lock()
	if o.state != types.WorkflowStateRunning {
		o.mu.Unlock()
		return
	}
	o.state = types.WorkflowStatePaused
	o.mu.Unlock()

	o.logger.Info("workflow pause requested")
	o.saveCheckpoint(ctx, true)
}

// Resume moves a paused workflow back to Running. The caller must re-invoke
// Execute to continue scheduling.
func (o *Orchestrator) Resume() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state == types.WorkflowStatePaused {
		o.state = types.WorkflowStateRunning
	}
}

// Close flushes a final checkpoint and releases the orchestrator. Further
// Execute calls fail.
func (o *Orchestrator) Close(ctx context.Context) error {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return nil
	}
	o.closed = true
	o.mu.Unlock()

	if o.store != nil {
		cp := o.buildCheckpoint()
		err := o.store.Save(ctx, cp)
		o.metrics.RecordCheckpoint("save", err)
		if err != nil {
			o.logger.Warn("final checkpoint save failed", zap.Error(err))
			return err
		}
	}
	return nil
}

// State returns the current workflow state.
func (o *Orchestrator) State() types.WorkflowState {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.state
}

// saveCheckpoint persists current state if a store is configured. Failures
// are logged and never fatal. force bypasses the checkpoint_enabled flag
// (used by Pause and Close).
func (o *Orchestrator) saveCheckpoint(ctx context.Context, force bool) {
	if o.store == nil {
		return
	}
	if !force && !o.config.CheckpointEnabled {
		return
	}
	cp := o.buildCheckpoint()
	err := o.store.Save(ctx, cp)
	o.metrics.RecordCheckpoint("save", err)
	if err != nil {
		o.logger.Warn("checkpoint save failed", zap.Error(err))
	}
}

// loadCheckpoint restores control state from the store. Missing or
// unparseable checkpoints are logged and ignored; results are never
// restored (the checkpoint only holds stringified copies). Tasks persisted
// mid-flight (ready or running) revert to pending since nothing is actually
// executing after a restart.
func (o *Orchestrator) loadCheckpoint(ctx context.Context) {
	cp, err := o.store.Load(ctx, o.config.WorkflowID)
	o.metrics.RecordCheckpoint("load", err)
	if err != nil {
		o.logger.Warn("checkpoint load failed, starting fresh", zap.Error(err))
		return
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	o.state = cp.State
	o.completedIDs = append([]string(nil), cp.CompletedTaskIDs...)
	o.failedIDs = append([]string(nil), cp.FailedTaskIDs...)

	restored := 0
	for id, ct := range cp.Tasks {
		task, ok := o.graph.Task(id)
		if !ok {
			continue
		}
		task.Status = ct.Status
		if task.Status == types.TaskStatusReady || task.Status == types.TaskStatusRunning {
			task.Status = types.TaskStatusPending
		}
		task.RetryCount = ct.RetryCount
		task.StartTime = ct.StartTime
		task.EndTime = ct.EndTime
		task.Error = ct.Error
		restored++
	}

	o.logger.Info("checkpoint restored",
		zap.Int("tasks", restored),
		zap.Int("completed", len(o.completedIDs)),
		zap.Int("failed", len(o.failedIDs)),
	)
}

// buildCheckpoint snapshots current control state. Results are stringified;
// the raw values stay in memory only.
func (o *Orchestrator) buildCheckpoint() *Checkpoint {
	o.mu.RLock()
	defer o.mu.RUnlock()

	cp := &Checkpoint{
		SchemaVersion:    CheckpointSchemaVersion,
		WorkflowID:       o.config.WorkflowID,
		State:            o.state,
		Timestamp:        time.Now(),
		Tasks:            make(map[string]CheckpointTask, o.graph.Len()),
		CompletedTaskIDs: append([]string(nil), o.completedIDs...),
		FailedTaskIDs:    append([]string(nil), o.failedIDs...),
		TaskResults:      make(map[string]string, len(o.results)),
	}

	for _, id := range o.graph.TaskIDs() {
		task, _ := o.graph.Task(id)
		ct := CheckpointTask{
			ID:           task.ID,
			Description:  task.Description,
			AgentType:    task.AgentType,
			Dependencies: append([]string(nil), task.Dependencies...),
			Priority:     task.Priority,
			Status:       task.Status,
			Error:        task.Error,
			StartTime:    task.StartTime,
			EndTime:      task.EndTime,
			RetryCount:   task.RetryCount,
			MaxRetries:   task.MaxRetries,
		}
		if task.Result != nil {
			s := stringifyResult(task.Result)
			ct.Result = &s
		}
		cp.Tasks[id] = ct
	}
	for id, res := range o.results {
		cp.TaskResults[id] = stringifyResult(res)
	}
	return cp
}
