package types

// WorkflowConfig declares one workflow: its identity, tasks, execution mode,
// and checkpoint policy. It is immutable for the life of one orchestrator
// instance; task order in Tasks is the registration order used to break
// priority ties.
type WorkflowConfig struct {
	WorkflowID        string `json:"workflow_id" yaml:"workflow_id"`
	Name              string `json:"name" yaml:"name"`
	Tasks             []Task `json:"tasks" yaml:"tasks"`
	ParallelExecution bool   `json:"parallel_execution" yaml:"parallel_execution"`
	MaxParallelTasks  int    `json:"max_parallel_tasks" yaml:"max_parallel_tasks"`
	CheckpointEnabled bool   `json:"checkpoint_enabled" yaml:"checkpoint_enabled"`
	CheckpointPath    string `json:"checkpoint_path" yaml:"checkpoint_path"`
	StatePersistence  bool   `json:"state_persistence" yaml:"state_persistence"`
}
