package config

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/kestrelworks/taskweave/types"
)

// TaskDefinition is the file-level shape of one task. An omitted or zero
// max_retries gets types.DefaultMaxRetries.
type TaskDefinition struct {
	ID           string   `yaml:"id" json:"id"`
	Description  string   `yaml:"description" json:"description"`
	AgentType    string   `yaml:"agent_type" json:"agent_type"`
	Dependencies []string `yaml:"dependencies" json:"dependencies"`
	Priority     int      `yaml:"priority" json:"priority"`
	MaxRetries   int      `yaml:"max_retries" json:"max_retries"`
}

// WorkflowDefinition is the file-level shape of a workflow.
type WorkflowDefinition struct {
	WorkflowID        string           `yaml:"workflow_id" json:"workflow_id"`
	Name              string           `yaml:"name" json:"name"`
	ParallelExecution bool             `yaml:"parallel_execution" json:"parallel_execution"`
	MaxParallelTasks  int              `yaml:"max_parallel_tasks" json:"max_parallel_tasks"`
	CheckpointEnabled bool             `yaml:"checkpoint_enabled" json:"checkpoint_enabled"`
	CheckpointPath    string           `yaml:"checkpoint_path" json:"checkpoint_path"`
	StatePersistence  bool             `yaml:"state_persistence" json:"state_persistence"`
	Tasks             []TaskDefinition `yaml:"tasks" json:"tasks"`
}

// DefaultMaxParallelTasks applies when parallel execution is enabled
// without an explicit bound.
const DefaultMaxParallelTasks = 4

// Load reads a workflow definition file (YAML, or JSON since YAML is a
// superset), applies defaults, and validates it.
func Load(path string) (types.WorkflowConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.WorkflowConfig{}, fmt.Errorf("failed to read workflow definition: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a workflow definition from raw bytes.
func Parse(data []byte) (types.WorkflowConfig, error) {
	var def WorkflowDefinition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return types.WorkflowConfig{}, types.NewError(types.ErrInvalidConfig,
			"workflow definition does not parse").WithCause(err)
	}
	applyDefaults(&def)
	if err := Validate(&def); err != nil {
		return types.WorkflowConfig{}, err
	}
	return toWorkflowConfig(&def), nil
}

func applyDefaults(def *WorkflowDefinition) {
	if def.WorkflowID == "" {
		def.WorkflowID = uuid.New().String()
	}
	if def.Name == "" {
		def.Name = def.WorkflowID
	}
	if def.ParallelExecution && def.MaxParallelTasks <= 0 {
		def.MaxParallelTasks = DefaultMaxParallelTasks
	}
	for i := range def.Tasks {
		if def.Tasks[i].MaxRetries <= 0 {
			def.Tasks[i].MaxRetries = types.DefaultMaxRetries
		}
	}
}

// Validate checks a definition for structural problems: empty or duplicate
// task ids, missing agent types, self-dependencies, and references to
// undeclared tasks. Cycles are not detected here; the scheduler surfaces
// them as a stuck workflow at runtime.
func Validate(def *WorkflowDefinition) error {
	if len(def.Tasks) == 0 {
		return types.NewError(types.ErrInvalidConfig, "workflow has no tasks")
	}

	seen := make(map[string]bool, len(def.Tasks))
	for _, t := range def.Tasks {
		if t.ID == "" {
			return types.NewError(types.ErrInvalidConfig, "task with empty id")
		}
		if seen[t.ID] {
			return types.NewError(types.ErrInvalidConfig, fmt.Sprintf("duplicate task id: %s", t.ID))
		}
		seen[t.ID] = true
		if t.AgentType == "" {
			return types.NewError(types.ErrInvalidConfig, fmt.Sprintf("task %s has no agent_type", t.ID))
		}
	}

	for _, t := range def.Tasks {
		for _, dep := range t.Dependencies {
			if dep == t.ID {
				return types.NewError(types.ErrInvalidConfig, fmt.Sprintf("task %s depends on itself", t.ID))
			}
			if !seen[dep] {
				return types.NewError(types.ErrInvalidConfig,
					fmt.Sprintf("task %s depends on unknown task %s", t.ID, dep))
			}
		}
	}

	if def.CheckpointEnabled && def.CheckpointPath == "" {
		return types.NewError(types.ErrInvalidConfig, "checkpoint_enabled requires checkpoint_path")
	}
	return nil
}

func toWorkflowConfig(def *WorkflowDefinition) types.WorkflowConfig {
	cfg := types.WorkflowConfig{
		WorkflowID:        def.WorkflowID,
		Name:              def.Name,
		ParallelExecution: def.ParallelExecution,
		MaxParallelTasks:  def.MaxParallelTasks,
		CheckpointEnabled: def.CheckpointEnabled,
		CheckpointPath:    def.CheckpointPath,
		StatePersistence:  def.StatePersistence,
	}
	for _, td := range def.Tasks {
		cfg.Tasks = append(cfg.Tasks, types.Task{
			ID:           td.ID,
			Description:  td.Description,
			AgentType:    td.AgentType,
			Dependencies: append([]string(nil), td.Dependencies...),
			Priority:     td.Priority,
			Status:       types.TaskStatusPending,
			MaxRetries:   td.MaxRetries,
		})
	}
	return cfg
}
