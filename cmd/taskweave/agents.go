package main

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/kestrelworks/taskweave/types"
	"github.com/kestrelworks/taskweave/workflow"
)

// registerBuiltinAgents installs the agents available to file-defined
// workflows.
//
//	shell  runs the task description as a shell command, result is stdout
//	echo   returns the task description unchanged (useful for dry runs)
func registerBuiltinAgents(orch *workflow.Orchestrator) {
	orch.RegisterAgent("shell", types.AgentFunc(shellAgent))
	orch.RegisterAgent("echo", types.AgentFunc(echoAgent))
}

func shellAgent(ctx context.Context, description string, tc types.TaskContext) (any, error) {
	cmd := exec.CommandContext(ctx, "sh", "-c", description)
	out, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return nil, fmt.Errorf("command exited %d: %s", exitErr.ExitCode(), strings.TrimSpace(string(exitErr.Stderr)))
		}
		return nil, err
	}
	return strings.TrimSpace(string(out)), nil
}

func echoAgent(ctx context.Context, description string, tc types.TaskContext) (any, error) {
	return description, nil
}
