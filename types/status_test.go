package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTaskStatusIsTerminal(t *testing.T) {
	terminal := []TaskStatus{TaskStatusCompleted, TaskStatusFailed, TaskStatusSkipped}
	for _, s := range terminal {
		assert.True(t, s.IsTerminal(), "status %s should be terminal", s)
	}

	nonTerminal := []TaskStatus{TaskStatusPending, TaskStatusReady, TaskStatusRunning}
	for _, s := range nonTerminal {
		assert.False(t, s.IsTerminal(), "status %s should not be terminal", s)
	}
}

func TestWorkflowStateIsTerminal(t *testing.T) {
	assert.True(t, WorkflowStateCompleted.IsTerminal())
	assert.True(t, WorkflowStateFailed.IsTerminal())
	assert.False(t, WorkflowStateCreated.IsTerminal())
	assert.False(t, WorkflowStateRunning.IsTerminal())
	assert.False(t, WorkflowStatePaused.IsTerminal())
}
