package workflow

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestrelworks/taskweave/types"
)

func constAgent(result any) types.Agent {
	return types.AgentFunc(func(ctx context.Context, description string, tc types.TaskContext) (any, error) {
		return result, nil
	})
}

func TestRegistryRegisterAndLookup(t *testing.T) {
	r := NewRegistry()

	_, ok := r.Lookup("db")
	assert.False(t, ok)

	r.Register("db", constAgent("first"))
	agent, ok := r.Lookup("db")
	require.True(t, ok)

	result, err := agent.Execute(context.Background(), "", types.TaskContext{})
	require.NoError(t, err)
	assert.Equal(t, "first", result)
}

func TestRegistryOverwrite(t *testing.T) {
	r := NewRegistry()
	r.Register("db", constAgent("first"))
	r.Register("db", constAgent("second"))

	agent, ok := r.Lookup("db")
	require.True(t, ok)
	result, _ := agent.Execute(context.Background(), "", types.TaskContext{})
	assert.Equal(t, "second", result)
}

func TestRegistryTypes(t *testing.T) {
	r := NewRegistry()
	r.Register("db", constAgent(nil))
	r.Register("crm", constAgent(nil))
	assert.ElementsMatch(t, []string{"db", "crm"}, r.Types())
}
