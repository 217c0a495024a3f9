package workflow

import (
	"sync"

	"github.com/kestrelworks/taskweave/types"
)

// Registry maps agent-type strings to invocable agents. Register before
// Execute is called; tasks whose type has no entry fail each attempt with
// an AGENT_NOT_REGISTERED error and still consume a retry.
type Registry struct {
	agents map[string]types.Agent
	mu     sync.RWMutex
}

// NewRegistry creates an empty agent registry.
func NewRegistry() *Registry {
	return &Registry{agents: make(map[string]types.Agent)}
}

// Register stores an agent under the given type, overwriting any previous
// registration.
func (r *Registry) Register(agentType string, agent types.Agent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.agents[agentType] = agent
}

// Lookup retrieves the agent registered for the given type.
func (r *Registry) Lookup(agentType string) (types.Agent, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	agent, ok := r.agents[agentType]
	return agent, ok
}

// Types returns the registered agent types.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.agents))
	for t := range r.agents {
		out = append(out, t)
	}
	return out
}
