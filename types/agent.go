package types

import "context"

// Agent performs the actual work for one task type. Implementations are
// opaque to the orchestrator: they may block, perform I/O, or fan out
// internally, but must eventually return a result or an error.
type Agent interface {
	Execute(ctx context.Context, description string, tc TaskContext) (any, error)
}

// AgentFunc adapts a plain function to the Agent interface.
type AgentFunc func(ctx context.Context, description string, tc TaskContext) (any, error)

func (f AgentFunc) Execute(ctx context.Context, description string, tc TaskContext) (any, error) {
	return f(ctx, description, tc)
}
