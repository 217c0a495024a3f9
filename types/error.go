package types

import "fmt"

// ErrorCode represents a unified error code across the orchestrator.
type ErrorCode string

const (
	// ErrAgentNotRegistered means a task's agent type has no registry entry.
	ErrAgentNotRegistered ErrorCode = "AGENT_NOT_REGISTERED"
	// ErrAgentExecution wraps any error returned by an agent call.
	ErrAgentExecution ErrorCode = "AGENT_EXECUTION"
	// ErrCheckpointIO means a checkpoint save or load failed.
	ErrCheckpointIO ErrorCode = "CHECKPOINT_IO"
	// ErrWorkflowStuck means no task is ready or running while
	// non-terminal tasks remain.
	ErrWorkflowStuck ErrorCode = "WORKFLOW_STUCK"
	// ErrInvalidConfig means a workflow definition failed validation.
	ErrInvalidConfig ErrorCode = "INVALID_CONFIG"
)

// Error is a structured error with code, message, and optional cause.
type Error struct {
	Code      ErrorCode `json:"code"`
	Message   string    `json:"message"`
	Retryable bool      `json:"retryable"`
	Cause     error     `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError creates a new Error with the given code and message.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WithCause adds a cause to the error.
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// WithRetryable marks the error as retryable.
func (e *Error) WithRetryable(retryable bool) *Error {
	e.Retryable = retryable
	return e
}

// GetErrorCode extracts the error code from an error.
func GetErrorCode(err error) ErrorCode {
	if e, ok := err.(*Error); ok {
		return e.Code
	}
	return ""
}
