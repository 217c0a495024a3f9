// Package types defines the shared data model for taskweave: tasks, their
// status state machines, the agent contract, and the coded error type used
// across the orchestrator.
package types
