// Package config loads declarative workflow definitions from YAML or JSON
// files, applies defaults, and validates them into a types.WorkflowConfig.
package config
