// taskweave runs declarative workflow definitions against built-in agents.
//
// Usage:
//
//	taskweave run -config workflow.yaml   # execute a workflow definition
//	taskweave version                     # show version information
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/kestrelworks/taskweave/config"
	"github.com/kestrelworks/taskweave/workflow"
)

var version = "dev"

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "run":
		if err := runCommand(os.Args[2:]); err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			os.Exit(1)
		}
	case "version":
		fmt.Printf("taskweave %s\n", version)
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: taskweave <run|version> [flags]")
}

func runCommand(args []string) error {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	configPath := fs.String("config", "workflow.yaml", "path to the workflow definition file")
	verbose := fs.Bool("verbose", false, "enable debug logging")
	if err := fs.Parse(args); err != nil {
		return err
	}

	logger, err := newLogger(*verbose)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	orch, err := workflow.NewOrchestrator(cfg, workflow.WithLogger(logger))
	if err != nil {
		return err
	}
	registerBuiltinAgents(orch)

	ctx := context.Background()
	report, err := orch.Execute(ctx)
	if err != nil {
		return err
	}
	if closeErr := orch.Close(ctx); closeErr != nil {
		logger.Warn("close failed", zap.Error(closeErr))
	}

	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))

	if report.FailedCount > 0 {
		return fmt.Errorf("workflow %s finished with %d failed task(s)", report.WorkflowID, report.FailedCount)
	}
	return nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	return cfg.Build()
}
