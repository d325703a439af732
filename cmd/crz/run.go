package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ohler55/ojg/oj"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/crznodes/crz"
	"github.com/crznodes/crz/builtin"
	"github.com/crznodes/crz/middleware"
	"github.com/crznodes/crz/yaml"
)

// runConfig holds configuration for the run command.
type runConfig struct {
	FilePath    string
	Input       string
	DryRun      bool
	ShowOutputs bool
	Trace       bool
}

func newRunCmd(a *app) *cobra.Command {
	config := &runConfig{}

	runCmd := &cobra.Command{
		Use:   "run <graph.yaml>",
		Short: "Run a node graph",
		Long: `Load a node graph from a YAML file and run it from its start node.

Node inputs are literals or links of the form "@node.slot" to the output
of a node that ran earlier. The value each node forwards flows into the
first required input of the next node.`,
		Example: `  # Run a graph and print the last forwarded value
  crz run threshold.yaml

  # Validate without running
  crz run threshold.yaml --dry-run

  # Seed the start node and show every stored output
  crz run threshold.yaml --input 0.3 --outputs`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			config.FilePath = args[0]
			return runGraph(cmd.Context(), cmd.OutOrStdout(), a, config)
		},
	}

	runCmd.Flags().StringVar(&config.Input, "input", "", "Value flowing into the start node (JSON, else a string)")
	runCmd.Flags().BoolVar(&config.DryRun, "dry-run", false, "Load and validate the graph without running it")
	runCmd.Flags().BoolVar(&config.ShowOutputs, "outputs", false, "Print every stored node output")
	runCmd.Flags().BoolVar(&config.Trace, "trace", false, "Log each node step and print per-node timings")

	return runCmd
}

// parseValue reads a command line value as JSON, falling back to the raw
// string when it does not parse.
func parseValue(s string) any {
	if s == "" {
		return nil
	}
	v, err := oj.ParseString(s)
	if err != nil {
		return s
	}
	return v
}

func runGraph(ctx context.Context, w io.Writer, a *app, config *runConfig) error {
	if ctx == nil {
		ctx = context.Background()
	}
	filePath, err := expandPath(config.FilePath)
	if err != nil {
		return fmt.Errorf("expand path: %w", err)
	}
	if _, err := os.Stat(filePath); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("file not found: %s", config.FilePath)
		}
		return fmt.Errorf("access file: %w", err)
	}

	runID := uuid.New().String()
	logger := a.log().With(zap.String("run_id", runID), zap.String("file", filePath))

	host, err := a.newHost(logger)
	if err != nil {
		return err
	}

	loader := yaml.NewLoader()
	builtin.RegisterAll(loader)

	var timings *middleware.Timings
	if config.Trace {
		timings = middleware.NewTimings()
		loader.Use(middleware.Timing(timings), middleware.Logging(host.Log()))
	}

	store := crz.NewStore()
	graph, err := loader.LoadFile(filePath, store, host)
	if err != nil {
		return fmt.Errorf("load graph: %w", err)
	}
	logger.Debug("graph loaded", zap.String("graph", graph.Name()))

	if config.DryRun {
		fmt.Fprintln(w, "Graph validation successful (dry run)")
		return nil
	}

	start := time.Now()
	result, err := graph.Run(ctx, parseValue(config.Input))
	if err != nil {
		logger.Error("graph failed", zap.Error(err))
		return fmt.Errorf("graph execution failed: %w", err)
	}
	duration := time.Since(start)
	logger.Info("graph completed", zap.Duration("duration", duration))

	var outputs map[string]any
	if config.ShowOutputs {
		outputs = storedOutputs(ctx, store)
	}

	if a.output != textFormat {
		report := map[string]any{
			"runId":    runID,
			"graph":    graph.Name(),
			"result":   plain(result),
			"duration": duration.String(),
		}
		if outputs != nil {
			report["outputs"] = outputs
		}
		if timings != nil {
			report["timings"] = timingList(timings)
		}
		return writeStructured(w, a.output, report)
	}

	fmt.Fprintln(w, describe(result))
	if outputs != nil {
		keys := make([]string, 0, len(outputs))
		for k := range outputs {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		fmt.Fprintln(w, "\nOutputs:")
		for _, k := range keys {
			fmt.Fprintf(w, "  %-28s %v\n", k, outputs[k])
		}
	}
	if timings != nil {
		fmt.Fprintln(w, "\nTimings:")
		for _, nt := range timings.Snapshot() {
			fmt.Fprintf(w, "  %-20s %d run(s) %v\n", nt.Node, nt.Runs, nt.Total)
		}
	}
	return nil
}

func timingList(timings *middleware.Timings) []any {
	snapshot := timings.Snapshot()
	list := make([]any, len(snapshot))
	for i, nt := range snapshot {
		list[i] = map[string]any{
			"node":    nt.Node,
			"runs":    nt.Runs,
			"total":   nt.Total.String(),
			"lastRun": nt.Last.String(),
		}
	}
	return list
}

// storedOutputs collects the output slots a run left in the store, keyed
// "node:slot". Named slots appear under both their index and their name.
func storedOutputs(ctx context.Context, store crz.Store) map[string]any {
	outputs := make(map[string]any)
	for _, key := range store.Keys(ctx) {
		if !strings.HasPrefix(key, "out:") {
			continue
		}
		v, ok := store.Get(ctx, key)
		if !ok {
			continue
		}
		outputs[strings.TrimPrefix(key, "out:")] = plain(v)
	}
	return outputs
}

func newExampleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "example",
		Short: "Print an example graph",
		Long:  `Print a small graph that gates a slider value on a threshold.`,
		Example: `  crz example > threshold.yaml
  crz run threshold.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := io.WriteString(cmd.OutOrStdout(), yaml.Example())
			return err
		},
	}
}
