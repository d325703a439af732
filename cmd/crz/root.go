package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/crznodes/crz"
	"github.com/crznodes/crz/prefs"
)

// app holds the persistent flag values shared by every subcommand.
type app struct {
	verbose    bool
	output     string
	inputDir   string
	prefsPath  string
	noBlocking bool

	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "crz",
		Short: "CRZ node pack runner",
		Long: `crz lists the CRZ node types, runs node graphs described in YAML
and manages the pack's preference file.

Graphs use the same node identifiers the host registers, so a workflow
can be tried outside the host:

  crz nodes
  crz nodes info CRZMapDropdown
  crz run threshold.yaml --outputs`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&a.output, "output", "o", textFormat, "Output format (text, json, yaml)")
	rootCmd.PersistentFlags().StringVar(&a.inputDir, "input-dir", "input", "Directory image file names are resolved against")
	rootCmd.PersistentFlags().StringVar(&a.prefsPath, "prefs", prefs.FileName, "Path to the preference file")
	rootCmd.PersistentFlags().BoolVar(&a.noBlocking, "no-blocking", false, "Emit empty values instead of blocking skipped branches")

	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(
		newNodesCmd(a),
		newRunCmd(a),
		newExampleCmd(),
		newPrefsCmd(a),
		newVersionCmd(a),
	)

	return rootCmd
}

// setup validates the shared flags and builds the logger.
func (a *app) setup() error {
	switch a.output {
	case textFormat, jsonFormat, yamlFormat:
	default:
		return fmt.Errorf("unknown output format %q", a.output)
	}

	config := zap.NewProductionConfig()
	if a.verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	} else {
		config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	}
	logger, err := config.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	a.logger = logger
	return nil
}

// log returns the zap logger, or a no-op one before setup ran.
func (a *app) log() *zap.Logger {
	if a.logger == nil {
		return zap.NewNop()
	}
	return a.logger
}

// openPrefs opens the preference file named by --prefs.
func (a *app) openPrefs() (*prefs.Store, error) {
	path, err := expandPath(a.prefsPath)
	if err != nil {
		return nil, err
	}
	return prefs.Open(path, prefs.WithLogger(crz.NewZapLogger(a.log()))), nil
}

// newHost builds the integration context graphs run against.
func (a *app) newHost(logger *zap.Logger) (*crz.Host, error) {
	dir, err := expandPath(a.inputDir)
	if err != nil {
		return nil, err
	}
	store, err := a.openPrefs()
	if err != nil {
		return nil, err
	}

	opts := []crz.HostOption{
		crz.WithInputDir(dir),
		crz.WithPreferences(store),
		crz.WithHostLogger(crz.NewZapLogger(logger)),
	}
	if a.noBlocking {
		opts = append(opts, crz.WithoutBlocking())
	}
	return crz.NewHost(opts...), nil
}
