package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/crznodes/crz/prefs"
)

func newPrefsCmd(a *app) *cobra.Command {
	prefsCmd := &cobra.Command{
		Use:   "prefs",
		Short: "Read and write pack preferences",
		Long: `Read and write the pack's preference file. A missing or unreadable
file yields the built-in defaults.`,
	}

	getCmd := &cobra.Command{
		Use:   "get <key>",
		Short: "Print one preference",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openPrefs()
			if err != nil {
				return err
			}
			v := store.Get(args[0], nil)
			if v == nil {
				return fmt.Errorf("preference not set: %s", args[0])
			}
			return printPrefs(cmd.OutOrStdout(), a.output, map[string]any{args[0]: v}, []string{args[0]})
		},
	}

	setCmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set one preference and save the file",
		Long: `Set one preference. The value is read as JSON when it parses
(true, 64, 0.5, "text") and kept as a plain string otherwise.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openPrefs()
			if err != nil {
				return err
			}
			store.Set(args[0], parseValue(args[1]))
			// Set logs write failures; report them here as well.
			if err := store.Save(); err != nil {
				return fmt.Errorf("save preferences: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", args[0], describe(store.Get(args[0], nil)))
			return nil
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "Print every preference",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openPrefs()
			if err != nil {
				return err
			}
			return printPrefs(cmd.OutOrStdout(), a.output, store.Snapshot(), store.Keys())
		},
	}

	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "Print preferences each time the file changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openPrefs()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return watchPrefs(ctx, cmd.OutOrStdout(), a.output, store)
		},
	}

	prefsCmd.AddCommand(getCmd, setCmd, listCmd, watchCmd)
	return prefsCmd
}

func printPrefs(w io.Writer, format string, values map[string]any, keys []string) error {
	if format != textFormat {
		return writeStructured(w, format, values)
	}
	for _, k := range keys {
		fmt.Fprintf(w, "%s = %s\n", k, describe(values[k]))
	}
	return nil
}

func watchPrefs(ctx context.Context, w io.Writer, format string, store *prefs.Store) error {
	fmt.Fprintf(w, "Watching %s\n", store.Path())
	return store.Watch(ctx, func() {
		_ = printPrefs(w, format, store.Snapshot(), store.Keys())
	})
}
