package cmd

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/harrison/filetrigger/internal/config"
	"github.com/harrison/filetrigger/internal/history"
	"github.com/harrison/filetrigger/internal/search"
)

// NewFindCommand creates and returns the find subcommand
func NewFindCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "find [search-name...]",
		Short: "Run the trigger-polling search and print the matched files",
		Long: `Find runs one or more file searches and prints the matched relative
paths, one per line. This is the trigger-polling path: it never fails on a
search problem. Missing directories, empty matches, unknown or offline
nodes all degrade to no output, with the reason logged to stderr.

With no arguments the search is built from the --node, --directory,
--files and --ignored-files flags. With arguments, each name refers to a
search declared in the configuration file; the searches run concurrently
and their results print in argument order.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			record, _ := cmd.Flags().GetBool("record")
			return runFind(cmd, a, args, record, cmd.OutOrStdout())
		},
		SilenceUsage: true,
	}

	searchFlags(cmd)
	cmd.Flags().Bool("record", false, "record each search outcome in the history database")

	return cmd
}

// runFind executes the trigger-polling path for the gathered
// configurations. Only configuration problems (an unknown search name, a
// broken history database) surface as errors; search failures never do.
func runFind(cmd *cobra.Command, a *app, names []string, record bool, out io.Writer) error {
	configs, err := gatherConfigs(cmd, a, names)
	if err != nil {
		return err
	}

	results := a.searcher.PollAll(cmd.Context(), configs)

	if record {
		if err := recordResults(cmd, a, configs, results); err != nil {
			return err
		}
	}

	for _, result := range results {
		for _, file := range result.Files {
			fmt.Fprintln(out, file)
		}
	}
	return nil
}

// recordResults stores one history row per performed search.
func recordResults(cmd *cobra.Command, a *app, configs []config.SearchConfig, results []search.Result) error {
	store, err := history.NewStore(filepath.Join(a.cfg.StateDir, "history.db"))
	if err != nil {
		return fmt.Errorf("failed to open history database: %w", err)
	}
	defer store.Close()

	for i, result := range results {
		if _, err := store.Record(cmd.Context(), configs[i], result); err != nil {
			return fmt.Errorf("failed to record search outcome: %w", err)
		}
	}
	return nil
}
