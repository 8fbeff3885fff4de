package cmd

import (
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/harrison/filetrigger/internal/history"
)

// NewHistoryCommand creates and returns the history subcommand
func NewHistoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded search outcomes, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			limit, _ := cmd.Flags().GetInt("limit")
			return runHistory(cmd, a, limit, cmd.OutOrStdout())
		},
		SilenceUsage: true,
	}

	cmd.Flags().Int("limit", 20, "maximum number of entries to show")

	return cmd
}

// runHistory prints recent history entries in a fixed-width layout.
func runHistory(cmd *cobra.Command, a *app, limit int, out io.Writer) error {
	store, err := history.NewStore(filepath.Join(a.cfg.StateDir, "history.db"))
	if err != nil {
		return fmt.Errorf("failed to open history database: %w", err)
	}
	defer store.Close()

	entries, err := store.Recent(cmd.Context(), limit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(out, "no recorded searches")
		return nil
	}

	for _, e := range entries {
		nodeName := e.Node
		if nodeName == "" {
			nodeName = "local"
		}
		fmt.Fprintf(out, "%s  %-7s  %3d file(s)  %s  %s  %s\n",
			e.PerformedAt.Local().Format(time.DateTime),
			e.Status, e.FileCount, nodeName, e.Directory, e.Message)
	}
	return nil
}
