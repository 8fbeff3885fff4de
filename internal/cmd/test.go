package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harrison/filetrigger/internal/search"
)

// NewTestCommand creates and returns the test subcommand
func NewTestCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "test [search-name]",
		Short: "Test a search configuration and report a verdict",
		Long: `Test runs a search once and reports a classified verdict instead of a
file list:

  OK       one or more files matched (the message carries the count)
  WARNING  an expected transient state: the directory does not exist yet,
           or nothing matched
  ERROR    a real failure: unknown node, unreachable node, bad pattern

Exit code: 0 for OK and WARNING, 1 for ERROR`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			return runTest(cmd, a, args, cmd.OutOrStdout())
		},
		SilenceUsage: true,
	}

	searchFlags(cmd)

	return cmd
}

// runTest executes the interactive test path and renders the verdict.
func runTest(cmd *cobra.Command, a *app, names []string, out io.Writer) error {
	configs, err := gatherConfigs(cmd, a, names)
	if err != nil {
		return err
	}

	verdict := a.searcher.TestConfiguration(cmd.Context(), configs[0])
	fmt.Fprintf(out, "%s: %s\n", statusTag(verdict.Status), verdict.Message)

	if verdict.Status == search.StatusError {
		return errors.New("configuration test failed")
	}
	return nil
}

// statusTag renders the verdict status, colorized for terminals.
func statusTag(status search.Status) string {
	switch status {
	case search.StatusOK:
		return color.New(color.FgGreen).Sprint(string(status))
	case search.StatusWarning:
		return color.New(color.FgYellow).Sprint(string(status))
	default:
		return color.New(color.FgRed).Sprint(string(status))
	}
}
