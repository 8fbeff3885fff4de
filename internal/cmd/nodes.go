package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/harrison/filetrigger/internal/config"
)

// NewNodesCommand creates and returns the nodes subcommand
func NewNodesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "nodes",
		Short: "List the execution nodes a search can target",
		Long: `Nodes prints the execution nodes declared in the configuration file.
The local host is always available and is selected by leaving the node
empty or naming it "master".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			return runNodes(a.cfg, cmd.OutOrStdout())
		},
		SilenceUsage: true,
	}

	return cmd
}

// runNodes prints the local host first, then the configured node table.
func runNodes(cfg *config.Config, out io.Writer) error {
	fmt.Fprintln(out, "master (local)")
	for _, n := range cfg.Nodes {
		fmt.Fprintf(out, "%s\t%s\n", n.Name, n.URL)
	}
	return nil
}
