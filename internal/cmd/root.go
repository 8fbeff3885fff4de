// Package cmd wires the filetrigger CLI: the trigger-polling `find` path,
// the interactive `test` path, the node agent, and the supporting
// commands around them.
package cmd

import (
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/harrison/filetrigger/internal/config"
	"github.com/harrison/filetrigger/internal/expand"
	"github.com/harrison/filetrigger/internal/logger"
	"github.com/harrison/filetrigger/internal/node"
	"github.com/harrison/filetrigger/internal/search"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// defaultConfigPath is where the tool configuration is looked up unless
// --config says otherwise.
const defaultConfigPath = "filetrigger.yaml"

// NewRootCommand creates and returns the root cobra command for filetrigger
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "filetrigger",
		Short: "Locate files matching a pattern, locally or on a remote node",
		Long: `Filetrigger searches for files matching ANT-style glob patterns under
a base directory, either on the local host or on a named remote node
running the filetrigger agent.

Configuration fields may contain ${VAR} placeholders, resolved from the
process environment overlaid with the global property blocks declared in
filetrigger.yaml.`,
		Version: Version,
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage: true,
	}

	cmd.PersistentFlags().String("config", defaultConfigPath, "path to the filetrigger configuration file")

	// Add subcommands
	cmd.AddCommand(NewFindCommand())
	cmd.AddCommand(NewTestCommand())
	cmd.AddCommand(NewAgentCommand())
	cmd.AddCommand(NewNodesCommand())
	cmd.AddCommand(NewWatchCommand())
	cmd.AddCommand(NewHistoryCommand())

	return cmd
}

// app bundles the collaborators every search-running command needs.
type app struct {
	cfg      *config.Config
	log      *logger.ConsoleLogger
	searcher *search.Searcher
}

// newApp loads the configuration and builds the searcher with its injected
// variable source and node registry. Logs go to stderr so stdout stays
// clean for file lists and verdicts.
func newApp(cmd *cobra.Command) (*app, error) {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	log := logger.NewConsoleLogger(os.Stderr, cfg.LogLevel)
	vars := expand.NewSystemSource(cfg.GlobalEnv)
	registry := node.RegistryFromConfig(cfg.Nodes, &http.Client{Timeout: 30 * time.Second})

	return &app{
		cfg:      cfg,
		log:      log,
		searcher: search.NewSearcher(vars, registry, log),
	}, nil
}

// searchFlags declares the ad-hoc search configuration flags shared by
// find, test, and watch.
func searchFlags(cmd *cobra.Command) {
	cmd.Flags().String("node", "", "node to search on (empty or \"master\" means the local host)")
	cmd.Flags().StringP("directory", "d", "", "base directory to search under")
	cmd.Flags().StringP("files", "f", "", "pattern of files to locate (comma/semicolon separated globs)")
	cmd.Flags().StringP("ignored-files", "i", "", "pattern of files to ignore")
}

// searchConfigFromFlags builds a SearchConfig from the ad-hoc flags.
func searchConfigFromFlags(cmd *cobra.Command) config.SearchConfig {
	nodeName, _ := cmd.Flags().GetString("node")
	directory, _ := cmd.Flags().GetString("directory")
	files, _ := cmd.Flags().GetString("files")
	ignored, _ := cmd.Flags().GetString("ignored-files")
	return config.NewSearchConfig(nodeName, directory, files, ignored)
}

// gatherConfigs resolves the search configurations a command should run:
// the named entries from the configuration file when names are given,
// otherwise the single ad-hoc configuration from the flags.
func gatherConfigs(cmd *cobra.Command, a *app, names []string) ([]config.SearchConfig, error) {
	if len(names) == 0 {
		return []config.SearchConfig{searchConfigFromFlags(cmd)}, nil
	}
	configs := make([]config.SearchConfig, 0, len(names))
	for _, name := range names {
		sc, err := a.cfg.Search(name)
		if err != nil {
			return nil, err
		}
		configs = append(configs, sc)
	}
	return configs, nil
}
