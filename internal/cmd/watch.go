package cmd

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"github.com/harrison/filetrigger/internal/config"
	"github.com/harrison/filetrigger/internal/search"
)

// NewWatchCommand creates and returns the watch subcommand
func NewWatchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [search-name]",
		Short: "Re-run a local search whenever its directory changes",
		Long: `Watch runs a search, then watches the base directory for filesystem
changes and re-runs the search on each change, printing newly matched
files as they appear. Only local searches can be watched; a remote node's
filesystem emits no events here.

A lock in the state directory ensures at most one watcher runs per state
directory at a time.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			return runWatch(cmd, a, args, cmd.OutOrStdout())
		},
		SilenceUsage: true,
	}

	searchFlags(cmd)

	return cmd
}

// runWatch validates the configuration, takes the watcher lock, and loops
// on filesystem events until interrupted.
func runWatch(cmd *cobra.Command, a *app, names []string, out io.Writer) error {
	configs, err := gatherConfigs(cmd, a, names)
	if err != nil {
		return err
	}

	expanded := a.searcher.Expand(configs[0])
	if !expanded.IsLocal() {
		return fmt.Errorf("watch only supports local searches, not node %q", expanded.Node())
	}
	if expanded.Directory() == "" {
		return fmt.Errorf("watch requires a directory")
	}

	if err := os.MkdirAll(a.cfg.StateDir, 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}
	lock := flock.New(filepath.Join(a.cfg.StateDir, "watch.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("failed to acquire watch lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("another watcher is already running for state directory %s", a.cfg.StateDir)
	}
	defer lock.Unlock()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return watchLoop(ctx, a, configs[0], expanded.Directory(), out)
}

// addWatchTree registers root and every directory below it with the
// watcher. fsnotify watches are not recursive, so a change deep in the
// tree is only visible if its own directory is watched.
func addWatchTree(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
}

// watchLoop prints the initial matches, then re-polls on every event and
// prints files not seen before. Every directory in the tree is watched,
// and directories created while watching are added as they appear, so
// changes anywhere under the base directory trigger a re-poll. The
// configuration is re-expanded on each poll, so variable changes between
// events are picked up the same way a scheduled trigger would pick them
// up.
func watchLoop(ctx context.Context, a *app, cfg config.SearchConfig, directory string, out io.Writer) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := addWatchTree(watcher, directory); err != nil {
		return fmt.Errorf("failed to watch %s: %w", directory, err)
	}

	seen := make(map[string]bool)
	report := func(result search.Result) {
		for _, file := range result.Files {
			if !seen[file] {
				seen[file] = true
				fmt.Fprintln(out, file)
			}
		}
	}

	report(a.searcher.Poll(ctx, cfg))
	a.log.LogInfo("watching " + directory)

	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			a.log.LogWarn("watch error: " + err.Error())
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			if event.Op&fsnotify.Create != 0 {
				// A new directory must be watched before the next poll,
				// or changes inside it would go unseen.
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := addWatchTree(watcher, event.Name); err != nil {
						a.log.LogWarn("failed to watch new directory: " + err.Error())
					}
				}
			}
			a.log.LogDebug("change detected: " + event.String())
			report(a.searcher.Poll(ctx, cfg))
		}
	}
}
