package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/harrison/filetrigger/internal/agent"
	"github.com/harrison/filetrigger/internal/logger"
)

// NewAgentCommand creates and returns the agent subcommand
func NewAgentCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "agent",
		Short: "Run the node agent that executes searches for remote callers",
		Long: `Agent starts the HTTP server other filetrigger instances dispatch
searches to. Traversal and pattern matching run entirely on this host;
only the outcome classification and the matched relative paths are sent
back.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			addr, _ := cmd.Flags().GetString("addr")
			return runAgent(cmd.Context(), a.log, addr)
		},
		SilenceUsage: true,
	}

	cmd.Flags().String("addr", ":8720", "address to listen on")

	return cmd
}

// runAgent serves the agent API until the context is cancelled or an
// interrupt arrives, then shuts down gracefully.
func runAgent(ctx context.Context, log *logger.ConsoleLogger, addr string) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := &http.Server{
		Addr:              addr,
		Handler:           agent.NewServer(log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.LogInfo("agent listening on " + addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.LogInfo("agent shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
