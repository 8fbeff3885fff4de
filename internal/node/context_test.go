package node

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/harrison/filetrigger/internal/pattern"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecuteOutcomes(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.csv"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"), []byte("x"), 0644))

	t.Run("found", func(t *testing.T) {
		reply, err := Execute(context.Background(), SearchRequest{
			Directory: dir, Files: "*.csv",
		})
		require.NoError(t, err)
		assert.Equal(t, OutcomeFound, reply.Outcome)
		assert.Equal(t, []string{"a.csv"}, reply.Files)
	})

	t.Run("empty", func(t *testing.T) {
		reply, err := Execute(context.Background(), SearchRequest{
			Directory: dir, Files: "*.log",
		})
		require.NoError(t, err)
		assert.Equal(t, OutcomeEmpty, reply.Outcome)
		assert.Empty(t, reply.Files)
	})

	t.Run("no directory", func(t *testing.T) {
		reply, err := Execute(context.Background(), SearchRequest{
			Directory: filepath.Join(dir, "missing"), Files: "*",
		})
		require.NoError(t, err)
		assert.Equal(t, OutcomeNoDirectory, reply.Outcome)
	})

	t.Run("bad pattern is an error", func(t *testing.T) {
		_, err := Execute(context.Background(), SearchRequest{
			Directory: dir, Files: "[",
		})
		assert.ErrorIs(t, err, pattern.ErrBadPattern)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := Execute(ctx, SearchRequest{Directory: dir, Files: "*"})
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestStaticRegistryResolve(t *testing.T) {
	remote := NewRemoteContext("builder-7", "http://builder-7:8720", nil)
	registry := NewStaticRegistry(map[string]Context{"builder-7": remote})

	t.Run("empty name is local", func(t *testing.T) {
		ec, err := registry.Resolve("")
		require.NoError(t, err)
		assert.Equal(t, "local", ec.Name())
	})

	t.Run("known node", func(t *testing.T) {
		ec, err := registry.Resolve("builder-7")
		require.NoError(t, err)
		assert.Equal(t, "builder-7", ec.Name())
	})

	t.Run("unknown node", func(t *testing.T) {
		_, err := registry.Resolve("builder-8")
		assert.ErrorIs(t, err, ErrNodeNotFound)
	})

	t.Run("lookup is exact and case sensitive", func(t *testing.T) {
		_, err := registry.Resolve("BUILDER-7")
		assert.ErrorIs(t, err, ErrNodeNotFound)
	})
}
