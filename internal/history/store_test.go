package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/harrison/filetrigger/internal/config"
	"github.com/harrison/filetrigger/internal/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "state", "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestRecordAndRecent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	cfg := config.NewSearchConfig("builder-7", "/data/in", "*.csv", "tmp_*.csv")

	entry, err := store.Record(ctx, cfg, search.Result{
		Files:   []string{"a.csv", "b.csv"},
		Verdict: search.Verdict{Status: search.StatusOK, Message: "found 2 file(s)"},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, entry.ID)
	assert.Equal(t, 2, entry.FileCount)

	entries, err := store.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	got := entries[0]
	assert.Equal(t, entry.ID, got.ID)
	assert.Equal(t, "builder-7", got.Node)
	assert.Equal(t, "/data/in", got.Directory)
	assert.Equal(t, "*.csv", got.Files)
	assert.Equal(t, "tmp_*.csv", got.IgnoredFiles)
	assert.Equal(t, search.StatusOK, got.Status)
	assert.Equal(t, 2, got.FileCount)
	assert.Equal(t, "found 2 file(s)", got.Message)
	assert.WithinDuration(t, time.Now().UTC(), got.PerformedAt, time.Minute)
}

func TestRecentNewestFirstAndLimited(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	cfg := config.NewSearchConfig("", "/data", "*", "")

	for i := 0; i < 5; i++ {
		_, err := store.Record(ctx, cfg, search.Result{
			Verdict: search.Verdict{Status: search.StatusWarning, Message: "no files found"},
		})
		require.NoError(t, err)
	}

	entries, err := store.Recent(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
	for i := 1; i < len(entries); i++ {
		assert.False(t, entries[i].PerformedAt.After(entries[i-1].PerformedAt))
	}
}

func TestRecentEmptyStore(t *testing.T) {
	store := newTestStore(t)

	entries, err := store.Recent(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
