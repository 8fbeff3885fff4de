package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command with the given args and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func makeDir(t *testing.T, files ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, f := range files {
		path := filepath.Join(dir, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
	}
	return dir
}

func TestFindPrintsMatchedFiles(t *testing.T) {
	dir := makeDir(t, "a.csv", "tmp_a.csv", "b.txt")

	out, err := execute(t, "find", "-d", dir, "-f", "*.csv", "-i", "tmp_*.csv")
	require.NoError(t, err)

	assert.Equal(t, "a.csv\n", out)
}

func TestFindDegradesSilentlyOnMissingDirectory(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing")

	out, err := execute(t, "find", "-d", missing, "-f", "*")

	// Trigger path: no visible failure, no output on stdout.
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestFindDegradesSilentlyOnUnknownNode(t *testing.T) {
	out, err := execute(t, "find", "--node", "builder-7", "-d", "/data", "-f", "*")

	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestFindEmptyPatternPrintsNothing(t *testing.T) {
	dir := makeDir(t, "a.csv")

	out, err := execute(t, "find", "-d", dir)
	require.NoError(t, err)

	assert.Empty(t, out)
}

func TestFindNamedSearchesRunInArgumentOrder(t *testing.T) {
	dirA := makeDir(t, "a.csv")
	dirB := makeDir(t, "b.csv")
	cfgPath := filepath.Join(t.TempDir(), "filetrigger.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
searches:
  first:
    directory: `+dirA+`
    files: "*.csv"
  second:
    directory: `+dirB+`
    files: "*.csv"
`), 0644))

	out, err := execute(t, "find", "--config", cfgPath, "first", "second")
	require.NoError(t, err)

	assert.Equal(t, "a.csv\nb.csv\n", out)
}

func TestFindUnknownSearchNameIsAnError(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "filetrigger.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("log_level: info\n"), 0644))

	_, err := execute(t, "find", "--config", cfgPath, "nope")

	require.Error(t, err)
	assert.Contains(t, err.Error(), `no search named "nope"`)
}

func TestFindRecordWritesHistory(t *testing.T) {
	dir := makeDir(t, "a.csv")
	stateDir := t.TempDir()
	cfgPath := filepath.Join(t.TempDir(), "filetrigger.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("state_dir: "+stateDir+"\n"), 0644))

	_, err := execute(t, "find", "--config", cfgPath, "-d", dir, "-f", "*.csv", "--record")
	require.NoError(t, err)

	out, err := execute(t, "history", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "OK")
	assert.Contains(t, out, "1 file(s)")
	assert.Contains(t, out, dir)
}

func TestHistoryEmpty(t *testing.T) {
	stateDir := t.TempDir()
	cfgPath := filepath.Join(t.TempDir(), "filetrigger.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("state_dir: "+stateDir+"\n"), 0644))

	out, err := execute(t, "history", "--config", cfgPath)
	require.NoError(t, err)

	assert.Contains(t, out, "no recorded searches")
}

func TestRootRegistersSubcommands(t *testing.T) {
	root := NewRootCommand()

	names := make(map[string]bool)
	for _, sub := range root.Commands() {
		names[sub.Name()] = true
	}

	for _, want := range []string{"find", "test", "agent", "nodes", "watch", "history"} {
		assert.True(t, names[want], "missing subcommand %s", want)
	}
}
