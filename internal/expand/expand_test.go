package expand

import (
	"testing"

	"github.com/harrison/filetrigger/internal/config"
	"github.com/stretchr/testify/assert"
)

// fakeSource is a Source with fixed environment and property blocks.
type fakeSource struct {
	environ    []string
	properties []map[string]string
}

func (f *fakeSource) Environ() []string                     { return f.environ }
func (f *fakeSource) GlobalProperties() []map[string]string { return f.properties }

func TestVariablesLayering(t *testing.T) {
	src := &fakeSource{
		environ: []string{"DATA_ROOT=/env/data", "HOME=/home/ci"},
		properties: []map[string]string{
			{"DATA_ROOT": "/srv/data", "REGION": "us"},
			{"REGION": "eu"},
		},
	}

	vars := Variables(src)

	// Global properties override the environment, later blocks override
	// earlier ones.
	assert.Equal(t, "/srv/data", vars["DATA_ROOT"])
	assert.Equal(t, "eu", vars["REGION"])
	assert.Equal(t, "/home/ci", vars["HOME"])
}

func TestVariablesSkipsMalformedEnviron(t *testing.T) {
	src := &fakeSource{environ: []string{"NOEQUALS", "OK=1"}}

	vars := Variables(src)

	assert.Equal(t, "1", vars["OK"])
	assert.NotContains(t, vars, "NOEQUALS")
}

func TestExpandUnboundNameIsEmpty(t *testing.T) {
	vars := VariableMap{"FOO": "bar"}

	assert.Equal(t, "bar/baz", vars.Expand("${FOO}/baz"))
	assert.Equal(t, "/baz", vars.Expand("${MISSING}/baz"))
	assert.Equal(t, "bar", vars.Expand("$FOO"))
}

func TestConfigExpandsEveryField(t *testing.T) {
	vars := VariableMap{
		"NODE":   "builder-7",
		"ROOT":   "/data",
		"EXT":    "csv",
		"PREFIX": "tmp",
	}
	cfg := config.NewSearchConfig("${NODE}", "${ROOT}/in", "*.${EXT}", "${PREFIX}_*.${EXT}")

	expanded := Config(cfg, vars)

	assert.Equal(t, "builder-7", expanded.Node())
	assert.Equal(t, "/data/in", expanded.Directory())
	assert.Equal(t, "*.csv", expanded.Files())
	assert.Equal(t, "tmp_*.csv", expanded.IgnoredFiles())
}

func TestConfigRenormalizesNodeAfterExpansion(t *testing.T) {
	tests := []struct {
		name string
		vars VariableMap
		node string
	}{
		{name: "placeholder expands to master", vars: VariableMap{"NODE": "master"}, node: "${NODE}"},
		{name: "placeholder expands to MASTER", vars: VariableMap{"NODE": "MASTER"}, node: "${NODE}"},
		{name: "placeholder unbound", vars: VariableMap{}, node: "${NODE}"},
		{name: "placeholder expands to whitespace", vars: VariableMap{"NODE": "  "}, node: "${NODE}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.NewSearchConfig(tt.node, "/data", "*", "")
			expanded := Config(cfg, tt.vars)
			assert.True(t, expanded.IsLocal())
		})
	}
}

func TestConfigDoesNotMutateOriginal(t *testing.T) {
	vars := VariableMap{"ROOT": "/data"}
	cfg := config.NewSearchConfig("", "${ROOT}/in", "*", "")

	_ = Config(cfg, vars)

	assert.Equal(t, "${ROOT}/in", cfg.Directory())
}
