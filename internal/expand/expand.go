// Package expand resolves ${VAR}-style placeholders in search
// configurations against a layered variable map built from the process
// environment and the globally configured property blocks.
package expand

import (
	"os"
	"strings"

	"github.com/harrison/filetrigger/internal/config"
)

// Source supplies the variable layers used to expand a configuration.
// Implementations are injected into the search orchestrator; the core
// never reads ambient global state on its own.
type Source interface {
	// Environ returns the process environment in "KEY=value" form.
	Environ() []string

	// GlobalProperties returns the globally configured environment blocks
	// in enumeration order. Later blocks override earlier ones key by key.
	GlobalProperties() []map[string]string
}

// SystemSource is the production Source: the real process environment
// plus the global property blocks from the tool configuration.
type SystemSource struct {
	properties []map[string]string
}

// NewSystemSource creates a SystemSource over the given property blocks.
func NewSystemSource(properties []map[string]string) *SystemSource {
	return &SystemSource{properties: properties}
}

// Environ returns the current process environment.
func (s *SystemSource) Environ() []string {
	return os.Environ()
}

// GlobalProperties returns the configured property blocks.
func (s *SystemSource) GlobalProperties() []map[string]string {
	return s.properties
}

// VariableMap holds the flattened variable bindings for one expansion.
// It is built fresh per call; it is not shared state.
type VariableMap map[string]string

// Variables builds the variable map from a Source: process environment
// first, then every global property block in order, each overriding the
// keys it defines (last writer per key wins).
func Variables(src Source) VariableMap {
	vars := make(VariableMap)
	for _, kv := range src.Environ() {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		vars[key] = value
	}
	for _, block := range src.GlobalProperties() {
		vars.Override(block)
	}
	return vars
}

// Override applies a block of bindings on top of the map.
func (m VariableMap) Override(block map[string]string) {
	for key, value := range block {
		m[key] = value
	}
}

// Expand substitutes ${NAME} and $NAME placeholders in s. A name with no
// binding expands to the empty string, matching conventional shell
// semantics; it is never an error and never left literal.
func (m VariableMap) Expand(s string) string {
	return os.Expand(s, func(name string) string {
		return m[name]
	})
}

// Config applies placeholder substitution to every field of the search
// configuration and returns a new, normalized SearchConfig. The node is
// substituted only when one is set, and the result passes through node
// normalization again: a placeholder may well expand to "master" or to
// nothing, both of which mean the local host.
func Config(cfg config.SearchConfig, vars VariableMap) config.SearchConfig {
	node := cfg.Node()
	if node != "" {
		node = vars.Expand(node)
	}
	return config.NewSearchConfig(
		node,
		vars.Expand(cfg.Directory()),
		vars.Expand(cfg.Files()),
		vars.Expand(cfg.IgnoredFiles()),
	)
}
