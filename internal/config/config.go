package config

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Node declares a remote execution node: a name used in search
// configurations and the base URL of the filetrigger agent running there.
type Node struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// Config represents filetrigger configuration options loaded from
// filetrigger.yaml.
type Config struct {
	// LogLevel sets the logging verbosity (trace, debug, info, warn, error)
	LogLevel string `yaml:"log_level"`

	// StateDir is the directory for the history database and watch locks
	StateDir string `yaml:"state_dir"`

	// GlobalEnv is the ordered list of global property blocks. Each block
	// is a map of environment variable bindings; later blocks override
	// earlier ones key by key during expansion.
	GlobalEnv []map[string]string `yaml:"global_env"`

	// Nodes is the table of remote execution nodes
	Nodes []Node `yaml:"nodes"`

	// Searches holds named search configurations referenced by the CLI
	Searches map[string]SearchConfig `yaml:"-"`
}

// searchEntryYAML is the on-disk schema for a named search. It is decoded
// separately and converted into the immutable SearchConfig through the
// normalizing constructor, never used as the domain value itself.
type searchEntryYAML struct {
	Node         string `yaml:"node"`
	Directory    string `yaml:"directory"`
	Files        string `yaml:"files"`
	IgnoredFiles string `yaml:"ignored_files"`
}

// DefaultConfig returns a Config with sensible default values
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		StateDir: ".filetrigger",
	}
}

// LoadConfig loads configuration from the specified file path.
// If the file doesn't exist, returns default configuration without error.
// If the file exists but is malformed, returns an error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		// File doesn't exist, return defaults (not an error)
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	type yamlConfig struct {
		LogLevel  string                     `yaml:"log_level"`
		StateDir  string                     `yaml:"state_dir"`
		GlobalEnv []map[string]string        `yaml:"global_env"`
		Nodes     []Node                     `yaml:"nodes"`
		Searches  map[string]searchEntryYAML `yaml:"searches"`
	}

	var yamlCfg yamlConfig
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if yamlCfg.LogLevel != "" {
		cfg.LogLevel = yamlCfg.LogLevel
	}
	if yamlCfg.StateDir != "" {
		cfg.StateDir = yamlCfg.StateDir
	}
	cfg.GlobalEnv = yamlCfg.GlobalEnv
	cfg.Nodes = yamlCfg.Nodes

	if len(yamlCfg.Searches) > 0 {
		cfg.Searches = make(map[string]SearchConfig, len(yamlCfg.Searches))
		for name, entry := range yamlCfg.Searches {
			cfg.Searches[name] = NewSearchConfig(
				entry.Node, entry.Directory, entry.Files, entry.IgnoredFiles)
		}
	}

	return cfg, nil
}

// Search returns the named search configuration from the config file.
func (c *Config) Search(name string) (SearchConfig, error) {
	sc, ok := c.Searches[name]
	if !ok {
		return SearchConfig{}, fmt.Errorf("no search named %q in configuration", name)
	}
	return sc, nil
}

// SearchNames returns the names of all configured searches, sorted.
func (c *Config) SearchNames() []string {
	names := make([]string, 0, len(c.Searches))
	for name := range c.Searches {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
