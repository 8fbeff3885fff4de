package config

import (
	"fmt"
	"strings"
)

// SearchConfig describes a single file search: the node to run it on, the
// base directory to search under, and the include/exclude glob patterns.
// It is an immutable value; expansion and normalization always produce a
// new SearchConfig rather than mutating an existing one.
type SearchConfig struct {
	node         string
	directory    string
	files        string
	ignoredFiles string
}

// NewSearchConfig creates a normalized SearchConfig.
// All fields are trimmed. A node that is empty, whitespace-only, or any
// case variant of "master" is normalized to the empty string, which means
// the search runs on the local host.
func NewSearchConfig(node, directory, files, ignoredFiles string) SearchConfig {
	return SearchConfig{
		node:         normalizeNode(node),
		directory:    strings.TrimSpace(directory),
		files:        strings.TrimSpace(files),
		ignoredFiles: strings.TrimSpace(ignoredFiles),
	}
}

// normalizeNode trims the node name and maps the "use the local host"
// spellings (empty, whitespace, "master" in any case) to the empty string.
func normalizeNode(node string) string {
	node = strings.TrimSpace(node)
	if strings.EqualFold(node, "master") {
		return ""
	}
	return node
}

// Node returns the name of the node the search runs on, or the empty
// string when the search runs locally.
func (c SearchConfig) Node() string {
	return c.node
}

// IsLocal reports whether the search runs on the local host.
func (c SearchConfig) IsLocal() bool {
	return c.node == ""
}

// Directory returns the base directory to search under. It may still
// contain ${VAR} placeholders before expansion.
func (c SearchConfig) Directory() string {
	return c.directory
}

// Files returns the include pattern: one or more ANT-style globs
// separated by commas or semicolons.
func (c SearchConfig) Files() string {
	return c.files
}

// IgnoredFiles returns the exclude pattern, in the same syntax as Files.
// Empty means nothing is excluded.
func (c SearchConfig) IgnoredFiles() string {
	return c.ignoredFiles
}

// String renders the configuration for log output.
func (c SearchConfig) String() string {
	node := c.node
	if node == "" {
		node = "local"
	}
	return fmt.Sprintf("node=%s directory=%q files=%q ignoredFiles=%q",
		node, c.directory, c.files, c.ignoredFiles)
}
