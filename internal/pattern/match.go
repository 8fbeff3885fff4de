// Package pattern implements the file matcher: ANT-style glob matching of
// files under a base directory with include and exclude pattern sets.
package pattern

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ErrDirectoryNotFound indicates the base directory does not exist or is
// not a directory. Callers classify this as a warning: searching a
// not-yet-created directory is an expected transient state for a trigger.
var ErrDirectoryNotFound = errors.New("directory not found")

// ErrBadPattern indicates a malformed glob pattern. Patterns are validated
// eagerly, before any traversal starts.
var ErrBadPattern = errors.New("bad pattern")

// Split breaks a pattern field into individual glob patterns. Patterns are
// separated by commas or semicolons; empty segments are dropped.
func Split(patterns string) []string {
	fields := strings.FieldsFunc(patterns, func(r rune) bool {
		return r == ',' || r == ';'
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

// compile validates each pattern in the list, wrapping ErrBadPattern with
// the offending pattern.
func compile(patterns []string) error {
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("%w: %q", ErrBadPattern, p)
		}
	}
	return nil
}

// matchAny reports whether the slash-separated relative path matches at
// least one of the patterns. Glob semantics are ANT-style: '*' matches any
// run of characters short of a separator, '**' matches across separators,
// '?' matches a single character.
func matchAny(patterns []string, rel string) bool {
	for _, p := range patterns {
		// Patterns were validated up front, so Match cannot fail here.
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}

// Match walks baseDir and returns the relative paths of the files that
// match at least one include pattern and none of the exclude patterns.
// Exclusion always wins over inclusion. An empty include pattern matches
// nothing: searching is an explicit opt-in, never an accidental full-tree
// scan.
//
// Returned paths are relative to baseDir and use '/' as the separator on
// every platform, in traversal order, deduplicated. Case sensitivity is
// whatever the underlying filesystem provides.
func Match(baseDir, files, ignoredFiles string) ([]string, error) {
	info, err := os.Stat(baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrDirectoryNotFound, baseDir)
		}
		return nil, fmt.Errorf("failed to access directory %s: %w", baseDir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrDirectoryNotFound, baseDir)
	}

	includes := Split(files)
	excludes := Split(ignoredFiles)
	if err := compile(includes); err != nil {
		return nil, err
	}
	if err := compile(excludes); err != nil {
		return nil, err
	}

	matched := make([]string, 0)
	if len(includes) == 0 {
		return matched, nil
	}

	seen := make(map[string]bool)
	err = filepath.WalkDir(baseDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("error accessing %s: %w", path, err)
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(baseDir, path)
		if err != nil {
			return fmt.Errorf("failed to resolve path %s: %w", path, err)
		}
		rel = filepath.ToSlash(rel)

		if !matchAny(includes, rel) || matchAny(excludes, rel) {
			return nil
		}
		if seen[rel] {
			return nil
		}
		seen[rel] = true
		matched = append(matched, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory %s: %w", baseDir, err)
	}

	return matched, nil
}
