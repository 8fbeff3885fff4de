// Package node resolves node names to execution contexts and provides the
// local and remote implementations of the search execution interface.
package node

import (
	"context"
	"errors"
	"fmt"

	"github.com/harrison/filetrigger/internal/pattern"
)

// ErrNodeNotFound indicates a search named a node that is not registered.
var ErrNodeNotFound = errors.New("node not found")

// ErrNodeOffline indicates a registered node could not be reached at
// execution time. This is a runtime failure, never a resolution failure.
var ErrNodeOffline = errors.New("node offline")

// Outcome is the classification of a search computed on the executing
// side. Only the outcome and the matched paths cross the execution
// boundary; file metadata never does.
type Outcome string

const (
	// OutcomeFound means one or more files matched.
	OutcomeFound Outcome = "found"
	// OutcomeEmpty means the directory exists but nothing matched.
	OutcomeEmpty Outcome = "empty"
	// OutcomeNoDirectory means the base directory does not exist.
	OutcomeNoDirectory Outcome = "no-directory"
)

// SearchRequest carries the expanded search parameters to the executing
// context. All fields are already free of placeholders.
type SearchRequest struct {
	Directory    string `json:"directory"`
	Files        string `json:"files"`
	IgnoredFiles string `json:"ignoredFiles"`
}

// SearchReply is the result of running a request in some context.
type SearchReply struct {
	Outcome Outcome  `json:"outcome"`
	Files   []string `json:"files,omitempty"`
}

// Context is a handle capable of running a traversal+match operation on a
// particular host. The matcher logic is identical regardless of where it
// executes; only the transport differs.
type Context interface {
	// Name identifies the context in messages: "local" or the node name.
	Name() string

	// Search runs the traversal and pattern evaluation on the context's
	// host and returns the classified outcome with the matched relative
	// paths.
	Search(ctx context.Context, req SearchRequest) (SearchReply, error)
}

// Execute runs a search request against the local filesystem and
// classifies the outcome. It is shared by the local context and by the
// agent's request handler, which is what keeps local and remote matching
// behavior identical.
func Execute(ctx context.Context, req SearchRequest) (SearchReply, error) {
	if err := ctx.Err(); err != nil {
		return SearchReply{}, err
	}

	files, err := pattern.Match(req.Directory, req.Files, req.IgnoredFiles)
	if err != nil {
		if errors.Is(err, pattern.ErrDirectoryNotFound) {
			return SearchReply{Outcome: OutcomeNoDirectory}, nil
		}
		return SearchReply{}, err
	}
	if len(files) == 0 {
		return SearchReply{Outcome: OutcomeEmpty}, nil
	}
	return SearchReply{Outcome: OutcomeFound, Files: files}, nil
}

// LocalContext runs searches in the calling process.
type LocalContext struct{}

// Name returns "local".
func (LocalContext) Name() string {
	return "local"
}

// Search runs the matcher directly on the local filesystem.
func (LocalContext) Search(ctx context.Context, req SearchRequest) (SearchReply, error) {
	return Execute(ctx, req)
}

// Registry resolves node names to execution contexts.
type Registry interface {
	// Resolve maps a node name to an execution context. The empty name
	// resolves to the local context. A non-empty name must match a
	// registered node exactly; otherwise Resolve fails with
	// ErrNodeNotFound.
	Resolve(name string) (Context, error)
}

// StaticRegistry is a Registry backed by the node table from the tool
// configuration.
type StaticRegistry struct {
	nodes map[string]Context
}

// NewStaticRegistry builds a registry from name→context pairs.
func NewStaticRegistry(nodes map[string]Context) *StaticRegistry {
	table := make(map[string]Context, len(nodes))
	for name, ec := range nodes {
		table[name] = ec
	}
	return &StaticRegistry{nodes: table}
}

// Resolve implements Registry.
func (r *StaticRegistry) Resolve(name string) (Context, error) {
	if name == "" {
		return LocalContext{}, nil
	}
	ec, ok := r.nodes[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNodeNotFound, name)
	}
	return ec, nil
}
