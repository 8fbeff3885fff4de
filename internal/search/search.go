// Package search orchestrates a file search: it expands a configuration,
// resolves its execution context, runs the matcher there, and classifies
// the outcome for the two callers this system has: the trigger poller,
// which must never fail visibly, and the interactive configuration test,
// which must always produce a human-readable verdict.
package search

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/harrison/filetrigger/internal/config"
	"github.com/harrison/filetrigger/internal/expand"
	"github.com/harrison/filetrigger/internal/node"
	"github.com/harrison/filetrigger/internal/pattern"
)

// Status classifies a search verdict for the interactive test path.
type Status string

const (
	// StatusOK means one or more files matched.
	StatusOK Status = "OK"
	// StatusWarning covers expected transient states: the directory does
	// not exist yet, or nothing matched.
	StatusWarning Status = "WARNING"
	// StatusError covers real failures: unknown node, unreachable node,
	// bad pattern, I/O failure, interruption.
	StatusError Status = "ERROR"
)

// Verdict is the classified outcome of one search with its display
// message.
type Verdict struct {
	Status  Status
	Message string
}

// Result is the full outcome of one search invocation. It is constructed
// fresh per invocation and never mutated afterwards. Files is empty unless
// the verdict is StatusOK.
type Result struct {
	Files   []string
	Verdict Verdict
}

// Logger is the subset of logging the orchestrator needs.
type Logger interface {
	LogDebug(message string)
	LogWarn(message string)
}

// noopLogger discards everything; used when no logger is injected.
type noopLogger struct{}

func (noopLogger) LogDebug(string) {}
func (noopLogger) LogWarn(string)  {}

// Searcher performs file searches. Its collaborators are injected: the
// variable source for expansion and the node registry for execution
// context resolution. It holds no mutable state, so one Searcher may be
// used from any number of goroutines.
type Searcher struct {
	vars  expand.Source
	nodes node.Registry
	log   Logger
}

// NewSearcher creates a Searcher. log may be nil to disable logging.
func NewSearcher(vars expand.Source, nodes node.Registry, log Logger) *Searcher {
	if log == nil {
		log = noopLogger{}
	}
	return &Searcher{vars: vars, nodes: nodes, log: log}
}

// Expand resolves the configuration's placeholders against the variable
// layers captured at this moment: process environment first, then every
// global property block in order.
func (s *Searcher) Expand(cfg config.SearchConfig) config.SearchConfig {
	return expand.Config(cfg, expand.Variables(s.vars))
}

// Perform expands the configuration, resolves its execution context, runs
// the matcher in that context, and classifies the outcome. It never
// returns an error: every failure mode becomes a verdict.
func (s *Searcher) Perform(ctx context.Context, cfg config.SearchConfig) Result {
	expanded := s.Expand(cfg)
	s.log.LogDebug("searching: " + expanded.String())

	ec, err := s.nodes.Resolve(expanded.Node())
	if err != nil {
		// Resolution only fails on an unknown node name.
		return errorResult(fmt.Sprintf("node %q does not exist", expanded.Node()))
	}

	reply, err := ec.Search(ctx, node.SearchRequest{
		Directory:    expanded.Directory(),
		Files:        expanded.Files(),
		IgnoredFiles: expanded.IgnoredFiles(),
	})
	if err != nil {
		return classifyFailure(expanded, err)
	}

	switch reply.Outcome {
	case node.OutcomeFound:
		count := len(reply.Files)
		return Result{
			Files:   reply.Files,
			Verdict: Verdict{Status: StatusOK, Message: fmt.Sprintf("found %d file(s)", count)},
		}
	case node.OutcomeNoDirectory:
		return warningResult(fmt.Sprintf("directory %q does not exist", expanded.Directory()))
	default:
		return warningResult("no files found")
	}
}

// classifyFailure maps an execution failure to an error verdict.
func classifyFailure(expanded config.SearchConfig, err error) Result {
	switch {
	case errors.Is(err, node.ErrNodeOffline):
		return errorResult(fmt.Sprintf("node %q is offline: %v", expanded.Node(), err))
	case errors.Is(err, pattern.ErrBadPattern):
		return errorResult(err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return errorResult(fmt.Sprintf("search interrupted: %v", err))
	default:
		return errorResult(fmt.Sprintf("search failed: %v", err))
	}
}

func errorResult(message string) Result {
	return Result{Files: []string{}, Verdict: Verdict{Status: StatusError, Message: message}}
}

func warningResult(message string) Result {
	return Result{Files: []string{}, Verdict: Verdict{Status: StatusWarning, Message: message}}
}

// Poll is the trigger-polling path. It runs the search and degrades every
// non-success outcome to "found nothing": the message reaches the log at
// warn level and never the caller. The caller's own context still carries
// any cancellation, so a surrounding scheduler can observe and honor it.
func (s *Searcher) Poll(ctx context.Context, cfg config.SearchConfig) Result {
	result := s.Perform(ctx, cfg)
	if result.Verdict.Status != StatusOK {
		s.log.LogWarn(result.Verdict.Message)
	}
	return result
}

// FindFiles implements the trigger call shape: the matched paths on
// success, an empty list on anything else. It never fails visibly.
func (s *Searcher) FindFiles(ctx context.Context, cfg config.SearchConfig) []string {
	return s.Poll(ctx, cfg).Files
}

// TestConfiguration implements the interactive test call shape: it always
// returns an explicit verdict, including for interruption, since a human
// is waiting on the answer.
func (s *Searcher) TestConfiguration(ctx context.Context, cfg config.SearchConfig) Verdict {
	return s.Perform(ctx, cfg).Verdict
}

// PollAll runs the trigger-polling path for several configurations
// concurrently, one dispatch per configuration. Results come back in
// input order. The searches are independent: each is a pure function of
// its own configuration plus the variables captured at its expansion.
func (s *Searcher) PollAll(ctx context.Context, cfgs []config.SearchConfig) []Result {
	results := make([]Result, len(cfgs))
	var wg sync.WaitGroup
	for i, cfg := range cfgs {
		wg.Add(1)
		go func(i int, cfg config.SearchConfig) {
			defer wg.Done()
			results[i] = s.Poll(ctx, cfg)
		}(i, cfg)
	}
	wg.Wait()
	return results
}
