// Package completion merges the built-in catalog with functions declared in
// workspace files into the candidate list for one completion request.
package completion

import (
	"context"
	"fmt"
	"slices"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rlch/hlsl"
	"github.com/rlch/hlsl/catalog"
)

// Workspace gives access to the files next to the edited document.
type Workspace interface {
	// FindFiles returns the paths matching a glob relative to the workspace root.
	FindFiles(ctx context.Context, pattern string) ([]string, error)

	// ReadFile returns the contents of a path returned by FindFiles.
	ReadFile(ctx context.Context, path string) ([]byte, error)
}

// Result is the answer to one completion request.
type Result struct {
	// Prefix is the word at the cursor used for filtering.
	Prefix string

	// Range is replaced by an accepted candidate.
	Range Range

	// Candidates are unique by name: catalog entries first, then
	// workspace functions in file path order.
	Candidates []Candidate
}

// Aggregator produces completion candidates.
type Aggregator struct {
	workspace Workspace
	logger    *zap.Logger
	config    func() *hlsl.Config
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithConfig sets the configuration source. It is consulted on every request
// so that settings changes take effect immediately.
func WithConfig(fn func() *hlsl.Config) Option {
	return func(a *Aggregator) {
		a.config = fn
	}
}

// NewAggregator creates an aggregator over the given workspace.
func NewAggregator(ws Workspace, logger *zap.Logger, opts ...Option) *Aggregator {
	a := &Aggregator{
		workspace: ws,
		logger:    logger,
		config:    hlsl.DefaultConfig,
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Complete returns the candidates for the word at pos in text.
//
// All workspace files are read and scanned before Complete returns. A file
// that cannot be read is logged and skipped; a failure to list files is
// logged and leaves only the catalog candidates. Only cancellation of ctx
// is returned as an error.
func (a *Aggregator) Complete(ctx context.Context, text string, pos Position) (*Result, error) {
	cfg := a.config()
	if !cfg.SuggestEnabled() {
		a.logger.Debug("Completion disabled by suggest.basic")

		return &Result{Range: Range{Start: pos, End: pos}}, nil
	}

	rng, prefix := WordRangeAt(text, pos)
	result := &Result{Prefix: prefix, Range: rng}

	seen := make(nameSet)
	result.Candidates = appendCatalog(result.Candidates, prefix, seen)
	catalogCount := len(result.Candidates)

	files, err := a.scan(ctx, cfg)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		a.logger.Warn("Workspace scan failed, returning catalog candidates only", zap.Error(err))

		return result, nil
	}

	result.Candidates = appendFunctions(result.Candidates, files, prefix, seen)

	a.logger.Debug("Completion candidates",
		zap.String("prefix", prefix),
		zap.Int("catalog", catalogCount),
		zap.Int("workspace", len(result.Candidates)-catalogCount),
		zap.Int("files", len(files)))

	return result, nil
}

// Lookup finds the symbol named name: a catalog entry, or else the first
// workspace function with that name.
func (a *Aggregator) Lookup(ctx context.Context, name string) (Candidate, bool, error) {
	if e, ok := catalog.Lookup(name); ok {
		return catalogCandidate(e), true, nil
	}

	fns, err := a.WorkspaceFunctions(ctx)
	if err != nil {
		return Candidate{}, false, err
	}

	for _, fn := range fns {
		if fn.Name == name {
			return functionCandidate(fn), true, nil
		}
	}

	return Candidate{}, false, nil
}

// WorkspaceFunctions returns every function declared in the workspace files,
// in file path order. Unlike Complete, a failure to list files is returned.
func (a *Aggregator) WorkspaceFunctions(ctx context.Context) ([]hlsl.Function, error) {
	files, err := a.scan(ctx, a.config())
	if err != nil {
		return nil, err
	}

	var fns []hlsl.Function
	for _, f := range files {
		fns = append(fns, f.functions...)
	}

	return fns, nil
}

// fileFunctions holds the functions extracted from one file.
type fileFunctions struct {
	path      string
	functions []hlsl.Function
}

// scan lists the workspace files and extracts functions from each of them
// concurrently. Unreadable files produce an entry without functions.
func (a *Aggregator) scan(ctx context.Context, cfg *hlsl.Config) ([]fileFunctions, error) {
	err := ctx.Err()
	if err != nil {
		return nil, err
	}

	pattern := cfg.FilePattern()

	paths, err := a.workspace.FindFiles(ctx, pattern)
	if err != nil {
		return nil, fmt.Errorf("finding %q: %w", pattern, err)
	}

	sort.Strings(paths)

	files := make([]fileFunctions, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	if n := cfg.ParallelReads(); n > 0 {
		g.SetLimit(n)
	}

	for i, path := range paths {
		g.Go(func() error {
			files[i].path = path

			data, err := a.workspace.ReadFile(gctx, path)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}

				a.logger.Warn("Failed to read workspace file", zap.String("path", path), zap.Error(err))

				return nil
			}

			files[i].functions = slices.Collect(hlsl.ExtractFunctions(path, string(data)))

			return nil
		})
	}

	err = g.Wait()
	if err != nil {
		return nil, err
	}

	return files, nil
}
