// Package router decides which change events lead to a tail operation.
//
// The change notifier always watches roots recursively; the router is the
// single place where echo scope is enforced. Without the recursive flag only
// files whose parent directory is itself a watch root are tailed, so nested
// directories are watched for existence but their files are not echoed.
//
// Example usage:
//
//	r, err := router.New(router.Config{Roots: roots})
//	if err != nil {
//	    return err
//	}
//	if path, d := r.Route(event); d == router.Tail {
//	    t.Tail(path)
//	}
package router

import (
	"fmt"
	"path/filepath"

	"github.com/gobwas/glob"

	"github.com/0xmhha/multitail/pkg/watcher"
)

// Decision is the outcome of routing one event.
type Decision uint8

// Routing outcomes.
const (
	Tail       Decision = iota + 1 // In scope, hand to the tail engine
	Ignored                        // Not a create/write event
	OutOfScope                     // Parent directory is not a watch root
	Filtered                       // Rejected by include/exclude patterns
)

// String returns a short name for the decision.
func (d Decision) String() string {
	switch d {
	case Tail:
		return "tail"
	case Ignored:
		return "ignored"
	case OutOfScope:
		return "out_of_scope"
	case Filtered:
		return "filtered"
	default:
		return "unknown"
	}
}

// Config contains router configuration.
type Config struct {
	// Roots are the absolute, canonical watch roots.
	Roots []string

	// Recursive accepts files at any depth below a root.
	Recursive bool

	// Include patterns are matched against the file's base name.
	// When non-empty a name must match at least one.
	Include []string

	// Exclude patterns reject any base name they match.
	Exclude []string
}

// Router classifies change events. It holds no mutable state.
type Router struct {
	roots     map[string]struct{}
	recursive bool
	include   []glob.Glob
	exclude   []glob.Glob
}

// New creates a router, compiling the filename patterns.
func New(cfg Config) (*Router, error) {
	roots := make(map[string]struct{}, len(cfg.Roots))
	for _, root := range cfg.Roots {
		roots[filepath.Clean(root)] = struct{}{}
	}

	include, err := compileAll(cfg.Include)
	if err != nil {
		return nil, err
	}
	exclude, err := compileAll(cfg.Exclude)
	if err != nil {
		return nil, err
	}

	return &Router{
		roots:     roots,
		recursive: cfg.Recursive,
		include:   include,
		exclude:   exclude,
	}, nil
}

// Route returns the cleaned file path and the decision for event.
//
// Events carrying neither a create nor a write are Ignored. A merged event
// such as WRITE|CHMOD still tails. A renamed file is not remapped onto its
// old ledger entry; it is tailed as a new path from offset zero when it is
// next created or written.
func (r *Router) Route(event watcher.Event) (string, Decision) {
	path := filepath.Clean(event.Path)

	if !event.Op.Has(watcher.OpCreate | watcher.OpWrite) {
		return path, Ignored
	}

	if !r.inScope(path) {
		return path, OutOfScope
	}

	if !r.matches(filepath.Base(path)) {
		return path, Filtered
	}

	return path, Tail
}

// inScope checks the parent directory against every root.
func (r *Router) inScope(path string) bool {
	if r.recursive {
		return true
	}

	_, ok := r.roots[filepath.Dir(path)]
	return ok
}

// matches applies include then exclude patterns to a base name.
func (r *Router) matches(name string) bool {
	if len(r.include) > 0 {
		included := false
		for _, g := range r.include {
			if g.Match(name) {
				included = true
				break
			}
		}
		if !included {
			return false
		}
	}

	for _, g := range r.exclude {
		if g.Match(name) {
			return false
		}
	}

	return true
}

func compileAll(patterns []string) ([]glob.Glob, error) {
	globs := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("%w %q: %v", ErrInvalidPattern, p, err)
		}
		globs = append(globs, g)
	}
	return globs, nil
}
