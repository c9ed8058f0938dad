// Package baseline seeds the offset ledger before tailing starts.
//
// Every regular file directly inside a watch root is recorded at its current
// size, so content that existed at startup is never echoed. Nested files are
// not scanned: they are picked up lazily on their first change event.
//
// Example usage:
//
//	s := baseline.New(roots, logger.Default())
//	res := s.Scan(l)
//	for _, err := range res.Failures {
//	    log.Warn("baseline", "error", err)
//	}
package baseline

import (
	"os"
	"path/filepath"

	"github.com/0xmhha/multitail/pkg/ledger"
	"github.com/0xmhha/multitail/pkg/operr"
)

// Logger defines the logging interface used by the baseline package.
type Logger interface {
	Debug(msg string, keysAndValues ...interface{})
	Info(msg string, keysAndValues ...interface{})
}

// Result summarizes one scan.
type Result struct {
	// RootsScanned counts roots whose listing succeeded.
	RootsScanned int

	// FilesSeeded counts ledger entries written.
	FilesSeeded int

	// Failures holds one *operr.Error per skipped root or entry.
	Failures []error
}

// Scanner walks watch roots once.
type Scanner struct {
	roots  []string
	logger Logger
}

// New creates a Scanner for the given absolute roots.
func New(roots []string, logger Logger) *Scanner {
	return &Scanner{
		roots:  roots,
		logger: logger,
	}
}

// Scan lists each root's direct entries and records regular files in l at
// their current length. A root that cannot be listed is skipped with a
// ListFailed error; an entry whose metadata cannot be read is skipped with a
// StatFailed error. Neither aborts the scan.
func (s *Scanner) Scan(l *ledger.Ledger) Result {
	var res Result

	for _, root := range s.roots {
		seeded, failures, ok := s.scanRoot(root, l)
		if ok {
			res.RootsScanned++
		}
		res.FilesSeeded += seeded
		res.Failures = append(res.Failures, failures...)
	}

	s.logger.Info("baseline complete",
		"roots", res.RootsScanned,
		"files", res.FilesSeeded,
		"failures", len(res.Failures))

	return res
}

// scanRoot seeds the direct children of one root.
func (s *Scanner) scanRoot(root string, l *ledger.Ledger) (int, []error, bool) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return 0, []error{operr.New(operr.ListFailed, root, err)}, false
	}

	var failures []error
	seeded := 0

	for _, entry := range entries {
		path := filepath.Join(root, entry.Name())

		// Cheap pre-filter from the directory listing; symlinks are not followed.
		if !entry.Type().IsRegular() {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			failures = append(failures, operr.New(operr.StatFailed, path, err))
			continue
		}
		if !info.Mode().IsRegular() {
			continue
		}

		l.Set(path, uint64(info.Size()))
		seeded++
	}

	s.logger.Debug("scanned root",
		"root", root,
		"files", seeded)

	return seeded, failures, true
}
