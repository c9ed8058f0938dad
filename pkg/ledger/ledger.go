// Package ledger tracks how many bytes of each tailed file have been consumed.
//
// A Ledger maps an absolute file path to its high-water mark: the number of
// bytes already echoed as complete lines. It is plain in-memory state with a
// single owner and no locking; callers must not share it between goroutines.
//
// Example usage:
//
//	l := ledger.New()
//	l.Set("/var/log/app/app.log", 4096)
//	offset := l.Get("/var/log/app/app.log") // 4096
package ledger

import "sort"

// Ledger is the offset table for tracked files.
//
// Invariants:
//   - An offset never exceeds the file length observed when it was written.
//   - Entries are never removed; a stale entry for a deleted file is harmless.
type Ledger struct {
	offsets map[string]uint64
}

// Entry is a single ledger row.
type Entry struct {
	Path   string
	Offset uint64
}

// New creates an empty ledger.
func New() *Ledger {
	return &Ledger{
		offsets: make(map[string]uint64),
	}
}

// Get returns the offset for path, or 0 if the path is not tracked.
func (l *Ledger) Get(path string) uint64 {
	return l.offsets[path]
}

// Lookup returns the offset for path and whether it is tracked.
func (l *Ledger) Lookup(path string) (uint64, bool) {
	offset, ok := l.offsets[path]
	return offset, ok
}

// Set records offset for path, creating the entry if needed.
func (l *Ledger) Set(path string, offset uint64) {
	l.offsets[path] = offset
}

// Len returns the number of tracked paths.
func (l *Ledger) Len() int {
	return len(l.offsets)
}

// Entries returns all rows sorted by path.
func (l *Ledger) Entries() []Entry {
	entries := make([]Entry, 0, len(l.offsets))
	for path, offset := range l.offsets {
		entries = append(entries, Entry{Path: path, Offset: offset})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Path < entries[j].Path
	})

	return entries
}
