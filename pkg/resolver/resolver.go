// Package resolver turns command-line directory arguments into the set of
// watch roots.
//
// Every root is made absolute, cleaned and, when possible, resolved through
// symlinks so that paths reported by the watcher share a prefix with the
// root they belong to. Duplicates are dropped keeping the first occurrence.
//
// Example usage:
//
//	roots, err := resolver.Resolve([]string{"~/logs", "./tmp"}, false)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(roots.Dirs)
package resolver

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Roots is the resolved watch set.
type Roots struct {
	// Dirs holds absolute, cleaned, de-duplicated root directories in
	// argument order.
	Dirs []string

	// Recursive reports whether files below the roots are echoed too.
	Recursive bool
}

// Resolve canonicalizes dirs. An empty dirs resolves to the current
// working directory.
//
// Resolve does not require the directories to exist; a missing root is
// left in its cleaned absolute form and rejected later when it is
// registered with the watcher.
func Resolve(dirs []string, recursive bool) (Roots, error) {
	if len(dirs) == 0 {
		cwd, err := os.Getwd()
		if err != nil {
			return Roots{}, fmt.Errorf("%w: %v", ErrNoWorkingDir, err)
		}
		dirs = []string{cwd}
	}

	seen := make(map[string]struct{}, len(dirs))
	out := make([]string, 0, len(dirs))

	for _, dir := range dirs {
		if strings.TrimSpace(dir) == "" {
			return Roots{}, fmt.Errorf("%w: empty path", ErrInvalidPath)
		}

		root, err := Canonical(dir)
		if err != nil {
			return Roots{}, err
		}

		if _, dup := seen[root]; dup {
			continue
		}
		seen[root] = struct{}{}
		out = append(out, root)
	}

	return Roots{Dirs: out, Recursive: recursive}, nil
}

// Canonical returns the absolute, cleaned, symlink-resolved form of path.
func Canonical(path string) (string, error) {
	abs, err := filepath.Abs(ExpandHome(path))
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrInvalidPath, path, err)
	}

	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved, nil
	}

	return abs, nil
}

// ExpandHome expands ~ in file paths to the user's home directory.
func ExpandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	if path == "~" {
		return homeDir
	}

	return filepath.Join(homeDir, path[2:])
}
