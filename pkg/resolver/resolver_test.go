package resolver

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// realDir returns dir with symlinks resolved, so expectations hold on
// systems where the temp directory sits behind a symlink.
func realDir(t *testing.T, dir string) string {
	t.Helper()

	resolved, err := filepath.EvalSymlinks(dir)
	if err != nil {
		t.Fatalf("EvalSymlinks(%s) error = %v", dir, err)
	}
	return resolved
}

func TestResolveEmptyUsesWorkingDir(t *testing.T) {
	roots, err := Resolve(nil, false)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	cwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd() error = %v", err)
	}

	if len(roots.Dirs) != 1 || roots.Dirs[0] != realDir(t, cwd) {
		t.Errorf("Resolve(nil).Dirs = %v, want [%s]", roots.Dirs, realDir(t, cwd))
	}
	if roots.Recursive {
		t.Error("Resolve(nil).Recursive = true, want false")
	}
}

func TestResolveDeduplicates(t *testing.T) {
	dirA := t.TempDir()
	dirB := t.TempDir()

	roots, err := Resolve([]string{dirA, dirB, dirA + "/", filepath.Join(dirA, ".", "")}, true)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	want := []string{realDir(t, dirA), realDir(t, dirB)}
	if len(roots.Dirs) != len(want) {
		t.Fatalf("Resolve().Dirs = %v, want %v", roots.Dirs, want)
	}
	for i := range want {
		if roots.Dirs[i] != want[i] {
			t.Errorf("Dirs[%d] = %s, want %s", i, roots.Dirs[i], want[i])
		}
	}
	if !roots.Recursive {
		t.Error("Resolve().Recursive = false, want true")
	}
}

func TestResolveCleansPath(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "logs")
	if err := os.Mkdir(sub, 0700); err != nil {
		t.Fatalf("Mkdir() error = %v", err)
	}

	roots, err := Resolve([]string{dir + "/logs/../logs/./"}, false)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	if roots.Dirs[0] != realDir(t, sub) {
		t.Errorf("Dirs[0] = %s, want %s", roots.Dirs[0], realDir(t, sub))
	}
}

func TestResolveRelative(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "app"), 0700); err != nil {
		t.Fatalf("Mkdir() error = %v", err)
	}

	prev, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd() error = %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir() error = %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Logf("Chdir() error = %v", err)
		}
	})

	roots, err := Resolve([]string{"app"}, false)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	want := filepath.Join(realDir(t, dir), "app")
	if roots.Dirs[0] != want {
		t.Errorf("Dirs[0] = %s, want %s", roots.Dirs[0], want)
	}
}

func TestResolveSymlink(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "target")
	link := filepath.Join(dir, "link")

	if err := os.Mkdir(target, 0700); err != nil {
		t.Fatalf("Mkdir() error = %v", err)
	}
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	roots, err := Resolve([]string{link, target}, false)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	if len(roots.Dirs) != 1 || roots.Dirs[0] != realDir(t, target) {
		t.Errorf("Resolve().Dirs = %v, want [%s]", roots.Dirs, realDir(t, target))
	}
}

func TestResolveMissingDirKept(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "missing")

	roots, err := Resolve([]string{missing}, false)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	if roots.Dirs[0] != missing {
		t.Errorf("Dirs[0] = %s, want %s", roots.Dirs[0], missing)
	}
}

func TestResolveEmptyArgument(t *testing.T) {
	_, err := Resolve([]string{" "}, false)
	if !errors.Is(err, ErrInvalidPath) {
		t.Errorf("Resolve() error = %v, want ErrInvalidPath", err)
	}
}

func TestExpandHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	tests := []struct {
		in   string
		want string
	}{
		{"~", home},
		{"~/logs", filepath.Join(home, "logs")},
		{"/var/log", "/var/log"},
		{"logs", "logs"},
	}

	for _, tt := range tests {
		if got := ExpandHome(tt.in); got != tt.want {
			t.Errorf("ExpandHome(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
