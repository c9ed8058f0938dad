package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xmhha/multitail/pkg/config"
)

// syncBuffer is a bytes.Buffer safe for a concurrent writer and reader.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// isolateEnv keeps real configuration files and environment overrides out
// of the test.
func isolateEnv(t *testing.T) string {
	t.Helper()

	t.Setenv("HOME", t.TempDir())
	for _, key := range []string{config.EnvRoots, config.EnvRecursive, config.EnvDebounce, config.EnvLogLevel} {
		t.Setenv(key, "")
	}

	work := t.TempDir()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(work))
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Logf("Chdir() error = %v", err)
		}
	})

	return work
}

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func appendLine(t *testing.T, path, line string) {
	t.Helper()
	require.NoError(t, writeLine(path, line))
}

// writeLine appends line to path. It does not touch t so it can run inside
// polling conditions.
func writeLine(path, line string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600) // nolint:gosec // test path
	if err != nil {
		return err
	}
	if _, err := f.WriteString(line + "\n"); err != nil {
		_ = f.Close() // nolint:errcheck
		return err
	}
	return f.Close()
}

func TestVersion(t *testing.T) {
	isolateEnv(t)

	out, _, err := runCLI(t, "--version")
	require.NoError(t, err)
	assert.Equal(t, "multitail dev\n", out)
}

func TestConfigShow(t *testing.T) {
	isolateEnv(t)

	out, _, err := runCLI(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "# Source: defaults (no config file found)")
	assert.Contains(t, out, "debounce: 10ms")
	assert.Contains(t, out, "tag: dir")
}

func TestConfigShowJSON(t *testing.T) {
	isolateEnv(t)

	out, _, err := runCLI(t, "config", "show", "--format", "json")
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Contains(t, decoded, "watch")
	assert.Contains(t, decoded, "output")
}

func TestConfigShowUnknownFormat(t *testing.T) {
	isolateEnv(t)

	_, _, err := runCLI(t, "config", "show", "--format", "toml")
	assert.Error(t, err)
}

func TestConfigShowFromFile(t *testing.T) {
	isolateEnv(t)

	path := filepath.Join(t.TempDir(), "multitail.yaml")
	require.NoError(t, os.WriteFile(path, []byte("output:\n  tag: file\n"), 0600))

	out, _, err := runCLI(t, "--config", path, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "# Source: "+path)
	assert.Contains(t, out, "tag: file")
}

func TestConfigPath(t *testing.T) {
	work := isolateEnv(t)
	require.NoError(t, os.WriteFile(filepath.Join(work, "multitail.yaml"), []byte("recursive: true\n"), 0600))

	out, _, err := runCLI(t, "config", "path")
	require.NoError(t, err)
	assert.Contains(t, out, "1. ./multitail.yaml [found]")
	assert.Contains(t, out, "2. "+config.DefaultConfigPath()+" [not found]")
	assert.Contains(t, out, "Active configuration: ./multitail.yaml")
}

func TestConfigInit(t *testing.T) {
	isolateEnv(t)
	target := filepath.Join(t.TempDir(), "conf", "config.yaml")

	out, _, err := runCLI(t, "config", "init", "--path", target)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote default configuration")

	cfg, err := config.LoadFromFile(target)
	require.NoError(t, err)
	assert.Equal(t, config.Default().Watch, cfg.Watch)

	_, _, err = runCLI(t, "config", "init", "--path", target)
	assert.Error(t, err, "init must not overwrite without --overwrite")

	_, _, err = runCLI(t, "config", "init", "--path", target, "--overwrite")
	assert.NoError(t, err)
}

func TestRunInvalidFlags(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()

	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{"bad tag", []string{"--tag", "host", dir}, config.ErrInvalidTagMode},
		{"bad format", []string{"--format", "xml", dir}, config.ErrInvalidOutputFormat},
		{"bad log level", []string{"--log-level", "loud", dir}, config.ErrInvalidLogLevel},
		{"zero debounce", []string{"--debounce", "0s", dir}, config.ErrInvalidDebounce},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := runCLI(t, tt.args...)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Execute() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRunColorFlagsExclusive(t *testing.T) {
	isolateEnv(t)

	_, _, err := runCLI(t, "--color", "--no-color", t.TempDir())
	assert.Error(t, err)
}

func TestRunBadPattern(t *testing.T) {
	isolateEnv(t)

	_, _, err := runCLI(t, "--include", "[unclosed", t.TempDir())
	assert.Error(t, err)
}

func TestRunMissingRoot(t *testing.T) {
	isolateEnv(t)
	missing := filepath.Join(t.TempDir(), "missing")

	_, _, err := runCLI(t, missing)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "start watcher")
}

func TestRunFollowsFiles(t *testing.T) {
	isolateEnv(t)

	root := t.TempDir()
	sub := filepath.Join(root, "nested")
	require.NoError(t, os.Mkdir(sub, 0700))

	existing := filepath.Join(root, "existing.log")
	appendLine(t, existing, "before startup")

	cmd := newRootCommand()
	var stdout, stderr syncBuffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs([]string{"--no-color", "--debounce", "5ms", root})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- cmd.ExecuteContext(ctx) }()

	// Keep writing until the watcher is up and the first line shows.
	fresh := filepath.Join(root, "fresh.log")
	nested := filepath.Join(sub, "nested.log")
	require.Eventually(t, func() bool {
		if writeLine(fresh, "hello") != nil || writeLine(nested, "hidden") != nil {
			return false
		}
		return strings.Contains(stdout.String(), "] hello\n")
	}, 5*time.Second, 100*time.Millisecond)

	appendLine(t, existing, "after startup")
	require.Eventually(t, func() bool {
		return strings.Contains(stdout.String(), "] after startup\n")
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("command did not stop after cancel")
	}

	out := stdout.String()
	assert.NotContains(t, out, "before startup")
	assert.NotContains(t, out, "hidden")

	tag := "[" + filepath.Base(root) + "] "
	for _, line := range strings.Split(strings.TrimSuffix(out, "\n"), "\n") {
		assert.True(t, strings.HasPrefix(line, tag), "line %q missing tag %q", line, tag)
	}
}

func TestRunRecursiveJSON(t *testing.T) {
	isolateEnv(t)

	root := t.TempDir()
	sub := filepath.Join(root, "nested")
	require.NoError(t, os.Mkdir(sub, 0700))

	cmd := newRootCommand()
	var stdout, stderr syncBuffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs([]string{"-r", "--format", "json", "--tag", "file", root})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- cmd.ExecuteContext(ctx) }()

	nested := filepath.Join(sub, "deep.log")
	require.Eventually(t, func() bool {
		if writeLine(nested, "deep line") != nil {
			return false
		}
		return strings.Contains(stdout.String(), "deep line")
	}, 5*time.Second, 100*time.Millisecond)

	cancel()
	require.NoError(t, <-done)

	first := strings.SplitN(stdout.String(), "\n", 2)[0]
	var decoded map[string]string
	require.NoError(t, json.Unmarshal([]byte(first), &decoded))
	assert.Equal(t, "deep.log", decoded["tag"])
	assert.Equal(t, "deep line", decoded["line"])
	assert.True(t, strings.HasSuffix(decoded["path"], filepath.Join("nested", "deep.log")))
}
