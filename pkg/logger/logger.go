// Package logger provides structured diagnostic logging for multitail.
//
// Diagnostics are kept off the data stream: by default everything goes to
// stderr so tailed lines on stdout are never interleaved with log records
// mid-line.
//
// Example usage:
//
//	log := logger.New(logger.Config{
//	    Level:  "info",
//	    Output: "stderr",
//	    Format: "text",
//	})
//	log.Info("watching", "roots", roots, "recursive", false)
//	log.Error("tail failed", "kind", "OPEN", "path", path, "error", err)
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// DefaultLevel is used when no level, or an unknown one, is configured.
const DefaultLevel = "warn"

// levels maps accepted level names to slog levels.
var levels = map[string]slog.Level{
	"debug":   slog.LevelDebug,
	"info":    slog.LevelInfo,
	"warn":    slog.LevelWarn,
	"warning": slog.LevelWarn,
	"error":   slog.LevelError,
}

// Logger is the logging surface every package depends on.
type Logger interface {
	Debug(msg string, keysAndValues ...interface{})
	Info(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})

	// With returns a logger that adds keysAndValues to every record.
	With(keysAndValues ...interface{}) Logger
}

// Config contains logger configuration.
type Config struct {
	// Level is one of debug, info, warn or error. Default: warn.
	Level string

	// Output is stderr, stdout or a file path. Ignored when Writer is set.
	Output string

	// Format is text or json. Default: text.
	Format string

	// Writer overrides Output with an explicit destination.
	Writer io.Writer
}

// slogLogger adapts *slog.Logger to Logger.
type slogLogger struct {
	*slog.Logger
}

// New creates a logger. An output file that cannot be opened is reported
// once on stderr and replaced by stderr.
func New(cfg Config) Logger {
	w := cfg.Writer
	if w == nil {
		var err error
		if w, err = openOutput(cfg.Output); err != nil {
			fmt.Fprintf(os.Stderr, "multitail: %v, logging to stderr\n", err)
			w = os.Stderr
		}
	}

	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}

	var h slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}

	return slogLogger{slog.New(h)}
}

func (l slogLogger) With(keysAndValues ...interface{}) Logger {
	return slogLogger{l.Logger.With(keysAndValues...)}
}

// ValidLevel reports whether level is one of the supported names.
func ValidLevel(level string) bool {
	_, ok := levels[strings.ToLower(level)]
	return ok
}

func parseLevel(level string) slog.Level {
	if l, ok := levels[strings.ToLower(level)]; ok {
		return l
	}
	return levels[DefaultLevel]
}

// openOutput resolves a configured destination. Files are appended to.
func openOutput(dest string) (io.Writer, error) {
	switch strings.ToLower(dest) {
	case "", "stderr":
		return os.Stderr, nil
	case "stdout":
		return os.Stdout, nil
	}

	// #nosec G304: output path comes from trusted config
	f, err := os.OpenFile(dest, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600) // nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", dest, err)
	}
	return f, nil
}

// Default returns a text logger on stderr at DefaultLevel.
func Default() Logger {
	return New(Config{})
}

// Noop returns a logger that drops everything.
func Noop() Logger {
	return discard{}
}

type discard struct{}

func (discard) Debug(string, ...interface{}) {}
func (discard) Info(string, ...interface{})  {}
func (discard) Warn(string, ...interface{})  {}
func (discard) Error(string, ...interface{}) {}

func (d discard) With(...interface{}) Logger { return d }
