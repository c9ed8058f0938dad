package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name   string
		config Config
	}{
		{"default config", Config{Level: "info", Output: "stderr", Format: "text"}},
		{"debug level", Config{Level: "debug", Output: "stderr", Format: "text"}},
		{"json format", Config{Level: "info", Output: "stderr", Format: "json"}},
		{"stdout output", Config{Level: "info", Output: "stdout", Format: "text"}},
		{"empty config", Config{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if log := New(tt.config); log == nil {
				t.Error("New() returned nil")
			}
		})
	}
}

func TestLogLevels(t *testing.T) {
	var buf bytes.Buffer

	log := New(Config{Level: "debug", Writer: &buf})

	log.Debug("debug message")
	log.Info("info message")
	log.Warn("warn message")
	log.Error("error message")

	content := buf.String()
	for _, msg := range []string{"debug message", "info message", "warn message", "error message"} {
		if !strings.Contains(content, msg) {
			t.Errorf("%q not found in log", msg)
		}
	}
}

func TestLogLevelFiltering(t *testing.T) {
	var buf bytes.Buffer

	log := New(Config{Level: "warn", Writer: &buf})

	log.Debug("debug message")
	log.Info("info message")
	log.Warn("warn message")
	log.Error("error message")

	content := buf.String()
	if strings.Contains(content, "debug message") {
		t.Error("Debug message should be filtered out")
	}
	if strings.Contains(content, "info message") {
		t.Error("Info message should be filtered out")
	}
	if !strings.Contains(content, "warn message") {
		t.Error("Warn message not found")
	}
	if !strings.Contains(content, "error message") {
		t.Error("Error message not found")
	}
}

func TestLogWith(t *testing.T) {
	var buf bytes.Buffer

	log := New(Config{Level: "info", Writer: &buf}).With("component", "tailer")
	log.Info("tailed", "path", "/w/app.log", "lines", 2)

	content := buf.String()
	for _, want := range []string{"component=tailer", "path=/w/app.log", "lines=2"} {
		if !strings.Contains(content, want) {
			t.Errorf("%q not found in %q", want, content)
		}
	}
}

func TestFileOutput(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "multitail.log")

	log := New(Config{Level: "info", Output: logFile, Format: "text"})
	log.Info("message 1")
	log.Error("error message")

	data, err := os.ReadFile(logFile) // nolint:gosec
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}

	content := string(data)
	if !strings.Contains(content, "message 1") {
		t.Error("First message not found")
	}
	if !strings.Contains(content, "error message") {
		t.Error("Error message not found")
	}
}

func TestJSONOutput(t *testing.T) {
	var buf bytes.Buffer

	log := New(Config{Level: "info", Format: "json", Writer: &buf})
	log.Info("tail failed", "kind", "OPEN", "offset", 42)

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to parse JSON log: %v", err)
	}

	if msg, ok := entry["msg"].(string); !ok || msg != "tail failed" {
		t.Errorf("msg = %v, want %q", entry["msg"], "tail failed")
	}
	if kind, ok := entry["kind"].(string); !ok || kind != "OPEN" {
		t.Errorf("kind = %v, want OPEN", entry["kind"])
	}
	if offset, ok := entry["offset"].(float64); !ok || offset != 42 {
		t.Errorf("offset = %v, want 42", entry["offset"])
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		level string
		want  string
	}{
		{"debug", "DEBUG"},
		{"info", "INFO"},
		{"warn", "WARN"},
		{"warning", "WARN"},
		{"error", "ERROR"},
		{"unknown", "WARN"},
		{"", "WARN"},
		{"DEBUG", "DEBUG"},
		{"WaRn", "WARN"},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			if got := parseLevel(tt.level).String(); got != tt.want {
				t.Errorf("parseLevel(%q) = %v, want %v", tt.level, got, tt.want)
			}
		})
	}
}

func TestValidLevel(t *testing.T) {
	for _, level := range []string{"debug", "INFO", "warn", "warning", "error"} {
		if !ValidLevel(level) {
			t.Errorf("ValidLevel(%q) = false, want true", level)
		}
	}
	for _, level := range []string{"", "trace", "fatal"} {
		if ValidLevel(level) {
			t.Errorf("ValidLevel(%q) = true, want false", level)
		}
	}
}

func TestOpenOutput(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		wantErr bool
	}{
		{"stdout", "stdout", false},
		{"stderr", "stderr", false},
		{"empty defaults to stderr", "", false},
		{"STDOUT uppercase", "STDOUT", false},
		{"missing directory", filepath.Join(t.TempDir(), "no", "such", "dir", "x.log"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			writer, err := openOutput(tt.output)
			if tt.wantErr {
				if err == nil {
					t.Error("openOutput() error = nil, wantErr = true")
				}
				return
			}
			if err != nil {
				t.Fatalf("openOutput() error = %v", err)
			}
			if writer == nil {
				t.Error("openOutput() returned nil writer")
			}
		})
	}
}

func TestUnknownLevelUsesDefault(t *testing.T) {
	var buf bytes.Buffer

	log := New(Config{Level: "verbose", Writer: &buf})
	log.Info("info message")
	log.Warn("warn message")

	if strings.Contains(buf.String(), "info message") {
		t.Error("info message logged below the default level")
	}
	if !strings.Contains(buf.String(), "warn message") {
		t.Error("warn message not found")
	}
}

func TestUnopenableFileFallsBack(t *testing.T) {
	log := New(Config{Output: filepath.Join(t.TempDir(), "missing", "x.log")})
	if log == nil {
		t.Fatal("New() returned nil")
	}
	log.Error("still usable")
}

func TestNoop(t *testing.T) {
	log := Noop()
	log.Debug("debug")
	log.Info("info")
	log.Warn("warn")
	log.Error("error")
	log.With("k", "v").Info("with")
}

func BenchmarkLogWithFields(b *testing.B) {
	log := Noop()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		log.Info("tailed", "path", "/w/app.log", "lines", 3, "offset", int64(4096))
	}
}
