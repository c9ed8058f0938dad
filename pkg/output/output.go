package output

import (
	"encoding/json"
	"fmt"
	"hash/fnv"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/term"
)

// ANSI foreground colors cycled through for tags.
var palette = []string{
	"\033[36m", // cyan
	"\033[32m", // green
	"\033[33m", // yellow
	"\033[35m", // magenta
	"\033[34m", // blue
	"\033[91m", // bright red
	"\033[96m", // bright cyan
	"\033[92m", // bright green
}

const colorReset = "\033[0m"

// New creates a sink writing to w.
func New(cfg Config, w io.Writer) (Sink, error) {
	if cfg.Format == "" {
		cfg.Format = FormatText
	}
	if cfg.Color == "" {
		cfg.Color = ColorAuto
	}

	switch cfg.Format {
	case FormatJSON:
		return &jsonSink{w: w}, nil
	case FormatText:
		return &textSink{w: w, color: useColor(cfg.Color, w)}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, cfg.Format)
	}
}

// TagFor derives a source tag for path.
func TagFor(mode TagMode, path string) string {
	switch mode {
	case TagFile:
		return filepath.Base(path)
	case TagPath:
		return path
	default:
		return filepath.Base(filepath.Dir(path))
	}
}

// ValidTagMode reports whether mode is supported.
func ValidTagMode(mode TagMode) bool {
	return mode == TagDir || mode == TagFile || mode == TagPath
}

// textSink writes "[tag] text".
type textSink struct {
	w     io.Writer
	color bool
}

// Emit implements Sink.Emit.
func (s *textSink) Emit(line Line) error {
	buf := make([]byte, 0, len(line.Tag)+len(line.Text)+16)
	buf = append(buf, '[')
	if s.color {
		buf = append(buf, colorFor(line.Tag)...)
		buf = append(buf, line.Tag...)
		buf = append(buf, colorReset...)
	} else {
		buf = append(buf, line.Tag...)
	}
	buf = append(buf, "] "...)
	buf = append(buf, line.Text...)
	buf = append(buf, '\n')

	_, err := s.w.Write(buf)
	return err
}

// jsonSink writes one JSON object per line.
type jsonSink struct {
	w io.Writer
}

// Emit implements Sink.Emit.
func (s *jsonSink) Emit(line Line) error {
	data, err := json.Marshal(line)
	if err != nil {
		return fmt.Errorf("failed to marshal line: %w", err)
	}

	_, err = s.w.Write(append(data, '\n'))
	return err
}

// colorFor picks a stable color for tag.
func colorFor(tag string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(tag)) // nolint:errcheck // hash.Write never fails
	return palette[h.Sum32()%uint32(len(palette))]
}

// useColor resolves ColorAuto against whether w is a terminal.
func useColor(mode ColorMode, w io.Writer) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}

	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
