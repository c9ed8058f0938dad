// Package output writes tailed lines to the console.
//
// Each line is written with a single Write call so diagnostic output on a
// different stream never splits a data line.
//
// Example usage:
//
//	sink, err := output.New(output.Config{
//	    Format: output.FormatText,
//	    Color:  output.ColorAuto,
//	}, os.Stdout)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	sink.Emit(output.Line{Tag: "app", Path: "/var/log/app/x.log", Text: "hello"})
package output

// Format describes the line encoding.
type Format string

// Supported formats.
const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// TagMode selects how a line's source tag is derived from its path.
type TagMode string

// Supported tag modes.
const (
	TagDir  TagMode = "dir"  // Containing directory name
	TagFile TagMode = "file" // File base name
	TagPath TagMode = "path" // Absolute path
)

// ColorMode controls ANSI coloring of tags in text output.
type ColorMode string

// Supported color modes.
const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// Line is one complete line taken from a tailed file.
type Line struct {
	// Tag identifies the source in output.
	Tag string `json:"tag"`

	// Path is the absolute path of the file.
	Path string `json:"path"`

	// Text is the line without its terminator.
	Text string `json:"line"`
}

// Sink receives tailed lines.
type Sink interface {
	// Emit writes one line. An error means the line was not written.
	Emit(line Line) error
}

// Config contains output configuration.
type Config struct {
	// Format is the line encoding. Default: text.
	Format Format

	// Color controls tag coloring for text output. Default: auto.
	Color ColorMode
}
