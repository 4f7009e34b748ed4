// Package output formats command results for humans and for scripts.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Format represents the output format type
type Format int

const (
	// FormatText is human-readable formatted text (default)
	FormatText Format = iota
	// FormatJSON is machine-readable JSON output
	FormatJSON
	// FormatYAML is YAML output
	FormatYAML
)

// String returns the string representation of the format
func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	default:
		return "text"
	}
}

// ParseFormat accepts text, json and yaml (yml), case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return FormatText, fmt.Errorf("unknown output format %q (want text, json or yaml)", s)
}

// Formatter handles output formatting for commands
type Formatter struct {
	format Format
	writer io.Writer
	pretty bool // For JSON: whether to indent
}

// New creates a new Formatter with the given options
func New(opts ...Option) *Formatter {
	f := &Formatter{
		format: FormatText,
		writer: os.Stdout,
		pretty: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Option is a functional option for Formatter
type Option func(*Formatter)

// WithFormat sets the output format
func WithFormat(format Format) Option {
	return func(f *Formatter) {
		f.format = format
	}
}

// WithJSON sets the output format to JSON
func WithJSON(enabled bool) Option {
	return func(f *Formatter) {
		if enabled {
			f.format = FormatJSON
		} else {
			f.format = FormatText
		}
	}
}

// WithWriter sets the output writer
func WithWriter(w io.Writer) Option {
	return func(f *Formatter) {
		f.writer = w
	}
}

// WithPretty sets whether JSON should be indented
func WithPretty(pretty bool) Option {
	return func(f *Formatter) {
		f.pretty = pretty
	}
}

// Format returns the current output format
func (f *Formatter) Format() Format {
	return f.format
}

// DetectFormat determines the output format based on environment
// Priority: explicit flag > env var > pipe detection > default text
func DetectFormat(jsonFlag bool) Format {
	if jsonFlag {
		return FormatJSON
	}

	// Supports: "json", "yaml", "text"
	if env := os.Getenv("MAGLAB_OUTPUT_FORMAT"); env != "" {
		if f, err := ParseFormat(env); err == nil {
			return f
		}
	}

	// Piped output is for scripts: maglab keys | jq .
	if !IsTerminal() {
		return FormatJSON
	}
	return FormatText
}

// IsTerminal returns true if stdout is a terminal
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}
