// Package pane implements the plugin panes hosted by the tiling grid.
//
// The set of kinds is closed: FileManager, HexView and Parser. Panes are built
// only through New and are owned by exactly one strip until they are removed
// and closed.
package pane

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/Dicklesworthstone/maglab/internal/tui/theme"
)

// ErrUnknownKind is returned by ParseKind for names outside the closed set.
var ErrUnknownKind = errors.New("unknown pane kind")

// Kind identifies one of the pane variants.
type Kind int

const (
	FileManager Kind = iota
	HexView
	Parser
)

// Kinds lists every pane kind in declaration order.
var Kinds = []Kind{FileManager, HexView, Parser}

func (k Kind) String() string {
	switch k {
	case FileManager:
		return "FileManager"
	case HexView:
		return "HexView"
	case Parser:
		return "Parser"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind accepts the config spellings of a kind, case-insensitively.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.NewReplacer("_", "", "-", "", " ", "").Replace(s)) {
	case "filemanager", "fm", "files":
		return FileManager, nil
	case "hexview", "hex":
		return HexView, nil
	case "parser", "parse":
		return Parser, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// MarshalText writes the canonical kind name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText parses any spelling accepted by ParseKind.
func (k *Kind) UnmarshalText(b []byte) error {
	parsed, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Pane is the render contract shared by every kind.
type Pane interface {
	Kind() Kind
	Title() string
	// Render returns the body sized to width x height cells. Borders and
	// titles are drawn by the caller.
	Render(width, height int, focused bool) string
	// Refresh runs on every tick on the consumer goroutine.
	Refresh()
	// Close releases watchers and file handles.
	Close() error
}

// Options carries the per-kind settings every new pane is built with.
type Options struct {
	Styles      theme.Styles
	FileManager FileManagerOptions
	HexView     HexViewOptions
	Parser      ParserOptions
}

// New builds a pane of the given kind. It panics for kinds outside the
// closed set.
func New(kind Kind, opts Options) Pane {
	switch kind {
	case FileManager:
		return newFileManager(opts.FileManager, opts.Styles)
	case HexView:
		return newHexView(opts.HexView, opts.Styles)
	case Parser:
		return newParser(opts.Parser, opts.Styles)
	default:
		panic(fmt.Sprintf("pane: unknown kind %d", int(kind)))
	}
}

// fit clips lines to width cells and pads or truncates to height rows.
func fit(lines []string, width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	out := make([]string, len(lines), height)
	for i, l := range lines {
		out[i] = ansi.Truncate(l, width, "")
	}
	for len(out) < height {
		out = append(out, "")
	}
	return strings.Join(out, "\n")
}
