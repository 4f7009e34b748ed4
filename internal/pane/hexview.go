package pane

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Dicklesworthstone/maglab/internal/tui/theme"
)

const (
	defaultBytesPerRow = 16
	defaultMaxBytes    = 4096
)

// HexViewOptions configures hex dump panes.
type HexViewOptions struct {
	// Path is the file to dump. Empty selects the running executable.
	Path        string
	BytesPerRow int
	MaxBytes    int
}

type hexView struct {
	path        string
	bytesPerRow int
	maxBytes    int
	styles      theme.Styles

	data    []byte
	size    int64
	modTime time.Time
	err     error
}

func newHexView(opts HexViewOptions, styles theme.Styles) *hexView {
	h := &hexView{
		path:        opts.Path,
		bytesPerRow: opts.BytesPerRow,
		maxBytes:    opts.MaxBytes,
		styles:      styles,
	}
	if h.bytesPerRow <= 0 {
		h.bytesPerRow = defaultBytesPerRow
	}
	if h.maxBytes <= 0 {
		h.maxBytes = defaultMaxBytes
	}
	if h.path == "" {
		if exe, err := os.Executable(); err == nil {
			h.path = exe
		}
	}
	h.load()
	return h
}

func (h *hexView) Kind() Kind { return HexView }

func (h *hexView) Title() string {
	if h.path == "" {
		return HexView.String()
	}
	return HexView.String() + ": " + filepath.Base(h.path)
}

// Refresh reloads the file when its modification time changed.
func (h *hexView) Refresh() {
	info, err := os.Stat(h.path)
	if err != nil || !info.ModTime().Equal(h.modTime) {
		h.load()
	}
}

func (h *hexView) Close() error { return nil }

func (h *hexView) load() {
	h.data, h.err = nil, nil
	if h.path == "" {
		h.err = errors.New("no file selected")
		return
	}
	f, err := os.Open(h.path)
	if err != nil {
		h.err = err
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		h.err = err
		return
	}
	h.size, h.modTime = info.Size(), info.ModTime()

	buf := make([]byte, h.maxBytes)
	n, err := io.ReadFull(f, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		h.err = err
		return
	}
	h.data = buf[:n]
}

// rowWidth shrinks the configured row so offset, hex and ASCII columns fit.
func (h *hexView) rowWidth(width int) int {
	n := h.bytesPerRow
	// "00000000  " + n*"xx " + " " + n ascii
	for n > 1 && 10+3*n+1+n > width {
		n /= 2
	}
	return n
}

func (h *hexView) Render(width, height int, focused bool) string {
	if h.err != nil {
		return fit([]string{h.styles.Error.Render(h.err.Error())}, width, height)
	}

	n := h.rowWidth(width)
	lines := make([]string, 0, height)
	lines = append(lines, h.styles.Dim.Render(fmt.Sprintf("%d bytes, showing %d", h.size, len(h.data))))
	for off := 0; off < len(h.data) && len(lines) < height; off += n {
		end := off + n
		if end > len(h.data) {
			end = len(h.data)
		}
		lines = append(lines, h.row(off, h.data[off:end], n))
	}
	return fit(lines, width, height)
}

func (h *hexView) row(off int, chunk []byte, n int) string {
	var hexCol, asciiCol strings.Builder
	for i := 0; i < n; i++ {
		if i < len(chunk) {
			fmt.Fprintf(&hexCol, "%02x ", chunk[i])
			c := chunk[i]
			if c < 0x20 || c > 0x7e {
				c = '.'
			}
			asciiCol.WriteByte(c)
		} else {
			hexCol.WriteString("   ")
		}
	}
	return h.styles.Offset.Render(fmt.Sprintf("%08x", off)) + "  " +
		h.styles.Normal.Render(hexCol.String()) + " " +
		h.styles.Dim.Render(asciiCol.String())
}
