package pane

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"

	"github.com/Dicklesworthstone/maglab/internal/tui/icons"
	"github.com/Dicklesworthstone/maglab/internal/tui/theme"
)

var plainStyles = theme.NewStyles(theme.Plain)

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{"FileManager", FileManager, false},
		{"file_manager", FileManager, false},
		{"fm", FileManager, false},
		{"HexView", HexView, false},
		{"hex-view", HexView, false},
		{"hex", HexView, false},
		{"Parser", Parser, false},
		{"disassembler", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseKind(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownKind) {
					t.Fatalf("ParseKind(%q) err = %v, want ErrUnknownKind", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseKind(%q) unexpected error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseKind(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestKindTextRoundTrip(t *testing.T) {
	for _, k := range Kinds {
		b, err := k.MarshalText()
		if err != nil {
			t.Fatal(err)
		}
		var back Kind
		if err := back.UnmarshalText(b); err != nil {
			t.Fatalf("UnmarshalText(%s): %v", b, err)
		}
		if back != k {
			t.Errorf("round trip %v -> %v", k, back)
		}
	}
}

func TestNewBuildsEveryKind(t *testing.T) {
	dir := t.TempDir()
	opts := Options{
		Styles:      plainStyles,
		FileManager: FileManagerOptions{Root: dir},
	}
	for _, k := range Kinds {
		p := New(k, opts)
		if p.Kind() != k {
			t.Errorf("New(%v).Kind() = %v", k, p.Kind())
		}
		if !strings.HasPrefix(p.Title(), k.String()) {
			t.Errorf("New(%v).Title() = %q", k, p.Title())
		}
		if err := p.Close(); err != nil {
			t.Errorf("Close() = %v", err)
		}
	}
}

func TestNewUnknownKindPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("New with an unknown kind should panic")
		}
	}()
	New(Kind(42), Options{})
}

func TestFitPadsAndClips(t *testing.T) {
	got := fit([]string{"abcdef", "gh", "ij", "kl"}, 4, 3)
	lines := strings.Split(got, "\n")
	if len(lines) != 3 {
		t.Fatalf("fit returned %d lines, want 3", len(lines))
	}
	if lines[0] != "abcd" {
		t.Errorf("line 0 = %q, want clipped", lines[0])
	}

	padded := strings.Split(fit([]string{"x"}, 10, 4), "\n")
	if len(padded) != 4 {
		t.Errorf("padded to %d lines, want 4", len(padded))
	}
	if fit([]string{"x"}, 0, 4) != "" {
		t.Error("zero width should render nothing")
	}
}

func TestFileManagerListsAndRefreshes(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "samples"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "a.bin"), make([]byte, 2048), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, ".hidden"), nil, 0o644); err != nil {
		t.Fatal(err)
	}

	fm := newFileManager(FileManagerOptions{Root: dir}, plainStyles)
	defer fm.Close()

	out := ansi.Strip(fm.Render(60, 10, true))
	if !strings.Contains(out, "samples/") {
		t.Errorf("listing missing directory:\n%s", out)
	}
	if !strings.Contains(out, "a.bin") || !strings.Contains(out, "2.0K") {
		t.Errorf("listing missing file or size:\n%s", out)
	}
	if strings.Contains(out, ".hidden") {
		t.Errorf("hidden file listed:\n%s", out)
	}
	if idx := strings.Index(out, "samples/"); idx > strings.Index(out, "a.bin") {
		t.Error("directories should sort before files")
	}

	if err := os.WriteFile(filepath.Join(dir, "b.bin"), nil, 0o644); err != nil {
		t.Fatal(err)
	}
	fm.Refresh()
	if strings.Contains(fm.Render(60, 10, true), "b.bin") {
		t.Error("Refresh without a change notification should keep the cached listing")
	}
	fm.dirty.Store(true)
	fm.Refresh()
	if !strings.Contains(fm.Render(60, 10, true), "b.bin") {
		t.Error("Refresh after a change notification should reload")
	}
}

func TestFileManagerMissingRoot(t *testing.T) {
	fm := newFileManager(FileManagerOptions{Root: filepath.Join(t.TempDir(), "gone")}, plainStyles)
	if fm.err == nil {
		t.Fatal("expected an error for a missing root")
	}
	if out := ansi.Strip(fm.Render(300, 3, false)); !strings.Contains(out, "gone") {
		t.Errorf("error not rendered: %q", out)
	}
}

func TestHexViewRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blob")
	data := []byte("MZ\x90\x00ABCDEFGHIJKLMNOPQRSTUVWXYZ")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	h := newHexView(HexViewOptions{Path: path, BytesPerRow: 16}, plainStyles)
	if h.Title() != "HexView: blob" {
		t.Errorf("Title() = %q", h.Title())
	}

	lines := strings.Split(ansi.Strip(h.Render(80, 10, false)), "\n")
	if !strings.Contains(lines[0], "30 bytes") {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "00000000  4d 5a 90 00 41") {
		t.Errorf("first row = %q", lines[1])
	}
	if !strings.HasSuffix(strings.TrimRight(lines[1], " "), "MZ..ABCDEFGHIJKL") {
		t.Errorf("ascii column = %q", lines[1])
	}
	if !strings.HasPrefix(lines[2], "00000010") {
		t.Errorf("second row = %q", lines[2])
	}
}

func TestHexViewNarrowRows(t *testing.T) {
	h := &hexView{bytesPerRow: 16}
	tests := []struct {
		width int
		want  int
	}{
		{80, 16},
		{75, 16},
		{74, 8},
		{30, 4},
		{5, 1},
	}
	for _, tt := range tests {
		if got := h.rowWidth(tt.width); got != tt.want {
			t.Errorf("rowWidth(%d) = %d, want %d", tt.width, got, tt.want)
		}
	}
}

func TestHexViewHonorsMaxBytes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "big")
	if err := os.WriteFile(path, make([]byte, 1000), 0o644); err != nil {
		t.Fatal(err)
	}
	h := newHexView(HexViewOptions{Path: path, MaxBytes: 64}, plainStyles)
	if len(h.data) != 64 {
		t.Errorf("loaded %d bytes, want 64", len(h.data))
	}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		head []byte
		want Format
	}{
		{[]byte{0x7f, 'E', 'L', 'F', 2}, FormatELF},
		{[]byte("MZ\x90\x00"), FormatPE},
		{[]byte{0xcf, 0xfa, 0xed, 0xfe}, FormatMachO},
		{[]byte{0xfe, 0xed, 0xfa, 0xce}, FormatMachO},
		{[]byte{0xca, 0xfe, 0xba, 0xbe}, FormatFat},
		{[]byte("#!/bin/sh"), FormatUnknown},
		{nil, FormatUnknown},
	}
	for _, tt := range tests {
		if got := Detect(tt.head); got != tt.want {
			t.Errorf("Detect(%x) = %s, want %s", tt.head, got, tt.want)
		}
	}
}

func TestParseRunningExecutable(t *testing.T) {
	exe, err := os.Executable()
	if err != nil {
		t.Skipf("no executable path: %v", err)
	}
	f, err := os.Open(exe)
	if err != nil {
		t.Skipf("cannot open test binary: %v", err)
	}
	defer f.Close()

	s, err := Parse(f)
	if err != nil {
		t.Fatalf("Parse(test binary) = %v", err)
	}
	if s.Format == FormatUnknown || s.Arch == "" {
		t.Errorf("summary = %+v", s)
	}
	if len(s.Sections) == 0 {
		t.Error("expected sections in the test binary")
	}
}

func TestParserRejectsText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("just some notes"), 0o644); err != nil {
		t.Fatal(err)
	}
	p := newParser(ParserOptions{Path: path}, plainStyles)
	if p.err == nil {
		t.Fatal("expected an error for a text file")
	}
	out := ansi.Strip(p.Render(20, 5, true))
	if !strings.Contains(out, "not an ELF") {
		t.Errorf("error not rendered: %q", out)
	}
}

func TestFileManagerIcons(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "lib"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "tool"), nil, 0o755); err != nil {
		t.Fatal(err)
	}

	fm := newFileManager(FileManagerOptions{Root: dir, Icons: icons.ASCII}, plainStyles)
	defer fm.Close()

	out := ansi.Strip(fm.Render(60, 10, true))
	for _, want := range []string{"[D] lib/", "[X] tool"} {
		if !strings.Contains(out, want) {
			t.Errorf("listing missing %q:\n%s", want, out)
		}
	}
}

func TestFileManagerPollingMarksDirty(t *testing.T) {
	dir := t.TempDir()
	fm := newFileManager(FileManagerOptions{
		Root:         dir,
		Watch:        true,
		Poll:         true,
		PollInterval: 20 * time.Millisecond,
	}, plainStyles)
	defer fm.Close()

	if fm.watcher == nil {
		t.Fatal("polling watcher not started")
	}
	if err := os.WriteFile(filepath.Join(dir, "new.bin"), []byte{1}, 0o644); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(3 * time.Second)
	for !fm.dirty.Load() {
		if time.Now().After(deadline) {
			t.Fatal("poll never reported the new file")
		}
		time.Sleep(10 * time.Millisecond)
	}
	fm.Refresh()
	if !strings.Contains(ansi.Strip(fm.Render(60, 10, true)), "new.bin") {
		t.Error("Refresh after poll should list the new file")
	}
}
