package pane

import (
	"bytes"
	"debug/elf"
	"debug/macho"
	"debug/pe"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/muesli/reflow/wordwrap"

	"github.com/Dicklesworthstone/maglab/internal/tui/theme"
)

// ParserOptions configures binary header parser panes.
type ParserOptions struct {
	// Path is the binary to parse. Empty selects the running executable.
	Path string
}

// Format is the container format detected by the parser pane.
type Format string

const (
	FormatELF     Format = "ELF"
	FormatPE      Format = "PE"
	FormatMachO   Format = "Mach-O"
	FormatFat     Format = "Mach-O (universal)"
	FormatUnknown Format = "unknown"
)

// Summary is what the parser pane shows for a binary.
type Summary struct {
	Format   Format
	Arch     string
	Type     string
	Entry    uint64
	Sections []string
}

var (
	magicELF   = []byte{0x7f, 'E', 'L', 'F'}
	magicPE    = []byte{'M', 'Z'}
	magicFat   = []byte{0xca, 0xfe, 0xba, 0xbe}
	magicMachO = [][]byte{
		{0xfe, 0xed, 0xfa, 0xce}, {0xce, 0xfa, 0xed, 0xfe},
		{0xfe, 0xed, 0xfa, 0xcf}, {0xcf, 0xfa, 0xed, 0xfe},
	}
)

// Detect identifies the container format from the leading magic bytes.
func Detect(head []byte) Format {
	switch {
	case bytes.HasPrefix(head, magicELF):
		return FormatELF
	case bytes.HasPrefix(head, magicPE):
		return FormatPE
	case bytes.HasPrefix(head, magicFat):
		return FormatFat
	}
	for _, m := range magicMachO {
		if bytes.HasPrefix(head, m) {
			return FormatMachO
		}
	}
	return FormatUnknown
}

// Parse reads the headers of the binary behind r.
func Parse(r io.ReaderAt) (Summary, error) {
	head := make([]byte, 4)
	if _, err := r.ReadAt(head, 0); err != nil {
		return Summary{}, fmt.Errorf("read magic: %w", err)
	}

	s := Summary{Format: Detect(head)}
	switch s.Format {
	case FormatELF:
		f, err := elf.NewFile(r)
		if err != nil {
			return s, fmt.Errorf("parse elf: %w", err)
		}
		s.Arch, s.Type, s.Entry = f.Machine.String(), f.Type.String(), f.Entry
		for _, sec := range f.Sections {
			if sec.Name != "" {
				s.Sections = append(s.Sections, sec.Name)
			}
		}
	case FormatPE:
		f, err := pe.NewFile(r)
		if err != nil {
			return s, fmt.Errorf("parse pe: %w", err)
		}
		s.Arch = peMachine(f.Machine)
		s.Type = "image"
		if f.Characteristics&pe.IMAGE_FILE_DLL != 0 {
			s.Type = "dll"
		}
		switch oh := f.OptionalHeader.(type) {
		case *pe.OptionalHeader32:
			s.Entry = uint64(oh.ImageBase) + uint64(oh.AddressOfEntryPoint)
		case *pe.OptionalHeader64:
			s.Entry = oh.ImageBase + uint64(oh.AddressOfEntryPoint)
		}
		for _, sec := range f.Sections {
			s.Sections = append(s.Sections, sec.Name)
		}
	case FormatMachO:
		f, err := macho.NewFile(r)
		if err != nil {
			return s, fmt.Errorf("parse mach-o: %w", err)
		}
		s.Arch, s.Type = f.Cpu.String(), f.Type.String()
		for _, sec := range f.Sections {
			s.Sections = append(s.Sections, sec.Seg+","+sec.Name)
		}
	case FormatFat:
		f, err := macho.NewFatFile(r)
		if err != nil {
			return s, fmt.Errorf("parse universal mach-o: %w", err)
		}
		archs := make([]string, 0, len(f.Arches))
		for _, a := range f.Arches {
			archs = append(archs, a.Cpu.String())
		}
		s.Arch = strings.Join(archs, ", ")
		s.Type = "universal"
	default:
		return s, errors.New("not an ELF, PE or Mach-O binary")
	}
	return s, nil
}

func peMachine(m uint16) string {
	switch m {
	case pe.IMAGE_FILE_MACHINE_I386:
		return "i386"
	case pe.IMAGE_FILE_MACHINE_AMD64:
		return "amd64"
	case pe.IMAGE_FILE_MACHINE_ARMNT:
		return "arm"
	case pe.IMAGE_FILE_MACHINE_ARM64:
		return "arm64"
	default:
		return fmt.Sprintf("machine 0x%04x", m)
	}
}

type parserPane struct {
	path   string
	styles theme.Styles

	summary Summary
	modTime time.Time
	err     error
}

func newParser(opts ParserOptions, styles theme.Styles) *parserPane {
	p := &parserPane{path: opts.Path, styles: styles}
	if p.path == "" {
		if exe, err := os.Executable(); err == nil {
			p.path = exe
		}
	}
	p.load()
	return p
}

func (p *parserPane) Kind() Kind { return Parser }

func (p *parserPane) Title() string {
	if p.path == "" {
		return Parser.String()
	}
	return Parser.String() + ": " + filepath.Base(p.path)
}

func (p *parserPane) Refresh() {
	info, err := os.Stat(p.path)
	if err != nil || !info.ModTime().Equal(p.modTime) {
		p.load()
	}
}

func (p *parserPane) Close() error { return nil }

func (p *parserPane) load() {
	p.summary, p.err = Summary{}, nil
	if p.path == "" {
		p.err = errors.New("no file selected")
		return
	}
	f, err := os.Open(p.path)
	if err != nil {
		p.err = err
		return
	}
	defer f.Close()

	if info, err := f.Stat(); err == nil {
		p.modTime = info.ModTime()
	}
	p.summary, p.err = Parse(f)
}

func (p *parserPane) Render(width, height int, focused bool) string {
	if p.err != nil {
		return fit(strings.Split(wordwrap.String(p.styles.Error.Render(p.err.Error()), width), "\n"), width, height)
	}

	s := p.summary
	field := func(k, v string) string {
		return p.styles.Dim.Render(fmt.Sprintf("%-9s", k)) + p.styles.Normal.Render(v)
	}
	lines := []string{
		field("format", string(s.Format)),
		field("arch", s.Arch),
		field("type", s.Type),
	}
	if s.Entry != 0 {
		lines = append(lines, field("entry", fmt.Sprintf("0x%x", s.Entry)))
	}
	if len(s.Sections) > 0 {
		lines = append(lines, field("sections", fmt.Sprintf("%d", len(s.Sections))))
		wrapped := wordwrap.String(strings.Join(s.Sections, " "), width)
		for _, l := range strings.Split(wrapped, "\n") {
			lines = append(lines, p.styles.Offset.Render(l))
		}
	}
	return fit(lines, width, height)
}
