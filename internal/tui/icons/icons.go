// Package icons holds the glyphs that mark file manager entries.
package icons

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
)

// IconSet is one glyph per entry type.
type IconSet struct {
	Folder     string
	File       string
	Executable string
	Symlink    string
	Object     string
}

// NerdFonts needs a patched font. Glyphs it lacks come from a fallback.
var NerdFonts = IconSet{
	Folder:     "\uf07b",
	File:       "\uf15b",
	Executable: "\uf489",
	Symlink:    "\uf0c1",
}

// Unicode uses box-drawing shapes every UTF-8 terminal can show.
var Unicode = IconSet{
	Folder:     "▣",
	File:       "▤",
	Executable: "▶",
	Symlink:    "↪",
	Object:     "◆",
}

// ASCII is the fallback for terminals without Unicode.
var ASCII = IconSet{
	Folder:     "[D]",
	File:       "[F]",
	Executable: "[X]",
	Symlink:    "[L]",
	Object:     "[O]",
}

// objectExts are compiled artifacts that are not executable themselves.
var objectExts = map[string]bool{
	".o": true, ".so": true, ".dylib": true, ".dll": true, ".a": true, ".obj": true, ".sys": true,
}

// WithFallback fills every empty glyph of i from fallback.
func (i IconSet) WithFallback(fallback IconSet) IconSet {
	out := i
	dst := reflect.ValueOf(&out).Elem()
	fb := reflect.ValueOf(fallback)

	for idx := 0; idx < dst.NumField(); idx++ {
		f := dst.Field(idx)
		if f.Kind() != reflect.String || f.String() != "" {
			continue
		}
		f.SetString(fb.Field(idx).String())
	}
	return out
}

// Enabled reports whether the set has any glyphs. The zero IconSet disables
// the icon column.
func (i IconSet) Enabled() bool {
	return i != IconSet{}
}

// For picks the glyph of a directory entry.
func (i IconSet) For(name string, dir, exe, link bool) string {
	switch {
	case link:
		return i.Symlink
	case dir:
		return i.Folder
	case exe:
		return i.Executable
	case objectExts[strings.ToLower(filepath.Ext(name))]:
		return i.Object
	default:
		return i.File
	}
}

// HasNerdFonts detects if the terminal likely supports Nerd Fonts
func HasNerdFonts() bool {
	if v := os.Getenv("NERD_FONTS"); v != "" {
		return v == "1"
	}

	// Powerlevel10k needs a Nerd Font.
	home, _ := os.UserHomeDir()
	if _, err := os.Stat(filepath.Join(home, ".p10k.zsh")); err == nil {
		return true
	}

	switch os.Getenv("TERM_PROGRAM") {
	case "iTerm.app", "WezTerm", "kitty":
		return true
	}
	return os.Getenv("KITTY_WINDOW_ID") != "" || os.Getenv("WEZTERM_PANE") != ""
}

// HasUnicode detects if the terminal supports Unicode
func HasUnicode() bool {
	for _, v := range []string{os.Getenv("LC_ALL"), os.Getenv("LC_CTYPE"), os.Getenv("LANG")} {
		if v == "" {
			continue
		}
		v = strings.ToLower(v)
		return strings.Contains(v, "utf-8") || strings.Contains(v, "utf8")
	}
	return false
}

// Names lists the set names Named accepts.
var Names = []string{"auto", "nerd", "unicode", "ascii", "none"}

// Known reports whether name selects a set.
func Known(name string) bool {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "auto", "nerd", "nerdfonts", "unicode", "ascii", "none", "off":
		return true
	}
	return false
}

// Detect returns the set named by MAGLAB_ICONS: nerd, unicode, ascii, none
// or auto. Unset means ASCII.
func Detect() IconSet {
	return Named(os.Getenv("MAGLAB_ICONS"))
}

// Named returns the set for name. Unknown names give ASCII.
func Named(name string) IconSet {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "nerd", "nerdfonts":
		return NerdFonts.WithFallback(Unicode).WithFallback(ASCII)
	case "unicode":
		return Unicode.WithFallback(ASCII)
	case "none", "off":
		return IconSet{}
	case "auto":
		if HasNerdFonts() {
			return NerdFonts.WithFallback(Unicode).WithFallback(ASCII)
		}
		if HasUnicode() {
			return Unicode.WithFallback(ASCII)
		}
	}
	return ASCII
}
