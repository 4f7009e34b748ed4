package icons

import (
	"reflect"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func assertNoEmptyIcons(t *testing.T, icons IconSet) {
	t.Helper()

	v := reflect.ValueOf(icons)
	typ := v.Type()
	for i := 0; i < v.NumField(); i++ {
		if v.Field(i).String() == "" {
			t.Fatalf("empty icon field %s", typ.Field(i).Name)
		}
	}
}

func assertMaxIconWidth(t *testing.T, icons IconSet, maxWidth int) {
	t.Helper()

	v := reflect.ValueOf(icons)
	typ := v.Type()
	for i := 0; i < v.NumField(); i++ {
		value := v.Field(i).String()
		if w := lipgloss.Width(value); w > maxWidth {
			t.Fatalf("icon field %s too wide: %q (width=%d, max=%d)", typ.Field(i).Name, value, w, maxWidth)
		}
	}
}

func TestDetectDefaults(t *testing.T) {
	t.Setenv("MAGLAB_ICONS", "")
	if got := Detect(); got != ASCII {
		t.Errorf("Detect() = %+v, want ASCII", got)
	}
}

func TestNamed(t *testing.T) {
	tests := []struct {
		name       string
		wantFolder string
		maxWidth   int
	}{
		{"unicode", "▣", 1},
		{"ascii", "[D]", 3},
		{"bogus", "[D]", 3},
		{"nerd", NerdFonts.Folder, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Named(tt.name)
			if got.Folder != tt.wantFolder {
				t.Errorf("Folder = %q, want %q", got.Folder, tt.wantFolder)
			}
			assertNoEmptyIcons(t, got)
			assertMaxIconWidth(t, got, tt.maxWidth)
		})
	}
}

func TestNamedNone(t *testing.T) {
	if Named("none").Enabled() {
		t.Error("none should disable icons")
	}
	if !ASCII.Enabled() {
		t.Error("ASCII should be enabled")
	}
}

func TestDetectAuto(t *testing.T) {
	t.Setenv("MAGLAB_ICONS", "auto")
	t.Setenv("NERD_FONTS", "0")
	t.Setenv("LC_ALL", "C")

	icons := Detect()
	if icons != ASCII {
		t.Errorf("auto without Nerd Fonts or UTF-8 = %+v, want ASCII", icons)
	}

	t.Setenv("LC_ALL", "en_US.UTF-8")
	if got := Detect().Folder; got != Unicode.Folder {
		t.Errorf("auto with UTF-8 Folder = %q", got)
	}
}

func TestWithFallbackFillsMissingIcons(t *testing.T) {
	out := NerdFonts.WithFallback(Unicode).WithFallback(ASCII)
	assertNoEmptyIcons(t, out)
	if out.Object != Unicode.Object {
		t.Errorf("Object = %q, want the Unicode fallback", out.Object)
	}
}

func TestFor(t *testing.T) {
	tests := []struct {
		name           string
		dir, exe, link bool
		want           string
	}{
		{"src", true, false, false, ASCII.Folder},
		{"a.out", false, true, false, ASCII.Executable},
		{"lib.SO", false, false, false, ASCII.Object},
		{"notes.txt", false, false, false, ASCII.File},
		{"current", true, false, true, ASCII.Symlink},
	}
	for _, tt := range tests {
		if got := ASCII.For(tt.name, tt.dir, tt.exe, tt.link); got != tt.want {
			t.Errorf("For(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}
