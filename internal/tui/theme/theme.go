package theme

import (
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme is the palette the dashboard frame and panes draw with.
type Theme struct {
	Name string

	// Base colors
	Base    lipgloss.Color // Background
	Surface lipgloss.Color // Header and status bar background
	Border  lipgloss.Color // Unfocused pane borders

	// Text colors
	Text    lipgloss.Color // Primary text
	Subtext lipgloss.Color // Secondary text
	Overlay lipgloss.Color // Dimmed text

	// Accents
	Focus     lipgloss.Color // Focused pane border
	ActiveTab lipgloss.Color // Selected tab in the header
	Title     lipgloss.Color // Application title
	Offset    lipgloss.Color // Hex view offsets
	Directory lipgloss.Color // File manager directories
	Error     lipgloss.Color
}

// Classic uses only the 16-color palette.
var Classic = Theme{
	Name:      "classic",
	Base:      lipgloss.Color(""),
	Surface:   lipgloss.Color(""),
	Border:    lipgloss.Color("7"),
	Text:      lipgloss.Color("7"),
	Subtext:   lipgloss.Color("7"),
	Overlay:   lipgloss.Color("8"),
	Focus:     lipgloss.Color("1"),
	ActiveTab: lipgloss.Color("3"),
	Title:     lipgloss.Color("7"),
	Offset:    lipgloss.Color("6"),
	Directory: lipgloss.Color("4"),
	Error:     lipgloss.Color("1"),
}

// CatppuccinMocha is the default dark theme.
var CatppuccinMocha = Theme{
	Name:      "mocha",
	Base:      lipgloss.Color("#1e1e2e"),
	Surface:   lipgloss.Color("#313244"),
	Border:    lipgloss.Color("#585b70"),
	Text:      lipgloss.Color("#cdd6f4"),
	Subtext:   lipgloss.Color("#a6adc8"),
	Overlay:   lipgloss.Color("#6c7086"),
	Focus:     lipgloss.Color("#f38ba8"), // Red
	ActiveTab: lipgloss.Color("#f9e2af"), // Yellow
	Title:     lipgloss.Color("#cba6f7"), // Mauve
	Offset:    lipgloss.Color("#89dceb"), // Sky
	Directory: lipgloss.Color("#89b4fa"), // Blue
	Error:     lipgloss.Color("#f38ba8"),
}

// CatppuccinMacchiato - darker variant
var CatppuccinMacchiato = Theme{
	Name:      "macchiato",
	Base:      lipgloss.Color("#24273a"),
	Surface:   lipgloss.Color("#363a4f"),
	Border:    lipgloss.Color("#5b6078"),
	Text:      lipgloss.Color("#cad3f5"),
	Subtext:   lipgloss.Color("#a5adcb"),
	Overlay:   lipgloss.Color("#6e738d"),
	Focus:     lipgloss.Color("#ed8796"),
	ActiveTab: lipgloss.Color("#eed49f"),
	Title:     lipgloss.Color("#c6a0f6"),
	Offset:    lipgloss.Color("#91d7e3"),
	Directory: lipgloss.Color("#8aadf4"),
	Error:     lipgloss.Color("#ed8796"),
}

// CatppuccinLatte - light theme for light terminals
var CatppuccinLatte = Theme{
	Name:      "latte",
	Base:      lipgloss.Color("#eff1f5"),
	Surface:   lipgloss.Color("#ccd0da"),
	Border:    lipgloss.Color("#acb0be"),
	Text:      lipgloss.Color("#4c4f69"),
	Subtext:   lipgloss.Color("#6c6f85"),
	Overlay:   lipgloss.Color("#7c7f93"),
	Focus:     lipgloss.Color("#d20f39"),
	ActiveTab: lipgloss.Color("#df8e1d"),
	Title:     lipgloss.Color("#8839ef"),
	Offset:    lipgloss.Color("#04a5e5"),
	Directory: lipgloss.Color("#1e66f5"),
	Error:     lipgloss.Color("#d20f39"),
}

// Nord - popular arctic theme
var Nord = Theme{
	Name:      "nord",
	Base:      lipgloss.Color("#2e3440"),
	Surface:   lipgloss.Color("#3b4252"),
	Border:    lipgloss.Color("#4c566a"),
	Text:      lipgloss.Color("#eceff4"),
	Subtext:   lipgloss.Color("#d8dee9"),
	Overlay:   lipgloss.Color("#7b88a1"),
	Focus:     lipgloss.Color("#bf616a"),
	ActiveTab: lipgloss.Color("#ebcb8b"),
	Title:     lipgloss.Color("#b48ead"),
	Offset:    lipgloss.Color("#88c0d0"),
	Directory: lipgloss.Color("#81a1c1"),
	Error:     lipgloss.Color("#bf616a"),
}

// Plain is a no-color theme that uses empty/default colors.
// Used when NO_COLOR is set or for accessibility needs.
var Plain = Theme{Name: "plain"}

// Names lists the accepted theme names in display order.
var Names = []string{"auto", "classic", "mocha", "macchiato", "latte", "nord", "plain"}

// NoColorEnabled returns true if color output should be disabled.
// Respects the NO_COLOR standard (https://no-color.org/):
// - If NO_COLOR exists in environment (any value), colors are disabled
// - MAGLAB_NO_COLOR=1 also disables colors
// - MAGLAB_NO_COLOR=0 forces colors ON (overrides NO_COLOR)
func NoColorEnabled() bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("MAGLAB_NO_COLOR"))) {
	case "0", "false", "no", "off":
		return false
	case "1", "true", "yes", "on":
		return true
	}

	_, noColorSet := os.LookupEnv("NO_COLOR")
	return noColorSet
}

// Known reports whether name selects a theme.
func Known(name string) bool {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return true
	}
	for _, n := range Names {
		if n == name {
			return true
		}
	}
	return false
}

// FromName returns a theme by name
func FromName(name string) Theme {
	if NoColorEnabled() {
		return Plain
	}

	switch strings.ToLower(strings.TrimSpace(name)) {
	case "plain", "none", "no-color", "nocolor":
		return Plain
	case "classic":
		return Classic
	case "macchiato":
		return CatppuccinMacchiato
	case "nord":
		return Nord
	case "latte", "light":
		return CatppuccinLatte
	case "mocha":
		return CatppuccinMocha
	default:
		return autoTheme()
	}
}

// detectDarkBackground inspects the terminal to determine if a dark background is in use.
// It is defined as a variable for testability.
var detectDarkBackground = func() bool {
	output := termenv.NewOutput(os.Stdout)
	return output.HasDarkBackground()
}

var (
	cachedAutoTheme Theme
	autoThemeOnce   sync.Once
)

// resetAutoTheme resets the cached auto theme for testing purposes.
var resetAutoTheme = func() {
	autoThemeOnce = sync.Once{}
	cachedAutoTheme = Theme{}
}

func autoTheme() Theme {
	autoThemeOnce.Do(func() {
		cachedAutoTheme = CatppuccinMocha

		defer func() {
			if recover() != nil {
				cachedAutoTheme = CatppuccinMocha
			}
		}()

		if !detectDarkBackground() {
			cachedAutoTheme = CatppuccinLatte
		}
	})
	return cachedAutoTheme
}

// Styles contains pre-built lipgloss styles for the theme
type Styles struct {
	// Frame
	Header    lipgloss.Style
	AppTitle  lipgloss.Style
	Tab       lipgloss.Style
	ActiveTab lipgloss.Style
	Divider   lipgloss.Style
	Help      lipgloss.Style

	// Panes
	Pane        lipgloss.Style
	FocusedPane lipgloss.Style
	PaneTitle   lipgloss.Style

	// Pane bodies
	Normal    lipgloss.Style
	Dim       lipgloss.Style
	Offset    lipgloss.Style
	Directory lipgloss.Style
	Error     lipgloss.Style
}

// NewStyles creates a Styles instance from a theme
func NewStyles(t Theme) Styles {
	styles := Styles{
		Header: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(t.Border),

		AppTitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Title),

		Tab: lipgloss.NewStyle().
			Foreground(t.Text).
			Padding(0, 1),

		ActiveTab: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.ActiveTab).
			Padding(0, 1),

		Divider: lipgloss.NewStyle().
			Foreground(t.Overlay),

		Help: lipgloss.NewStyle().
			Foreground(t.Overlay).
			Padding(0, 1),

		Pane: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(t.Border),

		FocusedPane: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Focus),

		PaneTitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Subtext),

		Normal: lipgloss.NewStyle().
			Foreground(t.Text),

		Dim: lipgloss.NewStyle().
			Foreground(t.Overlay),

		Offset: lipgloss.NewStyle().
			Foreground(t.Offset),

		Directory: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Directory),

		Error: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Error),
	}

	// Without color the focused pane and active tab must still stand out.
	if t == Plain {
		styles.FocusedPane = styles.FocusedPane.Border(lipgloss.ThickBorder())
		styles.ActiveTab = styles.ActiveTab.Reverse(true)
		styles.Error = styles.Error.Underline(true)
	}

	return styles
}
