// Package app is the dashboard root: the tab set, the header and help bar,
// and the mapping from commands to layout edits.
package app

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/Dicklesworthstone/maglab/internal/config"
	"github.com/Dicklesworthstone/maglab/internal/keys"
	"github.com/Dicklesworthstone/maglab/internal/pane"
	"github.com/Dicklesworthstone/maglab/internal/tiling"
	"github.com/Dicklesworthstone/maglab/internal/tui/layout"
	"github.com/Dicklesworthstone/maglab/internal/tui/theme"
	"github.com/Dicklesworthstone/maglab/internal/workspace"
)

// DefaultTitle is shown in the header border.
const DefaultTitle = "MagLab"

// headerHeight is the bordered tab bar: top border, titles, bottom border.
const headerHeight = 3

// Options configures a new App.
type Options struct {
	Title  string
	Tabs   []config.TabLayout
	Keys   *keys.Table
	Styles theme.Styles
	// Panes are the settings every pane, initial or added, is built with.
	Panes pane.Options
}

// App implements the dispatcher's Root.
type App struct {
	title  string
	tabs   *workspace.TabSet
	keys   *keys.Table
	styles theme.Styles
	panes  pane.Options
	help   help.Model
	quit   bool
	logger *slog.Logger
}

// New builds the initial tabs. Every tab needs at least one non-empty column.
func New(opts Options) (*App, error) {
	if len(opts.Tabs) == 0 {
		return nil, errors.New("app: no tabs configured")
	}
	if opts.Title == "" {
		opts.Title = DefaultTitle
	}
	if opts.Keys == nil {
		opts.Keys = keys.Default()
	}
	opts.Panes.Styles = opts.Styles

	var spaces []*workspace.Workspace
	for _, tab := range opts.Tabs {
		ws, err := buildWorkspace(tab, opts.Panes)
		if err != nil {
			for _, built := range spaces {
				built.Close()
			}
			return nil, err
		}
		spaces = append(spaces, ws)
	}

	h := help.New()
	h.Styles.ShortKey = opts.Styles.Normal.Bold(true)
	h.Styles.ShortDesc = opts.Styles.Dim
	h.Styles.ShortSeparator = opts.Styles.Divider
	h.Styles.Ellipsis = opts.Styles.Dim

	return &App{
		title:  opts.Title,
		tabs:   workspace.NewTabSet(spaces...),
		keys:   opts.Keys,
		styles: opts.Styles,
		panes:  opts.Panes,
		help:   h,
		logger: slog.Default(),
	}, nil
}

func buildWorkspace(tab config.TabLayout, opts pane.Options) (*workspace.Workspace, error) {
	if len(tab.Columns) == 0 {
		return nil, errors.New("app: tab " + tab.Title + " has no columns")
	}
	strips := make([]*tiling.Strip, 0, len(tab.Columns))
	for _, kinds := range tab.Columns {
		if len(kinds) == 0 {
			return nil, errors.New("app: tab " + tab.Title + " has an empty column")
		}
		panes := make([]pane.Pane, len(kinds))
		for i, k := range kinds {
			panes[i] = pane.New(k, opts)
		}
		strips = append(strips, tiling.NewStrip(panes...))
	}
	return workspace.New(tab.Title, tiling.NewGrid(strips...)), nil
}

// Tabs exposes the tab set.
func (a *App) Tabs() *workspace.TabSet { return a.tabs }

// Done reports whether a quit was requested.
func (a *App) Done() bool { return a.quit }

// Apply performs cmd against the active tab.
func (a *App) Apply(cmd keys.Command) {
	ws := a.tabs.Active()
	switch cmd {
	case keys.FocusLeft:
		ws.FocusLeft()
	case keys.FocusRight:
		ws.FocusRight()
	case keys.FocusUp:
		ws.FocusUp()
	case keys.FocusDown:
		ws.FocusDown()
	case keys.NewPane:
		kind := NextKind(ws.Grid().FocusedStrip().Focused().Kind())
		ws.AddPlugin(pane.New(kind, a.panes))
		a.logger.Debug("pane added", "tab", ws.Title(), "kind", kind.String())
	case keys.RemovePane:
		a.removePane()
	case keys.TabLeft:
		a.tabs.Previous()
	case keys.TabRight:
		a.tabs.Next()
	case keys.Quit:
		a.quit = true
	default:
		a.logger.Warn("unhandled command", "command", string(cmd))
	}
}

// removePane drops the focused pane. Removing the only pane of a tab drops
// the tab, and removing the only pane of the only tab quits.
func (a *App) removePane() {
	ws := a.tabs.Active()
	if !ws.RemovePlugin() {
		return
	}
	if a.tabs.RemoveActive() {
		a.logger.Info("last pane removed, quitting")
		a.quit = true
		return
	}
	a.logger.Debug("tab removed", "tab", ws.Title())
}

// NextKind returns the kind after k, wrapping around.
func NextKind(k pane.Kind) pane.Kind {
	for i, kind := range pane.Kinds {
		if kind == k {
			return pane.Kinds[(i+1)%len(pane.Kinds)]
		}
	}
	return pane.Kinds[0]
}

// Tick refreshes the panes of the active tab.
func (a *App) Tick() {
	a.tabs.Active().Grid().Each(func(_, _ int, p pane.Pane) {
		p.Refresh()
	})
}

// Close releases every pane.
func (a *App) Close() { a.tabs.Close() }

// View renders the header, the active tab and the help bar into exactly
// height lines of width cells.
func (a *App) View(width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}

	headerH := min(headerHeight, height)
	helpH := 0
	if height-headerH >= 2 {
		helpH = 1
	}
	bodyH := height - headerH - helpH

	parts := []string{fit(a.header(width), width, headerH)}
	if bodyH > 0 {
		area := layout.Rect{X: 0, Y: headerH, Width: width, Height: bodyH}
		parts = append(parts, fit(a.tabs.Active().Draw(area, a.styles), width, bodyH))
	}
	if helpH > 0 {
		parts = append(parts, fit(a.helpBar(width), width, helpH))
	}
	return strings.Join(parts, "\n")
}

func (a *App) header(width int) string {
	if width < 2 {
		return ""
	}
	inner := width - 2
	b := a.styles.Header.GetBorderStyle()
	border := lipgloss.NewStyle().Foreground(a.styles.Header.GetBorderTopForeground())

	title := layout.Truncate(a.title, inner)
	top := border.Render(b.TopLeft) + a.styles.AppTitle.Render(title) +
		border.Render(strings.Repeat(b.Top, inner-lipgloss.Width(title))+b.TopRight)

	titles := a.tabs.Titles()
	rendered := make([]string, len(titles))
	for i, t := range titles {
		style := a.styles.Tab
		if i == a.tabs.ActiveIndex() {
			style = a.styles.ActiveTab
		}
		rendered[i] = style.Render(t)
	}
	tabs := ansi.Truncate(strings.Join(rendered, a.styles.Divider.Render(b.Left)), inner, "…")
	middle := border.Render(b.Left) + tabs +
		strings.Repeat(" ", max(inner-lipgloss.Width(tabs), 0)) + border.Render(b.Right)

	bottom := border.Render(b.BottomLeft + strings.Repeat(b.Bottom, inner) + b.BottomRight)
	return top + "\n" + middle + "\n" + bottom
}

func (a *App) helpBar(width int) string {
	a.help.Width = max(width-2, 0)
	return a.styles.Help.Render(a.help.View(a.keys))
}

// fit clips or pads s to exactly width x height cells.
func fit(s string, width, height int) string {
	lines := strings.Split(s, "\n")
	if s == "" {
		lines = nil
	}
	out := make([]string, height)
	for i := range out {
		var line string
		if i < len(lines) {
			line = lines[i]
		}
		if lipgloss.Width(line) > width {
			line = ansi.Truncate(line, width, "")
		}
		out[i] = line + strings.Repeat(" ", width-lipgloss.Width(line))
	}
	return strings.Join(out, "\n")
}
