// Package workspace wraps a tiling grid as a titled tab and keeps the ordered
// set of tabs the dashboard switches between.
package workspace

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Dicklesworthstone/maglab/internal/pane"
	"github.com/Dicklesworthstone/maglab/internal/tiling"
	"github.com/Dicklesworthstone/maglab/internal/tui/layout"
	"github.com/Dicklesworthstone/maglab/internal/tui/theme"
)

// Workspace is one tab: a title and the grid of panes under it.
type Workspace struct {
	title string
	grid  *tiling.Grid
}

// New returns a workspace over grid. The grid must hold at least one pane.
func New(title string, grid *tiling.Grid) *Workspace {
	if grid == nil || grid.Len() == 0 {
		panic("workspace: " + title + " has no panes")
	}
	return &Workspace{title: title, grid: grid}
}

// Title returns the tab title.
func (w *Workspace) Title() string { return w.title }

// Grid exposes the underlying grid for inspection.
func (w *Workspace) Grid() *tiling.Grid { return w.grid }

// FocusLeft moves focus to the previous column, wrapping at the edge.
func (w *Workspace) FocusLeft() { w.grid.FocusPrevious() }

// FocusRight moves focus to the next column, wrapping at the edge.
func (w *Workspace) FocusRight() { w.grid.FocusNext() }

// FocusUp moves focus to the pane above within the focused column.
func (w *Workspace) FocusUp() { w.grid.FocusedStrip().FocusPrevious() }

// FocusDown moves focus to the pane below within the focused column.
func (w *Workspace) FocusDown() { w.grid.FocusedStrip().FocusNext() }

// AddPlugin places p right of the focused column and focuses it.
func (w *Workspace) AddPlugin(p pane.Pane) { w.grid.AddPaneRight(p) }

// RemovePlugin removes and closes the focused pane. When that pane is the
// only one left it reports true and leaves the workspace untouched; the
// owner decides what an emptied tab means.
func (w *Workspace) RemovePlugin() (empty bool) {
	if w.grid.Len() == 1 && w.grid.FocusedStrip().Len() == 1 {
		return true
	}
	p := w.grid.RemoveFocusedPane()
	if err := p.Close(); err != nil {
		slog.Warn("closing pane", "tab", w.title, "pane", p.Title(), "error", err)
	}
	return false
}

// Close closes every pane in the workspace.
func (w *Workspace) Close() {
	w.grid.Each(func(col, row int, p pane.Pane) {
		if err := p.Close(); err != nil {
			slog.Warn("closing pane", "tab", w.title, "pane", p.Title(), "error", err)
		}
	})
}

// Draw renders the grid into area. Geometry is recomputed on every call.
func (w *Workspace) Draw(area layout.Rect, styles theme.Styles) string {
	if area.Empty() {
		return ""
	}

	columns := make([][]string, w.grid.Len())
	for _, c := range w.grid.Cells(area) {
		if c.Rect.Empty() {
			continue
		}
		style := styles.Pane
		if c.Focused {
			style = styles.FocusedPane
		}
		title := c.Pane.Title()
		if c.Row > 0 {
			title += " #" + strconv.Itoa(c.Row)
		}
		columns[c.Col] = append(columns[c.Col], drawCell(c, title, style, styles.PaneTitle))
	}

	rendered := make([]string, 0, len(columns))
	for _, col := range columns {
		if len(col) == 0 {
			continue
		}
		rendered = append(rendered, lipgloss.JoinVertical(lipgloss.Left, col...))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

// drawCell boxes the pane body with its title set into the top border.
func drawCell(c tiling.Cell, title string, style, titleStyle lipgloss.Style) string {
	if c.Rect.Width < 2 || c.Rect.Height < 2 {
		return blank(c.Rect.Width, c.Rect.Height)
	}
	in := c.Rect.Inner(1)
	inner, body := in.Width, in.Height

	b := style.GetBorderStyle()
	edge := lipgloss.NewStyle().Foreground(style.GetBorderTopForeground())
	title = layout.Truncate(title, inner-1)
	fill := inner - lipgloss.Width(title)
	top := b.TopLeft
	if title != "" {
		fill--
		top = edge.Render(top+b.Top) + titleStyle.Render(title)
	} else {
		top = edge.Render(top)
	}
	top += edge.Render(strings.Repeat(b.Top, max(fill, 0)) + b.TopRight)

	content := c.Pane.Render(inner, body, c.Focused)
	box := style.
		BorderTop(false).
		Width(inner).
		Height(body).
		MaxHeight(body + 1).
		Render(content)
	return top + "\n" + box
}

func blank(w, h int) string {
	if w <= 0 || h <= 0 {
		return ""
	}
	line := strings.Repeat(" ", w)
	lines := make([]string, h)
	for i := range lines {
		lines[i] = line
	}
	return strings.Join(lines, "\n")
}
