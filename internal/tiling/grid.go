package tiling

import (
	"fmt"

	"github.com/Dicklesworthstone/maglab/internal/pane"
	"github.com/Dicklesworthstone/maglab/internal/tui/layout"
)

// Grid is an ordered row of strips with one focused column.
type Grid struct {
	strips []*Strip
	focus  int
}

// NewGrid returns a grid over strips with focus on the first column. Every
// strip must hold at least one pane.
func NewGrid(strips ...*Strip) *Grid {
	for i, s := range strips {
		if s == nil || s.Len() == 0 {
			panic(fmt.Sprintf("tiling: column %d is empty", i))
		}
	}
	return &Grid{strips: append([]*Strip(nil), strips...)}
}

// Len returns the number of columns.
func (g *Grid) Len() int { return len(g.strips) }

// Focus returns the focused column.
func (g *Grid) Focus() int { return g.focus }

// SetFocus moves column focus to i.
func (g *Grid) SetFocus(i int) {
	if i < 0 || i >= len(g.strips) {
		panic(fmt.Sprintf("tiling: grid focus %d out of range [0,%d)", i, len(g.strips)))
	}
	g.focus = i
}

// Strips returns the columns left to right. The slice must not be modified.
func (g *Grid) Strips() []*Strip { return g.strips }

// FocusedStrip returns the focused column.
func (g *Grid) FocusedStrip() *Strip {
	g.mustNotBeEmpty("FocusedStrip")
	return g.strips[g.focus]
}

// FocusNext moves focus one column right, wrapping to the first.
func (g *Grid) FocusNext() {
	g.mustNotBeEmpty("FocusNext")
	g.focus = (g.focus + 1) % len(g.strips)
}

// FocusPrevious moves focus one column left, wrapping to the last.
func (g *Grid) FocusPrevious() {
	g.mustNotBeEmpty("FocusPrevious")
	g.focus = (g.focus + len(g.strips) - 1) % len(g.strips)
}

// PaneCount returns the total number of panes across all columns.
func (g *Grid) PaneCount() int {
	n := 0
	for _, s := range g.strips {
		n += s.Len()
	}
	return n
}

// Each calls fn for every pane, column by column, top to bottom.
func (g *Grid) Each(fn func(col, row int, p pane.Pane)) {
	for c, s := range g.strips {
		for r, p := range s.panes {
			fn(c, r, p)
		}
	}
}

// AddPaneRight places p to the right of the focused column and focuses it.
// From the last column a new column is appended; otherwise p goes on top of
// the next column.
func (g *Grid) AddPaneRight(p pane.Pane) {
	g.mustNotBeEmpty("AddPaneRight")

	if g.focus == len(g.strips)-1 {
		g.strips = append(g.strips, NewStrip(p))
	} else {
		g.strips[g.focus+1].InsertAt(0, p)
	}
	g.focus++
	g.strips[g.focus].focus = 0
}

// RemoveFocusedPane removes and returns the focused pane.
//
// A focused column holding a single pane is deleted outright when other
// columns remain; focus then stays on the index, or moves left if the
// deleted column was the last. Otherwise only the pane leaves its column.
// The caller must not remove the final pane of a 1x1 grid.
func (g *Grid) RemoveFocusedPane() pane.Pane {
	g.mustNotBeEmpty("RemoveFocusedPane")

	s := g.strips[g.focus]
	if len(g.strips) > 1 && s.Len() == 1 {
		removed := s.panes[0]
		wasLast := g.focus == len(g.strips)-1
		copy(g.strips[g.focus:], g.strips[g.focus+1:])
		g.strips[len(g.strips)-1] = nil
		g.strips = g.strips[:len(g.strips)-1]
		if wasLast {
			g.FocusPrevious()
		}
		return removed
	}
	return s.RemoveFocused()
}

// Cell is one pane's screen placement for a frame.
type Cell struct {
	Col, Row int
	Rect     layout.Rect
	Pane     pane.Pane
	Focused  bool
}

// Cells lays the grid out over area: equal-width columns, each divided into
// equal-height rows. Nothing is cached between frames.
func (g *Grid) Cells(area layout.Rect) []Cell {
	cols := layout.Split(area, layout.Even(len(g.strips)), layout.Horizontal)
	cells := make([]Cell, 0, g.PaneCount())
	for c, s := range g.strips {
		rows := layout.Split(cols[c], layout.Even(s.Len()), layout.Vertical)
		for r, p := range s.panes {
			cells = append(cells, Cell{
				Col:     c,
				Row:     r,
				Rect:    rows[r],
				Pane:    p,
				Focused: c == g.focus && r == s.focus,
			})
		}
	}
	return cells
}

func (g *Grid) mustNotBeEmpty(op string) {
	if len(g.strips) == 0 {
		panic("tiling: " + op + " on empty grid")
	}
}
