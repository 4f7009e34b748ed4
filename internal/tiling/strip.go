// Package tiling is the layout engine behind each tab: a grid of columns
// (strips), each column a vertical stack of panes. Focus is tracked as plain
// indices and repaired whenever a structural edit shifts them.
package tiling

import (
	"fmt"

	"github.com/Dicklesworthstone/maglab/internal/pane"
)

// Strip is one column of the grid. A strip that loses its last pane must be
// excised by its owner before the next render.
type Strip struct {
	panes []pane.Pane
	focus int
}

// NewStrip returns a strip holding panes with focus on the first one.
func NewStrip(panes ...pane.Pane) *Strip {
	return &Strip{panes: append([]pane.Pane(nil), panes...)}
}

// Len returns the number of panes.
func (s *Strip) Len() int { return len(s.panes) }

// Focus returns the focused row.
func (s *Strip) Focus() int { return s.focus }

// SetFocus moves focus to row i.
func (s *Strip) SetFocus(i int) {
	if i < 0 || i >= len(s.panes) {
		panic(fmt.Sprintf("tiling: strip focus %d out of range [0,%d)", i, len(s.panes)))
	}
	s.focus = i
}

// Panes returns the panes top to bottom. The slice must not be modified.
func (s *Strip) Panes() []pane.Pane { return s.panes }

// Focused returns the focused pane.
func (s *Strip) Focused() pane.Pane {
	s.mustNotBeEmpty("Focused")
	return s.panes[s.focus]
}

// FocusNext moves focus down one row, wrapping to the top.
func (s *Strip) FocusNext() {
	s.mustNotBeEmpty("FocusNext")
	s.focus = (s.focus + 1) % len(s.panes)
}

// FocusPrevious moves focus up one row, wrapping to the bottom.
func (s *Strip) FocusPrevious() {
	s.mustNotBeEmpty("FocusPrevious")
	s.focus = (s.focus + len(s.panes) - 1) % len(s.panes)
}

// InsertAt inserts p at position, shifting later panes down. Focus keeps its
// index.
func (s *Strip) InsertAt(position int, p pane.Pane) {
	if position < 0 || position > len(s.panes) {
		panic(fmt.Sprintf("tiling: insert position %d out of range [0,%d]", position, len(s.panes)))
	}
	s.panes = append(s.panes, nil)
	copy(s.panes[position+1:], s.panes[position:])
	s.panes[position] = p
}

// RemoveFocused removes and returns the focused pane. When the last row was
// focused, focus moves to the new last row; otherwise it stays on the index,
// now holding the pane that slid up. An emptied strip has focus 0.
func (s *Strip) RemoveFocused() pane.Pane {
	s.mustNotBeEmpty("RemoveFocused")

	removed := s.panes[s.focus]
	wasLast := s.focus == len(s.panes)-1
	copy(s.panes[s.focus:], s.panes[s.focus+1:])
	s.panes[len(s.panes)-1] = nil
	s.panes = s.panes[:len(s.panes)-1]

	switch {
	case len(s.panes) == 0:
		s.focus = 0
	case wasLast:
		s.FocusPrevious()
	}
	return removed
}

func (s *Strip) mustNotBeEmpty(op string) {
	if len(s.panes) == 0 {
		panic("tiling: " + op + " on empty strip")
	}
}
