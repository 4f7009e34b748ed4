// Package layout holds the geometry primitives shared by the dashboard
// surfaces: rectangles, percentage splits and width-aware truncation.
package layout

// Direction selects the axis a Split divides along.
type Direction int

const (
	// Horizontal divides an area into side-by-side columns.
	Horizontal Direction = iota
	// Vertical divides an area into stacked rows.
	Vertical
)

// Rect is a screen rectangle in terminal cells.
type Rect struct {
	X, Y          int
	Width, Height int
}

// Empty reports whether the rectangle covers no cells.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Inner shrinks the rectangle by a uniform margin on every side.
func (r Rect) Inner(margin int) Rect {
	out := Rect{X: r.X + margin, Y: r.Y + margin, Width: r.Width - 2*margin, Height: r.Height - 2*margin}
	if out.Width < 0 {
		out.Width = 0
	}
	if out.Height < 0 {
		out.Height = 0
	}
	return out
}

// Split divides area along dir into one segment per percentage.
//
// Each segment receives floor(total*pct/100) cells and segments are laid out
// back to back from the area's origin. Cells left over by the rounding are not
// redistributed, so the last segment can end short of the area's far edge.
func Split(area Rect, percents []int, dir Direction) []Rect {
	out := make([]Rect, len(percents))
	total := area.Width
	if dir == Vertical {
		total = area.Height
	}
	if total < 0 {
		total = 0
	}

	offset := 0
	for i, pct := range percents {
		if pct < 0 {
			pct = 0
		}
		size := total * pct / 100
		if offset+size > total {
			size = total - offset
		}
		if dir == Horizontal {
			out[i] = Rect{X: area.X + offset, Y: area.Y, Width: size, Height: area.Height}
		} else {
			out[i] = Rect{X: area.X, Y: area.Y + offset, Width: area.Width, Height: size}
		}
		offset += size
	}
	return out
}

// Even returns n equal percentages of 100/n (integer division).
func Even(n int) []int {
	if n <= 0 {
		return nil
	}
	pcts := make([]int, n)
	for i := range pcts {
		pcts[i] = 100 / n
	}
	return pcts
}

// TruncateRunes trims a string to max runes and appends suffix if truncated.
// It is rune‑aware to avoid splitting emoji or wide glyphs.
func TruncateRunes(s string, max int, suffix string) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max < len([]rune(suffix)) {
		return string(runes[:max])
	}
	return string(runes[:max-len([]rune(suffix))]) + suffix
}

// Truncate is TruncateRunes with the single-character ellipsis "…".
func Truncate(s string, max int) string {
	return TruncateRunes(s, max, "…")
}
