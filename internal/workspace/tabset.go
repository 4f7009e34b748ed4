package workspace

import "fmt"

// TabSet is the ordered list of workspaces with one active tab.
type TabSet struct {
	workspaces []*Workspace
	active     int
}

// NewTabSet returns a tab set over workspaces with the first one active.
func NewTabSet(workspaces ...*Workspace) *TabSet {
	if len(workspaces) == 0 {
		panic("workspace: tab set needs at least one workspace")
	}
	return &TabSet{workspaces: append([]*Workspace(nil), workspaces...)}
}

// Len returns the number of tabs.
func (t *TabSet) Len() int { return len(t.workspaces) }

// ActiveIndex returns the index of the selected tab.
func (t *TabSet) ActiveIndex() int { return t.active }

// Active returns the selected workspace.
func (t *TabSet) Active() *Workspace { return t.workspaces[t.active] }

// Workspaces returns every tab in order. Callers must not modify the slice.
func (t *TabSet) Workspaces() []*Workspace { return t.workspaces }

// SetActive selects tab i.
func (t *TabSet) SetActive(i int) {
	if i < 0 || i >= len(t.workspaces) {
		panic(fmt.Sprintf("workspace: tab %d out of range [0,%d)", i, len(t.workspaces)))
	}
	t.active = i
}

// Titles returns the tab titles in order.
func (t *TabSet) Titles() []string {
	out := make([]string, len(t.workspaces))
	for i, w := range t.workspaces {
		out[i] = w.Title()
	}
	return out
}

// Next activates the tab to the right, wrapping around.
func (t *TabSet) Next() {
	t.active = (t.active + 1) % len(t.workspaces)
}

// Previous activates the tab to the left, wrapping around.
func (t *TabSet) Previous() {
	t.active = (t.active + len(t.workspaces) - 1) % len(t.workspaces)
}

// RemoveActive closes and drops the active tab. The last remaining tab is
// never removed: RemoveActive reports true instead, meaning the application
// should terminate. Removing the rightmost tab activates its left neighbour.
func (t *TabSet) RemoveActive() (last bool) {
	if len(t.workspaces) == 1 {
		return true
	}

	removed := t.workspaces[t.active]
	wasLast := t.active == len(t.workspaces)-1
	copy(t.workspaces[t.active:], t.workspaces[t.active+1:])
	t.workspaces[len(t.workspaces)-1] = nil
	t.workspaces = t.workspaces[:len(t.workspaces)-1]
	if wasLast {
		t.Previous()
	}
	removed.Close()
	return false
}

// Close closes every workspace.
func (t *TabSet) Close() {
	for _, w := range t.workspaces {
		w.Close()
	}
}
