package keys

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestDefaultLookup(t *testing.T) {
	table := Default()

	tests := []struct {
		name string
		msg  tea.KeyMsg
		want Command
	}{
		{"left", tea.KeyMsg{Type: tea.KeyLeft}, FocusLeft},
		{"right", tea.KeyMsg{Type: tea.KeyRight}, FocusRight},
		{"up", tea.KeyMsg{Type: tea.KeyUp}, FocusUp},
		{"down", tea.KeyMsg{Type: tea.KeyDown}, FocusDown},
		{"ctrl+n", tea.KeyMsg{Type: tea.KeyCtrlN}, NewPane},
		{"ctrl+r", tea.KeyMsg{Type: tea.KeyCtrlR}, RemovePane},
		{"shift+left", tea.KeyMsg{Type: tea.KeyShiftLeft}, TabLeft},
		{"shift+right", tea.KeyMsg{Type: tea.KeyShiftRight}, TabRight},
		{"ctrl+q", tea.KeyMsg{Type: tea.KeyCtrlQ}, Quit},
		{"ctrl+c", tea.KeyMsg{Type: tea.KeyCtrlC}, Quit},
		{"q", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}}, Quit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := table.Lookup(tt.msg)
			if !ok {
				t.Fatalf("Lookup(%s) found nothing", tt.msg)
			}
			if got != tt.want {
				t.Errorf("Lookup(%s) = %s, want %s", tt.msg, got, tt.want)
			}
		})
	}
}

func TestLookupUnbound(t *testing.T) {
	table := Default()
	for _, msg := range []tea.KeyMsg{
		{Type: tea.KeyCtrlLeft},
		{Type: tea.KeyRunes, Runes: []rune{'x'}},
		{Type: tea.KeyEnter},
	} {
		if c, ok := table.Lookup(msg); ok {
			t.Errorf("Lookup(%s) = %s, want no binding", msg, c)
		}
	}
}

func TestOverridesReplaceDefaults(t *testing.T) {
	table, err := NewTable(map[string][]string{
		"quit":     {"ctrl+x"},
		"NEW_PANE": {" ctrl+t ", "ctrl+t", ""},
	})
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}

	if _, ok := table.Lookup(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}}); ok {
		t.Error("q should no longer quit")
	}
	if _, ok := table.Lookup(tea.KeyMsg{Type: tea.KeyCtrlC}); ok {
		t.Error("ctrl+c should no longer quit")
	}
	if c, _ := table.Lookup(tea.KeyMsg{Type: tea.KeyCtrlX}); c != Quit {
		t.Errorf("ctrl+x = %q, want quit", c)
	}
	if got := table.Keys(NewPane); len(got) != 1 || got[0] != "ctrl+t" {
		t.Errorf("Keys(new_pane) = %v, want [ctrl+t]", got)
	}
}

func TestEmptyOverrideDisablesCommand(t *testing.T) {
	table, err := NewTable(map[string][]string{"remove_pane": {}})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := table.Lookup(tea.KeyMsg{Type: tea.KeyCtrlR}); ok {
		t.Error("ctrl+r should be unbound")
	}
	if table.bindings[RemovePane].Enabled() {
		t.Error("binding without keys should be disabled")
	}
}

func TestNewTableErrors(t *testing.T) {
	if _, err := NewTable(map[string][]string{"explode": {"x"}}); !errors.Is(err, ErrUnknownCommand) {
		t.Errorf("unknown command err = %v", err)
	}
	if _, err := NewTable(map[string][]string{"focus_up": {"left"}}); !errors.Is(err, ErrDuplicateKey) {
		t.Errorf("duplicate key err = %v", err)
	}
}

func TestHelp(t *testing.T) {
	table := Default()
	if got := table.bindings[FocusLeft].Help().Key; got != "←" {
		t.Errorf("focus_left help key = %q", got)
	}
	if got := table.bindings[TabRight].Help().Key; got != "shift+→" {
		t.Errorf("tab_right help key = %q", got)
	}
	if got := table.bindings[Quit].Help().Key; got != "ctrl+q/ctrl+c/q" {
		t.Errorf("quit help key = %q", got)
	}

	n := 0
	for _, row := range table.FullHelp() {
		n += len(row)
	}
	if n != len(Commands) {
		t.Errorf("FullHelp lists %d bindings, want %d", n, len(Commands))
	}
	if len(table.Bound()) != 11 {
		t.Errorf("Bound() = %v", table.Bound())
	}
}
