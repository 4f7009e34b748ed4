// Package keys maps keystrokes to dashboard commands. The table is built once
// at startup from the defaults and the user's overrides and never changes
// afterwards.
package keys

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

var (
	// ErrUnknownCommand is returned for override entries naming no command.
	ErrUnknownCommand = errors.New("unknown command")
	// ErrDuplicateKey is returned when one keystroke is bound to two commands.
	ErrDuplicateKey = errors.New("duplicate key binding")
)

// Command names an action the dashboard applies to its layout.
type Command string

const (
	FocusLeft  Command = "focus_left"
	FocusRight Command = "focus_right"
	FocusUp    Command = "focus_up"
	FocusDown  Command = "focus_down"
	NewPane    Command = "new_pane"
	RemovePane Command = "remove_pane"
	TabLeft    Command = "tab_left"
	TabRight   Command = "tab_right"
	Quit       Command = "quit"
)

// Commands lists every command in help order.
var Commands = []Command{
	FocusLeft, FocusRight, FocusUp, FocusDown,
	NewPane, RemovePane,
	TabLeft, TabRight,
	Quit,
}

var descriptions = map[Command]string{
	FocusLeft:  "focus left",
	FocusRight: "focus right",
	FocusUp:    "focus up",
	FocusDown:  "focus down",
	NewPane:    "new pane",
	RemovePane: "remove pane",
	TabLeft:    "previous tab",
	TabRight:   "next tab",
	Quit:       "quit",
}

// Description returns the help text of c.
func (c Command) Description() string { return descriptions[c] }

// ParseCommand validates a command name.
func ParseCommand(s string) (Command, error) {
	c := Command(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := descriptions[c]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownCommand, s)
	}
	return c, nil
}

// Defaults returns the stock bindings. Keys use the tea.KeyMsg string form.
func Defaults() map[Command][]string {
	return map[Command][]string{
		FocusLeft:  {"left"},
		FocusRight: {"right"},
		FocusUp:    {"up"},
		FocusDown:  {"down"},
		NewPane:    {"ctrl+n"},
		RemovePane: {"ctrl+r"},
		TabLeft:    {"shift+left"},
		TabRight:   {"shift+right"},
		Quit:       {"ctrl+q", "ctrl+c", "q"},
	}
}

// Table is the immutable keystroke -> command mapping.
type Table struct {
	bindings map[Command]key.Binding
	byKey    map[string]Command
}

// NewTable builds a table from the defaults with overrides applied. An
// override replaces every default key of its command. Unknown commands and
// keys claimed by two commands are rejected.
func NewTable(overrides map[string][]string) (*Table, error) {
	merged := Defaults()
	for name, ks := range overrides {
		c, err := ParseCommand(name)
		if err != nil {
			return nil, err
		}
		merged[c] = normalize(ks)
	}

	t := &Table{
		bindings: make(map[Command]key.Binding, len(merged)),
		byKey:    make(map[string]Command),
	}
	for _, c := range Commands {
		ks := merged[c]
		for _, k := range ks {
			if prev, ok := t.byKey[k]; ok && prev != c {
				return nil, fmt.Errorf("%w: %q bound to both %s and %s", ErrDuplicateKey, k, prev, c)
			}
			t.byKey[k] = c
		}
		b := key.NewBinding(key.WithKeys(ks...), key.WithHelp(helpKeys(ks), c.Description()))
		if len(ks) == 0 {
			b.SetEnabled(false)
		}
		t.bindings[c] = b
	}
	return t, nil
}

// Default returns the table with no overrides.
func Default() *Table {
	t, err := NewTable(nil)
	if err != nil {
		panic(err)
	}
	return t
}

// Lookup returns the command bound to msg.
func (t *Table) Lookup(msg tea.KeyMsg) (Command, bool) {
	for _, c := range Commands {
		if key.Matches(msg, t.bindings[c]) {
			return c, true
		}
	}
	return "", false
}

// Keys returns the keystrokes bound to c.
func (t *Table) Keys(c Command) []string { return t.bindings[c].Keys() }

// Bound returns every bound keystroke in sorted order.
func (t *Table) Bound() []string {
	out := make([]string, 0, len(t.byKey))
	for k := range t.byKey {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// ShortHelp implements help.KeyMap.
func (t *Table) ShortHelp() []key.Binding {
	return []key.Binding{
		t.bindings[NewPane], t.bindings[RemovePane],
		t.bindings[TabLeft], t.bindings[TabRight],
		t.bindings[Quit],
	}
}

// FullHelp implements help.KeyMap.
func (t *Table) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{t.bindings[FocusLeft], t.bindings[FocusRight], t.bindings[FocusUp], t.bindings[FocusDown]},
		{t.bindings[NewPane], t.bindings[RemovePane]},
		{t.bindings[TabLeft], t.bindings[TabRight], t.bindings[Quit]},
	}
}

func normalize(ks []string) []string {
	out := make([]string, 0, len(ks))
	seen := make(map[string]bool, len(ks))
	for _, k := range ks {
		k = strings.TrimSpace(k)
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	return out
}

var glyphs = strings.NewReplacer("left", "←", "right", "→", "up", "↑", "down", "↓")

func helpKeys(ks []string) string {
	parts := make([]string, len(ks))
	for i, k := range ks {
		parts[i] = glyphs.Replace(k)
	}
	return strings.Join(parts, "/")
}
