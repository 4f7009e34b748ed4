package terminal

import (
	tea "github.com/charmbracelet/bubbletea"
	uv "github.com/charmbracelet/ultraviolet"
)

// teaKey converts a decoded key press into the bubbletea key the binding
// table matches against. ok is false for presses with no bubbletea form.
func teaKey(k uv.Key) (tea.KeyMsg, bool) {
	alt := k.Mod.Contains(uv.ModAlt)
	ctrl := k.Mod.Contains(uv.ModCtrl)
	shift := k.Mod.Contains(uv.ModShift)

	if ctrl {
		if t, ok := ctrlKeyType(k.Code); ok {
			return tea.KeyMsg{Type: t, Alt: alt}, true
		}
	}
	if t, ok := arrowKeyType(k.Code, shift, ctrl); ok {
		return tea.KeyMsg{Type: t, Alt: alt}, true
	}

	switch k.Code {
	case uv.KeyEnter:
		return tea.KeyMsg{Type: tea.KeyEnter, Alt: alt}, true
	case uv.KeyTab:
		if shift {
			return tea.KeyMsg{Type: tea.KeyShiftTab, Alt: alt}, true
		}
		return tea.KeyMsg{Type: tea.KeyTab, Alt: alt}, true
	case uv.KeyEscape:
		return tea.KeyMsg{Type: tea.KeyEsc, Alt: alt}, true
	case uv.KeyBackspace:
		return tea.KeyMsg{Type: tea.KeyBackspace, Alt: alt}, true
	case uv.KeySpace:
		return tea.KeyMsg{Type: tea.KeySpace, Alt: alt}, true
	case uv.KeyDelete:
		return tea.KeyMsg{Type: tea.KeyDelete, Alt: alt}, true
	case uv.KeyHome:
		return tea.KeyMsg{Type: tea.KeyHome, Alt: alt}, true
	case uv.KeyEnd:
		return tea.KeyMsg{Type: tea.KeyEnd, Alt: alt}, true
	case uv.KeyPgUp:
		return tea.KeyMsg{Type: tea.KeyPgUp, Alt: alt}, true
	case uv.KeyPgDown:
		return tea.KeyMsg{Type: tea.KeyPgDown, Alt: alt}, true
	}

	if k.Text != "" {
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k.Text), Alt: alt}, true
	}
	if k.Code > 0 && k.Code < uv.KeyExtended {
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{k.Code}, Alt: alt}, true
	}
	return tea.KeyMsg{}, false
}

func arrowKeyType(code rune, shift, ctrl bool) (tea.KeyType, bool) {
	var set [4]tea.KeyType // plain, shift, ctrl, ctrl+shift
	switch code {
	case uv.KeyUp:
		set = [4]tea.KeyType{tea.KeyUp, tea.KeyShiftUp, tea.KeyCtrlUp, tea.KeyCtrlShiftUp}
	case uv.KeyDown:
		set = [4]tea.KeyType{tea.KeyDown, tea.KeyShiftDown, tea.KeyCtrlDown, tea.KeyCtrlShiftDown}
	case uv.KeyLeft:
		set = [4]tea.KeyType{tea.KeyLeft, tea.KeyShiftLeft, tea.KeyCtrlLeft, tea.KeyCtrlShiftLeft}
	case uv.KeyRight:
		set = [4]tea.KeyType{tea.KeyRight, tea.KeyShiftRight, tea.KeyCtrlRight, tea.KeyCtrlShiftRight}
	default:
		return 0, false
	}
	switch {
	case shift && ctrl:
		return set[3], true
	case ctrl:
		return set[2], true
	case shift:
		return set[1], true
	default:
		return set[0], true
	}
}

func ctrlKeyType(code rune) (tea.KeyType, bool) {
	switch {
	case code >= 'a' && code <= 'z':
		return tea.KeyType(code - 'a' + 1), true
	case code >= 'A' && code <= 'Z':
		return tea.KeyType(code - 'A' + 1), true
	case code == '[':
		return tea.KeyCtrlOpenBracket, true
	case code == '\\':
		return tea.KeyCtrlBackslash, true
	case code == ']':
		return tea.KeyCtrlCloseBracket, true
	case code == '^':
		return tea.KeyCtrlCaret, true
	case code == '_':
		return tea.KeyCtrlUnderscore, true
	default:
		return 0, false
	}
}
