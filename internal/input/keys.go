package input

import (
	"unicode/utf8"

	"clozedojo/internal/engine"

	tea "charm.land/bubbletea/v2"
)

// ActionFromKey translates a key press on the focused cell into an engine
// action. Keys outside the action vocabulary are dropped (ok == false) so the
// engine never sees them.
func ActionFromKey(ev tea.KeyPressMsg, at engine.Cell) (engine.Action, bool) {
	key := ev.Key()
	if key.Mod&(tea.ModCtrl|tea.ModAlt|tea.ModSuper|tea.ModMeta) != 0 {
		return engine.Action{}, false
	}

	if key.Text != "" {
		if kind, ok := escFragmentKind(key.Text); ok {
			return engine.Action{Kind: kind, Cell: at}, true
		}
		return typed(key.Text, at)
	}

	kind, ok := navKind(key.Code, key.Mod)
	if !ok {
		return engine.Action{}, false
	}
	return engine.Action{Kind: kind, Cell: at}, true
}

func navKind(code rune, mod tea.KeyMod) (engine.ActionKind, bool) {
	switch code {
	case tea.KeyBackspace:
		return engine.ActionBackspace, true
	case tea.KeyDelete:
		return engine.ActionDelete, true
	case tea.KeyLeft:
		return engine.ActionLeft, true
	case tea.KeyRight:
		return engine.ActionRight, true
	case tea.KeyUp:
		return engine.ActionUp, true
	case tea.KeyDown:
		return engine.ActionDown, true
	case tea.KeyHome:
		return engine.ActionHome, true
	case tea.KeyEnd:
		return engine.ActionEnd, true
	case tea.KeyTab:
		if mod&tea.ModShift != 0 {
			return engine.ActionShiftTab, true
		}
		return engine.ActionTab, true
	}
	return 0, false
}

// typed accepts exactly one letter. The engine sanitizes case; anything else
// is not a type action.
func typed(text string, at engine.Cell) (engine.Action, bool) {
	if utf8.RuneCountInString(text) != 1 {
		return engine.Action{}, false
	}
	r, _ := utf8.DecodeRuneInString(text)
	if engine.Sanitize(r) == 0 {
		return engine.Action{}, false
	}
	return engine.Action{Kind: engine.ActionType, Cell: at, Char: r}, true
}

// escFragmentKind recognises cursor sequences that some transports deliver as
// text with the ESC byte stripped ("[A", "OB", "[1;2D", "[Z").
func escFragmentKind(s string) (engine.ActionKind, bool) {
	if len(s) < 2 || len(s) > 8 {
		return 0, false
	}
	var final byte
	switch s[0] {
	case '[':
		for i := 1; i < len(s)-1; i++ {
			ch := s[i]
			if (ch < '0' || ch > '9') && ch != ';' {
				return 0, false
			}
		}
		final = s[len(s)-1]
		if final == '~' {
			switch s {
			case "[3~":
				return engine.ActionDelete, true
			case "[1~", "[7~":
				return engine.ActionHome, true
			case "[4~", "[8~":
				return engine.ActionEnd, true
			}
			return 0, false
		}
	case 'O':
		if len(s) != 2 {
			return 0, false
		}
		final = s[1]
	default:
		return 0, false
	}
	switch final {
	case 'A':
		return engine.ActionUp, true
	case 'B':
		return engine.ActionDown, true
	case 'C':
		return engine.ActionRight, true
	case 'D':
		return engine.ActionLeft, true
	case 'H':
		return engine.ActionHome, true
	case 'F':
		return engine.ActionEnd, true
	case 'Z':
		return engine.ActionShiftTab, true
	}
	return 0, false
}
