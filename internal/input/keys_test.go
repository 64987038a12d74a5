package input

import (
	"testing"

	"clozedojo/internal/engine"

	tea "charm.land/bubbletea/v2"
)

func TestActionFromKey(t *testing.T) {
	at := engine.Cell{BlankID: 3, Index: 1}
	tests := []struct {
		name string
		key  tea.KeyPressMsg
		want engine.ActionKind
		char rune
	}{
		{name: "letter", key: tea.KeyPressMsg{Code: 'b', Text: "b"}, want: engine.ActionType, char: 'b'},
		{name: "shifted letter", key: tea.KeyPressMsg{Code: 'b', Text: "B", Mod: tea.ModShift}, want: engine.ActionType, char: 'B'},
		{name: "backspace", key: tea.KeyPressMsg{Code: tea.KeyBackspace}, want: engine.ActionBackspace},
		{name: "delete", key: tea.KeyPressMsg{Code: tea.KeyDelete}, want: engine.ActionDelete},
		{name: "left", key: tea.KeyPressMsg{Code: tea.KeyLeft}, want: engine.ActionLeft},
		{name: "right", key: tea.KeyPressMsg{Code: tea.KeyRight}, want: engine.ActionRight},
		{name: "up", key: tea.KeyPressMsg{Code: tea.KeyUp}, want: engine.ActionUp},
		{name: "down", key: tea.KeyPressMsg{Code: tea.KeyDown}, want: engine.ActionDown},
		{name: "home", key: tea.KeyPressMsg{Code: tea.KeyHome}, want: engine.ActionHome},
		{name: "end", key: tea.KeyPressMsg{Code: tea.KeyEnd}, want: engine.ActionEnd},
		{name: "tab", key: tea.KeyPressMsg{Code: tea.KeyTab}, want: engine.ActionTab},
		{name: "shift tab", key: tea.KeyPressMsg{Code: tea.KeyTab, Mod: tea.ModShift}, want: engine.ActionShiftTab},
		{name: "esc fragment down", key: tea.KeyPressMsg{Text: "[B"}, want: engine.ActionDown},
		{name: "esc fragment ss3 left", key: tea.KeyPressMsg{Text: "OD"}, want: engine.ActionLeft},
		{name: "esc fragment backtab", key: tea.KeyPressMsg{Text: "[Z"}, want: engine.ActionShiftTab},
		{name: "esc fragment delete", key: tea.KeyPressMsg{Text: "[3~"}, want: engine.ActionDelete},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ActionFromKey(tt.key, at)
			if !ok {
				t.Fatalf("expected %s to translate", tt.name)
			}
			if got.Kind != tt.want {
				t.Fatalf("got kind %s, want %s", got.Kind, tt.want)
			}
			if got.Cell != at {
				t.Fatalf("got cell %s, want %s", got.Cell, at)
			}
			if got.Char != tt.char {
				t.Fatalf("got char %q, want %q", got.Char, tt.char)
			}
		})
	}
}

func TestActionFromKeyDropsOutsideVocabulary(t *testing.T) {
	at := engine.Cell{BlankID: 1}
	keys := []tea.KeyPressMsg{
		{Code: '1', Text: "1"},
		{Code: ' ', Text: " "},
		{Code: 'é', Text: "é"},
		{Code: 'a', Text: "a", Mod: tea.ModCtrl},
		{Code: 'a', Text: "a", Mod: tea.ModAlt},
		{Code: tea.KeyEnter},
		{Code: tea.KeyEscape},
		{Code: tea.KeyF1},
		{Code: tea.KeyPgUp},
		{Text: "ab"},
		{Text: "[9x"},
	}
	for _, k := range keys {
		if got, ok := ActionFromKey(k, at); ok {
			t.Fatalf("key %+v should be dropped, got %s", k, got.Kind)
		}
	}
}

func TestActionFromPaste(t *testing.T) {
	at := engine.Cell{BlankID: 2, Index: 2}
	got, ok := ActionFromPaste(" Q\n", at)
	if !ok || got.Kind != engine.ActionType || got.Char != 'Q' || got.Cell != at {
		t.Fatalf("unexpected paste action: %+v ok=%v", got, ok)
	}
	for _, content := range []string{"", "  ", "qu", "thesis", "7"} {
		if _, ok := ActionFromPaste(content, at); ok {
			t.Fatalf("paste %q should be dropped", content)
		}
	}
}
