package input

import (
	"strings"

	"clozedojo/internal/engine"
)

// ActionFromPaste accepts a paste only when it is a single letter, possibly
// surrounded by whitespace. Multi-character pastes are dropped.
func ActionFromPaste(content string, at engine.Cell) (engine.Action, bool) {
	content = strings.TrimSpace(content)
	if content == "" {
		return engine.Action{}, false
	}
	return typed(content, at)
}
