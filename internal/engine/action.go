package engine

import "fmt"

// Cell addresses one character slot: 0 <= Index < suffix length of BlankID.
type Cell struct {
	BlankID int
	Index   int
}

func (c Cell) String() string {
	return fmt.Sprintf("%d:%d", c.BlankID, c.Index)
}

// ActionKind is the closed set of actions a cell can issue.
type ActionKind uint8

const (
	ActionType ActionKind = iota + 1
	ActionBackspace
	ActionDelete
	ActionLeft
	ActionRight
	ActionUp
	ActionDown
	ActionHome
	ActionEnd
	ActionTab
	ActionShiftTab
)

var actionNames = map[ActionKind]string{
	ActionType:      "type",
	ActionBackspace: "backspace",
	ActionDelete:    "delete",
	ActionLeft:      "left",
	ActionRight:     "right",
	ActionUp:        "up",
	ActionDown:      "down",
	ActionHome:      "home",
	ActionEnd:       "end",
	ActionTab:       "tab",
	ActionShiftTab:  "shift-tab",
}

// ActionKinds lists every kind in declaration order.
func ActionKinds() []ActionKind {
	return []ActionKind{
		ActionType, ActionBackspace, ActionDelete,
		ActionLeft, ActionRight, ActionUp, ActionDown,
		ActionHome, ActionEnd, ActionTab, ActionShiftTab,
	}
}

func (k ActionKind) String() string {
	if name, ok := actionNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ActionKind(%d)", uint8(k))
}

func (k ActionKind) Valid() bool {
	_, ok := actionNames[k]
	return ok
}

// Action is one user intent issued from the focused cell. Char is only read
// for ActionType.
type Action struct {
	Kind ActionKind
	Cell Cell
	Char rune
}

// Sanitize maps ch to a lowercase ASCII letter, or 0 when ch is not a letter.
func Sanitize(ch rune) rune {
	switch {
	case ch >= 'a' && ch <= 'z':
		return ch
	case ch >= 'A' && ch <= 'Z':
		return ch + ('a' - 'A')
	}
	return 0
}
