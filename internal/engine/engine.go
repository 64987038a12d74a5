package engine

import "clozedojo/internal/passage"

// Outcome reports what one action did. Every action in an active engine
// writes to the answers, moves the intent, or both.
type Outcome struct {
	Mutated bool
	// Focus is the intent after the action; FocusSet is false when the action
	// left the intent unset.
	Focus    Cell
	FocusSet bool
}

// Engine interprets actions against the answers and records where focus
// should go next. It is not safe for concurrent use; the UI loop owns it.
type Engine struct {
	idx      *passage.Index
	answers  *Answers
	intent   *Intent
	disabled bool
}

func New(idx *passage.Index, answers *Answers, intent *Intent) *Engine {
	return &Engine{idx: idx, answers: answers, intent: intent}
}

func (e *Engine) Answers() *Answers {
	return e.answers
}

func (e *Engine) Index() *passage.Index {
	return e.idx
}

// Disable makes every later action a no-op. Used when results are shown.
func (e *Engine) Disable() {
	e.disabled = true
}

func (e *Engine) Enable() {
	e.disabled = false
}

func (e *Engine) Disabled() bool {
	return e.disabled
}

// Valid reports whether c addresses an existing cell.
func (e *Engine) Valid(c Cell) bool {
	n := e.idx.SuffixLen(c.BlankID)
	return c.Index >= 0 && c.Index < n
}

// FirstCell is the head of the first blank that has cells.
func (e *Engine) FirstCell() (Cell, bool) {
	first, ok := e.idx.First()
	if !ok {
		return Cell{}, false
	}
	return Cell{BlankID: first.ID}, true
}

// Cells returns the characters currently shown in a blank's cells, 0 for empty.
func (e *Engine) Cells(id int) []rune {
	n := e.idx.SuffixLen(id)
	out := make([]rune, n)
	for i := range out {
		out[i] = e.answers.CharAt(id, i)
	}
	return out
}

func (e *Engine) Apply(a Action) Outcome {
	if e.disabled {
		return Outcome{}
	}
	origin := a.Cell
	if !e.Valid(origin) {
		if first, ok := e.FirstCell(); ok {
			return e.focus(false, first)
		}
		return Outcome{}
	}
	id, i := origin.BlankID, origin.Index
	n := e.idx.SuffixLen(id)

	switch a.Kind {
	case ActionType:
		ch := Sanitize(a.Char)
		if ch == 0 {
			return e.focus(false, origin)
		}
		e.answers.Set(id, i, ch)
		if next, ok := e.advance(origin); ok {
			return e.focus(true, next)
		}
		e.intent.Clear()
		return Outcome{Mutated: true}

	case ActionBackspace:
		if e.answers.Clear(id, i) {
			return e.focus(true, origin)
		}
		if i > 0 {
			cleared := e.answers.Clear(id, i-1)
			return e.focus(cleared, Cell{BlankID: id, Index: i - 1})
		}
		if prev, ok := e.idx.Prev(id); ok {
			// The previous blank loses its last entered letter, wherever it
			// sits; focus lands on its last cell either way.
			cleared := false
			if at, ok := e.answers.LastFilled(prev.ID); ok {
				cleared = e.answers.Clear(prev.ID, at)
			}
			return e.focus(cleared, Cell{BlankID: prev.ID, Index: prev.SuffixLen - 1})
		}
		return e.focus(false, origin)

	case ActionDelete:
		if e.answers.Clear(id, i) {
			return e.focus(true, origin)
		}
		if next, ok := e.advance(origin); ok {
			return e.focus(false, next)
		}
		return e.focus(false, origin)

	case ActionLeft:
		if i > 0 {
			return e.focus(false, Cell{BlankID: id, Index: i - 1})
		}
		if prev, ok := e.idx.Prev(id); ok {
			return e.focus(false, Cell{BlankID: prev.ID, Index: prev.SuffixLen - 1})
		}
		return e.focus(false, origin)

	case ActionRight:
		if next, ok := e.advance(origin); ok {
			return e.focus(false, next)
		}
		return e.focus(false, origin)

	case ActionUp:
		if prev, ok := e.idx.Prev(id); ok {
			return e.focus(false, Cell{BlankID: prev.ID, Index: min(i, prev.SuffixLen-1)})
		}
		return e.focus(false, origin)

	case ActionDown:
		if next, ok := e.idx.Next(id); ok {
			return e.focus(false, Cell{BlankID: next.ID, Index: min(i, next.SuffixLen-1)})
		}
		return e.focus(false, origin)

	case ActionHome:
		return e.focus(false, Cell{BlankID: id})

	case ActionEnd:
		return e.focus(false, Cell{BlankID: id, Index: n - 1})

	case ActionTab:
		if next, ok := e.idx.Next(id); ok {
			return e.focus(false, Cell{BlankID: next.ID})
		}
		return e.focus(false, origin)

	case ActionShiftTab:
		if prev, ok := e.idx.Prev(id); ok {
			return e.focus(false, Cell{BlankID: prev.ID})
		}
		return e.focus(false, origin)
	}
	return e.focus(false, origin)
}

// advance is the forward step shared by type, delete and right: the next cell
// in the blank, else the head of the next blank.
func (e *Engine) advance(c Cell) (Cell, bool) {
	if c.Index < e.idx.SuffixLen(c.BlankID)-1 {
		return Cell{BlankID: c.BlankID, Index: c.Index + 1}, true
	}
	if next, ok := e.idx.Next(c.BlankID); ok {
		return Cell{BlankID: next.ID}, true
	}
	return Cell{}, false
}

func (e *Engine) focus(mutated bool, c Cell) Outcome {
	e.intent.Set(c)
	return Outcome{Mutated: mutated, Focus: c, FocusSet: true}
}
