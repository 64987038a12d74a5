package engine

import (
	"fmt"

	"clozedojo/internal/passage"
)

// Layout selects how entered characters are stored per blank.
type Layout string

const (
	// LayoutCompact keeps only entered characters, gaps collapsed. A letter
	// typed at index 2 over an empty blank is stored at index 0.
	LayoutCompact Layout = "compact"
	// LayoutPositional keeps one slot per cell with explicit empties.
	LayoutPositional Layout = "positional"
)

func ParseLayout(raw string) (Layout, error) {
	switch Layout(raw) {
	case "", LayoutCompact:
		return LayoutCompact, nil
	case LayoutPositional:
		return LayoutPositional, nil
	}
	return "", fmt.Errorf("invalid answer layout %q", raw)
}

const placeholder rune = 0

// Answers maps blank id to what the learner has entered. Only the engine
// writes to it.
type Answers struct {
	layout Layout
	idx    *passage.Index
	vals   map[int][]rune
}

func NewAnswers(layout Layout, idx *passage.Index) *Answers {
	if layout == "" {
		layout = LayoutCompact
	}
	return &Answers{layout: layout, idx: idx, vals: map[int][]rune{}}
}

func (a *Answers) Layout() Layout {
	return a.layout
}

// CharAt returns the character shown at cell i, or 0 when the cell is empty.
func (a *Answers) CharAt(id, i int) rune {
	v := a.vals[id]
	if i < 0 || i >= len(v) {
		return placeholder
	}
	return v[i]
}

// Set writes ch at cell i. It reports false when the cell does not exist.
func (a *Answers) Set(id, i int, ch rune) bool {
	n := a.idx.SuffixLen(id)
	if i < 0 || i >= n {
		return false
	}
	buf := a.slots(id, max(i+1, len(a.vals[id])))
	buf[i] = ch
	a.store(id, buf)
	return true
}

// Clear empties cell i. In the compact layout the characters after it shift
// left. It reports whether a character was removed.
func (a *Answers) Clear(id, i int) bool {
	if a.CharAt(id, i) == placeholder {
		return false
	}
	buf := a.slots(id, len(a.vals[id]))
	buf[i] = placeholder
	a.store(id, buf)
	return true
}

// LastFilled returns the index of the rightmost entered character in a blank.
func (a *Answers) LastFilled(id int) (int, bool) {
	v := a.vals[id]
	for i := len(v) - 1; i >= 0; i-- {
		if v[i] != placeholder {
			return i, true
		}
	}
	return 0, false
}

// String returns the entered characters left to right without gaps.
func (a *Answers) String(id int) string {
	return string(compact(a.vals[id]))
}

// Filled counts entered characters in one blank.
func (a *Answers) Filled(id int) int {
	return len(compact(a.vals[id]))
}

// Snapshot copies the store for scoring and persistence.
func (a *Answers) Snapshot() map[int]string {
	out := make(map[int]string, len(a.vals))
	for id := range a.vals {
		if s := a.String(id); s != "" {
			out[id] = s
		}
	}
	return out
}

func (a *Answers) Reset() {
	a.vals = map[int][]rune{}
}

func (a *Answers) slots(id, n int) []rune {
	if a.layout == LayoutPositional {
		n = a.idx.SuffixLen(id)
	}
	buf := make([]rune, n)
	copy(buf, a.vals[id])
	return buf
}

func (a *Answers) store(id int, buf []rune) {
	if a.layout == LayoutCompact {
		buf = compact(buf)
	}
	if len(compact(buf)) == 0 {
		delete(a.vals, id)
		return
	}
	a.vals[id] = buf
}

func compact(buf []rune) []rune {
	out := make([]rune, 0, len(buf))
	for _, r := range buf {
		if r != placeholder {
			out = append(out, r)
		}
	}
	return out
}
