package ui

import (
	"testing"

	"clozedojo/internal/engine"
	"clozedojo/internal/passage"
)

func TestDetermineLayoutMode(t *testing.T) {
	tests := []struct {
		cols, rows int
		want       LayoutMode
	}{
		{140, 30, LayoutWide},
		{80, 30, LayoutNarrow},
		{100, 20, LayoutNarrow},
		{30, 30, LayoutTooSmall},
		{100, 10, LayoutTooSmall},
	}
	for _, tt := range tests {
		if got := DetermineLayoutMode(tt.cols, tt.rows); got != tt.want {
			t.Fatalf("DetermineLayoutMode(%d,%d) = %v, want %v", tt.cols, tt.rows, got, tt.want)
		}
	}
}

func linesText(lines []glyphLine) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		rs := make([]rune, len(line))
		for j, g := range line {
			rs[j] = g.ch
			if g.kind == glyphCell && g.ch == 0 {
				rs[j] = '_'
			}
		}
		out[i] = string(rs)
	}
	return out
}

func samplePassage() passage.Passage {
	return passage.Passage{
		ID: "p01-sample",
		Parts: []passage.Part{
			passage.TextPart{Value: "Plants use "},
			passage.BlankPart{ID: 1, FullWord: "light", Prefix: "li"},
			passage.TextPart{Value: " to make food from "},
			passage.BlankPart{ID: 2, FullWord: "water", Prefix: "wa"},
			passage.TextPart{Value: "."},
		},
	}
}

func emptyCells(p passage.Passage) func(int) []rune {
	idx := passage.BuildIndex(p)
	return func(id int) []rune { return make([]rune, idx.SuffixLen(id)) }
}

func TestWrapKeepsBlanksWhole(t *testing.T) {
	p := samplePassage()
	lines := wrapGlyphs(passageGlyphs(p, emptyCells(p)), 16)
	got := linesText(lines)
	want := []string{"Plants use li___", "to make food", "from wa___."}
	if len(got) != len(want) {
		t.Fatalf("got %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("line %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestWrapHardBreaksLongWords(t *testing.T) {
	gs := passageGlyphs(passage.Passage{Parts: []passage.Part{passage.TextPart{Value: "abcdefgh ij"}}}, nil)
	got := linesText(wrapGlyphs(gs, 3))
	want := []string{"abc", "def", "gh", "ij"}
	if len(got) != len(want) {
		t.Fatalf("got %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("line %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestWrapHonorsNewlines(t *testing.T) {
	gs := passageGlyphs(passage.Passage{Parts: []passage.Part{passage.TextPart{Value: "one\n\ntwo"}}}, nil)
	got := linesText(wrapGlyphs(gs, 20))
	if len(got) != 3 || got[0] != "one" || got[1] != "" || got[2] != "two" {
		t.Fatalf("unexpected lines %q", got)
	}
}

func TestLocateCell(t *testing.T) {
	p := samplePassage()
	lines := wrapGlyphs(passageGlyphs(p, emptyCells(p)), 16)
	row, col, ok := locateCell(lines, engine.Cell{BlankID: 2, Index: 1})
	if !ok || row != 2 || col != 8 {
		t.Fatalf("locateCell = %d,%d,%v", row, col, ok)
	}
	if _, _, ok := locateCell(lines, engine.Cell{BlankID: 9}); ok {
		t.Fatalf("unknown cell should not be found")
	}
}
