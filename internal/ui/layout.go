package ui

import (
	"clozedojo/internal/engine"
	"clozedojo/internal/passage"
)

func DetermineLayoutMode(cols, rows int) LayoutMode {
	if cols < 40 || rows < 12 {
		return LayoutTooSmall
	}
	if cols >= 100 && rows >= 24 {
		return LayoutWide
	}
	return LayoutNarrow
}

type glyphKind uint8

const (
	glyphText glyphKind = iota
	glyphPrefix
	glyphCell
)

// glyph is one terminal column of the passage. Cell glyphs carry the entered
// character, or 0 when the cell is empty.
type glyph struct {
	ch   rune
	kind glyphKind
	cell engine.Cell
}

type glyphLine []glyph

// passageGlyphs flattens a passage in reading order. A blank becomes its
// prefix followed by one glyph per suffix character.
func passageGlyphs(p passage.Passage, cells func(id int) []rune) []glyph {
	var out []glyph
	for _, part := range p.Parts {
		switch v := part.(type) {
		case passage.TextPart:
			for _, ch := range v.Value {
				out = append(out, glyph{ch: ch, kind: glyphText})
			}
		case passage.BlankPart:
			for _, ch := range v.Prefix {
				out = append(out, glyph{ch: ch, kind: glyphPrefix, cell: engine.Cell{BlankID: v.ID}})
			}
			for i, ch := range cells(v.ID) {
				out = append(out, glyph{ch: ch, kind: glyphCell, cell: engine.Cell{BlankID: v.ID, Index: i}})
			}
		}
	}
	return out
}

// wrapGlyphs breaks on text whitespace only, so a blank never splits unless
// it alone is wider than the line.
func wrapGlyphs(gs []glyph, width int) []glyphLine {
	if width < 1 {
		width = 1
	}
	var (
		lines []glyphLine
		line  glyphLine
		word  []glyph
	)
	flush := func() {
		if len(word) == 0 {
			return
		}
		if len(line) > 0 && len(line)+1+len(word) > width {
			lines = append(lines, line)
			line = nil
		}
		if len(line) > 0 {
			line = append(line, glyph{ch: ' ', kind: glyphText})
		}
		line = append(line, word...)
		for len(line) > width {
			lines = append(lines, line[:width:width])
			line = append(glyphLine(nil), line[width:]...)
		}
		word = nil
	}
	for _, g := range gs {
		if g.kind == glyphText {
			switch g.ch {
			case ' ', '\t', '\r':
				flush()
				continue
			case '\n':
				flush()
				lines = append(lines, line)
				line = nil
				continue
			}
		}
		word = append(word, g)
	}
	flush()
	if len(line) > 0 {
		lines = append(lines, line)
	}
	return lines
}

// locateCell finds the row and column of a cell in wrapped lines.
func locateCell(lines []glyphLine, c engine.Cell) (row, col int, ok bool) {
	for y, line := range lines {
		for x, g := range line {
			if g.kind == glyphCell && g.cell == c {
				return y, x, true
			}
		}
	}
	return 0, 0, false
}
