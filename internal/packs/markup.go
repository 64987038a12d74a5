package packs

import (
	"fmt"
	"strings"

	"clozedojo/internal/passage"
)

const (
	openMark  = "[["
	closeMark = "]]"
)

type blankMarkup struct {
	prefix string
	word   string
	clue   string
}

func (blankMarkup) isPart() {}

type textMarkup string

func (textMarkup) isPart() {}

type markupPart interface{ isPart() }

// parseMarkup splits authored text into literal runs and blanks.
func parseMarkup(text string) ([]markupPart, error) {
	var parts []markupPart
	rest := text
	for {
		open := strings.Index(rest, openMark)
		if open < 0 {
			if strings.Contains(rest, closeMark) {
				return nil, fmt.Errorf("unexpected %q without %q", closeMark, openMark)
			}
			if rest != "" {
				parts = append(parts, textMarkup(rest))
			}
			return parts, nil
		}
		if open > 0 {
			lit := rest[:open]
			if strings.Contains(lit, closeMark) {
				return nil, fmt.Errorf("unexpected %q without %q", closeMark, openMark)
			}
			parts = append(parts, textMarkup(lit))
		}
		rest = rest[open+len(openMark):]
		end := strings.Index(rest, closeMark)
		if end < 0 {
			return nil, fmt.Errorf("unterminated blank %q", openMark+truncate(rest, 20))
		}
		b, err := parseBlank(rest[:end])
		if err != nil {
			return nil, err
		}
		parts = append(parts, b)
		rest = rest[end+len(closeMark):]
	}
}

func parseBlank(inner string) (blankMarkup, error) {
	fields := strings.Split(inner, "|")
	if len(fields) < 2 || len(fields) > 3 {
		return blankMarkup{}, fmt.Errorf("blank %q must be [[prefix|word]] or [[prefix|word|clue]]", inner)
	}
	b := blankMarkup{
		prefix: strings.TrimSpace(fields[0]),
		word:   strings.TrimSpace(fields[1]),
	}
	if len(fields) == 3 {
		b.clue = strings.TrimSpace(fields[2])
	}
	if b.prefix == "" || b.word == "" {
		return blankMarkup{}, fmt.Errorf("blank %q needs both a prefix and a word", inner)
	}
	return b, nil
}

// Build turns a passage spec into a passage. Blank ids run from 1 in reading
// order. The result is not normalized.
func (s PassageSpec) Build(pack Pack) (passage.Passage, error) {
	parts, err := parseMarkup(s.Text)
	if err != nil {
		return passage.Passage{}, fmt.Errorf("passage %s: %w", s.PassageID, err)
	}
	p := passage.Passage{
		ID:           s.PassageID,
		PackID:       pack.PackID,
		Title:        s.Title,
		Instructions: s.InstructionsMD,
		TimeLimitSec: s.TimeLimitSec,
		Parts:        make([]passage.Part, 0, len(parts)),
	}
	if p.TimeLimitSec == 0 {
		p.TimeLimitSec = pack.Defaults.TimeLimitSec
	}
	id := 0
	for _, part := range parts {
		switch v := part.(type) {
		case textMarkup:
			p.Parts = append(p.Parts, passage.TextPart{Value: string(v)})
		case blankMarkup:
			id++
			p.Parts = append(p.Parts, passage.BlankPart{ID: id, Prefix: v.prefix, FullWord: v.word, Clue: v.clue})
		}
	}
	return p, nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
