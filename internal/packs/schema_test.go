package packs

import (
	"strings"
	"testing"
)

func validPack() Pack {
	return Pack{
		Kind:          PackKind,
		SchemaVersion: 1,
		PackID:        "core-reading",
		Name:          "Core",
		Passages: []PassageSpec{{
			PassageID: "p01-one",
			Title:     "One",
			Text:      "A [[wor|word]].",
		}},
	}
}

func TestPackValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Pack)
		want   string
	}{
		{name: "ok", mutate: func(*Pack) {}},
		{name: "kind", mutate: func(p *Pack) { p.Kind = "level" }, want: "kind must be"},
		{name: "schema", mutate: func(p *Pack) { p.SchemaVersion = 2 }, want: "unsupported pack schema_version"},
		{name: "pack id", mutate: func(p *Pack) { p.PackID = "X" }, want: "invalid pack_id"},
		{name: "no passages", mutate: func(p *Pack) { p.Passages = nil }, want: "at least one item"},
		{name: "passage id", mutate: func(p *Pack) { p.Passages[0].PassageID = "a" }, want: "invalid passage_id"},
		{name: "no blanks", mutate: func(p *Pack) { p.Passages[0].Text = "plain" }, want: "at least one [[prefix|word]] blank"},
		{name: "unterminated", mutate: func(p *Pack) { p.Passages[0].Text = "A [[wor|word" }, want: "unterminated blank"},
		{name: "stray close", mutate: func(p *Pack) { p.Passages[0].Text = "A ]] [[wor|word]]" }, want: "without"},
		{name: "bad fields", mutate: func(p *Pack) { p.Passages[0].Text = "A [[word]]" }, want: "must be [[prefix|word]]"},
		{name: "empty prefix", mutate: func(p *Pack) { p.Passages[0].Text = "A [[ |word]]" }, want: "needs both"},
		{name: "duplicate", mutate: func(p *Pack) { p.Passages = append(p.Passages, p.Passages[0]) }, want: "duplicate passage_id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validPack()
			tt.mutate(&p)
			err := p.Validate()
			if tt.want == "" {
				if err != nil {
					t.Fatalf("expected valid pack, got %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestBuildAssignsIDsInReadingOrder(t *testing.T) {
	spec := PassageSpec{PassageID: "p01-one", Title: "One", Text: "[[a|ab]] and [[c|cd|hint]]"}
	p, err := spec.Build(Pack{PackID: "core-reading", Defaults: PackDefaults{TimeLimitSec: 60}})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	blanks := p.Blanks()
	if len(blanks) != 2 || blanks[0].ID != 1 || blanks[1].ID != 2 {
		t.Fatalf("unexpected ids: %+v", blanks)
	}
	if blanks[1].Clue != "hint" {
		t.Fatalf("expected clue, got %q", blanks[1].Clue)
	}
	if p.TimeLimitSec != 60 {
		t.Fatalf("expected pack default time limit, got %d", p.TimeLimitSec)
	}
	if len(p.Parts) != 3 {
		t.Fatalf("expected blank, text, blank; got %d parts", len(p.Parts))
	}
}

func TestParseMarkup(t *testing.T) {
	parts, err := parseMarkup("Plants need [[lig|light|sun]] and [[wa|water]].")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(parts) != 5 {
		t.Fatalf("expected 5 parts, got %d: %#v", len(parts), parts)
	}
	if got, ok := parts[1].(blankMarkup); !ok || got.prefix != "lig" || got.word != "light" || got.clue != "sun" {
		t.Fatalf("unexpected first blank %#v", parts[1])
	}
	if got, ok := parts[4].(textMarkup); !ok || got != "." {
		t.Fatalf("unexpected tail %#v", parts[4])
	}

	for _, bad := range []string{"a ]] b", "[[x]]", "[[a|b|c|d]]", "open [[ab|abc"} {
		if _, err := parseMarkup(bad); err == nil {
			t.Fatalf("expected an error for %q", bad)
		}
	}
}
