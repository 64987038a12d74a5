package packs

import (
	"fmt"
	"regexp"
)

const (
	PackKind               = "pack"
	SupportedSchemaVersion = 1
)

var idPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{2,63}$`)

type Pack struct {
	Kind          string        `yaml:"kind"`
	SchemaVersion int           `yaml:"schema_version"`
	PackID        string        `yaml:"pack_id"`
	Name          string        `yaml:"name"`
	Version       string        `yaml:"version"`
	DescriptionMD string        `yaml:"description_md"`
	Defaults      PackDefaults  `yaml:"defaults"`
	Passages      []PassageSpec `yaml:"passages"`

	Path    string `yaml:"-"`
	Builtin bool   `yaml:"-"`
}

type PackDefaults struct {
	TimeLimitSec int `yaml:"time_limit_sec"`
}

// PassageSpec is a passage as authored. Text carries the blanks inline as
// [[prefix|word]] or [[prefix|word|clue]].
type PassageSpec struct {
	PassageID      string `yaml:"passage_id"`
	Title          string `yaml:"title"`
	InstructionsMD string `yaml:"instructions_md"`
	Text           string `yaml:"text"`
	TimeLimitSec   int    `yaml:"time_limit_sec"`
}

func (p Pack) Validate() error {
	if p.Kind != PackKind {
		return fmt.Errorf("kind must be %q", PackKind)
	}
	if p.SchemaVersion == 0 {
		return fmt.Errorf("schema_version is required")
	}
	if p.SchemaVersion > SupportedSchemaVersion {
		return fmt.Errorf("unsupported pack schema_version %d (max supported %d)", p.SchemaVersion, SupportedSchemaVersion)
	}
	if !idPattern.MatchString(p.PackID) {
		return fmt.Errorf("invalid pack_id %q", p.PackID)
	}
	if p.Name == "" {
		return fmt.Errorf("name is required")
	}
	if p.Defaults.TimeLimitSec < 0 {
		return fmt.Errorf("defaults.time_limit_sec must be >=0")
	}
	if len(p.Passages) == 0 {
		return fmt.Errorf("passages must contain at least one item")
	}
	seen := map[string]struct{}{}
	for _, s := range p.Passages {
		if err := s.Validate(); err != nil {
			return err
		}
		if _, ok := seen[s.PassageID]; ok {
			return fmt.Errorf("duplicate passage_id %q in pack.yaml", s.PassageID)
		}
		seen[s.PassageID] = struct{}{}
	}
	return nil
}

func (s PassageSpec) Validate() error {
	if !idPattern.MatchString(s.PassageID) {
		return fmt.Errorf("invalid passage_id %q", s.PassageID)
	}
	if s.Title == "" {
		return fmt.Errorf("passage %s: title is required", s.PassageID)
	}
	if s.TimeLimitSec < 0 {
		return fmt.Errorf("passage %s: time_limit_sec must be >=0", s.PassageID)
	}
	parts, err := parseMarkup(s.Text)
	if err != nil {
		return fmt.Errorf("passage %s: %w", s.PassageID, err)
	}
	blanks := 0
	for _, part := range parts {
		if _, ok := part.(blankMarkup); ok {
			blanks++
		}
	}
	if blanks == 0 {
		return fmt.Errorf("passage %s: text must contain at least one [[prefix|word]] blank", s.PassageID)
	}
	return nil
}
