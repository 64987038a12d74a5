package passage

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// BlankResult is the per-blank outcome shown after submission.
type BlankResult struct {
	ID       int
	Prefix   string
	Expected string
	Given    string
	Correct  bool
	// Distance is the edit distance between Given and Expected, ignoring case.
	Distance int
}

// Score counts blanks whose answer equals the expected suffix, ignoring case.
func Score(p Passage, answers map[int]string) int {
	n := 0
	for _, b := range p.Blanks() {
		if strings.EqualFold(answers[b.ID], b.Suffix()) {
			n++
		}
	}
	return n
}

func MaxScore(p Passage) int {
	return len(p.Blanks())
}

func Evaluate(p Passage, answers map[int]string) []BlankResult {
	blanks := p.Blanks()
	out := make([]BlankResult, 0, len(blanks))
	for _, b := range blanks {
		expected := b.Suffix()
		given := answers[b.ID]
		out = append(out, BlankResult{
			ID:       b.ID,
			Prefix:   b.Prefix,
			Expected: expected,
			Given:    given,
			Correct:  strings.EqualFold(given, expected),
			Distance: levenshtein.ComputeDistance(strings.ToLower(given), strings.ToLower(expected)),
		})
	}
	return out
}

// NearMiss reports a wrong answer that is one edit away from correct.
func (r BlankResult) NearMiss() bool {
	return !r.Correct && r.Given != "" && r.Distance == 1
}
