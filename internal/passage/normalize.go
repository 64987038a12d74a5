package passage

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

var contractions = []string{"s", "t", "re", "ve", "ll", "d", "m"}

// Normalize guarantees a separator on each side of every blank. It never fails;
// malformed blanks pass through unexamined.
func Normalize(p Passage) Passage {
	out := p.Clone()
	for i := 0; i+1 < len(out.Parts); i++ {
		switch cur := out.Parts[i].(type) {
		case TextPart:
			if _, ok := out.Parts[i+1].(BlankPart); ok && !endsWithSeparator(cur.Value) {
				out.Parts[i] = TextPart{Value: cur.Value + " "}
			}
		case BlankPart:
			if next, ok := out.Parts[i+1].(TextPart); ok && !startsWithSeparator(next.Value) {
				out.Parts[i+1] = TextPart{Value: " " + next.Value}
			}
		}
	}
	return out
}

func endsWithSeparator(s string) bool {
	r, size := utf8.DecodeLastRuneInString(s)
	if size == 0 {
		return false
	}
	return unicode.IsSpace(r) || r == '-'
}

func startsWithSeparator(s string) bool {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return false
	}
	if unicode.IsSpace(r) {
		return true
	}
	switch r {
	case '.', ',', '!', '?', ';', ':':
		return true
	case '\'', '’':
		return isContraction(s[size:])
	}
	return false
}

func isContraction(rest string) bool {
	lower := strings.ToLower(rest)
	for _, c := range contractions {
		if !strings.HasPrefix(lower, c) {
			continue
		}
		after, size := utf8.DecodeRuneInString(lower[len(c):])
		if size == 0 || !unicode.IsLetter(after) {
			return true
		}
	}
	return false
}
