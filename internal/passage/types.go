package passage

// Passage is the exercise content for one session. It is read-only once loaded;
// a new passage replaces it wholesale.
type Passage struct {
	ID           string
	PackID       string
	Title        string
	Instructions string
	TimeLimitSec int
	Parts        []Part
}

// Part is either a TextPart or a BlankPart.
type Part interface {
	isPart()
}

type TextPart struct {
	Value string
}

type BlankPart struct {
	ID       int
	FullWord string
	Prefix   string
	Clue     string
}

func (TextPart) isPart()  {}
func (BlankPart) isPart() {}

// Suffix is the part of FullWord after Prefix, the string the learner types.
// A prefix longer than the word yields an empty suffix.
func (b BlankPart) Suffix() string {
	word := []rune(b.FullWord)
	n := len([]rune(b.Prefix))
	if n >= len(word) {
		return ""
	}
	return string(word[n:])
}

func (b BlankPart) SuffixLen() int {
	return len([]rune(b.Suffix()))
}

// Blanks returns the blank parts in reading order.
func (p Passage) Blanks() []BlankPart {
	out := make([]BlankPart, 0, len(p.Parts))
	for _, part := range p.Parts {
		if b, ok := part.(BlankPart); ok {
			out = append(out, b)
		}
	}
	return out
}

// Clone copies the parts slice so callers can rebuild without aliasing.
func (p Passage) Clone() Passage {
	out := p
	out.Parts = append([]Part(nil), p.Parts...)
	return out
}
