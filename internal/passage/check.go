package passage

import (
	"fmt"
	"strings"
)

// Issue is a data-quality finding. Issues never stop play; they only surface
// upstream as a log event or in `clozedojo check`.
type Issue struct {
	BlankID int
	Message string
}

func (i Issue) String() string {
	return fmt.Sprintf("blank %d: %s", i.BlankID, i.Message)
}

func Check(p Passage) []Issue {
	var issues []Issue
	seen := map[int]bool{}
	last := 0
	for i, b := range p.Blanks() {
		switch {
		case b.Prefix == "":
			issues = append(issues, Issue{BlankID: b.ID, Message: "empty prefix"})
		case !strings.HasPrefix(strings.ToLower(b.FullWord), strings.ToLower(b.Prefix)):
			issues = append(issues, Issue{BlankID: b.ID, Message: fmt.Sprintf("prefix %q is not a prefix of %q", b.Prefix, b.FullWord)})
		case len([]rune(b.Prefix)) >= len([]rune(b.FullWord)):
			issues = append(issues, Issue{BlankID: b.ID, Message: fmt.Sprintf("prefix %q leaves nothing to type", b.Prefix)})
		case !typable(b.Suffix()):
			issues = append(issues, Issue{BlankID: b.ID, Message: fmt.Sprintf("suffix %q has characters that cannot be typed", b.Suffix())})
		}
		if seen[b.ID] {
			issues = append(issues, Issue{BlankID: b.ID, Message: "duplicate id"})
		} else if i > 0 && b.ID <= last {
			issues = append(issues, Issue{BlankID: b.ID, Message: "id out of reading order"})
		}
		seen[b.ID] = true
		last = b.ID
	}
	return issues
}

// typable reports whether every rune of s can be entered into a cell. Cells
// accept ASCII letters only.
func typable(s string) bool {
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return true
}
