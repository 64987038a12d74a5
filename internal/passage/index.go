package passage

// Neighbor is what navigation needs to know about an adjacent blank.
type Neighbor struct {
	ID        int
	SuffixLen int
}

// Index is the ordered list of blank ids for one passage. Build a new one
// whenever the passage changes.
type Index struct {
	ids    []int
	blanks map[int]BlankPart
	pos    map[int]int
}

func BuildIndex(p Passage) *Index {
	idx := &Index{
		blanks: map[int]BlankPart{},
		pos:    map[int]int{},
	}
	for _, b := range p.Blanks() {
		if _, dup := idx.pos[b.ID]; dup {
			continue
		}
		idx.pos[b.ID] = len(idx.ids)
		idx.ids = append(idx.ids, b.ID)
		idx.blanks[b.ID] = b
	}
	return idx
}

// IDs returns the blank ids in reading order.
func (x *Index) IDs() []int {
	return append([]int(nil), x.ids...)
}

func (x *Index) Len() int {
	return len(x.ids)
}

func (x *Index) Blank(id int) (BlankPart, bool) {
	b, ok := x.blanks[id]
	return b, ok
}

func (x *Index) SuffixLen(id int) int {
	b, ok := x.blanks[id]
	if !ok {
		return 0
	}
	return b.SuffixLen()
}

// Prev returns the closest earlier blank that has at least one cell.
func (x *Index) Prev(id int) (Neighbor, bool) {
	i, ok := x.pos[id]
	if !ok {
		return Neighbor{}, false
	}
	return x.walk(i-1, -1)
}

// Next returns the closest later blank that has at least one cell.
func (x *Index) Next(id int) (Neighbor, bool) {
	i, ok := x.pos[id]
	if !ok {
		return Neighbor{}, false
	}
	return x.walk(i+1, 1)
}

// First returns the first blank that has at least one cell.
func (x *Index) First() (Neighbor, bool) {
	return x.walk(0, 1)
}

func (x *Index) walk(from, step int) (Neighbor, bool) {
	for i := from; i >= 0 && i < len(x.ids); i += step {
		id := x.ids[i]
		if n := x.blanks[id].SuffixLen(); n > 0 {
			return Neighbor{ID: id, SuffixLen: n}, true
		}
	}
	return Neighbor{}, false
}
