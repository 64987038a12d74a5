package engine

// Intent is the cell that should hold focus once the view settles. The engine
// sets it and the focus scheduler consumes it.
type Intent struct {
	cell Cell
	set  bool
}

func (i *Intent) Set(c Cell) {
	i.cell = c
	i.set = true
}

func (i *Intent) Clear() {
	i.cell = Cell{}
	i.set = false
}

func (i *Intent) Peek() (Cell, bool) {
	return i.cell, i.set
}

// Take returns the pending cell and clears it.
func (i *Intent) Take() (Cell, bool) {
	c, ok := i.cell, i.set
	i.Clear()
	return c, ok
}
