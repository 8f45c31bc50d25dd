package cluster

// Cell addresses one grid cell by wire row and tick column.
type Cell struct {
	Wire int `json:"wire"`
	Tick int `json:"tick"`
}

// Frame describes the extent of a grid and converts between cells and
// linear indices. Indices run wire-fastest: index = tick*NWires + wire.
type Frame struct {
	NWires int
	NTicks int
}

// Len returns the number of cells in the frame.
func (f Frame) Len() int { return f.NWires * f.NTicks }

// Contains reports whether c lies inside the frame.
func (f Frame) Contains(c Cell) bool {
	return c.Wire >= 0 && c.Wire < f.NWires && c.Tick >= 0 && c.Tick < f.NTicks
}

// IsBorder reports whether c sits on the first or last wire row or tick
// column. Border cells lack a full set of 8 neighbours.
func (f Frame) IsBorder(c Cell) bool {
	return c.Wire == 0 || c.Wire == f.NWires-1 || c.Tick == 0 || c.Tick == f.NTicks-1
}

// Index returns the linear index of c.
func (f Frame) Index(c Cell) int {
	return c.Tick*f.NWires + c.Wire
}

// Cell returns the cell at linear index i.
func (f Frame) Cell(i int) Cell {
	return Cell{Wire: i % f.NWires, Tick: i / f.NWires}
}

// Window calls fn for every in-frame cell within dw wires and dt ticks of
// c, excluding c itself. Iteration is wire-major: all ticks of the lowest
// wire first.
func (f Frame) Window(c Cell, dw, dt int, fn func(Cell)) {
	for w := c.Wire - dw; w <= c.Wire+dw; w++ {
		for t := c.Tick - dt; t <= c.Tick+dt; t++ {
			n := Cell{Wire: w, Tick: t}
			if n == c || !f.Contains(n) {
				continue
			}
			fn(n)
		}
	}
}

// Neighbours8 calls fn for the in-frame direct neighbours of c.
func (f Frame) Neighbours8(c Cell, fn func(Cell)) {
	f.Window(c, 1, 1, fn)
}
