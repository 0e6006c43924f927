package world

// CellState is the visibility lifecycle of one grid cell.
type CellState uint8

const (
	Unexplored CellState = iota // never seen
	Explored                    // seen before, not currently
	Visible                     // currently observed
)

func (s CellState) String() string {
	switch s {
	case Unexplored:
		return "unexplored"
	case Explored:
		return "explored"
	case Visible:
		return "visible"
	}
	return "invalid"
}

// Grid is one owner's visibility grid. Written only by the aggregator pass;
// readers go through published Snapshots, never this struct.
type Grid struct {
	width  int
	height int
	cells  []CellState
}

func NewGrid(width, height int) *Grid {
	return &Grid{
		width:  width,
		height: height,
		cells:  make([]CellState, width*height),
	}
}

func (g *Grid) Width() int  { return g.width }
func (g *Grid) Height() int { return g.height }

// At returns the state at (x,z). Out-of-range reads answer Unexplored:
// asking about off-map cells is a normal occurrence, not an error.
func (g *Grid) At(x, z int) CellState {
	if x < 0 || z < 0 || x >= g.width || z >= g.height {
		return Unexplored
	}
	return g.cells[z*g.width+x]
}

// Reveal marks a cell Visible.
func (g *Grid) Reveal(x, z int) {
	if x < 0 || z < 0 || x >= g.width || z >= g.height {
		return
	}
	g.cells[z*g.width+x] = Visible
}

// Demote sweeps every Visible cell down to Explored. Cells never return to
// Unexplored; rasterizing the current sources afterwards re-promotes the
// cells still covered. Returns the number of cells touched.
func (g *Grid) Demote() int {
	touched := 0
	for i := range g.cells {
		if g.cells[i] == Visible {
			g.cells[i] = Explored
			touched++
		}
	}
	return touched
}
