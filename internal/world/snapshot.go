package world

import "time"

// Snapshot is an immutable copy of one owner's grid, published at the end
// of an aggregator pass. Readers always see a complete grid from some prior
// pass, never a partially-updated one.
type Snapshot struct {
	OwnerID int
	Width   int
	Height  int
	Epoch   uint64 // bumped on world reset; snapshots across epochs never compare
	Version uint64 // bumped every publish; lets overlays skip unchanged frames
	TakenAt time.Time

	cells []CellState
}

// NewSnapshot copies the grid. The copy is what makes the single-writer /
// many-reader discipline lock-free for readers.
func NewSnapshot(ownerID int, g *Grid, epoch, version uint64) *Snapshot {
	cells := make([]CellState, len(g.cells))
	copy(cells, g.cells)
	return &Snapshot{
		OwnerID: ownerID,
		Width:   g.width,
		Height:  g.height,
		Epoch:   epoch,
		Version: version,
		TakenAt: time.Now(),
		cells:   cells,
	}
}

// At returns the state at (x,z), Unexplored when out of range.
func (s *Snapshot) At(x, z int) CellState {
	if x < 0 || z < 0 || x >= s.Width || z >= s.Height {
		return Unexplored
	}
	return s.cells[z*s.Width+x]
}

// StateAtWorld resolves a world position through the shared mapper.
// Off-map positions answer Unexplored.
func (s *Snapshot) StateAtWorld(cfg *WorldConfig, p Vec2) CellState {
	if !cfg.Contains(p) {
		return Unexplored
	}
	x, z := cfg.WorldToCell(p)
	return s.At(x, z)
}

// Count returns how many cells are in the given state. Diagnostics only.
func (s *Snapshot) Count(state CellState) int {
	n := 0
	for _, c := range s.cells {
		if c == state {
			n++
		}
	}
	return n
}
