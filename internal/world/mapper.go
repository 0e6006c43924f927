package world

import (
	"fmt"
	"math"
)

// Vec2 is a world-space position.
type Vec2 struct {
	X float64
	Z float64
}

// WorldConfig is the single canonical definition of the playable bounds and
// the visibility cell size. Every subsystem that maps world↔grid coordinates
// must read from this one instance; a second, independently-configured bounds
// is a correctness bug (markers drifting from fog, clicks mapping to the
// wrong world point).
type WorldConfig struct {
	BoundsMin Vec2
	BoundsMax Vec2
	CellSize  float64

	gridWidth  int
	gridHeight int
}

// NewWorldConfig validates the bounds and derives the grid dimensions.
func NewWorldConfig(min, max Vec2, cellSize float64) (*WorldConfig, error) {
	if cellSize <= 0 {
		return nil, fmt.Errorf("world config: cell size %v must be positive", cellSize)
	}
	if max.X <= min.X || max.Z <= min.Z {
		return nil, fmt.Errorf("world config: bounds max (%v,%v) must exceed min (%v,%v)",
			max.X, max.Z, min.X, min.Z)
	}
	c := &WorldConfig{BoundsMin: min, BoundsMax: max, CellSize: cellSize}
	c.gridWidth = int(math.Ceil((max.X - min.X) / cellSize))
	c.gridHeight = int(math.Ceil((max.Z - min.Z) / cellSize))
	return c, nil
}

func (c *WorldConfig) GridWidth() int  { return c.gridWidth }
func (c *WorldConfig) GridHeight() int { return c.gridHeight }

// Contains reports whether a world position lies inside the bounds.
func (c *WorldConfig) Contains(p Vec2) bool {
	return p.X >= c.BoundsMin.X && p.X < c.BoundsMax.X &&
		p.Z >= c.BoundsMin.Z && p.Z < c.BoundsMax.Z
}

// WorldToCell maps a world position to grid cell indices, clamped into
// [0,gridWidth) x [0,gridHeight). Off-map positions map to the nearest edge
// cell; callers that need to distinguish off-map use Contains.
func (c *WorldConfig) WorldToCell(p Vec2) (int, int) {
	cx := int(math.Floor((p.X - c.BoundsMin.X) / c.CellSize))
	cz := int(math.Floor((p.Z - c.BoundsMin.Z) / c.CellSize))
	return clamp(cx, 0, c.gridWidth-1), clamp(cz, 0, c.gridHeight-1)
}

// CellToWorld returns the world-space center of a cell.
func (c *WorldConfig) CellToWorld(cx, cz int) Vec2 {
	return Vec2{
		X: c.BoundsMin.X + (float64(cx)+0.5)*c.CellSize,
		Z: c.BoundsMin.Z + (float64(cz)+0.5)*c.CellSize,
	}
}

// WorldToNormalized maps a world position into [0,1]^2 map space for
// texture and minimap sampling. Clamped at the edges.
func (c *WorldConfig) WorldToNormalized(p Vec2) (float64, float64) {
	u := (p.X - c.BoundsMin.X) / (c.BoundsMax.X - c.BoundsMin.X)
	v := (p.Z - c.BoundsMin.Z) / (c.BoundsMax.Z - c.BoundsMin.Z)
	return clampF(u, 0, 1), clampF(v, 0, 1)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
