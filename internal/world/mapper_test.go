package world

import (
	"math"
	"testing"
)

func mustConfig(t *testing.T, min, max Vec2, cell float64) *WorldConfig {
	t.Helper()
	cfg, err := NewWorldConfig(min, max, cell)
	if err != nil {
		t.Fatalf("world config: %v", err)
	}
	return cfg
}

func TestWorldConfig_GridDimensions(t *testing.T) {
	cfg := mustConfig(t, Vec2{0, 0}, Vec2{100, 100}, 10)
	if cfg.GridWidth() != 10 || cfg.GridHeight() != 10 {
		t.Fatalf("expected 10x10 grid, got %dx%d", cfg.GridWidth(), cfg.GridHeight())
	}

	// Non-divisible extents round up so the grid covers the whole world.
	cfg = mustConfig(t, Vec2{0, 0}, Vec2{95, 95}, 10)
	if cfg.GridWidth() != 10 || cfg.GridHeight() != 10 {
		t.Fatalf("expected ceil to 10x10, got %dx%d", cfg.GridWidth(), cfg.GridHeight())
	}
}

func TestWorldConfig_Validation(t *testing.T) {
	if _, err := NewWorldConfig(Vec2{0, 0}, Vec2{100, 100}, 0); err == nil {
		t.Fatal("zero cell size should be rejected")
	}
	if _, err := NewWorldConfig(Vec2{0, 0}, Vec2{100, 100}, -2); err == nil {
		t.Fatal("negative cell size should be rejected")
	}
	if _, err := NewWorldConfig(Vec2{50, 0}, Vec2{50, 100}, 10); err == nil {
		t.Fatal("zero-width bounds should be rejected")
	}
	if _, err := NewWorldConfig(Vec2{100, 100}, Vec2{0, 0}, 10); err == nil {
		t.Fatal("inverted bounds should be rejected")
	}
}

func TestWorldToCell_Clamps(t *testing.T) {
	cfg := mustConfig(t, Vec2{0, 0}, Vec2{100, 100}, 10)

	x, z := cfg.WorldToCell(Vec2{-50, -50})
	if x != 0 || z != 0 {
		t.Fatalf("below-min should clamp to (0,0), got (%d,%d)", x, z)
	}
	x, z = cfg.WorldToCell(Vec2{1000, 1000})
	if x != 9 || z != 9 {
		t.Fatalf("above-max should clamp to (9,9), got (%d,%d)", x, z)
	}
	x, z = cfg.WorldToCell(Vec2{55, 25})
	if x != 5 || z != 2 {
		t.Fatalf("expected (5,2), got (%d,%d)", x, z)
	}
}

func TestWorldToCell_NegativeBounds(t *testing.T) {
	cfg := mustConfig(t, Vec2{-100, -100}, Vec2{100, 100}, 10)
	x, z := cfg.WorldToCell(Vec2{-95, 95})
	if x != 0 || z != 19 {
		t.Fatalf("expected (0,19), got (%d,%d)", x, z)
	}
}

func TestCoordinateRoundTrip(t *testing.T) {
	cfg := mustConfig(t, Vec2{-64, -64}, Vec2{64, 64}, 2)

	// CellToWorld(WorldToCell(p)) must land within one cell size of p for
	// every in-bounds p.
	for px := -64.0; px < 64; px += 3.7 {
		for pz := -64.0; pz < 64; pz += 5.3 {
			p := Vec2{px, pz}
			cx, cz := cfg.WorldToCell(p)
			back := cfg.CellToWorld(cx, cz)
			if math.Abs(back.X-p.X) > cfg.CellSize || math.Abs(back.Z-p.Z) > cfg.CellSize {
				t.Fatalf("round trip drifted: %v -> (%d,%d) -> %v", p, cx, cz, back)
			}
		}
	}
}

func TestWorldToNormalized(t *testing.T) {
	cfg := mustConfig(t, Vec2{0, 0}, Vec2{200, 100}, 10)

	u, v := cfg.WorldToNormalized(Vec2{100, 50})
	if u != 0.5 || v != 0.5 {
		t.Fatalf("center should map to (0.5,0.5), got (%v,%v)", u, v)
	}
	u, v = cfg.WorldToNormalized(Vec2{-10, 500})
	if u != 0 || v != 1 {
		t.Fatalf("off-map should clamp to [0,1], got (%v,%v)", u, v)
	}
}

func TestContains(t *testing.T) {
	cfg := mustConfig(t, Vec2{0, 0}, Vec2{100, 100}, 10)
	if !cfg.Contains(Vec2{50, 50}) {
		t.Fatal("interior point should be contained")
	}
	if cfg.Contains(Vec2{1000, 1000}) {
		t.Fatal("far point should not be contained")
	}
	if cfg.Contains(Vec2{100, 50}) {
		t.Fatal("max edge is exclusive")
	}
	if !cfg.Contains(Vec2{0, 0}) {
		t.Fatal("min edge is inclusive")
	}
}
