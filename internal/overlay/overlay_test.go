package overlay

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/CryptoRabea/KingdomsAtDusk-sub000/internal/data"
	"github.com/CryptoRabea/KingdomsAtDusk-sub000/internal/vision"
	"github.com/CryptoRabea/KingdomsAtDusk-sub000/internal/world"
)

func newTestService(t *testing.T) (*vision.Service, world.Handle) {
	t.Helper()
	cfg, err := world.NewWorldConfig(world.Vec2{}, world.Vec2{X: 100, Z: 100}, 10)
	if err != nil {
		t.Fatalf("world config: %v", err)
	}
	svc := vision.New(cfg)
	// Source at (50,50) reveals the four central cells; everything it never
	// touched stays Unexplored.
	h := svc.Register(world.Source{OwnerID: 0, Position: world.Vec2{X: 50, Z: 50}, Radius: 15, Active: true})
	return svc, h
}

func testKinds() *data.KindTable {
	return data.NewKindTable([]data.KindTemplate{
		{Name: "footman", Category: "unit", VisionRadius: 16},
		{Name: "keep", Category: "building", VisionRadius: 24},
		{Name: "farm", Category: "building", VisionRadius: 8, HideInExplored: boolPtr(true)},
	}, true, false)
}

func boolPtr(b bool) *bool { return &b }

func TestToggler_RenderPolicy(t *testing.T) {
	svc, _ := newTestService(t)
	svc.Pass()
	tog := NewToggler(svc, testKinds())

	visiblePos := world.Vec2{X: 50, Z: 50}
	unexploredPos := world.Vec2{X: 5, Z: 5}

	// Own entities render regardless of fog.
	if !tog.ShouldRender(0, Entity{OwnerID: 0, Kind: "footman", Position: unexploredPos}) {
		t.Fatal("own entity must always render")
	}

	// Enemy anything in a Visible cell renders.
	if !tog.ShouldRender(0, Entity{OwnerID: 1, Kind: "footman", Position: visiblePos}) {
		t.Fatal("enemy unit in visible cell should render")
	}

	// Enemy anything in an Unexplored cell never renders.
	if tog.ShouldRender(0, Entity{OwnerID: 1, Kind: "keep", Position: unexploredPos}) {
		t.Fatal("enemy building in unexplored cell must not render")
	}
}

func TestToggler_ExploredSilhouettes(t *testing.T) {
	svc, h := newTestService(t)
	svc.Pass()
	// Walk the source to a far corner so the central cells demote to Explored.
	svc.UpdatePosition(h, world.Vec2{X: 5, Z: 5})
	svc.Pass()

	tog := NewToggler(svc, testKinds())
	exploredPos := world.Vec2{X: 50, Z: 50}
	if got := svc.StateAt(0, exploredPos); got != world.Explored {
		t.Fatalf("setup: expected Explored at %v, got %v", exploredPos, got)
	}

	// Buildings persist as silhouettes in Explored; units do not.
	if !tog.ShouldRender(0, Entity{OwnerID: 1, Kind: "keep", Position: exploredPos}) {
		t.Fatal("enemy building should persist in explored fog")
	}
	if tog.ShouldRender(0, Entity{OwnerID: 1, Kind: "footman", Position: exploredPos}) {
		t.Fatal("enemy unit must not render in explored fog")
	}
	// Per-kind override beats the category default.
	if tog.ShouldRender(0, Entity{OwnerID: 1, Kind: "farm", Position: exploredPos}) {
		t.Fatal("farm opts out of silhouettes via hide_in_explored")
	}
	// Unknown kinds fall back to the unit policy.
	if tog.ShouldRender(0, Entity{OwnerID: 1, Kind: "mystery", Position: exploredPos}) {
		t.Fatal("unknown kinds are treated as units")
	}
}

func TestDimming_FillLevels(t *testing.T) {
	svc, h := newTestService(t)
	svc.Pass()
	dim := NewDimming(svc, 0)

	// One pixel per cell over the whole world: pixel centers coincide with
	// cell centers.
	mask := make([]byte, 10*10)
	dim.Fill(mask, 10, 10, world.Vec2{}, world.Vec2{X: 100, Z: 100})

	if mask[5*10+5] != DimNone {
		t.Fatalf("visible cell should be undimmed, got %#x", mask[5*10+5])
	}
	if mask[0] != DimFull {
		t.Fatalf("unexplored cell should be fully dimmed, got %#x", mask[0])
	}

	// Move the source away and re-fill: the old footprint dims partially.
	svc.UpdatePosition(h, world.Vec2{X: 5, Z: 5})
	svc.Pass()
	dim.Fill(mask, 10, 10, world.Vec2{}, world.Vec2{X: 100, Z: 100})
	if mask[5*10+5] != DimPartial {
		t.Fatalf("explored cell should dim partially, got %#x", mask[5*10+5])
	}
	if mask[0] != DimNone {
		t.Fatal("the source's new cell should be undimmed")
	}
}

func TestDimming_NoSnapshotIsFullShroud(t *testing.T) {
	svc, _ := newTestService(t)
	dim := NewDimming(svc, 3) // owner 3 never had a pass
	mask := make([]byte, 4*4)
	dim.Fill(mask, 4, 4, world.Vec2{}, world.Vec2{X: 100, Z: 100})
	for i, b := range mask {
		if b != DimFull {
			t.Fatalf("mask[%d] should be full shroud, got %#x", i, b)
		}
	}
}

func TestMinimap_RerendersOnlyOnNewVersion(t *testing.T) {
	svc, _ := newTestService(t)
	mm := NewMinimap(svc, 0)

	if img, rendered := mm.Texture(); img != nil || rendered {
		t.Fatal("no snapshot yet: texture must be nil")
	}

	svc.Pass()
	img, rendered := mm.Texture()
	if img == nil || !rendered {
		t.Fatal("first snapshot should render the texture")
	}
	if img.Rect.Dx() != 10 || img.Rect.Dy() != 10 {
		t.Fatalf("texture should be one texel per cell, got %v", img.Rect)
	}

	// Same snapshot version: cached image, no re-render.
	if _, rendered := mm.Texture(); rendered {
		t.Fatal("unchanged snapshot must reuse the cached texture")
	}

	// A new pass bumps the version and forces a re-render.
	svc.Pass()
	if _, rendered := mm.Texture(); !rendered {
		t.Fatal("new snapshot version should re-render")
	}

	// Fog alpha encoding: transparent over visible, opaque over unexplored.
	if got := img.NRGBAAt(5, 5); got != colorVisible {
		t.Fatalf("visible texel should be transparent, got %v", got)
	}
	if got := img.NRGBAAt(0, 0); got != colorUnexplored {
		t.Fatalf("unexplored texel should be opaque shroud, got %v", got)
	}
}

func TestMinimap_TexelAtWorld(t *testing.T) {
	svc, _ := newTestService(t)
	svc.Pass()
	mm := NewMinimap(svc, 0)

	tx, tz, ok := mm.TexelAtWorld(world.Vec2{X: 50, Z: 50})
	if !ok || tx != 5 || tz != 5 {
		t.Fatalf("expected texel (5,5), got (%d,%d) ok=%v", tx, tz, ok)
	}
	// A marker and the fog sample the same texel for the same world point.
	if got := svc.SnapshotFor(0).At(tx, tz); got != world.Visible {
		t.Fatalf("marker texel should agree with fog state, got %v", got)
	}
	if _, _, ok := mm.TexelAtWorld(world.Vec2{X: -5, Z: 50}); ok {
		t.Fatal("off-map positions have no texel")
	}
}

func TestMinimap_EncodePNG(t *testing.T) {
	svc, _ := newTestService(t)
	mm := NewMinimap(svc, 0)

	// Before any pass a 1x1 shroud placeholder is encoded.
	var buf bytes.Buffer
	if err := mm.EncodePNG(&buf); err != nil {
		t.Fatalf("encode placeholder: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode placeholder: %v", err)
	}
	if img.Bounds().Dx() != 1 || img.Bounds().Dy() != 1 {
		t.Fatalf("placeholder should be 1x1, got %v", img.Bounds())
	}

	svc.Pass()
	buf.Reset()
	if err := mm.EncodePNG(&buf); err != nil {
		t.Fatalf("encode: %v", err)
	}
	img, err = png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if img.Bounds().Dx() != 10 || img.Bounds().Dy() != 10 {
		t.Fatalf("expected 10x10 texture, got %v", img.Bounds())
	}
}
