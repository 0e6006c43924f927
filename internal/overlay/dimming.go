package overlay

import (
	"github.com/CryptoRabea/KingdomsAtDusk-sub000/internal/vision"
	"github.com/CryptoRabea/KingdomsAtDusk-sub000/internal/world"
)

// Dim levels written into the world-view mask. 0 = no dimming.
const (
	DimNone    byte = 0    // Visible
	DimPartial byte = 0x90 // Explored
	DimFull    byte = 0xFF // Unexplored
)

// Dimming renders the world-view fog mask. It owns no visibility state: it
// reads one snapshot per fill and maps pixels through the service's world
// configuration — never a bounds definition of its own.
type Dimming struct {
	svc     *vision.Service
	ownerID int
}

func NewDimming(svc *vision.Service, ownerID int) *Dimming {
	return &Dimming{svc: svc, ownerID: ownerID}
}

// Fill writes one dim byte per pixel for a world-space view rectangle
// sampled at width x height. mask must hold width*height bytes. Called on
// the render cadence; cheap because it samples a single snapshot.
func (d *Dimming) Fill(mask []byte, width, height int, viewMin, viewMax world.Vec2) {
	cfg := d.svc.World()
	snap := d.svc.SnapshotFor(d.ownerID)
	if cfg == nil || snap == nil {
		for i := range mask[:width*height] {
			mask[i] = DimFull
		}
		return
	}

	stepX := (viewMax.X - viewMin.X) / float64(width)
	stepZ := (viewMax.Z - viewMin.Z) / float64(height)
	for py := 0; py < height; py++ {
		wz := viewMin.Z + (float64(py)+0.5)*stepZ
		row := py * width
		for px := 0; px < width; px++ {
			wp := world.Vec2{X: viewMin.X + (float64(px)+0.5)*stepX, Z: wz}
			mask[row+px] = dimFor(snap.StateAtWorld(cfg, wp))
		}
	}
}

func dimFor(state world.CellState) byte {
	switch state {
	case world.Visible:
		return DimNone
	case world.Explored:
		return DimPartial
	default:
		return DimFull
	}
}
