package overlay

import (
	"github.com/CryptoRabea/KingdomsAtDusk-sub000/internal/data"
	"github.com/CryptoRabea/KingdomsAtDusk-sub000/internal/vision"
	"github.com/CryptoRabea/KingdomsAtDusk-sub000/internal/world"
)

// Entity is the minimal view of a unit or building the toggler needs.
type Entity struct {
	OwnerID  int
	Kind     string
	Position world.Vec2
}

// Toggler decides per-entity render/selection eligibility from the viewer's
// grid. Owned entities are always shown; enemy units show only while
// Visible; enemy buildings persist as remembered silhouettes in Explored
// unless their kind opts out.
type Toggler struct {
	svc   *vision.Service
	kinds *data.KindTable
}

func NewToggler(svc *vision.Service, kinds *data.KindTable) *Toggler {
	return &Toggler{svc: svc, kinds: kinds}
}

// ShouldRender reports whether viewerOwner currently gets to see e.
func (t *Toggler) ShouldRender(viewerOwner int, e Entity) bool {
	if e.OwnerID == viewerOwner {
		return true
	}
	switch t.svc.StateAt(viewerOwner, e.Position) {
	case world.Visible:
		return true
	case world.Explored:
		return !t.kinds.HideInExplored(e.Kind)
	default:
		// Never seen: nothing renders, silhouettes included.
		return false
	}
}
