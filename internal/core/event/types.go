package event

import "github.com/CryptoRabea/KingdomsAtDusk-sub000/internal/world"

// Entity lifecycle notifications emitted by the unit/building subsystem.
// Fire-and-forget: no ordering guarantee beyond "observed before the pass
// after next SwapBuffers".

type EntitySpawned struct {
	EntityID     uint64
	OwnerID      int
	Kind         string
	Position     world.Vec2
	VisionRadius float64
}

type EntityDestroyed struct {
	EntityID uint64
}

type EntityMoved struct {
	EntityID    uint64
	NewPosition world.Vec2
}
