package main

import (
	"math"
	"math/rand"
	"time"

	"github.com/CryptoRabea/KingdomsAtDusk-sub000/internal/core/event"
	"github.com/CryptoRabea/KingdomsAtDusk-sub000/internal/data"
	"github.com/CryptoRabea/KingdomsAtDusk-sub000/internal/world"
)

// simulation drives a small scripted battle through the event bus so the
// daemon exercises the same spawn/move/despawn path a game host would.
type simulation struct {
	bus    *event.Bus
	kinds  *data.KindTable
	wcfg   *world.WorldConfig
	actors []*actor
	nextID uint64
}

type actor struct {
	id      uint64
	ownerID int
	kind    string
	pos     world.Vec2
	center  world.Vec2
	orbit   float64 // patrol radius; 0 = stationary building
	angle   float64
	speed   float64 // radians per second
}

func newSimulation(bus *event.Bus, kinds *data.KindTable, wcfg *world.WorldConfig) *simulation {
	return &simulation{bus: bus, kinds: kinds, wcfg: wcfg, nextID: 1}
}

// spawnAll places a keep and a patrol for each of two owners, mirrored
// across the map diagonal.
func (s *simulation) spawnAll() {
	w := s.wcfg.BoundsMax.X - s.wcfg.BoundsMin.X
	h := s.wcfg.BoundsMax.Z - s.wcfg.BoundsMin.Z

	for ownerID := 0; ownerID <= 1; ownerID++ {
		fx := 0.25 + 0.5*float64(ownerID) // 0.25 or 0.75 across the map
		base := world.Vec2{
			X: s.wcfg.BoundsMin.X + fx*w,
			Z: s.wcfg.BoundsMin.Z + fx*h,
		}
		s.spawn(ownerID, "keep", base, 0, 0)
		for i := 0; i < 6; i++ {
			s.spawn(ownerID, "footman", base, 20+rand.Float64()*30, 0.2+rand.Float64()*0.4)
		}
		for i := 0; i < 2; i++ {
			s.spawn(ownerID, "scout", base, 60+rand.Float64()*40, 0.5+rand.Float64()*0.5)
		}
	}
}

func (s *simulation) spawn(ownerID int, kind string, center world.Vec2, orbit, speed float64) {
	a := &actor{
		id:      s.nextID,
		ownerID: ownerID,
		kind:    kind,
		center:  center,
		orbit:   orbit,
		angle:   rand.Float64() * 2 * math.Pi,
		speed:   speed,
	}
	s.nextID++
	a.pos = a.position()
	s.actors = append(s.actors, a)

	radius := 0.0
	if k := s.kinds.Get(kind); k != nil {
		radius = k.VisionRadius
	}
	event.Emit(s.bus, event.EntitySpawned{
		EntityID:     a.id,
		OwnerID:      a.ownerID,
		Kind:         a.kind,
		Position:     a.pos,
		VisionRadius: radius,
	})
}

// step advances every patrolling actor and emits the move notifications.
func (s *simulation) step(dt time.Duration) {
	for _, a := range s.actors {
		if a.orbit == 0 {
			continue
		}
		a.angle += a.speed * dt.Seconds()
		a.pos = a.position()
		event.Emit(s.bus, event.EntityMoved{EntityID: a.id, NewPosition: a.pos})
	}
}

func (a *actor) position() world.Vec2 {
	return world.Vec2{
		X: a.center.X + a.orbit*math.Cos(a.angle),
		Z: a.center.Z + a.orbit*math.Sin(a.angle),
	}
}

func (s *simulation) count() int { return len(s.actors) }
