package system

import (
	"time"

	coresys "github.com/CryptoRabea/KingdomsAtDusk-sub000/internal/core/system"
	"github.com/CryptoRabea/KingdomsAtDusk-sub000/internal/core/event"
)

// DispatchSystem rotates the event bus buffers and delivers last tick's
// entity lifecycle notifications. Runs first in every tick.
type DispatchSystem struct {
	bus *event.Bus
}

func NewDispatchSystem(bus *event.Bus) *DispatchSystem {
	return &DispatchSystem{bus: bus}
}

func (s *DispatchSystem) Phase() coresys.Phase { return coresys.PhaseEvents }

func (s *DispatchSystem) Update(_ time.Duration) {
	s.bus.SwapBuffers()
	s.bus.DispatchAll()
}
