package system

import (
	"time"

	coresys "github.com/CryptoRabea/KingdomsAtDusk-sub000/internal/core/system"
	"github.com/CryptoRabea/KingdomsAtDusk-sub000/internal/vision"
)

// VisibilitySystem runs the aggregation pass on its phase. A tick divider
// lets hosts that tick faster than the visibility cadence keep the pass on
// its own interval: with everyN = 2 the pass runs every second tick.
type VisibilitySystem struct {
	svc    *vision.Service
	everyN int
	ticks  int
}

func NewVisibilitySystem(svc *vision.Service, everyN int) *VisibilitySystem {
	if everyN < 1 {
		everyN = 1
	}
	return &VisibilitySystem{svc: svc, everyN: everyN}
}

func (s *VisibilitySystem) Phase() coresys.Phase { return coresys.PhaseAggregate }

func (s *VisibilitySystem) Update(_ time.Duration) {
	s.ticks++
	if s.ticks < s.everyN {
		return
	}
	s.ticks = 0
	s.svc.Pass()
}
