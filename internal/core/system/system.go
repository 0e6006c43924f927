package system

import "time"

// Phase defines execution ordering within a single tick.
type Phase int

const (
	PhaseEvents    Phase = iota // 0: swap + dispatch lifecycle events
	PhaseAggregate              // 1: visibility recomputation
	PhaseOutput                 // 2: overlay refresh + frame broadcast
)

// System is the interface every tick system implements.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}
