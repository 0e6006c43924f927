package system

import (
	"testing"
	"time"
)

type recordingSystem struct {
	phase Phase
	log   *[]Phase
}

func (s *recordingSystem) Phase() Phase { return s.phase }
func (s *recordingSystem) Update(time.Duration) {
	*s.log = append(*s.log, s.phase)
}

func TestRunner_TicksInPhaseOrder(t *testing.T) {
	r := NewRunner()
	var log []Phase
	// Register out of order: the runner sorts by phase before ticking.
	r.Register(&recordingSystem{phase: PhaseOutput, log: &log})
	r.Register(&recordingSystem{phase: PhaseEvents, log: &log})
	r.Register(&recordingSystem{phase: PhaseAggregate, log: &log})

	r.Tick(time.Millisecond)
	want := []Phase{PhaseEvents, PhaseAggregate, PhaseOutput}
	if len(log) != len(want) {
		t.Fatalf("expected %d updates, got %v", len(want), log)
	}
	for i, p := range want {
		if log[i] != p {
			t.Fatalf("tick order %v, want %v", log, want)
		}
	}
}

func TestRunner_TickPhaseFilters(t *testing.T) {
	r := NewRunner()
	var log []Phase
	r.Register(&recordingSystem{phase: PhaseEvents, log: &log})
	r.Register(&recordingSystem{phase: PhaseAggregate, log: &log})

	r.TickPhase(PhaseEvents, time.Millisecond)
	if len(log) != 1 || log[0] != PhaseEvents {
		t.Fatalf("expected only the events phase to run, got %v", log)
	}
}
