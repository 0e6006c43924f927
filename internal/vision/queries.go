package vision

import "github.com/CryptoRabea/KingdomsAtDusk-sub000/internal/world"

// Read facade. Pure reads against the latest published snapshots: never
// blocks on the pass goroutine, never triggers a recomputation.

// StateAt returns the cell state under a world position for the given
// owner. Positions outside world bounds — and owners with no grid yet —
// resolve to Unexplored; off-map queries are an expected, frequent case.
func (s *Service) StateAt(ownerID int, pos world.Vec2) world.CellState {
	cfg := s.cfg.Load()
	if cfg == nil {
		return world.Unexplored
	}
	snap := (*s.snaps.Load())[ownerID]
	if snap == nil {
		return world.Unexplored
	}
	return snap.StateAtWorld(cfg, pos)
}

// IsVisible reports whether the cell under pos is currently observed.
func (s *Service) IsVisible(ownerID int, pos world.Vec2) bool {
	return s.StateAt(ownerID, pos) == world.Visible
}

// IsEntityVisible reports whether an entity standing at pos is currently
// observed by the given owner. Sugar over StateAt == Visible.
func (s *Service) IsEntityVisible(ownerID int, entityPos world.Vec2) bool {
	return s.StateAt(ownerID, entityPos) == world.Visible
}

// SnapshotFor returns the owner's latest published grid snapshot, or nil
// when no pass has produced one. Overlay renderers use this to avoid
// per-pixel facade calls.
func (s *Service) SnapshotFor(ownerID int) *world.Snapshot {
	return (*s.snaps.Load())[ownerID]
}

// World returns the canonical world configuration, nil when unconfigured.
// Consumers must derive every coordinate mapping from this instance.
func (s *Service) World() *world.WorldConfig {
	return s.cfg.Load()
}
