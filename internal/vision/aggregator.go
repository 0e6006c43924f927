package vision

import (
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/CryptoRabea/KingdomsAtDusk-sub000/internal/scripting"
	"github.com/CryptoRabea/KingdomsAtDusk-sub000/internal/world"
)

// Pass runs one aggregation cycle: for each owner grid, demote previously
// Visible cells to Explored, then rasterize every active source disc back
// into the grid and publish a fresh snapshot.
//
// The cell budget is accounted per owner. An owner grid is always
// recomputed whole — readers only ever see fully-consistent snapshots —
// but when the budget runs out remaining owners are deferred and the scan
// resumes from them next pass. At least one owner is processed per pass so
// a single large grid cannot stall forever.
func (s *Service) Pass() {
	start := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	cfg := s.cfg.Load()
	if cfg == nil {
		if !s.warned {
			s.log.Warn("visibility pass skipped: world not configured")
			s.warned = true
		}
		return
	}

	owners := s.ownerSet()
	if len(owners) > 0 {
		budget := s.maxCellsPerPass
		n := len(owners)
		if s.cursor >= n {
			s.cursor = 0
		}
		deferred := -1
		for i := 0; i < n; i++ {
			idx := (s.cursor + i) % n
			if i > 0 && budget <= 0 {
				deferred = idx
				break
			}
			budget -= s.recomputeOwner(cfg, owners[idx])
		}
		if deferred >= 0 {
			s.cursor = deferred
			s.log.Debug("visibility pass split: cell budget exhausted",
				zap.Int("resume_owner", owners[deferred]),
				zap.Int("budget", s.maxCellsPerPass))
		} else {
			s.cursor = 0
		}
	}

	s.passes.Add(1)
	s.passNano.Store(time.Since(start).Nanoseconds())
}

// ownerSet returns the owners needing recomputation this pass: everyone
// with registered sources plus everyone who already has a grid (an owner
// whose last source just unregistered still needs its demotion sweep).
func (s *Service) ownerSet() []int {
	seen := make(map[int]struct{})
	for owner := range s.grids {
		seen[owner] = struct{}{}
	}
	for _, owner := range s.registry.Owners() {
		seen[owner] = struct{}{}
	}
	owners := make([]int, 0, len(seen))
	for owner := range seen {
		owners = append(owners, owner)
	}
	sort.Ints(owners)
	return owners
}

// recomputeOwner rebuilds one owner's grid and publishes its snapshot.
// Returns an estimate of cells touched, for budget accounting.
func (s *Service) recomputeOwner(cfg *world.WorldConfig, owner int) int {
	g := s.grids[owner]
	if g == nil {
		g = world.NewGrid(cfg.GridWidth(), cfg.GridHeight())
		s.grids[owner] = g
	}

	touched := g.Demote()
	for _, src := range s.registry.SourcesFor(owner) {
		touched += s.rasterize(cfg, g, src)
	}

	s.version++
	snap := world.NewSnapshot(owner, g, s.epoch, s.version)
	s.publish(owner, snap)
	return touched
}

// rasterize marks Visible every cell whose center lies within the source's
// radius. Bounding-box prefilter, then exact distance test; a center
// exactly on the boundary counts as covered.
func (s *Service) rasterize(cfg *world.WorldConfig, g *world.Grid, src world.Source) int {
	radius := src.Radius
	if s.scripts != nil {
		hour := 12.0
		if s.clock != nil {
			hour = s.clock()
		}
		radius = s.scripts.VisionRadius(scripting.VisionContext{
			Kind:       src.Kind,
			OwnerID:    src.OwnerID,
			BaseRadius: src.Radius,
			ClockHour:  hour,
		})
	}
	if radius <= 0 {
		return 0
	}

	x0, z0 := cfg.WorldToCell(world.Vec2{X: src.Position.X - radius, Z: src.Position.Z - radius})
	x1, z1 := cfg.WorldToCell(world.Vec2{X: src.Position.X + radius, Z: src.Position.Z + radius})

	r2 := radius * radius
	touched := 0
	for z := z0; z <= z1; z++ {
		for x := x0; x <= x1; x++ {
			touched++
			center := cfg.CellToWorld(x, z)
			dx := center.X - src.Position.X
			dz := center.Z - src.Position.Z
			if dx*dx+dz*dz <= r2+distEpsilon {
				g.Reveal(x, z)
			}
		}
	}
	return touched
}

// distEpsilon absorbs float error so a center mathematically on the radius
// boundary tests as covered.
const distEpsilon = 1e-9

// publish swaps the copy-on-write snapshot map.
func (s *Service) publish(owner int, snap *world.Snapshot) {
	old := *s.snaps.Load()
	next := make(map[int]*world.Snapshot, len(old)+1)
	for k, v := range old {
		next[k] = v
	}
	next[owner] = snap
	s.snaps.Store(&next)
}

// passDuration returns the wall time of the most recent pass.
func (s *Service) passDuration() time.Duration {
	return time.Duration(s.passNano.Load())
}
