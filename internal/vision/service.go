package vision

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/CryptoRabea/KingdomsAtDusk-sub000/internal/core/event"
	"github.com/CryptoRabea/KingdomsAtDusk-sub000/internal/data"
	"github.com/CryptoRabea/KingdomsAtDusk-sub000/internal/scripting"
	"github.com/CryptoRabea/KingdomsAtDusk-sub000/internal/world"
)

// Service owns the per-owner visibility grids, the vision source registry
// and the aggregation pass. It is an explicitly constructed instance passed
// to consumers — there is no ambient global. The pass goroutine is the only
// grid writer; consumers read published snapshots through the facade.
type Service struct {
	log      *zap.Logger
	registry *world.Registry
	kinds    *data.KindTable
	scripts  *scripting.Engine
	clock    func() float64 // world clock hour for script rules

	updateInterval  time.Duration
	maxCellsPerPass int

	// cfg is readable lock-free by the query facade; nil means the world is
	// not configured yet and passes no-op.
	cfg atomic.Pointer[world.WorldConfig]

	// snaps holds the published per-owner snapshots, swapped copy-on-write
	// at each publish so readers never block.
	snaps atomic.Pointer[map[int]*world.Snapshot]

	mu      sync.Mutex // guards everything below (pass + reset)
	grids   map[int]*world.Grid
	epoch   uint64
	version uint64
	cursor  int // owner round-robin resume point for budget carry-over
	warned  bool

	entMu    sync.Mutex
	handles  map[uint64]world.Handle // entity id → source handle
	passes   atomic.Uint64
	passNano atomic.Int64

	cancel context.CancelFunc
	done   chan struct{}
}

// Option configures a Service.
type Option func(*Service)

func WithLogger(log *zap.Logger) Option {
	return func(s *Service) { s.log = log }
}

// WithKinds supplies the entity kind table used to resolve vision radii for
// spawn notifications that omit one.
func WithKinds(t *data.KindTable) Option {
	return func(s *Service) { s.kinds = t }
}

// WithScripting enables Lua vision-radius modifiers.
func WithScripting(e *scripting.Engine) Option {
	return func(s *Service) { s.scripts = e }
}

// WithClock supplies the world clock (hour 0-24) passed to vision scripts.
func WithClock(fn func() float64) Option {
	return func(s *Service) { s.clock = fn }
}

func WithUpdateInterval(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.updateInterval = d
		}
	}
}

func WithMaxCellsPerPass(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxCellsPerPass = n
		}
	}
}

// New creates a visibility service. cfg may be nil: the service then defers
// passes (logging a single warning) until Reset supplies a configuration.
func New(cfg *world.WorldConfig, opts ...Option) *Service {
	s := &Service{
		log:             zap.NewNop(),
		registry:        world.NewRegistry(),
		updateInterval:  100 * time.Millisecond,
		maxCellsPerPass: 800,
		grids:           make(map[int]*world.Grid),
		handles:         make(map[uint64]world.Handle),
	}
	for _, opt := range opts {
		opt(s)
	}
	if cfg != nil {
		s.cfg.Store(cfg)
	}
	empty := make(map[int]*world.Snapshot)
	s.snaps.Store(&empty)
	return s
}

// Start launches the standalone pass loop on a fixed interval. Hosts that
// embed the service in their own tick (via the system runner) call Pass
// themselves instead.
func (s *Service) Start(ctx context.Context, bus *event.Bus) {
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})
	if bus != nil {
		s.BindBus(bus)
	}
	go func() {
		defer close(s.done)
		ticker := time.NewTicker(s.updateInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if bus != nil {
					bus.SwapBuffers()
					bus.DispatchAll()
				}
				s.Pass()
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop halts the pass loop and waits for the in-flight pass to finish.
func (s *Service) Stop() {
	if s.cancel != nil {
		s.cancel()
		<-s.done
	}
}

// Reset atomically replaces the world configuration, clearing every owner
// grid and the source registry. Existing snapshots are superseded (epoch
// bump); new registrations are accepted immediately after return.
func (s *Service) Reset(cfg *world.WorldConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.registry.Clear()
	s.entMu.Lock()
	s.handles = make(map[uint64]world.Handle)
	s.entMu.Unlock()

	s.grids = make(map[int]*world.Grid)
	s.epoch++
	s.cursor = 0
	s.warned = false
	empty := make(map[int]*world.Snapshot)
	s.snaps.Store(&empty)
	s.cfg.Store(cfg)

	if cfg != nil {
		s.log.Info("visibility world reset",
			zap.Int("grid_width", cfg.GridWidth()),
			zap.Int("grid_height", cfg.GridHeight()),
			zap.Float64("cell_size", cfg.CellSize))
	}
}

// UpdateInterval returns the configured pass cadence.
func (s *Service) UpdateInterval() time.Duration { return s.updateInterval }

// ── Source registration ────────────────────────────────────────────

// Register adds a vision source directly. Most callers go through the
// lifecycle events instead.
func (s *Service) Register(src world.Source) world.Handle {
	return s.registry.Register(src)
}

func (s *Service) Unregister(h world.Handle) {
	s.registry.Unregister(h)
}

func (s *Service) UpdatePosition(h world.Handle, pos world.Vec2) {
	s.registry.UpdatePosition(h, pos)
}

func (s *Service) SetActive(h world.Handle, active bool) {
	s.registry.SetActive(h, active)
}

// BindBus subscribes the service to entity lifecycle notifications.
func (s *Service) BindBus(bus *event.Bus) {
	event.Subscribe(bus, s.HandleSpawned)
	event.Subscribe(bus, s.HandleDestroyed)
	event.Subscribe(bus, s.HandleMoved)
}

// HandleSpawned registers a vision source for a spawned entity. A duplicate
// spawn notification for an already-tracked entity is a no-op.
func (s *Service) HandleSpawned(ev event.EntitySpawned) {
	s.entMu.Lock()
	defer s.entMu.Unlock()
	if _, ok := s.handles[ev.EntityID]; ok {
		return
	}
	radius := ev.VisionRadius
	if radius <= 0 && s.kinds != nil {
		if k := s.kinds.Get(ev.Kind); k != nil {
			radius = k.VisionRadius
		}
	}
	h := s.registry.Register(world.Source{
		OwnerID:  ev.OwnerID,
		Position: ev.Position,
		Radius:   radius,
		Kind:     ev.Kind,
		Active:   true,
	})
	s.handles[ev.EntityID] = h
}

// HandleDestroyed unregisters the entity's source. The source is excluded
// starting with the very next pass; duplicates are no-ops.
func (s *Service) HandleDestroyed(ev event.EntityDestroyed) {
	s.entMu.Lock()
	h, ok := s.handles[ev.EntityID]
	if ok {
		delete(s.handles, ev.EntityID)
	}
	s.entMu.Unlock()
	if ok {
		s.registry.Unregister(h)
	}
}

// HandleMoved updates the entity's source position, observed by the next
// scheduled pass.
func (s *Service) HandleMoved(ev event.EntityMoved) {
	s.entMu.Lock()
	h, ok := s.handles[ev.EntityID]
	s.entMu.Unlock()
	if ok {
		s.registry.UpdatePosition(h, ev.NewPosition)
	}
}
