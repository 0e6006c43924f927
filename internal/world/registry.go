package world

import (
	"sync"

	"github.com/google/uuid"
)

// Handle identifies a registered vision source.
type Handle = uuid.UUID

// Source is one vision emitter. Its lifetime is bound to the entity that
// registered it: created on spawn, position updated as the entity moves,
// removed on despawn.
type Source struct {
	Handle   Handle
	OwnerID  int
	Position Vec2
	Radius   float64
	Kind     string
	Active   bool
}

// Registry tracks active vision sources. Spawn/destroy/move notifications
// arrive from outside the tick goroutine, so access is mutex guarded; the
// aggregator takes a copied slice per pass and never holds the lock while
// rasterizing.
type Registry struct {
	mu      sync.Mutex
	sources map[Handle]*Source
}

func NewRegistry() *Registry {
	return &Registry{sources: make(map[Handle]*Source)}
}

// Register adds a source and returns its handle. If the source already
// carries a known handle the call is a no-op returning that handle —
// re-entrant spawn events must not produce doubled vision rings.
func (r *Registry) Register(src Source) Handle {
	r.mu.Lock()
	defer r.mu.Unlock()
	if src.Handle != uuid.Nil {
		if _, ok := r.sources[src.Handle]; ok {
			return src.Handle
		}
	} else {
		src.Handle = uuid.New()
	}
	s := src
	r.sources[s.Handle] = &s
	return s.Handle
}

// Unregister removes a source. Unknown handles are a no-op: destroy
// notifications can duplicate at the boundary. After return the source
// cannot contribute to any subsequent pass.
func (r *Registry) Unregister(h Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sources, h)
}

// UpdatePosition moves a source. The new position is observed by the next
// pass, not the current one.
func (r *Registry) UpdatePosition(h Handle, pos Vec2) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sources[h]; ok {
		s.Position = pos
	}
}

// SetActive toggles whether a source contributes vision. Inactive sources
// stay registered (stealth, disabled buildings).
func (r *Registry) SetActive(h Handle, active bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sources[h]; ok {
		s.Active = active
	}
}

// SourcesFor returns a copy of the active sources owned by the given owner.
func (r *Registry) SourcesFor(ownerID int) []Source {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Source
	for _, s := range r.sources {
		if s.OwnerID == ownerID && s.Active {
			out = append(out, *s)
		}
	}
	return out
}

// Owners returns the distinct owner ids present in the registry.
func (r *Registry) Owners() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	seen := make(map[int]struct{})
	var out []int
	for _, s := range r.sources {
		if _, ok := seen[s.OwnerID]; !ok {
			seen[s.OwnerID] = struct{}{}
			out = append(out, s.OwnerID)
		}
	}
	return out
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sources)
}

// Clear removes every source. Used on world reset.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sources = make(map[Handle]*Source)
}
