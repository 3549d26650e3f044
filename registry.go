package asset

import (
	"fmt"
	"slices"
	"sync"
)

// Registry maps asset ids to descriptors.
//
// A registry is populated before it is handed to a [Library]; after that it
// is only read. Register is safe for concurrent use, but assets registered
// while accessors are running may or may not be observed by them.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*Descriptor
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*Descriptor)}
}

// Register adds an asset. It fails for empty ids, invalid kinds and ids
// that are already registered.
func (r *Registry) Register(id, path string, kind Kind) (*Descriptor, error) {
	if id == "" {
		return nil, ErrEmptyID
	}
	if !kind.Valid() {
		return nil, fmt.Errorf("register %s: %w: %d", id, ErrInvalidKind, uint8(kind))
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[id]; ok {
		return nil, fmt.Errorf("register %s: %w", id, ErrDuplicateID)
	}
	d := &Descriptor{id: id, path: path, kind: kind}
	r.entries[id] = d
	return d, nil
}

// Lookup returns the descriptor for id.
func (r *Registry) Lookup(id string) (*Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.entries[id]
	return d, ok
}

// PathOf returns the physical path registered for id.
func (r *Registry) PathOf(id string) (string, bool) {
	d, ok := r.Lookup(id)
	if !ok {
		return "", false
	}
	return d.path, true
}

// Len returns the number of registered assets.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// IDs returns the sorted ids of assets registered with any of kinds.
// With no kinds, all ids are returned.
func (r *Registry) IDs(kinds ...Kind) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.entries))
	for id, d := range r.entries {
		if len(kinds) == 0 || slices.Contains(kinds, d.kind) {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids
}

// each calls fn for every descriptor in unspecified order.
func (r *Registry) each(fn func(*Descriptor)) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, d := range r.entries {
		fn(d)
	}
}
