package asset

import (
	"sync"
	"weak"
)

// handle is the tagged content of a cache slot.
type handle interface {
	live() bool
}

// owned holds a strong reference; the slot keeps the value alive.
type owned[T any] struct {
	v *T
}

func (h owned[T]) live() bool { return h.v != nil }

// observed holds a weak reference; the value may be collected at any time.
type observed[T any] struct {
	p weak.Pointer[T]
}

func (h observed[T]) live() bool { return h.p.Value() != nil }

// slot is a descriptor's single cache entry. Writes are last-writer-wins.
type slot struct {
	mu sync.Mutex
	h  handle
}

func (s *slot) live() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.h != nil && s.h.live()
}

func (s *slot) clear() {
	s.mu.Lock()
	s.h = nil
	s.mu.Unlock()
}

// load returns the cached value if it is present, alive and of type T.
func load[T any](s *slot) (*T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch h := s.h.(type) {
	case owned[T]:
		return h.v, h.v != nil
	case observed[T]:
		if v := h.p.Value(); v != nil {
			return v, true
		}
	}
	return nil, false
}

// put installs v, replacing whatever the slot held.
func put[T any](s *slot, v *T, strong bool) {
	var h handle
	if strong {
		h = owned[T]{v: v}
	} else {
		h = observed[T]{p: weak.Make(v)}
	}
	s.mu.Lock()
	s.h = h
	s.mu.Unlock()
}

// directive is a per-call cache override. The zero value defers to the
// ambient policy.
type directive struct {
	set bool
	use bool
}

// consults reports whether the cache may be read.
func (c directive) consults() bool {
	return !c.set || c.use
}

// persists reports whether a resolved value should be stored under p.
func (c directive) persists(p Policy) bool {
	if c.set {
		return c.use
	}
	return p != Uncached
}

// retainStrong reports whether persisted values are owned under p. Values
// persisted by an explicit override under Uncached are observed weakly.
func retainStrong(p Policy) bool {
	return p == Strong
}
