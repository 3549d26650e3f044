package asset

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/singleflight"
)

// Library resolves registered assets through a provider and caches the
// results according to its policy.
//
// A Library is the composition root's handle on the asset system; build one
// per process (or per test) and pass it to whatever needs assets. It is safe
// for concurrent use. Concurrent misses for the same asset share a single
// resolution.
type Library struct {
	registry *Registry
	provider Provider
	policy   atomic.Uint32
	decoders map[Kind]DecodeFunc
	group    singleflight.Group // zero value is valid
	logger   *slog.Logger
}

// New creates a Library serving the assets in reg through provider.
func New(reg *Registry, provider Provider, opts ...Option) (*Library, error) {
	if reg == nil {
		return nil, ErrNilRegistry
	}
	if provider == nil {
		return nil, ErrNilProvider
	}

	l := &Library{
		registry: reg,
		provider: provider,
		decoders: defaultDecoders(),
	}
	l.policy.Store(uint32(DefaultPolicy))
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// log returns the logger, falling back to a discard logger if nil.
func (l *Library) log() *slog.Logger {
	if l.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return l.logger
}

// Registry returns the registry the library serves.
func (l *Library) Registry() *Registry {
	return l.registry
}

// Policy returns the ambient cache policy.
func (l *Library) Policy() Policy {
	return Policy(l.policy.Load())
}

// SetPolicy changes the ambient cache policy. The change applies to the next
// resolution; values already cached are neither evicted nor promoted.
// An undefined policy is ignored.
func (l *Library) SetPolicy(p Policy) {
	if !p.Valid() {
		l.log().Warn("invalid cache policy ignored", "policy", p.String(), "current", l.Policy().String())
		return
	}
	l.policy.Store(uint32(p))
	l.log().Debug("cache policy changed", "policy", p.String())
}

// Path returns the physical path registered for id.
func (l *Library) Path(id string) (string, bool) {
	return l.registry.PathOf(id)
}

// List returns the sorted ids registered with any of kinds, or all ids.
func (l *Library) List(kinds ...Kind) []string {
	return l.registry.IDs(kinds...)
}

// Cached reports whether id currently has a live cached value.
func (l *Library) Cached(id string) bool {
	d, ok := l.registry.Lookup(id)
	return ok && d.Cached()
}

// Evict clears the cache slot of id. It reports whether id is registered.
func (l *Library) Evict(id string) bool {
	d, ok := l.registry.Lookup(id)
	if !ok {
		return false
	}
	d.slot.clear()
	return true
}

// ClearCache clears the cache slots of every asset whose id starts with
// prefix and returns how many held a live value. An empty prefix clears all.
func (l *Library) ClearCache(prefix string) int {
	n := 0
	l.registry.each(func(d *Descriptor) {
		if !strings.HasPrefix(d.id, prefix) {
			return
		}
		if d.slot.live() {
			n++
		}
		d.slot.clear()
	})
	l.log().Debug("cache cleared", "prefix", prefix, "count", n)
	return n
}

// lookup finds id and checks that it can be served as want.
func (l *Library) lookup(op, id string, want Kind) (*Descriptor, error) {
	d, ok := l.registry.Lookup(id)
	if !ok {
		l.log().Warn("missing resource", "id", id, "kind", want.String())
		return nil, &Error{Op: op, ID: id, Kind: want, Err: ErrUnknownID}
	}
	if !accepts(want, d.kind) {
		l.log().Warn("resource is not of type", "id", id, "kind", want.String(), "registered", d.kind.String())
		return nil, &Error{Op: op, ID: id, Kind: want, Err: ErrKindMismatch}
	}
	return d, nil
}

// fail logs a resolution failure and wraps it as ErrUnresolved.
func (l *Library) fail(op, id string, want Kind, err error) error {
	l.log().Warn("resource could not be resolved", "id", id, "kind", want.String(), "error", err)
	return &Error{Op: op, ID: id, Kind: want, Err: fmt.Errorf("%w: %w", ErrUnresolved, err)}
}

// materialize resolves d through the provider and decodes raw bytes.
func (l *Library) materialize(ctx context.Context, d *Descriptor, want Kind) (any, error) {
	raw, err := l.provider.Resolve(ctx, d, want)
	if err != nil {
		return nil, err
	}
	data, ok := raw.([]byte)
	if !ok {
		return raw, nil
	}
	decode := l.decoders[want]
	if decode == nil {
		return nil, fmt.Errorf("no decoder for %s", want)
	}
	return decode(d, data)
}

// get runs the accessor contract for decoded kinds: lookup, kind check,
// cache consult, resolve, store.
func get[T any](ctx context.Context, l *Library, op, id string, want Kind, opts []GetOption) (*T, error) {
	cfg := newGetConfig(opts)

	d, err := l.lookup(op, id, want)
	if err != nil {
		return nil, err
	}

	if cfg.cache.consults() {
		if v, ok := load[T](&d.slot); ok {
			l.log().Debug("asset cache hit", "id", id, "kind", want.String())
			return v, nil
		}
	}
	l.log().Debug("asset cache miss", "id", id, "kind", want.String())

	resolve := func() (any, error) {
		return l.materialize(ctx, d, want)
	}
	// A call that bypasses the cache must get its own value, so it never
	// joins a resolution already in flight.
	var res any
	if cfg.cache.consults() {
		res, err, _ = l.group.Do(op+":"+id, resolve)
	} else {
		res, err = resolve()
	}
	if err != nil {
		return nil, l.fail(op, id, want, err)
	}
	v, ok := res.(*T)
	if !ok || v == nil {
		return nil, l.fail(op, id, want, fmt.Errorf("resolved %T, want %T", res, v))
	}

	store(l, d, v, cfg.cache)
	return v, nil
}

// store persists v in d's slot when the directive and policy allow it.
// A non-persisting call leaves the slot untouched.
func store[T any](l *Library, d *Descriptor, v *T, c directive) {
	p := l.Policy()
	if !c.persists(p) {
		return
	}
	put(&d.slot, v, retainStrong(p))
}
