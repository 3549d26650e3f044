package preload

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/meigma/asset"
)

// Interface compliance.
var _ asset.Provider = (*Provider)(nil)

// Provider resolves descriptors from a Store.
type Provider struct {
	store  *Store
	logger *slog.Logger
}

// Option configures a Provider.
type Option func(*Provider)

// WithLogger sets the logger used for diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Provider) {
		p.logger = logger
	}
}

// New creates a Provider serving records from store.
func New(store *Store, opts ...Option) *Provider {
	p := &Provider{store: store}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// log returns the logger, falling back to a discard logger if nil.
func (p *Provider) log() *slog.Logger {
	if p.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return p.logger
}

// Resolve returns the preloaded value for the descriptor's path. A raw byte
// request for a decoded font or audio record is served from its file data;
// a decoded image keeps no file data and cannot be read as bytes.
func (p *Provider) Resolve(_ context.Context, d *asset.Descriptor, as asset.Kind) (any, error) {
	rec, ok := p.store.Get(d.Path())
	if !ok {
		p.log().Error("resource accessed before preload completed", "id", d.ID(), "path", d.Path())
		return nil, fmt.Errorf("%s: %w", d.Path(), asset.ErrNotPreloaded)
	}
	if rec.Err != nil {
		p.log().Warn("preloaded resource failed", "id", d.ID(), "path", d.Path(), "error", rec.Err)
		return nil, fmt.Errorf("preload %s: %w", d.Path(), rec.Err)
	}
	if as != asset.KindBinary {
		return rec.Value, nil
	}
	switch v := rec.Value.(type) {
	case *asset.Font:
		return v.Data, nil
	case *asset.Audio:
		return v.Data, nil
	case *asset.Image:
		return nil, fmt.Errorf("%s: decoded image has no raw bytes", d.Path())
	default:
		return rec.Value, nil
	}
}
