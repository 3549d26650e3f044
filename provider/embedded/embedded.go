// Package embedded provides an asset.Provider backed by compiled-in
// resources.
//
// Any fs.FS works as the store: an embed.FS populated with //go:embed, or an
// asset pack opened with pack.Open from embedded index and data blobs.
// Descriptor paths are slash-separated names inside the store.
package embedded

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"strings"

	"github.com/meigma/asset"
)

// Interface compliance.
var _ asset.Provider = (*Provider)(nil)

// Provider reads assets from an fs.FS.
type Provider struct {
	fsys   fs.FS
	prefix string
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

// WithPrefix resolves descriptor paths relative to dir inside the store.
func WithPrefix(dir string) Option {
	return func(p *Provider) {
		p.prefix = strings.Trim(path.Clean("/"+dir), "/")
	}
}

// New creates a Provider reading from fsys.
func New(fsys fs.FS, opts ...Option) *Provider {
	p := &Provider{fsys: fsys}
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

// Resolve returns the raw bytes stored under the descriptor's path.
func (p *Provider) Resolve(ctx context.Context, d *asset.Descriptor, _ asset.Kind) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	name, err := p.name(d.Path())
	if err != nil {
		return nil, err
	}

	data, err := fs.ReadFile(p.fsys, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			p.log().Warn("resource not found", "id", d.ID(), "path", name)
		}
		return nil, err
	}
	p.log().Debug("embedded resource read", "id", d.ID(), "path", name, "size", len(data))
	return data, nil
}

// name maps a descriptor path to a valid fs.FS name. Paths that climb out
// of the root are rejected rather than clamped to it.
func (p *Provider) name(dpath string) (string, error) {
	name := path.Clean(strings.TrimLeft(dpath, "/"))
	if name == "." || name == ".." || strings.HasPrefix(name, "../") {
		return "", &fs.PathError{Op: "open", Path: dpath, Err: fs.ErrInvalid}
	}
	if p.prefix != "" {
		name = path.Join(p.prefix, name)
	}
	if name == "" || !fs.ValidPath(name) {
		return "", &fs.PathError{Op: "open", Path: dpath, Err: fs.ErrInvalid}
	}
	return name, nil
}

// String describes the provider in logs.
func (p *Provider) String() string {
	if p.prefix == "" {
		return "embedded"
	}
	return fmt.Sprintf("embedded(%s)", p.prefix)
}
