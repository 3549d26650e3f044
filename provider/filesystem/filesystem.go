// Package filesystem provides an asset.Provider that reads assets from files
// bundled next to the application.
//
// Descriptor paths are slash-separated and relative to the provider root;
// paths that would escape the root are rejected. Native decoders can be
// installed per kind to hand back ready runtime objects straight from a
// file path, bypassing raw bytes.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/meigma/asset"
)

// Interface compliance.
var _ asset.Provider = (*Provider)(nil)

// ErrNotDir is returned by New when the root is not a directory.
var ErrNotDir = errors.New("filesystem: root is not a directory")

// NativeDecoder materializes an asset directly from the file at path. It
// must return the runtime type for the kind it is registered for.
type NativeDecoder func(ctx context.Context, path string, d *asset.Descriptor) (any, error)

// Provider reads assets from a directory tree.
type Provider struct {
	dir     string
	root    *os.Root
	natives map[asset.Kind]NativeDecoder
	logger  *slog.Logger
}

// Option configures a Provider.
type Option func(*Provider)

// WithLogger sets the logger used for diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Provider) {
		p.logger = logger
	}
}

// WithNativeDecoder installs fn for kind. Music shares the audio entry.
// Native decoders are skipped when raw bytes are requested.
func WithNativeDecoder(kind asset.Kind, fn NativeDecoder) Option {
	return func(p *Provider) {
		if kind == asset.KindMusic {
			kind = asset.KindAudio
		}
		p.natives[kind] = fn
	}
}

// New opens dir as the provider root. Call Close when the provider is no
// longer needed.
func New(dir string, opts ...Option) (*Provider, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s: %w", dir, ErrNotDir)
	}
	root, err := os.OpenRoot(dir)
	if err != nil {
		return nil, err
	}

	p := &Provider{
		dir:     dir,
		root:    root,
		natives: make(map[asset.Kind]NativeDecoder),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// log returns the logger, falling back to a discard logger if nil.
func (p *Provider) log() *slog.Logger {
	if p.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return p.logger
}

// Dir returns the root directory.
func (p *Provider) Dir() string {
	return p.dir
}

// Close releases the root directory handle.
func (p *Provider) Close() error {
	return p.root.Close()
}

// Resolve reads the descriptor's file, or hands it to the native decoder
// for the requested kind when one is installed.
func (p *Provider) Resolve(ctx context.Context, d *asset.Descriptor, as asset.Kind) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rel := filepath.FromSlash(d.Path())
	if !filepath.IsLocal(rel) {
		return nil, &fs.PathError{Op: "open", Path: d.Path(), Err: fs.ErrInvalid}
	}

	if as != asset.KindBinary {
		if native := p.natives[as]; native != nil {
			p.log().Debug("native decode", "id", d.ID(), "path", d.Path(), "kind", as.String())
			return native(ctx, filepath.Join(p.dir, rel), d)
		}
	}

	f, err := p.root.Open(rel)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			p.log().Warn("resource not found", "id", d.ID(), "path", d.Path())
		}
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", d.Path(), err)
	}
	p.log().Debug("file resource read", "id", d.ID(), "path", d.Path(), "size", len(data))
	return data, nil
}
