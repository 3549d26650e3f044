package config

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/meigma/asset"
	"github.com/meigma/asset/manifest"
	"github.com/meigma/asset/pack"
	"github.com/meigma/asset/provider/embedded"
	"github.com/meigma/asset/provider/filesystem"
	"github.com/meigma/asset/provider/preload"
)

// Assets is an opened asset configuration.
type Assets struct {
	// Library serves the configured assets.
	Library *asset.Library

	closers []io.Closer
}

// Close releases file handles held by the provider.
func (a *Assets) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}

type openConfig struct {
	embedFS  fs.FS
	registry *asset.Registry
	logger   *slog.Logger
	libOpts  []asset.Option
}

// OpenOption configures Open.
type OpenOption func(*openConfig)

// WithEmbedFS supplies the compiled-in store for the embedded provider.
// It takes precedence over configured pack paths.
func WithEmbedFS(fsys fs.FS) OpenOption {
	return func(c *openConfig) {
		c.embedFS = fsys
	}
}

// WithRegistry uses reg instead of loading the configured manifest.
func WithRegistry(reg *asset.Registry) OpenOption {
	return func(c *openConfig) {
		c.registry = reg
	}
}

// WithLogger sets the logger passed to every component.
func WithLogger(logger *slog.Logger) OpenOption {
	return func(c *openConfig) {
		c.logger = logger
	}
}

// WithLibraryOptions appends options for the library.
func WithLibraryOptions(opts ...asset.Option) OpenOption {
	return func(c *openConfig) {
		c.libOpts = append(c.libOpts, opts...)
	}
}

// Open builds the registry, selects the provider and returns a library.
//
// For the preloaded provider Open runs the preload phase and returns only
// after every load has completed, so the library is never used before its
// records exist. Loads that failed are logged and surface as resolution
// errors when accessed.
func Open(ctx context.Context, cfg *Config, opts ...OpenOption) (*Assets, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	oc := openConfig{}
	for _, opt := range opts {
		opt(&oc)
	}
	logger := oc.logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	reg := oc.registry
	if reg == nil {
		if cfg.Manifest == "" {
			return nil, fmt.Errorf("%w: manifest is required", ErrInvalid)
		}
		m, err := manifest.Load(cfg.Manifest)
		if err != nil {
			return nil, err
		}
		if reg, err = m.Registry(); err != nil {
			return nil, err
		}
	}

	out := &Assets{}
	provider, err := openProvider(ctx, cfg, &oc, reg, logger, out)
	if err != nil {
		_ = out.Close() //nolint:errcheck // best-effort cleanup on failed open
		return nil, err
	}

	libOpts := append([]asset.Option{
		asset.WithLogger(logger),
		asset.WithPolicy(cfg.policy()),
	}, oc.libOpts...)
	out.Library, err = asset.New(reg, provider, libOpts...)
	if err != nil {
		_ = out.Close() //nolint:errcheck // best-effort cleanup on failed open
		return nil, err
	}
	logger.Info("assets opened", "provider", string(cfg.Provider), "assets", reg.Len(), "policy", cfg.policy().String())
	return out, nil
}

func openProvider(ctx context.Context, cfg *Config, oc *openConfig, reg *asset.Registry, logger *slog.Logger, out *Assets) (asset.Provider, error) {
	switch cfg.Provider {
	case Embedded:
		if oc.embedFS != nil {
			return embedded.New(oc.embedFS, embedded.WithLogger(logger)), nil
		}
		if cfg.Pack.Index == "" {
			return nil, fmt.Errorf("%w: embedded provider needs WithEmbedFS or pack paths", ErrInvalid)
		}
		p, err := pack.OpenFile(cfg.Pack.Index, cfg.Pack.Data,
			pack.WithVerifyData(cfg.Pack.Verify),
			pack.WithLogger(logger),
		)
		if err != nil {
			return nil, err
		}
		out.closers = append(out.closers, p)
		return embedded.New(p, embedded.WithLogger(logger)), nil

	case Filesystem:
		p, err := filesystem.New(cfg.Filesystem.Root, filesystem.WithLogger(logger))
		if err != nil {
			return nil, err
		}
		out.closers = append(out.closers, p)
		return p, nil

	case Preloaded:
		load := preload.ReadFS(os.DirFS(cfg.Preload.Root))
		if cfg.Preload.Decode {
			load = preload.Decoded(load)
		}
		store := preload.NewStore()
		err := preload.Run(ctx, reg, store, load,
			preload.RunWithWorkers(cfg.Preload.Workers),
			preload.RunWithLogger(logger),
		)
		if err != nil && !errors.Is(err, preload.ErrIncomplete) {
			return nil, err
		}
		return preload.New(store, preload.WithLogger(logger)), nil

	default:
		return nil, fmt.Errorf("%w: unknown provider %q", ErrInvalid, cfg.Provider)
	}
}
