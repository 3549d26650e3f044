package preload

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/meigma/asset"
)

// ErrIncomplete is returned by Run when at least one load failed. Failed
// loads are still recorded, so accessors report the underlying error.
var ErrIncomplete = errors.New("preload: incomplete")

// LoadFunc loads the asset at path. kind is the registered kind of the first
// descriptor using the path.
type LoadFunc func(ctx context.Context, path string, kind asset.Kind) (any, error)

// Progress reports a completed load. Implementations must be safe for
// concurrent calls.
type Progress func(path string, done, total int)

type runConfig struct {
	workers  int
	progress Progress
	logger   *slog.Logger
}

// RunOption configures Run.
type RunOption func(*runConfig)

// RunWithWorkers bounds the number of concurrent loads. Values <= 0 use
// GOMAXPROCS.
func RunWithWorkers(n int) RunOption {
	return func(c *runConfig) {
		c.workers = n
	}
}

// RunWithProgress sets a callback invoked after each load.
func RunWithProgress(fn Progress) RunOption {
	return func(c *runConfig) {
		c.progress = fn
	}
}

// RunWithLogger sets the logger used for diagnostics.
func RunWithLogger(logger *slog.Logger) RunOption {
	return func(c *runConfig) {
		c.logger = logger
	}
}

// Run loads every path registered in reg into store and returns once all
// loads have completed. Paths shared by several ids are loaded once.
//
// A failing load does not stop the others; its error is recorded and Run
// returns ErrIncomplete. Cancelling ctx stops loads that have not started.
func Run(ctx context.Context, reg *asset.Registry, store *Store, load LoadFunc, opts ...RunOption) error {
	cfg := runConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.workers <= 0 {
		cfg.workers = runtime.GOMAXPROCS(0)
	}
	logger := cfg.logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	kinds := make(map[string]asset.Kind)
	paths := make([]string, 0, reg.Len())
	for _, id := range reg.IDs() {
		d, ok := reg.Lookup(id)
		if !ok {
			continue
		}
		if _, seen := kinds[d.Path()]; seen {
			continue
		}
		kinds[d.Path()] = d.Kind()
		paths = append(paths, d.Path())
	}

	logger.Info("preload started", "paths", len(paths), "workers", cfg.workers)

	var done, failed atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.workers)
	for _, p := range paths {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			value, err := load(gctx, p, kinds[p])
			store.Put(p, value, err)
			if err != nil {
				failed.Add(1)
				logger.Warn("preload failed", "path", p, "error", err)
			}
			n := int(done.Add(1))
			if cfg.progress != nil {
				cfg.progress(p, n, len(paths))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	logger.Info("preload completed", "paths", len(paths), "failed", failed.Load())
	if n := failed.Load(); n > 0 {
		return fmt.Errorf("%w: %d of %d loads failed", ErrIncomplete, n, len(paths))
	}
	return nil
}

// ReadFS returns a LoadFunc that reads raw bytes from fsys. Decoding is left
// to the library.
func ReadFS(fsys fs.FS) LoadFunc {
	return func(ctx context.Context, path string, _ asset.Kind) (any, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return fs.ReadFile(fsys, path)
	}
}

// Decoded returns a LoadFunc that reads raw bytes with read and decodes them
// with the library's default decoders, so the store holds runtime objects.
// Binary assets are stored as raw bytes. Decoded fonts and audio can still be
// read through Bytes and Text; decoded images cannot.
func Decoded(read LoadFunc) LoadFunc {
	return func(ctx context.Context, path string, kind asset.Kind) (any, error) {
		raw, err := read(ctx, path, kind)
		if err != nil {
			return nil, err
		}
		data, ok := raw.([]byte)
		if !ok {
			return raw, nil
		}
		switch kind {
		case asset.KindImage:
			return asset.DecodeImage(nil, data)
		case asset.KindFont:
			return asset.DecodeFont(nil, data)
		case asset.KindAudio, asset.KindMusic:
			a, err := asset.DecodeAudio(nil, data)
			if err != nil {
				return nil, err
			}
			a.(*asset.Audio).Stream = kind == asset.KindMusic
			return a, nil
		default:
			return data, nil
		}
	}
}
