package pack

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/klauspost/compress/zstd"
	"github.com/opencontainers/go-digest"
)

// Create builds a pack from the regular files under dir.
//
// Files are written to dataW in path-sorted order and the CBOR index is
// written to indexW once all data has been written. Symbolic links and
// empty directories are not included.
//
// The context can be used for cancellation of long-running pack creation.
func Create(ctx context.Context, dir string, indexW, dataW io.Writer, opts ...CreateOption) error {
	cfg := createConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	logger := cfg.logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	root, err := os.OpenRoot(dir)
	if err != nil {
		return err
	}
	defer root.Close()

	logger.Info("creating pack", "dir", dir, "compression", cfg.compression.String())

	paths, err := collect(ctx, root, cfg)
	if err != nil {
		return err
	}

	var enc *zstd.Encoder
	if cfg.compression == CompressionZstd {
		enc, err = zstd.NewWriter(nil, zstd.WithEncoderConcurrency(1), zstd.WithLowerEncoderMem(true))
		if err != nil {
			return fmt.Errorf("create zstd encoder: %w", err)
		}
		defer enc.Close()
	}

	digester := digest.Canonical.Digester()
	data := io.MultiWriter(dataW, digester.Hash())

	entries := make([]Entry, 0, len(paths))
	var offset uint64
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return err
		}
		e, payload, err := readEntry(root, p, cfg, enc)
		if err != nil {
			return err
		}
		if _, err := data.Write(payload); err != nil {
			return fmt.Errorf("write %s: %w", p, err)
		}
		e.Offset = offset
		offset += e.Size
		entries = append(entries, e)
		logger.Debug("pack entry written", "path", p, "size", e.Size, "compression", e.Compression.String())
	}

	indexData, err := encodeIndex(entries, offset, digester.Digest())
	if err != nil {
		return fmt.Errorf("encode index: %w", err)
	}
	if _, err := indexW.Write(indexData); err != nil {
		return fmt.Errorf("write index: %w", err)
	}
	logger.Info("pack created", "file_count", len(entries), "data_size", offset)
	return nil
}

// collect walks root and returns the sorted slash paths of included
// regular files.
func collect(ctx context.Context, root *os.Root, cfg createConfig) ([]string, error) {
	maxFiles := cfg.maxFiles
	if maxFiles == 0 {
		maxFiles = DefaultMaxFiles
	}

	var paths []string
	err := fs.WalkDir(root.FS(), ".", func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if cfg.include != nil && !cfg.include(p) {
			return nil
		}
		if maxFiles > 0 && len(paths) >= maxFiles {
			return ErrTooManyFiles
		}
		paths = append(paths, p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	return paths, nil
}

// readEntry reads one file and returns its entry (without offset) and the
// payload to append to the data blob.
func readEntry(root *os.Root, p string, cfg createConfig, enc *zstd.Encoder) (Entry, []byte, error) {
	f, err := root.Open(filepath.FromSlash(p))
	if err != nil {
		return Entry{}, nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return Entry{}, nil, err
	}
	if !info.Mode().IsRegular() {
		return Entry{}, nil, fmt.Errorf("not a regular file: %s", p)
	}
	content, err := io.ReadAll(f)
	if err != nil {
		return Entry{}, nil, fmt.Errorf("read %s: %w", p, err)
	}

	e := Entry{
		Path:         p,
		Size:         uint64(len(content)),
		OriginalSize: uint64(len(content)),
		Digest:       digest.Canonical.FromBytes(content),
		Mode:         info.Mode().Perm(),
		ModTime:      info.ModTime().UTC(),
	}
	if enc == nil || shouldSkip(p, info, cfg.skipCompression) {
		return e, content, nil
	}

	compressed := enc.EncodeAll(content, nil)
	if len(compressed) >= len(content) {
		return e, content, nil
	}
	e.Compression = CompressionZstd
	e.Size = uint64(len(compressed))
	return e, compressed, nil
}

// shouldSkip checks if any predicate returns true for the given file.
func shouldSkip(path string, info fs.FileInfo, predicates []SkipCompressionFunc) bool {
	for _, fn := range predicates {
		if fn != nil && fn(path, info) {
			return true
		}
	}
	return false
}
