package pack

import (
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
)

// DefaultMaxFiles is the default limit used when no MaxFiles option is set.
const DefaultMaxFiles = 200_000

// SkipCompressionFunc returns true when a file should be stored uncompressed.
// It is called once per file and should be inexpensive.
type SkipCompressionFunc func(path string, info fs.FileInfo) bool

// DefaultSkipCompression returns a SkipCompressionFunc that skips files
// smaller than minSize and formats that are already compressed, which covers
// most image, audio and font assets.
func DefaultSkipCompression(minSize int64) SkipCompressionFunc {
	return func(path string, info fs.FileInfo) bool {
		if info != nil && minSize > 0 && info.Size() < minSize {
			return true
		}
		_, ok := compressedExts[strings.ToLower(filepath.Ext(path))]
		return ok
	}
}

var compressedExts = map[string]struct{}{
	".7z":    {},
	".aac":   {},
	".avif":  {},
	".br":    {},
	".flac":  {},
	".gif":   {},
	".gz":    {},
	".jpeg":  {},
	".jpg":   {},
	".m4a":   {},
	".mp3":   {},
	".mp4":   {},
	".ogg":   {},
	".opus":  {},
	".png":   {},
	".webm":  {},
	".webp":  {},
	".woff":  {},
	".woff2": {},
	".zip":   {},
	".zst":   {},
}

// createConfig holds configuration for pack creation.
type createConfig struct {
	compression     Compression
	skipCompression []SkipCompressionFunc
	maxFiles        int
	include         func(path string) bool
	logger          *slog.Logger
}

// CreateOption configures pack creation.
type CreateOption func(*createConfig)

// CreateWithCompression sets the compression algorithm to use.
// Use CompressionNone to store files uncompressed, CompressionZstd for zstd.
func CreateWithCompression(c Compression) CreateOption {
	return func(cfg *createConfig) {
		cfg.compression = c
	}
}

// CreateWithSkipCompression adds predicates that decide to store a file uncompressed.
// If any predicate returns true, compression is skipped for that file.
func CreateWithSkipCompression(fns ...SkipCompressionFunc) CreateOption {
	return func(cfg *createConfig) {
		cfg.skipCompression = append(cfg.skipCompression, fns...)
	}
}

// CreateWithMaxFiles limits the number of files included in the pack.
// Zero uses DefaultMaxFiles. Negative means no limit.
func CreateWithMaxFiles(n int) CreateOption {
	return func(cfg *createConfig) {
		cfg.maxFiles = n
	}
}

// CreateWithInclude restricts the pack to slash-separated paths for which fn
// returns true.
func CreateWithInclude(fn func(path string) bool) CreateOption {
	return func(cfg *createConfig) {
		cfg.include = fn
	}
}

// CreateWithLogger sets the logger used for diagnostics.
func CreateWithLogger(logger *slog.Logger) CreateOption {
	return func(cfg *createConfig) {
		cfg.logger = logger
	}
}
