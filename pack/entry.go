package pack

import (
	_ "crypto/sha256" // register the canonical digest algorithm
	"fmt"
	"io/fs"
	"time"

	"github.com/opencontainers/go-digest"
)

// Compression identifies the compression algorithm used for an entry.
type Compression uint8

const (
	CompressionNone Compression = iota
	CompressionZstd
)

// String returns the human-readable name of the compression algorithm.
func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionZstd:
		return "zstd"
	default:
		return "unknown"
	}
}

// ParseCompression parses "none" or "zstd".
func ParseCompression(s string) (Compression, error) {
	switch s {
	case "none", "":
		return CompressionNone, nil
	case "zstd":
		return CompressionZstd, nil
	default:
		return 0, fmt.Errorf("pack: unknown compression %q", s)
	}
}

// Entry describes one file in the pack.
type Entry struct {
	// Path is the slash-separated path relative to the pack root.
	Path string `cbor:"1,keyasint"`

	// Offset is where the payload starts in the data blob.
	Offset uint64 `cbor:"2,keyasint"`

	// Size is the stored payload size (compressed size for zstd entries).
	Size uint64 `cbor:"3,keyasint"`

	// OriginalSize is the uncompressed size.
	OriginalSize uint64 `cbor:"4,keyasint"`

	// Digest is the digest of the uncompressed content.
	Digest digest.Digest `cbor:"5,keyasint"`

	Compression Compression `cbor:"6,keyasint"`
	Mode        fs.FileMode `cbor:"7,keyasint"`
	ModTime     time.Time   `cbor:"8,keyasint"`
}

// validate checks entry metadata that does not depend on the data blob.
func (e *Entry) validate() error {
	if !fs.ValidPath(e.Path) || e.Path == "." {
		return fmt.Errorf("%w: invalid path %q", ErrInvalidIndex, e.Path)
	}
	if err := e.Digest.Validate(); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidIndex, e.Path, err)
	}
	if e.Compression > CompressionZstd {
		return fmt.Errorf("%w: %s: unknown compression %d", ErrInvalidIndex, e.Path, e.Compression)
	}
	if e.Compression == CompressionNone && e.Size != e.OriginalSize {
		return fmt.Errorf("%w: %s: size mismatch", ErrDecompression, e.Path)
	}
	return nil
}
