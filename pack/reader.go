package pack

import (
	"fmt"
	"io"
	"math"
)

const (
	// DefaultMaxFileSize is the default maximum entry size (256MB).
	DefaultMaxFileSize = 256 << 20

	// DefaultMaxDecoderMemory is the default maximum decoder memory (256MB).
	DefaultMaxDecoderMemory = 256 << 20
)

// reader reads and verifies entry content from a Source.
type reader struct {
	source      Source
	maxFileSize uint64
	pool        *decompressPool
}

// readAll reads the entire content of an entry, decompresses if needed,
// and verifies the digest. Returns the uncompressed content.
func (r *reader) readAll(e *Entry) ([]byte, error) {
	if err := r.validate(e); err != nil {
		return nil, fmt.Errorf("read %s: %w", e.Path, err)
	}

	section := io.NewSectionReader(r.source, int64(e.Offset), int64(e.Size)) //nolint:gosec // bounds checked by validate

	var src io.Reader = section
	if e.Compression == CompressionZstd {
		dec, release, err := r.pool.get(section)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w: %w", e.Path, ErrDecompression, err)
		}
		defer release()
		src = dec
	}

	verifier := e.Digest.Verifier()
	content := make([]byte, 0, e.OriginalSize)
	buf := make([]byte, 32*1024)
	limited := io.LimitReader(io.TeeReader(src, verifier), int64(e.OriginalSize)+1) //nolint:gosec // bounded by maxFileSize
	for {
		n, err := limited.Read(buf)
		content = append(content, buf[:n]...)
		if err == io.EOF {
			break
		}
		if err != nil {
			if e.Compression == CompressionZstd {
				return nil, fmt.Errorf("read %s: %w: %w", e.Path, ErrDecompression, err)
			}
			return nil, fmt.Errorf("read %s: %w", e.Path, err)
		}
	}

	if uint64(len(content)) != e.OriginalSize {
		return nil, fmt.Errorf("read %s: %w: got %d bytes, want %d", e.Path, ErrDecompression, len(content), e.OriginalSize)
	}
	if !verifier.Verified() {
		return nil, fmt.Errorf("read %s: %w", e.Path, ErrDigestMismatch)
	}
	return content, nil
}

// validate checks that an entry is safe to read from the source:
// sizes are within the limit and the payload range lies inside the source.
func (r *reader) validate(e *Entry) error {
	size := r.source.Size()
	if size < 0 {
		return ErrSizeOverflow
	}
	if r.maxFileSize > 0 && (e.Size > r.maxFileSize || e.OriginalSize > r.maxFileSize) {
		return ErrSizeOverflow
	}
	if e.Offset > math.MaxInt64 || e.Size > math.MaxInt64-e.Offset {
		return ErrSizeOverflow
	}
	if e.Offset+e.Size > uint64(size) {
		return ErrSizeOverflow
	}
	return nil
}
