package pack

import "errors"

var (
	// ErrDigestMismatch is returned when content does not match its digest.
	ErrDigestMismatch = errors.New("pack: digest mismatch")

	// ErrDecompression is returned when decompression fails.
	ErrDecompression = errors.New("pack: decompression failed")

	// ErrSizeOverflow is returned when sizes exceed limits or the data blob.
	ErrSizeOverflow = errors.New("pack: size overflow")

	// ErrInvalidIndex is returned when the index blob cannot be used.
	ErrInvalidIndex = errors.New("pack: invalid index")

	// ErrTooManyFiles is returned when the file count exceeds the configured limit.
	ErrTooManyFiles = errors.New("pack: too many files")
)
