package pack

import (
	"fmt"
	"io"
	"os"
)

// Source provides random access to the data blob.
//
// *bytes.Reader satisfies Source, which covers blobs embedded with
// //go:embed. Local files are wrapped by OpenFile.
type Source interface {
	io.ReaderAt
	Size() int64
}

// fileSource wraps *os.File to implement Source.
// os.File has ReadAt but not Size, so we cache the size at construction.
type fileSource struct {
	file *os.File
	size int64
}

// newFileSource creates a fileSource from an open file.
func newFileSource(f *os.File) (*fileSource, error) {
	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat data file: %w", err)
	}
	return &fileSource{file: f, size: info.Size()}, nil
}

// ReadAt implements io.ReaderAt.
func (s *fileSource) ReadAt(p []byte, off int64) (int, error) {
	return s.file.ReadAt(p, off)
}

// Size returns the total size of the file.
func (s *fileSource) Size() int64 {
	return s.size
}
