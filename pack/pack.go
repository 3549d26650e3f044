package pack

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"iter"
	"log/slog"
	"os"
	"path"
	"slices"
	"strings"

	"github.com/opencontainers/go-digest"
)

// Default file names for asset packs.
const (
	DefaultIndexName = "assets.index"
	DefaultDataName  = "assets.data"
)

// Interface compliance.
var (
	_ fs.FS         = (*Pack)(nil)
	_ fs.StatFS     = (*Pack)(nil)
	_ fs.ReadFileFS = (*Pack)(nil)
	_ fs.ReadDirFS  = (*Pack)(nil)
)

// Pack provides read access to the files of an asset pack.
type Pack struct {
	idx              *index
	reader           *reader
	maxFileSize      uint64
	maxDecoderMemory uint64
	decoderLowmem    bool
	verifyData       bool
	logger           *slog.Logger
	closer           io.Closer
}

// Option configures a Pack.
type Option func(*Pack)

// WithMaxFileSize limits the maximum per-file size (compressed and uncompressed).
// Set limit to 0 to disable the limit.
func WithMaxFileSize(limit uint64) Option {
	return func(p *Pack) {
		p.maxFileSize = limit
	}
}

// WithMaxDecoderMemory limits the maximum memory used by the zstd decoder.
// Set limit to 0 to disable the limit.
func WithMaxDecoderMemory(limit uint64) Option {
	return func(p *Pack) {
		p.maxDecoderMemory = limit
	}
}

// WithDecoderLowmem sets whether the zstd decoder should use low-memory mode (default: false).
func WithDecoderLowmem(enabled bool) Option {
	return func(p *Pack) {
		p.decoderLowmem = enabled
	}
}

// WithVerifyData makes Open hash the whole data blob and compare it with the
// digest recorded in the index.
func WithVerifyData(enabled bool) Option {
	return func(p *Pack) {
		p.verifyData = enabled
	}
}

// WithLogger sets the logger used for diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pack) {
		p.logger = logger
	}
}

// Open parses indexData and returns a Pack reading payloads from source.
func Open(indexData []byte, source Source, opts ...Option) (*Pack, error) {
	idx, err := decodeIndex(indexData)
	if err != nil {
		return nil, err
	}

	p := &Pack{
		idx:              idx,
		maxFileSize:      DefaultMaxFileSize,
		maxDecoderMemory: DefaultMaxDecoderMemory,
	}
	for _, opt := range opts {
		opt(p)
	}

	if idx.DataSize != uint64(source.Size()) { //nolint:gosec // negative sizes are rejected by the reader
		return nil, fmt.Errorf("%w: data blob is %d bytes, index records %d", ErrSizeOverflow, source.Size(), idx.DataSize)
	}
	if p.verifyData && idx.DataDigest != "" {
		if err := verifySource(source, idx.DataDigest); err != nil {
			return nil, err
		}
	}

	p.reader = &reader{
		source:      source,
		maxFileSize: p.maxFileSize,
		pool:        newDecompressPool(p.maxDecoderMemory, p.decoderLowmem),
	}
	p.log().Debug("pack opened", "entries", len(idx.Entries), "data_size", idx.DataSize)
	return p, nil
}

// OpenBytes opens a pack from in-memory blobs, such as ones embedded with
// //go:embed.
func OpenBytes(indexData, data []byte, opts ...Option) (*Pack, error) {
	return Open(indexData, bytes.NewReader(data), opts...)
}

// OpenFile opens a pack from index and data files on disk.
// The returned Pack must be closed to release the data file.
func OpenFile(indexPath, dataPath string, opts ...Option) (*Pack, error) {
	indexData, err := os.ReadFile(indexPath)
	if err != nil {
		return nil, fmt.Errorf("read index file: %w", err)
	}
	f, err := os.Open(dataPath)
	if err != nil {
		return nil, fmt.Errorf("open data file: %w", err)
	}
	src, err := newFileSource(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	p, err := Open(indexData, src, opts...)
	if err != nil {
		f.Close()
		return nil, err
	}
	p.closer = f
	return p, nil
}

// Close releases the data file of packs opened with OpenFile.
func (p *Pack) Close() error {
	if p.closer == nil {
		return nil
	}
	return p.closer.Close()
}

// log returns the logger, falling back to a discard logger if nil.
func (p *Pack) log() *slog.Logger {
	if p.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return p.logger
}

// Len returns the number of files in the pack.
func (p *Pack) Len() int {
	return len(p.idx.Entries)
}

// Entry returns the metadata of the file at path.
func (p *Pack) Entry(path string) (Entry, bool) {
	e, ok := p.idx.lookup(path)
	if !ok {
		return Entry{}, false
	}
	return *e, true
}

// Entries iterates over all files in path order.
func (p *Pack) Entries() iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		for i := range p.idx.Entries {
			if !yield(p.idx.Entries[i]) {
				return
			}
		}
	}
}

// DataDigest returns the digest of the data blob recorded in the index.
func (p *Pack) DataDigest() digest.Digest {
	return p.idx.DataDigest
}

// ReadFile implements fs.ReadFileFS. The content is decompressed if
// necessary and verified against its digest.
func (p *Pack) ReadFile(name string) ([]byte, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "readfile", Path: name, Err: fs.ErrInvalid}
	}
	e, ok := p.idx.lookup(name)
	if !ok {
		return nil, &fs.PathError{Op: "readfile", Path: name, Err: fs.ErrNotExist}
	}
	content, err := p.reader.readAll(e)
	if err != nil {
		p.log().Warn("pack read failed", "path", name, "error", err)
		return nil, &fs.PathError{Op: "readfile", Path: name, Err: err}
	}
	return content, nil
}

// Open implements fs.FS.
//
// Files are read and verified in full when opened. Directories are
// synthesized from file paths since the pack does not store them.
func (p *Pack) Open(name string) (fs.File, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}
	if e, ok := p.idx.lookup(name); ok {
		content, err := p.reader.readAll(e)
		if err != nil {
			return nil, &fs.PathError{Op: "open", Path: name, Err: err}
		}
		return &memFile{Reader: bytes.NewReader(content), info: fileInfo{e: e}}, nil
	}
	if p.idx.isDir(name) {
		return &openDir{name: name, entries: p.dirEntries(name)}, nil
	}
	return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
}

// Stat implements fs.StatFS.
func (p *Pack) Stat(name string) (fs.FileInfo, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "stat", Path: name, Err: fs.ErrInvalid}
	}
	if e, ok := p.idx.lookup(name); ok {
		return fileInfo{e: e}, nil
	}
	if p.idx.isDir(name) {
		return dirInfo{name: path.Base(name)}, nil
	}
	return nil, &fs.PathError{Op: "stat", Path: name, Err: fs.ErrNotExist}
}

// ReadDir implements fs.ReadDirFS.
func (p *Pack) ReadDir(name string) ([]fs.DirEntry, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "readdir", Path: name, Err: fs.ErrInvalid}
	}
	if !p.idx.isDir(name) {
		return nil, &fs.PathError{Op: "readdir", Path: name, Err: fs.ErrNotExist}
	}
	return p.dirEntries(name), nil
}

// dirEntries lists the direct children of dir sorted by name.
func (p *Pack) dirEntries(dir string) []fs.DirEntry {
	prefix := ""
	if dir != "." {
		prefix = dir + "/"
	}

	var out []fs.DirEntry
	seen := make(map[string]struct{})
	for e := range p.idx.withPrefix(prefix) {
		rest := e.Path[len(prefix):]
		if i := strings.IndexByte(rest, '/'); i >= 0 {
			sub := rest[:i]
			if _, ok := seen[sub]; ok {
				continue
			}
			seen[sub] = struct{}{}
			out = append(out, fs.FileInfoToDirEntry(dirInfo{name: sub}))
			continue
		}
		out = append(out, fs.FileInfoToDirEntry(fileInfo{e: e}))
	}
	slices.SortFunc(out, func(a, b fs.DirEntry) int { return strings.Compare(a.Name(), b.Name()) })
	return out
}

// verifySource hashes the whole source and compares it with want.
func verifySource(source Source, want digest.Digest) error {
	verifier := want.Verifier()
	if _, err := io.Copy(verifier, io.NewSectionReader(source, 0, source.Size())); err != nil {
		return fmt.Errorf("verify data blob: %w", err)
	}
	if !verifier.Verified() {
		return fmt.Errorf("data blob: %w", ErrDigestMismatch)
	}
	return nil
}
