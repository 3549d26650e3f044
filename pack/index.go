package pack

import (
	"fmt"
	"iter"
	"sort"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"github.com/opencontainers/go-digest"
)

// indexVersion is the format version written by Create.
const indexVersion = 1

// encMode encodes the index with Core Deterministic Encoding so the same
// directory always produces identical index bytes.
var encMode cbor.EncMode

// decMode rejects duplicate map keys; unknown fields are ignored.
var decMode cbor.DecMode

func init() {
	var err error

	encOptions := cbor.CoreDetEncOptions()
	encOptions.Time = cbor.TimeRFC3339Nano
	encMode, err = encOptions.EncMode()
	if err != nil {
		panic("pack: CBOR encoder initialization failed: " + err.Error())
	}

	decMode, err = cbor.DecOptions{
		DupMapKey: cbor.DupMapKeyEnforcedAPF,
	}.DecMode()
	if err != nil {
		panic("pack: CBOR decoder initialization failed: " + err.Error())
	}
}

// index is the decoded index blob.
type index struct {
	Version    uint32        `cbor:"1,keyasint"`
	DataSize   uint64        `cbor:"2,keyasint"`
	DataDigest digest.Digest `cbor:"3,keyasint"`
	Entries    []Entry       `cbor:"4,keyasint"`
}

// encodeIndex sorts entries by path and encodes the index blob.
func encodeIndex(entries []Entry, dataSize uint64, dataDigest digest.Digest) ([]byte, error) {
	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })
	return encMode.Marshal(index{
		Version:    indexVersion,
		DataSize:   dataSize,
		DataDigest: dataDigest,
		Entries:    entries,
	})
}

// decodeIndex parses and validates an index blob.
func decodeIndex(data []byte) (*index, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty index data", ErrInvalidIndex)
	}
	var idx index
	if err := decMode.Unmarshal(data, &idx); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidIndex, err)
	}
	if idx.Version != indexVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrInvalidIndex, idx.Version)
	}
	if idx.DataDigest != "" {
		if err := idx.DataDigest.Validate(); err != nil {
			return nil, fmt.Errorf("%w: data digest: %w", ErrInvalidIndex, err)
		}
	}
	for i := range idx.Entries {
		if err := idx.Entries[i].validate(); err != nil {
			return nil, err
		}
		if i > 0 && idx.Entries[i-1].Path >= idx.Entries[i].Path {
			return nil, fmt.Errorf("%w: entries not sorted at %q", ErrInvalidIndex, idx.Entries[i].Path)
		}
	}
	return &idx, nil
}

// lookup finds the entry for path in O(log n).
func (idx *index) lookup(path string) (*Entry, bool) {
	i := sort.Search(len(idx.Entries), func(i int) bool { return idx.Entries[i].Path >= path })
	if i < len(idx.Entries) && idx.Entries[i].Path == path {
		return &idx.Entries[i], true
	}
	return nil, false
}

// withPrefix iterates entries whose path starts with prefix.
func (idx *index) withPrefix(prefix string) iter.Seq[*Entry] {
	return func(yield func(*Entry) bool) {
		start := sort.Search(len(idx.Entries), func(i int) bool { return idx.Entries[i].Path >= prefix })
		for i := start; i < len(idx.Entries); i++ {
			if !strings.HasPrefix(idx.Entries[i].Path, prefix) {
				return
			}
			if !yield(&idx.Entries[i]) {
				return
			}
		}
	}
}

// isDir reports whether name is a directory implied by entry paths.
func (idx *index) isDir(name string) bool {
	if name == "." {
		return true
	}
	for range idx.withPrefix(name + "/") {
		return true
	}
	return false
}
