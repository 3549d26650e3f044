// Package preload provides an asset.Provider that serves objects loaded
// ahead of time.
//
// A preload phase fills a [Store] with one [Record] per path, either through
// [Run] or by an external loader calling [Store.Put]. The phase must finish
// before the first accessor call: the provider never waits for a load, and a
// path without a record resolves to asset.ErrNotPreloaded.
package preload

import (
	"sync"
)

// Record is the completed outcome of loading one path.
type Record struct {
	Path string

	// Value is the loaded asset: raw bytes ([]byte) or a runtime object
	// (*asset.Image, *asset.Font, *asset.Audio).
	Value any

	// Err is set when the load failed.
	Err error
}

// Store holds completed load records keyed by path.
type Store struct {
	mu      sync.RWMutex
	records map[string]Record
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{records: make(map[string]Record)}
}

// Put records the outcome of loading path, replacing any earlier record.
func (s *Store) Put(path string, value any, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[path] = Record{Path: path, Value: value, Err: err}
}

// Get returns the record for path.
func (s *Store) Get(path string) (Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.records[path]
	return r, ok
}

// Len returns the number of records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Failed returns the records whose load failed.
func (s *Store) Failed() []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Record
	for _, r := range s.records {
		if r.Err != nil {
			out = append(out, r)
		}
	}
	return out
}
