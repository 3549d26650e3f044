package asset

import (
	"context"
	"fmt"
	"io/fs"
	"sync/atomic"
)

var defaultLibrary atomic.Pointer[Library]

func init() {
	l, _ := New(NewRegistry(), ProviderFunc(func(_ context.Context, d *Descriptor, _ Kind) (any, error) {
		return nil, fmt.Errorf("%s: %w", d.path, fs.ErrNotExist)
	}))
	defaultLibrary.Store(l)
}

// Default returns the process-wide library. Until SetDefault is called it
// is an empty library that knows no assets.
func Default() *Library {
	return defaultLibrary.Load()
}

// SetDefault makes l the process-wide library. A nil l is ignored.
func SetDefault(l *Library) {
	if l == nil {
		return
	}
	defaultLibrary.Store(l)
}

