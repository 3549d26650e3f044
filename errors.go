package asset

import "errors"

var (
	// ErrUnknownID is returned when an id is not present in the registry.
	ErrUnknownID = errors.New("asset: unknown id")

	// ErrKindMismatch is returned when an id is registered with a kind the
	// accessor cannot serve.
	ErrKindMismatch = errors.New("asset: kind mismatch")

	// ErrUnresolved is returned when the provider or decoder could not
	// materialize the asset.
	ErrUnresolved = errors.New("asset: unresolved")

	// ErrNotPreloaded is returned by preload-backed providers for paths whose
	// load never completed. Accessing such a path is a usage error: the
	// preload phase must finish before the library is used.
	ErrNotPreloaded = errors.New("asset: not preloaded")

	// ErrDuplicateID is returned when registering an id twice.
	ErrDuplicateID = errors.New("asset: duplicate id")

	// ErrEmptyID is returned when registering an asset without an id.
	ErrEmptyID = errors.New("asset: empty id")

	// ErrInvalidKind is returned for kinds outside the defined set.
	ErrInvalidKind = errors.New("asset: invalid kind")

	// ErrNilRegistry is returned by New when no registry is given.
	ErrNilRegistry = errors.New("asset: nil registry")

	// ErrNilProvider is returned by New when no provider is given.
	ErrNilProvider = errors.New("asset: nil provider")

	// ErrInvalidPolicy is returned for unknown cache policy names.
	ErrInvalidPolicy = errors.New("asset: invalid cache policy")
)

// Error describes a failed accessor call.
type Error struct {
	// Op is the accessor that failed (e.g. "image", "text").
	Op string
	// ID is the requested asset id.
	ID string
	// Kind is the kind the accessor asked for.
	Kind Kind
	// Err is the underlying error; it wraps one of the package sentinels.
	Err error
}

func (e *Error) Error() string {
	return "asset: " + e.Op + " " + e.ID + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}
