package asset

// Descriptor describes one logical asset.
//
// ID, Path and Kind are fixed at registration. The cache slot is the only
// mutable state and is managed by the [Library] according to its [Policy].
type Descriptor struct {
	id   string
	path string
	kind Kind
	slot slot
}

// ID returns the logical identifier.
func (d *Descriptor) ID() string { return d.id }

// Path returns the physical locator. Its format depends on the provider:
// a file path, an embedded resource name, or a preload key.
func (d *Descriptor) Path() string { return d.path }

// Kind returns the registered kind.
func (d *Descriptor) Kind() Kind { return d.kind }

// Cached reports whether the descriptor currently holds a live cached value.
func (d *Descriptor) Cached() bool {
	return d.slot.live()
}
