package asset

import "context"

// Provider materializes assets from their physical form.
//
// Resolve returns either the raw bytes of the asset ([]byte) or a ready
// runtime object (*Image, *Font or *Audio). The kind argument is what the
// caller asked for: KindBinary means raw bytes are required, so providers
// with native decoders must not bypass them in that case.
//
// Providers never cache; retention is the Library's job.
type Provider interface {
	Resolve(ctx context.Context, d *Descriptor, as Kind) (any, error)
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(ctx context.Context, d *Descriptor, as Kind) (any, error)

// Resolve calls f.
func (f ProviderFunc) Resolve(ctx context.Context, d *Descriptor, as Kind) (any, error) {
	return f(ctx, d, as)
}
