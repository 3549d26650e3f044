// Package asset resolves symbolic asset identifiers to typed resources and
// caches the results.
//
// A [Library] ties together three pieces:
//   - a [Registry] mapping ids to [Descriptor] records (path + [Kind]),
//   - a [Provider] that materializes a descriptor from its physical form,
//   - a cache [Policy] deciding whether resolved values are retained.
//
// Providers live in sub-packages and are selected once per Library:
// provider/embedded reads compiled-in resources (embed.FS or an asset pack),
// provider/filesystem reads files next to the application, and
// provider/preload serves records completed by a preload phase.
//
// # Quick Start
//
//	reg := asset.NewRegistry()
//	_, _ = reg.Register("logo", "img/logo.png", asset.KindImage)
//
//	lib, err := asset.New(reg, embedded.New(assetsFS))
//	if err != nil {
//	    return err
//	}
//	logo, err := lib.Image(ctx, "logo")
//
// # Caching
//
// Each descriptor has a single cache slot. Under [Strong] the slot owns the
// resolved value; under [Weak] it only observes it, so the garbage collector
// may reclaim the value and the next lookup resolves it again. [Uncached]
// persists nothing unless a call asks for it with UseCache(true).
//
// Missing and mistyped assets are soft failures: accessors log a warning and
// return an error wrapping [ErrUnknownID], [ErrKindMismatch] or
// [ErrUnresolved]. Nothing panics.
package asset
