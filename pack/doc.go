// Package pack implements the asset pack: a two-blob archive for shipping
// resources inside an application binary.
//
// A pack consists of:
//   - Index blob: deterministic CBOR listing every entry (path, offset,
//     sizes, content digest, compression), sorted by path
//   - Data blob: concatenated entry payloads in index order
//
// Packs are built from a directory with [Create] (or cmd/assetpack) and
// opened with [Open], typically from blobs embedded with //go:embed:
//
//	//go:embed assets.index
//	var indexBlob []byte
//
//	//go:embed assets.data
//	var dataBlob []byte
//
//	p, err := pack.OpenBytes(indexBlob, dataBlob)
//
// A [Pack] implements fs.FS, fs.StatFS, fs.ReadFileFS and fs.ReadDirFS, so it
// can back provider/embedded directly. Every read is verified against the
// entry digest.
package pack
