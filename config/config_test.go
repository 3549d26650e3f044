package config

import (
	"context"
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/asset"
	"github.com/meigma/asset/internal/testutil"
	"github.com/meigma/asset/pack"
)

const testManifest = `assets:
  - id: logo
    path: img/logo.png
    kind: image
  - id: greeting
    path: text/greeting.txt
    kind: binary
`

// writeAssets lays out an asset directory with a manifest and returns the
// directory.
func writeAssets(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string][]byte{
		"manifest.yaml":            []byte(testManifest),
		"assets/img/logo.png":      testutil.PNG(t, 2, 2, color.White),
		"assets/text/greeting.txt": []byte("hello"),
	}
	for name, data := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, data, 0o644))
	}
	return dir
}

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "assets.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadResolvesRelativePaths(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfg, err := Load(writeConfig(t, dir, "provider: filesystem\npolicy: weak\nmanifest: manifest.yaml\nfilesystem:\n  root: assets\n"))
	require.NoError(t, err)

	assert.Equal(t, Filesystem, cfg.Provider)
	require.NotNil(t, cfg.Policy)
	assert.Equal(t, asset.Weak, *cfg.Policy)
	assert.Equal(t, filepath.Join(dir, "manifest.yaml"), cfg.Manifest)
	assert.Equal(t, filepath.Join(dir, "assets"), cfg.Filesystem.Root)
}

func TestLoadErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	_, err := Load(filepath.Join(dir, "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load(writeConfig(t, dir, "provider: filesystem\npolicy: forever\n"))
	require.ErrorIs(t, err, asset.ErrInvalidPolicy)

	_, err = Load(writeConfig(t, dir, "provider: filesystem\n"))
	require.ErrorIs(t, err, ErrInvalid)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	bad := asset.Policy(7)
	tests := []struct {
		name string
		cfg  Config
		ok   bool
	}{
		{name: "no provider", cfg: Config{}},
		{name: "unknown provider", cfg: Config{Provider: "network"}},
		{name: "filesystem without root", cfg: Config{Provider: Filesystem}},
		{name: "filesystem", cfg: Config{Provider: Filesystem, Filesystem: FilesystemConfig{Root: "a"}}, ok: true},
		{name: "preloaded without root", cfg: Config{Provider: Preloaded}},
		{name: "preloaded", cfg: Config{Provider: Preloaded, Preload: PreloadConfig{Root: "a"}}, ok: true},
		{name: "embedded", cfg: Config{Provider: Embedded}, ok: true},
		{name: "embedded half pack", cfg: Config{Provider: Embedded, Pack: PackConfig{Index: "a.index"}}},
		{name: "bad policy", cfg: Config{Provider: Embedded, Policy: &bad}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.cfg.Validate()
			if tt.ok {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv(EnvVar, "")
	_, err := LoadFromEnv()
	require.ErrorIs(t, err, ErrNoConfig)

	dir := t.TempDir()
	t.Setenv(EnvVar, writeConfig(t, dir, "provider: preloaded\npreload:\n  root: assets\n"))
	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, Preloaded, cfg.Provider)
	assert.Equal(t, asset.DefaultPolicy, cfg.policy())
}

func TestOpenFilesystem(t *testing.T) {
	t.Parallel()

	dir := writeAssets(t)
	cfg, err := Load(writeConfig(t, dir, "provider: filesystem\npolicy: uncached\nmanifest: manifest.yaml\nfilesystem:\n  root: assets\n"))
	require.NoError(t, err)

	a, err := Open(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	assert.Equal(t, asset.Uncached, a.Library.Policy())
	img, err := a.Library.Image(context.Background(), "logo")
	require.NoError(t, err)
	assert.Equal(t, 2, img.Bounds().Dx())

	text, err := a.Library.Text(context.Background(), "greeting")
	require.NoError(t, err)
	assert.Equal(t, "hello", text)
}

func TestOpenPreloaded(t *testing.T) {
	t.Parallel()

	dir := writeAssets(t)
	cfg, err := Load(writeConfig(t, dir, "provider: preloaded\nmanifest: manifest.yaml\npreload:\n  root: assets\n  workers: 2\n  decode: true\n"))
	require.NoError(t, err)

	a, err := Open(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	img, err := a.Library.Image(context.Background(), "logo")
	require.NoError(t, err)
	assert.Equal(t, "png", img.Format)

	text, err := a.Library.Text(context.Background(), "greeting")
	require.NoError(t, err)
	assert.Equal(t, "hello", text)
}

func TestOpenPreloadedToleratesFailedLoads(t *testing.T) {
	t.Parallel()

	dir := writeAssets(t)
	require.NoError(t, os.Remove(filepath.Join(dir, "assets", "text", "greeting.txt")))
	cfg, err := Load(writeConfig(t, dir, "provider: preloaded\nmanifest: manifest.yaml\npreload:\n  root: assets\n"))
	require.NoError(t, err)

	a, err := Open(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	_, err = a.Library.Text(context.Background(), "greeting")
	require.ErrorIs(t, err, asset.ErrUnresolved)
	_, err = a.Library.Image(context.Background(), "logo")
	require.NoError(t, err)
}

func TestOpenEmbeddedFS(t *testing.T) {
	t.Parallel()

	reg := asset.NewRegistry()
	_, err := reg.Register("greeting", "text/greeting.txt", asset.KindBinary)
	require.NoError(t, err)

	cfg := &Config{Provider: Embedded}
	a, err := Open(context.Background(), cfg,
		WithEmbedFS(fstest.MapFS{"text/greeting.txt": {Data: []byte("hi")}}),
		WithRegistry(reg),
		WithLibraryOptions(asset.WithPolicy(asset.Weak)),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	assert.Equal(t, asset.Weak, a.Library.Policy())
	text, err := a.Library.Text(context.Background(), "greeting")
	require.NoError(t, err)
	assert.Equal(t, "hi", text)
}

func TestOpenEmbeddedPack(t *testing.T) {
	t.Parallel()

	dir := writeAssets(t)
	indexFile, err := os.Create(filepath.Join(dir, pack.DefaultIndexName))
	require.NoError(t, err)
	dataFile, err := os.Create(filepath.Join(dir, pack.DefaultDataName))
	require.NoError(t, err)
	require.NoError(t, pack.Create(context.Background(), filepath.Join(dir, "assets"), indexFile, dataFile,
		pack.CreateWithCompression(pack.CompressionZstd)))
	require.NoError(t, indexFile.Close())
	require.NoError(t, dataFile.Close())

	cfg, err := Load(writeConfig(t, dir, "provider: embedded\nmanifest: manifest.yaml\npack:\n  index: assets.index\n  data: assets.data\n  verify: true\n"))
	require.NoError(t, err)

	a, err := Open(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	text, err := a.Library.Text(context.Background(), "greeting")
	require.NoError(t, err)
	assert.Equal(t, "hello", text)

	img, err := a.Library.Image(context.Background(), "logo")
	require.NoError(t, err)
	assert.Equal(t, 2, img.Bounds().Dy())
}

func TestOpenRequiresManifestOrRegistry(t *testing.T) {
	t.Parallel()

	_, err := Open(context.Background(), &Config{Provider: Embedded}, WithEmbedFS(fstest.MapFS{}))
	require.ErrorIs(t, err, ErrInvalid)

	_, err = Open(context.Background(), &Config{Provider: Embedded}, WithRegistry(asset.NewRegistry()))
	require.ErrorIs(t, err, ErrInvalid)
}
