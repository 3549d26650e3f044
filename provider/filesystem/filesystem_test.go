package filesystem_test

import (
	"context"
	"image/color"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/asset"
	"github.com/meigma/asset/internal/testutil"
	"github.com/meigma/asset/provider/filesystem"
)

func writeFile(t *testing.T, dir, name string, data []byte) {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

func descriptor(t *testing.T, id, path string, kind asset.Kind) *asset.Descriptor {
	t.Helper()
	d, err := asset.NewRegistry().Register(id, path, kind)
	require.NoError(t, err)
	return d
}

func TestNew(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	p, err := filesystem.New(dir)
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })
	assert.Equal(t, dir, p.Dir())

	_, err = filesystem.New(filepath.Join(dir, "missing"))
	require.ErrorIs(t, err, fs.ErrNotExist)

	writeFile(t, dir, "file.txt", []byte("x"))
	_, err = filesystem.New(filepath.Join(dir, "file.txt"))
	require.ErrorIs(t, err, filesystem.ErrNotDir)
}

func TestResolveReadsFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "img/logo.png", []byte("png"))
	p, err := filesystem.New(dir)
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })

	got, err := p.Resolve(context.Background(), descriptor(t, "logo", "img/logo.png", asset.KindImage), asset.KindImage)
	require.NoError(t, err)
	assert.Equal(t, []byte("png"), got)

	_, err = p.Resolve(context.Background(), descriptor(t, "ghost", "img/ghost.png", asset.KindImage), asset.KindImage)
	require.ErrorIs(t, err, fs.ErrNotExist)
}

func TestResolveRejectsEscapingPaths(t *testing.T) {
	t.Parallel()

	parent := t.TempDir()
	dir := filepath.Join(parent, "assets")
	require.NoError(t, os.Mkdir(dir, 0o755))
	writeFile(t, parent, "secret.txt", []byte("secret"))

	p, err := filesystem.New(dir)
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })

	for _, path := range []string{"../secret.txt", "/etc/passwd"} {
		_, err := p.Resolve(context.Background(), descriptor(t, "x", path, asset.KindBinary), asset.KindBinary)
		require.ErrorIs(t, err, fs.ErrInvalid, path)
	}
}

func TestNativeDecoder(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "music/theme.ogg", []byte("OggS-data"))

	var gotPath string
	native := func(_ context.Context, path string, d *asset.Descriptor) (any, error) {
		gotPath = path
		return &asset.Audio{Format: asset.AudioOGG, Stream: d.Kind() == asset.KindMusic}, nil
	}
	p, err := filesystem.New(dir, filesystem.WithNativeDecoder(asset.KindMusic, native))
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })

	d := descriptor(t, "theme", "music/theme.ogg", asset.KindMusic)
	got, err := p.Resolve(context.Background(), d, asset.KindAudio)
	require.NoError(t, err)
	audio, ok := got.(*asset.Audio)
	require.True(t, ok)
	assert.True(t, audio.Stream)
	assert.Equal(t, filepath.Join(dir, "music", "theme.ogg"), gotPath)

	// Raw bytes skip the native decoder.
	raw, err := p.Resolve(context.Background(), d, asset.KindBinary)
	require.NoError(t, err)
	assert.Equal(t, []byte("OggS-data"), raw)
}

func TestLibraryOverFilesystem(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "logo.png", testutil.PNG(t, 3, 2, color.Black))
	writeFile(t, dir, "sfx/jump.wav", testutil.WAV(16))

	p, err := filesystem.New(dir)
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })

	reg := asset.NewRegistry()
	_, err = reg.Register("logo", "logo.png", asset.KindImage)
	require.NoError(t, err)
	_, err = reg.Register("jump", "sfx/jump.wav", asset.KindAudio)
	require.NoError(t, err)

	lib, err := asset.New(reg, p)
	require.NoError(t, err)

	img, err := lib.Image(context.Background(), "logo")
	require.NoError(t, err)
	assert.Equal(t, 3, img.Bounds().Dx())

	jump, err := lib.Audio(context.Background(), "jump")
	require.NoError(t, err)
	assert.Equal(t, asset.AudioWAV, jump.Format)
	assert.False(t, jump.Stream)
}
