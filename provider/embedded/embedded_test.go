package embedded_test

import (
	"bytes"
	"context"
	"io/fs"
	"log/slog"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/asset"
	"github.com/meigma/asset/provider/embedded"
)

func descriptor(t *testing.T, id, path string, kind asset.Kind) *asset.Descriptor {
	t.Helper()
	d, err := asset.NewRegistry().Register(id, path, kind)
	require.NoError(t, err)
	return d
}

func TestResolve(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"img/logo.png":   {Data: []byte("png-bytes")},
		"data/level.bin": {Data: []byte{1, 2, 3}},
	}
	p := embedded.New(fsys)

	got, err := p.Resolve(context.Background(), descriptor(t, "logo", "img/logo.png", asset.KindImage), asset.KindImage)
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), got)

	// Leading slashes and dot segments are normalized.
	got, err = p.Resolve(context.Background(), descriptor(t, "level", "/data/./level.bin", asset.KindBinary), asset.KindBinary)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, got)
}

func TestResolveMissing(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer
	p := embedded.New(fstest.MapFS{}, embedded.WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))

	_, err := p.Resolve(context.Background(), descriptor(t, "ghost", "ghost.png", asset.KindImage), asset.KindImage)
	require.ErrorIs(t, err, fs.ErrNotExist)
	assert.Contains(t, logs.String(), "resource not found")
	assert.Contains(t, logs.String(), "id=ghost")
}

func TestResolveInvalidPath(t *testing.T) {
	t.Parallel()

	p := embedded.New(fstest.MapFS{})
	_, err := p.Resolve(context.Background(), descriptor(t, "root", "/", asset.KindBinary), asset.KindBinary)
	require.ErrorIs(t, err, fs.ErrInvalid)
}

func TestResolveRejectsParentTraversal(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"secret.txt":        {Data: []byte("secret")},
		"assets/secret.txt": {Data: []byte("nested")},
	}
	tests := []struct {
		name   string
		path   string
		prefix string
	}{
		{name: "parent", path: "../secret.txt"},
		{name: "rooted parent", path: "/../secret.txt"},
		{name: "nested parent", path: "img/../../secret.txt"},
		{name: "bare parent", path: ".."},
		{name: "parent of prefix", path: "../secret.txt", prefix: "assets"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var opts []embedded.Option
			if tt.prefix != "" {
				opts = append(opts, embedded.WithPrefix(tt.prefix))
			}
			p := embedded.New(fsys, opts...)
			_, err := p.Resolve(context.Background(), descriptor(t, "secret", tt.path, asset.KindBinary), asset.KindBinary)
			require.ErrorIs(t, err, fs.ErrInvalid)
		})
	}

	got, err := embedded.New(fsys).Resolve(context.Background(), descriptor(t, "secret", "img/../secret.txt", asset.KindBinary), asset.KindBinary)
	require.NoError(t, err)
	assert.Equal(t, []byte("secret"), got)
}

func TestWithPrefix(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"assets/sfx/click.wav": {Data: []byte("RIFF")},
	}
	p := embedded.New(fsys, embedded.WithPrefix("assets/"))
	assert.Equal(t, "embedded(assets)", p.String())

	got, err := p.Resolve(context.Background(), descriptor(t, "click", "sfx/click.wav", asset.KindAudio), asset.KindAudio)
	require.NoError(t, err)
	assert.Equal(t, []byte("RIFF"), got)
}

func TestResolveCanceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := embedded.New(fstest.MapFS{"a.bin": {Data: []byte("a")}})
	_, err := p.Resolve(ctx, descriptor(t, "a", "a.bin", asset.KindBinary), asset.KindBinary)
	require.ErrorIs(t, err, context.Canceled)
}

func TestLibraryOverEmbeddedStore(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"text/greeting.txt": {Data: []byte("hello")},
	}
	reg := asset.NewRegistry()
	_, err := reg.Register("greeting", "text/greeting.txt", asset.KindBinary)
	require.NoError(t, err)

	lib, err := asset.New(reg, embedded.New(fsys))
	require.NoError(t, err)

	text, err := lib.Text(context.Background(), "greeting")
	require.NoError(t, err)
	assert.Equal(t, "hello", text)
}
