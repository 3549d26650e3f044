package asset

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"golang.org/x/text/encoding/unicode"
)

// Image returns the decoded image registered as id.
func (l *Library) Image(ctx context.Context, id string, opts ...GetOption) (*Image, error) {
	return get[Image](ctx, l, "image", id, KindImage, opts)
}

// Font returns the parsed font registered as id.
func (l *Library) Font(ctx context.Context, id string, opts ...GetOption) (*Font, error) {
	return get[Font](ctx, l, "font", id, KindFont, opts)
}

// Audio returns the audio asset registered as id. Both KindAudio and
// KindMusic assets are accepted.
func (l *Library) Audio(ctx context.Context, id string, opts ...GetOption) (*Audio, error) {
	return get[Audio](ctx, l, "audio", id, KindAudio, opts)
}

// Bytes returns a reader over the raw content of id, positioned at the
// start. Any registered asset can be read as bytes.
//
// Only KindBinary assets use the cache slot; the slot of other kinds holds
// their decoded form, which Bytes neither reads nor replaces. A cached
// reader is shared by every caller that receives it.
func (l *Library) Bytes(ctx context.Context, id string, opts ...GetOption) (*bytes.Reader, error) {
	return l.bytes(ctx, "bytes", id, newGetConfig(opts))
}

// Text returns the content of id decoded as UTF-8. A leading byte order
// mark is removed and invalid sequences are replaced with U+FFFD.
func (l *Library) Text(ctx context.Context, id string, opts ...GetOption) (string, error) {
	r, err := l.bytes(ctx, "text", id, newGetConfig(opts))
	if err != nil {
		return "", err
	}
	if r.Size() == 0 {
		return "", nil
	}

	buf := make([]byte, r.Size())
	if _, err := r.ReadAt(buf, 0); err != nil && !errors.Is(err, io.EOF) {
		return "", l.fail("text", id, KindBinary, err)
	}
	text, err := unicode.UTF8BOM.NewDecoder().Bytes(buf)
	if err != nil {
		return "", l.fail("text", id, KindBinary, err)
	}
	return string(text), nil
}

// HasImage reports whether id is registered as an image.
func (l *Library) HasImage(id string) bool { return l.has(id, KindImage) }

// HasFont reports whether id is registered as a font.
func (l *Library) HasFont(id string) bool { return l.has(id, KindFont) }

// HasAudio reports whether id is registered as audio or music.
func (l *Library) HasAudio(id string) bool { return l.has(id, KindAudio) }

// HasBytes reports whether id is registered at all.
func (l *Library) HasBytes(id string) bool { return l.has(id, KindBinary) }

// HasText reports whether id can be read as text, which is the same as
// HasBytes.
func (l *Library) HasText(id string) bool { return l.has(id, KindBinary) }

func (l *Library) has(id string, want Kind) bool {
	d, ok := l.registry.Lookup(id)
	return ok && accepts(want, d.kind)
}

func (l *Library) bytes(ctx context.Context, op, id string, cfg getConfig) (*bytes.Reader, error) {
	d, err := l.lookup(op, id, KindBinary)
	if err != nil {
		return nil, err
	}

	cacheable := d.kind == KindBinary
	if cacheable && cfg.cache.consults() {
		if r, ok := load[bytes.Reader](&d.slot); ok {
			l.log().Debug("asset cache hit", "id", id, "kind", KindBinary.String())
			_, _ = r.Seek(0, io.SeekStart) //nolint:errcheck // seeking to 0 cannot fail
			return r, nil
		}
	}

	raw, err := l.provider.Resolve(ctx, d, KindBinary)
	if err != nil {
		return nil, l.fail(op, id, KindBinary, err)
	}
	data, ok := raw.([]byte)
	if !ok {
		return nil, l.fail(op, id, KindBinary, fmt.Errorf("resolved %T, want raw bytes", raw))
	}

	r := bytes.NewReader(data)
	if cacheable {
		store(l, d, r, cfg.cache)
	}
	return r, nil
}
