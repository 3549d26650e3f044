package asset

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // register decoder
	_ "image/jpeg" // register decoder
	_ "image/png"  // register decoder

	_ "golang.org/x/image/bmp"  // register decoder
	_ "golang.org/x/image/webp" // register decoder

	"golang.org/x/image/font/sfnt"
)

// DecodeFunc turns raw asset bytes into the runtime object for d's kind.
// Image decoders must return *Image, font decoders *Font, audio decoders
// *Audio.
type DecodeFunc func(d *Descriptor, data []byte) (any, error)

// errEmptyAudio is returned when an audio asset has no content.
var errEmptyAudio = errors.New("empty audio data")

// defaultDecoders returns the decoders used when none are configured.
func defaultDecoders() map[Kind]DecodeFunc {
	return map[Kind]DecodeFunc{
		KindImage: DecodeImage,
		KindFont:  DecodeFont,
		KindAudio: DecodeAudio,
	}
}

// DecodeImage decodes any format registered with the image package
// (PNG, JPEG, GIF, BMP and WebP are registered by this package).
func DecodeImage(_ *Descriptor, data []byte) (any, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return &Image{Format: format, Image: img}, nil
}

// DecodeFont parses TrueType and OpenType fonts.
func DecodeFont(_ *Descriptor, data []byte) (any, error) {
	f, err := sfnt.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("decode font: %w", err)
	}
	return &Font{Font: f, Data: data}, nil
}

// DecodeAudio identifies the audio container and wraps the bytes.
// Descriptors registered as KindMusic are marked for streaming.
func DecodeAudio(d *Descriptor, data []byte) (any, error) {
	if len(data) == 0 {
		return nil, errEmptyAudio
	}
	a := &Audio{Format: SniffAudio(data), Data: data}
	if d != nil {
		a.Stream = d.kind == KindMusic
	}
	return a, nil
}

// SniffAudio returns the container format from the leading bytes of data.
func SniffAudio(data []byte) AudioFormat {
	switch {
	case len(data) >= 12 && string(data[0:4]) == "RIFF" && string(data[8:12]) == "WAVE":
		return AudioWAV
	case bytes.HasPrefix(data, []byte("OggS")):
		return AudioOGG
	case bytes.HasPrefix(data, []byte("fLaC")):
		return AudioFLAC
	case bytes.HasPrefix(data, []byte("ID3")):
		return AudioMP3
	case len(data) >= 2 && data[0] == 0xFF && data[1]&0xE0 == 0xE0:
		return AudioMP3
	default:
		return AudioUnknown
	}
}
