package asset

import (
	"image"

	"golang.org/x/image/font/sfnt"
)

// Image is a decoded image asset.
type Image struct {
	// Format is the name reported by the decoder ("png", "jpeg", ...).
	Format string

	image.Image
}

// Font is a parsed font asset.
type Font struct {
	*sfnt.Font

	// Data is the raw font file; the parsed font reads glyph data from it.
	Data []byte
}

// AudioFormat identifies the container of an audio asset.
type AudioFormat string

const (
	AudioWAV     AudioFormat = "wav"
	AudioOGG     AudioFormat = "ogg"
	AudioMP3     AudioFormat = "mp3"
	AudioFLAC    AudioFormat = "flac"
	AudioUnknown AudioFormat = "unknown"
)

// Audio is an audio asset. Decoding to samples is left to the playback
// layer; the library only identifies the container.
type Audio struct {
	Format AudioFormat

	// Stream is true for assets registered as KindMusic, which players are
	// expected to stream rather than buffer.
	Stream bool

	Data []byte
}
