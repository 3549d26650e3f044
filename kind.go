package asset

import (
	"fmt"
	"strings"
)

// Kind identifies the runtime type an asset resolves to.
type Kind uint8

const (
	KindImage Kind = iota
	KindFont
	KindAudio
	KindMusic
	KindBinary
)

// String returns the display name of the kind.
func (k Kind) String() string {
	switch k {
	case KindImage:
		return "Image"
	case KindFont:
		return "Font"
	case KindAudio:
		return "Audio"
	case KindMusic:
		return "Music"
	case KindBinary:
		return "Binary"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Valid reports whether k is one of the defined kinds.
func (k Kind) Valid() bool {
	return k <= KindBinary
}

// ParseKind parses a kind name case-insensitively.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "image":
		return KindImage, nil
	case "font":
		return KindFont, nil
	case "audio", "sound":
		return KindAudio, nil
	case "music":
		return KindMusic, nil
	case "binary", "text":
		return KindBinary, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidKind, s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidKind, uint8(k))
	}
	return []byte(strings.ToLower(k.String())), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// accepts reports whether an asset registered as have can be served by an
// accessor asking for want. Audio accepts music; binary accepts anything.
func accepts(want, have Kind) bool {
	switch want {
	case KindAudio:
		return have == KindAudio || have == KindMusic
	case KindBinary:
		return true
	default:
		return want == have
	}
}
