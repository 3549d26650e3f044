package asset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want Kind
	}{
		{"image", KindImage},
		{"Font", KindFont},
		{" audio ", KindAudio},
		{"sound", KindAudio},
		{"MUSIC", KindMusic},
		{"binary", KindBinary},
		{"text", KindBinary},
	}
	for _, tt := range tests {
		got, err := ParseKind(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseKind("video")
	require.ErrorIs(t, err, ErrInvalidKind)
}

func TestKindText(t *testing.T) {
	t.Parallel()

	text, err := KindMusic.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "music", string(text))
	assert.Equal(t, "Music", KindMusic.String())

	var k Kind
	require.NoError(t, k.UnmarshalText([]byte("font")))
	assert.Equal(t, KindFont, k)

	_, err = Kind(42).MarshalText()
	require.ErrorIs(t, err, ErrInvalidKind)
	assert.Equal(t, "Kind(42)", Kind(42).String())
	assert.False(t, Kind(42).Valid())
}

func TestAccepts(t *testing.T) {
	t.Parallel()

	kinds := []Kind{KindImage, KindFont, KindAudio, KindMusic, KindBinary}
	for _, have := range kinds {
		assert.True(t, accepts(KindBinary, have), "binary accepts %s", have)
		assert.Equal(t, have == KindImage, accepts(KindImage, have), "image vs %s", have)
		assert.Equal(t, have == KindFont, accepts(KindFont, have), "font vs %s", have)
		assert.Equal(t, have == KindAudio || have == KindMusic, accepts(KindAudio, have), "audio vs %s", have)
	}
}
