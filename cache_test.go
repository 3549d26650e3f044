package asset

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirective(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		d        directive
		policy   Policy
		consults bool
		persists bool
	}{
		{name: "ambient uncached", d: directive{}, policy: Uncached, consults: true, persists: false},
		{name: "ambient weak", d: directive{}, policy: Weak, consults: true, persists: true},
		{name: "ambient strong", d: directive{}, policy: Strong, consults: true, persists: true},
		{name: "use under uncached", d: directive{set: true, use: true}, policy: Uncached, consults: true, persists: true},
		{name: "use under strong", d: directive{set: true, use: true}, policy: Strong, consults: true, persists: true},
		{name: "bypass under strong", d: directive{set: true}, policy: Strong, consults: false, persists: false},
		{name: "bypass under weak", d: directive{set: true}, policy: Weak, consults: false, persists: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.consults, tt.d.consults())
			assert.Equal(t, tt.persists, tt.d.persists(tt.policy))
		})
	}

	assert.True(t, retainStrong(Strong))
	assert.False(t, retainStrong(Weak))
	assert.False(t, retainStrong(Uncached))
}

func TestNewGetConfig(t *testing.T) {
	t.Parallel()

	assert.Equal(t, directive{}, newGetConfig(nil).cache)
	assert.Equal(t, directive{set: true, use: true}, newGetConfig([]GetOption{UseCache(true)}).cache)
	assert.Equal(t, directive{set: true}, newGetConfig([]GetOption{UseCache(true), UseCache(false)}).cache)
}

func TestSlotStrong(t *testing.T) {
	t.Parallel()

	var s slot
	_, ok := load[Image](&s)
	assert.False(t, ok)
	assert.False(t, s.live())

	v := &Image{Format: "png"}
	put(&s, v, true)
	got, ok := load[Image](&s)
	require.True(t, ok)
	assert.Same(t, v, got)
	assert.True(t, s.live())

	// A value of another type is a miss.
	_, ok = load[Font](&s)
	assert.False(t, ok)

	s.clear()
	_, ok = load[Image](&s)
	assert.False(t, ok)
}

func TestSlotWeakIsCollected(t *testing.T) {
	t.Parallel()

	var s slot
	func() {
		v := &Audio{Format: AudioWAV, Data: make([]byte, 1024)}
		put(&s, v, false)
		got, ok := load[Audio](&s)
		require.True(t, ok)
		assert.Same(t, v, got)
	}()

	for range 20 {
		runtime.GC()
		if !s.live() {
			break
		}
	}
	assert.False(t, s.live())
	_, ok := load[Audio](&s)
	assert.False(t, ok)
}

func TestSlotLastWriterWins(t *testing.T) {
	t.Parallel()

	var s slot
	first := &Image{Format: "png"}
	second := &Image{Format: "gif"}
	put(&s, first, true)
	put(&s, second, false)

	got, ok := load[Image](&s)
	require.True(t, ok)
	assert.Same(t, second, got)
	runtime.KeepAlive(second)
}
