// Package testutil provides fixtures shared by package tests.
package testutil

import (
	"bytes"
	"context"
	"encoding/binary"
	"image"
	"image/color"
	"image/png"
	"io/fs"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/meigma/asset"
)

// MockProvider serves raw bytes from an in-memory map keyed by path and
// counts resolutions. It is safe for concurrent use.
type MockProvider struct {
	mu    sync.RWMutex
	files map[string][]byte
	calls atomic.Int64
}

// NewMockProvider returns a provider serving files.
func NewMockProvider(files map[string][]byte) *MockProvider {
	m := &MockProvider{files: make(map[string][]byte, len(files))}
	for k, v := range files {
		m.files[k] = v
	}
	return m
}

// Resolve returns a copy of the bytes stored under d's path, so every
// resolution produces a distinct buffer.
func (m *MockProvider) Resolve(_ context.Context, d *asset.Descriptor, _ asset.Kind) (any, error) {
	m.calls.Add(1)
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.files[d.Path()]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: d.Path(), Err: fs.ErrNotExist}
	}
	return bytes.Clone(data), nil
}

// Set stores data under path.
func (m *MockProvider) Set(path string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[path] = data
}

// Calls returns the number of Resolve calls.
func (m *MockProvider) Calls() int64 {
	return m.calls.Load()
}

// PNG returns a w×h PNG filled with c.
func PNG(t testing.TB, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

// WAV returns a minimal 16-bit mono PCM WAV file with n silent samples.
func WAV(n int) []byte {
	const sampleRate = 8000
	dataSize := uint32(n * 2) //nolint:gosec // test fixture sizes are small
	var buf bytes.Buffer
	buf.WriteString("RIFF")
	_ = binary.Write(&buf, binary.LittleEndian, 36+dataSize)
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(16))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(1)) // PCM
	_ = binary.Write(&buf, binary.LittleEndian, uint16(1)) // mono
	_ = binary.Write(&buf, binary.LittleEndian, uint32(sampleRate))
	_ = binary.Write(&buf, binary.LittleEndian, uint32(sampleRate*2))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(2))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(16))
	buf.WriteString("data")
	_ = binary.Write(&buf, binary.LittleEndian, dataSize)
	buf.Write(make([]byte, dataSize))
	return buf.Bytes()
}
