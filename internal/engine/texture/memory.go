// Package texture provides a headless shadow texture provider that only
// accounts for the memory the textures would occupy on the GPU.
package texture

import (
	"fmt"
	"sync"

	"github.com/Faultbox/shadowcast/internal/engine/shadow"
)

// MaxSize is the largest texture edge the provider accepts.
const MaxSize = 16384

// Memory is a shadow.Provider keeping textures in host bookkeeping only.
type Memory struct {
	mu      sync.Mutex
	live    int
	bytes   int64
	created int
	peak    int64
}

// NewMemory creates an empty provider.
func NewMemory() *Memory {
	return &Memory{}
}

// CreateTexture implements shadow.Provider.
func (m *Memory) CreateTexture(target shadow.Target, size int, format shadow.Format) (shadow.Texture, error) {
	if size < shadow.MinMapSize || size > MaxSize {
		return nil, fmt.Errorf("texture size %d: %w", size, shadow.ErrInvalidParam)
	}

	tex := &memTexture{owner: m, target: target, size: size, format: format}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.live++
	m.created++
	m.bytes += shadow.TextureBytes(tex)
	if m.bytes > m.peak {
		m.peak = m.bytes
	}
	return tex, nil
}

// Live returns the number of textures not yet released.
func (m *Memory) Live() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.live
}

// Bytes returns the memory held by live textures.
func (m *Memory) Bytes() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.bytes
}

// Created returns the number of textures created so far.
func (m *Memory) Created() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.created
}

// Peak returns the largest value Bytes has reached.
func (m *Memory) Peak() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.peak
}

func (m *Memory) release(tex *memTexture) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.live--
	m.bytes -= shadow.TextureBytes(tex)
}

type memTexture struct {
	owner    *Memory
	target   shadow.Target
	size     int
	format   shadow.Format
	released bool
}

func (t *memTexture) Target() shadow.Target { return t.target }
func (t *memTexture) Size() int             { return t.size }
func (t *memTexture) Format() shadow.Format { return t.format }

// Release returns the texture's memory. Calling it twice is a no-op.
func (t *memTexture) Release() {
	if t.released {
		return
	}
	t.released = true
	t.owner.release(t)
}
