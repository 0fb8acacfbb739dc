// Package renderable provides the shared pool of render target textures
// that lights borrow their dynamic and temporary shadow maps from.
package renderable

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/shadowcast/internal/engine/shadow"
	"github.com/Faultbox/shadowcast/internal/logger"
)

// ErrReleased is returned when a pool is used after Close.
var ErrReleased = errors.New("pool closed")

type key struct {
	target shadow.Target
	size   int
	format shadow.Format
}

type entry struct {
	pool  *Pool
	key   key
	tex   shadow.Texture
	inUse bool
	idle  int // Update ticks since last release
}

func (e *entry) Texture() shadow.Texture { return e.tex }

// Release hands the texture back to the pool.
func (e *entry) Release() {
	if !e.inUse {
		return
	}
	e.inUse = false
	e.idle = 0
	e.pool.inUse--
}

// Stats summarises the pool content.
type Stats struct {
	Textures int   // textures owned by the pool
	InUse    int   // textures currently borrowed
	Bytes    int64 // memory of all owned textures
	Created  int   // textures created since the pool was made
	Freed    int   // textures freed by Update or Close
}

// Pool hands out textures keyed by target, size and format. Released
// textures stay allocated and are reused by later requests of the same key.
type Pool struct {
	provider shadow.Provider
	all      []*entry
	inUse    int
	created  int
	freed    int
	closed   bool
}

// New creates a pool allocating through provider.
func New(provider shadow.Provider) *Pool {
	return &Pool{provider: provider}
}

// Obtain implements shadow.Pool.
func (p *Pool) Obtain(target shadow.Target, size int, format shadow.Format) (shadow.Renderable, error) {
	if p.closed {
		return nil, ErrReleased
	}
	k := key{target: target, size: size, format: format}

	for _, e := range p.all {
		if e.key == k && !e.inUse {
			e.inUse = true
			p.inUse++
			return e, nil
		}
	}

	tex, err := p.provider.CreateTexture(target, size, format)
	if err != nil {
		return nil, fmt.Errorf("pool: %w", err)
	}
	e := &entry{pool: p, key: k, tex: tex, inUse: true}
	p.all = append(p.all, e)
	p.inUse++
	p.created++
	return e, nil
}

// Update ages idle textures and frees those idle for maxIdle ticks.
// maxIdle <= 0 keeps idle textures forever.
func (p *Pool) Update(maxIdle int) {
	kept := p.all[:0]
	for _, e := range p.all {
		if !e.inUse {
			e.idle++
			if maxIdle > 0 && e.idle >= maxIdle {
				logger.Debug("freeing idle pool texture",
					zap.Stringer("target", e.key.target),
					zap.Int("size", e.key.size),
					zap.Stringer("format", e.key.format))
				e.tex.Release()
				p.freed++
				continue
			}
		}
		kept = append(kept, e)
	}
	clear(p.all[len(kept):])
	p.all = kept
}

// Stats returns counts and memory of the pool.
func (p *Pool) Stats() Stats {
	s := Stats{
		Textures: len(p.all),
		InUse:    p.inUse,
		Created:  p.created,
		Freed:    p.freed,
	}
	for _, e := range p.all {
		s.Bytes += shadow.TextureBytes(e.tex)
	}
	return s
}

// Close frees every texture. Borrowed textures become invalid.
func (p *Pool) Close() {
	for _, e := range p.all {
		e.tex.Release()
		e.inUse = false
		p.freed++
	}
	p.all = nil
	p.inUse = 0
	p.closed = true
}
