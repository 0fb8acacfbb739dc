package shadow

import (
	"errors"
	"fmt"
)

// ErrNoTextureSource is returned when a cache has no provider or pool to
// allocate from.
var ErrNoTextureSource = errors.New("no texture source configured")

// EvictionPolicy sets how many Update ticks an unused texture survives.
// A value <= 0 disables eviction for that kind.
type EvictionPolicy struct {
	StaticFrames  int
	DynamicFrames int
}

func expired(counter, limit int) bool {
	return limit > 0 && counter >= limit
}

// ownedPair holds dedicated 2D and cube textures.
type ownedPair struct {
	map2D Texture
	cube  Texture
}

func (p *ownedPair) slot(target Target) *Texture {
	if target == TargetCube {
		return &p.cube
	}
	return &p.map2D
}

// other returns the slot of the target not requested.
func (p *ownedPair) other(target Target) *Texture {
	if target == TargetCube {
		return &p.map2D
	}
	return &p.cube
}

func (p *ownedPair) get(target Target) Texture {
	return *p.slot(target)
}

// obtain returns the present texture or creates one. The size of a present
// texture is never checked; callers drop first to resize. A pair holds one
// target at a time: creating a texture releases the other target's one.
func (p *ownedPair) obtain(provider Provider, target Target, size int, format Format) (Texture, bool, error) {
	slot := p.slot(target)
	if *slot != nil {
		return *slot, false, nil
	}
	if provider == nil {
		return nil, false, ErrNoTextureSource
	}
	tex, err := provider.CreateTexture(target, size, format)
	if err != nil {
		return nil, false, fmt.Errorf("creating %s %s texture of size %d: %w", target, format, size, err)
	}
	if other := p.other(target); *other != nil {
		(*other).Release()
		*other = nil
	}
	*slot = tex
	return tex, true, nil
}

func (p *ownedPair) present() bool {
	return p.map2D != nil || p.cube != nil
}

func (p *ownedPair) release() {
	if p.map2D != nil {
		p.map2D.Release()
		p.map2D = nil
	}
	if p.cube != nil {
		p.cube.Release()
		p.cube = nil
	}
}

func (p *ownedPair) bytes() int64 {
	return TextureBytes(p.map2D) + TextureBytes(p.cube)
}

// borrowedPair holds 2D and cube textures borrowed from a Pool.
type borrowedPair struct {
	map2D Renderable
	cube  Renderable
}

func (p *borrowedPair) slot(target Target) *Renderable {
	if target == TargetCube {
		return &p.cube
	}
	return &p.map2D
}

func (p *borrowedPair) other(target Target) *Renderable {
	if target == TargetCube {
		return &p.map2D
	}
	return &p.cube
}

func (p *borrowedPair) get(target Target) Texture {
	if r := *p.slot(target); r != nil {
		return r.Texture()
	}
	return nil
}

func (p *borrowedPair) obtain(pool Pool, target Target, size int, format Format) (Texture, bool, error) {
	slot := p.slot(target)
	if *slot != nil {
		return (*slot).Texture(), false, nil
	}
	if pool == nil {
		return nil, false, ErrNoTextureSource
	}
	r, err := pool.Obtain(target, size, format)
	if err != nil {
		return nil, false, fmt.Errorf("borrowing %s %s texture of size %d: %w", target, format, size, err)
	}
	if other := p.other(target); *other != nil {
		(*other).Release()
		*other = nil
	}
	*slot = r
	return r.Texture(), true, nil
}

func (p *borrowedPair) present() bool {
	return p.map2D != nil || p.cube != nil
}

func (p *borrowedPair) release() {
	if p.map2D != nil {
		p.map2D.Release()
		p.map2D = nil
	}
	if p.cube != nil {
		p.cube.Release()
		p.cube = nil
	}
}

// usage counts frames since the static and dynamic textures were last used.
type usage struct {
	lastUseStatic  int
	lastUseDynamic int
	dirtyDynamic   bool
}

// LastUseStatic returns the number of Update ticks since static maps were used.
func (u *usage) LastUseStatic() int { return u.lastUseStatic }

// LastUseDynamic returns the number of Update ticks since dynamic maps were used.
func (u *usage) LastUseDynamic() int { return u.lastUseDynamic }

// IncrementLastUseStatic ages the static maps by one tick.
func (u *usage) IncrementLastUseStatic() { u.lastUseStatic++ }

// IncrementLastUseDynamic ages the dynamic maps by one tick.
func (u *usage) IncrementLastUseDynamic() { u.lastUseDynamic++ }

// ResetLastUseStatic marks the static maps as used this frame.
func (u *usage) ResetLastUseStatic() { u.lastUseStatic = 0 }

// ResetLastUseDynamic marks the dynamic maps as used this frame.
func (u *usage) ResetLastUseDynamic() { u.lastUseDynamic = 0 }

// DirtyDynamic reports whether dynamic maps have to be rendered again.
func (u *usage) DirtyDynamic() bool { return u.dirtyDynamic }

// SetDirtyDynamic sets whether dynamic maps have to be rendered again.
func (u *usage) SetDirtyDynamic(dirty bool) { u.dirtyDynamic = dirty }

// frameSizes keeps the sizes requested by render plans. next grows while a
// frame is planned and becomes last at EndFrame.
type frameSizes struct {
	lastStatic  int
	nextStatic  int
	lastDynamic int
	nextDynamic int
}

// LastSizeStatic returns the largest static size requested last frame.
func (f *frameSizes) LastSizeStatic() int { return f.lastStatic }

// LastSizeDynamic returns the largest dynamic size requested last frame.
func (f *frameSizes) LastSizeDynamic() int { return f.lastDynamic }

// LargestNextSizeStatic returns the largest static size requested this frame.
func (f *frameSizes) LargestNextSizeStatic() int { return f.nextStatic }

// LargestNextSizeDynamic returns the largest dynamic size requested this frame.
func (f *frameSizes) LargestNextSizeDynamic() int { return f.nextDynamic }

// SetLargestNextSizeStatic raises the static size requested this frame.
// Smaller sizes are ignored.
func (f *frameSizes) SetLargestNextSizeStatic(size int) {
	if size > f.nextStatic {
		f.nextStatic = size
	}
}

// SetLargestNextSizeDynamic raises the dynamic size requested this frame.
// Smaller sizes are ignored.
func (f *frameSizes) SetLargestNextSizeDynamic(size int) {
	if size > f.nextDynamic {
		f.nextDynamic = size
	}
}

// ResolveSizeStatic returns the static size to use given the size computed
// by the calling plan.
func (f *frameSizes) ResolveSizeStatic(size int) int {
	return max(size, f.lastStatic, f.nextStatic)
}

// ResolveSizeDynamic returns the dynamic size to use given the size computed
// by the calling plan.
func (f *frameSizes) ResolveSizeDynamic(size int) int {
	return max(size, f.lastDynamic, f.nextDynamic)
}

// EndFrame moves the sizes requested this frame into the last frame slot.
func (f *frameSizes) EndFrame() {
	f.lastStatic = f.nextStatic
	f.lastDynamic = f.nextDynamic
	f.nextStatic = 0
	f.nextDynamic = 0
}
