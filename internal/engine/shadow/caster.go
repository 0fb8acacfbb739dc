// Package shadow plans and caches the shadow maps of lights.
//
// A Caster belongs to exactly one light. It owns three per-variant caches
// (solid, transparent, ambient) holding static maps across frames and
// borrowing dynamic maps from a shared pool. Sizes requested by several
// render plans within one frame are merged so the chosen size does not
// depend on the order cameras are processed in.
package shadow

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrInvalidParam is returned for parameters violating a precondition.
var ErrInvalidParam = errors.New("invalid parameter")

// ShadowType selects which shadow maps a light uses.
type ShadowType int

// Shadow types. New casters start with NoShadows.
const (
	NoShadows ShadowType = iota
	StaticOnly
	DynamicOnly
	StaticAndDynamic
)

// String returns the shadow type name.
func (t ShadowType) String() string {
	switch t {
	case NoShadows:
		return "none"
	case StaticOnly:
		return "static"
	case DynamicOnly:
		return "dynamic"
	case StaticAndDynamic:
		return "static+dynamic"
	default:
		return fmt.Sprintf("ShadowType(%d)", int(t))
	}
}

// UsesStatic reports whether static maps are rendered.
func (t ShadowType) UsesStatic() bool {
	return t == StaticOnly || t == StaticAndDynamic
}

// UsesDynamic reports whether dynamic maps are rendered.
func (t ShadowType) UsesDynamic() bool {
	return t == DynamicOnly || t == StaticAndDynamic
}

// Layer is the transform of one shadow layer (cube face, cascade split).
type Layer struct {
	Matrix      mgl32.Mat4
	Viewport    [4]int
	FrustumNear float32
	FrustumFar  float32
	LayerBorder float32
	ZScale      float32
	ZOffset     float32
	MinExtend   mgl32.Vec3
	MaxExtend   mgl32.Vec3
}

// Caster holds the shadow state of a single light.
type Caster struct {
	shadowType ShadowType

	solid       SolidCache
	transparent TransparentCache
	ambient     AmbientCache

	staticNear   float32
	staticFar    float32
	staticScale  float32
	staticOffset float32

	dynamicNear   float32
	dynamicFar    float32
	dynamicScale  float32
	dynamicOffset float32

	origin        mgl32.Vec3
	staticCutOff  float32
	dynamicCutOff float32

	layers []Layer
}

// NewCaster creates a caster allocating textures from res.
func NewCaster(res Resources) *Caster {
	c := &Caster{}
	c.solid.res = res
	c.transparent.res = res
	c.ambient.res = res
	c.setParams(&c.staticNear, &c.staticFar, &c.staticScale, &c.staticOffset, 0.01, 1)
	c.setParams(&c.dynamicNear, &c.dynamicFar, &c.dynamicScale, &c.dynamicOffset, 0.01, 1)
	return c
}

// ShadowType returns the shadow type.
func (c *Caster) ShadowType() ShadowType { return c.shadowType }

// SetShadowType sets the shadow type.
func (c *Caster) SetShadowType(t ShadowType) { c.shadowType = t }

// Solid returns the solid shadow cache.
func (c *Caster) Solid() *SolidCache { return &c.solid }

// Transparent returns the transparent shadow cache.
func (c *Caster) Transparent() *TransparentCache { return &c.transparent }

// Ambient returns the ambient shadow cache.
func (c *Caster) Ambient() *AmbientCache { return &c.ambient }

// StaticNear returns the static near distance.
func (c *Caster) StaticNear() float32 { return c.staticNear }

// StaticFar returns the static far distance.
func (c *Caster) StaticFar() float32 { return c.staticFar }

// StaticScale returns the static depth scale, 1/(far-near).
func (c *Caster) StaticScale() float32 { return c.staticScale }

// StaticOffset returns the static depth offset, -near*scale.
func (c *Caster) StaticOffset() float32 { return c.staticOffset }

// DynamicNear returns the dynamic near distance.
func (c *Caster) DynamicNear() float32 { return c.dynamicNear }

// DynamicFar returns the dynamic far distance.
func (c *Caster) DynamicFar() float32 { return c.dynamicFar }

// DynamicScale returns the dynamic depth scale, 1/(far-near).
func (c *Caster) DynamicScale() float32 { return c.dynamicScale }

// DynamicOffset returns the dynamic depth offset, -near*scale.
func (c *Caster) DynamicOffset() float32 { return c.dynamicOffset }

// SetStaticParams sets the static depth range and derives scale and offset.
func (c *Caster) SetStaticParams(near, far float32) error {
	if !(far > near) {
		return fmt.Errorf("static params near=%v far=%v: %w", near, far, ErrInvalidParam)
	}
	c.setParams(&c.staticNear, &c.staticFar, &c.staticScale, &c.staticOffset, near, far)
	return nil
}

// SetDynamicParams sets the dynamic depth range and derives scale and offset.
func (c *Caster) SetDynamicParams(near, far float32) error {
	if !(far > near) {
		return fmt.Errorf("dynamic params near=%v far=%v: %w", near, far, ErrInvalidParam)
	}
	c.setParams(&c.dynamicNear, &c.dynamicFar, &c.dynamicScale, &c.dynamicOffset, near, far)
	return nil
}

func (c *Caster) setParams(near, far, scale, offset *float32, n, f float32) {
	*near = n
	*far = f
	*scale = 1 / (f - n)
	*offset = -n * *scale
}

// ShadowOrigin returns the frustum origin used by semi-point lights.
func (c *Caster) ShadowOrigin() mgl32.Vec3 { return c.origin }

// SetShadowOrigin sets the frustum origin used by semi-point lights.
func (c *Caster) SetShadowOrigin(origin mgl32.Vec3) { c.origin = origin }

// StaticCutOff returns the static cut-off of semi-point lights.
func (c *Caster) StaticCutOff() float32 { return c.staticCutOff }

// SetStaticCutOff sets the static cut-off of semi-point lights.
func (c *Caster) SetStaticCutOff(cutOff float32) { c.staticCutOff = cutOff }

// DynamicCutOff returns the dynamic cut-off of semi-point lights.
func (c *Caster) DynamicCutOff() float32 { return c.dynamicCutOff }

// SetDynamicCutOff sets the dynamic cut-off of semi-point lights.
func (c *Caster) SetDynamicCutOff(cutOff float32) { c.dynamicCutOff = cutOff }

// ShadowLayerCount returns the number of shadow layers.
func (c *Caster) ShadowLayerCount() int { return len(c.layers) }

// SetShadowLayerCount resizes the layer array. Existing layers are
// discarded, even if the count does not change.
func (c *Caster) SetShadowLayerCount(count int) error {
	if count < 0 {
		return fmt.Errorf("shadow layer count %d: %w", count, ErrInvalidParam)
	}
	if count == 0 {
		c.layers = nil
		return nil
	}
	c.layers = make([]Layer, count)
	return nil
}

// ShadowLayerAt returns the layer at index.
func (c *Caster) ShadowLayerAt(index int) (*Layer, error) {
	if index < 0 || index >= len(c.layers) {
		return nil, fmt.Errorf("shadow layer %d of %d: %w", index, len(c.layers), ErrInvalidParam)
	}
	return &c.layers[index], nil
}

// Update ages all caches and evicts maps unused past policy.
func (c *Caster) Update(policy EvictionPolicy) {
	c.solid.Update(policy)
	c.transparent.Update(policy)
	c.ambient.Update(policy)
}

// RequiresUpdate reports whether any cache holds static or dynamic maps,
// whose last-use counters and dirty flag Update has to advance.
func (c *Caster) RequiresUpdate() bool {
	return c.solid.RequiresUpdate() || c.transparent.RequiresUpdate() || c.ambient.RequiresUpdate()
}

// EndFrame closes the size bookkeeping of the current frame.
func (c *Caster) EndFrame() {
	c.solid.EndFrame()
	c.transparent.EndFrame()
	c.ambient.EndFrame()
}

// Clear drops every map of every cache.
func (c *Caster) Clear() {
	c.solid.Clear()
	c.transparent.Clear()
	c.ambient.Clear()
}

// DropDynamic drops the solid and ambient dynamic maps. Transparent dynamic
// maps are downsampled from the solid ones every pass and are left alone.
func (c *Caster) DropDynamic() {
	c.solid.DropDynamic()
	c.ambient.DropDynamic()
}

// DropTemporary returns all temporary maps to the pool.
func (c *Caster) DropTemporary() {
	c.solid.DropTemporary()
	c.transparent.DropTemporary()
	c.ambient.DropTemporary()
}

// InvalidateStatic drops all static maps so they are rendered again.
func (c *Caster) InvalidateStatic() {
	c.solid.DropStatic()
	c.transparent.DropStatic()
	c.ambient.DropStatic()
}

// MemoryUsage returns the bytes held by owned maps of all caches.
func (c *Caster) MemoryUsage() int64 {
	return c.solid.MemoryUsage() + c.transparent.MemoryUsage() + c.ambient.MemoryUsage()
}
