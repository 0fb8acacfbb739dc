// Package renderplan resolves the shadow map sizes of the lights seen by
// each render plan of a frame and acquires the textures to render into.
package renderplan

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/shadowcast/internal/engine/lighting"
	"github.com/Faultbox/shadowcast/internal/engine/shadow"
)

// ErrUnknownLightType is returned when a light type has no shadow map shape.
var ErrUnknownLightType = fmt.Errorf("unknown light type: %w", shadow.ErrInvalidParam)

// Camera is the viewpoint a plan is rendered from.
type Camera interface {
	Position() mgl32.Vec3
}

// PlanLight is the per-frame shadow plan of one light in one render plan.
type PlanLight struct {
	light *lighting.Light

	Distance               float32
	ReductionFactorStatic  int
	ReductionFactorDynamic int

	ShadowSizeStatic         int
	ShadowSizeDynamic        int
	TranspShadowSizeStatic   int
	TranspShadowSizeDynamic  int
	AmbientShadowSizeStatic  int
	AmbientShadowSizeDynamic int
	GIShadowSizeDynamic      int

	// sizes computed from the distance before resolution
	static, dynamic             int
	transpStatic, transpDynamic int
}

// NewPlanLight creates an empty plan for light.
func NewPlanLight(light *lighting.Light) *PlanLight {
	return &PlanLight{light: light}
}

// Light returns the planned light.
func (p *PlanLight) Light() *lighting.Light {
	return p.light
}

// PlanShadowCasting computes the shadow map sizes of the light as seen from
// camera. The computed sizes are published to the light's caches and the
// resolved sizes also account for other plans of this and the last frame.
func (p *PlanLight) PlanShadowCasting(camera Camera, s Settings) error {
	var base int
	switch p.light.Type {
	case lighting.LightSpot, lighting.LightProjector:
		base = s.Base.Map2D
	case lighting.LightPoint:
		base = s.Base.Cube
	default:
		return fmt.Errorf("light %q type %s: %w", p.light.Name, p.light.Type, ErrUnknownLightType)
	}

	p.Distance = camera.Position().Sub(p.light.Position).Len()
	p.ReductionFactorStatic = shadow.ReductionStatic(p.Distance, p.light.Range)
	p.ReductionFactorDynamic = shadow.ReductionDynamic(p.Distance, p.light.Range, s.rangeFactor())

	p.static = shadow.ReduceSize(base, p.ReductionFactorStatic)
	p.dynamic = shadow.ReduceSize(base, p.ReductionFactorDynamic)
	p.transpStatic = shadow.ReduceSize(p.static, 1)
	p.transpDynamic = shadow.ReduceSize(p.dynamic, 1)

	caster := p.light.Caster()
	solid := caster.Solid()
	transparent := caster.Transparent()
	ambient := caster.Ambient()

	solid.SetLargestNextSizeStatic(p.static)
	solid.SetLargestNextSizeDynamic(p.dynamic)
	transparent.SetLargestNextSizeStatic(p.transpStatic)
	transparent.SetLargestNextSizeDynamic(p.transpDynamic)
	ambient.SetLargestNextSizeStatic(p.static)
	ambient.SetLargestNextSizeDynamic(p.dynamic)

	p.resolve()
	return nil
}

// resolve reads back the sizes to use from the caches.
func (p *PlanLight) resolve() {
	caster := p.light.Caster()
	solid := caster.Solid()
	transparent := caster.Transparent()
	ambient := caster.Ambient()

	p.ShadowSizeStatic = solid.ResolveSizeStatic(p.static)
	p.ShadowSizeDynamic = solid.ResolveSizeDynamic(p.dynamic)
	p.TranspShadowSizeStatic = transparent.ResolveSizeStatic(p.transpStatic)
	p.TranspShadowSizeDynamic = transparent.ResolveSizeDynamic(p.transpDynamic)
	p.AmbientShadowSizeStatic = ambient.ResolveSizeStatic(p.static)
	p.AmbientShadowSizeDynamic = ambient.ResolveSizeDynamic(p.dynamic)
	p.GIShadowSizeDynamic = shadow.ReduceSize(p.ShadowSizeDynamic, 2)
}
