package renderplan

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/shadowcast/internal/engine/lighting"
	"github.com/Faultbox/shadowcast/internal/engine/shadow"
	"github.com/Faultbox/shadowcast/internal/logger"
)

// AcquireOptions selects the maps AcquireShadowMaps obtains besides the
// solid ones.
type AcquireOptions struct {
	UseFloat    bool
	Transparent bool // depth and color maps of transparent casters
	Ambient     bool
	Temporary   bool // one-frame solid map for filtered renders
}

// ShadowMaps are the textures a light renders into this frame. Textures
// stay owned by the caches or the pool.
type ShadowMaps struct {
	Static  shadow.Texture
	Dynamic shadow.Texture

	TranspStatic       shadow.Texture
	TranspStaticColor  shadow.Texture
	TranspDynamic      shadow.Texture
	TranspDynamicColor shadow.Texture

	AmbientStatic  shadow.Texture
	AmbientDynamic shadow.Texture

	Temporary shadow.Texture

	RenderStatic  bool // static maps are new and must be rendered
	RenderDynamic bool // dynamic maps are dirty and must be rendered
}

// AcquireShadowMaps obtains the maps of the light at the resolved sizes.
// The sizes are resolved again first, so requests of plans prepared after
// this one are honoured. Cached maps of another size are dropped and
// recreated. Maps obtained here count as used this frame.
func (p *PlanLight) AcquireShadowMaps(opts AcquireOptions) (ShadowMaps, error) {
	if p.static == 0 {
		return ShadowMaps{}, fmt.Errorf("light %q acquired before planning: %w", p.light.Name, shadow.ErrInvalidParam)
	}
	p.resolve()

	var maps ShadowMaps
	caster := p.light.Caster()
	cube := p.light.Type == lighting.LightPoint
	typ := caster.ShadowType()

	if typ.UsesStatic() {
		if err := p.acquireStatic(&maps, opts, cube); err != nil {
			return ShadowMaps{}, err
		}
	}
	if typ.UsesDynamic() {
		if err := p.acquireDynamic(&maps, opts, cube); err != nil {
			return ShadowMaps{}, err
		}
	}
	if opts.Temporary {
		solid := caster.Solid()
		var err error
		if cube {
			maps.Temporary, err = solid.ObtainTemporaryCubeMap(p.ShadowSizeDynamic, opts.UseFloat)
		} else {
			maps.Temporary, err = solid.ObtainTemporaryMap(p.ShadowSizeDynamic, opts.UseFloat)
		}
		if err != nil {
			return ShadowMaps{}, err
		}
	}
	return maps, nil
}

func (p *PlanLight) acquireStatic(maps *ShadowMaps, opts AcquireOptions, cube bool) error {
	caster := p.light.Caster()
	solid := caster.Solid()

	created, err := acquire(&maps.Static, pick(cube, solid.StaticMap, solid.StaticCubeMap),
		p.ShadowSizeStatic, "solid static", solid.DropStatic,
		func() (shadow.Texture, error) {
			if cube {
				return solid.ObtainStaticCubeMap(p.ShadowSizeStatic, opts.UseFloat)
			}
			return solid.ObtainStaticMap(p.ShadowSizeStatic, opts.UseFloat)
		})
	if err != nil {
		return err
	}
	solid.ResetLastUseStatic()
	maps.RenderStatic = created

	if opts.Transparent {
		transparent := caster.Transparent()
		size := p.TranspShadowSizeStatic
		created, err := acquire(&maps.TranspStatic, pick(cube, transparent.StaticShadowMap, transparent.StaticShadowCubeMap),
			size, "transparent static", transparent.DropStatic,
			func() (shadow.Texture, error) {
				if cube {
					return transparent.ObtainStaticShadowCubeMap(size, opts.UseFloat)
				}
				return transparent.ObtainStaticShadowMap(size, opts.UseFloat)
			})
		if err != nil {
			return err
		}
		if cube {
			maps.TranspStaticColor, err = transparent.ObtainStaticColorCubeMap(size)
		} else {
			maps.TranspStaticColor, err = transparent.ObtainStaticColorMap(size)
		}
		if err != nil {
			return err
		}
		transparent.ResetLastUseStatic()
		maps.RenderStatic = maps.RenderStatic || created
	}

	if opts.Ambient {
		ambient := caster.Ambient()
		created, err := acquire(&maps.AmbientStatic, pick(cube, ambient.StaticMap, ambient.StaticCubeMap),
			p.AmbientShadowSizeStatic, "ambient static", ambient.DropStatic,
			func() (shadow.Texture, error) {
				if cube {
					return ambient.ObtainStaticCubeMap(p.AmbientShadowSizeStatic, opts.UseFloat)
				}
				return ambient.ObtainStaticMap(p.AmbientShadowSizeStatic, opts.UseFloat)
			})
		if err != nil {
			return err
		}
		ambient.ResetLastUseStatic()
		maps.RenderStatic = maps.RenderStatic || created
	}
	return nil
}

func (p *PlanLight) acquireDynamic(maps *ShadowMaps, opts AcquireOptions, cube bool) error {
	caster := p.light.Caster()
	solid := caster.Solid()

	_, err := acquire(&maps.Dynamic, pick(cube, solid.DynamicMap, solid.DynamicCubeMap),
		p.ShadowSizeDynamic, "solid dynamic", solid.DropDynamic,
		func() (shadow.Texture, error) {
			if cube {
				return solid.ObtainDynamicCubeMap(p.ShadowSizeDynamic, opts.UseFloat)
			}
			return solid.ObtainDynamicMap(p.ShadowSizeDynamic, opts.UseFloat)
		})
	if err != nil {
		return err
	}
	solid.ResetLastUseDynamic()
	maps.RenderDynamic = solid.DirtyDynamic()

	if opts.Transparent {
		transparent := caster.Transparent()
		size := p.TranspShadowSizeDynamic
		_, err := acquire(&maps.TranspDynamic, pick(cube, transparent.DynamicShadowMap, transparent.DynamicShadowCubeMap),
			size, "transparent dynamic", transparent.DropDynamic,
			func() (shadow.Texture, error) {
				if cube {
					return transparent.ObtainDynamicShadowCubeMap(size, opts.UseFloat)
				}
				return transparent.ObtainDynamicShadowMap(size, opts.UseFloat)
			})
		if err != nil {
			return err
		}
		if cube {
			maps.TranspDynamicColor, err = transparent.ObtainDynamicColorCubeMap(size)
		} else {
			maps.TranspDynamicColor, err = transparent.ObtainDynamicColorMap(size)
		}
		if err != nil {
			return err
		}
		transparent.ResetLastUseDynamic()
		maps.RenderDynamic = maps.RenderDynamic || transparent.DirtyDynamic()
	}

	if opts.Ambient {
		ambient := caster.Ambient()
		_, err := acquire(&maps.AmbientDynamic, pick(cube, ambient.DynamicMap, ambient.DynamicCubeMap),
			p.AmbientShadowSizeDynamic, "ambient dynamic", ambient.DropDynamic,
			func() (shadow.Texture, error) {
				if cube {
					return ambient.ObtainDynamicCubeMap(p.AmbientShadowSizeDynamic, opts.UseFloat)
				}
				return ambient.ObtainDynamicMap(p.AmbientShadowSizeDynamic, opts.UseFloat)
			})
		if err != nil {
			return err
		}
		ambient.ResetLastUseDynamic()
		maps.RenderDynamic = maps.RenderDynamic || ambient.DirtyDynamic()
	}
	return nil
}

// MarkDynamicRendered clears the dirty flags after the dynamic maps were
// rendered, so other plans of the frame reuse them.
func (p *PlanLight) MarkDynamicRendered() {
	caster := p.light.Caster()
	caster.Solid().SetDirtyDynamic(false)
	caster.Transparent().SetDirtyDynamic(false)
	caster.Ambient().SetDirtyDynamic(false)
}

func pick(cube bool, map2D, cubeMap func() shadow.Texture) shadow.Texture {
	if cube {
		return cubeMap()
	}
	return map2D()
}

// acquire drops the cached map when its size differs from size and obtains
// it again. created reports whether a new texture was made.
func acquire(dst *shadow.Texture, cached shadow.Texture, size int, what string, drop func(), obtain func() (shadow.Texture, error)) (bool, error) {
	if cached != nil && cached.Size() != size {
		logger.Debug("resizing shadow map",
			zap.String("map", what),
			zap.Int("from", cached.Size()),
			zap.Int("to", size))
		drop()
		cached = nil
	}

	tex, err := obtain()
	if err != nil {
		return false, err
	}
	*dst = tex
	return cached == nil, nil
}
