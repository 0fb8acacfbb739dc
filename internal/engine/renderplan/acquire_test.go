package renderplan

import (
	"errors"
	"testing"

	"github.com/Faultbox/shadowcast/internal/engine/lighting"
	"github.com/Faultbox/shadowcast/internal/engine/shadow"
)

func TestAcquireCreatesMaps(t *testing.T) {
	s := newTestScene()
	light := s.light(lighting.LightPoint, 10, shadow.StaticAndDynamic)
	pl := NewPlanLight(light)
	pl.PlanShadowCasting(cameraAtLight(), highSettings)

	maps, err := pl.AcquireShadowMaps(AcquireOptions{Transparent: true, Ambient: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for name, tex := range map[string]shadow.Texture{
		"static":               maps.Static,
		"dynamic":              maps.Dynamic,
		"transparent static":   maps.TranspStatic,
		"transparent color":    maps.TranspStaticColor,
		"transparent dynamic":  maps.TranspDynamic,
		"transparent dyncolor": maps.TranspDynamicColor,
		"ambient static":       maps.AmbientStatic,
		"ambient dynamic":      maps.AmbientDynamic,
	} {
		if tex == nil {
			t.Errorf("%s: expected a map", name)
			continue
		}
		if tex.Target() != shadow.TargetCube {
			t.Errorf("%s: expected cube map for point light, got %s", name, tex.Target())
		}
	}
	if maps.Static.Size() != 1024 || maps.TranspStatic.Size() != 512 {
		t.Errorf("expected 1024/512, got %d/%d", maps.Static.Size(), maps.TranspStatic.Size())
	}
	if !maps.RenderStatic || !maps.RenderDynamic {
		t.Error("expected new maps to need rendering")
	}
	if maps.Temporary != nil {
		t.Error("expected no temporary map unless requested")
	}
}

func TestAcquireRespectsShadowType(t *testing.T) {
	s := newTestScene()

	staticOnly := NewPlanLight(s.light(lighting.LightSpot, 10, shadow.StaticOnly))
	staticOnly.PlanShadowCasting(cameraAtLight(), highSettings)
	maps, _ := staticOnly.AcquireShadowMaps(AcquireOptions{})
	if maps.Static == nil || maps.Dynamic != nil {
		t.Error("expected only a static map")
	}

	dynamicOnly := NewPlanLight(s.light(lighting.LightSpot, 10, shadow.DynamicOnly))
	dynamicOnly.PlanShadowCasting(cameraAtLight(), highSettings)
	maps, _ = dynamicOnly.AcquireShadowMaps(AcquireOptions{})
	if maps.Static != nil || maps.Dynamic == nil {
		t.Error("expected only a dynamic map")
	}
	if s.pool.Stats().InUse != 1 {
		t.Errorf("expected dynamic map from the pool, got %d in use", s.pool.Stats().InUse)
	}
}

func TestAcquireReusesWithinFrame(t *testing.T) {
	s := newTestScene()
	light := s.light(lighting.LightSpot, 10, shadow.StaticAndDynamic)

	first := NewPlanLight(light)
	first.PlanShadowCasting(cameraAtLight(), highSettings)
	maps, _ := first.AcquireShadowMaps(AcquireOptions{})
	first.MarkDynamicRendered()

	second := NewPlanLight(light)
	second.PlanShadowCasting(cameraAt(5), highSettings)
	again, err := second.AcquireShadowMaps(AcquireOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if again.Static != maps.Static || again.Dynamic != maps.Dynamic {
		t.Error("expected the same maps for a second plan")
	}
	if again.RenderStatic || again.RenderDynamic {
		t.Error("expected no rendering needed for the second plan")
	}
}

func TestAcquireResizes(t *testing.T) {
	s := newTestScene()
	light := s.light(lighting.LightSpot, 10, shadow.StaticOnly)
	caster := light.Caster()

	plan := func(distance float32) ShadowMaps {
		pl := NewPlanLight(light)
		pl.PlanShadowCasting(cameraAt(distance), highSettings)
		maps, err := pl.AcquireShadowMaps(AcquireOptions{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		caster.EndFrame()
		return maps
	}

	if maps := plan(5); maps.Static.Size() != 2048 || !maps.RenderStatic {
		t.Fatalf("expected new 2048 map, got %d", maps.Static.Size())
	}
	if maps := plan(45); maps.Static.Size() != 2048 || maps.RenderStatic {
		t.Errorf("expected 2048 map kept for one frame, got %d", maps.Static.Size())
	}
	maps := plan(45)
	if maps.Static.Size() != 512 || !maps.RenderStatic {
		t.Errorf("expected recreated 512 map, got %d", maps.Static.Size())
	}
	if s.mem.Live() != 1 {
		t.Errorf("expected old map released, %d live", s.mem.Live())
	}
}

func TestAcquireTemporary(t *testing.T) {
	s := newTestScene()
	light := s.light(lighting.LightSpot, 10, shadow.DynamicOnly)
	pl := NewPlanLight(light)
	pl.PlanShadowCasting(cameraAtLight(), highSettings)

	maps, err := pl.AcquireShadowMaps(AcquireOptions{Temporary: true, UseFloat: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if maps.Temporary == nil || maps.Temporary.Format() != shadow.FormatDepthFloat {
		t.Fatal("expected a float temporary map")
	}
	if maps.Temporary.Size() != pl.ShadowSizeDynamic {
		t.Errorf("expected temporary at dynamic size %d, got %d", pl.ShadowSizeDynamic, maps.Temporary.Size())
	}

	light.Caster().DropTemporary()
	if s.pool.Stats().InUse != 1 {
		t.Errorf("expected only the dynamic map borrowed, got %d", s.pool.Stats().InUse)
	}
}

func cameraAtLight() fixedCamera {
	return cameraAt(0)
}

func TestAcquireBeforePlan(t *testing.T) {
	s := newTestScene()
	pl := NewPlanLight(s.light(lighting.LightSpot, 10, shadow.StaticOnly))

	if _, err := pl.AcquireShadowMaps(AcquireOptions{}); !errors.Is(err, shadow.ErrInvalidParam) {
		t.Errorf("expected ErrInvalidParam, got %v", err)
	}
}
