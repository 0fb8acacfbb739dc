package renderplan

import (
	"testing"

	"github.com/Faultbox/shadowcast/internal/engine/lighting"
	"github.com/Faultbox/shadowcast/internal/engine/shadow"
)

func newTestFrame(t *testing.T, scene *testScene, lights ...*lighting.Light) *Frame {
	t.Helper()
	set := lighting.NewSet()
	for _, l := range lights {
		set.Add(l)
	}
	opts := FrameOptions{
		Settings:       highSettings,
		Policy:         shadow.EvictionPolicy{StaticFrames: 3, DynamicFrames: 2},
		PoolIdleFrames: 2,
	}
	return NewFrame(opts, set, scene.pool)
}

func TestFrameMultipleCameras(t *testing.T) {
	s := newTestScene()
	light := s.light(lighting.LightSpot, 10, shadow.StaticOnly)
	f := newTestFrame(t, s, light)

	f.Begin()
	near := f.NewPlan(cameraAt(5))
	far := f.NewPlan(cameraAt(45))
	for _, p := range f.Plans() {
		p.AddLight(light)
	}
	// far camera first
	far.Prepare()
	near.Prepare()

	if far.Lights()[0].ShadowSizeStatic != 512 {
		t.Errorf("expected 512 resolved by the first plan, got %d", far.Lights()[0].ShadowSizeStatic)
	}
	if near.Lights()[0].ShadowSizeStatic != 2048 {
		t.Errorf("expected 2048 for the near plan, got %d", near.Lights()[0].ShadowSizeStatic)
	}

	// acquisition sees the near request, so no map is made twice
	farMaps, err := far.Lights()[0].AcquireShadowMaps(AcquireOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	nearMaps, err := near.Lights()[0].AcquireShadowMaps(AcquireOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if farMaps.Static.Size() != 2048 || nearMaps.Static != farMaps.Static {
		t.Errorf("expected one shared 2048 map, got %d", farMaps.Static.Size())
	}
	if nearMaps.RenderStatic {
		t.Error("expected the shared map rendered once")
	}
	if s.mem.Created() != 1 {
		t.Errorf("expected 1 texture created, got %d", s.mem.Created())
	}
	f.End()

	if light.Caster().Solid().LastSizeStatic() != 2048 {
		t.Errorf("expected last size 2048, got %d", light.Caster().Solid().LastSizeStatic())
	}
	if f.Number() != 1 {
		t.Errorf("expected frame number 1, got %d", f.Number())
	}
}

func TestFrameEndDropsTemporary(t *testing.T) {
	s := newTestScene()
	light := s.light(lighting.LightSpot, 10, shadow.DynamicOnly)
	f := newTestFrame(t, s, light)

	f.Begin()
	p := f.NewPlan(cameraAt(0))
	p.AddLight(light)
	p.Prepare()
	if _, err := p.Lights()[0].AcquireShadowMaps(AcquireOptions{Temporary: true}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.pool.Stats().InUse != 2 {
		t.Fatalf("expected 2 borrowed maps, got %d", s.pool.Stats().InUse)
	}
	f.End()

	if light.Caster().Solid().TemporaryMap() != nil {
		t.Error("expected temporary map dropped at frame end")
	}
	if s.pool.Stats().InUse != 1 {
		t.Errorf("expected 1 borrowed map after frame end, got %d", s.pool.Stats().InUse)
	}
	if !light.Caster().Solid().DirtyDynamic() {
		t.Error("expected dynamic map dirty for the next frame")
	}
}

func TestFrameEvictsUnusedMaps(t *testing.T) {
	s := newTestScene()
	light := s.light(lighting.LightPoint, 10, shadow.StaticAndDynamic)
	f := newTestFrame(t, s, light)

	f.Begin()
	p := f.NewPlan(cameraAt(0))
	p.AddLight(light)
	p.Prepare()
	p.Lights()[0].AcquireShadowMaps(AcquireOptions{})
	f.End()

	// light no longer visible
	f.Begin()
	f.End()
	solid := light.Caster().Solid()
	if solid.DynamicCubeMap() != nil {
		t.Error("expected dynamic map evicted after 2 frames")
	}
	if solid.StaticCubeMap() == nil {
		t.Error("expected static map kept after 2 frames")
	}

	f.Begin()
	f.End()
	if solid.StaticCubeMap() != nil {
		t.Error("expected static map evicted after 3 frames")
	}
	// the returned dynamic map idled in the pool for 2 frames
	if s.mem.Live() != 0 {
		t.Errorf("expected all textures freed, %d live", s.mem.Live())
	}
	if light.Caster().RequiresUpdate() {
		t.Error("expected no pending eviction")
	}
}

func TestFrameNewPlanBegins(t *testing.T) {
	s := newTestScene()
	f := newTestFrame(t, s)

	f.NewPlan(cameraAt(0))
	if len(f.Plans()) != 1 {
		t.Fatalf("expected 1 plan, got %d", len(f.Plans()))
	}
	f.End()
	f.Begin()
	if len(f.Plans()) != 0 {
		t.Errorf("expected plans discarded at Begin, got %d", len(f.Plans()))
	}
}
