package lighting

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/shadowcast/internal/engine/shadow"
	"github.com/Faultbox/shadowcast/internal/engine/texture"
)

func TestParseLightType(t *testing.T) {
	for _, typ := range []LightType{LightPoint, LightSpot, LightProjector} {
		got, err := ParseLightType(typ.String())
		if err != nil {
			t.Fatalf("unexpected error for %s: %v", typ, err)
		}
		if got != typ {
			t.Errorf("expected %s, got %s", typ, got)
		}
	}

	if _, err := ParseLightType("area"); !errors.Is(err, shadow.ErrInvalidParam) {
		t.Errorf("expected ErrInvalidParam, got %v", err)
	}
}

func TestNewLight(t *testing.T) {
	l := NewLight("lamp", LightSpot, mgl32.Vec3{1, 2, 3}, 25, shadow.Resources{})

	if l.Caster() == nil {
		t.Fatal("expected light to own a caster")
	}
	if l.Caster().ShadowType() != shadow.NoShadows {
		t.Errorf("expected NoShadows, got %s", l.Caster().ShadowType())
	}
	if l.Range != 25 {
		t.Errorf("expected range 25, got %v", l.Range)
	}
}

func TestUpdateLayers(t *testing.T) {
	tests := []struct {
		typ    LightType
		layers int
	}{
		{LightPoint, 6},
		{LightSpot, 1},
		{LightProjector, 1},
	}

	for _, tt := range tests {
		t.Run(tt.typ.String(), func(t *testing.T) {
			l := NewLight("l", tt.typ, mgl32.Vec3{0, 10, 0}, 30, shadow.Resources{})
			if err := l.UpdateLayers(512); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := l.Caster().ShadowLayerCount(); got != tt.layers {
				t.Errorf("expected %d layers, got %d", tt.layers, got)
			}
		})
	}

	bad := NewLight("bad", LightType(9), mgl32.Vec3{}, 30, shadow.Resources{})
	if err := bad.UpdateLayers(512); !errors.Is(err, shadow.ErrInvalidParam) {
		t.Errorf("expected ErrInvalidParam, got %v", err)
	}
}

func TestSetClearReleasesMaps(t *testing.T) {
	mem := texture.NewMemory()
	res := shadow.Resources{Textures: mem}
	set := NewSet()

	for i := 0; i < 3; i++ {
		l := NewLight("l", LightPoint, mgl32.Vec3{}, 10, res)
		if _, err := l.Caster().Solid().ObtainStaticCubeMap(64, false); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !set.Add(l) {
			t.Fatal("expected light added")
		}
	}

	if want := int64(3 * 64 * 64 * 4 * 6); set.MemoryUsage() != want {
		t.Errorf("expected %d bytes, got %d", want, set.MemoryUsage())
	}

	set.Clear()
	if set.Len() != 0 {
		t.Errorf("expected empty set, got %d", set.Len())
	}
	if mem.Live() != 0 {
		t.Errorf("expected all textures released, %d live", mem.Live())
	}
}

func TestSetFull(t *testing.T) {
	set := NewSet()
	for i := 0; i < MaxLights; i++ {
		set.Add(&Light{})
	}
	if set.Add(&Light{}) {
		t.Error("expected Add to fail on a full set")
	}
}

func TestDirection(t *testing.T) {
	tests := []struct {
		lon, lat float32
		want     mgl32.Vec3
	}{
		{0, 0, mgl32.Vec3{0, 0, 1}},
		{90, 0, mgl32.Vec3{1, 0, 0}},
		{0, 90, mgl32.Vec3{0, 1, 0}},
		{0, -90, mgl32.Vec3{0, -1, 0}},
	}

	for _, tt := range tests {
		got := Direction(tt.lon, tt.lat)
		if !got.ApproxEqualThreshold(tt.want, 1e-5) {
			t.Errorf("Direction(%v, %v): expected %v, got %v", tt.lon, tt.lat, tt.want, got)
		}
	}
}
