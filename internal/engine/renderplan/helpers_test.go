package renderplan

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/shadowcast/internal/engine/lighting"
	"github.com/Faultbox/shadowcast/internal/engine/renderable"
	"github.com/Faultbox/shadowcast/internal/engine/shadow"
	"github.com/Faultbox/shadowcast/internal/engine/texture"
)

type fixedCamera mgl32.Vec3

func (c fixedCamera) Position() mgl32.Vec3 { return mgl32.Vec3(c) }

// cameraAt returns a camera at distance along +X from the origin.
func cameraAt(distance float32) fixedCamera {
	return fixedCamera{distance, 0, 0}
}

var highSettings = Settings{Base: BaseSizes{Map2D: 2048, Cube: 1024}}

type testScene struct {
	mem  *texture.Memory
	pool *renderable.Pool
	res  shadow.Resources
}

func newTestScene() *testScene {
	mem := texture.NewMemory()
	pool := renderable.New(mem)
	return &testScene{
		mem:  mem,
		pool: pool,
		res:  shadow.Resources{Textures: mem, Pool: pool},
	}
}

func (s *testScene) light(typ lighting.LightType, lightRange float32, shadowType shadow.ShadowType) *lighting.Light {
	l := lighting.NewLight("test", typ, mgl32.Vec3{}, lightRange, s.res)
	l.Caster().SetShadowType(shadowType)
	return l
}
