package shadow

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// cubeFaces lists look direction and up vector per cube map face in the
// order +X, -X, +Y, -Y, +Z, -Z.
var cubeFaces = [6][2]mgl32.Vec3{
	{{1, 0, 0}, {0, -1, 0}},
	{{-1, 0, 0}, {0, -1, 0}},
	{{0, 1, 0}, {0, 0, 1}},
	{{0, -1, 0}, {0, 0, -1}},
	{{0, 0, 1}, {0, -1, 0}},
	{{0, 0, -1}, {0, -1, 0}},
}

// SetCubeFaceLayers replaces the layers with the six cube faces seen from
// position. size is the face resolution used for the viewport.
func (c *Caster) SetCubeFaceLayers(position mgl32.Vec3, near, far float32, size int) error {
	if !(far > near) || near <= 0 {
		return fmt.Errorf("cube layers near=%v far=%v: %w", near, far, ErrInvalidParam)
	}
	if err := c.SetShadowLayerCount(len(cubeFaces)); err != nil {
		return err
	}

	proj := mgl32.Perspective(mgl32.DegToRad(90), 1, near, far)
	for i, face := range cubeFaces {
		view := mgl32.LookAtV(position, position.Add(face[0]), face[1])
		c.layers[i] = newLayer(proj.Mul4(view), near, far, size)
		c.layers[i].MinExtend = position.Sub(mgl32.Vec3{far, far, far})
		c.layers[i].MaxExtend = position.Add(mgl32.Vec3{far, far, far})
	}
	return nil
}

// SetSpotLayer replaces the layers with a single perspective frustum.
// fovY is in radians.
func (c *Caster) SetSpotLayer(position, direction mgl32.Vec3, fovY, near, far float32, size int) error {
	if !(far > near) || near <= 0 || direction.Len() == 0 {
		return fmt.Errorf("spot layer near=%v far=%v: %w", near, far, ErrInvalidParam)
	}
	if err := c.SetShadowLayerCount(1); err != nil {
		return err
	}

	// avoid an up vector parallel to the light direction
	dir := direction.Normalize()
	up := mgl32.Vec3{0, 1, 0}
	if abs32(dir.Y()) > 0.99 {
		up = mgl32.Vec3{0, 0, 1}
	}

	view := mgl32.LookAtV(position, position.Add(dir), up)
	proj := mgl32.Perspective(fovY, 1, near, far)
	c.layers[0] = newLayer(proj.Mul4(view), near, far, size)
	c.layers[0].MinExtend = position
	c.layers[0].MaxExtend = position.Add(dir.Mul(far))
	return nil
}

func newLayer(matrix mgl32.Mat4, near, far float32, size int) Layer {
	scale := 1 / (far - near)
	return Layer{
		Matrix:      matrix,
		Viewport:    [4]int{0, 0, size, size},
		FrustumNear: near,
		FrustumFar:  far,
		LayerBorder: far,
		ZScale:      scale,
		ZOffset:     -near * scale,
	}
}

func abs32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
