// Package camera provides the cameras render plans are seen from.
package camera

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// OrbitCamera orbits around a center point.
type OrbitCamera struct {
	// Center point to orbit around
	Center mgl32.Vec3

	// Spherical coordinates
	Distance  float32 // Distance from center
	RotationX float32 // Pitch (vertical angle, radians)
	RotationY float32 // Yaw (horizontal angle, radians)

	// Constraints
	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32
}

// NewOrbitCamera creates a new orbit camera with default settings.
func NewOrbitCamera() *OrbitCamera {
	return &OrbitCamera{
		Distance:    200.0,
		RotationX:   0.5,
		MinDistance: 5.0,
		MaxDistance: 5000.0,
		MinPitch:    0.1,
		MaxPitch:    1.5,
	}
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() mgl32.Vec3 {
	x := c.Distance * math32.Cos(c.RotationX) * math32.Sin(c.RotationY)
	y := c.Distance * math32.Sin(c.RotationX)
	z := c.Distance * math32.Cos(c.RotationX) * math32.Cos(c.RotationY)

	return c.Center.Add(mgl32.Vec3{x, y, z})
}

// ViewMatrix returns the view matrix for this camera.
func (c *OrbitCamera) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position(), c.Center, mgl32.Vec3{0, 1, 0})
}

// Orbit rotates the camera by yaw and pitch deltas in radians.
func (c *OrbitCamera) Orbit(deltaYaw, deltaPitch float32) {
	c.RotationY += deltaYaw
	c.RotationX = mgl32.Clamp(c.RotationX+deltaPitch, c.MinPitch, c.MaxPitch)
}

// Zoom scales the distance by factor within the distance limits.
func (c *OrbitCamera) Zoom(factor float32) {
	c.Distance = mgl32.Clamp(c.Distance*factor, c.MinDistance, c.MaxDistance)
}

// Fixed is a camera at a fixed position.
type Fixed mgl32.Vec3

// Position returns the camera position.
func (c Fixed) Position() mgl32.Vec3 {
	return mgl32.Vec3(c)
}
