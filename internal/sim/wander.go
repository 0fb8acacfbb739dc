package sim

import (
	perlin "github.com/aquilax/go-perlin"
	"github.com/go-gl/mathgl/mgl32"
)

// Wanderer is a camera drifting along a smooth noise path.
type Wanderer struct {
	noise  *perlin.Perlin
	t      float64
	step   float64
	extent float32
	height float32
}

// NewWanderer creates a camera moving within [-extent, extent] on X and Z
// at roughly speed world units per frame.
func NewWanderer(seed int64, extent, speed, height float32) *Wanderer {
	step := 0.01
	if extent > 0 {
		step = float64(speed / extent)
	}
	return &Wanderer{
		noise:  perlin.NewPerlin(2, 2, 3, seed),
		step:   step,
		extent: extent,
		height: height,
	}
}

// Advance moves the camera one frame along its path.
func (w *Wanderer) Advance() {
	w.t += w.step
}

// Position returns the current camera position.
func (w *Wanderer) Position() mgl32.Vec3 {
	// noise is roughly in [-0.5, 0.5]
	x := float32(w.noise.Noise2D(w.t, 0.5)) * 2 * w.extent
	z := float32(w.noise.Noise2D(0.5, w.t)) * 2 * w.extent
	return mgl32.Vec3{
		mgl32.Clamp(x, -w.extent, w.extent),
		w.height,
		mgl32.Clamp(z, -w.extent, w.extent),
	}
}
