package renderplan

import (
	"github.com/Faultbox/shadowcast/internal/engine/lighting"
	"github.com/Faultbox/shadowcast/internal/engine/shadow"
)

// PoolAger is the part of the renderable pool a frame ages.
type PoolAger interface {
	Update(maxIdle int)
}

// FrameOptions configure the frame boundary work.
type FrameOptions struct {
	Settings       Settings
	Policy         shadow.EvictionPolicy
	PoolIdleFrames int
}

// Frame drives the plans of the scene lights through one frame at a time.
type Frame struct {
	opts   FrameOptions
	lights *lighting.Set
	pool   PoolAger

	number int
	open   bool
	plans  []*Plan
}

// NewFrame creates a frame driver for lights. pool may be nil.
func NewFrame(opts FrameOptions, lights *lighting.Set, pool PoolAger) *Frame {
	return &Frame{
		opts:   opts,
		lights: lights,
		pool:   pool,
	}
}

// Number returns the number of frames ended so far.
func (f *Frame) Number() int {
	return f.number
}

// Settings returns the planner settings of the frame.
func (f *Frame) Settings() Settings {
	return f.opts.Settings
}

// Begin starts a frame. Plans of the previous frame are discarded.
func (f *Frame) Begin() {
	f.plans = f.plans[:0]
	f.open = true
}

// NewPlan adds a plan seen from camera to the frame.
func (f *Frame) NewPlan(camera Camera) *Plan {
	if !f.open {
		f.Begin()
	}
	p := NewPlan(camera, f.opts.Settings)
	f.plans = append(f.plans, p)
	return p
}

// Plans returns the plans of the current frame.
func (f *Frame) Plans() []*Plan {
	return f.plans
}

// End closes the frame: size bookkeeping moves to the last frame,
// temporary maps go back to the pool and unused maps age.
func (f *Frame) End() {
	for _, light := range f.lights.Lights() {
		caster := light.Caster()
		caster.EndFrame()
		caster.DropTemporary()
		if caster.RequiresUpdate() {
			caster.Update(f.opts.Policy)
		}
	}
	if f.pool != nil {
		f.pool.Update(f.opts.PoolIdleFrames)
	}
	f.number++
	f.open = false
}
