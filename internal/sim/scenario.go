// Package sim drives lights and moving cameras through the shadow planner
// frame by frame and collects statistics.
package sim

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/shadowcast/internal/config"
	"github.com/Faultbox/shadowcast/internal/engine/lighting"
	"github.com/Faultbox/shadowcast/internal/engine/renderable"
	"github.com/Faultbox/shadowcast/internal/engine/renderplan"
	"github.com/Faultbox/shadowcast/internal/engine/shadow"
	"github.com/Faultbox/shadowcast/internal/logger"
	"github.com/Faultbox/shadowcast/internal/trace"
)

// Options configure a scenario.
type Options struct {
	Frames       int
	Lights       int
	Cameras      int
	Seed         int64
	CameraSpeed  float32
	WorldSize    float32
	ViewDistance float32 // lights further away are not planned, 0 = all
	Acquire      renderplan.AcquireOptions
}

// OptionsFromConfig builds scenario options from the simulation section.
func OptionsFromConfig(cfg *config.Config) Options {
	s := cfg.Simulation
	return Options{
		Frames:       s.Frames,
		Lights:       s.Lights,
		Cameras:      s.Cameras,
		Seed:         s.Seed,
		CameraSpeed:  s.CameraSpeed,
		WorldSize:    s.WorldSize,
		ViewDistance: s.WorldSize / 2,
		Acquire: renderplan.AcquireOptions{
			UseFloat:    cfg.Shadow.InverseDepth,
			Transparent: true,
			Ambient:     true,
		},
	}
}

// RenderFunc renders the maps of a planned light. It is called for lights
// whose static or dynamic maps need rendering.
type RenderFunc func(pl *renderplan.PlanLight, maps renderplan.ShadowMaps) error

// TextureCounter is implemented by providers counting live textures.
type TextureCounter interface {
	Live() int
}

// Scenario is a scene of lights seen by wandering cameras.
type Scenario struct {
	opts     Options
	provider shadow.Provider
	pool     *renderable.Pool
	lights   *lighting.Set
	cameras  []*Wanderer
	extra    []renderplan.Camera
	frame    *renderplan.Frame
	render   RenderFunc
}

// New builds the lights and cameras of a scenario.
func New(opts Options, frameOpts renderplan.FrameOptions, provider shadow.Provider) (*Scenario, error) {
	if opts.Lights < 0 || opts.Cameras < 0 {
		return nil, fmt.Errorf("scenario with %d lights and %d cameras: %w", opts.Lights, opts.Cameras, shadow.ErrInvalidParam)
	}

	pool := renderable.New(provider)
	res := shadow.Resources{Textures: provider, Pool: pool}
	rng := rand.New(rand.NewSource(opts.Seed))

	s := &Scenario{
		opts:     opts,
		provider: provider,
		pool:     pool,
		lights:   lighting.NewSet(),
	}

	for i := 0; i < opts.Lights; i++ {
		light, err := newRandomLight(rng, i, opts.WorldSize, res)
		if err != nil {
			return nil, err
		}
		if !s.lights.Add(light) {
			logger.Warn("light limit reached", zap.Int("max", lighting.MaxLights))
			break
		}
	}
	for i := 0; i < opts.Cameras; i++ {
		s.cameras = append(s.cameras, NewWanderer(opts.Seed+int64(i)+1, opts.WorldSize/2, opts.CameraSpeed, 2))
	}

	s.frame = renderplan.NewFrame(frameOpts, s.lights, pool)
	return s, nil
}

var shadowTypes = []shadow.ShadowType{shadow.StaticOnly, shadow.DynamicOnly, shadow.StaticAndDynamic}

func newRandomLight(rng *rand.Rand, index int, worldSize float32, res shadow.Resources) (*lighting.Light, error) {
	typ := lighting.LightType(index % 3)
	half := worldSize / 2
	pos := mgl32.Vec3{
		(rng.Float32()*2 - 1) * half,
		3 + rng.Float32()*10,
		(rng.Float32()*2 - 1) * half,
	}
	lightRange := 5 + rng.Float32()*25

	l := lighting.NewLight(fmt.Sprintf("%s-%03d", typ, index), typ, pos, lightRange, res)
	l.Direction = lighting.Direction(rng.Float32()*360, -30-rng.Float32()*60)
	l.Caster().SetShadowType(shadowTypes[rng.Intn(len(shadowTypes))])
	if err := l.Caster().SetStaticParams(0.1, lightRange); err != nil {
		return nil, err
	}
	if err := l.Caster().SetDynamicParams(0.1, lightRange); err != nil {
		return nil, err
	}
	return l, nil
}

// SetRenderFunc sets the function rendering shadow maps.
func (s *Scenario) SetRenderFunc(fn RenderFunc) {
	s.render = fn
}

// AddCamera adds a camera moved by the caller. Lights are planned for it
// like for the wandering cameras.
func (s *Scenario) AddCamera(cam renderplan.Camera) {
	s.extra = append(s.extra, cam)
}

// Lights returns the lights of the scenario.
func (s *Scenario) Lights() *lighting.Set {
	return s.lights
}

// Pool returns the renderable pool of the scenario.
func (s *Scenario) Pool() *renderable.Pool {
	return s.pool
}

// Step simulates one frame.
func (s *Scenario) Step() (trace.Record, error) {
	rec := trace.Record{Frame: s.frame.Number()}
	samples := make(map[*lighting.Light]*trace.LightSample)

	s.frame.Begin()
	for _, cam := range s.cameras {
		cam.Advance()
		s.plan(cam, &rec)
	}
	for _, cam := range s.extra {
		s.plan(cam, &rec)
	}

	for _, plan := range s.frame.Plans() {
		for _, pl := range plan.Lights() {
			if err := s.renderLight(pl, &rec); err != nil {
				return rec, err
			}
			sample(samples, pl)
		}
	}
	s.frame.End()

	for _, l := range s.lights.Lights() {
		if smp, ok := samples[l]; ok {
			rec.Lights = append(rec.Lights, *smp)
		}
	}
	stats := s.pool.Stats()
	rec.PoolTextures = stats.Textures
	rec.PoolInUse = stats.InUse
	rec.Bytes = s.lights.MemoryUsage() + stats.Bytes
	if counter, ok := s.provider.(TextureCounter); ok {
		rec.LiveTextures = counter.Live()
	}
	return rec, nil
}

func (s *Scenario) plan(cam renderplan.Camera, rec *trace.Record) {
	plan := s.frame.NewPlan(cam)
	for _, l := range s.lights.Lights() {
		if s.opts.ViewDistance > 0 && cam.Position().Sub(l.Position).Len() > s.opts.ViewDistance {
			continue
		}
		plan.AddLight(l)
	}
	rec.Planned += plan.Prepare()
	rec.Failed += plan.Failed()
}

func (s *Scenario) renderLight(pl *renderplan.PlanLight, rec *trace.Record) error {
	maps, err := pl.AcquireShadowMaps(s.opts.Acquire)
	if err != nil {
		return fmt.Errorf("acquiring maps of %s: %w", pl.Light().Name, err)
	}
	if !maps.RenderStatic && !maps.RenderDynamic {
		return nil
	}

	size := pl.ShadowSizeDynamic
	if maps.RenderStatic {
		size = pl.ShadowSizeStatic
	}
	if err := pl.Light().UpdateLayers(size); err != nil {
		return err
	}
	if s.render != nil {
		if err := s.render(pl, maps); err != nil {
			return err
		}
	}

	if maps.RenderStatic {
		rec.StaticRenders++
	}
	if maps.RenderDynamic {
		rec.DynamicRenders++
		pl.MarkDynamicRendered()
	}
	return nil
}

func sample(samples map[*lighting.Light]*trace.LightSample, pl *renderplan.PlanLight) {
	smp, ok := samples[pl.Light()]
	if !ok {
		smp = &trace.LightSample{Name: pl.Light().Name, Distance: pl.Distance}
		samples[pl.Light()] = smp
	}
	typ := pl.Light().Caster().ShadowType()
	if typ.UsesStatic() {
		smp.Static = max(smp.Static, pl.ShadowSizeStatic)
	}
	if typ.UsesDynamic() {
		smp.Dynamic = max(smp.Dynamic, pl.ShadowSizeDynamic)
	}
	smp.Distance = min(smp.Distance, pl.Distance)
}

// Run simulates opts.Frames frames, or until ctx is done when Frames is 0.
// Records are written to w when it is not nil.
func (s *Scenario) Run(ctx context.Context, w *trace.Writer) (trace.Summary, error) {
	var summary trace.Summary
	for i := 0; s.opts.Frames == 0 || i < s.opts.Frames; i++ {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		rec, err := s.Step()
		if err != nil {
			return summary, err
		}
		summary.Add(rec)
		if w != nil {
			if err := w.Write(rec); err != nil {
				return summary, err
			}
		}
		if i > 0 && i%100 == 0 {
			logger.Debug("simulated frames",
				zap.Int("frame", rec.Frame),
				zap.Int64("bytes", rec.Bytes),
				zap.Int("planned", rec.Planned))
		}
	}
	return summary, nil
}

// Close releases every texture of the scenario.
func (s *Scenario) Close() {
	s.lights.Clear()
	s.pool.Close()
}
