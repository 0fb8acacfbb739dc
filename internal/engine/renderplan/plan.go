package renderplan

import (
	"go.uber.org/zap"

	"github.com/Faultbox/shadowcast/internal/engine/lighting"
	"github.com/Faultbox/shadowcast/internal/engine/shadow"
	"github.com/Faultbox/shadowcast/internal/logger"
)

// Plan is one render pass of a frame, seen from a single camera.
type Plan struct {
	camera   Camera
	settings Settings
	lights   []*lighting.Light
	planned  []*PlanLight
	failed   int
}

// NewPlan creates an empty plan for camera.
func NewPlan(camera Camera, settings Settings) *Plan {
	return &Plan{
		camera:   camera,
		settings: settings,
	}
}

// Camera returns the camera of the plan.
func (p *Plan) Camera() Camera {
	return p.camera
}

// AddLight adds a visible light to the plan.
func (p *Plan) AddLight(light *lighting.Light) {
	p.lights = append(p.lights, light)
}

// Prepare plans the shadow maps of every light. A light whose planning
// fails is logged and left out; the other lights are still planned.
// Returns the number of planned lights.
func (p *Plan) Prepare() int {
	p.planned = p.planned[:0]
	p.failed = 0
	if !p.settings.Base.Enabled() {
		return 0
	}

	for _, light := range p.lights {
		if light.Caster().ShadowType() == shadow.NoShadows {
			continue
		}
		pl := NewPlanLight(light)
		if err := pl.PlanShadowCasting(p.camera, p.settings); err != nil {
			logger.Warn("skipping light in shadow plan",
				zap.String("light", light.Name),
				zap.Error(err))
			p.failed++
			continue
		}
		p.planned = append(p.planned, pl)
	}
	return len(p.planned)
}

// Lights returns the lights planned by the last Prepare.
func (p *Plan) Lights() []*PlanLight {
	return p.planned
}

// Failed returns the number of lights the last Prepare left out.
func (p *Plan) Failed() int {
	return p.failed
}
