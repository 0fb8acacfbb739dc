// Package lighting provides the lights whose shadows are planned and cached.
package lighting

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/shadowcast/internal/engine/shadow"
)

// LightType selects the shadow map shape of a light.
type LightType int

// Light types. Point lights render into cube maps, spot and projector
// lights into 2D maps.
const (
	LightPoint LightType = iota
	LightSpot
	LightProjector
)

// String returns the light type name.
func (t LightType) String() string {
	switch t {
	case LightPoint:
		return "point"
	case LightSpot:
		return "spot"
	case LightProjector:
		return "projector"
	default:
		return fmt.Sprintf("LightType(%d)", int(t))
	}
}

// ParseLightType converts a name printed by String back into a LightType.
func ParseLightType(name string) (LightType, error) {
	switch name {
	case "point":
		return LightPoint, nil
	case "spot":
		return LightSpot, nil
	case "projector":
		return LightProjector, nil
	}
	return 0, fmt.Errorf("light type %q: %w", name, shadow.ErrInvalidParam)
}

// Light is a shadow casting light source.
type Light struct {
	Name      string
	Type      LightType
	Position  mgl32.Vec3
	Direction mgl32.Vec3 // spot and projector only
	Range     float32    // world units
	SpotAngle float32    // full cone angle in radians
	Color     [3]float32 // RGB (0-1 range)

	caster *shadow.Caster
}

// NewLight creates a light with its own shadow caster.
func NewLight(name string, typ LightType, position mgl32.Vec3, lightRange float32, res shadow.Resources) *Light {
	return &Light{
		Name:      name,
		Type:      typ,
		Position:  position,
		Direction: mgl32.Vec3{0, -1, 0},
		Range:     lightRange,
		SpotAngle: mgl32.DegToRad(60),
		Color:     [3]float32{1, 1, 1},
		caster:    shadow.NewCaster(res),
	}
}

// Caster returns the shadow caster owned by the light.
func (l *Light) Caster() *shadow.Caster {
	return l.caster
}

// UpdateLayers rebuilds the caster's shadow layers for the light type.
// size is the resolution the layers are rendered at.
func (l *Light) UpdateLayers(size int) error {
	near := l.caster.StaticNear()
	switch l.Type {
	case LightPoint:
		return l.caster.SetCubeFaceLayers(l.Position, near, l.Range, size)
	case LightSpot, LightProjector:
		return l.caster.SetSpotLayer(l.Position, l.Direction, l.SpotAngle, near, l.Range, size)
	default:
		return fmt.Errorf("layers for %s: %w", l.Type, shadow.ErrInvalidParam)
	}
}

// Release drops every shadow map held by the light.
func (l *Light) Release() {
	l.caster.Clear()
}
