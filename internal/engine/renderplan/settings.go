package renderplan

import (
	"fmt"

	"github.com/Faultbox/shadowcast/internal/config"
	"github.com/Faultbox/shadowcast/internal/engine/shadow"
)

// Quality selects the base shadow map resolutions.
type Quality int

// Shadow qualities from off to very high.
const (
	QualityOff Quality = iota
	QualityVeryLow
	QualityLow
	QualityMedium
	QualityHigh
	QualityVeryHigh
)

// String returns the config name of the quality.
func (q Quality) String() string {
	if q < 0 || int(q) >= len(config.QualityNames) {
		return fmt.Sprintf("Quality(%d)", int(q))
	}
	return config.QualityNames[q]
}

// ParseQuality converts a config name into a Quality.
func ParseQuality(name string) (Quality, error) {
	if i := config.QualityIndex(name); i >= 0 {
		return Quality(i), nil
	}
	return QualityOff, fmt.Errorf("shadow quality %q: %w", name, shadow.ErrInvalidParam)
}

// BaseSizes are the full resolutions before distance reduction.
type BaseSizes struct {
	Map2D int // spot and projector lights
	Cube  int // point lights
}

// Enabled reports whether shadows are rendered at all.
func (b BaseSizes) Enabled() bool {
	return b.Map2D > 0 && b.Cube > 0
}

// BaseSizesFor returns the base resolutions of a quality. QualityOff
// returns zero sizes.
func BaseSizesFor(q Quality) BaseSizes {
	switch q {
	case QualityVeryLow:
		return BaseSizes{Map2D: 256, Cube: 128}
	case QualityLow:
		return BaseSizes{Map2D: 512, Cube: 256}
	case QualityMedium:
		return BaseSizes{Map2D: 1024, Cube: 512}
	case QualityHigh:
		return BaseSizes{Map2D: 2048, Cube: 1024}
	case QualityVeryHigh:
		return BaseSizes{Map2D: 4096, Cube: 2048}
	default:
		return BaseSizes{}
	}
}

// Settings are the engine wide inputs of shadow planning.
type Settings struct {
	Base               BaseSizes
	DynamicRangeFactor float32 // <= 0 uses shadow.DefaultDynamicRangeFactor
	UseFloat           bool    // float depth maps
}

func (s Settings) rangeFactor() float32 {
	if s.DynamicRangeFactor <= 0 {
		return shadow.DefaultDynamicRangeFactor
	}
	return s.DynamicRangeFactor
}

// SettingsFromConfig builds planner settings and the eviction policy from
// the shadow section of the config.
func SettingsFromConfig(cfg config.ShadowConfig) (Settings, shadow.EvictionPolicy, error) {
	q, err := ParseQuality(cfg.Quality)
	if err != nil {
		return Settings{}, shadow.EvictionPolicy{}, err
	}

	base := BaseSizesFor(q)
	if q != QualityOff {
		if cfg.MapSize > 0 {
			base.Map2D = cfg.MapSize
		}
		if cfg.CubeSize > 0 {
			base.Cube = cfg.CubeSize
		}
	}

	settings := Settings{
		Base:               base,
		DynamicRangeFactor: cfg.DynamicRangeFactor,
		UseFloat:           cfg.InverseDepth,
	}
	policy := shadow.EvictionPolicy{
		StaticFrames:  cfg.StaticEvictFrames,
		DynamicFrames: cfg.DynamicEvictFrames,
	}
	return settings, policy, nil
}
