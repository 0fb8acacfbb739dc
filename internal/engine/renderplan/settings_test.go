package renderplan

import (
	"errors"
	"testing"

	"github.com/Faultbox/shadowcast/internal/config"
	"github.com/Faultbox/shadowcast/internal/engine/shadow"
)

func TestBaseSizesFor(t *testing.T) {
	tests := []struct {
		quality     Quality
		map2D, cube int
	}{
		{QualityOff, 0, 0},
		{QualityVeryLow, 256, 128},
		{QualityLow, 512, 256},
		{QualityMedium, 1024, 512},
		{QualityHigh, 2048, 1024},
		{QualityVeryHigh, 4096, 2048},
	}

	for _, tt := range tests {
		t.Run(tt.quality.String(), func(t *testing.T) {
			b := BaseSizesFor(tt.quality)
			if b.Map2D != tt.map2D || b.Cube != tt.cube {
				t.Errorf("expected %d/%d, got %d/%d", tt.map2D, tt.cube, b.Map2D, b.Cube)
			}
			if b.Enabled() != (tt.quality != QualityOff) {
				t.Errorf("unexpected Enabled %v", b.Enabled())
			}
		})
	}
}

func TestParseQuality(t *testing.T) {
	q, err := ParseQuality("medium")
	if err != nil || q != QualityMedium {
		t.Errorf("expected medium, got %s (%v)", q, err)
	}
	if _, err := ParseQuality("ultra"); !errors.Is(err, shadow.ErrInvalidParam) {
		t.Errorf("expected ErrInvalidParam, got %v", err)
	}
}

func TestQualityMatchesConfigNames(t *testing.T) {
	if len(config.QualityNames) != int(QualityVeryHigh)+1 {
		t.Fatalf("expected %d config names, got %d", int(QualityVeryHigh)+1, len(config.QualityNames))
	}
	for _, name := range config.QualityNames {
		q, err := ParseQuality(name)
		if err != nil {
			t.Errorf("unexpected error for %q: %v", name, err)
			continue
		}
		if q.String() != name {
			t.Errorf("expected %q, got %q", name, q.String())
		}
	}
}

func TestSettingsFromConfig(t *testing.T) {
	cfg := config.Default().Shadow
	cfg.Quality = "low"
	cfg.CubeSize = 64
	cfg.StaticEvictFrames = 10

	settings, policy, err := SettingsFromConfig(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if settings.Base.Map2D != 512 || settings.Base.Cube != 64 {
		t.Errorf("expected 512/64, got %d/%d", settings.Base.Map2D, settings.Base.Cube)
	}
	if !settings.UseFloat {
		t.Error("expected float depth from inverse_depth")
	}
	if policy.StaticFrames != 10 || policy.DynamicFrames != cfg.DynamicEvictFrames {
		t.Errorf("unexpected policy %+v", policy)
	}
}

func TestSettingsFromConfigOffIgnoresOverrides(t *testing.T) {
	cfg := config.Default().Shadow
	cfg.Quality = "off"
	cfg.MapSize = 1024

	settings, _, err := SettingsFromConfig(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if settings.Base.Enabled() {
		t.Error("expected shadows disabled")
	}
}
