// Package config handles shadow planner configuration loading and management.
package config

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is returned by Validate for unusable settings.
var ErrInvalidConfig = errors.New("invalid config")

// QualityNames lists the shadow qualities accepted in the config file, from
// off to very high.
var QualityNames = []string{"off", "very_low", "low", "medium", "high", "very_high"}

// Config holds all settings.
type Config struct {
	Shadow     ShadowConfig     `yaml:"shadow"`
	Viewer     ViewerConfig     `yaml:"viewer"`
	Simulation SimulationConfig `yaml:"simulation"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// ShadowConfig holds shadow map sizing and cache settings.
type ShadowConfig struct {
	Quality            string  `yaml:"quality"`              // off, very_low, low, medium, high, very_high
	MapSize            int     `yaml:"map_size"`             // 2D base size override, 0 = from quality
	CubeSize           int     `yaml:"cube_size"`            // cube base size override, 0 = from quality
	StaticEvictFrames  int     `yaml:"static_evict_frames"`  // 0 = never evict
	DynamicEvictFrames int     `yaml:"dynamic_evict_frames"` // 0 = never evict
	PoolIdleFrames     int     `yaml:"pool_idle_frames"`     // 0 = keep idle pool textures
	DynamicRangeFactor float32 `yaml:"dynamic_range_factor"`
	InverseDepth       bool    `yaml:"inverse_depth"` // float depth maps
}

// ViewerConfig holds display settings of the GL viewer.
type ViewerConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
}

// SimulationConfig holds scenario settings.
type SimulationConfig struct {
	Frames      int     `yaml:"frames"`
	Lights      int     `yaml:"lights"`
	Cameras     int     `yaml:"cameras"`
	Seed        int64   `yaml:"seed"`
	CameraSpeed float32 `yaml:"camera_speed"` // world units per frame
	WorldSize   float32 `yaml:"world_size"`
	TraceFile   string  `yaml:"trace_file"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Shadow: ShadowConfig{
			Quality:            "high",
			StaticEvictFrames:  600,
			DynamicEvictFrames: 30,
			PoolIdleFrames:     60,
			DynamicRangeFactor: 0.5,
			InverseDepth:       true,
		},
		Viewer: ViewerConfig{
			Width:  1280,
			Height: 720,
			VSync:  true,
		},
		Simulation: SimulationConfig{
			Frames:      600,
			Lights:      16,
			Cameras:     2,
			Seed:        1,
			CameraSpeed: 0.5,
			WorldSize:   200,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate checks settings the planner cannot work with.
func (c *Config) Validate() error {
	if QualityIndex(c.Shadow.Quality) < 0 {
		return fmt.Errorf("%w: unknown shadow quality %q", ErrInvalidConfig, c.Shadow.Quality)
	}
	if err := validSize("map_size", c.Shadow.MapSize); err != nil {
		return err
	}
	if err := validSize("cube_size", c.Shadow.CubeSize); err != nil {
		return err
	}
	if c.Shadow.DynamicRangeFactor <= 0 {
		return fmt.Errorf("%w: dynamic_range_factor must be positive, got %v", ErrInvalidConfig, c.Shadow.DynamicRangeFactor)
	}
	if c.Simulation.Lights < 0 || c.Simulation.Cameras < 0 || c.Simulation.Frames < 0 {
		return fmt.Errorf("%w: negative simulation counts", ErrInvalidConfig)
	}
	return nil
}

// QualityIndex returns the position of name in QualityNames, or -1.
func QualityIndex(name string) int {
	for i, n := range QualityNames {
		if n == name {
			return i
		}
	}
	return -1
}

// validSize accepts 0 (unset) or a power of two in [16, 4096].
func validSize(name string, size int) error {
	if size == 0 {
		return nil
	}
	if size < 16 || size > 4096 || size&(size-1) != 0 {
		return fmt.Errorf("%w: %s must be a power of two in [16, 4096], got %d", ErrInvalidConfig, name, size)
	}
	return nil
}
