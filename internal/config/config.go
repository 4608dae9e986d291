package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"mini-voxel/internal/meshing"
	"mini-voxel/internal/world"

	"gopkg.in/yaml.v3"
)

// EnvPath names the environment variable Load falls back to.
const EnvPath = "VOXEL_CONFIG"

var ErrInvalidConfig = errors.New("invalid config")

// Config is the root of the YAML configuration file.
type Config struct {
	World     WorldGenConfig  `yaml:"world"`
	Streaming StreamingConfig `yaml:"streaming"`
	Lighting  LightingConfig  `yaml:"lighting"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Log       LogConfig       `yaml:"log"`
	Consumer  ConsumerConfig  `yaml:"consumer"`
}

type StreamingConfig struct {
	RenderDistance int           `yaml:"render_distance"`
	Generation     bool          `yaml:"generation"`
	Baking         bool          `yaml:"baking"`
	BakeWorkers    int           `yaml:"bake_workers"`
	IdleBackoff    time.Duration `yaml:"idle_backoff"`
}

type LightingConfig struct {
	OcclusionFactor float32 `yaml:"occlusion_factor"`
	MinLight        float32 `yaml:"min_light"`
	SideFactor      float32 `yaml:"side_factor"`
	Radius          int     `yaml:"radius"`
	FalloffBase     float32 `yaml:"falloff_base"`
	MaxSources      int     `yaml:"max_sources"`
}

// Settings converts the section for the baker.
func (l LightingConfig) Settings() meshing.LightSettings {
	return meshing.LightSettings{
		OcclusionFactor: l.OcclusionFactor,
		MinLight:        l.MinLight,
		SideFactor:      l.SideFactor,
		Radius:          l.Radius,
		FalloffBase:     l.FalloffBase,
		MaxSources:      l.MaxSources,
	}
}

type MetricsConfig struct {
	// Listen is the address of the /metrics endpoint; empty disables it.
	Listen string `yaml:"listen"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type ConsumerConfig struct {
	FPS int `yaml:"fps"`
}

// Default returns the built-in configuration.
func Default() Config {
	light := meshing.DefaultLightSettings()
	return Config{
		World: WorldGenConfig{
			Seed:       42,
			SeaLevel:   world.DefaultSeaLevel,
			Generator:  GeneratorDefault,
			FlatHeight: 8,
		},
		Streaming: StreamingConfig{
			RenderDistance: 8,
			Generation:     true,
			Baking:         true,
			BakeWorkers:    1,
			IdleBackoff:    5 * time.Millisecond,
		},
		Lighting: LightingConfig{
			OcclusionFactor: light.OcclusionFactor,
			MinLight:        light.MinLight,
			SideFactor:      light.SideFactor,
			Radius:          light.Radius,
			FalloffBase:     light.FalloffBase,
			MaxSources:      light.MaxSources,
		},
		Log:      LogConfig{Level: "info"},
		Consumer: ConsumerConfig{FPS: 60},
	}
}

// Load reads a YAML file over the defaults. An empty path falls back to
// $VOXEL_CONFIG; with neither set the defaults are returned.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = os.Getenv(EnvPath)
		if path == "" {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects values no component can work with.
func (c Config) Validate() error {
	s := c.Streaming
	if s.RenderDistance < MinRenderDistance || s.RenderDistance > MaxRenderDistance {
		return invalid("streaming.render_distance", s.RenderDistance)
	}
	if s.BakeWorkers < 1 {
		return invalid("streaming.bake_workers", s.BakeWorkers)
	}
	if s.IdleBackoff < 0 {
		return invalid("streaming.idle_backoff", s.IdleBackoff)
	}
	if err := c.World.validate(); err != nil {
		return err
	}
	l := c.Lighting
	if l.OcclusionFactor <= 0 || l.OcclusionFactor >= 1 {
		return invalid("lighting.occlusion_factor", l.OcclusionFactor)
	}
	if l.MinLight < 0 || l.MinLight > 1 {
		return invalid("lighting.min_light", l.MinLight)
	}
	if l.SideFactor <= 0 || l.SideFactor > 1 {
		return invalid("lighting.side_factor", l.SideFactor)
	}
	if l.Radius < 1 {
		return invalid("lighting.radius", l.Radius)
	}
	if l.MaxSources < 0 {
		return invalid("lighting.max_sources", l.MaxSources)
	}
	if c.Consumer.FPS < 0 {
		return invalid("consumer.fps", c.Consumer.FPS)
	}
	return nil
}

func invalid(field string, v any) error {
	return fmt.Errorf("%w: %s = %v", ErrInvalidConfig, field, v)
}
