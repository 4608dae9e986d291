package config

import "mini-voxel/internal/world"

const (
	GeneratorDefault = "default"
	GeneratorFlat    = "flat"
)

// WorldGenConfig selects and parameterizes the terrain generator.
type WorldGenConfig struct {
	Seed       int64  `yaml:"seed"`
	SeaLevel   int    `yaml:"sea_level"`
	Generator  string `yaml:"generator"`
	FlatHeight int    `yaml:"flat_height"`
}

func (w WorldGenConfig) validate() error {
	if w.SeaLevel <= 0 || w.SeaLevel >= world.ChunkSizeY {
		return invalid("world.sea_level", w.SeaLevel)
	}
	switch w.Generator {
	case GeneratorDefault:
	case GeneratorFlat:
		if w.FlatHeight < 1 || w.FlatHeight >= world.ChunkSizeY {
			return invalid("world.flat_height", w.FlatHeight)
		}
	default:
		return invalid("world.generator", w.Generator)
	}
	return nil
}

// NewGenerator builds the configured terrain generator.
func (w WorldGenConfig) NewGenerator() (world.TerrainGenerator, error) {
	if err := w.validate(); err != nil {
		return nil, err
	}
	if w.Generator == GeneratorFlat {
		return world.NewFlatGenerator(w.FlatHeight), nil
	}
	return world.NewGenerator(w.Seed, w.SeaLevel), nil
}
