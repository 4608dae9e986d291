package world

import "github.com/aquilax/go-perlin"

const (
	perlinAlpha = 2.0
	perlinBeta  = 2.0
)

// noiseField is a seeded 2D perlin field sampled at a fixed frequency.
type noiseField struct {
	p     *perlin.Perlin
	scale float64
}

func newNoiseField(seed int64, octaves int32, scale float64) noiseField {
	return noiseField{
		p:     perlin.NewPerlin(perlinAlpha, perlinBeta, octaves, seed),
		scale: scale,
	}
}

// signed samples the field at world column (x, z), roughly in [-1, 1].
func (n noiseField) signed(x, z int) float64 {
	return n.p.Noise2D(float64(x)*n.scale, float64(z)*n.scale)
}

// unit samples the field remapped and clamped to [0, 1].
func (n noiseField) unit(x, z int) float64 {
	v := (n.signed(x, z) + 1) / 2
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
