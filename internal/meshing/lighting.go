package meshing

import (
	"mini-voxel/internal/world"

	"github.com/go-gl/mathgl/mgl32"
)

// LightSettings are the tuning constants of the baking light heuristic.
type LightSettings struct {
	// OcclusionFactor multiplies brightness once per solid block above.
	OcclusionFactor float32
	// MinLight is the floor occlusion cannot go below.
	MinLight float32
	// SideFactor multiplies brightness of faces that are not top or bottom.
	SideFactor float32
	// Radius is the half-width in blocks of the cube searched for emitters.
	Radius int
	// FalloffBase is the contribution of an emitter at distance zero.
	FalloffBase float32
	// MaxSources caps the emitters indexed per bake; extra ones are ignored.
	MaxSources int
}

func DefaultLightSettings() LightSettings {
	return LightSettings{
		OcclusionFactor: 0.75,
		MinLight:        0.05,
		SideFactor:      0.5,
		Radius:          4,
		FalloffBase:     1.0,
		MaxSources:      256,
	}
}

// occlusion is the brightness of a block with cover solid blocks above it.
func (s LightSettings) occlusion(cover int) float32 {
	l := float32(1)
	for i := 0; i < cover; i++ {
		l *= s.OcclusionFactor
		if l <= s.MinLight {
			return s.MinLight
		}
	}
	return l
}

// falloff is the contribution of one emitter at distance d.
func (s LightSettings) falloff(d float32) float32 {
	return max(0, s.FalloffBase-d/float32(s.Radius))
}

// lightIndex lists the emitters that can reach a chunk, in world coordinates.
type lightIndex struct {
	settings LightSettings
	sources  []world.BlockPos
}

// inReach reports whether emitter e lies in the search cube around block.
func (li *lightIndex) inReach(e, block world.BlockPos) bool {
	r := li.settings.Radius
	return abs(e.X-block.X) <= r && abs(e.Y-block.Y) <= r && abs(e.Z-block.Z) <= r
}

// proximity sums emitter contributions for a vertex of block. Both are in
// world coordinates.
func (li *lightIndex) proximity(block world.BlockPos, vertex mgl32.Vec3) float32 {
	var sum float32
	for _, e := range li.sources {
		if !li.inReach(e, block) {
			continue
		}
		center := e.Vec3().Add(mgl32.Vec3{0.5, 0.5, 0.5})
		sum += li.settings.falloff(center.Sub(vertex).Len())
	}
	return sum
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// vertexLight combines occlusion, face orientation and nearby emitters.
func (li *lightIndex) vertexLight(cover int, side bool, block world.BlockPos, vertex mgl32.Vec3) float32 {
	l := li.settings.occlusion(cover)
	if side {
		l *= li.settings.SideFactor
	}
	if len(li.sources) > 0 {
		l += li.proximity(block, vertex)
	}
	return min(l, 1)
}
