package physics

import (
	"math"

	"mini-voxel/internal/profiling"
	"mini-voxel/internal/world"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	MinReachDistance = 0.1
	MaxReachDistance = 5.0

	rayStep = float32(0.02)
)

// RaycastResult stores the result of a raycast operation
type RaycastResult struct {
	HitPosition world.BlockPos
	// AdjacentPosition is the last empty cell before the hit, where a
	// placed block would go.
	AdjacentPosition world.BlockPos
	Distance         float32
	Hit              bool
}

// Raycast marches from start along direction and reports the first block of
// src that stops the ray. Blocks cover [x, x+1) on each axis. A nil stops
// treats every block as a hit.
func Raycast(start, direction mgl32.Vec3, minDist, maxDist float32, src world.BlocksSource, stops func(world.BlockType) bool) RaycastResult {
	defer profiling.Track("physics.Raycast")()
	steps := int(maxDist / rayStep)
	dir := direction.Normalize()

	var result RaycastResult
	last := blockAt(start)
	for i := 0; i <= steps; i++ {
		dist := float32(i) * rayStep
		if dist < minDist {
			continue
		}
		pos := blockAt(start.Add(dir.Mul(dist)))
		if b, ok := src.Block(pos); ok && (stops == nil || stops(b.ID)) {
			result.HitPosition = pos
			result.AdjacentPosition = last
			result.Distance = dist
			result.Hit = true
			return result
		}
		last = pos
	}
	return result
}

func blockAt(p mgl32.Vec3) world.BlockPos {
	return world.BlockPos{
		X: int(math.Floor(float64(p.X()))),
		Y: int(math.Floor(float64(p.Y()))),
		Z: int(math.Floor(float64(p.Z()))),
	}
}

// BoxIntersectsBlock reports whether the box [min, max] overlaps the cell at p.
func BoxIntersectsBlock(min, max mgl32.Vec3, p world.BlockPos) bool {
	bmin := p.Vec3()
	bmax := bmin.Add(mgl32.Vec3{1, 1, 1})
	return min.X() < bmax.X() && max.X() > bmin.X() &&
		min.Y() < bmax.Y() && max.Y() > bmin.Y() &&
		min.Z() < bmax.Z() && max.Z() > bmin.Z()
}
