package physics_test

import (
	"testing"

	"mini-voxel/internal/physics"
	"mini-voxel/internal/world"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newChunkSource(t *testing.T) world.BlocksSource {
	t.Helper()
	return world.Isolated(world.NewChunk(world.ChunkCoord{}))
}

func TestRaycast(t *testing.T) {
	src := newChunkSource(t)
	require.True(t, src.SetBlock(world.BlockTypeStone, world.BlockPos{X: 5, Y: 0, Z: 0}))

	start := mgl32.Vec3{0.5, 0.5, 0.5}
	result := physics.Raycast(start, mgl32.Vec3{1, 0, 0}, 0.1, 10, src, nil)
	require.True(t, result.Hit)
	assert.Equal(t, world.BlockPos{X: 5}, result.HitPosition)
	assert.Equal(t, world.BlockPos{X: 4}, result.AdjacentPosition)
	// The ray enters x=5 after travelling 4.5.
	assert.InDelta(t, 4.5, result.Distance, 0.03)

	short := physics.Raycast(start, mgl32.Vec3{1, 0, 0}, 0.1, 4, src, nil)
	assert.False(t, short.Hit)

	up := physics.Raycast(start, mgl32.Vec3{0, 1, 0}, 0.1, 10, src, nil)
	assert.False(t, up.Hit)
}

func TestRaycastDiagonal(t *testing.T) {
	src := newChunkSource(t)
	src.SetBlock(world.BlockTypeStone, world.BlockPos{X: 2, Y: 2, Z: 2})

	result := physics.Raycast(mgl32.Vec3{0.5, 0.5, 0.5}, mgl32.Vec3{1, 1, 1}, 0.1, 10, src, nil)
	require.True(t, result.Hit)
	assert.Equal(t, world.BlockPos{X: 2, Y: 2, Z: 2}, result.HitPosition)
}

func TestRaycastSkipsNonStoppingBlocks(t *testing.T) {
	src := newChunkSource(t)
	src.SetBlock(world.BlockTypeWater, world.BlockPos{X: 3, Y: 0, Z: 0})
	src.SetBlock(world.BlockTypeSand, world.BlockPos{X: 6, Y: 0, Z: 0})

	notWater := func(id world.BlockType) bool { return id != world.BlockTypeWater }
	result := physics.Raycast(mgl32.Vec3{0.5, 0.5, 0.5}, mgl32.Vec3{1, 0, 0}, 0.1, 10, src, notWater)
	require.True(t, result.Hit)
	assert.Equal(t, world.BlockPos{X: 6}, result.HitPosition)
}

func TestBoxIntersectsBlock(t *testing.T) {
	min := mgl32.Vec3{0.7, 1, 0.7}
	max := mgl32.Vec3{1.3, 2.8, 1.3}
	assert.True(t, physics.BoxIntersectsBlock(min, max, world.BlockPos{X: 1, Y: 1, Z: 1}))
	assert.True(t, physics.BoxIntersectsBlock(min, max, world.BlockPos{X: 0, Y: 2, Z: 0}))
	assert.False(t, physics.BoxIntersectsBlock(min, max, world.BlockPos{X: 1, Y: 0, Z: 1}), "touching the floor is not overlap")
	assert.False(t, physics.BoxIntersectsBlock(min, max, world.BlockPos{X: 3, Y: 1, Z: 1}))
}
