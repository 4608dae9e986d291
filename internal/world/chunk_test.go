package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkOutOfBoundsReadsEmpty(t *testing.T) {
	c := NewChunk(ChunkCoord{})
	for _, p := range []BlockPos{{-1, 0, 0}, {ChunkSizeX, 0, 0}, {0, -1, 0}, {0, ChunkSizeY, 0}, {0, 0, ChunkSizeZ}} {
		_, ok := c.Block(p)
		assert.False(t, ok, "pos %v", p)
		assert.False(t, c.SetBlock(BlockTypeStone, p), "pos %v", p)
	}
}

func TestChunkSetGet(t *testing.T) {
	c := NewChunk(ChunkCoord{1, 2})
	require.True(t, c.SetBlock(BlockTypeStone, BlockPos{3, 4, 5}))

	b, ok := c.Block(BlockPos{3, 4, 5})
	require.True(t, ok)
	assert.Equal(t, BlockTypeStone, b.ID)
	assert.Equal(t, BlockPos{3, 4, 5}, b.Pos)
	assert.Equal(t, 1, c.BlockCount())

	// Overwrite keeps the count, air clears the cell.
	c.SetBlock(BlockTypeDirt, BlockPos{3, 4, 5})
	assert.Equal(t, 1, c.BlockCount())
	c.SetBlock(BlockTypeAir, BlockPos{3, 4, 5})
	_, ok = c.Block(BlockPos{3, 4, 5})
	assert.False(t, ok)
	assert.Equal(t, 0, c.BlockCount())
}

func TestChunkRebakeFlag(t *testing.T) {
	c := NewChunk(ChunkCoord{})
	assert.False(t, c.NeedsRebake())
	c.SetBlock(BlockTypeStone, BlockPos{})
	assert.True(t, c.NeedsRebake())
	assert.True(t, c.TakeRebake())
	assert.False(t, c.NeedsRebake())
	assert.False(t, c.TakeRebake())
}

func TestChunkMarkUnloadOnce(t *testing.T) {
	c := NewChunk(ChunkCoord{})
	assert.True(t, c.MarkUnload())
	assert.False(t, c.MarkUnload())
	assert.True(t, c.NeedsUnload())
}

func TestMeshPublication(t *testing.T) {
	c := NewChunk(ChunkCoord{})
	assert.False(t, c.Baked())
	assert.Nil(t, c.Mesh())

	first := &BakedMesh{Revision: 1}
	c.Publish(first)
	assert.True(t, c.Baked())
	assert.False(t, c.HasPending(), "first bake goes straight to current")
	assert.Same(t, first, c.Mesh())

	second := &BakedMesh{Revision: 2}
	third := &BakedMesh{Revision: 3}
	c.Publish(second)
	c.Publish(third)
	assert.True(t, c.HasPending())

	// Last writer wins; the superseded pending mesh is never observed.
	assert.Same(t, third, c.Mesh())
	assert.False(t, c.HasPending())
	assert.Same(t, third, c.Mesh())
}

func TestChunkRelease(t *testing.T) {
	c := NewChunk(ChunkCoord{})
	c.SetBlock(BlockTypeStone, BlockPos{})
	c.Publish(&BakedMesh{})
	c.Release()

	assert.True(t, c.Released())
	_, ok := c.Block(BlockPos{})
	assert.False(t, ok)
	assert.False(t, c.SetBlock(BlockTypeStone, BlockPos{}))
	assert.Nil(t, c.CopyBlocks())
	assert.Nil(t, c.Mesh())
}

func TestMeshPartUpload(t *testing.T) {
	p := &MeshPart{Material: BlockTypeWater}
	assert.True(t, p.Liquid())
	assert.True(t, p.NeedsUpload())
	p.MarkUploaded()
	assert.False(t, p.NeedsUpload())
}

func TestIsolatedSource(t *testing.T) {
	c := NewChunk(ChunkCoord{-1, 2})
	src := Isolated(c)
	require.True(t, src.SetBlock(BlockTypeSand, BlockPos{-16, 10, 32}))

	b, ok := c.Block(BlockPos{0, 10, 0})
	require.True(t, ok)
	assert.Equal(t, BlockTypeSand, b.ID)

	_, ok = src.Block(BlockPos{0, 10, 32})
	assert.False(t, ok, "cells of other chunks read as empty")
}
