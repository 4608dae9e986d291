package world

import (
	"sync"
	"sync/atomic"
)

// GridVolume is the number of cells in one chunk grid.
const GridVolume = ChunkSizeX * ChunkSizeY * ChunkSizeZ

// Chunk is a fixed-size grid of blocks plus its lifecycle flags and baked
// mesh slots. Grid access is safe from several goroutines.
type Chunk struct {
	coord ChunkCoord

	mu     sync.RWMutex
	blocks []BlockType // nil once released
	count  int

	needsUnload atomic.Bool
	needsRebake atomic.Bool

	meshes meshSlots
}

// NewChunk creates an empty chunk at the given chunk-grid coordinate.
func NewChunk(coord ChunkCoord) *Chunk {
	return &Chunk{
		coord:  coord,
		blocks: make([]BlockType, GridVolume),
	}
}

func (c *Chunk) Coord() ChunkCoord { return c.coord }

// InBounds reports whether a chunk-local position lies inside the grid.
func InBounds(p BlockPos) bool {
	return p.X >= 0 && p.X < ChunkSizeX &&
		p.Y >= 0 && p.Y < ChunkSizeY &&
		p.Z >= 0 && p.Z < ChunkSizeZ
}

// GridIndex maps an in-bounds chunk-local position to its slot in a grid
// slice such as the one returned by CopyBlocks.
func GridIndex(p BlockPos) int {
	return (p.Y*ChunkSizeZ+p.Z)*ChunkSizeX + p.X
}

// Block returns the block at a chunk-local position. Out-of-range and empty
// cells report false.
func (c *Chunk) Block(pos BlockPos) (Block, bool) {
	if !InBounds(pos) {
		return Block{}, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.blocks == nil {
		return Block{}, false
	}
	id := c.blocks[GridIndex(pos)]
	if id == BlockTypeAir {
		return Block{}, false
	}
	return Block{Pos: pos, ID: id}, true
}

// SetBlock writes id at a chunk-local position and flags the chunk for
// rebake. Air clears the cell. It reports false when pos is out of range or
// the chunk has been released.
func (c *Chunk) SetBlock(id BlockType, pos BlockPos) bool {
	if !InBounds(pos) {
		return false
	}
	c.mu.Lock()
	if c.blocks == nil {
		c.mu.Unlock()
		return false
	}
	i := GridIndex(pos)
	prev := c.blocks[i]
	c.blocks[i] = id
	switch {
	case prev == BlockTypeAir && id != BlockTypeAir:
		c.count++
	case prev != BlockTypeAir && id == BlockTypeAir:
		c.count--
	}
	c.mu.Unlock()
	c.needsRebake.Store(true)
	return true
}

// BlockCount returns the number of non-empty cells.
func (c *Chunk) BlockCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.count
}

// CopyBlocks returns a snapshot of the grid indexed by GridIndex, or nil if
// the chunk was released.
func (c *Chunk) CopyBlocks() []BlockType {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.blocks == nil {
		return nil
	}
	out := make([]BlockType, len(c.blocks))
	copy(out, c.blocks)
	return out
}

// Release frees the grid and both mesh slots. The chunk answers every
// query as empty afterwards.
func (c *Chunk) Release() {
	c.mu.Lock()
	c.blocks = nil
	c.count = 0
	c.mu.Unlock()
	c.meshes.clear()
}

func (c *Chunk) Released() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.blocks == nil
}

func (c *Chunk) NeedsUnload() bool { return c.needsUnload.Load() }

// MarkUnload flags the chunk for removal by the consumer. It reports
// whether this call set the flag.
func (c *Chunk) MarkUnload() bool { return c.needsUnload.CompareAndSwap(false, true) }

func (c *Chunk) NeedsRebake() bool { return c.needsRebake.Load() }

func (c *Chunk) MarkRebake() { c.needsRebake.Store(true) }

// TakeRebake clears the rebake flag and reports whether it was set. Edits
// landing after this call set it again, so none are lost to an in-flight bake.
func (c *Chunk) TakeRebake() bool { return c.needsRebake.Swap(false) }
