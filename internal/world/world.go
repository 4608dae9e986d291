package world

import (
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"mini-voxel/internal/logging"
	"mini-voxel/internal/profiling"

	dfatomic "github.com/df-mc/atomic"
	"github.com/go-gl/mathgl/mgl32"
)

// ErrChunkExists is returned when generating a coordinate that is already loaded.
var ErrChunkExists = errors.New("world: chunk already exists")

// World owns the live chunks, the viewpoint and the terrain generator.
type World struct {
	store     *ChunkStore
	gen       TerrainGenerator
	viewpoint dfatomic.Value[mgl32.Vec3]
	revision  atomic.Uint64
	log       *slog.Logger
}

// New creates an empty world. A nil logger discards output.
func New(gen TerrainGenerator, log *slog.Logger) *World {
	if log == nil {
		log = logging.Discard()
	}
	return &World{
		store: NewChunkStore(),
		gen:   gen,
		log:   log,
	}
}

func (w *World) Generator() TerrainGenerator { return w.gen }

// SetViewpoint moves the point chunks are streamed around. Safe to call from
// any goroutine.
func (w *World) SetViewpoint(p mgl32.Vec3) { w.viewpoint.Store(p) }

func (w *World) Viewpoint() mgl32.Vec3 { return w.viewpoint.Load() }

// ViewChunk is the chunk-grid coordinate containing the viewpoint.
func (w *World) ViewChunk() ChunkCoord { return ChunkCoordAt(w.Viewpoint()) }

// Chunk returns the loaded chunk at coord or nil.
func (w *World) Chunk(coord ChunkCoord) *Chunk { return w.store.Get(coord) }

func (w *World) HasChunk(coord ChunkCoord) bool { return w.store.Has(coord) }

// Chunks returns a snapshot of the loaded chunks in no particular order.
func (w *World) Chunks() []*Chunk { return w.store.Snapshot() }

func (w *World) Len() int { return w.store.Len() }

// NeighborsPresent reports whether all four horizontal neighbours of coord
// are loaded.
func (w *World) NeighborsPresent(coord ChunkCoord) bool {
	for _, n := range coord.Neighbors() {
		if !w.store.Has(n) {
			return false
		}
	}
	return true
}

// Generate creates and fills the chunk at coord, then inserts it. A failed
// generation leaves the coordinate absent so it can be retried.
func (w *World) Generate(coord ChunkCoord) (*Chunk, error) {
	defer profiling.Track("world.Generate")()
	if w.store.Has(coord) {
		return nil, ErrChunkExists
	}
	c := NewChunk(coord)
	if err := w.gen.Generate(c); err != nil {
		c.Release()
		return nil, fmt.Errorf("generate chunk %v: %w", coord, err)
	}
	// A fresh chunk is baked because it has never been baked, not because of edits.
	c.needsRebake.Store(false)
	if !w.store.Add(c) {
		c.Release()
		return nil, ErrChunkExists
	}
	w.log.Debug("chunk generated", "coord", coord, "blocks", c.BlockCount())
	return c, nil
}

// Block returns the block at a world position.
func (w *World) Block(pos BlockPos) (Block, bool) {
	coord, local := splitPos(pos)
	c := w.store.Get(coord)
	if c == nil {
		return Block{}, false
	}
	return c.Block(local)
}

// SetBlock writes id at a world position. The owning chunk is flagged for
// rebake, and so is the neighbour across an X or Z boundary the cell touches.
// It reports false when the owning chunk is not loaded or pos is out of range.
func (w *World) SetBlock(id BlockType, pos BlockPos) bool {
	coord, local := splitPos(pos)
	c := w.store.Get(coord)
	if c == nil || !c.SetBlock(id, local) {
		return false
	}
	if local.X == 0 {
		w.markRebake(coord.Add(-1, 0))
	} else if local.X == ChunkSizeX-1 {
		w.markRebake(coord.Add(1, 0))
	}
	if local.Z == 0 {
		w.markRebake(coord.Add(0, -1))
	} else if local.Z == ChunkSizeZ-1 {
		w.markRebake(coord.Add(0, 1))
	}
	return true
}

func (w *World) markRebake(coord ChunkCoord) {
	if nb := w.store.Get(coord); nb != nil {
		nb.MarkRebake()
	}
}

// Unload removes the chunk at coord and frees its grid and meshes.
func (w *World) Unload(coord ChunkCoord) bool {
	c := w.store.Remove(coord)
	if c == nil {
		return false
	}
	c.Release()
	w.log.Debug("chunk unloaded", "coord", coord)
	return true
}

// SweepUnloaded unloads every chunk flagged for unload and returns their
// coordinates.
func (w *World) SweepUnloaded() []ChunkCoord {
	var out []ChunkCoord
	for _, c := range w.store.Snapshot() {
		if c.NeedsUnload() && w.Unload(c.coord) {
			out = append(out, c.coord)
		}
	}
	return out
}

// NextRevision returns a world-unique, increasing number for a new mesh.
func (w *World) NextRevision() uint64 { return w.revision.Add(1) }
