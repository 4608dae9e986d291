package player

import (
	"mini-voxel/internal/physics"
	"mini-voxel/internal/profiling"
	"mini-voxel/internal/world"

	"github.com/go-gl/mathgl/mgl32"
)

// Body is the axis-aligned box an editor occupies. Placement never fills a
// cell that overlaps it.
type Body struct {
	Min, Max mgl32.Vec3
}

// Interactor breaks and places blocks in a world along a view ray. Edits go
// through World.SetBlock, so the affected chunks are queued for rebaking.
type Interactor struct {
	World *world.World
	// Stops selects the blocks a ray can target. Nil targets every block.
	Stops func(world.BlockType) bool
	Reach float32
}

// NewInteractor returns an interactor with the default reach.
func NewInteractor(w *world.World, stops func(world.BlockType) bool) *Interactor {
	return &Interactor{World: w, Stops: stops, Reach: physics.MaxReachDistance}
}

func (in *Interactor) cast(eye, dir mgl32.Vec3) physics.RaycastResult {
	reach := in.Reach
	if reach <= 0 {
		reach = physics.MaxReachDistance
	}
	return physics.Raycast(eye, dir, physics.MinReachDistance, reach, in.World, in.Stops)
}

// Target returns the block the ray from eye along dir would hit.
func (in *Interactor) Target(eye, dir mgl32.Vec3) (world.BlockPos, bool) {
	r := in.cast(eye, dir)
	return r.HitPosition, r.Hit
}

// Break clears the targeted block and reports its position.
func (in *Interactor) Break(eye, dir mgl32.Vec3) (world.BlockPos, bool) {
	defer profiling.Track("player.Break")()
	r := in.cast(eye, dir)
	if !r.Hit {
		return world.BlockPos{}, false
	}
	if !in.World.SetBlock(world.BlockTypeAir, r.HitPosition) {
		return world.BlockPos{}, false
	}
	return r.HitPosition, true
}

// Place puts id in the empty cell in front of the targeted block. Placement
// is refused outside loaded chunks, outside the vertical range, into an
// occupied cell, or into a cell overlapping body unless the cell sits
// entirely below the body's feet.
func (in *Interactor) Place(eye, dir mgl32.Vec3, id world.BlockType, body *Body) (world.BlockPos, bool) {
	defer profiling.Track("player.Place")()
	if id == world.BlockTypeAir {
		return world.BlockPos{}, false
	}
	r := in.cast(eye, dir)
	if !r.Hit {
		return world.BlockPos{}, false
	}
	at := r.AdjacentPosition
	if at == r.HitPosition || at.Y < 0 || at.Y >= world.ChunkSizeY {
		return world.BlockPos{}, false
	}
	if _, occupied := in.World.Block(at); occupied {
		return world.BlockPos{}, false
	}
	if body != nil {
		underFeet := float32(at.Y+1) <= body.Min.Y()+0.001
		if !underFeet && physics.BoxIntersectsBlock(body.Min, body.Max, at) {
			return world.BlockPos{}, false
		}
	}
	if !in.World.SetBlock(id, at) {
		return world.BlockPos{}, false
	}
	return at, true
}
