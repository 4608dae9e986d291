package world

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Chunk dimensions in blocks. Chunks span the full world height, so the
// chunk grid is two-dimensional.
const (
	ChunkSizeX = 16
	ChunkSizeY = 128
	ChunkSizeZ = 16
)

// ChunkCoord is a position on the chunk grid, one unit per chunk.
type ChunkCoord struct {
	X, Z int
}

// ChunkCoordOf returns the coordinate of the chunk owning world column (x, z).
func ChunkCoordOf(x, z int) ChunkCoord {
	return ChunkCoord{X: floorDiv(x, ChunkSizeX), Z: floorDiv(z, ChunkSizeZ)}
}

// ChunkCoordAt returns the coordinate of the chunk containing a world-space point.
func ChunkCoordAt(p mgl32.Vec3) ChunkCoord {
	return ChunkCoordOf(int(math.Floor(float64(p.X()))), int(math.Floor(float64(p.Z()))))
}

// Origin is the world-space position of the chunk's (0,0,0) corner.
func (c ChunkCoord) Origin() mgl32.Vec3 {
	return mgl32.Vec3{float32(c.X * ChunkSizeX), 0, float32(c.Z * ChunkSizeZ)}
}

// OriginBlock is the world block position of the chunk's (0,0,0) cell.
func (c ChunkCoord) OriginBlock() BlockPos {
	return BlockPos{X: c.X * ChunkSizeX, Z: c.Z * ChunkSizeZ}
}

func (c ChunkCoord) Add(dx, dz int) ChunkCoord {
	return ChunkCoord{X: c.X + dx, Z: c.Z + dz}
}

// DistanceTo is the Euclidean distance between two chunks in chunk-grid units.
func (c ChunkCoord) DistanceTo(o ChunkCoord) float64 {
	dx := float64(c.X - o.X)
	dz := float64(c.Z - o.Z)
	return math.Sqrt(dx*dx + dz*dz)
}

// Neighbors returns the four horizontal neighbours: -X, +X, -Z, +Z.
func (c ChunkCoord) Neighbors() [4]ChunkCoord {
	return [4]ChunkCoord{c.Add(-1, 0), c.Add(1, 0), c.Add(0, -1), c.Add(0, 1)}
}

func (c ChunkCoord) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Z)
}

// splitPos resolves a world block position into its owning chunk and the
// chunk-local position inside it.
func splitPos(p BlockPos) (ChunkCoord, BlockPos) {
	return ChunkCoordOf(p.X, p.Z), BlockPos{X: mod(p.X, ChunkSizeX), Y: p.Y, Z: mod(p.Z, ChunkSizeZ)}
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func mod(a, b int) int {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}
