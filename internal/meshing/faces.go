package meshing

import (
	"mini-voxel/internal/world"

	"github.com/go-gl/mathgl/mgl32"
)

// face describes one side of a unit cube. Corners are offsets from the
// block's minimum corner.
type face struct {
	step    world.BlockPos
	normal  mgl32.Vec3
	corners [4]mgl32.Vec3
	// back selects the reversed index order so the front face points outward.
	back bool
	side bool
}

var (
	frontIndices = [6]uint32{0, 1, 2, 2, 3, 0}
	backIndices  = [6]uint32{2, 1, 0, 0, 3, 2}

	quadUVs = [4]mgl32.Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
)

const faceDown = 2

// cubeFaces in order: -X, +X, -Y, +Y, -Z, +Z.
var cubeFaces = [6]face{
	{
		step:    world.BlockPos{X: -1},
		normal:  mgl32.Vec3{-1, 0, 0},
		corners: [4]mgl32.Vec3{{0, 0, 0}, {0, 0, 1}, {0, 1, 1}, {0, 1, 0}},
		side:    true,
	},
	{
		step:    world.BlockPos{X: 1},
		normal:  mgl32.Vec3{1, 0, 0},
		corners: [4]mgl32.Vec3{{1, 0, 0}, {1, 0, 1}, {1, 1, 1}, {1, 1, 0}},
		back:    true,
		side:    true,
	},
	{
		step:    world.BlockPos{Y: -1},
		normal:  mgl32.Vec3{0, -1, 0},
		corners: [4]mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {1, 0, 1}, {0, 0, 1}},
	},
	{
		step:    world.BlockPos{Y: 1},
		normal:  mgl32.Vec3{0, 1, 0},
		corners: [4]mgl32.Vec3{{0, 1, 0}, {1, 1, 0}, {1, 1, 1}, {0, 1, 1}},
		back:    true,
	},
	{
		step:    world.BlockPos{Z: -1},
		normal:  mgl32.Vec3{0, 0, -1},
		corners: [4]mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}},
		back:    true,
		side:    true,
	},
	{
		step:    world.BlockPos{Z: 1},
		normal:  mgl32.Vec3{0, 0, 1},
		corners: [4]mgl32.Vec3{{0, 0, 1}, {1, 0, 1}, {1, 1, 1}, {0, 1, 1}},
		side:    true,
	},
}

// floraPlanes are the two diagonal billboards of a flora cell. Each is
// emitted once per side.
var floraPlanes = [2][4]mgl32.Vec3{
	{{0, 0, 0}, {1, 0, 1}, {1, 1, 1}, {0, 1, 0}},
	{{1, 0, 0}, {0, 0, 1}, {0, 1, 1}, {1, 1, 0}},
}

// quadNormal is the normal of the first triangle under front winding.
func quadNormal(c [4]mgl32.Vec3) mgl32.Vec3 {
	return c[1].Sub(c[0]).Cross(c[2].Sub(c[0])).Normalize()
}

// appendQuad adds four vertices and six indices to part. light returns the
// brightness of a vertex given its chunk-local position.
func appendQuad(part *world.MeshPart, at mgl32.Vec3, corners [4]mgl32.Vec3, normal mgl32.Vec3, back bool, light func(mgl32.Vec3) float32) {
	base := uint32(len(part.Vertices))
	for i, c := range corners {
		p := at.Add(c)
		part.Vertices = append(part.Vertices, world.Vertex{
			Position: p,
			Normal:   normal,
			UV:       quadUVs[i],
			Light:    light(p),
		})
	}
	order := frontIndices
	if back {
		order = backIndices
	}
	for _, i := range order {
		part.Indices = append(part.Indices, base+i)
	}
}

// appendFlora adds both crossed planes, each double sided.
func appendFlora(part *world.MeshPart, at mgl32.Vec3, light func(mgl32.Vec3) float32) {
	for _, plane := range floraPlanes {
		n := quadNormal(plane)
		appendQuad(part, at, plane, n, false, light)
		appendQuad(part, at, plane, n.Mul(-1), true, light)
	}
}
