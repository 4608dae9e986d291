package drawlist

import (
	"math"

	"mini-voxel/internal/world"

	"github.com/go-gl/mathgl/mgl32"
)

// frustumMargin inflates chunk AABBs before testing, in blocks.
const frustumMargin float32 = 1.0

type plane struct {
	a, b, c, d float32
}

// Frustum is the set of six clip planes of a view-projection matrix.
type Frustum struct {
	planes [6]plane
}

// NewFrustum builds six planes from the combined projection*view matrix.
// Planes are stored in order: left, right, bottom, top, near, far.
func NewFrustum(clip mgl32.Mat4) *Frustum {
	// Matrix is in column-major order in mgl32
	m00, m01, m02, m03 := clip[0], clip[4], clip[8], clip[12]
	m10, m11, m12, m13 := clip[1], clip[5], clip[9], clip[13]
	m20, m21, m22, m23 := clip[2], clip[6], clip[10], clip[14]
	m30, m31, m32, m33 := clip[3], clip[7], clip[11], clip[15]

	f := &Frustum{}
	f.planes[0] = normalizePlane(plane{m30 + m00, m31 + m01, m32 + m02, m33 + m03})
	f.planes[1] = normalizePlane(plane{m30 - m00, m31 - m01, m32 - m02, m33 - m03})
	f.planes[2] = normalizePlane(plane{m30 + m10, m31 + m11, m32 + m12, m33 + m13})
	f.planes[3] = normalizePlane(plane{m30 - m10, m31 - m11, m32 - m12, m33 - m13})
	f.planes[4] = normalizePlane(plane{m30 + m20, m31 + m21, m32 + m22, m33 + m23})
	f.planes[5] = normalizePlane(plane{m30 - m20, m31 - m21, m32 - m22, m33 - m23})
	return f
}

func normalizePlane(p plane) plane {
	l := float32(math.Sqrt(float64(p.a*p.a + p.b*p.b + p.c*p.c)))
	if l == 0 {
		return p
	}
	return plane{p.a / l, p.b / l, p.c / l, p.d / l}
}

// IntersectsAABB tests a box against the planes using the positive vertex
// of each plane normal.
func (f *Frustum) IntersectsAABB(min, max mgl32.Vec3) bool {
	for _, p := range f.planes {
		px := max.X()
		if p.a < 0 {
			px = min.X()
		}
		py := max.Y()
		if p.b < 0 {
			py = min.Y()
		}
		pz := max.Z()
		if p.c < 0 {
			pz = min.Z()
		}
		if p.a*px+p.b*py+p.c*pz+p.d < 0 {
			return false
		}
	}
	return true
}

// IntersectsChunk tests the full-height box of a chunk.
func (f *Frustum) IntersectsChunk(coord world.ChunkCoord) bool {
	origin := coord.Origin()
	m := mgl32.Vec3{frustumMargin, frustumMargin, frustumMargin}
	size := mgl32.Vec3{world.ChunkSizeX, world.ChunkSizeY, world.ChunkSizeZ}
	return f.IntersectsAABB(origin.Sub(m), origin.Add(size).Add(m))
}
