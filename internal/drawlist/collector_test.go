package drawlist

import (
	"errors"
	"testing"

	"mini-voxel/internal/world"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingUploader struct {
	uploaded []world.BlockType
	failOn   world.BlockType
}

func (u *recordingUploader) Upload(_ world.ChunkCoord, p *world.MeshPart) error {
	if p.Material == u.failOn {
		return errors.New("device lost")
	}
	u.uploaded = append(u.uploaded, p.Material)
	return nil
}

func quadPart(id world.BlockType, solid bool) *world.MeshPart {
	return &world.MeshPart{
		Material: id,
		Solid:    solid,
		Vertices: make([]world.Vertex, 4),
		Indices:  []uint32{0, 1, 2, 2, 3, 0},
	}
}

func newLoadedWorld(t *testing.T, coords ...world.ChunkCoord) *world.World {
	t.Helper()
	w := world.New(world.NewFlatGenerator(2), nil)
	for _, c := range coords {
		_, err := w.Generate(c)
		require.NoError(t, err)
	}
	return w
}

func TestCollectPromotesPendingMesh(t *testing.T) {
	w := newLoadedWorld(t, world.ChunkCoord{})
	c := w.Chunk(world.ChunkCoord{})
	first := &world.BakedMesh{Revision: 1, Solid: []*world.MeshPart{quadPart(world.BlockTypeStone, true)}}
	c.Publish(first)

	col := NewCollector(w, nil, nil)
	frame := col.Collect(nil)
	require.Len(t, frame.Draws, 1)
	assert.Same(t, first, frame.Draws[0].Mesh)
	assert.Equal(t, 4, frame.Vertices)
	assert.Equal(t, 6, frame.Indices)

	second := &world.BakedMesh{Revision: 2}
	c.Publish(second)
	frame = col.Collect(nil)
	assert.Same(t, second, frame.Draws[0].Mesh)
	assert.False(t, c.HasPending())
}

func TestCollectSkipsUnbakedChunks(t *testing.T) {
	w := newLoadedWorld(t, world.ChunkCoord{}, world.ChunkCoord{X: 1})
	w.Chunk(world.ChunkCoord{X: 1}).Publish(&world.BakedMesh{})

	frame := NewCollector(w, nil, nil).Collect(nil)
	require.Len(t, frame.Draws, 1)
	assert.Equal(t, world.ChunkCoord{X: 1}, frame.Draws[0].Coord)
	assert.Equal(t, mgl32.Vec3{16, 0, 0}, frame.Draws[0].Origin)
}

func TestCollectUnloadsFlaggedChunks(t *testing.T) {
	w := newLoadedWorld(t, world.ChunkCoord{}, world.ChunkCoord{X: 9})
	far := w.Chunk(world.ChunkCoord{X: 9})
	far.Publish(&world.BakedMesh{})
	far.MarkUnload()

	frame := NewCollector(w, nil, nil).Collect(nil)
	assert.Equal(t, []world.ChunkCoord{{X: 9}}, frame.Unloaded)
	assert.Empty(t, frame.Draws)
	assert.False(t, w.HasChunk(world.ChunkCoord{X: 9}))
	assert.True(t, far.Released())
}

func TestCollectCullsOutsideFrustum(t *testing.T) {
	coords := []world.ChunkCoord{{X: 2}, {X: -3}}
	w := newLoadedWorld(t, coords...)
	for _, c := range coords {
		w.Chunk(c).Publish(&world.BakedMesh{})
	}

	eye := mgl32.Vec3{8, 70, 8}
	view := mgl32.LookAtV(eye, eye.Add(mgl32.Vec3{1, 0, 0}), mgl32.Vec3{0, 1, 0})
	proj := mgl32.Perspective(mgl32.DegToRad(70), 16.0/9.0, 0.1, 500)

	frame := NewCollector(w, nil, nil).Collect(NewFrustum(proj.Mul4(view)))
	require.Len(t, frame.Draws, 1)
	assert.Equal(t, world.ChunkCoord{X: 2}, frame.Draws[0].Coord)
	assert.Equal(t, 1, frame.Culled)
}

func TestUploadMarksPartsOnce(t *testing.T) {
	w := newLoadedWorld(t, world.ChunkCoord{})
	mesh := &world.BakedMesh{
		Solid:  []*world.MeshPart{quadPart(world.BlockTypeDirt, true)},
		Liquid: []*world.MeshPart{quadPart(world.BlockTypeWater, false)},
	}
	w.Chunk(world.ChunkCoord{}).Publish(mesh)

	col := NewCollector(w, nil, nil)
	up := &recordingUploader{}
	n, err := col.Upload(col.Collect(nil), up)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []world.BlockType{world.BlockTypeDirt, world.BlockTypeWater}, up.uploaded)
	for _, p := range mesh.Parts() {
		assert.False(t, p.NeedsUpload())
	}

	n, err = col.Upload(col.Collect(nil), up)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestUploadStopsOnError(t *testing.T) {
	w := newLoadedWorld(t, world.ChunkCoord{})
	mesh := &world.BakedMesh{
		Solid:  []*world.MeshPart{quadPart(world.BlockTypeDirt, true)},
		Liquid: []*world.MeshPart{quadPart(world.BlockTypeWater, false)},
	}
	w.Chunk(world.ChunkCoord{}).Publish(mesh)

	col := NewCollector(w, nil, nil)
	n, err := col.Upload(col.Collect(nil), &recordingUploader{failOn: world.BlockTypeWater})
	assert.Error(t, err)
	assert.Equal(t, 1, n)
	assert.True(t, mesh.Liquid[0].NeedsUpload())
	assert.False(t, mesh.Solid[0].NeedsUpload())
}

func TestFrustumAABB(t *testing.T) {
	proj := mgl32.Ortho(-10, 10, -10, 10, -10, 10)
	f := NewFrustum(proj)
	assert.True(t, f.IntersectsAABB(mgl32.Vec3{-1, -1, -1}, mgl32.Vec3{1, 1, 1}))
	assert.True(t, f.IntersectsAABB(mgl32.Vec3{9, 9, 9}, mgl32.Vec3{12, 12, 12}), "partially inside")
	assert.False(t, f.IntersectsAABB(mgl32.Vec3{11, 0, 0}, mgl32.Vec3{12, 1, 1}))
}
