package meshing

import (
	"testing"

	"mini-voxel/internal/registry"
	"mini-voxel/internal/world"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type emptyGenerator struct{}

func (emptyGenerator) Generate(*world.Chunk) error { return nil }
func (emptyGenerator) HeightAt(_, _ int) int       { return 0 }

func newTestBaker() *Baker {
	return NewBaker(registry.Default(), DefaultLightSettings(), nil)
}

// newEmptyWorld loads empty chunks at coords.
func newEmptyWorld(t testing.TB, coords ...world.ChunkCoord) *world.World {
	t.Helper()
	w := world.New(emptyGenerator{}, nil)
	for _, c := range coords {
		_, err := w.Generate(c)
		require.NoError(t, err)
	}
	return w
}

func bakeChunk(t *testing.T, w *world.World, coord world.ChunkCoord) *world.BakedMesh {
	t.Helper()
	m, err := newTestBaker().Bake(w.Chunk(coord), w, 1)
	require.NoError(t, err)
	return m
}

func faceCount(parts []*world.MeshPart) int {
	n := 0
	for _, p := range parts {
		n += len(p.Vertices) / 4
	}
	return n
}

func assertIndicesInRange(t *testing.T, m *world.BakedMesh) {
	t.Helper()
	for _, p := range m.Parts() {
		require.Len(t, p.Indices, len(p.Vertices)/4*6)
		for _, i := range p.Indices {
			require.Less(t, int(i), len(p.Vertices), "material %d", p.Material)
		}
	}
}

func TestBakeSingleBlock(t *testing.T) {
	w := newEmptyWorld(t, world.ChunkCoord{})
	w.SetBlock(world.BlockTypeStone, world.BlockPos{X: 5, Y: 5, Z: 5})

	m := bakeChunk(t, w, world.ChunkCoord{})
	require.Len(t, m.Solid, 1)
	assert.Empty(t, m.Liquid)
	assert.Empty(t, m.Flora)
	assert.Equal(t, world.BlockTypeStone, m.Solid[0].Material)
	assert.Len(t, m.Solid[0].Vertices, 24)
	assert.Len(t, m.Solid[0].Indices, 36)
	assertIndicesInRange(t, m)
}

func TestBakeEmptyChunkHasNoParts(t *testing.T) {
	w := newEmptyWorld(t, world.ChunkCoord{})
	m := bakeChunk(t, w, world.ChunkCoord{})
	assert.Empty(t, m.Parts())
	assert.Zero(t, m.VertexCount())
}

func TestBakeSkipsWorldFloorUnderside(t *testing.T) {
	w := newEmptyWorld(t, world.ChunkCoord{})
	w.SetBlock(world.BlockTypeStone, world.BlockPos{X: 3, Y: 0, Z: 3})

	m := bakeChunk(t, w, world.ChunkCoord{})
	require.Len(t, m.Solid, 1)
	assert.Equal(t, 5, faceCount(m.Solid))
	for _, v := range m.Solid[0].Vertices {
		assert.NotEqual(t, mgl32.Vec3{0, -1, 0}, v.Normal)
	}
}

func TestBakeCullsSharedFaces(t *testing.T) {
	tests := []struct {
		name               string
		a, b               world.BlockType
		solidFaces, liquid int
		flora              int
	}{
		{"stone against stone", world.BlockTypeStone, world.BlockTypeStone, 10, 0, 0},
		{"water against water", world.BlockTypeWater, world.BlockTypeWater, 0, 10, 0},
		{"stone against water", world.BlockTypeStone, world.BlockTypeWater, 6, 5, 0},
		{"stone against flora", world.BlockTypeStone, world.BlockTypeTallGrass, 6, 0, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newEmptyWorld(t, world.ChunkCoord{})
			w.SetBlock(tt.a, world.BlockPos{X: 4, Y: 4, Z: 4})
			w.SetBlock(tt.b, world.BlockPos{X: 5, Y: 4, Z: 4})

			m := bakeChunk(t, w, world.ChunkCoord{})
			assert.Equal(t, tt.solidFaces, faceCount(m.Solid))
			assert.Equal(t, tt.liquid, faceCount(m.Liquid))
			assert.Equal(t, tt.flora, faceCount(m.Flora))
			assertIndicesInRange(t, m)
		})
	}
}

func TestBakeCrossChunkCulling(t *testing.T) {
	w := newEmptyWorld(t, world.ChunkCoord{X: 0}, world.ChunkCoord{X: 1})
	w.SetBlock(world.BlockTypeStone, world.BlockPos{X: world.ChunkSizeX - 1, Y: 5, Z: 5})
	w.SetBlock(world.BlockTypeStone, world.BlockPos{X: world.ChunkSizeX, Y: 5, Z: 5})

	m := bakeChunk(t, w, world.ChunkCoord{})
	assert.Equal(t, 5, faceCount(m.Solid))

	// Without the neighbour the boundary face is exposed.
	isolated, err := newTestBaker().Bake(w.Chunk(world.ChunkCoord{}), world.Isolated(w.Chunk(world.ChunkCoord{})), 2)
	require.NoError(t, err)
	assert.Equal(t, 6, faceCount(isolated.Solid))
}

func TestBakeFloraBillboards(t *testing.T) {
	w := newEmptyWorld(t, world.ChunkCoord{})
	w.SetBlock(world.BlockTypeFlower, world.BlockPos{X: 8, Y: 0, Z: 8})

	m := bakeChunk(t, w, world.ChunkCoord{})
	require.Len(t, m.Flora, 1)
	p := m.Flora[0]
	assert.True(t, p.Flora)
	assert.Len(t, p.Vertices, 16)
	assert.Len(t, p.Indices, 24)
	assertIndicesInRange(t, m)
}

func TestBakeWindingMatchesNormals(t *testing.T) {
	for dir, f := range cubeFaces {
		part := &world.MeshPart{}
		appendQuad(part, mgl32.Vec3{}, f.corners, f.normal, f.back, func(mgl32.Vec3) float32 { return 1 })
		for tri := 0; tri < 2; tri++ {
			a := part.Vertices[part.Indices[tri*3]].Position
			b := part.Vertices[part.Indices[tri*3+1]].Position
			c := part.Vertices[part.Indices[tri*3+2]].Position
			n := b.Sub(a).Cross(c.Sub(a)).Normalize()
			assert.True(t, n.ApproxEqual(f.normal), "face %d triangle %d: %v != %v", dir, tri, n, f.normal)
		}
	}
}

func TestBakePartsFollowCatalogOrder(t *testing.T) {
	w := newEmptyWorld(t, world.ChunkCoord{})
	ids := []world.BlockType{world.BlockTypeSand, world.BlockTypeStone, world.BlockTypeDirt, world.BlockTypeLava, world.BlockTypeWater}
	for i, id := range ids {
		w.SetBlock(id, world.BlockPos{X: 1 + 2*i, Y: 10, Z: 1})
	}

	m := bakeChunk(t, w, world.ChunkCoord{})
	var solid, liquid []world.BlockType
	for _, p := range m.Solid {
		solid = append(solid, p.Material)
	}
	for _, p := range m.Liquid {
		liquid = append(liquid, p.Material)
	}
	assert.Equal(t, []world.BlockType{world.BlockTypeDirt, world.BlockTypeStone, world.BlockTypeSand}, solid)
	assert.Equal(t, []world.BlockType{world.BlockTypeLava, world.BlockTypeWater}, liquid)
}

func TestBakeSkipsUnknownMaterial(t *testing.T) {
	catalog := registry.NewCatalog()
	require.NoError(t, catalog.RegisterBlock(registry.BlockDefinition{ID: world.BlockTypeDirt, Name: "dirt", IsSolid: true}))

	w := newEmptyWorld(t, world.ChunkCoord{})
	w.SetBlock(world.BlockTypeStone, world.BlockPos{X: 2, Y: 2, Z: 2})
	w.SetBlock(world.BlockTypeDirt, world.BlockPos{X: 6, Y: 2, Z: 2})

	m, err := NewBaker(catalog, DefaultLightSettings(), nil).Bake(w.Chunk(world.ChunkCoord{}), w, 1)
	require.NoError(t, err)
	require.Len(t, m.Parts(), 1)
	assert.Equal(t, world.BlockTypeDirt, m.Parts()[0].Material)
}

func TestRebakeWithoutEditsIsStable(t *testing.T) {
	w := world.New(world.NewGenerator(42, 0), nil)
	for _, c := range []world.ChunkCoord{{X: 0, Z: 0}, {X: -1, Z: 0}, {X: 1, Z: 0}, {X: 0, Z: -1}, {X: 0, Z: 1}} {
		_, err := w.Generate(c)
		require.NoError(t, err)
	}
	b := newTestBaker()
	first, err := b.Bake(w.Chunk(world.ChunkCoord{}), w, 1)
	require.NoError(t, err)
	second, err := b.Bake(w.Chunk(world.ChunkCoord{}), w, 2)
	require.NoError(t, err)

	assert.Equal(t, first.VertexCount(), second.VertexCount())
	assert.Equal(t, first.IndexCount(), second.IndexCount())
	require.Equal(t, len(first.Parts()), len(second.Parts()))
	for i, p := range first.Parts() {
		assert.Equal(t, p.Vertices, second.Parts()[i].Vertices)
	}
}

func TestBakeReleasedChunk(t *testing.T) {
	c := world.NewChunk(world.ChunkCoord{})
	c.Release()
	_, err := newTestBaker().Bake(c, nil, 1)
	assert.ErrorIs(t, err, ErrChunkReleased)
}

func TestBakeDefaultTerrainEndToEnd(t *testing.T) {
	generators := map[string]world.TerrainGenerator{
		"default": world.NewGenerator(42, 0),
		"flat":    world.NewFlatGenerator(8),
	}
	for name, gen := range generators {
		t.Run(name, func(t *testing.T) {
			w := world.New(gen, nil)
			c, err := w.Generate(world.ChunkCoord{})
			require.NoError(t, err)

			m, err := newTestBaker().Bake(c, w, w.NextRevision())
			require.NoError(t, err)
			require.NotEmpty(t, m.Solid)
			assertIndicesInRange(t, m)

			for _, p := range m.Parts() {
				for _, v := range p.Vertices {
					if v.Normal == (mgl32.Vec3{0, -1, 0}) {
						assert.NotZero(t, v.Position.Y(), "downward face on the bottom layer")
					}
					assert.LessOrEqual(t, v.Light, float32(1))
					assert.Greater(t, v.Light, float32(0))
				}
			}
		})
	}
}

func BenchmarkBakeGeneratedChunk(b *testing.B) {
	w := world.New(world.NewGenerator(42, 0), nil)
	for _, c := range []world.ChunkCoord{{X: 0, Z: 0}, {X: -1, Z: 0}, {X: 1, Z: 0}, {X: 0, Z: -1}, {X: 0, Z: 1}} {
		if _, err := w.Generate(c); err != nil {
			b.Fatal(err)
		}
	}
	baker := newTestBaker()
	c := w.Chunk(world.ChunkCoord{})
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := baker.Bake(c, w, uint64(i)); err != nil {
			b.Fatal(err)
		}
	}
}
