package meshing

import (
	"errors"
	"log/slog"
	"sort"

	"mini-voxel/internal/logging"
	"mini-voxel/internal/profiling"
	"mini-voxel/internal/registry"
	"mini-voxel/internal/world"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrChunkReleased is returned when baking a chunk whose grid was freed.
var ErrChunkReleased = errors.New("meshing: chunk released")

// Baker turns chunk grids into BakedMeshes. It holds no per-bake state and
// may be shared between goroutines.
type Baker struct {
	catalog *registry.Catalog
	light   LightSettings
	log     *slog.Logger
}

// NewBaker creates a baker. A nil logger discards output.
func NewBaker(catalog *registry.Catalog, light LightSettings, log *slog.Logger) *Baker {
	if log == nil {
		log = logging.Discard()
	}
	if light.Radius < 1 {
		light.Radius = 1
	}
	return &Baker{catalog: catalog, light: light, log: log}
}

func (b *Baker) Catalog() *registry.Catalog { return b.catalog }

func (b *Baker) LightSettings() LightSettings { return b.light }

// Bake builds the mesh of c. Neighbour cells outside c are read from src in
// world coordinates; an absent neighbour counts as empty.
func (b *Baker) Bake(c *world.Chunk, src world.BlocksSource, revision uint64) (*world.BakedMesh, error) {
	defer profiling.Track("meshing.Bake")()
	grid := c.CopyBlocks()
	if grid == nil {
		return nil, ErrChunkReleased
	}
	coord := c.Coord()
	origin := coord.OriginBlock()
	cover := b.coverMap(grid)
	lights := b.indexLights(grid, origin, src)

	parts := make(map[world.BlockType]*world.MeshPart)
	unknown := 0

	for y := 0; y < world.ChunkSizeY; y++ {
		for z := 0; z < world.ChunkSizeZ; z++ {
			for x := 0; x < world.ChunkSizeX; x++ {
				local := world.BlockPos{X: x, Y: y, Z: z}
				i := world.GridIndex(local)
				id := grid[i]
				if id == world.BlockTypeAir {
					continue
				}
				def, ok := b.catalog.Lookup(id)
				if !ok {
					unknown++
					continue
				}
				part := parts[id]
				if part == nil {
					part = &world.MeshPart{Material: id, Solid: def.IsSolid, Flora: def.IsFlora}
					parts[id] = part
				}

				at := local.Vec3()
				blockWorld := origin.Add(local)
				light := func(side bool) func(mgl32.Vec3) float32 {
					return func(p mgl32.Vec3) float32 {
						return lights.vertexLight(int(cover[i]), side, blockWorld, p.Add(origin.Vec3()))
					}
				}

				if def.IsFlora {
					appendFlora(part, at, light(false))
					continue
				}
				for dir, f := range cubeFaces {
					if dir == faceDown && y == 0 {
						continue
					}
					if !b.faceVisible(def, grid, origin, local.Add(f.step), src) {
						continue
					}
					appendQuad(part, at, f.corners, f.normal, f.back, light(f.side))
				}
			}
		}
	}

	if unknown > 0 {
		b.log.Warn("skipped blocks with unknown material", "coord", coord, "blocks", unknown)
	}
	return b.assemble(coord, revision, parts), nil
}

// faceVisible applies the culling rule against the neighbour at local nb,
// which may lie outside the chunk.
func (b *Baker) faceVisible(cur *registry.BlockDefinition, grid []world.BlockType, origin, nb world.BlockPos, src world.BlocksSource) bool {
	var id world.BlockType
	if world.InBounds(nb) {
		id = grid[world.GridIndex(nb)]
	} else if src != nil {
		if blk, ok := src.Block(origin.Add(nb)); ok {
			id = blk.ID
		}
	}
	if id == world.BlockTypeAir {
		return true
	}
	return cur.IsSolid && (!b.catalog.IsSolid(id) || b.catalog.IsFlora(id))
}

// coverMap counts, for every cell, the solid non-flora blocks above it in
// its column.
func (b *Baker) coverMap(grid []world.BlockType) []uint8 {
	cover := make([]uint8, len(grid))
	for z := 0; z < world.ChunkSizeZ; z++ {
		for x := 0; x < world.ChunkSizeX; x++ {
			n := 0
			for y := world.ChunkSizeY - 1; y >= 0; y-- {
				i := world.GridIndex(world.BlockPos{X: x, Y: y, Z: z})
				cover[i] = uint8(n)
				id := grid[i]
				if b.catalog.IsSolid(id) && !b.catalog.IsFlora(id) {
					n++
				}
			}
		}
	}
	return cover
}

// indexLights collects emitters inside the chunk and within light radius of
// its X/Z edges, in scan order, up to MaxSources.
func (b *Baker) indexLights(grid []world.BlockType, origin world.BlockPos, src world.BlocksSource) *lightIndex {
	li := &lightIndex{settings: b.light}
	if b.light.MaxSources <= 0 {
		return li
	}
	r := b.light.Radius
	for y := 0; y < world.ChunkSizeY; y++ {
		for z := -r; z < world.ChunkSizeZ+r; z++ {
			for x := -r; x < world.ChunkSizeX+r; x++ {
				local := world.BlockPos{X: x, Y: y, Z: z}
				var id world.BlockType
				if world.InBounds(local) {
					id = grid[world.GridIndex(local)]
				} else if src != nil {
					blk, ok := src.Block(origin.Add(local))
					if !ok {
						continue
					}
					id = blk.ID
				}
				if !b.catalog.EmitsLight(id) {
					continue
				}
				li.sources = append(li.sources, origin.Add(local))
				if len(li.sources) == b.light.MaxSources {
					return li
				}
			}
		}
	}
	return li
}

// assemble orders parts by catalog order and groups them by draw state.
func (b *Baker) assemble(coord world.ChunkCoord, revision uint64, parts map[world.BlockType]*world.MeshPart) *world.BakedMesh {
	ordered := make([]*world.MeshPart, 0, len(parts))
	for _, p := range parts {
		if len(p.Indices) > 0 {
			ordered = append(ordered, p)
		}
	}
	sort.Slice(ordered, func(i, j int) bool {
		di, _ := b.catalog.Lookup(ordered[i].Material)
		dj, _ := b.catalog.Lookup(ordered[j].Material)
		return di.Order() < dj.Order()
	})

	m := &world.BakedMesh{Coord: coord, Revision: revision}
	for _, p := range ordered {
		switch {
		case p.Flora:
			m.Flora = append(m.Flora, p)
		case p.Solid:
			m.Solid = append(m.Solid, p)
		default:
			m.Liquid = append(m.Liquid, p)
		}
	}
	return m
}
