package world

import (
	"errors"
	"math"
)

// ErrChunkReleased is returned when a generator is handed a released chunk.
var ErrChunkReleased = errors.New("world: chunk released")

// TerrainGenerator fills a freshly created, empty chunk. Implementations must
// be deterministic for a given seed and chunk coordinate and must only write
// inside the chunk they are given.
type TerrainGenerator interface {
	Generate(c *Chunk) error
	HeightAt(worldX, worldZ int) int
}

const (
	DefaultSeaLevel = 67
	TreeThreshold   = 0.54

	heightScale       = 0.08
	heightOctaves     = 6
	biomeBlendScale   = 0.009
	populationScale   = 0.37 // off the integer lattice, where perlin is always zero
	populationOctaves = 2
	floraThreshold    = 0.3
	flowerThreshold   = 0.45
	mediumDepth       = 2
	maxSurface        = ChunkSizeY - 8 // leaves room for a tree
)

// treePrefab is stamped one block above the surface.
var treePrefab = []struct {
	off BlockPos
	id  BlockType
}{
	{BlockPos{0, 0, 0}, BlockTypeLog}, {BlockPos{0, 1, 0}, BlockTypeLog}, {BlockPos{0, 2, 0}, BlockTypeLog},
	{BlockPos{0, 3, 0}, BlockTypeLog}, {BlockPos{0, 4, 0}, BlockTypeLog},
	{BlockPos{1, 4, 0}, BlockTypeLeaves}, {BlockPos{-1, 4, 0}, BlockTypeLeaves},
	{BlockPos{0, 4, 1}, BlockTypeLeaves}, {BlockPos{0, 4, -1}, BlockTypeLeaves},
	{BlockPos{1, 4, 1}, BlockTypeLeaves}, {BlockPos{-1, 4, -1}, BlockTypeLeaves},
	{BlockPos{1, 4, -1}, BlockTypeLeaves}, {BlockPos{-1, 4, 1}, BlockTypeLeaves},
	{BlockPos{0, 5, 0}, BlockTypeLeaves},
}

// Generator is the default biome-blended heightmap generator.
type Generator struct {
	seed       int64
	seaLevel   int
	height     noiseField
	biome      noiseField
	population noiseField
}

// NewGenerator creates a generator for seed. A non-positive sea level
// selects DefaultSeaLevel.
func NewGenerator(seed int64, seaLevel int) *Generator {
	if seaLevel <= 0 || seaLevel >= ChunkSizeY {
		seaLevel = DefaultSeaLevel
	}
	return &Generator{
		seed:       seed,
		seaLevel:   seaLevel,
		height:     newNoiseField(seed, heightOctaves, heightScale),
		biome:      newNoiseField(seed+1, heightOctaves, biomeBlendScale),
		population: newNoiseField(seed+2, populationOctaves, populationScale),
	}
}

func (g *Generator) Seed() int64 { return g.seed }

func (g *Generator) SeaLevel() int { return g.seaLevel }

// column returns the surface height and the dominant biome at a world column.
func (g *Generator) column(x, z int) (int, *Biome) {
	a, b, w := biomeBlend(g.biome.unit(x, z))
	active := a
	if w > 0.5 {
		active = b
	}
	amp := lerp(a.Amplitude, b.Amplitude, w)
	base := lerp(a.BaseLevel, b.BaseLevel, w)
	y := int(math.Floor(g.height.unit(x, z)*amp + base))
	if y < 1 {
		y = 1
	}
	if y > maxSurface {
		y = maxSurface
	}
	return y, active
}

// HeightAt computes the surface block Y at a world column.
func (g *Generator) HeightAt(worldX, worldZ int) int {
	y, _ := g.column(worldX, worldZ)
	return y
}

// BiomeAt returns the biome that decides surface blocks at a world column.
func (g *Generator) BiomeAt(worldX, worldZ int) *Biome {
	_, b := g.column(worldX, worldZ)
	return b
}

// Generate fills c from its coordinate and the generator seed.
func (g *Generator) Generate(c *Chunk) error {
	if c.Released() {
		return ErrChunkReleased
	}
	origin := c.Coord().OriginBlock()
	for lx := 0; lx < ChunkSizeX; lx++ {
		for lz := 0; lz < ChunkSizeZ; lz++ {
			wx, wz := origin.X+lx, origin.Z+lz
			y, b := g.column(wx, wz)

			surface := b.TopBlock
			if y < g.seaLevel {
				surface = b.MediumBlock
			}
			c.SetBlock(surface, BlockPos{lx, y, lz})
			for d := y - 1; d >= 0; d-- {
				id := BlockTypeStone
				switch {
				case d == 0:
					id = BlockTypeBedrock
				case y-d <= mediumDepth:
					id = b.MediumBlock
				}
				c.SetBlock(id, BlockPos{lx, d, lz})
			}

			if y < g.seaLevel {
				for wy := y + 1; wy <= g.seaLevel; wy++ {
					p := BlockPos{lx, wy, lz}
					if _, ok := c.Block(p); !ok {
						c.SetBlock(BlockTypeWater, p)
					}
				}
				continue
			}
			g.populate(c, b, BlockPos{lx, y + 1, lz}, wx, wz)
		}
	}
	return nil
}

// populate decorates the cell above a dry surface block.
func (g *Generator) populate(c *Chunk, b *Biome, at BlockPos, wx, wz int) {
	if !b.Trees && !b.Flora {
		return
	}
	v := g.population.signed(wx, wz)
	switch {
	case b.Trees && v > TreeThreshold:
		stampTree(c, at)
	case b.Flora && v > floraThreshold:
		id := BlockTypeTallGrass
		if v > flowerThreshold {
			id = BlockTypeFlower
		}
		if _, ok := c.Block(at); !ok {
			c.SetBlock(id, at)
		}
	}
}

// stampTree writes the tree prefab rooted at base, dropping cells that fall
// outside the chunk.
func stampTree(c *Chunk, base BlockPos) {
	for _, cell := range treePrefab {
		p := base.Add(cell.off)
		if InBounds(p) {
			c.SetBlock(cell.id, p)
		}
	}
}
