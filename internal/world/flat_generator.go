package world

// FlatGenerator produces the same layered column everywhere: bedrock at the
// bottom, stone, three layers of dirt and grass on top.
type FlatGenerator struct {
	height int
}

func NewFlatGenerator(height int) *FlatGenerator {
	if height < 1 {
		height = 1
	}
	if height >= ChunkSizeY {
		height = ChunkSizeY - 1
	}
	return &FlatGenerator{height: height}
}

func (g *FlatGenerator) HeightAt(_, _ int) int { return g.height }

func (g *FlatGenerator) Generate(c *Chunk) error {
	if c.Released() {
		return ErrChunkReleased
	}
	for lx := 0; lx < ChunkSizeX; lx++ {
		for lz := 0; lz < ChunkSizeZ; lz++ {
			for y := 0; y <= g.height; y++ {
				id := BlockTypeStone
				switch {
				case y == 0:
					id = BlockTypeBedrock
				case y == g.height:
					id = BlockTypeGrass
				case y >= g.height-3:
					id = BlockTypeDirt
				}
				c.SetBlock(id, BlockPos{lx, y, lz})
			}
		}
	}
	return nil
}
