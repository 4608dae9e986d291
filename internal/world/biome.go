package world

// Biome is a terrain preset. Neighbouring entries in Biomes blend into each
// other, so their order matters.
type Biome struct {
	Name        string
	TopBlock    BlockType // surface above sea level
	MediumBlock BlockType // sub-surface layers, and the surface below sea level
	BaseLevel   float64
	Amplitude   float64
	Trees       bool
	Flora       bool
}

var (
	BiomeForest = &Biome{
		Name:        "forest",
		TopBlock:    BlockTypeGrass,
		MediumBlock: BlockTypeDirt,
		BaseLevel:   64,
		Amplitude:   8,
		Trees:       true,
	}
	BiomePlain = &Biome{
		Name:        "plain",
		TopBlock:    BlockTypeGrass,
		MediumBlock: BlockTypeDirt,
		BaseLevel:   70,
		Amplitude:   4,
		Flora:       true,
	}
	BiomeDesert = &Biome{
		Name:        "desert",
		TopBlock:    BlockTypeSand,
		MediumBlock: BlockTypeSand,
		BaseLevel:   64,
		Amplitude:   7,
	}
	BiomeOcean = &Biome{
		Name:        "ocean",
		TopBlock:    BlockTypeSand,
		MediumBlock: BlockTypeSand,
		BaseLevel:   44,
		Amplitude:   16,
	}
	BiomeMountains = &Biome{
		Name:        "mountains",
		TopBlock:    BlockTypeStone,
		MediumBlock: BlockTypeStone,
		BaseLevel:   64,
		Amplitude:   16,
	}
)

// Biomes in blend order.
var Biomes = []*Biome{BiomeForest, BiomePlain, BiomeDesert, BiomeOcean, BiomeMountains}

// biomeBlend picks the two biomes around a blend sample t in [0, 1] and the
// weight of the second one.
func biomeBlend(t float64) (a, b *Biome, w float64) {
	f := t * float64(len(Biomes)-1)
	i := int(f)
	if i >= len(Biomes)-1 {
		i = len(Biomes) - 1
	}
	j := i + 1
	if j > len(Biomes)-1 {
		j = len(Biomes) - 1
	}
	return Biomes[i], Biomes[j], f - float64(i)
}

func lerp(a, b, w float64) float64 { return a*(1-w) + b*w }
