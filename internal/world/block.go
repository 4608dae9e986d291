package world

import "github.com/go-gl/mathgl/mgl32"

// BlockType identifies a block kind. Zero is air and is never stored in a grid.
type BlockType uint16

const (
	BlockTypeAir BlockType = iota
	BlockTypeStone
	BlockTypeCobblestone
	BlockTypeDirt
	BlockTypeGrass
	BlockTypePlanks
	BlockTypeLog
	BlockTypeLeaves
	BlockTypeLava
	BlockTypeWater
	BlockTypeSand
	BlockTypeBedrock
	BlockTypeTallGrass
	BlockTypeFlower
)

// Block is one occupied grid cell. Pos is always chunk-local.
type Block struct {
	Pos BlockPos
	ID  BlockType
}

// BlockPos is an integer block position. Whether it is chunk-local or
// world-space depends on the source it is handed to.
type BlockPos struct {
	X, Y, Z int
}

func (p BlockPos) Add(o BlockPos) BlockPos {
	return BlockPos{X: p.X + o.X, Y: p.Y + o.Y, Z: p.Z + o.Z}
}

func (p BlockPos) Offset(dx, dy, dz int) BlockPos {
	return BlockPos{X: p.X + dx, Y: p.Y + dy, Z: p.Z + dz}
}

// Vec3 returns the position of the block's minimum corner.
func (p BlockPos) Vec3() mgl32.Vec3 {
	return mgl32.Vec3{float32(p.X), float32(p.Y), float32(p.Z)}
}
