package world

// BlocksSource answers block queries and edits in one coordinate space.
// Chunk implements it over chunk-local positions, World over world
// positions, and Isolated over world positions restricted to one chunk.
type BlocksSource interface {
	Block(pos BlockPos) (Block, bool)
	SetBlock(id BlockType, pos BlockPos) bool
}

var (
	_ BlocksSource = (*Chunk)(nil)
	_ BlocksSource = (*World)(nil)
	_ BlocksSource = isolated{}
)

// Isolated exposes a single chunk through world coordinates. Cells outside
// the chunk read as empty and cannot be written.
func Isolated(c *Chunk) BlocksSource {
	return isolated{c: c, origin: c.coord.OriginBlock()}
}

type isolated struct {
	c      *Chunk
	origin BlockPos
}

func (s isolated) local(pos BlockPos) BlockPos {
	return BlockPos{X: pos.X - s.origin.X, Y: pos.Y, Z: pos.Z - s.origin.Z}
}

func (s isolated) Block(pos BlockPos) (Block, bool) {
	return s.c.Block(s.local(pos))
}

func (s isolated) SetBlock(id BlockType, pos BlockPos) bool {
	return s.c.SetBlock(id, s.local(pos))
}
