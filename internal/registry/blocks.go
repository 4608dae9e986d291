package registry

import (
	"errors"
	"fmt"
	"sync"

	"mini-voxel/internal/world"
)

var (
	ErrReservedID    = errors.New("registry: block id 0 is reserved for air")
	ErrDuplicateID   = errors.New("registry: duplicate block id")
	ErrDuplicateName = errors.New("registry: duplicate block name")
)

// BlockDefinition defines the properties of a block type
type BlockDefinition struct {
	ID     world.BlockType
	Name   string
	AtlasX int // texture atlas pixel offset
	AtlasY int
	// IsSolid drives face culling and collision.
	IsSolid bool
	// IsFlora selects crossed billboard geometry instead of cube faces.
	IsFlora    bool
	EmitsLight bool

	order int
}

// Order is the definition's position in catalog order, the stable material
// order of baked meshes.
func (d *BlockDefinition) Order() int { return d.order }

// Catalog is the block kind table. It is filled at startup and only read
// afterwards.
type Catalog struct {
	defs    map[world.BlockType]*BlockDefinition
	names   map[string]world.BlockType
	ordered []*BlockDefinition
}

func NewCatalog() *Catalog {
	return &Catalog{
		defs:  make(map[world.BlockType]*BlockDefinition),
		names: make(map[string]world.BlockType),
	}
}

// RegisterBlock appends def to the catalog. Registration order is catalog order.
func (c *Catalog) RegisterBlock(def BlockDefinition) error {
	if def.ID == world.BlockTypeAir {
		return ErrReservedID
	}
	if _, ok := c.defs[def.ID]; ok {
		return fmt.Errorf("%w: %d", ErrDuplicateID, def.ID)
	}
	if _, ok := c.names[def.Name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateName, def.Name)
	}
	d := def
	d.order = len(c.ordered)
	c.defs[d.ID] = &d
	c.names[d.Name] = d.ID
	c.ordered = append(c.ordered, &d)
	return nil
}

func (c *Catalog) Lookup(id world.BlockType) (*BlockDefinition, bool) {
	d, ok := c.defs[id]
	return d, ok
}

func (c *Catalog) ByName(name string) (*BlockDefinition, bool) {
	id, ok := c.names[name]
	if !ok {
		return nil, false
	}
	return c.defs[id], true
}

// Definitions returns every definition in catalog order.
func (c *Catalog) Definitions() []*BlockDefinition {
	out := make([]*BlockDefinition, len(c.ordered))
	copy(out, c.ordered)
	return out
}

func (c *Catalog) Len() int { return len(c.ordered) }

func (c *Catalog) IsSolid(id world.BlockType) bool {
	d, ok := c.defs[id]
	return ok && d.IsSolid
}

func (c *Catalog) IsFlora(id world.BlockType) bool {
	d, ok := c.defs[id]
	return ok && d.IsFlora
}

func (c *Catalog) EmitsLight(id world.BlockType) bool {
	d, ok := c.defs[id]
	return ok && d.EmitsLight
}

// DefaultBlocks lists the built-in block kinds in catalog order.
var DefaultBlocks = []BlockDefinition{
	{ID: world.BlockTypeCobblestone, Name: "cobblestone", AtlasX: 0, AtlasY: 32, IsSolid: true},
	{ID: world.BlockTypeDirt, Name: "dirt", AtlasX: 0, AtlasY: 32, IsSolid: true},
	{ID: world.BlockTypeGrass, Name: "grass", AtlasX: 32, AtlasY: 0, IsSolid: true},
	{ID: world.BlockTypeLava, Name: "lava", AtlasX: 0, AtlasY: 64, EmitsLight: true},
	{ID: world.BlockTypeWater, Name: "water", AtlasX: 64, AtlasY: 64},
	{ID: world.BlockTypeLeaves, Name: "oak_leaves", AtlasX: 96, AtlasY: 0, IsSolid: true},
	{ID: world.BlockTypeLog, Name: "oak_log", AtlasX: 64, AtlasY: 32, IsSolid: true},
	{ID: world.BlockTypePlanks, Name: "oak_planks", AtlasX: 96, AtlasY: 32, IsSolid: true},
	{ID: world.BlockTypeStone, Name: "stone", AtlasX: 32, AtlasY: 32, IsSolid: true},
	{ID: world.BlockTypeSand, Name: "sand", AtlasX: 32, AtlasY: 64, IsSolid: true},
	{ID: world.BlockTypeBedrock, Name: "bedrock", AtlasX: 96, AtlasY: 64, IsSolid: true},
	{ID: world.BlockTypeTallGrass, Name: "tall_grass", AtlasX: 0, AtlasY: 96, IsFlora: true},
	{ID: world.BlockTypeFlower, Name: "flower", AtlasX: 32, AtlasY: 96, IsFlora: true},
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the shared catalog built from DefaultBlocks.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c := NewCatalog()
		for _, def := range DefaultBlocks {
			if err := c.RegisterBlock(def); err != nil {
				panic(err)
			}
		}
		defaultCatalog = c
	})
	return defaultCatalog
}
