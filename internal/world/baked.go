package world

import (
	"sync"
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl32"
)

// Vertex is one baked mesh vertex. Position is chunk-local.
type Vertex struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	UV       mgl32.Vec2
	Light    float32
}

// MeshPart holds the geometry of one material. Geometry is immutable after
// baking; only the upload bookkeeping changes.
type MeshPart struct {
	Material BlockType
	Vertices []Vertex
	Indices  []uint32
	Solid    bool
	Flora    bool

	uploaded atomic.Bool
}

// Liquid reports whether the part belongs to the non-solid, non-flora group.
func (p *MeshPart) Liquid() bool { return !p.Solid && !p.Flora }

// NeedsUpload is true until the consumer has uploaded the part once.
func (p *MeshPart) NeedsUpload() bool { return !p.uploaded.Load() }

func (p *MeshPart) MarkUploaded() { p.uploaded.Store(true) }

// BakedMesh is the complete baked geometry of one chunk, grouped by draw state.
type BakedMesh struct {
	Coord    ChunkCoord
	Revision uint64
	Solid    []*MeshPart
	Liquid   []*MeshPart
	Flora    []*MeshPart
}

// Parts returns every part: solid, then liquid, then flora.
func (m *BakedMesh) Parts() []*MeshPart {
	out := make([]*MeshPart, 0, len(m.Solid)+len(m.Liquid)+len(m.Flora))
	out = append(out, m.Solid...)
	out = append(out, m.Liquid...)
	return append(out, m.Flora...)
}

func (m *BakedMesh) VertexCount() int {
	n := 0
	for _, p := range m.Parts() {
		n += len(p.Vertices)
	}
	return n
}

func (m *BakedMesh) IndexCount() int {
	n := 0
	for _, p := range m.Parts() {
		n += len(p.Indices)
	}
	return n
}

// meshSlots is the current/pending pair. The lock covers both pointers so a
// promotion never races with a publish.
type meshSlots struct {
	mu      sync.Mutex
	current *BakedMesh
	pending *BakedMesh
}

func (s *meshSlots) clear() {
	s.mu.Lock()
	s.current, s.pending = nil, nil
	s.mu.Unlock()
}

// Publish hands a freshly baked mesh to the consumer. The first mesh becomes
// current; later ones replace whatever is pending.
func (c *Chunk) Publish(m *BakedMesh) {
	c.meshes.mu.Lock()
	defer c.meshes.mu.Unlock()
	if c.meshes.current == nil {
		c.meshes.current = m
		return
	}
	c.meshes.pending = m
}

// Mesh promotes a pending mesh if there is one and returns the current mesh.
// Only the consumer calls it.
func (c *Chunk) Mesh() *BakedMesh {
	c.meshes.mu.Lock()
	defer c.meshes.mu.Unlock()
	if c.meshes.pending != nil {
		c.meshes.current = c.meshes.pending
		c.meshes.pending = nil
	}
	return c.meshes.current
}

// Baked reports whether any mesh was ever published for the chunk.
func (c *Chunk) Baked() bool {
	c.meshes.mu.Lock()
	defer c.meshes.mu.Unlock()
	return c.meshes.current != nil || c.meshes.pending != nil
}

// HasPending reports whether a rebake result is waiting for promotion.
func (c *Chunk) HasPending() bool {
	c.meshes.mu.Lock()
	defer c.meshes.mu.Unlock()
	return c.meshes.pending != nil
}
