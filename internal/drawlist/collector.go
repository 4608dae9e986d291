package drawlist

import (
	"fmt"
	"log/slog"
	"sort"

	"mini-voxel/internal/logging"
	"mini-voxel/internal/metrics"
	"mini-voxel/internal/profiling"
	"mini-voxel/internal/world"

	"github.com/go-gl/mathgl/mgl32"
)

// Uploader receives mesh parts that have not reached the GPU yet.
type Uploader interface {
	Upload(coord world.ChunkCoord, part *world.MeshPart) error
}

// ChunkDraw is one chunk ready to draw at Origin.
type ChunkDraw struct {
	Coord  world.ChunkCoord
	Origin mgl32.Vec3
	Mesh   *world.BakedMesh
}

// Frame is the consumer's view of the world for one draw.
type Frame struct {
	Draws    []ChunkDraw
	Unloaded []world.ChunkCoord
	Culled   int
	Vertices int
	Indices  int
}

// Collector is the consumer side of mesh publication. It is the only place
// chunks leave the world and the only caller of Chunk.Mesh.
type Collector struct {
	world   *world.World
	metrics *metrics.Pipeline
	log     *slog.Logger
}

func NewCollector(w *world.World, m *metrics.Pipeline, log *slog.Logger) *Collector {
	if m == nil {
		m = metrics.New(nil)
	}
	if log == nil {
		log = logging.Discard()
	}
	return &Collector{world: w, metrics: m, log: log}
}

// Collect frees chunks flagged for unload, then gathers the current mesh of
// every remaining chunk inside f, promoting pending meshes on the way. A nil
// frustum disables culling.
func (c *Collector) Collect(f *Frustum) Frame {
	defer profiling.Track("drawlist.Collect")()
	var frame Frame

	frame.Unloaded = c.world.SweepUnloaded()
	if n := len(frame.Unloaded); n > 0 {
		c.metrics.ChunksUnloaded.Add(float64(n))
		c.log.Debug("unloaded chunks", "count", n)
	}

	for _, ch := range c.world.Chunks() {
		if ch.NeedsUnload() {
			continue
		}
		coord := ch.Coord()
		if f != nil && !f.IntersectsChunk(coord) {
			frame.Culled++
			continue
		}
		mesh := ch.Mesh()
		if mesh == nil {
			continue
		}
		frame.Draws = append(frame.Draws, ChunkDraw{Coord: coord, Origin: coord.Origin(), Mesh: mesh})
		frame.Vertices += mesh.VertexCount()
		frame.Indices += mesh.IndexCount()
	}
	sort.Slice(frame.Draws, func(i, j int) bool {
		a, b := frame.Draws[i].Coord, frame.Draws[j].Coord
		if a.Z != b.Z {
			return a.Z < b.Z
		}
		return a.X < b.X
	})
	return frame
}

// Upload hands every part of frame that still needs it to up and marks it
// uploaded. It stops at the first error and returns how many parts made it.
func (c *Collector) Upload(frame Frame, up Uploader) (int, error) {
	defer profiling.Track("drawlist.Upload")()
	n := 0
	for _, d := range frame.Draws {
		for _, p := range d.Mesh.Parts() {
			if !p.NeedsUpload() {
				continue
			}
			if err := up.Upload(d.Coord, p); err != nil {
				c.metrics.PartsUploaded.Add(float64(n))
				return n, fmt.Errorf("upload chunk %v material %d: %w", d.Coord, p.Material, err)
			}
			p.MarkUploaded()
			n++
		}
	}
	c.metrics.PartsUploaded.Add(float64(n))
	return n, nil
}
