package streaming

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"sort"
	"time"

	"mini-voxel/internal/logging"
	"mini-voxel/internal/meshing"
	"mini-voxel/internal/metrics"
	"mini-voxel/internal/profiling"
	"mini-voxel/internal/world"
)

// Settings are polled on every pass so they can change while the loop runs.
type Settings interface {
	RenderDistance() int
	GenerationEnabled() bool
	BakingEnabled() bool
}

// Options configures a Streamer. Zero values are usable.
type Options struct {
	// IdleBackoff is how long Run sleeps after a pass that did nothing.
	IdleBackoff time.Duration
	Metrics     *metrics.Pipeline
	Logger      *slog.Logger
}

// Streamer is the background scheduling loop: it generates the nearest
// missing chunk, flags far chunks for unload and bakes chunks whose
// neighbours are ready.
type Streamer struct {
	world    *world.World
	pool     *meshing.Pool
	settings Settings
	metrics  *metrics.Pipeline
	log      *slog.Logger
	idle     time.Duration
}

// StepReport describes what one pass did.
type StepReport struct {
	Generated     []world.ChunkCoord
	GenerationErr error
	MarkedUnload  []world.ChunkCoord
	Baked         []world.ChunkCoord
}

// Idle reports whether the pass changed nothing.
func (r StepReport) Idle() bool {
	return len(r.Generated) == 0 && len(r.MarkedUnload) == 0 && len(r.Baked) == 0 && r.GenerationErr == nil
}

func New(w *world.World, pool *meshing.Pool, settings Settings, opts Options) *Streamer {
	if opts.Metrics == nil {
		opts.Metrics = metrics.New(nil)
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	return &Streamer{
		world:    w,
		pool:     pool,
		settings: settings,
		metrics:  opts.Metrics,
		log:      opts.Logger,
		idle:     opts.IdleBackoff,
	}
}

// Run repeats Step until ctx is cancelled.
func (s *Streamer) Run(ctx context.Context) {
	s.log.Info("streamer started", "bake_workers", s.pool.Workers())
	defer s.log.Info("streamer stopped")
	for ctx.Err() == nil {
		rep := s.Step(ctx)
		if !rep.Idle() || s.idle <= 0 {
			continue
		}
		t := time.NewTimer(s.idle)
		select {
		case <-ctx.Done():
			t.Stop()
		case <-t.C:
		}
	}
}

// Step runs one scheduling pass: at most one generation, then unload
// marking, then baking.
func (s *Streamer) Step(ctx context.Context) StepReport {
	defer profiling.Track("streaming.Step")()
	var rep StepReport
	center := s.world.ViewChunk()
	radius := s.settings.RenderDistance()

	if s.settings.GenerationEnabled() {
		if coord, ok := s.nearestMissing(center, radius); ok {
			if _, err := s.world.Generate(coord); err != nil {
				rep.GenerationErr = err
				if !errors.Is(err, world.ErrChunkExists) {
					s.metrics.GenerationFailures.Inc()
					s.log.Warn("chunk generation failed", "coord", coord, "err", err)
				}
			} else {
				rep.Generated = append(rep.Generated, coord)
				s.metrics.ChunksGenerated.Inc()
			}
		}
	}

	chunks := s.world.Chunks()
	sort.Slice(chunks, func(i, j int) bool {
		return closer(center, chunks[i].Coord(), chunks[j].Coord())
	})

	baking := s.settings.BakingEnabled()
	var jobs []meshing.BakeJob
	for _, c := range chunks {
		if c.NeedsUnload() {
			continue
		}
		coord := c.Coord()
		if coord.DistanceTo(center) > float64(radius) {
			if c.MarkUnload() {
				rep.MarkedUnload = append(rep.MarkedUnload, coord)
				s.metrics.ChunksMarkedUnload.Inc()
			}
			continue
		}
		if !baking || (c.Baked() && !c.NeedsRebake()) {
			continue
		}
		if !s.world.NeighborsPresent(coord) {
			continue
		}
		c.TakeRebake()
		jobs = append(jobs, meshing.BakeJob{Chunk: c, Revision: s.world.NextRevision()})
	}

	for i, res := range s.pool.BakeAll(ctx, s.world, jobs) {
		c := jobs[i].Chunk
		if res.Err != nil {
			if ctx.Err() != nil {
				// Not baked; keep the chunk eligible for the next pass.
				c.MarkRebake()
				continue
			}
			s.metrics.BakeFailures.Inc()
			s.log.Warn("chunk bake failed", "coord", res.Coord, "err", res.Err)
			continue
		}
		c.Publish(res.Mesh)
		rep.Baked = append(rep.Baked, res.Coord)
		s.metrics.ChunksBaked.Inc()
		s.metrics.BakeDuration.Observe(res.Duration.Seconds())
	}

	s.metrics.ChunksLoaded.Set(float64(s.world.Len()))
	return rep
}

// nearestMissing scans the square window around center and returns the
// closest absent coordinate within radius. Ties go to the first one in
// scan order.
func (s *Streamer) nearestMissing(center world.ChunkCoord, radius int) (world.ChunkCoord, bool) {
	var best world.ChunkCoord
	bestDist := math.Inf(1)
	found := false
	for dz := -radius; dz <= radius; dz++ {
		for dx := -radius; dx <= radius; dx++ {
			coord := center.Add(dx, dz)
			d := coord.DistanceTo(center)
			if d > float64(radius) || d >= bestDist {
				continue
			}
			if s.world.HasChunk(coord) {
				continue
			}
			best, bestDist, found = coord, d, true
		}
	}
	return best, found
}

// closer orders chunks by distance to center, then by coordinate.
func closer(center, a, b world.ChunkCoord) bool {
	da, db := a.DistanceTo(center), b.DistanceTo(center)
	if da != db {
		return da < db
	}
	if a.Z != b.Z {
		return a.Z < b.Z
	}
	return a.X < b.X
}
