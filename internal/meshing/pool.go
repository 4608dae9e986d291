package meshing

import (
	"context"
	"sync"
	"time"

	"mini-voxel/internal/world"

	"github.com/alitto/pond/v2"
)

// BakeJob asks for one chunk to be baked and stamped with Revision.
type BakeJob struct {
	Chunk    *world.Chunk
	Revision uint64
}

// BakeResult contains the result of a baking operation
type BakeResult struct {
	Coord    world.ChunkCoord
	Mesh     *world.BakedMesh
	Duration time.Duration
	Err      error
}

// Pool bakes batches of chunks. With one worker it bakes inline on the
// calling goroutine.
type Pool struct {
	baker   *Baker
	workers int
	pool    pond.Pool
}

// NewPool creates a bake pool with the given number of workers.
func NewPool(baker *Baker, workers int) *Pool {
	if workers < 1 {
		workers = 1
	}
	p := &Pool{baker: baker, workers: workers}
	if workers > 1 {
		p.pool = pond.NewPool(workers)
	}
	return p
}

func (p *Pool) Workers() int { return p.workers }

// BakeAll bakes every job against src and returns results in job order.
// Jobs not started before ctx is cancelled report ctx.Err().
func (p *Pool) BakeAll(ctx context.Context, src world.BlocksSource, jobs []BakeJob) []BakeResult {
	results := make([]BakeResult, len(jobs))
	if p.pool == nil {
		for i, job := range jobs {
			results[i] = p.bakeOne(ctx, src, job)
		}
		return results
	}

	var wg sync.WaitGroup
	for i, job := range jobs {
		wg.Add(1)
		p.pool.Submit(func() {
			defer wg.Done()
			results[i] = p.bakeOne(ctx, src, job)
		})
	}
	wg.Wait()
	return results
}

func (p *Pool) bakeOne(ctx context.Context, src world.BlocksSource, job BakeJob) BakeResult {
	res := BakeResult{Coord: job.Chunk.Coord()}
	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}
	start := time.Now()
	res.Mesh, res.Err = p.baker.Bake(job.Chunk, src, job.Revision)
	res.Duration = time.Since(start)
	return res
}

// Shutdown waits for running bakes and stops the workers.
func (p *Pool) Shutdown() {
	if p.pool != nil {
		p.pool.StopAndWait()
	}
}
