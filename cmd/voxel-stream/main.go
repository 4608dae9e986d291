package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"mini-voxel/internal/config"
	"mini-voxel/internal/drawlist"
	"mini-voxel/internal/logging"
	"mini-voxel/internal/meshing"
	"mini-voxel/internal/metrics"
	"mini-voxel/internal/registry"
	"mini-voxel/internal/streaming"
	"mini-voxel/internal/world"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/xlab/closer"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to a YAML config file (default $"+config.EnvPath+")")
		seed       = flag.Int64("seed", 0, "terrain seed, overrides the config when set")
		distance   = flag.Int("render-distance", 0, "render distance in chunks, overrides the config when set")
		workers    = flag.Int("workers", 0, "bake workers, overrides the config when set")
		listen     = flag.String("metrics", "", "metrics listen address, overrides the config when set")
		level      = flag.String("log-level", "", "debug, info, warn or error")
		frames     = flag.Int("frames", 0, "stop after this many consumer frames; 0 runs until interrupted")
		orbit      = flag.Float64("orbit", 96, "radius in blocks of the viewpoint's orbit around the origin")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *seed != 0 {
		cfg.World.Seed = *seed
	}
	if *distance != 0 {
		cfg.Streaming.RenderDistance = *distance
	}
	if *workers != 0 {
		cfg.Streaming.BakeWorkers = *workers
	}
	if *listen != "" {
		cfg.Metrics.Listen = *listen
	}
	if *level != "" {
		cfg.Log.Level = *level
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := logging.New(os.Stderr, cfg.Log.Level)
	if err := run(cfg, log, *frames, float32(*orbit)); err != nil {
		log.Error("voxel-stream failed", "err", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger, frames int, orbit float32) error {
	gen, err := cfg.World.NewGenerator()
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	w := world.New(gen, logging.Component(log, "world"))
	baker := meshing.NewBaker(registry.Default(), cfg.Lighting.Settings(), logging.Component(log, "baker"))
	pool := meshing.NewPool(baker, cfg.Streaming.BakeWorkers)
	runtime := config.NewRuntime(cfg.Streaming)
	streamer := streaming.New(w, pool, runtime, streaming.Options{
		IdleBackoff: cfg.Streaming.IdleBackoff,
		Metrics:     m,
		Logger:      logging.Component(log, "streamer"),
	})

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	closer.Bind(func() {
		cancel()
		wg.Wait()
		pool.Shutdown()
		log.Info("stopped", "chunks", w.Len())
	})

	w.SetViewpoint(viewpointAt(gen, 0, orbit))

	wg.Add(1)
	go func() {
		defer wg.Done()
		streamer.Run(ctx)
	}()

	if cfg.Metrics.Listen != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := metrics.Serve(ctx, cfg.Metrics.Listen, reg, logging.Component(log, "metrics")); err != nil {
				log.Error("metrics endpoint stopped", "err", err)
			}
		}()
	}

	log.Info("streaming",
		"generator", cfg.World.Generator,
		"seed", cfg.World.Seed,
		"render_distance", runtime.RenderDistance(),
		"bake_workers", pool.Workers(),
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		consume(ctx, cfg.Consumer, w, gen, m, logging.Component(log, "consumer"), frames, orbit)
		if frames > 0 {
			go closer.Close()
		}
	}()

	closer.Hold()
	return nil
}

// consume plays the render thread: it moves the viewpoint, collects the
// visible chunks and uploads new mesh parts, once per frame.
func consume(ctx context.Context, cfg config.ConsumerConfig, w *world.World, gen world.TerrainGenerator, m *metrics.Pipeline, log *slog.Logger, frames int, orbit float32) {
	collector := drawlist.NewCollector(w, m, log)
	limiter := drawlist.NewFrameLimiter(cfg.FPS)
	uploader := &logUploader{log: log}
	status := time.NewTicker(2 * time.Second)
	defer status.Stop()

	start := time.Now()
	for frame := 0; frames <= 0 || frame < frames; frame++ {
		if !limiter.Wait(ctx) {
			return
		}
		angle := float32(time.Since(start).Seconds()) * 0.05
		eye := viewpointAt(gen, angle, orbit)
		w.SetViewpoint(eye)

		f := collector.Collect(drawlist.NewFrustum(viewProjection(eye, angle)))
		if _, err := collector.Upload(f, uploader); err != nil {
			log.Warn("upload failed", "err", err)
		}

		select {
		case <-status.C:
			log.Info("frame",
				"view", w.ViewChunk(),
				"chunks", w.Len(),
				"drawn", len(f.Draws),
				"culled", f.Culled,
				"vertices", f.Vertices,
				"uploaded_parts", uploader.parts,
			)
			log.Debug("profile", "top", profilingTop())
		default:
		}
	}
}

// logUploader stands in for a GPU upload and only counts what it receives.
type logUploader struct {
	log      *slog.Logger
	parts    int
	vertices int
}

func (u *logUploader) Upload(coord world.ChunkCoord, part *world.MeshPart) error {
	u.parts++
	u.vertices += len(part.Vertices)
	u.log.Debug("upload", "chunk", coord, "material", part.Material, "vertices", len(part.Vertices))
	return nil
}
