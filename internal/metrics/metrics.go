package metrics

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "voxel"

// Pipeline holds the collectors of the streaming and drawing pipeline.
type Pipeline struct {
	ChunksGenerated    prometheus.Counter
	GenerationFailures prometheus.Counter
	ChunksBaked        prometheus.Counter
	BakeFailures       prometheus.Counter
	BakeDuration       prometheus.Histogram
	ChunksMarkedUnload prometheus.Counter
	ChunksUnloaded     prometheus.Counter
	ChunksLoaded       prometheus.Gauge
	PartsUploaded      prometheus.Counter
}

// New creates the collectors and registers them with reg. A nil reg leaves
// them unregistered, which is what tests want.
func New(reg prometheus.Registerer) *Pipeline {
	p := &Pipeline{
		ChunksGenerated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chunks_generated_total",
			Help:      "Chunks generated and inserted into the world.",
		}),
		GenerationFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chunk_generation_failures_total",
			Help:      "Chunk generations that failed and left the coordinate absent.",
		}),
		ChunksBaked: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chunks_baked_total",
			Help:      "Meshes published by the baker.",
		}),
		BakeFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chunk_bake_failures_total",
			Help:      "Bakes that produced no mesh.",
		}),
		BakeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "chunk_bake_duration_seconds",
			Help:      "Time spent baking one chunk.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12),
		}),
		ChunksMarkedUnload: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chunks_marked_unload_total",
			Help:      "Chunks flagged for unload by the streamer.",
		}),
		ChunksUnloaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chunks_unloaded_total",
			Help:      "Chunks removed and freed by the consumer.",
		}),
		ChunksLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "chunks_loaded",
			Help:      "Chunks currently in the world.",
		}),
		PartsUploaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mesh_parts_uploaded_total",
			Help:      "Mesh parts handed to the uploader.",
		}),
	}
	if reg != nil {
		reg.MustRegister(
			p.ChunksGenerated, p.GenerationFailures,
			p.ChunksBaked, p.BakeFailures, p.BakeDuration,
			p.ChunksMarkedUnload, p.ChunksUnloaded, p.ChunksLoaded,
			p.PartsUploaded,
		)
	}
	return p
}

// Serve exposes g on addr under /metrics until ctx is done.
func Serve(ctx context.Context, addr string, g prometheus.Gatherer, log *slog.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errc := make(chan error, 1)
	go func() {
		log.Info("metrics endpoint listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
