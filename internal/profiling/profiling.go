package profiling

import (
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Lightweight interval profiler: the driver resets it on every status line.

// Bucket is the accumulated time of one tracked name.
type Bucket struct {
	Name  string
	Total time.Duration
	Calls int
}

var (
	mu      sync.Mutex
	buckets = make(map[string]*Bucket)
)

// Track returns a stop function that records the elapsed time under the given name.
// Usage: defer profiling.Track("subsystem.Operation")()
func Track(name string) func() {
	start := time.Now()
	return func() {
		d := time.Since(start)
		mu.Lock()
		b := buckets[name]
		if b == nil {
			b = &Bucket{Name: name}
			buckets[name] = b
		}
		b.Total += d
		b.Calls++
		mu.Unlock()
	}
}

// Reset clears all buckets.
func Reset() {
	mu.Lock()
	clear(buckets)
	mu.Unlock()
}

// Snapshot returns the buckets sorted by total time, largest first.
func Snapshot() []Bucket {
	mu.Lock()
	out := make([]Bucket, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, *b)
	}
	mu.Unlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// TopN formats the n largest buckets.
// Example: "meshing.Bake:42.5ms/12, streaming.Step:50.1ms/300"
func TopN(n int) string {
	snap := Snapshot()
	if n > len(snap) {
		n = len(snap)
	}
	parts := make([]string, 0, n)
	for _, b := range snap[:n] {
		ms := float64(b.Total.Microseconds()) / 1000.0
		parts = append(parts, b.Name+":"+strconv.FormatFloat(ms, 'f', 1, 64)+"ms/"+strconv.Itoa(b.Calls))
	}
	return strings.Join(parts, ", ")
}
