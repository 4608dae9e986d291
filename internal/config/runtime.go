package config

import "sync"

const (
	MinRenderDistance = 1
	MaxRenderDistance = 64
)

// Runtime holds the settings the streamer polls every pass. They may be
// changed from any goroutine while it runs.
type Runtime struct {
	mu             sync.RWMutex
	renderDistance int // in chunks
	generation     bool
	baking         bool
}

// NewRuntime seeds runtime settings from the streaming section.
func NewRuntime(s StreamingConfig) *Runtime {
	r := &Runtime{generation: s.Generation, baking: s.Baking}
	r.SetRenderDistance(s.RenderDistance)
	return r
}

// RenderDistance returns the current render distance in chunks
func (r *Runtime) RenderDistance() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.renderDistance
}

// SetRenderDistance sets the render distance in chunks
func (r *Runtime) SetRenderDistance(distance int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if distance < MinRenderDistance {
		distance = MinRenderDistance
	}
	if distance > MaxRenderDistance {
		distance = MaxRenderDistance
	}
	r.renderDistance = distance
}

func (r *Runtime) GenerationEnabled() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.generation
}

func (r *Runtime) SetGenerationEnabled(enabled bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.generation = enabled
}

func (r *Runtime) BakingEnabled() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.baking
}

func (r *Runtime) SetBakingEnabled(enabled bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.baking = enabled
}
