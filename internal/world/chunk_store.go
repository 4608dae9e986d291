package world

import "sync"

// ChunkStore is the live chunk collection keyed by chunk-grid coordinate.
// Every insertion and removal goes through its lock; iteration works on
// snapshots so callers never hold the lock while baking or unloading.
type ChunkStore struct {
	mu       sync.RWMutex
	chunks   map[ChunkCoord]*Chunk
	modCount uint64 // bumped on every add/remove
}

// NewChunkStore creates an empty chunk store.
func NewChunkStore() *ChunkStore {
	return &ChunkStore{chunks: make(map[ChunkCoord]*Chunk)}
}

// Get returns the chunk at coord or nil.
func (cs *ChunkStore) Get(coord ChunkCoord) *Chunk {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return cs.chunks[coord]
}

// Has checks whether a chunk exists at coord.
func (cs *ChunkStore) Has(coord ChunkCoord) bool {
	cs.mu.RLock()
	_, ok := cs.chunks[coord]
	cs.mu.RUnlock()
	return ok
}

// Add inserts c unless its coordinate is already taken. It reports whether
// the chunk was inserted.
func (cs *ChunkStore) Add(c *Chunk) bool {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	if _, ok := cs.chunks[c.coord]; ok {
		return false
	}
	cs.chunks[c.coord] = c
	cs.modCount++
	return true
}

// Remove deletes and returns the chunk at coord, or nil if absent.
func (cs *ChunkStore) Remove(coord ChunkCoord) *Chunk {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	c, ok := cs.chunks[coord]
	if !ok {
		return nil
	}
	delete(cs.chunks, coord)
	cs.modCount++
	return c
}

// Snapshot returns the chunks present at the time of the call.
func (cs *ChunkStore) Snapshot() []*Chunk {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	out := make([]*Chunk, 0, len(cs.chunks))
	for _, c := range cs.chunks {
		out = append(out, c)
	}
	return out
}

func (cs *ChunkStore) Len() int {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return len(cs.chunks)
}

// ModCount returns the number of additions and removals so far.
func (cs *ChunkStore) ModCount() uint64 {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return cs.modCount
}
