package orchestrator

import (
	"fmt"
	"math"
	"sync"
	"time"

	"osmroute/internal/fetch"
	"osmroute/internal/graph"
)

// cacheKeyPrecisionDeg is the quantization step for cache keys: ~1km
// (SPEC_FULL.md §3).
const cacheKeyPrecisionDeg = 0.01

// cacheTTL is how long a cached graph remains eligible for reuse.
const cacheTTL = 600 * time.Second

// cacheKey quantizes an unpadded bounding box: floor on the min sides,
// ceil on the max sides, so that nearby requests share an entry.
func cacheKey(bbox fetch.BBox) string {
	floorTo := func(v float64) float64 { return math.Floor(v/cacheKeyPrecisionDeg) * cacheKeyPrecisionDeg }
	ceilTo := func(v float64) float64 { return math.Ceil(v/cacheKeyPrecisionDeg) * cacheKeyPrecisionDeg }
	return fmt.Sprintf("%.2f,%.2f,%.2f,%.2f",
		floorTo(bbox.South), floorTo(bbox.West), ceilTo(bbox.North), ceilTo(bbox.East))
}

type cacheEntry struct {
	graph      *graph.Graph
	insertedAt time.Time
}

// graphCache is the process-wide, TTL-evicting cache of built graphs
// (SPEC_FULL.md §4.5.2 / §5). It permits concurrent readers of distinct or
// identical entries and serializes inserts/evictions behind a single
// RWMutex, matching the corpus's tile-cache pattern
// (map[string]*RoadGraph guarded by sync.RWMutex) rather than pulling in a
// third-party cache library — see DESIGN.md for why nothing in the pack's
// dependency surface covers this concern.
type graphCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	ttl     time.Duration
}

func newGraphCache(ttl time.Duration) *graphCache {
	return &graphCache{entries: make(map[string]cacheEntry), ttl: ttl}
}

// get returns the cached graph for key if present and not stale.
func (c *graphCache) get(key string) (*graph.Graph, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if time.Since(entry.insertedAt) >= c.ttl {
		return nil, false
	}
	return entry.graph, true
}

// put inserts g under key and opportunistically sweeps expired entries.
// A cache insert only ever happens after a successful build — partial
// results are never cached (SPEC_FULL.md §5).
func (c *graphCache) put(key string, g *graph.Graph) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	c.entries[key] = cacheEntry{graph: g, insertedAt: now}

	for k, e := range c.entries {
		if now.Sub(e.insertedAt) >= c.ttl {
			delete(c.entries, k)
		}
	}
}
