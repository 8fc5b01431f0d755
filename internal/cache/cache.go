// Package cache implements the bounded LRU result cache (spec §3.5, §4.7)
// and a Bloom filter-backed uniqueness gate (SPEC_FULL §13). Canonical
// serialization of options uses goccy/go-json over a sorted-key
// representation so the cache key is stable under Go's randomized map
// iteration (spec §9 "Cache key").
package cache

import (
	"sort"
	"sync"

	bloom "github.com/bits-and-blooms/bloom/v3"
	json "github.com/goccy/go-json"
	groupcache "github.com/golang/groupcache/lru"

	"fpsynth/internal/model"
)

// Stats mirrors the teacher's RWMutex-guarded counters
// (worker/internal/worker/worker.go's Stats) adapted to cache hit/miss
// accounting instead of request accounting.
type Stats struct {
	mu     sync.RWMutex
	hits   int64
	misses int64
}

func (s *Stats) recordHit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hits++
}

func (s *Stats) recordMiss() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.misses++
}

// Snapshot returns the current hit/miss counts.
func (s *Stats) Snapshot() (hits, misses int64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hits, s.misses
}

// Cache is a bounded LRU of GenerationResults keyed on canonical option
// serialization, plus a Bloom filter tracking every fingerprint_hash ever
// emitted (used by scoring's uniqueness sub-score).
type Cache struct {
	mu      sync.RWMutex
	results *groupcache.Cache
	seen    *bloom.BloomFilter
	Stats   Stats
}

// New builds a Cache with the given LRU capacity and Bloom filter sizing
// (expected item count and target false-positive rate).
func New(capacity int, bloomExpectedItems uint, bloomFalsePositiveRate float64) *Cache {
	return &Cache{
		results: groupcache.New(capacity),
		seen:    bloom.NewWithEstimates(bloomExpectedItems, bloomFalsePositiveRate),
	}
}

// Get returns the cached result for a key, if present. The returned result
// is the same object stored earlier, so repeated lookups are field-wise
// equal (spec Testable Property 5).
func (c *Cache) Get(key string) (*model.GenerationResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	v, ok := c.results.Get(key)
	if !ok {
		c.Stats.recordMiss()
		return nil, false
	}
	c.Stats.recordHit()
	return v.(*model.GenerationResult), true
}

// Put stores a result under key, evicting the least-recently-used entry on
// overflow (spec §3.5, §4.7 step 11).
func (c *Cache) Put(key string, result *model.GenerationResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results.Add(key, result)
}

// HasSeen reports whether fingerprintHash has been recorded before. A
// Bloom filter only ever produces false positives, so this can only ever
// push the uniqueness score down, never manufacture a too-good score
// (SPEC_FULL §13).
func (c *Cache) HasSeen(fingerprintHash string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.seen.TestString(fingerprintHash)
}

// RecordSeen adds fingerprintHash to the Bloom filter.
func (c *Cache) RecordSeen(fingerprintHash string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seen.AddString(fingerprintHash)
}

// CanonicalKey produces a stable cache key for a GenerationOptions value:
// it marshals through a sorted-key map representation so iteration order
// never affects the key (spec §9 "Cache key").
func CanonicalKey(options model.GenerationOptions) (string, error) {
	raw, err := json.Marshal(options)
	if err != nil {
		return "", err
	}

	var generic map[string]interface{}
	if err := json.Unmarshal(raw, &generic); err != nil {
		return "", err
	}

	return canonicalize(generic), nil
}

func canonicalize(v interface{}) string {
	switch t := v.(type) {
	case map[string]interface{}:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		out := "{"
		for i, k := range keys {
			if i > 0 {
				out += ","
			}
			out += jsonQuote(k) + ":" + canonicalize(t[k])
		}
		return out + "}"
	case []interface{}:
		out := "["
		for i, item := range t {
			if i > 0 {
				out += ","
			}
			out += canonicalize(item)
		}
		return out + "]"
	default:
		raw, _ := json.Marshal(t)
		return string(raw)
	}
}

func jsonQuote(s string) string {
	raw, _ := json.Marshal(s)
	return string(raw)
}
