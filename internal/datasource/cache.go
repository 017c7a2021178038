package datasource

import (
	"sync/atomic"
	"time"

	cache "github.com/patrickmn/go-cache"
)

// ResponseCache keeps decoded-ready response bodies for a short TTL so a
// batch run does not refetch the same feed endpoint.
type ResponseCache struct {
	cache  *cache.Cache
	ttl    time.Duration
	hits   atomic.Uint64
	misses atomic.Uint64
}

// NewResponseCache creates a cache. A zero ttl disables caching.
func NewResponseCache(ttl time.Duration) *ResponseCache {
	cleanup := ttl * 2
	if cleanup <= 0 {
		cleanup = time.Minute
	}
	return &ResponseCache{
		cache: cache.New(ttl, cleanup),
		ttl:   ttl,
	}
}

// Get returns the cached body for key.
func (rc *ResponseCache) Get(key string) ([]byte, bool) {
	if rc == nil || rc.ttl <= 0 {
		return nil, false
	}
	if v, ok := rc.cache.Get(key); ok {
		if body, ok := v.([]byte); ok {
			rc.hits.Add(1)
			return body, true
		}
	}
	rc.misses.Add(1)
	return nil, false
}

// Set stores body under key.
func (rc *ResponseCache) Set(key string, body []byte) {
	if rc == nil || rc.ttl <= 0 {
		return
	}
	rc.cache.Set(key, body, rc.ttl)
}

// Flush empties the cache.
func (rc *ResponseCache) Flush() {
	if rc == nil {
		return
	}
	rc.cache.Flush()
}

// Stats returns hit and miss counts.
func (rc *ResponseCache) Stats() (hits, misses uint64) {
	return rc.hits.Load(), rc.misses.Load()
}
