// Package cache holds rendered responses for a short time.
package cache

import (
	"net/http"
	"time"

	"github.com/dgraph-io/ristretto/v2"
)

// Response is a captured HTTP response.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// PageCache is a TTL cache of rendered pages keyed by string.
type PageCache struct {
	store *ristretto.Cache[string, *Response]
}

// NewPageCache creates a cache holding up to maxBytes of response bodies.
func NewPageCache(maxBytes int64) (*PageCache, error) {
	store, err := ristretto.NewCache(&ristretto.Config[string, *Response]{
		NumCounters: 10_000,
		MaxCost:     maxBytes,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &PageCache{store: store}, nil
}

// Get returns the cached response for key.
func (c *PageCache) Get(key string) (*Response, bool) {
	return c.store.Get(key)
}

// Set stores resp under key for ttl. The write is visible to Get once Set
// returns.
func (c *PageCache) Set(key string, resp *Response, ttl time.Duration) {
	cost := int64(len(resp.Body))
	if cost == 0 {
		cost = 1
	}
	if c.store.SetWithTTL(key, resp, cost, ttl) {
		c.store.Wait()
	}
}

// Clear drops every entry.
func (c *PageCache) Clear() {
	c.store.Clear()
}

// Close stops the cache's background goroutines.
func (c *PageCache) Close() {
	c.store.Close()
}
