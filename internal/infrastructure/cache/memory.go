package cache

import (
	"context"
	"sync"

	"github.com/caloriefinder/backend/internal/domain"
)

// MemoryCache is a thread-safe in-process lookup cache.
// Entries never expire; growth is bounded only by the number of distinct barcodes looked up.
type MemoryCache struct {
	data  map[string]*domain.LookupResponse
	mutex sync.RWMutex
}

// NewMemoryCache creates a new in-memory cache
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		data: make(map[string]*domain.LookupResponse),
	}
}

// Get retrieves the lookup document stored for a barcode
func (c *MemoryCache) Get(ctx context.Context, barcode string) (*domain.LookupResponse, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	doc, exists := c.data[barcode]
	if !exists {
		return nil, domain.ErrCacheMiss
	}

	return doc, nil
}

// Set stores a lookup document for a barcode
func (c *MemoryCache) Set(ctx context.Context, barcode string, doc *domain.LookupResponse) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.data[barcode] = doc
	return nil
}

// Size returns the current number of items in the cache (for debugging/monitoring)
func (c *MemoryCache) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.data)
}

