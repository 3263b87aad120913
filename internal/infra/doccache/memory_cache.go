package doccache

import (
	"context"
	"sync"
	"time"

	"github.com/msuny-c/fdb-viewer/internal/domain/document"
)

type cachedDocument struct {
	doc       document.Document
	expiresAt time.Time
}

// MemoryCache is an in-memory document.Cache for tests/dev.
type MemoryCache struct {
	mu   sync.RWMutex
	docs map[string]cachedDocument
}

// NewMemoryCache constructs a cache backed by process memory.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{docs: make(map[string]cachedDocument)}
}

// Get implements document.Cache.
func (c *MemoryCache) Get(_ context.Context, id string) (document.Document, bool, error) {
	c.mu.RLock()
	entry, ok := c.docs[id]
	c.mu.RUnlock()
	if !ok {
		return document.Document{}, false, nil
	}
	if hasExpired(entry.expiresAt) {
		c.mu.Lock()
		delete(c.docs, id)
		c.mu.Unlock()
		return document.Document{}, false, nil
	}
	return entry.doc, true, nil
}

// Set caches the document with optional TTL.
func (c *MemoryCache) Set(_ context.Context, doc document.Document, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	exp := time.Time{}
	if ttl > 0 {
		exp = time.Now().Add(ttl)
	}
	c.docs[doc.ID] = cachedDocument{doc: doc, expiresAt: exp}
	return nil
}

func hasExpired(ts time.Time) bool {
	if ts.IsZero() {
		return false
	}
	return ts.Before(time.Now())
}

var _ document.Cache = (*MemoryCache)(nil)
