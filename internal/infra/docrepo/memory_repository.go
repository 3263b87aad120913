package docrepo

import (
	"context"
	"sync"

	"github.com/msuny-c/fdb-viewer/internal/domain/document"
)

// MemoryRepository is an in-memory document.Repository used for tests/dev.
type MemoryRepository struct {
	mu   sync.RWMutex
	docs map[string]document.Document
}

// NewMemoryRepository constructs a repo backed by memory.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{docs: make(map[string]document.Document)}
}

// Create implements document.Repository.
func (r *MemoryRepository) Create(_ context.Context, doc document.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.docs[doc.ID]; exists {
		return document.ErrDuplicateID
	}
	r.docs[doc.ID] = doc
	return nil
}

// Get implements document.Repository.
func (r *MemoryRepository) Get(_ context.Context, id string) (document.Document, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	doc, ok := r.docs[id]
	return doc, ok, nil
}

var _ document.Repository = (*MemoryRepository)(nil)
