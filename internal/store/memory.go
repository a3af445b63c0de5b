package store

import (
	"context"
	"sync"

	"github.com/intellidoc/backend/internal/models"
)

// MemoryStore is an in-process DocumentStore for tests and dev runs.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string]*models.Document
}

// NewMemoryStore creates an empty in-memory document store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string]*models.Document)}
}

func (s *MemoryStore) Create(_ context.Context, doc *models.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *doc
	s.docs[doc.ID] = &copied
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*models.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *doc
	return &copied, nil
}

func (s *MemoryStore) Update(_ context.Context, id string, update models.DocumentUpdate) (*models.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[id]
	if !ok {
		return nil, ErrNotFound
	}
	applyUpdate(doc, update)
	copied := *doc
	return &copied, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[id]; !ok {
		return ErrNotFound
	}
	delete(s.docs, id)
	return nil
}

func (s *MemoryStore) ListByOwner(_ context.Context, ownerID string) ([]*models.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var docs []*models.Document
	for _, doc := range s.docs {
		if doc.OwnerID == ownerID {
			copied := *doc
			docs = append(docs, &copied)
		}
	}
	return docs, nil
}
