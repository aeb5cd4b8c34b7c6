package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/moedit/pkg/domain"
)

// Store implements ports.DocumentStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]string
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store, optionally seeded with documents.
func NewStore(docs ...domain.Document) *Store {
	s := &Store{
		data: make(map[string]string, len(docs)),
	}
	for _, doc := range docs {
		s.data[doc.ID] = doc.Text
	}
	return s
}

// Save persists the document in memory.
func (s *Store) Save(ctx context.Context, doc domain.Document) error {
	if doc.ID == "" {
		return fmt.Errorf("document id cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[doc.ID] = doc.Text
	return nil
}

// Load retrieves the document from memory.
func (s *Store) Load(ctx context.Context, id string) (domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	text, ok := s.data[id]
	if !ok {
		return domain.Document{}, fmt.Errorf("%w: %s", domain.ErrDocumentNotFound, id)
	}
	return domain.Document{ID: id, Text: text}, nil
}

// Delete removes the document.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, id)
	return nil
}

// List returns the stored document IDs in lexical order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
