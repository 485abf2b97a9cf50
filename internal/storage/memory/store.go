// Package memory provides in-memory reference implementations of the storage
// interfaces. State lives for the process lifetime only.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/promptforge/promptforge/internal/domain"
	"github.com/promptforge/promptforge/internal/storage"
)

// PromptStore is an in-memory implementation of storage.PromptStore.
type PromptStore struct {
	mu      sync.RWMutex
	prompts map[string]*domain.Prompt
}

var _ storage.PromptStore = (*PromptStore)(nil)

// NewPromptStore creates an empty in-memory prompt store.
func NewPromptStore() *PromptStore {
	return &PromptStore{prompts: make(map[string]*domain.Prompt)}
}

func (s *PromptStore) StorePrompt(ctx context.Context, p *domain.Prompt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prompts[p.ID] = p.Clone()
	return nil
}

func (s *PromptStore) GetPrompt(ctx context.Context, id string) (*domain.Prompt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.prompts[id]
	if !ok {
		return nil, &domain.PromptNotFoundError{ID: id}
	}
	return p.Clone(), nil
}

func (s *PromptStore) ListPrompts(ctx context.Context) ([]*domain.Prompt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*domain.Prompt, 0, len(s.prompts))
	for _, p := range s.prompts {
		result = append(result, p.Clone())
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// DataStore is an in-memory implementation of storage.DataStore.
type DataStore struct {
	mu   sync.RWMutex
	runs []*domain.RunData
}

var _ storage.DataStore = (*DataStore)(nil)

// NewDataStore creates an empty in-memory data store.
func NewDataStore() *DataStore {
	return &DataStore{}
}

func (s *DataStore) StoreRun(ctx context.Context, run *domain.RunData) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs = append(s.runs, run)
	return nil
}

func (s *DataStore) ListRuns(ctx context.Context) ([]*domain.RunData, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*domain.RunData, len(s.runs))
	for i, r := range s.runs {
		result[len(s.runs)-1-i] = r
	}
	return result, nil
}
