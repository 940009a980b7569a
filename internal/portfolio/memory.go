package portfolio

import (
	"context"
	"sync"

	"portfolio-chat/internal/domain"
)

// MemoryStore keeps portfolio items for the lifetime of the process.
type MemoryStore struct {
	mu    sync.RWMutex
	items []domain.PortfolioItem
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Append(_ context.Context, item domain.PortfolioItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	item.Tags = append([]string(nil), item.Tags...)
	s.items = append(s.items, item)
	return nil
}

func (s *MemoryStore) List(_ context.Context) ([]domain.PortfolioItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.PortfolioItem, len(s.items))
	copy(out, s.items)
	return out, nil
}
