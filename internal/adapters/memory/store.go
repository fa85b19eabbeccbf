// Package memory is an in-process history store bounded by an item quota.
package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/csg33k/paycalc/internal/domain"
)

// Store keeps history items in a map. It is safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	items    map[string]*domain.HistoryItem
	maxItems int
}

// New returns a store holding at most maxItems items (unbounded when
// maxItems <= 0). Saving a new item into a full store fails with
// domain.ErrQuotaExceeded.
func New(maxItems int) *Store {
	return &Store{items: make(map[string]*domain.HistoryItem), maxItems: maxItems}
}

func (s *Store) Save(_ context.Context, item *domain.HistoryItem) (string, error) {
	if item.ID == "" {
		return "", fmt.Errorf("memory store: item has no id")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.items[item.ID]; !exists && s.maxItems > 0 && len(s.items) >= s.maxItems {
		return "", fmt.Errorf("memory store holds %d items: %w", s.maxItems, domain.ErrQuotaExceeded)
	}
	s.items[item.ID] = item.Clone()
	return item.ID, nil
}

func (s *Store) Get(_ context.Context, id string) (*domain.HistoryItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h, ok := s.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return h.Clone(), nil
}

func (s *Store) List(_ context.Context, f domain.HistoryFilter) (domain.HistoryPage, error) {
	s.mu.RLock()
	matched := make([]*domain.HistoryItem, 0, len(s.items))
	for _, h := range s.items {
		if f.Matches(h) {
			matched = append(matched, h.Clone())
		}
	}
	s.mu.RUnlock()

	slices.SortFunc(matched, newestFirst)
	return f.Page(matched), nil
}

func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.items, id)
	return nil
}

func (s *Store) Clear(_ context.Context, f domain.HistoryFilter) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, h := range s.items {
		if f.Matches(h) {
			delete(s.items, id)
			n++
		}
	}
	return n, nil
}

// Len reports the number of stored items.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

func newestFirst(a, b *domain.HistoryItem) int {
	if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
		return c
	}
	return cmp.Compare(b.ID, a.ID)
}
