package storage

import (
	"cmp"
	"context"
	"slices"
	"sync"

	perrors "github.com/matzehuels/ptplot/pkg/errors"
)

// MemoryStore keeps plots in a map.
type MemoryStore struct {
	mu    sync.RWMutex
	plots map[string]*Plot
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{plots: make(map[string]*Plot)}
}

func (s *MemoryStore) Get(_ context.Context, id string) (*Plot, error) {
	if err := perrors.ValidatePlotID(id); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.plots[id]
	if !ok || p.IsExpired() {
		return nil, notFound(id)
	}
	cp := *p
	return &cp, nil
}

func (s *MemoryStore) Put(_ context.Context, p *Plot) error {
	if err := validate(p); err != nil {
		return err
	}
	cp := *p
	s.mu.Lock()
	s.plots[p.ID] = &cp
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) List(_ context.Context, limit int) ([]*Plot, error) {
	s.mu.RLock()
	out := make([]*Plot, 0, len(s.plots))
	for _, p := range s.plots {
		if !p.IsExpired() {
			cp := *p
			out = append(out, &cp)
		}
	}
	s.mu.RUnlock()
	return newestFirst(out, limit), nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.plots, id)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Cleanup(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, p := range s.plots {
		if p.IsExpired() {
			delete(s.plots, id)
		}
	}
	return nil
}

func (s *MemoryStore) Close(context.Context) error { return nil }

// newestFirst sorts by creation time, newest first, and truncates to limit
// when limit is positive.
func newestFirst(plots []*Plot, limit int) []*Plot {
	slices.SortFunc(plots, func(a, b *Plot) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	if limit > 0 && len(plots) > limit {
		plots = plots[:limit]
	}
	return plots
}

var _ Store = (*MemoryStore)(nil)
