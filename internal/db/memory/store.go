// Package memory is an in-process content store with the same contract as the
// SQL store. Nothing survives a restart.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/user/notecards/internal/content"
)

type entry struct {
	item content.Item
	seq  int
}

type Store struct {
	mu   sync.RWMutex
	now  func() time.Time
	seq  int
	byID map[string]entry
}

func New() *Store {
	return &Store{
		now:  time.Now,
		byID: make(map[string]entry),
	}
}

// WithClock replaces the time source; tests use it to control createdAt.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

func (s *Store) List(ctx context.Context) ([]content.Item, error) {
	return s.collect(ctx, func(content.Item) bool { return true })
}

func (s *Store) ListByType(ctx context.Context, t content.Type) ([]content.Item, error) {
	return s.collect(ctx, func(it content.Item) bool { return it.Type == t })
}

func (s *Store) Get(ctx context.Context, id string) (*content.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.byID[id]
	if !ok {
		return nil, notFound(id)
	}
	it := e.item
	return &it, nil
}

func (s *Store) Create(ctx context.Context, d content.Draft) (*content.Item, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	it := content.NewItem(uuid.NewString(), d, s.now().UTC())
	s.byID[it.ID] = entry{item: it, seq: s.seq}
	return &it, nil
}

func (s *Store) Update(ctx context.Context, id string, p content.Patch) (*content.Item, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.byID[id]
	if !ok {
		return nil, notFound(id)
	}
	e.item = p.Apply(e.item)
	s.byID[id] = e
	it := e.item
	return &it, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[id]; !ok {
		return notFound(id)
	}
	delete(s.byID, id)
	return nil
}

func (s *Store) Count(ctx context.Context) (int, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID), nil
}

func (s *Store) Ping(ctx context.Context) error { return ctx.Err() }

func (s *Store) Close() error { return nil }

func (s *Store) collect(ctx context.Context, keep func(content.Item) bool) ([]content.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	entries := make([]entry, 0, len(s.byID))
	for _, e := range s.byID {
		if keep(e.item) {
			entries = append(entries, e)
		}
	}
	s.mu.RUnlock()

	// newest first, later insertions first on equal timestamps
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if !a.item.CreatedAt.Equal(b.item.CreatedAt) {
			return a.item.CreatedAt.After(b.item.CreatedAt)
		}
		return a.seq > b.seq
	})

	out := make([]content.Item, len(entries))
	for i, e := range entries {
		out[i] = e.item
	}
	return out, nil
}

func notFound(id string) error {
	return fmt.Errorf("content item %s: %w", id, content.ErrNotFound)
}
