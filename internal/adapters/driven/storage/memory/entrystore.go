package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Oikawa124/ItsuNani/internal/core/domain"
	"github.com/Oikawa124/ItsuNani/internal/core/ports/driven"
)

// Ensure EntryStore implements the interface.
var _ driven.EntryStore = (*EntryStore)(nil)

// EntryStore is an in-memory implementation of driven.EntryStore.
// IDs start at 1 and are never reused, matching the SQLite store.
type EntryStore struct {
	mu      sync.RWMutex
	entries map[int64]domain.Entry
	lastID  int64
	now     func() time.Time
}

// NewEntryStore creates a new in-memory entry store using the wall clock.
func NewEntryStore() *EntryStore {
	return NewEntryStoreWithClock(time.Now)
}

// NewEntryStoreWithClock creates a store that stamps entries using now.
func NewEntryStoreWithClock(now func() time.Time) *EntryStore {
	return &EntryStore{
		entries: make(map[int64]domain.Entry),
		now:     now,
	}
}

// Insert stores a new entry.
func (s *EntryStore) Insert(_ context.Context, body string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastID++
	s.entries[s.lastID] = domain.Entry{
		ID:        s.lastID,
		Body:      body,
		Timestamp: domain.Timestamp(s.now()),
	}
	return s.lastID, nil
}

// Get retrieves an entry by ID.
func (s *EntryStore) Get(_ context.Context, id int64) (*domain.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[id]
	if !ok {
		return nil, fmt.Errorf("entry %d: %w", id, domain.ErrNotFound)
	}
	return &e, nil
}

// Update replaces an entry's body.
func (s *EntryStore) Update(_ context.Context, id int64, body string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok {
		return fmt.Errorf("entry %d: %w", id, domain.ErrNotFound)
	}
	e.Body = body
	s.entries[id] = e
	return nil
}

// Delete removes entries by ID.
func (s *EntryStore) Delete(ctx context.Context, ids []int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	deleted := 0
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return deleted, err
		}
		if _, ok := s.entries[id]; ok {
			delete(s.entries, id)
			deleted++
		}
	}
	return deleted, nil
}

// List returns entries matching q.
func (s *EntryStore) List(_ context.Context, q domain.EntryQuery) ([]domain.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []domain.Entry
	for _, e := range s.entries {
		if q.Search != "" && !strings.Contains(e.Body, q.Search) {
			continue
		}
		result = append(result, e)
	}

	sort.Slice(result, func(i, j int) bool {
		a, b := result[i], result[j]
		if q.Oldest {
			a, b = b, a
		}
		if a.Timestamp != b.Timestamp {
			return a.Timestamp > b.Timestamp
		}
		return a.ID > b.ID
	})

	if q.Limit > 0 {
		if q.Offset >= len(result) {
			return nil, nil
		}
		result = result[q.Offset:]
		if len(result) > q.Limit {
			result = result[:q.Limit]
		}
	}
	return result, nil
}
