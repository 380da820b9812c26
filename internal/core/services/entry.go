package services

import (
	"context"

	"github.com/Oikawa124/ItsuNani/internal/core/domain"
	"github.com/Oikawa124/ItsuNani/internal/core/ports/driven"
	"github.com/Oikawa124/ItsuNani/internal/core/ports/driving"
	"github.com/Oikawa124/ItsuNani/internal/logger"
)

// Ensure EntryService implements the interface.
var _ driving.EntryService = (*EntryService)(nil)

// EntryService manages notes on top of an EntryStore.
type EntryService struct {
	entryStore driven.EntryStore
}

// NewEntryService creates a new entry service.
func NewEntryService(entryStore driven.EntryStore) *EntryService {
	return &EntryService{entryStore: entryStore}
}

// Add records a new entry.
func (s *EntryService) Add(ctx context.Context, body string) (int64, error) {
	if s.entryStore == nil {
		return 0, domain.ErrStorageUnavailable
	}
	id, err := s.entryStore.Insert(ctx, body)
	if err != nil {
		return 0, err
	}
	logger.Debug("entry added", "id", id, "bytes", len(body))
	return id, nil
}

// Get retrieves an entry by ID.
func (s *EntryService) Get(ctx context.Context, id int64) (*domain.Entry, error) {
	if s.entryStore == nil {
		return nil, domain.ErrStorageUnavailable
	}
	return s.entryStore.Get(ctx, id)
}

// Edit replaces an entry's body, keeping its timestamp.
func (s *EntryService) Edit(ctx context.Context, id int64, body string) error {
	if s.entryStore == nil {
		return domain.ErrStorageUnavailable
	}
	if err := s.entryStore.Update(ctx, id, body); err != nil {
		return err
	}
	logger.Debug("entry edited", "id", id, "bytes", len(body))
	return nil
}

// Delete removes entries by ID. An empty list is a no-op.
// On failure the count of entries already removed is returned with the error.
func (s *EntryService) Delete(ctx context.Context, ids []int64) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	if s.entryStore == nil {
		return 0, domain.ErrStorageUnavailable
	}
	n, err := s.entryStore.Delete(ctx, ids)
	if err != nil {
		logger.Warn("delete stopped early", "requested", len(ids), "deleted", n, "error", err)
		return n, err
	}
	logger.Debug("entries deleted", "requested", len(ids), "deleted", n)
	return n, nil
}

// List returns entries matching q.
func (s *EntryService) List(ctx context.Context, q domain.EntryQuery) ([]domain.Entry, error) {
	if s.entryStore == nil {
		return nil, domain.ErrStorageUnavailable
	}
	if err := validateStruct(q); err != nil {
		return nil, err
	}
	return s.entryStore.List(ctx, q)
}
