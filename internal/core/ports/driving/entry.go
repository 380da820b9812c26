package driving

import (
	"context"

	"github.com/Oikawa124/ItsuNani/internal/core/domain"
)

// EntryService manages notes.
type EntryService interface {
	// Add records a new entry and returns its ID.
	Add(ctx context.Context, body string) (int64, error)

	// Get retrieves an entry by ID.
	Get(ctx context.Context, id int64) (*domain.Entry, error)

	// Edit replaces an entry's body. The original timestamp is kept.
	Edit(ctx context.Context, id int64, body string) error

	// Delete removes entries by ID and reports how many were removed.
	Delete(ctx context.Context, ids []int64) (int, error)

	// List returns entries matching the query.
	List(ctx context.Context, q domain.EntryQuery) ([]domain.Entry, error)
}
