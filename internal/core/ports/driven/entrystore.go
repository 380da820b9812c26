package driven

import (
	"context"

	"github.com/Oikawa124/ItsuNani/internal/core/domain"
)

// EntryStore persists entries.
// Backed by the embedded SQLite database.
type EntryStore interface {
	// Insert stores a new entry stamped with the current time
	// and returns its assigned ID.
	Insert(ctx context.Context, body string) (int64, error)

	// Get retrieves an entry by ID.
	// Returns domain.ErrNotFound if no entry has that ID.
	Get(ctx context.Context, id int64) (*domain.Entry, error)

	// Update replaces the body of an entry, keeping its timestamp.
	// Returns domain.ErrNotFound if no entry has that ID.
	Update(ctx context.Context, id int64, body string) error

	// Delete removes each ID independently and returns how many rows
	// were removed. Missing IDs are skipped. The batch is not atomic:
	// on failure, earlier deletes stay and later ones never run.
	Delete(ctx context.Context, ids []int64) (int, error)

	// List returns entries matching the query.
	List(ctx context.Context, q domain.EntryQuery) ([]domain.Entry, error)
}
