package sqlite

import (
	"context"
	"fmt"

	"github.com/Oikawa124/ItsuNani/internal/core/domain"
	"github.com/Oikawa124/ItsuNani/internal/core/ports/driven"
)

// entryColumns is the projection used for every entry read.
var entryColumns = []string{"id", "body", "timestamp"}

// entryStore implements driven.EntryStore.
type entryStore struct {
	handle *Handle
}

var _ driven.EntryStore = (*entryStore)(nil)

// Insert stores body stamped with the handle's clock and returns the new ID.
func (s *entryStore) Insert(ctx context.Context, body string) (int64, error) {
	conn, err := s.handle.Conn(ctx)
	if err != nil {
		return 0, err
	}

	ts := domain.Timestamp(s.handle.now())
	res, err := conn.ExecContext(ctx,
		"INSERT INTO entry (body, timestamp) VALUES (?, ?)", body, ts)
	if err != nil {
		return 0, fmt.Errorf("inserting entry: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading entry id: %w", err)
	}
	return id, nil
}

// Get retrieves an entry by ID.
func (s *entryStore) Get(ctx context.Context, id int64) (*domain.Entry, error) {
	cur, err := s.handle.Query(ctx, Select(EntryTable).
		Columns(entryColumns...).
		Where("id = ?", id))
	if err != nil {
		return nil, err
	}

	return WithCursor(cur, func(c *Cursor) (*domain.Entry, error) {
		if !c.Next() {
			if err := c.Err(); err != nil {
				return nil, fmt.Errorf("reading entry %d: %w", id, err)
			}
			return nil, fmt.Errorf("entry %d: %w", id, domain.ErrNotFound)
		}
		e, err := scanEntry(c)
		if err != nil {
			return nil, err
		}
		return &e, nil
	})
}

// Update rewrites the body of an entry. The timestamp is read back first
// and written unchanged.
func (s *entryStore) Update(ctx context.Context, id int64, body string) error {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	conn, err := s.handle.Conn(ctx)
	if err != nil {
		return err
	}
	if _, err := conn.ExecContext(ctx,
		"UPDATE entry SET body = ?, timestamp = ? WHERE id = ?",
		body, existing.Timestamp, id); err != nil {
		return fmt.Errorf("updating entry %d: %w", id, err)
	}
	return nil
}

// Delete removes each ID with its own statement. There is no enclosing
// transaction; the count of rows removed before a failure is returned
// alongside the error.
func (s *entryStore) Delete(ctx context.Context, ids []int64) (int, error) {
	deleted := 0
	for _, id := range ids {
		conn, err := s.handle.Conn(ctx)
		if err != nil {
			return deleted, err
		}
		res, err := conn.ExecContext(ctx, "DELETE FROM entry WHERE id = ?", id)
		if err != nil {
			return deleted, fmt.Errorf("deleting entry %d: %w", id, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return deleted, fmt.Errorf("deleting entry %d: %w", id, err)
		}
		deleted += int(n)
	}
	return deleted, nil
}

// List returns entries matching q, newest first unless q.Oldest.
func (s *entryStore) List(ctx context.Context, q domain.EntryQuery) ([]domain.Entry, error) {
	b := Select(EntryTable).Columns(entryColumns...)
	if q.Search != "" {
		b = b.Where("instr(body, ?) > 0", q.Search)
	}
	if q.Oldest {
		b = b.OrderBy("timestamp ASC, id ASC")
	} else {
		b = b.OrderBy("timestamp DESC, id DESC")
	}
	b = b.Limit(q.Limit).Offset(q.Offset)

	cur, err := s.handle.Query(ctx, b)
	if err != nil {
		return nil, err
	}

	return WithCursor(cur, func(c *Cursor) ([]domain.Entry, error) {
		var entries []domain.Entry //nolint:prealloc // size unknown from query
		for c.Next() {
			e, err := scanEntry(c)
			if err != nil {
				return nil, err
			}
			entries = append(entries, e)
		}
		if err := c.Err(); err != nil {
			return nil, fmt.Errorf("iterating entries: %w", err)
		}
		return entries, nil
	})
}

// scanEntry reads the current row in entryColumns order.
func scanEntry(c *Cursor) (domain.Entry, error) {
	var e domain.Entry
	var err error
	if e.ID, err = c.Int64(0); err != nil {
		return e, fmt.Errorf("scanning entry: %w", err)
	}
	if e.Body, err = c.String(1); err != nil {
		return e, fmt.Errorf("scanning entry: %w", err)
	}
	if e.Timestamp, err = c.Int64(2); err != nil {
		return e, fmt.Errorf("scanning entry: %w", err)
	}
	return e, nil
}
