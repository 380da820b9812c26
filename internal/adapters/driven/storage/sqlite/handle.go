package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/Oikawa124/ItsuNani/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/Oikawa124/ItsuNani/internal/core/domain"
	"github.com/Oikawa124/ItsuNani/internal/core/ports/driven"
	"github.com/Oikawa124/ItsuNani/internal/logger"
)

// EntryTable is the only table this store manages.
const EntryTable = "entry"

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// Conn is the subset of database/sql used by the query layer.
// Both *sql.DB and *sql.Tx satisfy it.
type Conn interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Option configures a Handle.
type Option func(*Handle)

// WithSchemaVersion sets the schema version the caller expects.
// Files tagged with an older version have their entry table dropped
// and recreated on first use.
func WithSchemaVersion(v int) Option {
	return func(h *Handle) {
		h.version = v
	}
}

// WithClock sets the time source used to stamp inserted entries.
func WithClock(now func() time.Time) Option {
	return func(h *Handle) {
		h.now = now
	}
}

// Handle owns the connection to one SQLite database file.
// The schema is checked lazily on first use of the connection.
// A Handle is not safe for concurrent use.
type Handle struct {
	db      *sql.DB
	path    string
	version int
	now     func() time.Time
	ready   bool
	closed  bool
}

// Open opens or creates the database at path.
// If path is empty, defaults to ~/.itsunani/data/itsunani.db.
// Fails with domain.ErrStorageUnavailable if the file cannot be created
// or is not a readable SQLite database.
func Open(path string, opts ...Option) (*Handle, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("%w: getting home directory: %w", domain.ErrStorageUnavailable, err)
		}
		path = filepath.Join(home, ".itsunani", "data", domain.DefaultFileName)
	}

	dsn := path
	if path != MemoryPath {
		// Ensure directory exists
		if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
			return nil, fmt.Errorf("%w: creating data directory: %w", domain.ErrStorageUnavailable, err)
		}
		// WAL for crash safety, busy_timeout so a second process waits on the lock
		dsn = path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: opening database: %w", domain.ErrStorageUnavailable, err)
	}
	if path == MemoryPath {
		// Every new connection to :memory: is a different database.
		db.SetMaxOpenConns(1)
	}

	h := &Handle{
		db:      db,
		path:    path,
		version: domain.DefaultSchemaVersion,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.version < 1 {
		db.Close()
		return nil, fmt.Errorf("%w: schema version must be positive, got %d", domain.ErrInvalidInput, h.version)
	}

	if err := h.probe(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Debug("opened store", "path", path, "schema_version", h.version)
	return h, nil
}

// probe forces SQLite to read the file header so that a corrupt or
// foreign file is reported by Open rather than on first query.
func (h *Handle) probe() error {
	var n int
	if err := h.db.QueryRow("SELECT count(*) FROM sqlite_master").Scan(&n); err != nil {
		return fmt.Errorf("%w: reading %s: %w", domain.ErrStorageUnavailable, h.path, err)
	}
	return nil
}

// Path returns the database file path.
func (h *Handle) Path() string {
	return h.path
}

// Conn returns the live connection, creating or upgrading the schema
// on first call.
func (h *Handle) Conn(ctx context.Context) (Conn, error) {
	if h.closed {
		return nil, domain.ErrHandleClosed
	}
	if !h.ready {
		if err := h.ensureSchema(ctx); err != nil {
			return nil, err
		}
		h.ready = true
	}
	return h.db, nil
}

// Query runs b against this handle's connection.
// The returned cursor must be closed; see WithCursor.
func (h *Handle) Query(ctx context.Context, b SelectBuilder) (*Cursor, error) {
	conn, err := h.Conn(ctx)
	if err != nil {
		return nil, err
	}
	return b.Exec(ctx, conn)
}

// Version reports the schema version stored in the file.
func (h *Handle) Version(ctx context.Context) (int, error) {
	conn, err := h.Conn(ctx)
	if err != nil {
		return 0, err
	}
	return userVersion(ctx, conn)
}

// EntryStore returns an EntryStore backed by this handle.
func (h *Handle) EntryStore() driven.EntryStore {
	return &entryStore{handle: h}
}

// Close releases the connection. Only the first call closes;
// later calls return domain.ErrHandleClosed.
func (h *Handle) Close() error {
	if h.closed {
		return domain.ErrHandleClosed
	}
	h.closed = true
	logger.Debug("closing store", "path", h.path)
	return h.db.Close()
}

// ensureSchema creates the entry table on a fresh file and recreates it
// when the stored version is older than expected. The version tag lives
// in PRAGMA user_version.
func (h *Handle) ensureSchema(ctx context.Context) error {
	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: beginning schema transaction: %w", domain.ErrStorageUnavailable, err)
	}
	defer tx.Rollback() //nolint:errcheck

	current, err := userVersion(ctx, tx)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrStorageUnavailable, err)
	}

	switch {
	case current == h.version:
		// Tagged by us; the table may still be missing if it was dropped by hand.
		if _, err := tx.ExecContext(ctx, migrations.CreateEntryTable); err != nil {
			return fmt.Errorf("creating entry table: %w", err)
		}
		return tx.Commit()
	case current > h.version:
		return fmt.Errorf("%w: database schema version %d is newer than supported version %d",
			domain.ErrStorageUnavailable, current, h.version)
	case current > 0:
		logger.Notice("upgrading database, which will destroy all old data",
			"from", current, "to", h.version)
		if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+EntryTable); err != nil {
			return fmt.Errorf("dropping entry table: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx, migrations.CreateEntryTable); err != nil {
		return fmt.Errorf("creating entry table: %w", err)
	}
	// PRAGMA does not accept bound parameters; version is an int.
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", h.version)); err != nil {
		return fmt.Errorf("setting schema version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing schema: %w", err)
	}
	return nil
}

func userVersion(ctx context.Context, conn Conn) (int, error) {
	var v int
	if err := conn.QueryRowContext(ctx, "PRAGMA user_version").Scan(&v); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("reading schema version: %w", err)
	}
	return v, nil
}
