// Package sqlite provides the SQLite-based implementation of the entry store.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. It is made of three parts:
//
//   - Handle: owns the database file and its connection, and creates or
//     recreates the schema on first use
//   - SelectBuilder and Cursor: a small value-type query builder and a
//     forward-only result iterator
//   - EntryStore: insert, get, update, delete and list on the entry table,
//     implementing driven.EntryStore
//
// # Schema
//
// A single table:
//
//	entry (id INTEGER PRIMARY KEY AUTOINCREMENT, body TEXT, timestamp INTEGER)
//
// The CREATE statement lives in migrations/entry.sql and is embedded at build time.
//
// The schema version is stored in PRAGMA user_version. When a file carries an
// older version than the Handle expects, the entry table is dropped and
// recreated. There is no migration path; all entries are lost.
//
// # Data Location
//
// By default, the database is stored at ~/.itsunani/data/itsunani.db
//
// # Thread Safety
//
// A Handle is meant for a single user on a single goroutine. No locking is
// added above SQLite's own; the file is opened in WAL mode with a busy timeout.
package sqlite
