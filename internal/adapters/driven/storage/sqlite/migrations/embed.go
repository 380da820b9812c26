// Package migrations embeds the SQL schema for the SQLite store.
package migrations

import _ "embed" // for go:embed

// CreateEntryTable creates the entry table if it does not exist.
//
//go:embed entry.sql
var CreateEntryTable string
