package domain

import "errors"

// Domain errors represent storage and lookup failures.
// Adapters wrap them with context; callers match with errors.Is.
var (
	// ErrNotFound indicates a requested entry does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// Storage Errors.

	// ErrStorageUnavailable indicates the database file cannot be opened,
	// created, or is not a usable database.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrHandleClosed indicates the store handle was used after Close.
	ErrHandleClosed = errors.New("store handle closed")

	// ErrQuerySyntax indicates a malformed query. Filter and ordering
	// templates are not validated up front, so this surfaces at execution.
	ErrQuerySyntax = errors.New("query syntax error")
)
