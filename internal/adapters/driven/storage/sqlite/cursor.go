package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
)

// ErrNoRow is returned by row accessors before the first Next, after
// Next has returned false, and after Close.
var ErrNoRow = errors.New("cursor has no current row")

// Cursor is a forward-only, single-pass iterator over query results.
// Columns are addressed by zero-based position in projection order.
//
//	for cur.Next() {
//	    id, _ := cur.Int64(0)
//	}
//	if err := cur.Err(); err != nil { ... }
type Cursor struct {
	rows   *sql.Rows
	cols   []string
	vals   []any
	ptrs   []any
	err    error
	hasRow bool
	closed bool
}

func newCursor(rows *sql.Rows) (*Cursor, error) {
	cols, err := rows.Columns()
	if err != nil {
		rows.Close()
		return nil, fmt.Errorf("reading columns: %w", err)
	}
	c := &Cursor{
		rows: rows,
		cols: cols,
		vals: make([]any, len(cols)),
		ptrs: make([]any, len(cols)),
	}
	for i := range c.vals {
		c.ptrs[i] = &c.vals[i]
	}
	return c, nil
}

// Columns returns the result column names.
func (c *Cursor) Columns() []string {
	return c.cols
}

// Next advances to the next row. It returns false at the end of the
// result, on error, or once the cursor is closed.
func (c *Cursor) Next() bool {
	c.hasRow = false
	if c.closed || c.err != nil {
		return false
	}
	if !c.rows.Next() {
		c.err = c.rows.Err()
		return false
	}
	if err := c.rows.Scan(c.ptrs...); err != nil {
		c.err = fmt.Errorf("scanning row: %w", err)
		return false
	}
	c.hasRow = true
	return true
}

// Value returns column i of the current row as the driver produced it.
// NULL is returned as nil.
func (c *Cursor) Value(i int) (any, error) {
	if !c.hasRow {
		return nil, ErrNoRow
	}
	if i < 0 || i >= len(c.vals) {
		return nil, fmt.Errorf("column %d out of range [0,%d)", i, len(c.vals))
	}
	return c.vals[i], nil
}

// Int64 returns column i of the current row as an integer.
func (c *Cursor) Int64(i int) (int64, error) {
	v, err := c.Value(i)
	if err != nil {
		return 0, err
	}
	switch n := v.(type) {
	case int64:
		return n, nil
	case nil:
		return 0, nil
	default:
		return 0, fmt.Errorf("column %d (%s) is %T, not an integer", i, c.cols[i], v)
	}
}

// String returns column i of the current row as text.
func (c *Cursor) String(i int) (string, error) {
	v, err := c.Value(i)
	if err != nil {
		return "", err
	}
	switch s := v.(type) {
	case string:
		return s, nil
	case []byte:
		return string(s), nil
	case nil:
		return "", nil
	default:
		return "", fmt.Errorf("column %d (%s) is %T, not text", i, c.cols[i], v)
	}
}

// Scan copies the current row into dest, as sql.Rows.Scan does.
func (c *Cursor) Scan(dest ...any) error {
	if !c.hasRow {
		return ErrNoRow
	}
	return c.rows.Scan(dest...)
}

// Err returns the error, if any, that stopped iteration.
func (c *Cursor) Err() error {
	return c.err
}

// Close releases the underlying statement. It is safe to call more than once.
func (c *Cursor) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	c.hasRow = false
	return c.rows.Close()
}

// WithCursor runs fn over c and closes c on every exit path,
// including early return and panic.
func WithCursor[T any](c *Cursor, fn func(*Cursor) (T, error)) (T, error) {
	defer c.Close() //nolint:errcheck
	return fn(c)
}
