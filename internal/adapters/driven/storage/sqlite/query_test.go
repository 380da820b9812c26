package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Oikawa124/ItsuNani/internal/core/domain"
)

func TestSelectBuilder_SQL(t *testing.T) {
	tests := []struct {
		name     string
		builder  SelectBuilder
		wantSQL  string
		wantArgs []any
	}{
		{
			name:     "all columns",
			builder:  Select(EntryTable),
			wantSQL:  "SELECT * FROM entry",
			wantArgs: []any{},
		},
		{
			name: "projection filter and order",
			builder: Select(EntryTable).
				Columns("id", "body").
				Where("id = ? AND body <> ?", int64(1), "").
				OrderBy("timestamp DESC"),
			wantSQL:  "SELECT id, body FROM entry WHERE id = ? AND body <> ? ORDER BY timestamp DESC",
			wantArgs: []any{int64(1), ""},
		},
		{
			name: "every clause",
			builder: Select(EntryTable).
				Distinct().
				Columns("body", "count(*)").
				Where("timestamp > ?", 0).
				GroupBy("body").
				Having("count(*) > 1").
				OrderBy("body").
				Limit(5).
				Offset(10),
			wantSQL:  "SELECT DISTINCT body, count(*) FROM entry WHERE timestamp > ? GROUP BY body HAVING count(*) > 1 ORDER BY body LIMIT 5 OFFSET 10",
			wantArgs: []any{0},
		},
		{
			name:     "zero limit means no limit",
			builder:  Select(EntryTable).Limit(0),
			wantSQL:  "SELECT * FROM entry",
			wantArgs: []any{},
		},
		{
			name:     "later setter replaces earlier",
			builder:  Select(EntryTable).OrderBy("id").OrderBy("timestamp"),
			wantSQL:  "SELECT * FROM entry ORDER BY timestamp",
			wantArgs: []any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args := tt.builder.SQL()
			assert.Equal(t, tt.wantSQL, sql)
			assert.ElementsMatch(t, tt.wantArgs, args)
		})
	}
}

func TestSelectBuilder_CopiesOnWrite(t *testing.T) {
	cols := []string{"id", "body"}
	base := Select(EntryTable).Columns(cols...)

	recent := base.OrderBy("timestamp DESC").Limit(3)
	filtered := base.Where("id = ?", 1)
	cols[0] = "timestamp"

	baseSQL, _ := base.SQL()
	assert.Equal(t, "SELECT id, body FROM entry", baseSQL)

	recentSQL, _ := recent.SQL()
	assert.Equal(t, "SELECT id, body FROM entry ORDER BY timestamp DESC LIMIT 3", recentSQL)

	filteredSQL, args := filtered.SQL()
	assert.Equal(t, "SELECT id, body FROM entry WHERE id = ?", filteredSQL)
	assert.Equal(t, []any{1}, args)

	// Mutating the returned args does not leak back into the builder.
	args[0] = 99
	_, again := filtered.SQL()
	assert.Equal(t, []any{1}, again)

	assert.Equal(t, EntryTable, recent.Table())
}

func TestSelectBuilder_ExecRejectsBadGrammar(t *testing.T) {
	h, _ := openTestHandle(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		builder SelectBuilder
	}{
		{"empty table", Select("  ")},
		{"having without group by", Select(EntryTable).Having("count(*) > 1")},
		{"offset without limit", Select(EntryTable).Offset(3)},
		{"malformed where", Select(EntryTable).Where("id = = ?", 1)},
		{"unknown column", Select(EntryTable).Columns("no_such_column")},
		{"unknown table", Select("no_such_table")},
		{"malformed order", Select(EntryTable).OrderBy("timestamp DESCENDING")},
		{"too few arguments", Select(EntryTable).Where("id = ? AND body = ?", 1)},
		{"too many arguments", Select(EntryTable).Where("id = ?", 1, 2)},
		{"arguments without placeholders", Select(EntryTable).Where("id = 1", 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cur, err := h.Query(ctx, tt.builder)
			assert.Nil(t, cur)
			assert.ErrorIs(t, err, domain.ErrQuerySyntax)
		})
	}
}

func TestParamCount(t *testing.T) {
	tests := []struct {
		query string
		want  int
	}{
		{"SELECT * FROM entry", 0},
		{"SELECT * FROM entry WHERE id = ?", 1},
		{"SELECT * FROM entry WHERE id = ? AND body = ?", 2},
		{"SELECT * FROM entry WHERE id = ?3", 3},
		{"SELECT * FROM entry WHERE id = ?2 OR id = ?1", 2},
		{"SELECT * FROM entry WHERE body = :b OR body = :b", 1},
		{"SELECT * FROM entry WHERE body = @a AND id = $id AND timestamp = ?", 3},
		{"SELECT * FROM entry WHERE body = '?' AND id = ?", 1},
		{"SELECT * FROM entry WHERE body = 'it''s ?' AND id = ?", 1},
		{`SELECT "odd?col" FROM entry`, 0},
		{"SELECT [a?b] FROM entry", 0},
		{"SELECT * FROM entry -- id = ?\nWHERE id = ?", 1},
		{"SELECT * FROM entry /* ? ? */ WHERE id = ?", 1},
		{"SELECT time(timestamp, '12:00') FROM entry", 0},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, paramCount(tt.query))
		})
	}
}

func TestSelectBuilder_ExecProjectionOrder(t *testing.T) {
	h, _ := newTestEntryStore(t)
	ctx := context.Background()

	_, err := h.EntryStore().Insert(ctx, "projected")
	require.NoError(t, err)

	cur, err := h.Query(ctx, Select(EntryTable).Columns("timestamp", "body"))
	require.NoError(t, err)

	type row struct {
		ts   int64
		body string
	}
	got, err := WithCursor(cur, func(c *Cursor) (row, error) {
		require.True(t, c.Next())
		ts, err := c.Int64(0)
		if err != nil {
			return row{}, err
		}
		body, err := c.String(1)
		return row{ts, body}, err
	})
	require.NoError(t, err)
	assert.Equal(t, row{t0.UnixMilli(), "projected"}, got)
	assert.Equal(t, []string{"timestamp", "body"}, cur.Columns())
}

func TestSelectBuilder_ExecAllColumnsInTableOrder(t *testing.T) {
	h, _ := openTestHandle(t)

	cur, err := h.Query(context.Background(), Select(EntryTable))
	require.NoError(t, err)
	defer cur.Close()

	assert.Equal(t, []string{"id", "body", "timestamp"}, cur.Columns())
	assert.False(t, cur.Next(), "fresh table is empty")
	assert.NoError(t, cur.Err())
}

func TestSelectBuilder_ExecGroupByHaving(t *testing.T) {
	h, _ := newTestEntryStore(t)
	ctx := context.Background()
	store := h.EntryStore()

	for _, body := range []string{"dup", "dup", "single", "dup"} {
		_, err := store.Insert(ctx, body)
		require.NoError(t, err)
	}

	cur, err := h.Query(ctx, Select(EntryTable).
		Columns("body", "count(*)").
		GroupBy("body").
		Having("count(*) > 1"))
	require.NoError(t, err)

	type group struct {
		body  string
		count int64
	}
	groups, err := WithCursor(cur, func(c *Cursor) ([]group, error) {
		var out []group
		for c.Next() {
			var g group
			if err := c.Scan(&g.body, &g.count); err != nil {
				return nil, err
			}
			out = append(out, g)
		}
		return out, c.Err()
	})
	require.NoError(t, err)
	assert.Equal(t, []group{{"dup", 3}}, groups)
}

func TestSelectBuilder_ExecDistinct(t *testing.T) {
	h, _ := newTestEntryStore(t)
	ctx := context.Background()
	store := h.EntryStore()

	for _, body := range []string{"same", "same", "other"} {
		_, err := store.Insert(ctx, body)
		require.NoError(t, err)
	}

	cur, err := h.Query(ctx, Select(EntryTable).Distinct().Columns("body").OrderBy("body"))
	require.NoError(t, err)

	got, err := WithCursor(cur, func(c *Cursor) ([]string, error) {
		var out []string
		for c.Next() {
			s, err := c.String(0)
			if err != nil {
				return nil, err
			}
			out = append(out, s)
		}
		return out, c.Err()
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"other", "same"}, got)
}

func TestSelectBuilder_ExecInsideTransaction(t *testing.T) {
	h, _ := openTestHandle(t)
	ctx := context.Background()

	_, err := h.Conn(ctx)
	require.NoError(t, err)

	tx, err := h.db.BeginTx(ctx, nil)
	require.NoError(t, err)
	defer tx.Rollback() //nolint:errcheck

	_, err = tx.ExecContext(ctx, "INSERT INTO entry (body, timestamp) VALUES (?, ?)", "in tx", 1)
	require.NoError(t, err)

	cur, err := Select(EntryTable).Columns("body").Exec(ctx, tx)
	require.NoError(t, err)
	body, err := WithCursor(cur, func(c *Cursor) (string, error) {
		if !c.Next() {
			return "", c.Err()
		}
		return c.String(0)
	})
	require.NoError(t, err)
	assert.Equal(t, "in tx", body)
}

func TestSelectBuilder_ExecCanceledContext(t *testing.T) {
	h, _ := openTestHandle(t)
	_, err := h.Conn(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = Select(EntryTable).Exec(ctx, h.db)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, domain.ErrQuerySyntax)
}
