package sqlite

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	sqlitedrv "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/Oikawa124/ItsuNani/internal/core/domain"
)

// SelectBuilder assembles a SELECT against a single table.
// Setters return a modified copy, so a partially built query can be
// shared and extended without affecting other copies:
//
//	base := sqlite.Select(sqlite.EntryTable).Columns("id", "body")
//	recent := base.OrderBy("timestamp DESC").Limit(10)
//	cur, err := recent.Exec(ctx, conn)
//
// Templates passed to Where, OrderBy, GroupBy and Having are used verbatim.
// They are not checked until execution.
type SelectBuilder struct {
	table    string
	distinct bool
	columns  []string
	where    string
	args     []any
	groupBy  string
	having   string
	orderBy  string
	limit    int
	offset   int
}

// Select starts a query on table.
func Select(table string) SelectBuilder {
	return SelectBuilder{table: table}
}

// Columns sets the projection. With no columns every column is selected.
func (b SelectBuilder) Columns(names ...string) SelectBuilder {
	b.columns = append([]string(nil), names...)
	return b
}

// Where sets the filter. Each ? in template is bound to the next arg.
func (b SelectBuilder) Where(template string, args ...any) SelectBuilder {
	b.where = template
	b.args = append([]any(nil), args...)
	return b
}

// OrderBy sets the ORDER BY expression.
func (b SelectBuilder) OrderBy(expr string) SelectBuilder {
	b.orderBy = expr
	return b
}

// GroupBy sets the GROUP BY expression.
func (b SelectBuilder) GroupBy(expr string) SelectBuilder {
	b.groupBy = expr
	return b
}

// Having sets the HAVING expression. It requires GroupBy.
func (b SelectBuilder) Having(expr string) SelectBuilder {
	b.having = expr
	return b
}

// Limit caps the row count. Values <= 0 remove the limit.
func (b SelectBuilder) Limit(n int) SelectBuilder {
	b.limit = n
	return b
}

// Offset skips rows. It requires Limit.
func (b SelectBuilder) Offset(n int) SelectBuilder {
	b.offset = n
	return b
}

// Distinct drops duplicate rows.
func (b SelectBuilder) Distinct() SelectBuilder {
	b.distinct = true
	return b
}

// Table returns the target table.
func (b SelectBuilder) Table() string {
	return b.table
}

// SQL renders the statement and its bound arguments.
func (b SelectBuilder) SQL() (string, []any) {
	var sb strings.Builder
	sb.WriteString("SELECT ")
	if b.distinct {
		sb.WriteString("DISTINCT ")
	}
	if len(b.columns) == 0 {
		sb.WriteString("*")
	} else {
		sb.WriteString(strings.Join(b.columns, ", "))
	}
	sb.WriteString(" FROM ")
	sb.WriteString(b.table)
	if b.where != "" {
		sb.WriteString(" WHERE ")
		sb.WriteString(b.where)
	}
	if b.groupBy != "" {
		sb.WriteString(" GROUP BY ")
		sb.WriteString(b.groupBy)
	}
	if b.having != "" {
		sb.WriteString(" HAVING ")
		sb.WriteString(b.having)
	}
	if b.orderBy != "" {
		sb.WriteString(" ORDER BY ")
		sb.WriteString(b.orderBy)
	}
	if b.limit > 0 {
		sb.WriteString(" LIMIT ")
		sb.WriteString(strconv.Itoa(b.limit))
		if b.offset > 0 {
			sb.WriteString(" OFFSET ")
			sb.WriteString(strconv.Itoa(b.offset))
		}
	}
	return sb.String(), append([]any(nil), b.args...)
}

// validate reports grammar problems the builder can see without the engine.
func (b SelectBuilder) validate() error {
	switch {
	case strings.TrimSpace(b.table) == "":
		return fmt.Errorf("%w: no table", domain.ErrQuerySyntax)
	case b.having != "" && b.groupBy == "":
		return fmt.Errorf("%w: HAVING clauses are only permitted when using a GROUP BY clause", domain.ErrQuerySyntax)
	case b.offset > 0 && b.limit <= 0:
		return fmt.Errorf("%w: OFFSET requires LIMIT", domain.ErrQuerySyntax)
	}
	return nil
}

// Exec runs the query on conn and returns a cursor over the result.
// The cursor must be closed; see WithCursor.
func (b SelectBuilder) Exec(ctx context.Context, conn Conn) (*Cursor, error) {
	if err := b.validate(); err != nil {
		return nil, err
	}
	query, args := b.SQL()
	if n := paramCount(query); n != len(args) {
		return nil, fmt.Errorf("%w: %s: statement has %d parameters, got %d arguments",
			domain.ErrQuerySyntax, query, n, len(args))
	}
	rows, err := conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classify(query, err)
	}
	return newCursor(rows)
}

// classify maps engine errors from statement preparation. SQLITE_ERROR is
// what SQLite reports for bad syntax, unknown columns and unknown tables.
func classify(query string, err error) error {
	var se *sqlitedrv.Error
	if errors.As(err, &se) && se.Code()&0xff == sqlite3.SQLITE_ERROR {
		return fmt.Errorf("%w: %s: %w", domain.ErrQuerySyntax, query, err)
	}
	// The driver reports unbound parameters before reaching the engine.
	if strings.Contains(err.Error(), "missing argument with index") {
		return fmt.Errorf("%w: %s: %w", domain.ErrQuerySyntax, query, err)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return fmt.Errorf("querying %q: %w", query, err)
}

// paramCount returns the number of bind parameters in query, numbered the
// way SQLite numbers them: ? takes the next index, ?NNN takes NNN, and each
// distinct :name, @name or $name takes the next index on first use.
// Quoted strings, quoted identifiers and comments are skipped.
func paramCount(query string) int {
	highest := 0
	named := make(map[string]bool)
	for i := 0; i < len(query); {
		switch ch := query[i]; {
		case ch == '\'' || ch == '"' || ch == '`':
			i = skipQuoted(query, i, ch)
		case ch == '[':
			j := strings.IndexByte(query[i:], ']')
			if j < 0 {
				return highest
			}
			i += j + 1
		case strings.HasPrefix(query[i:], "--"):
			j := strings.IndexByte(query[i:], '\n')
			if j < 0 {
				return highest
			}
			i += j + 1
		case strings.HasPrefix(query[i:], "/*"):
			j := strings.Index(query[i+2:], "*/")
			if j < 0 {
				return highest
			}
			i += j + 4
		case ch == '?':
			j := i + 1
			for j < len(query) && isDigit(query[j]) {
				j++
			}
			if j > i+1 {
				n, _ := strconv.Atoi(query[i+1 : j])
				highest = max(highest, n)
			} else {
				highest++
			}
			i = j
		case ch == ':' || ch == '@' || ch == '$':
			j := i + 1
			for j < len(query) && (isDigit(query[j]) || isNameByte(query[j])) {
				j++
			}
			if j > i+1 && !named[query[i:j]] {
				named[query[i:j]] = true
				highest++
			}
			i = max(j, i+1)
		default:
			i++
		}
	}
	return highest
}

// skipQuoted returns the index just past the literal opened at query[i].
// A doubled quote character is an escaped quote.
func skipQuoted(query string, i int, quote byte) int {
	for j := i + 1; j < len(query); j++ {
		if query[j] != quote {
			continue
		}
		if j+1 < len(query) && query[j+1] == quote {
			j++
			continue
		}
		return j + 1
	}
	return len(query)
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isNameByte(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c >= 0x80
}
