package source

import (
	"context"
	"fmt"
	"net/netip"
	"strings"
	"time"
	"unicode"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/imgajeed76/gridview/internal/grid"
	"github.com/imgajeed76/gridview/internal/util"
)

// Querier runs a query. *db.DB implements it.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// QueryResult is a loaded result set.
type QueryResult struct {
	Rows    []grid.Row
	Columns []grid.Column
	Elapsed time.Duration
}

// Query runs sql and loads the whole result. Columns follow the select
// list; repeated names get a numeric suffix so no cell is lost.
func Query(ctx context.Context, q Querier, sql string, args ...any) (*QueryResult, error) {
	if strings.TrimSpace(sql) == "" {
		return nil, util.ErrNoQuery
	}
	start := time.Now()

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	names := make([]string, len(fields))
	for i, fd := range fields {
		names[i] = fd.Name
	}
	keys := headerKeys(names)

	cols := make([]grid.Column, len(keys))
	for i, k := range keys {
		cols[i] = grid.Column{Key: k, Label: k}
	}

	var out []grid.Row
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("scan row %d: %w", len(out)+1, err)
		}
		cells := make(map[string]any, len(keys))
		for i, v := range values {
			if i < len(keys) {
				cells[keys[i]] = pgValue(v)
			}
		}
		out = append(out, grid.NewRow(keys, cells))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}

	return &QueryResult{Rows: out, Columns: cols, Elapsed: time.Since(start)}, nil
}

// pgValue converts a decoded PostgreSQL value into a cell value the grid
// classifies correctly: numerics become float64, timestamps and UUIDs
// strings, and invalid text is repaired.
func pgValue(v any) any {
	switch val := v.(type) {
	case nil:
		return nil
	case string:
		return util.CleanText(val)
	case []byte:
		return bytesValue(val)
	case time.Time:
		return util.FormatTimestamp(val)
	case pgtype.Numeric:
		if !val.Valid {
			return nil
		}
		if val.NaN {
			return "NaN"
		}
		f, err := val.Float64Value()
		if err != nil || !f.Valid {
			return nil
		}
		return f.Float64
	case [16]byte:
		return formatUUID(val)
	case pgtype.Interval:
		if !val.Valid {
			return nil
		}
		return formatInterval(val)
	case netip.Prefix:
		return val.String()
	case netip.Addr:
		return val.String()
	case time.Duration:
		return val.String()
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = pgValue(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = pgValue(item)
		}
		return out
	case fmt.Stringer:
		return val.String()
	}
	return v
}

func bytesValue(b []byte) any {
	if len(b) == 0 {
		return ""
	}
	for _, r := range string(b) {
		if r == unicode.ReplacementChar || (unicode.IsControl(r) && r != '\n' && r != '\r' && r != '\t') {
			return fmt.Sprintf("[%d bytes]", len(b))
		}
	}
	return string(b)
}

func formatUUID(u [16]byte) string {
	return fmt.Sprintf("%x-%x-%x-%x-%x", u[0:4], u[4:6], u[6:8], u[8:10], u[10:16])
}

func formatInterval(iv pgtype.Interval) string {
	var parts []string
	if iv.Months != 0 {
		parts = append(parts, fmt.Sprintf("%d mons", iv.Months))
	}
	if iv.Days != 0 {
		parts = append(parts, fmt.Sprintf("%d days", iv.Days))
	}
	if iv.Microseconds != 0 || len(parts) == 0 {
		parts = append(parts, (time.Duration(iv.Microseconds) * time.Microsecond).String())
	}
	return strings.Join(parts, " ")
}
