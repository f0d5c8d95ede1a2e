package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/imgajeed76/gridview/internal/grid"
	"github.com/imgajeed76/gridview/internal/util"
)

// decodeDelimited reads CSV or TSV with a header row. Short records leave
// their trailing cells absent; extra fields are dropped.
func decodeDelimited(r io.Reader, comma rune, opts Options) ([]grid.Row, error) {
	cr := csv.NewReader(r)
	cr.Comma = comma
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = false

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	keys := headerKeys(header)

	var rows []grid.Row
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		n := min(len(rec), len(keys))
		values := make(map[string]any, n)
		for i := 0; i < n; i++ {
			values[keys[i]] = fieldValue(util.CleanText(rec[i]), opts.Infer)
		}
		rows = append(rows, grid.NewRow(keys[:n], values))
	}
	return rows, nil
}

// headerKeys cleans the header row: a BOM is stripped, blanks become
// column_N and duplicates get a numeric suffix.
func headerKeys(header []string) []string {
	keys := make([]string, len(header))
	seen := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(util.CleanText(h))
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		if h == "" {
			h = fmt.Sprintf("column_%d", i+1)
		}
		if n := seen[h]; n > 0 {
			seen[h] = n + 1
			h = fmt.Sprintf("%s_%d", h, n+1)
		}
		seen[h]++
		keys[i] = h
	}
	return keys
}

func fieldValue(s string, infer bool) any {
	if !infer {
		return s
	}
	t := strings.TrimSpace(s)
	if t == "" {
		return s
	}
	if i, err := strconv.ParseInt(t, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(t, 64); err == nil && !strings.ContainsAny(t, "xXnN") {
		return f
	}
	switch strings.ToLower(t) {
	case "true":
		return true
	case "false":
		return false
	}
	return s
}
