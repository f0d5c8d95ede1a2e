package source

import (
	"context"
	"errors"
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/require"

	"github.com/imgajeed76/gridview/internal/grid"
	"github.com/imgajeed76/gridview/internal/util"
)

func TestDecodeJSONKeepsKeyOrder(t *testing.T) {
	t.Parallel()

	rows, err := Decode(strings.NewReader(`[
		{"zeta": 1, "alpha": "a", "mid": null},
		{"alpha": "b", "extra": [1, 2.5, true], "zeta": 1e3}
	]`), FormatJSON, Options{})
	require.NoError(t, err)
	require.Len(t, rows, 2)

	require.Equal(t, []string{"zeta", "alpha", "mid"}, rows[0].Keys())
	require.Equal(t, int64(1), rows[0].Get("zeta"))
	require.Nil(t, rows[0].Get("mid"))
	require.Equal(t, []any{int64(1), 2.5, true}, rows[1].Get("extra"))
	require.Equal(t, 1000.0, rows[1].Get("zeta"))

	cols := grid.ResolveColumns(nil, rows)
	require.Equal(t, "extra", cols[3].Key)
}

func TestDecodeWrappedList(t *testing.T) {
	t.Parallel()

	rows, err := Decode(strings.NewReader(`{"count": 2, "items": [{"id": 1}, {"id": 2}]}`), FormatJSON, Options{})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, int64(2), rows[1].Get("id"))
}

func TestDecodeYAML(t *testing.T) {
	t.Parallel()

	rows, err := Decode(strings.NewReader(`
- name: web
  replicas: 3
  tags: [a, b]
- name: db
  replicas: 1
  meta: {tier: data}
- plain
`), FormatYAML, Options{})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, "web", rows[0].Get("name"))
	require.Equal(t, "a,b", grid.Normalize(rows[0].Get("tags")))
	require.Equal(t, `{"tier":"data"}`, grid.Normalize(rows[1].Get("meta")))
	require.Equal(t, "plain", rows[2].Get(ValueKey))
}

func TestDecodeRejectsScalars(t *testing.T) {
	t.Parallel()

	_, err := Decode(strings.NewReader(`42`), FormatJSON, Options{})
	require.Error(t, err)

	rows, err := Decode(strings.NewReader(``), FormatJSON, Options{})
	require.NoError(t, err)
	require.Empty(t, rows)
}

func TestDecodeJSONLines(t *testing.T) {
	t.Parallel()

	rows, err := Decode(strings.NewReader("{\"a\": 1}\n\n{\"b\": \"x\", \"a\": 2}\n"), FormatJSONL, Options{})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, []string{"b", "a"}, rows[1].Keys())

	_, err = Decode(strings.NewReader("{\"a\": 1}\n{oops\n"), FormatJSONL, Options{})
	require.ErrorContains(t, err, "line 2")
}

func TestDecodeCSV(t *testing.T) {
	t.Parallel()

	data := "\ufeffname,age,active,name,\nAda,36,true,x,y\nBob,4.5,no\nCy\n"

	rows, err := Decode(strings.NewReader(data), FormatCSV, Options{Infer: true})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, []string{"name", "age", "active", "name_2", "column_5"}, rows[0].Keys())
	require.Equal(t, int64(36), rows[0].Get("age"))
	require.Equal(t, true, rows[0].Get("active"))
	require.Equal(t, 4.5, rows[1].Get("age"))
	require.Equal(t, "no", rows[1].Get("active"))
	require.False(t, rows[2].Has("age"))

	raw, err := Decode(strings.NewReader(data), FormatCSV, Options{})
	require.NoError(t, err)
	require.Equal(t, "36", raw[0].Get("age"))
}

func TestDecodeTSVRepairsLatin1(t *testing.T) {
	t.Parallel()

	rows, err := Decode(strings.NewReader("city\tpop\nK\xf6ln\t1000000\n"), FormatTSV, Options{Infer: true})
	require.NoError(t, err)
	require.Equal(t, "Köln", rows[0].Get("city"))
}

func TestFormats(t *testing.T) {
	t.Parallel()

	f, err := DetectFormat("a/b.YML")
	require.NoError(t, err)
	require.Equal(t, FormatYAML, f)

	_, err = DetectFormat("data.xls")
	require.ErrorIs(t, err, util.ErrUnsupportedFormat)

	f, err = ParseFormat("ndjson")
	require.NoError(t, err)
	require.Equal(t, FormatJSONL, f)
	_, err = ParseFormat("xml")
	require.Error(t, err)

	require.Equal(t, FormatJSON, sniff([]byte(" [ {}]")))
	require.Equal(t, FormatJSONL, sniff([]byte("{\"a\":1}\n{\"a\":2}")))
	require.Equal(t, FormatCSV, sniff([]byte("a,b\n1,2")))
	require.Equal(t, FormatTSV, sniff([]byte("a\tb\n1\t2")))
	require.Equal(t, FormatYAML, sniff([]byte("- a: 1")))
}

func TestReadFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "people.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"n": 1}]`), 0644))

	rows, err := ReadFile(path, FormatAuto, Options{})
	require.NoError(t, err)
	require.Len(t, rows, 1)

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.csv"), FormatAuto, Options{})
	var gerr *util.GridError
	require.ErrorAs(t, err, &gerr)
	require.Equal(t, "Cannot read data", gerr.Title)
}

func TestPGValue(t *testing.T) {
	t.Parallel()

	require.Equal(t, 12.34, pgValue(pgtype.Numeric{Int: big.NewInt(1234), Exp: -2, Valid: true}))
	require.Nil(t, pgValue(pgtype.Numeric{}))
	require.Equal(t, "2024-05-01", pgValue(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)))
	require.Equal(t, "00112233-4455-6677-8899-aabbccddeeff",
		pgValue([16]byte{0x00, 0x11, 0x22, 0x33, 0x44, 0x55, 0x66, 0x77, 0x88, 0x99, 0xaa, 0xbb, 0xcc, 0xdd, 0xee, 0xff}))
	require.Equal(t, "[3 bytes]", pgValue([]byte{0, 1, 2}))
	require.Equal(t, "text", pgValue([]byte("text")))
	require.Equal(t, "1 mons 2 days 1h0m0s", pgValue(pgtype.Interval{Months: 1, Days: 2, Microseconds: 3600_000_000, Valid: true}))
	require.Equal(t, int32(7), pgValue(int32(7)))
	require.Equal(t, []any{"a", nil}, pgValue([]any{"a", nil}))
}

type fakeRows struct {
	fields []pgconn.FieldDescription
	values [][]any
	i      int
	err    error
	closed bool
}

func (r *fakeRows) Close()                                       { r.closed = true }
func (r *fakeRows) Err() error                                   { return r.err }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return r.fields }
func (r *fakeRows) Scan(...any) error                            { return errors.New("not supported") }
func (r *fakeRows) RawValues() [][]byte                          { return nil }
func (r *fakeRows) Conn() *pgx.Conn                              { return nil }

func (r *fakeRows) Next() bool {
	if r.i >= len(r.values) {
		return false
	}
	r.i++
	return true
}

func (r *fakeRows) Values() ([]any, error) {
	return r.values[r.i-1], nil
}

type fakeQuerier struct {
	rows *fakeRows
	sql  string
}

func (q *fakeQuerier) Query(_ context.Context, sql string, _ ...any) (pgx.Rows, error) {
	q.sql = sql
	return q.rows, nil
}

func TestQuery(t *testing.T) {
	t.Parallel()

	rows := &fakeRows{
		fields: []pgconn.FieldDescription{{Name: "id"}, {Name: "total"}, {Name: "id"}},
		values: [][]any{
			{int64(1), pgtype.Numeric{Int: big.NewInt(250), Exp: -1, Valid: true}, "x"},
			{int64(2), nil, "y"},
		},
	}
	q := &fakeQuerier{rows: rows}

	res, err := Query(context.Background(), q, "select 1")
	require.NoError(t, err)
	require.True(t, rows.closed)
	require.Equal(t, "select 1", q.sql)
	require.Equal(t, []grid.Column{{Key: "id", Label: "id"}, {Key: "total", Label: "total"}, {Key: "id_2", Label: "id_2"}}, res.Columns)
	require.Len(t, res.Rows, 2)
	require.Equal(t, 25.0, res.Rows[0].Get("total"))
	require.Equal(t, "y", res.Rows[1].Get("id_2"))
	require.Nil(t, res.Rows[1].Get("total"))

	_, err = Query(context.Background(), q, "  ")
	require.ErrorIs(t, err, util.ErrNoQuery)
}
