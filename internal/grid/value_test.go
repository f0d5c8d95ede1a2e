package grid

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   any
		want string
	}{
		{nil, "null"},
		{Undefined, "undefined"},
		{"text", "text"},
		{true, "true"},
		{42, "42"},
		{int64(-7), "-7"},
		{uint8(3), "3"},
		{2.5, "2.5"},
		{float64(30), "30"},
		{json.Number("1e3"), "1e3"},
		{[]any{1, nil, "x"}, "1,,x"},
		{[]string{"a", "b"}, "a,b"},
		{map[string]any{"b": 1, "a": "x"}, `{"a":"x","b":1}`},
		{Span{Text: "He", Children: []Span{{Text: "ll"}, {Text: "o", Children: []Span{{Text: "!"}}}}}, "Hello!"},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, Normalize(tc.in), "%#v", tc.in)
	}
}

func TestClassify(t *testing.T) {
	t.Parallel()

	require.Equal(t, KindNull, Classify(nil))
	require.Equal(t, KindNull, Classify(Undefined))
	require.Equal(t, KindNumber, Classify(3))
	require.Equal(t, KindNumber, Classify(json.Number("3")))
	require.Equal(t, KindBool, Classify(false))
	require.Equal(t, KindString, Classify("x"))
	require.Equal(t, KindArray, Classify([]int{1}))
	require.Equal(t, KindObject, Classify(map[string]int{}))
	require.Equal(t, KindFragment, Classify(Span{}))
	require.Equal(t, "renderable", KindFragment.String())
}

func TestRowOrderAndProjection(t *testing.T) {
	t.Parallel()

	r := RowOf("b", 1, "a", 2)
	r2 := r.With("c", 3).With("b", 9)
	require.Equal(t, []string{"b", "a"}, r.Keys())
	require.Equal(t, 1, r.Get("b"))
	require.Equal(t, []string{"b", "a", "c"}, r2.Keys())
	require.Equal(t, 9, r2.Get("b"))
	require.Equal(t, Undefined, r.Get("zzz"))

	p := r2.Project([]string{"c", "missing", "b"})
	require.Equal(t, []string{"c", "b"}, p.Keys())

	n := NewRow([]string{"x", "y", "x"}, map[string]any{"x": 1, "z": 2})
	require.Equal(t, []string{"x", "y"}, n.Keys())
	require.Nil(t, n.Get("y"))
	require.True(t, n.Has("y"))
	require.False(t, n.Has("z"))
}
