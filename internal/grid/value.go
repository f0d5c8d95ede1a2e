// Package grid implements the data side of the virtualized table: the
// filter/sort pipeline, the row window, scroll and zoom bookkeeping, column
// order and visibility, and the layout contract a renderer draws from.
//
// Nothing in this package touches the terminal. A renderer (see
// internal/ui/table) feeds input events into a Table and draws the Frame it
// gets back.
package grid

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// undefinedValue is the type of Undefined.
type undefinedValue struct{}

// Undefined is the value of a cell whose key is absent from its row. It is
// distinct from nil, which is an explicit null.
var Undefined = undefinedValue{}

func (undefinedValue) String() string { return "undefined" }

// Fragment is an opaque renderable cell value. Filtering and sorting only
// ever see its visible text.
type Fragment interface {
	VisibleText() string
}

// Span is a styled text tree, the concrete Fragment the renderer knows how
// to draw.
type Span struct {
	Text     string
	Style    lipgloss.Style
	Children []Span
}

// VisibleText concatenates the span's own text with the text of all its
// children, depth first.
func (s Span) VisibleText() string {
	if len(s.Children) == 0 {
		return s.Text
	}
	var sb strings.Builder
	sb.WriteString(s.Text)
	for _, child := range s.Children {
		sb.WriteString(child.VisibleText())
	}
	return sb.String()
}

// Render draws the span tree with each node's style applied.
func (s Span) Render() string {
	var sb strings.Builder
	sb.WriteString(s.Style.Render(s.Text))
	for _, child := range s.Children {
		sb.WriteString(child.Render())
	}
	return sb.String()
}

// Kind classifies a cell value for sorting.
type Kind int

const (
	KindNull Kind = iota
	KindNumber
	KindBool
	KindString
	KindArray
	KindObject
	KindFragment
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindNumber:
		return "number"
	case KindBool:
		return "boolean"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	case KindFragment:
		return "renderable"
	}
	return "unknown"
}

// Classify returns the sort class of v. Undefined counts as null. Values of
// unexpected types are classed as strings so they still compare through
// their normalized form.
func Classify(v any) Kind {
	switch x := v.(type) {
	case nil, undefinedValue:
		return KindNull
	case bool:
		return KindBool
	case string:
		return KindString
	case Fragment:
		return KindFragment
	case []any:
		return KindArray
	case map[string]any:
		return KindObject
	case json.Number:
		return KindNumber
	default:
		if _, ok := toFloat(x); ok {
			return KindNumber
		}
		rv := reflect.ValueOf(v)
		switch rv.Kind() {
		case reflect.Slice, reflect.Array:
			return KindArray
		case reflect.Map, reflect.Struct:
			return KindObject
		}
		return KindString
	}
}

// Normalize converts a cell value to the string form used for every
// textual comparison.
func Normalize(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case undefinedValue:
		return "undefined"
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case Fragment:
		return x.VisibleText()
	case json.Number:
		return x.String()
	case []any:
		parts := make([]string, len(x))
		for i, item := range x {
			parts[i] = normalizeElement(item)
		}
		return strings.Join(parts, ",")
	case map[string]any:
		return serializeRecord(x)
	}

	if f, ok := toFloat(v); ok {
		return formatNumber(v, f)
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		parts := make([]string, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			parts[i] = normalizeElement(rv.Index(i).Interface())
		}
		return strings.Join(parts, ",")
	case reflect.Map, reflect.Struct:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(b)
	}
	return fmt.Sprint(v)
}

// normalizeElement renders one sequence element. Nulls inside a sequence
// join as empty strings.
func normalizeElement(v any) string {
	switch v.(type) {
	case nil, undefinedValue:
		return ""
	}
	return Normalize(v)
}

// serializeRecord writes a record as JSON with sorted keys. Values JSON
// cannot encode fall back to their normalized string.
func serializeRecord(m map[string]any) string {
	b, err := json.Marshal(m)
	if err == nil {
		return string(b)
	}

	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.Quote(k))
		sb.WriteByte(':')
		sb.WriteString(strconv.Quote(Normalize(m[k])))
	}
	sb.WriteByte('}')
	return sb.String()
}

// formatNumber prints integers without a fractional part and floats in
// their shortest round-trip form.
func formatNumber(v any, f float64) string {
	switch x := v.(type) {
	case int:
		return strconv.FormatInt(int64(x), 10)
	case int8:
		return strconv.FormatInt(int64(x), 10)
	case int16:
		return strconv.FormatInt(int64(x), 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case int64:
		return strconv.FormatInt(x, 10)
	case uint:
		return strconv.FormatUint(uint64(x), 10)
	case uint8:
		return strconv.FormatUint(uint64(x), 10)
	case uint16:
		return strconv.FormatUint(uint64(x), 10)
	case uint32:
		return strconv.FormatUint(uint64(x), 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	}
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// toFloat reports whether v is a Go numeric value and returns it as float64.
func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case int:
		return float64(x), true
	case int8:
		return float64(x), true
	case int16:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint:
		return float64(x), true
	case uint8:
		return float64(x), true
	case uint16:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	case float32:
		return float64(x), true
	case float64:
		return x, true
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	}
	return 0, false
}

// parseNumber parses a filter operand or a normalized cell as float64.
func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}
