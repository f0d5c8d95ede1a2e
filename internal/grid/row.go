package grid

// Row is an ordered mapping from column key to cell value. The zero Row is
// empty and ready to use. Rows handed to a Table are treated as immutable:
// With and Project return new rows.
type Row struct {
	keys  []string
	cells map[string]any
}

// NewRow builds a row with the given key order. Keys missing from values
// hold nil; values whose keys are not listed are dropped.
func NewRow(keys []string, values map[string]any) Row {
	r := Row{
		keys:  make([]string, 0, len(keys)),
		cells: make(map[string]any, len(keys)),
	}
	for _, k := range keys {
		if _, dup := r.cells[k]; dup {
			continue
		}
		r.keys = append(r.keys, k)
		r.cells[k] = values[k]
	}
	return r
}

// RowOf builds a row from alternating key, value arguments. A trailing key
// without a value is ignored, as are non-string keys.
func RowOf(pairs ...any) Row {
	r := Row{}
	for i := 0; i+1 < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			continue
		}
		r = r.With(key, pairs[i+1])
	}
	return r
}

// With returns a copy of r with key set to value. A new key is appended
// after the existing ones.
func (r Row) With(key string, value any) Row {
	next := Row{
		keys:  make([]string, len(r.keys), len(r.keys)+1),
		cells: make(map[string]any, len(r.cells)+1),
	}
	copy(next.keys, r.keys)
	for k, v := range r.cells {
		next.cells[k] = v
	}
	if _, exists := next.cells[key]; !exists {
		next.keys = append(next.keys, key)
	}
	next.cells[key] = value
	return next
}

// Keys returns the row's keys in order. The returned slice must not be
// modified.
func (r Row) Keys() []string {
	return r.keys
}

// Len returns the number of keys in the row.
func (r Row) Len() int {
	return len(r.keys)
}

// Get returns the value stored under key, or Undefined when the key is
// absent.
func (r Row) Get(key string) any {
	v, ok := r.cells[key]
	if !ok {
		return Undefined
	}
	return v
}

// Has reports whether the row carries key.
func (r Row) Has(key string) bool {
	_, ok := r.cells[key]
	return ok
}

// Project returns a row holding only the listed keys that r carries, in the
// listed order.
func (r Row) Project(keys []string) Row {
	out := Row{
		keys:  make([]string, 0, len(keys)),
		cells: make(map[string]any, len(keys)),
	}
	for _, k := range keys {
		v, ok := r.cells[k]
		if !ok {
			continue
		}
		if _, dup := out.cells[k]; dup {
			continue
		}
		out.keys = append(out.keys, k)
		out.cells[k] = v
	}
	return out
}

// Map returns the row's cells as a plain map.
func (r Row) Map() map[string]any {
	m := make(map[string]any, len(r.cells))
	for k, v := range r.cells {
		m[k] = v
	}
	return m
}
