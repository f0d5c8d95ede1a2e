package grid

import "slices"

// Column describes one table column.
type Column struct {
	Key   string
	Label string
	// Width is an optional fixed display width in cells; 0 sizes the
	// column from its content.
	Width int
}

// ResolveColumns returns the configured columns when any are given, and
// otherwise infers one column per distinct key across rows, in first-seen
// order. Duplicate keys keep their first occurrence and empty labels fall
// back to the key.
func ResolveColumns(configured []Column, rows []Row) []Column {
	seen := make(map[string]bool)
	var out []Column

	if len(configured) > 0 {
		for _, c := range configured {
			if c.Key == "" || seen[c.Key] {
				continue
			}
			seen[c.Key] = true
			if c.Label == "" {
				c.Label = c.Key
			}
			out = append(out, c)
		}
		return out
	}

	for _, row := range rows {
		for _, k := range row.Keys() {
			if seen[k] {
				continue
			}
			seen[k] = true
			out = append(out, Column{Key: k, Label: k})
		}
	}
	return out
}

// columnKeys returns the keys of cols in order.
func columnKeys(cols []Column) []string {
	keys := make([]string, len(cols))
	for i, c := range cols {
		keys[i] = c.Key
	}
	return keys
}

// sameKeySet reports whether a and b hold the same keys, ignoring order.
func sameKeySet(a, b []Column) bool {
	if len(a) != len(b) {
		return false
	}
	set := make(map[string]bool, len(a))
	for _, c := range a {
		set[c.Key] = true
	}
	for _, c := range b {
		if !set[c.Key] {
			return false
		}
	}
	return true
}

// ColumnState tracks the display order of every column and which of them
// are visible. Order is always a permutation of the table's column keys.
type ColumnState struct {
	Order   []string
	Visible []string
}

// NewColumnState returns a state with every column visible in its
// configured order.
func NewColumnState(cols []Column) ColumnState {
	keys := columnKeys(cols)
	return ColumnState{
		Order:   keys,
		Visible: slices.Clone(keys),
	}
}

// IsVisible reports whether key is currently shown.
func (s *ColumnState) IsVisible(key string) bool {
	return slices.Contains(s.Visible, key)
}

// Toggle shows a hidden column or hides a visible one. Order is left
// untouched so a column toggled back on returns to its old slot. Unknown
// keys are ignored. It reports whether anything changed.
func (s *ColumnState) Toggle(key string) bool {
	if !slices.Contains(s.Order, key) {
		return false
	}
	if i := slices.Index(s.Visible, key); i >= 0 {
		s.Visible = slices.Delete(slices.Clone(s.Visible), i, i+1)
		return true
	}
	s.Visible = append(slices.Clone(s.Visible), key)
	return true
}

// SetVisible replaces the visible set, dropping keys that are not columns.
func (s *ColumnState) SetVisible(keys []string) {
	next := make([]string, 0, len(keys))
	for _, k := range keys {
		if slices.Contains(s.Order, k) && !slices.Contains(next, k) {
			next = append(next, k)
		}
	}
	s.Visible = next
}

// Move removes dragged from Order and reinserts it at the index target held
// before the removal. Dragging a onto c in [a b c] yields [b c a]. It is a
// no-op when dragged equals target or either key is missing.
func (s *ColumnState) Move(dragged, target string) bool {
	if dragged == target {
		return false
	}
	from := slices.Index(s.Order, dragged)
	to := slices.Index(s.Order, target)
	if from < 0 || to < 0 {
		return false
	}

	next := slices.Delete(slices.Clone(s.Order), from, from+1)
	if to > len(next) {
		to = len(next)
	}
	s.Order = slices.Insert(next, to, dragged)
	return true
}

// Shift moves key one visible slot left (delta < 0) or right (delta > 0),
// skipping hidden columns in between.
func (s *ColumnState) Shift(key string, delta int) bool {
	visible := s.Ordered()
	i := slices.Index(visible, key)
	if i < 0 || delta == 0 {
		return false
	}
	j := i + 1
	if delta < 0 {
		j = i - 1
	}
	if j < 0 || j >= len(visible) {
		return false
	}
	return s.Move(key, visible[j])
}

// Ordered returns the visible keys in display order.
func (s *ColumnState) Ordered() []string {
	out := make([]string, 0, len(s.Visible))
	for _, k := range s.Order {
		if slices.Contains(s.Visible, k) {
			out = append(out, k)
		}
	}
	return out
}
