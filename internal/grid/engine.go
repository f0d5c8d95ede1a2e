package grid

import (
	"slices"
	"sort"
)

// FilterState is everything that decides which rows and columns are shown
// and in what order.
type FilterState struct {
	Columns    ColumnState
	Conditions []Condition
	Sort       Sort
}

// NewFilterState returns the defaults for cols: everything visible, no
// conditions, unsorted.
func NewFilterState(cols []Column) FilterState {
	return FilterState{Columns: NewColumnState(cols)}
}

// Clone returns a deep copy of s.
func (s FilterState) Clone() FilterState {
	return FilterState{
		Columns: ColumnState{
			Order:   slices.Clone(s.Columns.Order),
			Visible: slices.Clone(s.Columns.Visible),
		},
		Conditions: slices.Clone(s.Conditions),
		Sort:       s.Sort,
	}
}

// ViewRow is one row of the filtered, projected and sorted view.
type ViewRow struct {
	Row Row
	// Source is the row's index in the input sequence.
	Source int
}

// Result is the output of Apply.
type Result struct {
	Rows    []ViewRow
	Columns []Column
}

// Len returns the number of rows that passed the filter.
func (r Result) Len() int {
	return len(r.Rows)
}

// Engine evaluates a FilterState against a row set.
type Engine struct {
	cmp *Comparator
}

// NewEngine returns an engine with its own comparator.
func NewEngine() *Engine {
	return &Engine{cmp: NewComparator()}
}

// Apply filters rows with the state's conditions, projects them onto the
// visible columns in display order, then sorts when a sort is set. The input
// slice and its rows are left untouched.
func (e *Engine) Apply(rows []Row, cols []Column, state FilterState) Result {
	byKey := make(map[string]Column, len(cols))
	for _, c := range cols {
		byKey[c.Key] = c
	}

	var outCols []Column
	for _, key := range state.Columns.Ordered() {
		if c, ok := byKey[key]; ok {
			outCols = append(outCols, c)
		}
	}
	keys := columnKeys(outCols)

	out := make([]ViewRow, 0, len(rows))
	for i, row := range rows {
		if !EvaluateAll(state.Conditions, row) {
			continue
		}
		out = append(out, ViewRow{Row: row.Project(keys), Source: i})
	}

	if state.Sort.Active() {
		col, dir := state.Sort.Column, state.Sort.Direction
		// Sort keys come from the source row so a hidden column still sorts.
		sort.SliceStable(out, func(i, j int) bool {
			a := rows[out[i].Source].Get(col)
			b := rows[out[j].Source].Get(col)
			return e.cmp.Less(a, b, dir)
		})
	}

	return Result{Rows: out, Columns: outCols}
}

// Apply runs a one-off Engine.
func Apply(rows []Row, cols []Column, state FilterState) Result {
	return NewEngine().Apply(rows, cols, state)
}
