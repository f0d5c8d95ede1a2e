package grid

import (
	"errors"
	"fmt"
	"strings"

	"github.com/imgajeed76/gridview/internal/util"
)

// Predicate is the comparison a condition applies to a cell.
type Predicate string

const (
	PredicateNone        Predicate = ""
	PredicateEquals      Predicate = "equals"
	PredicateNotEquals   Predicate = "not_equals"
	PredicateContains    Predicate = "contains"
	PredicateNotContains Predicate = "not_contains"
	PredicateStartsWith  Predicate = "starts_with"
	PredicateEndsWith    Predicate = "ends_with"
	PredicateGreaterThan Predicate = "greater_than"
	PredicateLessThan    Predicate = "less_than"
	PredicateIsBetween   Predicate = "is_between"
)

// Predicates lists every predicate in menu order.
var Predicates = []Predicate{
	PredicateEquals,
	PredicateNotEquals,
	PredicateContains,
	PredicateNotContains,
	PredicateStartsWith,
	PredicateEndsWith,
	PredicateGreaterThan,
	PredicateLessThan,
	PredicateIsBetween,
}

// Valid reports whether p is one of the known predicates.
func (p Predicate) Valid() bool {
	for _, known := range Predicates {
		if p == known {
			return true
		}
	}
	return false
}

// Numeric reports whether p compares its operands as numbers.
func (p Predicate) Numeric() bool {
	return p == PredicateGreaterThan || p == PredicateLessThan || p == PredicateIsBetween
}

// Join combines a condition's result with the next active condition.
type Join string

const (
	JoinNone Join = ""
	JoinAnd  Join = "and"
	JoinOr   Join = "or"
)

// Advisory validation errors. A condition that fails validation is kept and
// simply evaluates to false.
var (
	ErrNonNumeric     = errors.New("value is not a number")
	ErrMalformedRange = errors.New("range must be two comma-separated numbers")
)

// Condition is one column/predicate/value filter rule.
type Condition struct {
	ID        string
	Column    string
	Predicate Predicate
	Value     string
	// Join applies between this condition and the next active one.
	Join Join
}

// NewCondition returns a condition with a fresh unique ID.
func NewCondition(column string, p Predicate, value string) Condition {
	return Condition{
		ID:        util.NewULID(),
		Column:    column,
		Predicate: p,
		Value:     value,
	}
}

// Active reports whether the condition has a column, a predicate and a
// non-empty value. Inactive conditions are skipped by EvaluateAll.
func (c Condition) Active() bool {
	return c.Column != "" && c.Predicate != PredicateNone && c.Value != ""
}

// Validate checks numeric operands. It never blocks evaluation; callers log
// the result as a warning.
func (c Condition) Validate() error {
	if !c.Active() {
		return nil
	}
	if !c.Predicate.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownOperator, c.Predicate)
	}
	switch c.Predicate {
	case PredicateGreaterThan, PredicateLessThan:
		if _, ok := parseNumber(c.Value); !ok {
			return fmt.Errorf("%s %s %q: %w", c.Column, c.Predicate, c.Value, ErrNonNumeric)
		}
	case PredicateIsBetween:
		if _, _, ok := parseRange(c.Value); !ok {
			return fmt.Errorf("%s %s %q: %w", c.Column, c.Predicate, c.Value, ErrMalformedRange)
		}
	}
	return nil
}

// String renders the condition in filter expression syntax. The column
// and the value are quoted where needed so ParseFilter reads them back.
func (c Condition) String() string {
	return fmt.Sprintf("%s %s %s", quoteFilterText(c.Column), c.Predicate, quoteFilterText(c.Value))
}

// Evaluate applies the condition to row. Inactive conditions pass.
func (c Condition) Evaluate(row Row) bool {
	if !c.Active() {
		return true
	}
	cell := Normalize(row.Get(c.Column))
	return matchPredicate(c.Predicate, cell, c.Value)
}

func matchPredicate(p Predicate, cell, value string) bool {
	switch p {
	case PredicateEquals:
		return strings.EqualFold(cell, value)
	case PredicateNotEquals:
		return !strings.EqualFold(cell, value)
	case PredicateContains:
		return strings.Contains(strings.ToLower(cell), strings.ToLower(value))
	case PredicateNotContains:
		return !strings.Contains(strings.ToLower(cell), strings.ToLower(value))
	case PredicateStartsWith:
		return strings.HasPrefix(strings.ToLower(cell), strings.ToLower(value))
	case PredicateEndsWith:
		return strings.HasSuffix(strings.ToLower(cell), strings.ToLower(value))
	case PredicateGreaterThan, PredicateLessThan:
		a, ok := parseNumber(cell)
		if !ok {
			return false
		}
		b, ok := parseNumber(value)
		if !ok {
			return false
		}
		if p == PredicateGreaterThan {
			return a > b
		}
		return a < b
	case PredicateIsBetween:
		lo, hi, ok := parseRange(value)
		if !ok {
			return false
		}
		n, ok := parseNumber(cell)
		if !ok {
			return false
		}
		return n >= lo && n <= hi
	}
	return false
}

// parseRange parses "min,max".
func parseRange(s string) (lo, hi float64, ok bool) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return 0, 0, false
	}
	lo, ok = parseNumber(parts[0])
	if !ok {
		return 0, 0, false
	}
	hi, ok = parseNumber(parts[1])
	if !ok {
		return 0, 0, false
	}
	return lo, hi, true
}

// EvaluateAll folds the active conditions left to right. The first active
// condition seeds the result; each later one is combined with the running
// result using the Join of the active condition before it. There is no
// precedence: a or b and c is (a or b) and c. An empty or all-inactive list
// passes every row.
func EvaluateAll(conds []Condition, row Row) bool {
	result := true
	started := false
	var join Join

	for _, c := range conds {
		if !c.Active() {
			continue
		}
		v := c.Evaluate(row)
		if !started {
			result = v
			started = true
		} else if join == JoinOr {
			result = result || v
		} else {
			result = result && v
		}
		join = c.Join
	}
	return result
}

// ActiveCount returns how many conditions take part in evaluation.
func ActiveCount(conds []Condition) int {
	n := 0
	for _, c := range conds {
		if c.Active() {
			n++
		}
	}
	return n
}
