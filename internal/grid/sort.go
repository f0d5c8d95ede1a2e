package grid

import (
	"fmt"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Direction is a sort direction. DirectionNone means unsorted.
type Direction string

const (
	DirectionNone Direction = ""
	DirectionAsc  Direction = "asc"
	DirectionDesc Direction = "desc"
)

// Sort is the single-column sort key.
type Sort struct {
	Column    string
	Direction Direction
}

// Active reports whether a sort is applied.
func (s Sort) Active() bool {
	return s.Column != "" && s.Direction != DirectionNone
}

// Click advances the sort after a header click. The same column cycles
// asc → desc → unsorted; any other column starts at asc.
func (s Sort) Click(key string) Sort {
	if key == "" {
		return s
	}
	if s.Column != key || s.Direction == DirectionNone {
		return Sort{Column: key, Direction: DirectionAsc}
	}
	if s.Direction == DirectionAsc {
		return Sort{Column: key, Direction: DirectionDesc}
	}
	return Sort{}
}

// ParseSort parses "column" or "column:asc|desc".
func ParseSort(value string) (Sort, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return Sort{}, nil
	}
	col, dir, found := strings.Cut(value, ":")
	col = strings.TrimSpace(col)
	if col == "" {
		return Sort{}, fmt.Errorf("sort %q: missing column", value)
	}
	if !found {
		return Sort{Column: col, Direction: DirectionAsc}, nil
	}
	switch Direction(strings.ToLower(strings.TrimSpace(dir))) {
	case DirectionAsc:
		return Sort{Column: col, Direction: DirectionAsc}, nil
	case DirectionDesc:
		return Sort{Column: col, Direction: DirectionDesc}, nil
	}
	return Sort{}, fmt.Errorf("sort %q: direction must be asc or desc", value)
}

func (s Sort) String() string {
	if !s.Active() {
		return ""
	}
	return s.Column + ":" + string(s.Direction)
}

// Comparator orders cell values by class. It holds a collator, so a
// Comparator must not be shared between goroutines.
type Comparator struct {
	collator *collate.Collator
}

// NewComparator returns a comparator that orders strings with the root
// locale collation.
func NewComparator() *Comparator {
	return &Comparator{collator: collate.New(language.Und)}
}

// Compare orders a before b in ascending order, returning a negative number,
// zero or a positive number. It never panics: values of mixed or unknown
// classes compare by their normalized strings.
func (c *Comparator) Compare(a, b any) int {
	ka, kb := Classify(a), Classify(b)
	if ka != kb {
		return c.compareStrings(Normalize(a), Normalize(b))
	}

	switch ka {
	case KindNull:
		return 0
	case KindNumber:
		fa, _ := toFloat(a)
		fb, _ := toFloat(b)
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		}
		return 0
	case KindBool:
		ba, _ := a.(bool)
		bb, _ := b.(bool)
		switch {
		case ba == bb:
			return 0
		case !ba:
			return -1
		}
		return 1
	}
	return c.compareStrings(Normalize(a), Normalize(b))
}

// Less compares two cells for the given direction. Nulls sort last in both
// directions.
func (c *Comparator) Less(a, b any, dir Direction) bool {
	na, nb := Classify(a) == KindNull, Classify(b) == KindNull
	if na || nb {
		return !na && nb
	}
	cmp := c.Compare(a, b)
	if dir == DirectionDesc {
		cmp = -cmp
	}
	return cmp < 0
}

func (c *Comparator) compareStrings(a, b string) int {
	if c == nil || c.collator == nil {
		return strings.Compare(a, b)
	}
	if r := c.collator.CompareString(a, b); r != 0 {
		return r
	}
	return strings.Compare(a, b)
}
