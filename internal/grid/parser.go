package grid

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

var (
	ErrUnknownColumn   = errors.New("unknown column")
	ErrUnknownOperator = errors.New("unknown operator")
	ErrMissingValue    = errors.New("missing value")
	ErrUnexpectedToken = errors.New("unexpected token")
)

// operatorAliases maps filter expression operators to predicates.
var operatorAliases = map[string]Predicate{
	"=":            PredicateEquals,
	"==":           PredicateEquals,
	"is":           PredicateEquals,
	"equals":       PredicateEquals,
	"!=":           PredicateNotEquals,
	"not_equals":   PredicateNotEquals,
	"~":            PredicateContains,
	"contains":     PredicateContains,
	"!~":           PredicateNotContains,
	"not_contains": PredicateNotContains,
	"^=":           PredicateStartsWith,
	"starts_with":  PredicateStartsWith,
	"$=":           PredicateEndsWith,
	"ends_with":    PredicateEndsWith,
	">":            PredicateGreaterThan,
	"greater_than": PredicateGreaterThan,
	"<":            PredicateLessThan,
	"less_than":    PredicateLessThan,
	"between":      PredicateIsBetween,
	"is_between":   PredicateIsBetween,
}

var joinAliases = map[string]Join{
	"and": JoinAnd,
	"&&":  JoinAnd,
	"or":  JoinOr,
	"||":  JoinOr,
}

// ParseFilter parses a filter expression such as
//
//	age > 25 and name ~ "bo" or city = Oslo
//
// into conditions, resolving column names against cols by key or label,
// case-insensitively. Joins combine strictly left to right, exactly as
// EvaluateAll folds them. An empty expression yields no conditions.
func ParseFilter(expr string, cols []Column) ([]Condition, error) {
	toks, err := tokenize(expr)
	if err != nil {
		return nil, err
	}
	if len(toks) == 0 {
		return nil, nil
	}

	var conds []Condition
	i := 0
	for {
		if i >= len(toks) {
			return nil, fmt.Errorf("expected column after %q: %w", toks[len(toks)-1].text, ErrMissingValue)
		}
		col, err := resolveColumn(toks[i].text, cols)
		if err != nil {
			return nil, err
		}
		i++

		if i >= len(toks) {
			return nil, fmt.Errorf("%s: expected operator: %w", col, ErrUnknownOperator)
		}
		pred, ok := operatorAliases[strings.ToLower(toks[i].text)]
		if !ok || toks[i].quoted {
			return nil, fmt.Errorf("%q: %w", toks[i].text, ErrUnknownOperator)
		}
		i++

		if i >= len(toks) {
			return nil, fmt.Errorf("%s %s: %w", col, pred, ErrMissingValue)
		}
		if _, isJoin := joinAliases[strings.ToLower(toks[i].text)]; isJoin && !toks[i].quoted {
			return nil, fmt.Errorf("%s %s: %w", col, pred, ErrMissingValue)
		}
		cond := NewCondition(col, pred, toks[i].text)
		i++

		if i == len(toks) {
			conds = append(conds, cond)
			return conds, nil
		}

		join, ok := joinAliases[strings.ToLower(toks[i].text)]
		if !ok || toks[i].quoted {
			return nil, fmt.Errorf("%q after %s: %w", toks[i].text, cond, ErrUnexpectedToken)
		}
		cond.Join = join
		conds = append(conds, cond)
		i++
	}
}

// FormatFilter renders conditions back into expression syntax, skipping
// inactive ones.
func FormatFilter(conds []Condition) string {
	var sb strings.Builder
	var join Join
	first := true
	for _, c := range conds {
		if !c.Active() {
			continue
		}
		if !first {
			if join == JoinOr {
				sb.WriteString(" or ")
			} else {
				sb.WriteString(" and ")
			}
		}
		sb.WriteString(c.String())
		join = c.Join
		first = false
	}
	return sb.String()
}

func resolveColumn(name string, cols []Column) (string, error) {
	for _, c := range cols {
		if c.Key == name {
			return c.Key, nil
		}
	}
	for _, c := range cols {
		if strings.EqualFold(c.Key, name) || strings.EqualFold(c.Label, name) {
			return c.Key, nil
		}
	}
	return "", fmt.Errorf("%q: %w", name, ErrUnknownColumn)
}

type token struct {
	text   string
	quoted bool
}

func isOperatorRune(r rune) bool {
	return strings.ContainsRune("=!~^$<>&|", r)
}

func tokenize(s string) ([]token, error) {
	var toks []token
	runes := []rune(s)
	i := 0
	for i < len(runes) {
		r := runes[i]
		switch {
		case unicode.IsSpace(r):
			i++

		case r == '"' || r == '\'':
			j := i + 1
			for j < len(runes) && runes[j] != r {
				if runes[j] == '\\' && r == '"' {
					j++
				}
				j++
			}
			if j >= len(runes) {
				return nil, fmt.Errorf("unterminated quote at %d: %w", i, ErrUnexpectedToken)
			}
			raw := string(runes[i : j+1])
			text := string(runes[i+1 : j])
			if r == '"' {
				unq, err := strconv.Unquote(raw)
				if err != nil {
					return nil, fmt.Errorf("bad quoted value %s: %w", raw, ErrUnexpectedToken)
				}
				text = unq
			}
			toks = append(toks, token{text: text, quoted: true})
			i = j + 1

		case isOperatorRune(r):
			j := i
			for j < len(runes) && isOperatorRune(runes[j]) {
				j++
			}
			toks = append(toks, token{text: string(runes[i:j])})
			i = j

		default:
			text, j := scanWord(runes, i)
			// A range written as "10, 20" is one value.
			for strings.HasSuffix(text, ",") {
				k := j
				for k < len(runes) && unicode.IsSpace(runes[k]) {
					k++
				}
				if k == j || k >= len(runes) || !isWordRune(runes[k]) {
					break
				}
				next, end := scanWord(runes, k)
				if _, isJoin := joinAliases[strings.ToLower(next)]; isJoin {
					break
				}
				text, j = text+next, end
			}
			toks = append(toks, token{text: text})
			i = j
		}
	}
	return toks, nil
}

func isWordRune(r rune) bool {
	return !unicode.IsSpace(r) && !isOperatorRune(r) && r != '"' && r != '\''
}

func scanWord(runes []rune, i int) (string, int) {
	j := i
	for j < len(runes) && !unicode.IsSpace(runes[j]) && !isOperatorRune(runes[j]) && runes[j] != '"' {
		j++
	}
	return string(runes[i:j]), j
}

// quoteFilterText quotes s when the tokenizer would not read it back as a
// single plain word.
func quoteFilterText(s string) string {
	lower := strings.ToLower(s)
	_, isJoin := joinAliases[lower]
	_, isOp := operatorAliases[lower]
	if s == "" || isJoin || isOp || strings.HasSuffix(s, ",") ||
		strings.ContainsFunc(s, func(r rune) bool { return !isWordRune(r) }) {
		return strconv.Quote(s)
	}
	return s
}
