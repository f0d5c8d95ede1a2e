package grid

import (
	"testing"

	"github.com/stretchr/testify/require"
)

var parserCols = []Column{{Key: "age", Label: "Age"}, {Key: "full_name", Label: "Name"}, {Key: "city", Label: "City"}}

func TestParseFilter(t *testing.T) {
	t.Parallel()

	conds, err := ParseFilter(`age > 25 and Name ~ "bo b" or city = Oslo`, parserCols)
	require.NoError(t, err)
	require.Len(t, conds, 3)

	require.Equal(t, "age", conds[0].Column)
	require.Equal(t, PredicateGreaterThan, conds[0].Predicate)
	require.Equal(t, "25", conds[0].Value)
	require.Equal(t, JoinAnd, conds[0].Join)

	require.Equal(t, "full_name", conds[1].Column)
	require.Equal(t, PredicateContains, conds[1].Predicate)
	require.Equal(t, "bo b", conds[1].Value)
	require.Equal(t, JoinOr, conds[1].Join)

	require.Equal(t, PredicateEquals, conds[2].Predicate)
	require.Equal(t, JoinNone, conds[2].Join)
	require.NotEqual(t, conds[0].ID, conds[1].ID)
}

func TestParseFilterOperatorsWithoutSpaces(t *testing.T) {
	t.Parallel()

	conds, err := ParseFilter(`age>=1`, parserCols)
	require.ErrorIs(t, err, ErrUnknownOperator)
	require.Nil(t, conds)

	conds, err = ParseFilter(`age<30||city^=os`, parserCols)
	require.NoError(t, err)
	require.Len(t, conds, 2)
	require.Equal(t, PredicateLessThan, conds[0].Predicate)
	require.Equal(t, JoinOr, conds[0].Join)
	require.Equal(t, PredicateStartsWith, conds[1].Predicate)
	require.Equal(t, "os", conds[1].Value)
}

func TestParseFilterWords(t *testing.T) {
	t.Parallel()

	conds, err := ParseFilter(`age between 20,30 && city not_contains 'x y'`, parserCols)
	require.NoError(t, err)
	require.Equal(t, PredicateIsBetween, conds[0].Predicate)
	require.Equal(t, "20,30", conds[0].Value)
	require.Equal(t, "x y", conds[1].Value)
}

func TestParseFilterErrors(t *testing.T) {
	t.Parallel()

	cases := map[string]error{
		`height > 3`:       ErrUnknownColumn,
		`age`:              ErrUnknownOperator,
		`age >`:            ErrMissingValue,
		`age > and`:        ErrMissingValue,
		`age > 3 city = x`: ErrUnexpectedToken,
		`age > 3 and`:      ErrMissingValue,
		`age = "open`:      ErrUnexpectedToken,
	}
	for expr, want := range cases {
		_, err := ParseFilter(expr, parserCols)
		require.ErrorIs(t, err, want, expr)
	}

	conds, err := ParseFilter("   ", parserCols)
	require.NoError(t, err)
	require.Empty(t, conds)
}

func TestFormatFilterRoundTrip(t *testing.T) {
	t.Parallel()

	expr := `age greater_than 25 and full_name contains "bo b" or city equals Oslo`
	conds, err := ParseFilter(expr, parserCols)
	require.NoError(t, err)
	require.Equal(t, expr, FormatFilter(conds))

	again, err := ParseFilter(FormatFilter(conds), parserCols)
	require.NoError(t, err)
	require.Len(t, again, 3)
}

func TestFormatFilterQuotesAwkwardText(t *testing.T) {
	t.Parallel()

	cols := []Column{{Key: "price"}, {Key: "op"}, {Key: "first name"}, {Key: "and"}}
	cases := map[string]Condition{
		`price equals "$5"`:              {Column: "price", Predicate: PredicateEquals, Value: "$5"},
		`price contains "a|b"`:           {Column: "price", Predicate: PredicateContains, Value: "a|b"},
		`op equals "or"`:                 {Column: "op", Predicate: PredicateEquals, Value: "or"},
		`op equals "&&"`:                 {Column: "op", Predicate: PredicateEquals, Value: "&&"},
		`op equals "contains"`:           {Column: "op", Predicate: PredicateEquals, Value: "contains"},
		`op equals "it's"`:               {Column: "op", Predicate: PredicateEquals, Value: "it's"},
		`op equals "x,"`:                 {Column: "op", Predicate: PredicateEquals, Value: "x,"},
		`"first name" equals bo`:         {Column: "first name", Predicate: PredicateEquals, Value: "bo"},
		`"and" starts_with "say \"hi\""`: {Column: "and", Predicate: PredicateStartsWith, Value: `say "hi"`},
	}
	for want, c := range cases {
		c.Join = JoinNone
		require.Equal(t, want, c.String())

		conds, err := ParseFilter(FormatFilter([]Condition{c}), cols)
		require.NoError(t, err, want)
		require.Len(t, conds, 1, want)
		require.Equal(t, c.Column, conds[0].Column, want)
		require.Equal(t, c.Predicate, conds[0].Predicate, want)
		require.Equal(t, c.Value, conds[0].Value, want)
	}

	// A prompt pre-filled from the current conditions applies unchanged.
	conds := []Condition{
		{Column: "first name", Predicate: PredicateEquals, Value: "bo", Join: JoinOr},
		{Column: "price", Predicate: PredicateEquals, Value: "$5", Join: JoinAnd},
		{Column: "op", Predicate: PredicateEquals, Value: "or"},
	}
	again, err := ParseFilter(FormatFilter(conds), cols)
	require.NoError(t, err)
	require.Len(t, again, 3)
	require.Equal(t, JoinOr, again[0].Join)
	require.Equal(t, "$5", again[1].Value)
	require.Equal(t, JoinAnd, again[1].Join)
	require.Equal(t, "or", again[2].Value)
}

func TestParseFilterRangeWithSpace(t *testing.T) {
	t.Parallel()

	conds, err := ParseFilter(`age between 10, 20 and city = Oslo`, parserCols)
	require.NoError(t, err)
	require.Len(t, conds, 2)
	require.Equal(t, PredicateIsBetween, conds[0].Predicate)
	require.Equal(t, "10,20", conds[0].Value)
	require.Equal(t, JoinAnd, conds[0].Join)

	// A trailing comma before a join stays part of the value.
	conds, err = ParseFilter(`city = x, or age > 3`, parserCols)
	require.NoError(t, err)
	require.Len(t, conds, 2)
	require.Equal(t, "x,", conds[0].Value)
	require.Equal(t, JoinOr, conds[0].Join)
}
