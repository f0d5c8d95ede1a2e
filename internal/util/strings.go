package util

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// ToValidUTF8 ensures a string is valid UTF-8. Invalid input is decoded as
// Latin-1 (ISO-8859-1), the usual encoding of spreadsheet exports and
// older databases, so characters like ä or é survive instead of turning
// into replacement runes.
func ToValidUTF8(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().String(s)
	if err != nil {
		return strings.ToValidUTF8(s, "�")
	}
	return decoded
}

// CleanText repairs s with ToValidUTF8 and drops control characters other
// than tab and newline. Cell text ends up on a terminal, where an escape
// byte from the data would be interpreted rather than shown.
func CleanText(s string) string {
	s = ToValidUTF8(s)
	if !strings.ContainsFunc(s, isStrayControl) {
		return s
	}
	return strings.Map(func(r rune) rune {
		if isStrayControl(r) {
			return -1
		}
		return r
	}, s)
}

func isStrayControl(r rune) bool {
	return unicode.IsControl(r) && r != '\t' && r != '\n'
}
