// Package normalize provides the cell-level text canonicalization used by
// every other pipeline stage. Cell output is what ends up in a SizeTable;
// AliasKey output exists only for dictionary lookups and is never displayed.
package normalize

import (
	"regexp"
	"strings"
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	// Parenthetical or bracketed suffixes carry qualifiers, not identity:
	// "가슴(단면)" and "가슴" must share one alias key.
	parentheticalRe = regexp.MustCompile(`[(\[（【][^)\]）】]*[)\]）】]?`)
)

// Cell coerces a raw value into a normalized cell: runs of whitespace
// collapse to one space and the result is trimmed. Never fails; the empty
// string is the "no value" sentinel.
func Cell(v string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(v, " "))
}

// AliasKey produces the lookup form of a label: lowercased, parenthetical
// qualifiers stripped, and every rune outside [0-9a-z] and the Hangul
// syllable range removed.
func AliasKey(v string) string {
	s := strings.ToLower(Cell(v))
	s = parentheticalRe.ReplaceAllString(s, "")
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r >= 'a' && r <= 'z':
			b.WriteRune(r)
		case r >= '가' && r <= '힣':
			b.WriteRune(r)
		}
	}
	return b.String()
}
