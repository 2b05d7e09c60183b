// Package postal decodes rows of the Japan Post KEN_ALL postal-code dataset.
// Only the prefecture, city, and town columns are interpreted; everything
// else in a row is carried but ignored.
package postal

import (
	"strings"
	"unicode"
)

// Column indexes (0-based) of the fields kanto reads from a KEN_ALL row.
const (
	ColumnPrefecture = 6
	ColumnCity       = 7
	ColumnTown       = 8
)

// MinFields is the minimum number of fields a row needs to be usable.
const MinFields = ColumnTown + 1

// TownNotListed is the town label KEN_ALL uses for postal codes that cover
// a whole municipality. It is normalized to an empty town.
const TownNotListed = "以下に掲載がない場合"

// Record is one raw row of the dataset.
type Record []string

// Usable reports whether the record has enough fields to be read.
func (r Record) Usable() bool {
	return len(r) >= MinFields
}

// Fields returns the trimmed prefecture, city, and normalized town of the
// record. ok is false when the record is too short; the other values are
// then empty.
func (r Record) Fields() (prefecture, city, town string, ok bool) {
	if !r.Usable() {
		return "", "", "", false
	}
	prefecture = Normalize(r[ColumnPrefecture])
	city = Normalize(r[ColumnCity])
	town = NormalizeTown(Normalize(r[ColumnTown]))
	return prefecture, city, town, true
}

// Normalize trims leading and trailing whitespace, including the
// ideographic space U+3000 and the separators U+001C to U+001F.
func Normalize(s string) string {
	return strings.TrimFunc(s, isTrimmable)
}

func isTrimmable(r rune) bool {
	return unicode.IsSpace(r) || (r >= '\x1c' && r <= '\x1f')
}

// NormalizeTown maps the "not listed" sentinel to an empty town. Any other
// value is returned unchanged; the comparison is exact.
func NormalizeTown(town string) string {
	if town == TownNotListed {
		return ""
	}
	return town
}
