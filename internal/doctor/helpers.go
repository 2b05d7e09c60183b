package doctor

import (
	"slices"
	"unicode/utf8"

	"github.com/leeovery/kanto/internal/extract"
)

// wellFormed reports whether row has width valid UTF-8 fields and a
// non-empty prefecture and city.
func wellFormed(row []string, width int) bool {
	if len(row) != width || row[0] == "" || row[1] == "" {
		return false
	}
	return !slices.ContainsFunc(row, func(f string) bool { return !utf8.ValidString(f) })
}

// municipalities converts the well-formed rows; RowShapeCheck reports the rest.
func municipalities(rows [][]string) []extract.Municipality {
	out := make([]extract.Municipality, 0, len(rows))
	for _, r := range rows {
		if wellFormed(r, 2) {
			out = append(out, extract.Municipality{Prefecture: r[0], City: r[1]})
		}
	}
	return out
}

// towns converts the well-formed rows; RowShapeCheck reports the rest.
func towns(rows [][]string) []extract.Town {
	out := make([]extract.Town, 0, len(rows))
	for _, r := range rows {
		if wellFormed(r, 3) {
			out = append(out, extract.Town{Prefecture: r[0], City: r[1], Town: r[2]})
		}
	}
	return out
}

// regenerate is the suggestion for any output defect.
const regenerate = "Run `kanto extract` to regenerate outputs"
