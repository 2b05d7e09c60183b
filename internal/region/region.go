// Package region holds the fixed allow-list of prefectures kanto extracts.
package region

import "slices"

// Kanto lists the seven Kanto prefectures in their conventional display order.
var Kanto = []string{
	"東京都",
	"神奈川県",
	"千葉県",
	"埼玉県",
	"茨城県",
	"栃木県",
	"群馬県",
}

// Set is an allow-list of prefecture names. Lookups are exact; callers trim first.
type Set map[string]struct{}

// NewSet builds a Set from the given names.
func NewSet(names ...string) Set {
	s := make(Set, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

// KantoSet returns a fresh Set containing the Kanto prefectures.
func KantoSet() Set {
	return NewSet(Kanto...)
}

// Contains reports whether name is in the allow-list.
func (s Set) Contains(name string) bool {
	_, ok := s[name]
	return ok
}

// Names returns the allow-listed names in Kanto display order first,
// followed by any others sorted ascending.
func (s Set) Names() []string {
	names := make([]string, 0, len(s))
	seen := make(map[string]bool, len(s))
	for _, n := range Kanto {
		if s.Contains(n) {
			names = append(names, n)
			seen[n] = true
		}
	}
	var extra []string
	for n := range s {
		if !seen[n] {
			extra = append(extra, n)
		}
	}
	slices.Sort(extra)
	return append(names, extra...)
}
