package doctor

import (
	"context"
	"strings"

	"github.com/leeovery/kanto/internal/region"
)

// PrefectureCheck verifies that no output row names a prefecture outside
// the Kanto allow-list.
type PrefectureCheck struct{}

// Run collects every foreign prefecture across both outputs.
func (c *PrefectureCheck) Run(_ context.Context, snap *Snapshot) []CheckResult {
	const name = "Prefectures"
	var failures []CheckResult
	kanto := region.KantoSet()
	foreign := region.NewSet()

	for _, f := range []OutputFile{snap.Towns, snap.Municipalities} {
		if bad := unreadable(name, f); bad != nil {
			failures = append(failures, bad...)
			continue
		}
		for _, row := range f.Rows {
			if len(row) > 0 && !kanto.Contains(row[0]) {
				foreign[row[0]] = struct{}{}
			}
		}
	}

	if len(foreign) > 0 {
		failures = append(failures, CheckResult{
			Name:       name,
			Severity:   SeverityError,
			Details:    "prefectures outside Kanto: " + strings.Join(foreign.Names(), ", "),
			Suggestion: regenerate,
		})
	}

	if len(failures) > 0 {
		return failures
	}
	return []CheckResult{{Name: name, Passed: true}}
}
