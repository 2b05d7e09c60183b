package doctor

import (
	"context"
	"fmt"

	"github.com/leeovery/kanto/internal/extract"
)

// TownReferenceCheck verifies that every town's prefecture and city appear
// in the municipality output. A municipality with no town rows is only a
// warning, since the outputs can be edited independently.
type TownReferenceCheck struct{}

// Run cross-references the two outputs.
func (c *TownReferenceCheck) Run(_ context.Context, snap *Snapshot) []CheckResult {
	const name = "Town references"

	bad := append(unreadable(name, snap.Towns), unreadable(name, snap.Municipalities)...)
	if len(bad) > 0 {
		return bad
	}

	munis := make(map[extract.Municipality]bool)
	for _, m := range municipalities(snap.Municipalities.Rows) {
		munis[m] = false
	}

	var missing []extract.Municipality
	for _, t := range towns(snap.Towns.Rows) {
		m := t.Municipality()
		if _, ok := munis[m]; !ok {
			missing = append(missing, m)
			continue
		}
		munis[m] = true
	}

	var failures []CheckResult
	if len(missing) > 0 {
		failures = append(failures, CheckResult{
			Name:       name,
			Severity:   SeverityError,
			Details:    fmt.Sprintf("%d towns reference municipalities not in %s, e.g. %s %s", len(missing), snap.Municipalities.Path, missing[0].Prefecture, missing[0].City),
			Suggestion: regenerate,
		})
	}

	orphans := 0
	for _, used := range munis {
		if !used {
			orphans++
		}
	}
	if orphans > 0 {
		failures = append(failures, CheckResult{
			Name:     name,
			Severity: SeverityWarning,
			Details:  fmt.Sprintf("%d municipalities have no town rows", orphans),
		})
	}

	if len(failures) > 0 {
		return failures
	}
	return []CheckResult{{Name: name, Passed: true}}
}
