package doctor

import (
	"context"
	"fmt"
)

// RowShapeCheck verifies every data row has the right number of valid
// UTF-8 fields and a non-empty prefecture and city.
type RowShapeCheck struct{}

// Run scans both outputs and reports one failure per file with bad rows.
func (c *RowShapeCheck) Run(_ context.Context, snap *Snapshot) []CheckResult {
	const name = "Row shape"
	var failures []CheckResult

	for _, item := range []struct {
		file  OutputFile
		width int
	}{
		{snap.Towns, 3},
		{snap.Municipalities, 2},
	} {
		if bad := unreadable(name, item.file); bad != nil {
			failures = append(failures, bad...)
			continue
		}

		count, first := 0, 0
		for i, row := range item.file.Rows {
			if !wellFormed(row, item.width) {
				if count == 0 {
					first = i + 2 // header is line 1
				}
				count++
			}
		}
		if count > 0 {
			failures = append(failures, CheckResult{
				Name:       name,
				Severity:   SeverityError,
				Details:    fmt.Sprintf("%s has %d malformed rows (first at line %d)", item.file.Path, count, first),
				Suggestion: regenerate,
			})
		}
	}

	if len(failures) > 0 {
		return failures
	}
	return []CheckResult{{Name: name, Passed: true}}
}
