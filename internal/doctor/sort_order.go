package doctor

import (
	"context"
	"fmt"

	"github.com/leeovery/kanto/internal/extract"
)

// SortOrderCheck verifies that each output is strictly ascending, which
// also rules out duplicate rows.
type SortOrderCheck struct{}

// Run reports the first out-of-order or duplicate row in each output.
func (c *SortOrderCheck) Run(_ context.Context, snap *Snapshot) []CheckResult {
	const name = "Sort order"
	var failures []CheckResult

	if bad := unreadable(name, snap.Towns); bad != nil {
		failures = append(failures, bad...)
	} else if r, ok := firstDisorder(name, snap.Towns.Path, towns(snap.Towns.Rows), extract.CompareTowns); !ok {
		failures = append(failures, r)
	}

	if bad := unreadable(name, snap.Municipalities); bad != nil {
		failures = append(failures, bad...)
	} else if r, ok := firstDisorder(name, snap.Municipalities.Path, municipalities(snap.Municipalities.Rows), extract.CompareMunicipalities); !ok {
		failures = append(failures, r)
	}

	if len(failures) > 0 {
		return failures
	}
	return []CheckResult{{Name: name, Passed: true}}
}

// firstDisorder returns ok false with a failure for the first adjacent pair
// that is not strictly ascending. Positions count well-formed rows only.
func firstDisorder[T any](name, path string, rows []T, cmp func(a, b T) int) (CheckResult, bool) {
	for i := 1; i < len(rows); i++ {
		switch c := cmp(rows[i-1], rows[i]); {
		case c == 0:
			return CheckResult{
				Name:       name,
				Severity:   SeverityError,
				Details:    fmt.Sprintf("%s has a duplicate row at entry %d: %v", path, i+1, rows[i]),
				Suggestion: regenerate,
			}, false
		case c > 0:
			return CheckResult{
				Name:       name,
				Severity:   SeverityError,
				Details:    fmt.Sprintf("%s is out of order at entry %d: %v after %v", path, i+1, rows[i], rows[i-1]),
				Suggestion: regenerate,
			}, false
		}
	}
	return CheckResult{}, true
}
