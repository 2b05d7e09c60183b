package doctor

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/leeovery/kanto/internal/storage/csvout"
)

// HeaderCheck verifies that each output starts with its fixed header row.
type HeaderCheck struct{}

// Run compares the first row of each output to the expected header.
func (c *HeaderCheck) Run(_ context.Context, snap *Snapshot) []CheckResult {
	const name = "Headers"
	var failures []CheckResult

	for _, item := range []struct {
		file OutputFile
		want []string
	}{
		{snap.Towns, csvout.TownHeader},
		{snap.Municipalities, csvout.MunicipalityHeader},
	} {
		if bad := unreadable(name, item.file); bad != nil {
			failures = append(failures, bad...)
			continue
		}
		if !slices.Equal(item.file.Header, item.want) {
			failures = append(failures, CheckResult{
				Name:       name,
				Severity:   SeverityError,
				Details:    fmt.Sprintf("%s header is %q, want %q", item.file.Path, strings.Join(item.file.Header, ","), strings.Join(item.want, ",")),
				Suggestion: regenerate,
			})
		}
	}

	if len(failures) > 0 {
		return failures
	}
	return []CheckResult{{Name: name, Passed: true}}
}
