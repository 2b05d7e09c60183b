package doctor

import (
	"fmt"
	"io"
)

// FormatReport writes each result as a pass (✓), failure (✗), or warning
// (⚠) line, followed by a count of issues.
func FormatReport(w io.Writer, report DiagnosticReport) {
	issues := 0

	for _, r := range report.Results {
		switch {
		case r.Passed:
			fmt.Fprintf(w, "✓ %s: OK\n", r.Name)
			continue
		case r.Severity == SeverityWarning:
			fmt.Fprintf(w, "⚠ %s: %s\n", r.Name, r.Details)
		default:
			fmt.Fprintf(w, "✗ %s: %s\n", r.Name, r.Details)
		}
		if r.Suggestion != "" {
			fmt.Fprintf(w, "  → %s\n", r.Suggestion)
		}
		issues++
	}

	if len(report.Results) > 0 {
		fmt.Fprint(w, "\n")
	}

	switch issues {
	case 0:
		fmt.Fprint(w, "No issues found.\n")
	case 1:
		fmt.Fprint(w, "1 issue found.\n")
	default:
		fmt.Fprintf(w, "%d issues found.\n", issues)
	}
}

// ExitCode returns 1 when the report has any error-severity failure and 0
// otherwise; warnings alone do not fail.
func ExitCode(report DiagnosticReport) int {
	if report.HasErrors() {
		return 1
	}
	return 0
}
