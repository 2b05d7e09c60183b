// Package doctor verifies the files a kanto run leaves behind. It defines
// the check interface, result types, and a runner that executes all
// registered checks without short-circuiting.
package doctor

import "context"

// Severity indicates whether a check failure is an error or a warning.
// Errors affect exit code; warnings do not.
type Severity string

const (
	// SeverityError marks outputs that are wrong or unreadable.
	SeverityError Severity = "error"
	// SeverityWarning marks a state worth a look that does not fail the run.
	SeverityWarning Severity = "warning"
)

// CheckResult holds the outcome of a single check evaluation. A passing
// result has empty Details and Suggestion.
type CheckResult struct {
	// Name is the check's display label (e.g. "Headers", "Sort order").
	Name       string
	Passed     bool
	Severity   Severity
	Details    string
	Suggestion string
}

// Check is implemented by every diagnostic. A passing check returns exactly
// one result with Passed true; a failing one returns one or more failures.
type Check interface {
	Run(ctx context.Context, snap *Snapshot) []CheckResult
}

// DiagnosticReport collects all check results from a diagnostic run.
type DiagnosticReport struct {
	// Results contains all CheckResult entries in registration order.
	Results []CheckResult
}

// HasErrors reports whether any result failed with SeverityError.
func (r *DiagnosticReport) HasErrors() bool {
	return r.ErrorCount() > 0
}

// ErrorCount returns the number of failed results with SeverityError.
func (r *DiagnosticReport) ErrorCount() int {
	return r.count(SeverityError)
}

// WarningCount returns the number of failed results with SeverityWarning.
func (r *DiagnosticReport) WarningCount() int {
	return r.count(SeverityWarning)
}

func (r *DiagnosticReport) count(sev Severity) int {
	n := 0
	for _, result := range r.Results {
		if !result.Passed && result.Severity == sev {
			n++
		}
	}
	return n
}

// DiagnosticRunner executes an ordered list of checks against one snapshot.
type DiagnosticRunner struct {
	checks []Check
}

// NewDiagnosticRunner creates a DiagnosticRunner with no registered checks.
func NewDiagnosticRunner() *DiagnosticRunner {
	return &DiagnosticRunner{}
}

// NewDefaultRunner registers every output check in display order.
func NewDefaultRunner() *DiagnosticRunner {
	d := NewDiagnosticRunner()
	d.Register(&HeaderCheck{})
	d.Register(&RowShapeCheck{})
	d.Register(&PrefectureCheck{})
	d.Register(&SortOrderCheck{})
	d.Register(&TownReferenceCheck{})
	d.Register(&ExportStalenessCheck{})
	return d
}

// Register appends a check to the runner.
func (d *DiagnosticRunner) Register(check Check) {
	d.checks = append(d.checks, check)
}

// RunAll executes every registered check and collects the results. With
// zero registered checks it returns an empty report.
func (d *DiagnosticRunner) RunAll(ctx context.Context, snap *Snapshot) DiagnosticReport {
	var results []CheckResult
	for _, check := range d.checks {
		results = append(results, check.Run(ctx, snap)...)
	}
	return DiagnosticReport{Results: results}
}
