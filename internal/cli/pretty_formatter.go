package cli

import (
	"fmt"
	"io"
)

// PrettyFormatter renders the plain console summary.
type PrettyFormatter struct{}

// FormatSummary writes the completion banner and the two counts. Publish
// counts follow on their own line when present.
func (f *PrettyFormatter) FormatSummary(w io.Writer, data SummaryData) error {
	if _, err := fmt.Fprintf(w, "✅ 完了\n towns: %d\n municipalities: %d\n", data.Towns, data.Municipalities); err != nil {
		return err
	}
	if p := data.Publish; p != nil {
		_, err := fmt.Fprintf(w, " published: %d municipalities, %d towns\n", p.Municipalities, p.Towns)
		return err
	}
	return nil
}
