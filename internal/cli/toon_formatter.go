package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	toon "github.com/toon-format/toon-go"
)

// ToonFormatter renders output in TOON (Token-Oriented Object Notation).
type ToonFormatter struct{}

// FormatSummary renders the summary as a single-row section, followed by
// the outputs table and, when present, the publish counts.
func (f *ToonFormatter) FormatSummary(w io.Writer, data SummaryData) error {
	sections := []string{f.buildSummarySection(data)}

	outputs, err := f.buildOutputsSection(data.Outputs)
	if err != nil {
		return err
	}
	sections = append(sections, outputs)

	if data.Publish != nil {
		sections = append(sections, f.buildPublishSection(*data.Publish))
	}

	_, err = fmt.Fprint(w, strings.Join(sections, "\n"))
	return err
}

func (f *ToonFormatter) buildSummarySection(data SummaryData) string {
	header := "summary{towns,municipalities,rows,skipped,filtered}:"
	values := strings.Join([]string{
		strconv.Itoa(data.Towns),
		strconv.Itoa(data.Municipalities),
		strconv.Itoa(data.Rows),
		strconv.Itoa(data.Skipped),
		strconv.Itoa(data.Filtered),
	}, ",")
	return header + "\n  " + values + "\n"
}

// buildOutputsSection renders outputs[N]{kind,path}. Paths go through the
// encoder so commas and quotes are escaped.
func (f *ToonFormatter) buildOutputsSection(outputs []OutputFile) (string, error) {
	if len(outputs) == 0 {
		return "outputs[0]{kind,path}:\n", nil
	}

	objects := make([]toon.Object, len(outputs))
	for i, o := range outputs {
		objects[i] = toon.NewObject(
			toon.Field{Key: "kind", Value: o.Kind},
			toon.Field{Key: "path", Value: o.Path},
		)
	}

	doc := toon.NewObject(toon.Field{Key: "outputs", Value: objects})
	result, err := toon.MarshalString(doc)
	if err != nil {
		return "", fmt.Errorf("toon marshal error: %w", err)
	}
	return result + "\n", nil
}

func (f *ToonFormatter) buildPublishSection(p PublishData) string {
	header := "publish{municipalities,towns,municipalities_deleted,towns_deleted}:"
	values := strings.Join([]string{
		strconv.FormatInt(p.Municipalities, 10),
		strconv.FormatInt(p.Towns, 10),
		strconv.FormatInt(p.MunicipalitiesDeleted, 10),
		strconv.FormatInt(p.TownsDeleted, 10),
	}, ",")
	return header + "\n  " + values + "\n"
}
