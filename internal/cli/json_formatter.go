package cli

import (
	"encoding/json"
	"fmt"
	"io"
)

// JSONFormatter renders snake_case JSON, 2-space indented.
type JSONFormatter struct{}

type jsonSummary struct {
	Towns          int          `json:"towns"`
	Municipalities int          `json:"municipalities"`
	Rows           int          `json:"rows"`
	Skipped        int          `json:"skipped"`
	Filtered       int          `json:"filtered"`
	Outputs        []jsonOutput `json:"outputs"`
	Publish        *jsonPublish `json:"publish,omitempty"`
}

type jsonOutput struct {
	Kind string `json:"kind"`
	Path string `json:"path"`
}

type jsonPublish struct {
	Municipalities        int64 `json:"municipalities"`
	Towns                 int64 `json:"towns"`
	MunicipalitiesDeleted int64 `json:"municipalities_deleted"`
	TownsDeleted          int64 `json:"towns_deleted"`
}

// FormatSummary renders the run summary as a JSON object.
func (f *JSONFormatter) FormatSummary(w io.Writer, data SummaryData) error {
	obj := jsonSummary{
		Towns:          data.Towns,
		Municipalities: data.Municipalities,
		Rows:           data.Rows,
		Skipped:        data.Skipped,
		Filtered:       data.Filtered,
		Outputs:        make([]jsonOutput, 0, len(data.Outputs)),
	}
	for _, o := range data.Outputs {
		obj.Outputs = append(obj.Outputs, jsonOutput{Kind: o.Kind, Path: o.Path})
	}
	if p := data.Publish; p != nil {
		obj.Publish = &jsonPublish{
			Municipalities:        p.Municipalities,
			Towns:                 p.Towns,
			MunicipalitiesDeleted: p.MunicipalitiesDeleted,
			TownsDeleted:          p.TownsDeleted,
		}
	}
	return f.writeJSON(w, obj)
}

// writeJSON marshals v as 2-space indented JSON and writes it to w with a trailing newline.
func (f *JSONFormatter) writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal error: %w", err)
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}
