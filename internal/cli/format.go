package cli

import (
	"errors"
	"io"

	"github.com/leeovery/kanto/internal/config"
	"github.com/leeovery/kanto/internal/engine"
)

// Format represents the output format type.
type Format string

// Format constants for output selection.
const (
	FormatToon   Format = "toon"
	FormatPretty Format = "pretty"
	FormatJSON   Format = "json"
)

// FormatConfig holds output configuration passed to commands.
type FormatConfig struct {
	Format  Format
	Quiet   bool
	Verbose bool
}

// SummaryData holds the counts reported after a run.
type SummaryData struct {
	Towns          int
	Municipalities int
	Rows           int
	Skipped        int
	Filtered       int

	// Outputs lists the files written, towns first.
	Outputs []OutputFile

	// Publish is nil unless the run published to Postgres.
	Publish *PublishData
}

// OutputFile names one written file.
type OutputFile struct {
	Kind string
	Path string
}

// PublishData holds per-table row counts from a publish.
type PublishData struct {
	Municipalities        int64
	Towns                 int64
	MunicipalitiesDeleted int64
	TownsDeleted          int64
}

// Formatter renders command output.
type Formatter interface {
	// FormatSummary renders the result of an extract run.
	FormatSummary(w io.Writer, data SummaryData) error
}

func newSummaryData(cfg config.Config, sum engine.Summary) SummaryData {
	data := SummaryData{
		Towns:          sum.Towns,
		Municipalities: sum.Municipalities,
		Rows:           sum.Stats.Rows,
		Skipped:        sum.Stats.Short,
		Filtered:       sum.Stats.Filtered,
		Outputs: []OutputFile{
			{Kind: "towns", Path: cfg.Towns},
			{Kind: "municipalities", Path: cfg.Municipalities},
		},
	}
	if cfg.SQLite != "" {
		data.Outputs = append(data.Outputs, OutputFile{Kind: "sqlite", Path: cfg.SQLite})
	}
	if sum.Published {
		data.Publish = &PublishData{
			Municipalities:        sum.Publish.Municipalities,
			Towns:                 sum.Publish.Towns,
			MunicipalitiesDeleted: sum.Publish.MunicipalitiesDeleted,
			TownsDeleted:          sum.Publish.TownsDeleted,
		}
	}
	return data
}

// ResolveFormat determines the output format from flags. Returns an error
// if more than one format flag is set. With no flag the format is pretty,
// whether or not stdout is a terminal.
func ResolveFormat(toonFlag, prettyFlag, jsonFlag bool) (Format, error) {
	count := 0
	for _, set := range []bool{toonFlag, prettyFlag, jsonFlag} {
		if set {
			count++
		}
	}
	if count > 1 {
		return "", errors.New("cannot specify multiple format flags (--toon, --pretty, --json)")
	}

	switch {
	case toonFlag:
		return FormatToon, nil
	case jsonFlag:
		return FormatJSON, nil
	default:
		return FormatPretty, nil
	}
}

// NewFormatConfig creates a FormatConfig from the global flags.
func NewFormatConfig(gf globalFlags) (FormatConfig, error) {
	format, err := ResolveFormat(gf.Toon, gf.Pretty, gf.JSON)
	if err != nil {
		return FormatConfig{}, err
	}

	return FormatConfig{
		Format:  format,
		Quiet:   gf.Quiet,
		Verbose: gf.Verbose,
	}, nil
}

// Formatter returns the Formatter for the configured format.
func (c FormatConfig) Formatter() Formatter {
	switch c.Format {
	case FormatJSON:
		return &JSONFormatter{}
	case FormatToon:
		return &ToonFormatter{}
	default:
		return &PrettyFormatter{}
	}
}
