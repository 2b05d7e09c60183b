package doctor

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/leeovery/kanto/internal/config"
)

// OutputFile is one CSV output as read back from disk.
type OutputFile struct {
	Path   string
	Header []string
	Rows   [][]string
	// Err is set when the file could not be read or parsed.
	Err error
}

// Snapshot is everything the checks inspect, loaded once per run.
type Snapshot struct {
	Towns          OutputFile
	Municipalities OutputFile

	Input    string
	Encoding string
	// SQLite is the export path; empty when no export is configured.
	SQLite string
}

// Load reads both CSV outputs named by cfg. Read failures are recorded on
// the OutputFile and reported by the checks.
func Load(cfg config.Config) *Snapshot {
	return &Snapshot{
		Towns:          readOutput(cfg.Towns),
		Municipalities: readOutput(cfg.Municipalities),
		Input:          cfg.Input,
		Encoding:       string(cfg.Encoding),
		SQLite:         cfg.SQLite,
	}
}

func readOutput(path string) OutputFile {
	out := OutputFile{Path: path}

	f, err := os.Open(path)
	if err != nil {
		out.Err = err
		return out
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		out.Err = fmt.Errorf("failed to parse: %w", err)
		return out
	}

	if len(records) > 0 {
		out.Header = records[0]
		out.Rows = records[1:]
	}
	return out
}

// unreadable returns an error result when f failed to load, or nil.
func unreadable(name string, f OutputFile) []CheckResult {
	if f.Err == nil {
		return nil
	}
	return []CheckResult{{
		Name:       name,
		Severity:   SeverityError,
		Details:    fmt.Sprintf("%s unreadable: %v", f.Path, f.Err),
		Suggestion: regenerate,
	}}
}
