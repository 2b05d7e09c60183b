// Package csvout writes the municipality and town outputs as CSV files.
// It implements atomic writes using the temp file + fsync + rename pattern.
package csvout

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/leeovery/kanto/internal/extract"
)

var (
	// MunicipalityHeader is the header row of the municipality output.
	MunicipalityHeader = []string{"prefecture", "city"}
	// TownHeader is the header row of the town output.
	TownHeader = []string{"prefecture", "city", "town"}
)

// WriteMunicipalities writes the header and one row per municipality to path.
func WriteMunicipalities(path string, munis []extract.Municipality) error {
	return writeAtomic(path, func(w *csv.Writer) error {
		if err := w.Write(MunicipalityHeader); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
		for _, m := range munis {
			if err := w.Write([]string{m.Prefecture, m.City}); err != nil {
				return fmt.Errorf("failed to write municipality %s %s: %w", m.Prefecture, m.City, err)
			}
		}
		return nil
	})
}

// WriteTowns writes the header and one row per town to path.
func WriteTowns(path string, towns []extract.Town) error {
	return writeAtomic(path, func(w *csv.Writer) error {
		if err := w.Write(TownHeader); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
		for _, t := range towns {
			if err := w.Write([]string{t.Prefecture, t.City, t.Town}); err != nil {
				return fmt.Errorf("failed to write town %s %s %s: %w", t.Prefecture, t.City, t.Town, err)
			}
		}
		return nil
	})
}

// writeAtomic runs fill against a CSV writer backed by a temp file in the
// target directory, then fsyncs and renames it over path. Lines end in CRLF.
func writeAtomic(path string, fill func(w *csv.Writer) error) error {
	dir := filepath.Dir(path)
	base := filepath.Base(path)

	tmpFile, err := os.CreateTemp(dir, "."+base+".tmp*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	// Clean up temp file on any error
	success := false
	defer func() {
		if !success {
			tmpFile.Close()
			os.Remove(tmpPath)
		}
	}()

	buf := bufio.NewWriter(tmpFile)
	w := csv.NewWriter(buf)
	w.UseCRLF = true

	if err := fill(w); err != nil {
		return err
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush csv writer: %w", err)
	}
	if err := buf.Flush(); err != nil {
		return fmt.Errorf("failed to flush writer: %w", err)
	}

	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	// CreateTemp uses 0600; outputs are meant to be shared.
	if err := os.Chmod(tmpPath, 0644); err != nil {
		return fmt.Errorf("failed to set permissions on temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	success = true
	return nil
}
