package doctor

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/leeovery/kanto/internal/storage/sqlite"
)

// ExportStalenessCheck verifies that the SQLite export was built from the
// current input by comparing source keys. It opens the export read-only and
// returns no result when no export is configured.
type ExportStalenessCheck struct{}

// Run hashes the input and compares it to the key stored in the export.
func (c *ExportStalenessCheck) Run(_ context.Context, snap *Snapshot) []CheckResult {
	const name = "Export"
	if snap.SQLite == "" {
		return nil
	}

	inputHash, err := hashFile(snap.Input)
	if err != nil {
		return []CheckResult{{
			Name:     name,
			Severity: SeverityWarning,
			Details:  fmt.Sprintf("cannot verify %s: input unreadable: %v", snap.SQLite, err),
		}}
	}

	stored, err := sqlite.StoredSourceKey(snap.SQLite)
	if os.IsNotExist(err) {
		return []CheckResult{{
			Name:       name,
			Severity:   SeverityError,
			Details:    fmt.Sprintf("%s not found", snap.SQLite),
			Suggestion: "Run `kanto extract --sqlite " + snap.SQLite + "` to build the export",
		}}
	}
	if err != nil || stored != sqlite.SourceKey(inputHash, snap.Encoding) {
		// An unreadable export counts as stale.
		return []CheckResult{{
			Name:       name,
			Severity:   SeverityError,
			Details:    fmt.Sprintf("%s is stale - it was not built from %s", snap.SQLite, snap.Input),
			Suggestion: regenerate,
		}}
	}

	return []CheckResult{{Name: name, Passed: true}}
}

func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
