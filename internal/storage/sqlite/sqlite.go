// Package sqlite exports extraction results to a SQLite database with the
// same table layout the web app queries. The export is expendable and is
// rebuilt whenever the source file's hash changes.
package sqlite

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	_ "github.com/mattn/go-sqlite3"

	"github.com/leeovery/kanto/internal/extract"
)

const schema = `
CREATE TABLE IF NOT EXISTS jp_municipalities (
  prefecture TEXT NOT NULL,
  city TEXT NOT NULL,
  PRIMARY KEY (prefecture, city)
);

CREATE TABLE IF NOT EXISTS jp_towns (
  prefecture TEXT NOT NULL,
  city TEXT NOT NULL,
  town TEXT NOT NULL DEFAULT '',
  PRIMARY KEY (prefecture, city, town)
);

CREATE TABLE IF NOT EXISTS metadata (
  key TEXT PRIMARY KEY,
  value TEXT
);

CREATE INDEX IF NOT EXISTS idx_towns_city ON jp_towns(prefecture, city);
`

const sourceHashKey = "source_hash"

// SourceKey combines the input hash with the encoding it was decoded with;
// the same bytes yield different rows under another encoding.
func SourceKey(inputHash, encoding string) string {
	return inputHash + ":" + encoding
}

// StoredSourceKey opens the export read-only and returns its recorded
// source key. It never creates or modifies the file.
func StoredSourceKey(dbPath string) (string, error) {
	if _, err := os.Stat(dbPath); err != nil {
		return "", err
	}

	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?mode=ro", dbPath))
	if err != nil {
		return "", fmt.Errorf("failed to open export db: %w", err)
	}
	defer db.Close()

	var stored string
	err = db.QueryRow("SELECT value FROM metadata WHERE key = ?", sourceHashKey).Scan(&stored)
	if err != nil {
		return "", fmt.Errorf("failed to query %s: %w", sourceHashKey, err)
	}
	return stored, nil
}

// Export wraps the SQLite database holding the exported sets.
type Export struct {
	db     *sql.DB
	dbPath string
}

// Open opens or creates a SQLite export at the given path and initializes the schema.
func Open(dbPath string) (*Export, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open export db: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize export schema: %w", err)
	}

	return &Export{db: db, dbPath: dbPath}, nil
}

// DB returns the underlying *sql.DB for direct queries.
func (e *Export) DB() *sql.DB {
	return e.db
}

// Close closes the underlying database connection.
func (e *Export) Close() error {
	if e.db != nil {
		return e.db.Close()
	}
	return nil
}

// Rebuild clears both tables and repopulates them from res, recording
// sourceHash. The entire operation runs in a single transaction.
func (e *Export) Rebuild(res extract.Result, sourceHash string) error {
	tx, err := e.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin rebuild transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM jp_towns"); err != nil {
		return fmt.Errorf("failed to clear jp_towns: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM jp_municipalities"); err != nil {
		return fmt.Errorf("failed to clear jp_municipalities: %w", err)
	}

	muniStmt, err := tx.Prepare("INSERT INTO jp_municipalities (prefecture, city) VALUES (?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare municipality insert: %w", err)
	}
	defer muniStmt.Close()

	townStmt, err := tx.Prepare("INSERT INTO jp_towns (prefecture, city, town) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare town insert: %w", err)
	}
	defer townStmt.Close()

	for _, m := range res.Municipalities {
		if _, err := muniStmt.Exec(m.Prefecture, m.City); err != nil {
			return fmt.Errorf("failed to insert municipality %s %s: %w", m.Prefecture, m.City, err)
		}
	}
	for _, t := range res.Towns {
		if _, err := townStmt.Exec(t.Prefecture, t.City, t.Town); err != nil {
			return fmt.Errorf("failed to insert town %s %s %s: %w", t.Prefecture, t.City, t.Town, err)
		}
	}

	_, err = tx.Exec(
		"INSERT OR REPLACE INTO metadata (key, value) VALUES (?, ?)",
		sourceHashKey, sourceHash,
	)
	if err != nil {
		return fmt.Errorf("failed to store %s: %w", sourceHashKey, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit rebuild transaction: %w", err)
	}

	return nil
}

// IsFresh reports whether the stored source hash equals sourceHash.
// A missing hash is reported as stale.
func (e *Export) IsFresh(sourceHash string) (bool, error) {
	var stored string
	err := e.db.QueryRow("SELECT value FROM metadata WHERE key = ?", sourceHashKey).Scan(&stored)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to query %s: %w", sourceHashKey, err)
	}

	return stored == sourceHash, nil
}

// Counts returns the number of rows in jp_municipalities and jp_towns.
func (e *Export) Counts() (municipalities, towns int, err error) {
	if err := e.db.QueryRow("SELECT COUNT(*) FROM jp_municipalities").Scan(&municipalities); err != nil {
		return 0, 0, fmt.Errorf("failed to count municipalities: %w", err)
	}
	if err := e.db.QueryRow("SELECT COUNT(*) FROM jp_towns").Scan(&towns); err != nil {
		return 0, 0, fmt.Errorf("failed to count towns: %w", err)
	}
	return municipalities, towns, nil
}

// EnsureFresh opens or creates the export, checks freshness, and rebuilds
// when stale. If the file is missing or corrupted it is recreated from
// scratch. rebuilt reports whether the tables were rewritten.
func EnsureFresh(dbPath string, res extract.Result, sourceHash string) (export *Export, rebuilt bool, err error) {
	export, err = tryOpen(dbPath)
	if err != nil {
		// Missing or corrupted: recreate
		if !os.IsNotExist(err) {
			log.Printf("warning: export db unusable, recreating: %v", err)
		}
		export, err = recreateAndRebuild(dbPath, res, sourceHash)
		return export, err == nil, err
	}

	fresh, err := export.IsFresh(sourceHash)
	if err != nil {
		export.Close()
		log.Printf("warning: export freshness check failed, recreating: %v", err)
		export, err = recreateAndRebuild(dbPath, res, sourceHash)
		return export, err == nil, err
	}

	if fresh {
		return export, false, nil
	}

	if err := export.Rebuild(res, sourceHash); err != nil {
		export.Close()
		return nil, false, fmt.Errorf("failed to rebuild export: %w", err)
	}

	return export, true, nil
}

// tryOpen attempts to open the export and verify it has the expected schema.
// A missing file yields an error satisfying os.IsNotExist.
func tryOpen(dbPath string) (*Export, error) {
	if _, err := os.Stat(dbPath); err != nil {
		return nil, err
	}

	export, err := Open(dbPath)
	if err != nil {
		return nil, err
	}

	for _, table := range []string{"jp_municipalities", "jp_towns", "metadata"} {
		if _, err := export.db.Exec("SELECT 1 FROM " + table + " LIMIT 0"); err != nil {
			export.Close()
			return nil, fmt.Errorf("%s table unusable: %w", table, err)
		}
	}

	return export, nil
}

// recreateAndRebuild deletes any existing export file, creates a fresh one, and runs a full rebuild.
func recreateAndRebuild(dbPath string, res extract.Result, sourceHash string) (*Export, error) {
	if err := os.Remove(dbPath); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to remove unusable export: %w", err)
	}

	export, err := Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create new export: %w", err)
	}

	if err := export.Rebuild(res, sourceHash); err != nil {
		export.Close()
		return nil, fmt.Errorf("failed to rebuild new export: %w", err)
	}

	return export, nil
}
