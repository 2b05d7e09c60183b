// Package publish loads extraction results into the Postgres tables the web
// app reads: jp_municipalities and jp_towns.
//
// Publishing replaces only the rows of the allow-listed prefectures, so other
// regions loaded by separate runs are left untouched. The replacement runs in
// a single transaction; readers see either the old rows or the new ones.
package publish

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/leeovery/kanto/internal/extract"
)

// ErrNoDatabaseURL is returned by New when no connection string is configured.
var ErrNoDatabaseURL = errors.New("DATABASE_URL is not set")

const (
	createMunicipalities = `CREATE TABLE IF NOT EXISTS jp_municipalities (
  prefecture text NOT NULL,
  city text NOT NULL,
  PRIMARY KEY (prefecture, city)
)`

	createTowns = `CREATE TABLE IF NOT EXISTS jp_towns (
  prefecture text NOT NULL,
  city text NOT NULL,
  town text NOT NULL DEFAULT '',
  PRIMARY KEY (prefecture, city, town)
)`

	deleteTowns          = `DELETE FROM jp_towns WHERE prefecture = ANY($1)`
	deleteMunicipalities = `DELETE FROM jp_municipalities WHERE prefecture = ANY($1)`
)

var (
	municipalityTable   = pgx.Identifier{"jp_municipalities"}
	municipalityColumns = []string{"prefecture", "city"}
	townTable           = pgx.Identifier{"jp_towns"}
	townColumns         = []string{"prefecture", "city", "town"}
)

// Logger is an optional interface for verbose/debug logging.
type Logger interface {
	Log(msg string)
}

// Counts reports how many rows were deleted and copied per table.
type Counts struct {
	MunicipalitiesDeleted int64
	TownsDeleted          int64
	Municipalities        int64
	Towns                 int64
}

// txn is the subset of pgx.Tx used while publishing.
type txn interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
}

// Publisher writes results to Postgres through a connection pool.
type Publisher struct {
	pool        *pgxpool.Pool
	prefectures []string
	logger      Logger
}

// New connects to databaseURL and verifies the connection. prefectures are
// the allow-listed names whose rows each Publish replaces.
func New(ctx context.Context, databaseURL string, prefectures []string, logger Logger) (*Publisher, error) {
	if databaseURL == "" {
		return nil, ErrNoDatabaseURL
	}

	poolConfig, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}
	poolConfig.MaxConns = 2

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Publisher{pool: pool, prefectures: prefectures, logger: logger}, nil
}

// Close releases the pool.
func (p *Publisher) Close() {
	p.pool.Close()
}

// Publish replaces the allow-listed prefectures' rows with res in one
// transaction.
func (p *Publisher) Publish(ctx context.Context, res extract.Result) (Counts, error) {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return Counts{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) // No-op if already committed

	counts, err := replace(ctx, tx, p.prefectures, res, p.logVerbose)
	if err != nil {
		return Counts{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Counts{}, fmt.Errorf("failed to commit transaction: %w", err)
	}
	p.logVerbose("publish: committed")

	return counts, nil
}

func (p *Publisher) logVerbose(msg string) {
	if p.logger != nil {
		p.logger.Log(msg)
	}
}

// replace runs the create, delete, and copy steps against tx.
func replace(ctx context.Context, tx txn, prefectures []string, res extract.Result, logf func(string)) (Counts, error) {
	var c Counts

	for _, stmt := range []string{createMunicipalities, createTowns} {
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return c, fmt.Errorf("failed to create table: %w", err)
		}
	}

	tag, err := tx.Exec(ctx, deleteTowns, prefectures)
	if err != nil {
		return c, fmt.Errorf("failed to clear jp_towns: %w", err)
	}
	c.TownsDeleted = tag.RowsAffected()

	tag, err = tx.Exec(ctx, deleteMunicipalities, prefectures)
	if err != nil {
		return c, fmt.Errorf("failed to clear jp_municipalities: %w", err)
	}
	c.MunicipalitiesDeleted = tag.RowsAffected()
	logf(fmt.Sprintf("publish: deleted %d municipalities and %d towns", c.MunicipalitiesDeleted, c.TownsDeleted))

	c.Municipalities, err = tx.CopyFrom(ctx, municipalityTable, municipalityColumns, municipalityRows(res.Municipalities))
	if err != nil {
		return c, fmt.Errorf("failed to copy jp_municipalities: %w", err)
	}

	c.Towns, err = tx.CopyFrom(ctx, townTable, townColumns, townRows(res.Towns))
	if err != nil {
		return c, fmt.Errorf("failed to copy jp_towns: %w", err)
	}
	logf(fmt.Sprintf("publish: copied %d municipalities and %d towns", c.Municipalities, c.Towns))

	return c, nil
}

func municipalityRows(munis []extract.Municipality) pgx.CopyFromSource {
	return pgx.CopyFromSlice(len(munis), func(i int) ([]any, error) {
		return []any{munis[i].Prefecture, munis[i].City}, nil
	})
}

func townRows(towns []extract.Town) pgx.CopyFromSource {
	return pgx.CopyFromSlice(len(towns), func(i int) ([]any, error) {
		return []any{towns[i].Prefecture, towns[i].City, towns[i].Town}, nil
	})
}
