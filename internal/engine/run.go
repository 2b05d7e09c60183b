// Package engine runs one extraction end to end: read the postal file,
// build the Kanto sets, write the CSV outputs under the output lock, and
// optionally refresh the SQLite export and publish to Postgres.
package engine

import (
	"context"
	"fmt"
	"os"

	"github.com/leeovery/kanto/internal/config"
	"github.com/leeovery/kanto/internal/extract"
	"github.com/leeovery/kanto/internal/postal"
	"github.com/leeovery/kanto/internal/publish"
	"github.com/leeovery/kanto/internal/region"
	"github.com/leeovery/kanto/internal/storage"
	"github.com/leeovery/kanto/internal/storage/sqlite"
)

// PublishFunc loads a result into the publish target.
type PublishFunc func(ctx context.Context, res extract.Result) (publish.Counts, error)

// Summary describes a finished run.
type Summary struct {
	Towns          int
	Municipalities int
	Stats          extract.Stats
	SourceKey      string

	// SQLiteRebuilt is set when the export was rewritten. It stays false
	// when the export was already fresh or is disabled.
	SQLiteRebuilt bool

	Published bool
	Publish   publish.Counts
}

// Runner executes runs for a fixed Config.
type Runner struct {
	cfg     config.Config
	logger  *VerboseLogger
	publish PublishFunc
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the verbose logger.
func WithLogger(l *VerboseLogger) Option {
	return func(r *Runner) {
		r.logger = l
	}
}

// WithPublisher replaces the Postgres publisher.
func WithPublisher(fn PublishFunc) Option {
	return func(r *Runner) {
		r.publish = fn
	}
}

// NewRunner creates a Runner for cfg.
func NewRunner(cfg config.Config, opts ...Option) *Runner {
	r := &Runner{cfg: cfg}
	for _, opt := range opts {
		opt(r)
	}
	if r.publish == nil {
		r.publish = r.publishPostgres
	}
	return r
}

// Run performs the extraction. Any error aborts the run; outputs written
// before the failure are left in place.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	res, key, err := r.extract()
	if err != nil {
		return Summary{}, err
	}

	sum := Summary{
		Towns:          len(res.Towns),
		Municipalities: len(res.Municipalities),
		Stats:          res.Stats,
		SourceKey:      key,
	}

	store, err := storage.NewStore(
		storage.Paths{Towns: r.cfg.Towns, Municipalities: r.cfg.Municipalities},
		storage.WithLockTimeout(r.cfg.LockTimeout),
		storage.WithLogger(r.logger),
	)
	if err != nil {
		return Summary{}, err
	}
	if err := store.Write(ctx, res); err != nil {
		return Summary{}, err
	}

	if r.cfg.SQLite != "" {
		rebuilt, err := r.export(res, key)
		if err != nil {
			return Summary{}, err
		}
		sum.SQLiteRebuilt = rebuilt
	}

	if r.cfg.Publish {
		counts, err := r.publish(ctx, res)
		if err != nil {
			return Summary{}, fmt.Errorf("failed to publish: %w", err)
		}
		sum.Published = true
		sum.Publish = counts
	}

	return sum, nil
}

// extract reads the whole input and returns the sorted sets and the
// source key used for SQLite freshness.
func (r *Runner) extract() (extract.Result, string, error) {
	f, err := os.Open(r.cfg.Input)
	if err != nil {
		return extract.Result{}, "", fmt.Errorf("failed to open input: %w", err)
	}
	defer f.Close()

	rd, err := postal.NewReader(f, r.cfg.Encoding)
	if err != nil {
		return extract.Result{}, "", err
	}

	r.logger.Logf("read: %s (%s)", r.cfg.Input, r.cfg.Encoding)
	res, err := extract.FromReader(rd, region.KantoSet())
	if err != nil {
		return extract.Result{}, "", err
	}

	st := res.Stats
	r.logger.Logf("read: %d rows, %d short, %d outside Kanto, %d accepted", st.Rows, st.Short, st.Filtered, st.Accepted)
	r.logger.Logf("extract: %d municipalities, %d towns", len(res.Municipalities), len(res.Towns))

	return res, sqlite.SourceKey(rd.Hash(), string(r.cfg.Encoding)), nil
}

func (r *Runner) export(res extract.Result, sourceKey string) (bool, error) {
	exp, rebuilt, err := sqlite.EnsureFresh(r.cfg.SQLite, res, sourceKey)
	if err != nil {
		return false, err
	}
	defer exp.Close()

	if rebuilt {
		r.logger.Logf("sqlite: rebuilt %s", r.cfg.SQLite)
	} else {
		r.logger.Logf("sqlite: %s is fresh, skipping rebuild", r.cfg.SQLite)
	}
	return rebuilt, nil
}

func (r *Runner) publishPostgres(ctx context.Context, res extract.Result) (publish.Counts, error) {
	p, err := publish.New(ctx, config.DatabaseURL(), region.Kanto, r.logger)
	if err != nil {
		return publish.Counts{}, err
	}
	defer p.Close()

	return p.Publish(ctx, res)
}
