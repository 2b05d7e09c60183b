// Package storage writes extraction results to their CSV outputs under an
// advisory file lock, so concurrent kanto runs never interleave writes.
package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"github.com/leeovery/kanto/internal/extract"
	"github.com/leeovery/kanto/internal/storage/csvout"
)

const (
	defaultLockTimeout = 5 * time.Second
	lockRetryDelay     = 10 * time.Millisecond

	// LockFileName is created next to the town output.
	LockFileName = ".kanto.lock"
)

// Logger is an optional interface for verbose/debug logging.
// When set on a Store, key operations will log through it.
type Logger interface {
	Log(msg string)
}

// Paths locates the two CSV outputs.
type Paths struct {
	Towns          string
	Municipalities string
}

// Store writes both CSV outputs while holding an exclusive lock.
type Store struct {
	paths       Paths
	lockPath    string
	lockTimeout time.Duration
	logger      Logger
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithLockTimeout sets how long Write waits for the output lock.
func WithLockTimeout(d time.Duration) StoreOption {
	return func(s *Store) {
		if d > 0 {
			s.lockTimeout = d
		}
	}
}

// WithLogger sets a logger for verbose output of internal operations.
func WithLogger(l Logger) StoreOption {
	return func(s *Store) {
		s.logger = l
	}
}

// NewStore creates a Store for the given output paths. The directories that
// will hold the outputs must already exist.
func NewStore(paths Paths, opts ...StoreOption) (*Store, error) {
	if paths.Towns == "" || paths.Municipalities == "" {
		return nil, fmt.Errorf("both output paths are required")
	}
	for _, p := range []string{paths.Towns, paths.Municipalities} {
		dir := filepath.Dir(p)
		info, err := os.Stat(dir)
		if err != nil {
			return nil, fmt.Errorf("output directory does not exist: %w", err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("output path is not inside a directory: %s", p)
		}
	}

	s := &Store{
		paths:       paths,
		lockPath:    filepath.Join(filepath.Dir(paths.Towns), LockFileName),
		lockTimeout: defaultLockTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// LockPath returns the path of the advisory lock file.
func (s *Store) LockPath() string {
	return s.lockPath
}

// logVerbose writes a message through the logger if one is set.
func (s *Store) logVerbose(msg string) {
	if s.logger != nil {
		s.logger.Log(msg)
	}
}

// Write acquires the exclusive lock, writes the town and municipality files,
// and releases the lock. Each file is replaced atomically; a failure on the
// second file leaves the first one already written.
func (s *Store) Write(ctx context.Context, res extract.Result) error {
	fl := flock.New(s.lockPath)

	s.logVerbose("lock: acquiring exclusive lock")
	lockCtx, cancel := context.WithTimeout(ctx, s.lockTimeout)
	defer cancel()

	locked, err := fl.TryLockContext(lockCtx, lockRetryDelay)
	if err != nil || !locked {
		return fmt.Errorf("could not acquire lock on %s - another kanto run may be writing outputs", s.lockPath)
	}
	s.logVerbose("lock: exclusive lock acquired")
	defer func() {
		fl.Unlock()
		s.logVerbose("lock: exclusive lock released")
	}()

	s.logVerbose(fmt.Sprintf("write: %d towns to %s", len(res.Towns), s.paths.Towns))
	if err := csvout.WriteTowns(s.paths.Towns, res.Towns); err != nil {
		return fmt.Errorf("failed to write %s: %w", s.paths.Towns, err)
	}

	s.logVerbose(fmt.Sprintf("write: %d municipalities to %s", len(res.Municipalities), s.paths.Municipalities))
	if err := csvout.WriteMunicipalities(s.paths.Municipalities, res.Municipalities); err != nil {
		return fmt.Errorf("failed to write %s: %w", s.paths.Municipalities, err)
	}

	return nil
}
