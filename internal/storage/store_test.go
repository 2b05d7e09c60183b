package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofrs/flock"

	"github.com/leeovery/kanto/internal/extract"
)

// setupPaths returns output paths inside a fresh temp directory.
func setupPaths(t *testing.T) Paths {
	t.Helper()
	dir := t.TempDir()
	return Paths{
		Towns:          filepath.Join(dir, "kanto_towns.csv"),
		Municipalities: filepath.Join(dir, "kanto_municipalities.csv"),
	}
}

func sampleResult() extract.Result {
	return extract.Result{
		Municipalities: []extract.Municipality{
			{Prefecture: "千葉県", City: "船橋市"},
			{Prefecture: "東京都", City: "千代田区"},
		},
		Towns: []extract.Town{
			{Prefecture: "千葉県", City: "船橋市", Town: ""},
			{Prefecture: "東京都", City: "千代田区", Town: "丸の内"},
		},
	}
}

type recordingLogger struct {
	msgs []string
}

func (l *recordingLogger) Log(msg string) {
	l.msgs = append(l.msgs, msg)
}

func TestNewStore(t *testing.T) {
	t.Run("it places the lock file next to the town output", func(t *testing.T) {
		paths := setupPaths(t)
		store, err := NewStore(paths)
		if err != nil {
			t.Fatalf("NewStore returned error: %v", err)
		}
		want := filepath.Join(filepath.Dir(paths.Towns), LockFileName)
		if store.LockPath() != want {
			t.Errorf("LockPath() = %q, want %q", store.LockPath(), want)
		}
	})

	t.Run("it rejects missing output directories", func(t *testing.T) {
		paths := setupPaths(t)
		paths.Municipalities = filepath.Join(t.TempDir(), "nope", "m.csv")
		if _, err := NewStore(paths); err == nil {
			t.Fatal("expected error, got nil")
		}
	})

	t.Run("it rejects empty paths", func(t *testing.T) {
		if _, err := NewStore(Paths{Towns: "t.csv"}); err == nil {
			t.Fatal("expected error, got nil")
		}
	})
}

func TestStoreWrite(t *testing.T) {
	t.Run("it writes both outputs", func(t *testing.T) {
		paths := setupPaths(t)
		store, err := NewStore(paths)
		if err != nil {
			t.Fatalf("NewStore returned error: %v", err)
		}

		if err := store.Write(context.Background(), sampleResult()); err != nil {
			t.Fatalf("Write returned error: %v", err)
		}

		towns, err := os.ReadFile(paths.Towns)
		if err != nil {
			t.Fatalf("failed to read towns: %v", err)
		}
		if string(towns) != "prefecture,city,town\r\n千葉県,船橋市,\r\n東京都,千代田区,丸の内\r\n" {
			t.Errorf("towns = %q", towns)
		}

		munis, err := os.ReadFile(paths.Municipalities)
		if err != nil {
			t.Fatalf("failed to read municipalities: %v", err)
		}
		if string(munis) != "prefecture,city\r\n千葉県,船橋市\r\n東京都,千代田区\r\n" {
			t.Errorf("municipalities = %q", munis)
		}
	})

	t.Run("it holds the lock while writing and releases it afterwards", func(t *testing.T) {
		paths := setupPaths(t)
		store, err := NewStore(paths)
		if err != nil {
			t.Fatalf("NewStore returned error: %v", err)
		}

		if err := store.Write(context.Background(), sampleResult()); err != nil {
			t.Fatalf("Write returned error: %v", err)
		}

		other := flock.New(store.LockPath())
		locked, err := other.TryLock()
		if err != nil {
			t.Fatalf("TryLock returned error: %v", err)
		}
		if !locked {
			t.Error("lock still held after Write returned")
		}
		_ = other.Unlock()
	})

	t.Run("it logs lock and write steps through the logger", func(t *testing.T) {
		paths := setupPaths(t)
		logger := &recordingLogger{}
		store, err := NewStore(paths, WithLogger(logger))
		if err != nil {
			t.Fatalf("NewStore returned error: %v", err)
		}

		if err := store.Write(context.Background(), sampleResult()); err != nil {
			t.Fatalf("Write returned error: %v", err)
		}

		joined := strings.Join(logger.msgs, "\n")
		for _, want := range []string{
			"lock: acquiring exclusive lock",
			"lock: exclusive lock acquired",
			"write: 2 towns to ",
			"write: 2 municipalities to ",
			"lock: exclusive lock released",
		} {
			if !strings.Contains(joined, want) {
				t.Errorf("log missing %q; got:\n%s", want, joined)
			}
		}
	})
}

func TestStoreLockTimeout(t *testing.T) {
	t.Run("it returns error after lock timeout", func(t *testing.T) {
		paths := setupPaths(t)
		store, err := NewStore(paths, WithLockTimeout(100*time.Millisecond))
		if err != nil {
			t.Fatalf("NewStore returned error: %v", err)
		}

		// Hold an exclusive lock externally using flock directly.
		externalLock := flock.New(store.LockPath())
		if err := externalLock.Lock(); err != nil {
			t.Fatalf("failed to acquire external lock: %v", err)
		}
		defer func() { _ = externalLock.Unlock() }()

		err = store.Write(context.Background(), sampleResult())
		if err == nil {
			t.Fatal("expected lock timeout error, got nil")
		}

		expected := "could not acquire lock on " + store.LockPath() + " - another kanto run may be writing outputs"
		if err.Error() != expected {
			t.Errorf("error = %q, want %q", err.Error(), expected)
		}

		if _, statErr := os.Stat(paths.Towns); !os.IsNotExist(statErr) {
			t.Error("towns output was written without the lock")
		}
	})

	t.Run("it gives up when the context is cancelled", func(t *testing.T) {
		paths := setupPaths(t)
		store, err := NewStore(paths)
		if err != nil {
			t.Fatalf("NewStore returned error: %v", err)
		}

		externalLock := flock.New(store.LockPath())
		if err := externalLock.Lock(); err != nil {
			t.Fatalf("failed to acquire external lock: %v", err)
		}
		defer func() { _ = externalLock.Unlock() }()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		start := time.Now()
		if err := store.Write(ctx, sampleResult()); err == nil {
			t.Fatal("expected error, got nil")
		}
		if time.Since(start) > time.Second {
			t.Error("Write did not return promptly on a cancelled context")
		}
	})

	t.Run("it ignores non-positive timeouts", func(t *testing.T) {
		store, err := NewStore(setupPaths(t), WithLockTimeout(0))
		if err != nil {
			t.Fatalf("NewStore returned error: %v", err)
		}
		if store.lockTimeout != defaultLockTimeout {
			t.Errorf("lockTimeout = %v, want %v", store.lockTimeout, defaultLockTimeout)
		}
	})
}
