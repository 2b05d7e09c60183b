package main_test

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/leeovery/kanto/internal/testutil"
)

// buildKantoBinary builds the kanto binary for testing and returns its path.
func buildKantoBinary(t *testing.T) string {
	t.Helper()
	binPath := filepath.Join(t.TempDir(), "kanto")
	cmd := exec.Command("go", "build", "-o", binPath, "./cmd/kanto/")
	cmd.Dir = testutil.FindRepoRoot(t)
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("failed to build kanto binary: %v\n%s", err, out)
	}
	return binPath
}

func TestMainIntegration(t *testing.T) {
	binPath := buildKantoBinary(t)

	t.Run("it extracts in the working directory and exits 0", func(t *testing.T) {
		dir := t.TempDir()
		testutil.CopyFixture(t, testutil.SampleInput, dir, "utf_ken_all.csv")

		cmd := exec.Command(binPath)
		cmd.Dir = dir
		out, err := cmd.Output()
		if err != nil {
			t.Fatalf("kanto failed: %v", err)
		}

		if string(out) != "✅ 完了\n towns: 6\n municipalities: 4\n" {
			t.Errorf("stdout = %q", out)
		}
		towns, err := os.ReadFile(filepath.Join(dir, "kanto_towns.csv"))
		if err != nil {
			t.Fatalf("failed to read towns: %v", err)
		}
		if string(towns) != testutil.SampleTownsCSV {
			t.Errorf("towns = %q", towns)
		}
	})

	t.Run("it returns exit code 1 when the input is missing", func(t *testing.T) {
		cmd := exec.Command(binPath)
		cmd.Dir = t.TempDir()
		out, err := cmd.CombinedOutput()

		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			t.Fatalf("expected ExitError, got %T: %v", err, err)
		}
		if exitErr.ExitCode() != 1 {
			t.Errorf("exit code = %d, want 1", exitErr.ExitCode())
		}
		if !strings.HasPrefix(string(out), "Error: ") {
			t.Errorf("output = %q, want it to start with 'Error: '", out)
		}
	})
}
