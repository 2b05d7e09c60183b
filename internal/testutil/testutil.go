// Package testutil provides shared test helpers for the kanto project.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// SampleInput is the KEN_ALL-format fixture under testdata/.
const SampleInput = "ken_all_sample.csv"

// Expected outputs for SampleInput, byte for byte.
const (
	SampleTownsCSV = "prefecture,city,town\r\n" +
		"千葉県,船橋市,\r\n" +
		"東京都,千代田区,\r\n" +
		"東京都,千代田区,丸の内\r\n" +
		"神奈川県,横浜市鶴見区,矢向\r\n" +
		"群馬県,前橋市,\r\n" +
		"群馬県,前橋市,大手町\r\n"

	SampleMunicipalitiesCSV = "prefecture,city\r\n" +
		"千葉県,船橋市\r\n" +
		"東京都,千代田区\r\n" +
		"神奈川県,横浜市鶴見区\r\n" +
		"群馬県,前橋市\r\n"
)

// FindRepoRoot walks up from the current working directory to find
// the repository root (the directory containing go.mod).
func FindRepoRoot(t *testing.T) string {
	t.Helper()
	dir, err := os.Getwd()
	if err != nil {
		t.Fatalf("cannot get working directory: %v", err)
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find repository root (no go.mod found)")
		}
		dir = parent
	}
}

// Fixture returns the contents of testdata/name at the repository root.
func Fixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(FindRepoRoot(t), "testdata", name))
	if err != nil {
		t.Fatalf("failed to read fixture %s: %v", name, err)
	}
	return data
}

// CopyFixture copies testdata/name into dir as dest and returns its path.
func CopyFixture(t *testing.T, name, dir, dest string) string {
	t.Helper()
	path := filepath.Join(dir, dest)
	if err := os.WriteFile(path, Fixture(t, name), 0644); err != nil {
		t.Fatalf("failed to copy fixture %s: %v", name, err)
	}
	return path
}
