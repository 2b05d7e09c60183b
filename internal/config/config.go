// Package config resolves the settings for a kanto run from built-in
// defaults, an optional kanto.yaml file, and command-line overrides, in
// that order of precedence.
package config

import (
	"cmp"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/leeovery/kanto/internal/postal"
)

const (
	// FileName is the config file picked up from the working directory.
	FileName = "kanto.yaml"
	// EnvFileName is the dotenv file loaded from the working directory.
	EnvFileName = ".env"

	DefaultInput          = "utf_ken_all.csv"
	DefaultTowns          = "kanto_towns.csv"
	DefaultMunicipalities = "kanto_municipalities.csv"
	DefaultLockTimeout    = 5 * time.Second
)

// Config holds the resolved settings for one run. Paths are absolute once
// returned by Load.
type Config struct {
	Input          string
	Encoding       postal.Encoding
	Towns          string
	Municipalities string
	// SQLite is the export path; empty disables the export.
	SQLite      string
	LockTimeout time.Duration
	Publish     bool
}

// Overrides carries command-line values. A nil field leaves the file or
// default value in place.
type Overrides struct {
	// ConfigPath names a config file that must exist. Empty means use
	// kanto.yaml when present.
	ConfigPath     string
	Input          *string
	Encoding       *string
	Towns          *string
	Municipalities *string
	SQLite         *string
	Publish        *bool
}

// fileConfig mirrors kanto.yaml.
type fileConfig struct {
	Input    *string `yaml:"input"`
	Encoding *string `yaml:"encoding"`
	Outputs  struct {
		Towns          *string `yaml:"towns"`
		Municipalities *string `yaml:"municipalities"`
	} `yaml:"outputs"`
	SQLite      *string `yaml:"sqlite"`
	LockTimeout *string `yaml:"lock_timeout"`
	Publish     *bool   `yaml:"publish"`
}

// Default returns the built-in settings with relative paths.
func Default() Config {
	return Config{
		Input:          DefaultInput,
		Encoding:       postal.EncodingUTF8,
		Towns:          DefaultTowns,
		Municipalities: DefaultMunicipalities,
		LockTimeout:    DefaultLockTimeout,
	}
}

// Load builds the Config for a run in workDir.
func Load(workDir string, ov Overrides) (Config, error) {
	cfg := Default()

	path, required := ov.ConfigPath, ov.ConfigPath != ""
	if !required {
		path = FileName
	}
	if err := cfg.applyFile(resolve(workDir, path), required); err != nil {
		return Config{}, err
	}

	if err := cfg.applyOverrides(ov); err != nil {
		return Config{}, err
	}

	cfg.Input = resolve(workDir, cfg.Input)
	cfg.Towns = resolve(workDir, cfg.Towns)
	cfg.Municipalities = resolve(workDir, cfg.Municipalities)
	if cfg.SQLite != "" {
		cfg.SQLite = resolve(workDir, cfg.SQLite)
	}

	return cfg, nil
}

func (c *Config) applyFile(path string, required bool) error {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !required {
			return nil
		}
		return fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)

	var fc fileConfig
	if err := dec.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("invalid config file %s: %w", path, err)
	}

	if fc.Input != nil {
		c.Input = *fc.Input
	}
	if fc.Encoding != nil {
		enc, err := postal.ParseEncoding(*fc.Encoding)
		if err != nil {
			return fmt.Errorf("invalid config file %s: %w", path, err)
		}
		c.Encoding = enc
	}
	if fc.Outputs.Towns != nil {
		c.Towns = *fc.Outputs.Towns
	}
	if fc.Outputs.Municipalities != nil {
		c.Municipalities = *fc.Outputs.Municipalities
	}
	if fc.SQLite != nil {
		c.SQLite = *fc.SQLite
	}
	if fc.LockTimeout != nil {
		d, err := time.ParseDuration(*fc.LockTimeout)
		if err != nil {
			return fmt.Errorf("invalid config file %s: lock_timeout: %w", path, err)
		}
		if d <= 0 {
			return fmt.Errorf("invalid config file %s: lock_timeout must be positive, got %s", path, d)
		}
		c.LockTimeout = d
	}
	if fc.Publish != nil {
		c.Publish = *fc.Publish
	}

	return nil
}

func (c *Config) applyOverrides(ov Overrides) error {
	if ov.Input != nil {
		c.Input = *ov.Input
	}
	if ov.Encoding != nil {
		enc, err := postal.ParseEncoding(*ov.Encoding)
		if err != nil {
			return err
		}
		c.Encoding = enc
	}
	if ov.Towns != nil {
		c.Towns = *ov.Towns
	}
	if ov.Municipalities != nil {
		c.Municipalities = *ov.Municipalities
	}
	if ov.SQLite != nil {
		c.SQLite = *ov.SQLite
	}
	if ov.Publish != nil {
		c.Publish = *ov.Publish
	}

	for name, v := range map[string]string{
		"input":          c.Input,
		"towns":          c.Towns,
		"municipalities": c.Municipalities,
	} {
		if v == "" {
			return fmt.Errorf("%s path must not be empty", name)
		}
	}

	return nil
}

// LoadEnv loads .env from workDir if it exists. Variables already set in
// the environment are kept.
func LoadEnv(workDir string) error {
	path := filepath.Join(workDir, EnvFileName)
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", EnvFileName, err)
	}
	return nil
}

// DatabaseURL returns DATABASE_URL, falling back to DB_URL.
func DatabaseURL() string {
	return cmp.Or(os.Getenv("DATABASE_URL"), os.Getenv("DB_URL"))
}

func resolve(workDir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(workDir, path)
}
