package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	ParentDir  string `toml:"parent_dir"`
	SplitDir   string `toml:"split_dir"`
	LogDir     string `toml:"log_dir"`
	LedgerPath string `toml:"ledger_path"`
}

// API contains configuration for the TNG project HTTP API.
type API struct {
	BaseURL string `toml:"base_url"`
	Key     string `toml:"key"`
}

// Batch contains configuration for batch runs.
type Batch struct {
	Workers      int  `toml:"workers"`
	DelaySeconds int  `toml:"delay_seconds"`
	KeepParents  bool `toml:"keep_parents"`
}

// Retry contains configuration for download retries.
type Retry struct {
	MaxAttempts       int `toml:"max_attempts"`
	BackoffSeconds    int `toml:"backoff_seconds"`
	MaxBackoffSeconds int `toml:"max_backoff_seconds"`
	TimeoutSeconds    int `toml:"timeout_seconds"`
}

// Catalog contains configuration for the FITS catalog output.
type Catalog struct {
	Path      string `toml:"path"`
	Append    bool   `toml:"append"`
	MergerDir string `toml:"merger_dir"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for skysplit.
//
// Configuration sections by subsystem:
//   - Paths: parent/split output directories, log directory, batch ledger
//   - API: TNG project API base URL and key
//   - Batch: worker count, politeness delay, parent retention
//   - Retry: download attempt limits, backoff, request timeout
//   - Catalog: catalog path, append mode, merger CSV directory
//   - Logging: log format and level
type Config struct {
	Paths   Paths   `toml:"paths"`
	API     API     `toml:"api"`
	Batch   Batch   `toml:"batch"`
	Retry   Retry   `toml:"retry"`
	Catalog Catalog `toml:"catalog"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/skysplit/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("skysplit.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates required directories for batch operation.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.ParentDir, c.Paths.SplitDir, c.Paths.LogDir}
	if ledgerDir := filepath.Dir(c.Paths.LedgerPath); ledgerDir != "." && ledgerDir != "" {
		dirs = append(dirs, ledgerDir)
	}
	if catalogDir := filepath.Dir(c.Catalog.Path); catalogDir != "." && catalogDir != "" {
		dirs = append(dirs, catalogDir)
	}
	for _, dir := range dirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	sample := sampleConfig

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
