package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeAPI()
	c.normalizeBatch()
	c.normalizeRetry()
	if err := c.normalizeCatalog(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.ParentDir, err = expandPath(c.Paths.ParentDir); err != nil {
		return fmt.Errorf("paths.parent_dir: %w", err)
	}
	if c.Paths.SplitDir, err = expandPath(c.Paths.SplitDir); err != nil {
		return fmt.Errorf("paths.split_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LedgerPath) == "" {
		c.Paths.LedgerPath = defaultLedgerPath
	}
	if c.Paths.LedgerPath, err = expandPath(c.Paths.LedgerPath); err != nil {
		return fmt.Errorf("paths.ledger_path: %w", err)
	}
	return nil
}

func (c *Config) normalizeAPI() {
	c.API.Key = strings.TrimSpace(c.API.Key)
	if c.API.Key == "" {
		if value, ok := os.LookupEnv("SKYSPLIT_API_KEY"); ok {
			c.API.Key = strings.TrimSpace(value)
		}
	}
	c.API.BaseURL = strings.TrimRight(strings.TrimSpace(c.API.BaseURL), "/")
	if c.API.BaseURL == "" {
		c.API.BaseURL = defaultAPIBaseURL
	}
}

func (c *Config) normalizeBatch() {
	if c.Batch.Workers <= 0 {
		c.Batch.Workers = defaultWorkers
	}
	if c.Batch.DelaySeconds < 0 {
		c.Batch.DelaySeconds = 0
	}
}

func (c *Config) normalizeRetry() {
	if c.Retry.MaxAttempts <= 0 {
		c.Retry.MaxAttempts = defaultMaxAttempts
	}
	if c.Retry.BackoffSeconds <= 0 {
		c.Retry.BackoffSeconds = defaultBackoffSeconds
	}
	if c.Retry.MaxBackoffSeconds <= 0 {
		c.Retry.MaxBackoffSeconds = defaultMaxBackoffSeconds
	}
	if c.Retry.TimeoutSeconds <= 0 {
		c.Retry.TimeoutSeconds = defaultTimeoutSeconds
	}
}

func (c *Config) normalizeCatalog() error {
	var err error
	if strings.TrimSpace(c.Catalog.Path) == "" {
		c.Catalog.Path = defaultCatalogPath
	}
	if c.Catalog.Path, err = expandPath(c.Catalog.Path); err != nil {
		return fmt.Errorf("catalog.path: %w", err)
	}
	c.Catalog.MergerDir = strings.TrimSpace(c.Catalog.MergerDir)
	if c.Catalog.MergerDir != "" {
		if c.Catalog.MergerDir, err = expandPath(c.Catalog.MergerDir); err != nil {
			return fmt.Errorf("catalog.merger_dir: %w", err)
		}
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
