package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateAPI(); err != nil {
		return err
	}
	if err := c.validateBatch(); err != nil {
		return err
	}
	if err := c.validateRetry(); err != nil {
		return err
	}
	if err := c.validateCatalog(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateAPI() error {
	if c.API.Key == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/skysplit/config.toml"
		}
		return fmt.Errorf("api.key is required. Set SKYSPLIT_API_KEY env var or edit %s (create with 'skysplit config init')", defaultPath)
	}
	parsed, err := url.Parse(c.API.BaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("api.base_url %q must be an absolute URL", c.API.BaseURL)
	}
	return nil
}

func (c *Config) validateBatch() error {
	if c.Batch.Workers <= 0 {
		return errors.New("batch.workers must be positive")
	}
	if c.Batch.DelaySeconds < 0 {
		return errors.New("batch.delay_seconds must be >= 0")
	}
	return nil
}

func (c *Config) validateRetry() error {
	if err := ensurePositiveMap(map[string]int{
		"retry.max_attempts":        c.Retry.MaxAttempts,
		"retry.backoff_seconds":     c.Retry.BackoffSeconds,
		"retry.max_backoff_seconds": c.Retry.MaxBackoffSeconds,
		"retry.timeout_seconds":     c.Retry.TimeoutSeconds,
	}); err != nil {
		return err
	}
	if c.Retry.MaxBackoffSeconds < c.Retry.BackoffSeconds {
		return errors.New("retry.max_backoff_seconds must be >= retry.backoff_seconds")
	}
	return nil
}

func (c *Config) validateCatalog() error {
	if strings.TrimSpace(c.Catalog.Path) == "" {
		return errors.New("catalog.path must be set")
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
