package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"skysplit/internal/logging"
	"skysplit/internal/services"
)

// Options configures the download client.
type Options struct {
	// MaxAttempts is the total number of attempts per request.
	// Default: 3
	MaxAttempts int

	// Backoff is the wait before the second attempt. It doubles on every
	// further attempt.
	// Default: 2s
	Backoff time.Duration

	// MaxBackoff caps the backoff growth.
	// Default: 30s
	MaxBackoff time.Duration

	// Timeout bounds each individual request.
	// Default: 300s
	Timeout time.Duration

	// APIKey is sent as the API-Key header when non-empty.
	APIKey string
}

// DefaultOptions returns options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		MaxAttempts: 3,
		Backoff:     2 * time.Second,
		MaxBackoff:  30 * time.Second,
		Timeout:     300 * time.Second,
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = def.MaxAttempts
	}
	if o.Backoff <= 0 {
		o.Backoff = def.Backoff
	}
	if o.MaxBackoff <= 0 {
		o.MaxBackoff = def.MaxBackoff
	}
	if o.Timeout <= 0 {
		o.Timeout = def.Timeout
	}
	return o
}

// Client downloads files and JSON documents with retry on transient failures.
type Client struct {
	client *http.Client
	opts   Options
	logger *slog.Logger
}

// NewClient creates a download client with the given options. A nil logger
// disables logging.
func NewClient(opts Options, logger *slog.Logger) *Client {
	opts = opts.withDefaults()
	return &Client{
		client: &http.Client{Timeout: opts.Timeout},
		opts:   opts,
		logger: logging.NewComponentLogger(logger, "fetcher"),
	}
}

// Fetch downloads url into dest. The payload is streamed to dest+".part" and
// renamed into place only after the full body has been written, so dest is
// never left truncated. Transient failures (transport errors, timeouts, 5xx)
// are retried up to MaxAttempts with exponential backoff; any 4xx aborts
// immediately with a fatal error.
func (c *Client) Fetch(ctx context.Context, url, dest string) error {
	partial := dest + ".part"
	logger := logging.WithContext(ctx, c.logger)
	var lastErr error

	for attempt := 1; attempt <= c.opts.MaxAttempts; attempt++ {
		if attempt > 1 {
			wait := c.backoffDelay(attempt)
			logger.Debug("retrying download",
				logging.String("url", url),
				logging.Int("attempt", attempt),
				logging.Duration("backoff", wait))
			if err := sleepContext(ctx, wait); err != nil {
				return err
			}
		}

		err := c.fetchOnce(ctx, url, partial, dest)
		if err == nil {
			return nil
		}
		if !services.Retryable(err) || ctx.Err() != nil {
			return err
		}
		lastErr = err
		logger.Warn("download attempt failed",
			logging.String("url", url),
			logging.Int("attempt", attempt),
			logging.Error(err))
	}

	return services.Wrap(services.ErrTransient, "fetch", "download",
		fmt.Sprintf("all %d attempts failed", c.opts.MaxAttempts), lastErr)
}

func (c *Client) fetchOnce(ctx context.Context, url, partial, dest string) (err error) {
	resp, err := c.do(ctx, url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return services.Wrap(services.ErrFatal, "fetch", "prepare", "create destination directory", err)
	}

	file, err := os.Create(partial)
	if err != nil {
		return services.Wrap(services.ErrFatal, "fetch", "prepare", "create partial file", err)
	}
	defer func() {
		if err != nil {
			file.Close()
			os.Remove(partial)
		}
	}()

	if _, err = io.Copy(file, resp.Body); err != nil {
		return services.Wrap(services.ErrTransient, "fetch", "download", "copy body", err)
	}
	if err = file.Close(); err != nil {
		return services.Wrap(services.ErrTransient, "fetch", "download", "flush partial file", err)
	}
	if err = os.Rename(partial, dest); err != nil {
		return services.Wrap(services.ErrFatal, "fetch", "finalize", "rename into place", err)
	}
	return nil
}

// GetJSON fetches url and decodes the response body into v, using the same
// retry policy as Fetch.
func (c *Client) GetJSON(ctx context.Context, url string, v any) error {
	var lastErr error

	for attempt := 1; attempt <= c.opts.MaxAttempts; attempt++ {
		if attempt > 1 {
			if err := sleepContext(ctx, c.backoffDelay(attempt)); err != nil {
				return err
			}
		}

		err := c.getJSONOnce(ctx, url, v)
		if err == nil {
			return nil
		}
		if !services.Retryable(err) || ctx.Err() != nil {
			return err
		}
		lastErr = err
	}

	return services.Wrap(services.ErrTransient, "fetch", "get-json",
		fmt.Sprintf("all %d attempts failed", c.opts.MaxAttempts), lastErr)
}

func (c *Client) getJSONOnce(ctx context.Context, url string, v any) error {
	resp, err := c.do(ctx, url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return services.Wrap(services.ErrTransient, "fetch", "get-json", "decode response", err)
	}
	return nil
}

// do issues one GET and classifies the outcome. The caller owns the response
// body on nil error.
func (c *Client) do(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, services.Wrap(services.ErrFatal, "fetch", "request", "build request", err)
	}
	if c.opts.APIKey != "" {
		req.Header.Set("API-Key", c.opts.APIKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, services.Wrap(services.ErrTransient, "fetch", "request", "transport", err)
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return resp, nil
	case resp.StatusCode >= 500:
		resp.Body.Close()
		return nil, services.Wrap(services.ErrTransient, "fetch", "request",
			fmt.Sprintf("server error %d %s", resp.StatusCode, http.StatusText(resp.StatusCode)), nil)
	default:
		resp.Body.Close()
		return nil, services.Wrap(services.ErrFatal, "fetch", "request",
			fmt.Sprintf("status %d %s", resp.StatusCode, http.StatusText(resp.StatusCode)), nil)
	}
}

// backoffDelay computes the wait before the given attempt: Backoff doubled
// per prior retry, capped at MaxBackoff. No jitter, so successive waits are
// strictly increasing until the cap.
func (c *Client) backoffDelay(attempt int) time.Duration {
	delay := c.opts.Backoff * time.Duration(1<<uint(attempt-2))
	if delay > c.opts.MaxBackoff || delay <= 0 {
		delay = c.opts.MaxBackoff
	}
	return delay
}

func sleepContext(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
