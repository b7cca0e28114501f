package queue

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"skysplit/internal/config"
)

// Store manages ledger persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}

func (s *Store) execWithRetry(ctx context.Context, query string, args ...any) (sql.Result, error) {
	ctx = ensureContext(ctx)
	var (
		res     sql.Result
		execErr error
	)
	if err := retryOnBusy(ctx, func() error {
		res, execErr = s.db.ExecContext(ctx, query, args...)
		return execErr
	}); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *Store) execWithoutResultRetry(ctx context.Context, query string, args ...any) error {
	ctx = ensureContext(ctx)
	return retryOnBusy(ctx, func() error {
		_, err := s.db.ExecContext(ctx, query, args...)
		return err
	})
}

// Open initializes or connects to the ledger database configured in cfg.
func Open(cfg *config.Config) (*Store, error) {
	return OpenPath(cfg.Paths.LedgerPath)
}

// OpenPath initializes or connects to a ledger database at an explicit path.
func OpenPath(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("ensure ledger directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Path returns the database file location.
func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

const itemColumns = `id, url, status, run_id, attempts, error_message, parent_file, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*Item, error) {
	var (
		item         Item
		status       string
		runID        sql.NullString
		errorMessage sql.NullString
		parentFile   sql.NullString
		createdAt    string
		updatedAt    string
	)
	if err := row.Scan(
		&item.ID,
		&item.URL,
		&status,
		&runID,
		&item.Attempts,
		&errorMessage,
		&parentFile,
		&createdAt,
		&updatedAt,
	); err != nil {
		return nil, err
	}

	item.Status = Status(status)
	item.RunID = runID.String
	item.ErrorMessage = errorMessage.String
	item.ParentFile = parentFile.String
	item.CreatedAt = parseTimestamp(createdAt)
	item.UpdatedAt = parseTimestamp(updatedAt)
	return &item, nil
}

func parseTimestamp(value string) time.Time {
	if ts, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return ts
	}
	return time.Time{}
}

func nullableString(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}

// Enqueue inserts a pending ledger row for url, or returns the existing row
// when the url is already tracked.
func (s *Store) Enqueue(ctx context.Context, url string) (*Item, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, errors.New("url is empty")
	}

	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	if _, err := s.execWithRetry(
		ctx,
		`INSERT INTO ledger_items (url, status, created_at, updated_at)
         VALUES (?, ?, ?, ?)
         ON CONFLICT(url) DO NOTHING`,
		url,
		StatusPending,
		timestamp,
		timestamp,
	); err != nil {
		return nil, fmt.Errorf("enqueue url: %w", err)
	}

	return s.GetByURL(ctx, url)
}

// GetByID fetches a ledger item by identifier. Returns nil when no item
// exists.
func (s *Store) GetByID(ctx context.Context, id int64) (*Item, error) {
	row := s.db.QueryRowContext(ensureContext(ctx), `SELECT `+itemColumns+` FROM ledger_items WHERE id = ?`, id)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	return item, nil
}

// GetByURL fetches a ledger item by its URL. Returns nil when no item
// exists.
func (s *Store) GetByURL(ctx context.Context, url string) (*Item, error) {
	row := s.db.QueryRowContext(ensureContext(ctx), `SELECT `+itemColumns+` FROM ledger_items WHERE url = ?`, url)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get item by url: %w", err)
	}
	return item, nil
}

// Update persists changes to an existing ledger item.
func (s *Store) Update(ctx context.Context, item *Item) error {
	if item == nil {
		return errors.New("item is nil")
	}
	item.UpdatedAt = time.Now().UTC()
	if err := s.execWithoutResultRetry(
		ctx,
		`UPDATE ledger_items
         SET url = ?, status = ?, run_id = ?, attempts = ?,
             error_message = ?, parent_file = ?, updated_at = ?
         WHERE id = ?`,
		item.URL,
		item.Status,
		nullableString(item.RunID),
		item.Attempts,
		nullableString(item.ErrorMessage),
		nullableString(item.ParentFile),
		item.UpdatedAt.Format(time.RFC3339Nano),
		item.ID,
	); err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	return nil
}

// List returns ledger items filtered by status (all items when no status is
// given), ordered by creation time.
func (s *Store) List(ctx context.Context, statuses ...Status) ([]*Item, error) {
	ctx = ensureContext(ctx)
	baseQuery := `SELECT ` + itemColumns + ` FROM ledger_items`
	orderClause := ` ORDER BY created_at, id`

	var (
		rows *sql.Rows
		err  error
	)
	if len(statuses) == 0 {
		rows, err = s.db.QueryContext(ctx, baseQuery+orderClause)
	} else {
		placeholders := makePlaceholders(len(statuses))
		args := make([]any, len(statuses))
		for i, status := range statuses {
			args[i] = status
		}
		query := baseQuery + ` WHERE status IN (` + placeholders + `)` + orderClause
		rows, err = s.db.QueryContext(ctx, query, args...)
	}
	if err != nil {
		return nil, fmt.Errorf("list ledger items: %w", err)
	}
	defer rows.Close()

	var items []*Item
	for rows.Next() {
		item, scanErr := scanItem(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// RecentFailures returns the most recently updated failed items, newest
// first.
func (s *Store) RecentFailures(ctx context.Context, limit int) ([]*Item, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(
		ensureContext(ctx),
		`SELECT `+itemColumns+` FROM ledger_items WHERE status = ? ORDER BY updated_at DESC, id DESC LIMIT ?`,
		StatusFailed, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list recent failures: %w", err)
	}
	defer rows.Close()

	var items []*Item
	for rows.Next() {
		item, scanErr := scanItem(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// Stats returns item counts per status.
func (s *Store) Stats(ctx context.Context) (map[Status]int, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx),
		`SELECT status, COUNT(1) FROM ledger_items GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("query stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[Status]int, len(allStatuses))
	for rows.Next() {
		var (
			status string
			count  int
		)
		if scanErr := rows.Scan(&status, &count); scanErr != nil {
			return nil, scanErr
		}
		stats[Status(status)] = count
	}
	return stats, rows.Err()
}

// RetryFailed flips failed items back to pending so the next run picks them
// up again.
func (s *Store) RetryFailed(ctx context.Context) (int64, error) {
	res, err := s.execWithRetry(
		ctx,
		`UPDATE ledger_items
         SET status = ?, error_message = NULL, updated_at = ?
         WHERE status = ?`,
		StatusPending,
		time.Now().UTC().Format(time.RFC3339Nano),
		StatusFailed,
	)
	if err != nil {
		return 0, fmt.Errorf("retry failed items: %w", err)
	}
	return res.RowsAffected()
}

// ResetStuck rolls items abandoned mid-flight (fetching, splitting) back to
// pending. Run at startup so a crashed batch can resume.
func (s *Store) ResetStuck(ctx context.Context) (int64, error) {
	res, err := s.execWithRetry(
		ctx,
		`UPDATE ledger_items
         SET status = ?, updated_at = ?
         WHERE status IN (?, ?)`,
		StatusPending,
		time.Now().UTC().Format(time.RFC3339Nano),
		StatusFetching,
		StatusSplitting,
	)
	if err != nil {
		return 0, fmt.Errorf("reset stuck items: %w", err)
	}
	return res.RowsAffected()
}

// ClearFailed removes failed items from the ledger.
func (s *Store) ClearFailed(ctx context.Context) (int64, error) {
	res, err := s.execWithRetry(ctx, `DELETE FROM ledger_items WHERE status = ?`, StatusFailed)
	if err != nil {
		return 0, fmt.Errorf("clear failed items: %w", err)
	}
	return res.RowsAffected()
}

// Clear removes all items from the ledger.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.execWithRetry(ctx, `DELETE FROM ledger_items`)
	if err != nil {
		return 0, fmt.Errorf("clear ledger: %w", err)
	}
	return res.RowsAffected()
}

func makePlaceholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
