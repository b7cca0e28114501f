package catalog

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"

	"skysplit/internal/logging"
	"skysplit/internal/services"
)

// Writer maintains the catalog file.
type Writer struct {
	store  Store
	logger *slog.Logger
}

// NewWriter constructs a Writer. A nil store selects the FITS store; a nil
// logger disables logging.
func NewWriter(store Store, logger *slog.Logger) *Writer {
	if store == nil {
		store = FITSStore{}
	}
	return &Writer{
		store:  store,
		logger: logging.NewComponentLogger(logger, "catalog"),
	}
}

// Write persists entries to path and returns the resulting row count.
//
// With appendMode and an existing catalog, existing rows are kept first and
// win over new entries with the same filename, so re-running a batch never
// duplicates or rewrites rows. Without appendMode (or when no catalog exists
// yet) the file is created fresh from entries alone.
func (w *Writer) Write(path string, entries []Entry, appendMode bool) (int, error) {
	rows := entries

	if appendMode {
		existing, err := w.store.Read(path)
		switch {
		case err == nil:
			rows = merge(existing, entries)
		case errors.Is(err, fs.ErrNotExist), errors.Is(err, os.ErrNotExist):
			// first run, nothing to merge
		default:
			return 0, services.Wrap(services.ErrCatalog, "catalog", "read", "load existing catalog", err)
		}
	}

	if err := w.store.Write(path, rows); err != nil {
		return 0, services.Wrap(services.ErrCatalog, "catalog", "write", path, err)
	}

	w.logger.Info("wrote catalog",
		logging.String("path", path),
		logging.Int("rows", len(rows)),
		logging.Bool("append", appendMode))
	return len(rows), nil
}

// merge keeps existing rows first and drops new entries whose filename is
// already cataloged.
func merge(existing, entries []Entry) []Entry {
	seen := make(map[string]struct{}, len(existing))
	for _, entry := range existing {
		seen[entry.Filename] = struct{}{}
	}

	rows := make([]Entry, 0, len(existing)+len(entries))
	rows = append(rows, existing...)
	for _, entry := range entries {
		if _, dup := seen[entry.Filename]; dup {
			continue
		}
		seen[entry.Filename] = struct{}{}
		rows = append(rows, entry)
	}
	return rows
}
