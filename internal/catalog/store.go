package catalog

import (
	"fmt"
	"os"
	"path/filepath"

	"skysplit/internal/fits"
)

// Store persists catalog rows. The production implementation is a FITS
// binary table; tests substitute in-memory fakes.
type Store interface {
	// Read loads every row of the catalog at path.
	Read(path string) ([]Entry, error)

	// Write replaces the catalog at path with the given rows.
	Write(path string, entries []Entry) error
}

// FITSStore stores the catalog as a FITS binary table. Writes go through a
// temp file in the destination directory followed by a rename, so a crash
// mid-write never leaves a truncated catalog.
type FITSStore struct{}

var _ Store = FITSStore{}

func (FITSStore) Read(path string) ([]Entry, error) {
	return fits.ReadTable[Entry](path, TableName)
}

func (FITSStore) Write(path string, entries []Entry) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create catalog directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".catalog-*.fits")
	if err != nil {
		return fmt.Errorf("create temp catalog: %w", err)
	}
	tmpPath := tmp.Name()
	tmp.Close()

	if err := fits.WriteTable(tmpPath, TableName, entries); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replace catalog: %w", err)
	}
	return nil
}
