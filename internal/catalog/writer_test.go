package catalog_test

import (
	"errors"
	"io/fs"
	"testing"

	"skysplit/internal/catalog"
	"skysplit/internal/identity"
	"skysplit/internal/mergers"
	"skysplit/internal/services"
)

// fakeStore keeps catalogs in memory keyed by path.
type fakeStore struct {
	files   map[string][]catalog.Entry
	readErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{files: make(map[string][]catalog.Entry)}
}

func (s *fakeStore) Read(path string) ([]catalog.Entry, error) {
	if s.readErr != nil {
		return nil, s.readErr
	}
	entries, ok := s.files[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return append([]catalog.Entry(nil), entries...), nil
}

func (s *fakeStore) Write(path string, entries []catalog.Entry) error {
	s.files[path] = append([]catalog.Entry(nil), entries...)
	return nil
}

func entryFor(subhalo int, filter string) catalog.Entry {
	id := identity.Identity{Sim: 50, Snapshot: 72, Subhalo: subhalo, Version: "v2"}
	history, _ := mergers.Load(50, mergers.Source{Dir: "/nonexistent"}, nil)
	return catalog.NewEntry(id, filter, identity.SplitName(id, filter), history)
}

func TestWriteFreshCatalog(t *testing.T) {
	store := newFakeStore()
	writer := catalog.NewWriter(store, nil)

	entries := []catalog.Entry{entryFor(1, "G"), entryFor(1, "R")}
	rows, err := writer.Write("catalog.fits", entries, false)
	if err != nil {
		t.Fatalf("Write returned error: %v", err)
	}
	if rows != 2 {
		t.Fatalf("expected 2 rows, got %d", rows)
	}
	if len(store.files["catalog.fits"]) != 2 {
		t.Fatalf("store holds %d rows", len(store.files["catalog.fits"]))
	}
}

func TestWriteAppendKeepsExistingRowsFirst(t *testing.T) {
	store := newFakeStore()
	writer := catalog.NewWriter(store, nil)

	first := []catalog.Entry{entryFor(1, "G"), entryFor(1, "R")}
	if _, err := writer.Write("catalog.fits", first, false); err != nil {
		t.Fatalf("initial Write returned error: %v", err)
	}

	// Re-submit one duplicate plus one new filter.
	second := []catalog.Entry{entryFor(1, "G"), entryFor(1, "I")}
	rows, err := writer.Write("catalog.fits", second, true)
	if err != nil {
		t.Fatalf("append Write returned error: %v", err)
	}
	if rows != 3 {
		t.Fatalf("expected 3 rows after dedup, got %d", rows)
	}

	stored := store.files["catalog.fits"]
	wantOrder := []string{
		identity.SplitName(identity.Identity{Sim: 50, Snapshot: 72, Subhalo: 1, Version: "v2"}, "G"),
		identity.SplitName(identity.Identity{Sim: 50, Snapshot: 72, Subhalo: 1, Version: "v2"}, "R"),
		identity.SplitName(identity.Identity{Sim: 50, Snapshot: 72, Subhalo: 1, Version: "v2"}, "I"),
	}
	for i, want := range wantOrder {
		if stored[i].Filename != want {
			t.Fatalf("row %d filename = %q, want %q", i, stored[i].Filename, want)
		}
	}
}

func TestWriteAppendWithoutExistingCatalog(t *testing.T) {
	store := newFakeStore()
	writer := catalog.NewWriter(store, nil)

	rows, err := writer.Write("catalog.fits", []catalog.Entry{entryFor(2, "Z")}, true)
	if err != nil {
		t.Fatalf("Write returned error: %v", err)
	}
	if rows != 1 {
		t.Fatalf("expected 1 row, got %d", rows)
	}
}

func TestWriteAppendIsIdempotent(t *testing.T) {
	store := newFakeStore()
	writer := catalog.NewWriter(store, nil)

	entries := []catalog.Entry{entryFor(3, "G"), entryFor(3, "Y")}
	if _, err := writer.Write("catalog.fits", entries, true); err != nil {
		t.Fatalf("first Write returned error: %v", err)
	}
	rows, err := writer.Write("catalog.fits", entries, true)
	if err != nil {
		t.Fatalf("second Write returned error: %v", err)
	}
	if rows != 2 {
		t.Fatalf("expected unchanged 2 rows, got %d", rows)
	}
}

func TestWriteReadFailurePropagates(t *testing.T) {
	store := newFakeStore()
	store.files["catalog.fits"] = []catalog.Entry{entryFor(1, "G")}
	store.readErr = errors.New("corrupt table")
	writer := catalog.NewWriter(store, nil)

	_, err := writer.Write("catalog.fits", []catalog.Entry{entryFor(1, "R")}, true)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrCatalog) {
		t.Fatalf("expected catalog marker, got %v", err)
	}
}

func TestNewEntryIdentityColumns(t *testing.T) {
	entry := entryFor(516101, "G")
	if entry.ObjectID != 72516101 {
		t.Errorf("object_id = %d, want 72516101", entry.ObjectID)
	}
	if entry.DBID != "72_516101" {
		t.Errorf("dbid = %q", entry.DBID)
	}
	if entry.Sim != 50 || entry.Snapshot != 72 || entry.Subhalo != 516101 {
		t.Errorf("identity columns wrong: %+v", entry)
	}
	if entry.HasMergerRow {
		t.Error("expected no merger row without a CSV")
	}
	if entry.MajorTimeSinceMerger != -1 {
		t.Errorf("merger time default = %v, want -1", entry.MajorTimeSinceMerger)
	}
}
