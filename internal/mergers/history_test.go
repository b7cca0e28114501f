package mergers_test

import (
	"os"
	"path/filepath"
	"testing"

	"skysplit/internal/mergers"
)

const sampleCSV = `dbID,Major_CountSince1Gyr,Major_CountUntil1Gyr,Minor_CountSince1Gyr,Minor_CountUntil1Gyr,Mini_CountSince1Gyr,Mini_CountUntil1Gyr,Major_TimeSinceMerger,Major_TimeUntilMerger,Minor_TimeSinceMerger,Minor_TimeUntilMerger,Mini_TimeSinceMerger,Mini_TimeUntilMerger
72_516101,1,0,2.0,1,0,0,0.35,,1.2,0.8,,
72_4,0,0,0,0,0,0,,,,,,
,9,9,9,9,9,9,9,9,9,9,9,9
`

func writeCSV(t *testing.T, dir string, sim int) string {
	t.Helper()
	path := filepath.Join(dir, mergers.CSVName(sim))
	if err := os.WriteFile(path, []byte(sampleCSV), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	return path
}

func TestLoadParsesLabels(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, 50)

	history, err := mergers.Load(50, mergers.Source{Dir: dir}, nil)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if history.Len() != 2 {
		t.Fatalf("expected 2 rows (blank dbID skipped), got %d", history.Len())
	}

	labels, ok := history.Lookup("72_516101")
	if !ok {
		t.Fatal("expected merger row for 72_516101")
	}
	if !labels.HasMajorPast1Gyr {
		t.Error("expected has_major_past flag from count 1")
	}
	if labels.HasMajorFuture1Gyr {
		t.Error("expected no major future flag for count 0")
	}
	if labels.MinorCountSince1Gyr != 2 {
		t.Errorf("minor count since = %d, want 2 (parsed from 2.0)", labels.MinorCountSince1Gyr)
	}
	if labels.MajorTimeSinceMerger != 0.35 {
		t.Errorf("major time since = %v, want 0.35", labels.MajorTimeSinceMerger)
	}
	if labels.MajorTimeUntilMerger != -1 {
		t.Errorf("blank time should default to -1, got %v", labels.MajorTimeUntilMerger)
	}
}

func TestLoadExplicitFilePath(t *testing.T) {
	dir := t.TempDir()
	path := writeCSV(t, dir, 100)

	history, err := mergers.Load(100, mergers.Source{Dir: path}, nil)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if history.Path() != path {
		t.Fatalf("unexpected source path %q", history.Path())
	}
}

func TestLoadMissingCSVDegradesToDefaults(t *testing.T) {
	history, err := mergers.Load(50, mergers.Source{Dir: t.TempDir()}, nil)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if history.Len() != 0 {
		t.Fatalf("expected empty history, got %d rows", history.Len())
	}

	labels, ok := history.Lookup("1_2")
	if ok {
		t.Fatal("expected no merger row")
	}
	if labels != mergers.DefaultLabels() {
		t.Fatalf("expected default labels, got %+v", labels)
	}
}

func TestDefaultLabelsSentinels(t *testing.T) {
	labels := mergers.DefaultLabels()
	if labels.MajorTimeSinceMerger != -1 || labels.MiniTimeUntilMerger != -1 {
		t.Fatalf("merger time defaults must be -1, got %+v", labels)
	}
	if labels.MajorCountSince1Gyr != 0 || labels.HasMajorPast1Gyr {
		t.Fatalf("count and flag defaults must be zero values, got %+v", labels)
	}
}
