package report_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"skysplit/internal/report"
)

func TestWriteFileFormatsTabSeparatedLines(t *testing.T) {
	var r report.FailureReport
	r.Add("https://example.org/a", errors.New("status 404 Not Found"))
	r.Add("https://example.org/b", errors.New("multi\nline\terror"))

	path := filepath.Join(t.TempDir(), "failed_urls.txt")
	if err := r.WriteFile(path); err != nil {
		t.Fatalf("WriteFile returned error: %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(content), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), content)
	}
	if lines[0] != "https://example.org/a\tstatus 404 Not Found" {
		t.Fatalf("unexpected first line %q", lines[0])
	}
	if strings.Count(lines[1], "\t") != 1 {
		t.Fatalf("error text must be flattened to keep one tab per line, got %q", lines[1])
	}
}

func TestWriteFileOverwritesPreviousReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "failed_urls.txt")

	var first report.FailureReport
	first.Add("https://example.org/a", errors.New("boom"))
	first.Add("https://example.org/b", errors.New("boom"))
	if err := first.WriteFile(path); err != nil {
		t.Fatalf("WriteFile returned error: %v", err)
	}

	var second report.FailureReport
	second.Add("https://example.org/c", errors.New("later"))
	if err := second.WriteFile(path); err != nil {
		t.Fatalf("second WriteFile returned error: %v", err)
	}

	urls, err := report.ReadURLList(path)
	if err != nil {
		t.Fatalf("ReadURLList returned error: %v", err)
	}
	if len(urls) != 1 || urls[0] != "https://example.org/c" {
		t.Fatalf("expected only the later failure, got %v", urls)
	}
}

func TestWriteFileEmptyReport(t *testing.T) {
	var r report.FailureReport
	path := filepath.Join(t.TempDir(), "failed_urls.txt")
	if err := r.WriteFile(path); err != nil {
		t.Fatalf("WriteFile returned error: %v", err)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if len(content) != 0 {
		t.Fatalf("expected empty file, got %q", content)
	}
}

func TestReadURLListAcceptsPlainAndReportFormats(t *testing.T) {
	path := filepath.Join(t.TempDir(), "urls.txt")
	content := "https://example.org/a\n" +
		"\n" +
		"https://example.org/b\tsome error text\n" +
		"  https://example.org/c  \n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write list: %v", err)
	}

	urls, err := report.ReadURLList(path)
	if err != nil {
		t.Fatalf("ReadURLList returned error: %v", err)
	}
	want := []string{"https://example.org/a", "https://example.org/b", "https://example.org/c"}
	if len(urls) != len(want) {
		t.Fatalf("got %v, want %v", urls, want)
	}
	for i := range want {
		if urls[i] != want[i] {
			t.Fatalf("url %d = %q, want %q", i, urls[i], want[i])
		}
	}
}
