package report

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Failure pairs a source URL with the error that stopped its processing.
type Failure struct {
	URL string
	Err string
}

// FailureReport accumulates per-URL failures in a deterministic order.
type FailureReport struct {
	failures []Failure
}

// Add records one failure.
func (r *FailureReport) Add(url string, err error) {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	r.failures = append(r.failures, Failure{URL: url, Err: msg})
}

// Len reports the number of recorded failures.
func (r *FailureReport) Len() int {
	return len(r.failures)
}

// Failures returns the recorded failures in insertion order.
func (r *FailureReport) Failures() []Failure {
	return append([]Failure(nil), r.failures...)
}

// WriteFile writes the report to path, one "url<TAB>error" line per failure,
// replacing any previous report. Error text is flattened to a single line so
// the first tab-separated field of each line is always a bare URL, making
// the report directly re-submittable as an input URL list. An empty report
// writes an empty file.
func (r *FailureReport) WriteFile(path string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create report directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create failure report: %w", err)
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	for _, failure := range r.failures {
		fmt.Fprintf(w, "%s\t%s\n", failure.URL, flatten(failure.Err))
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("write failure report: %w", err)
	}
	return nil
}

func flatten(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\t", " ")
	return strings.TrimSpace(s)
}

// ReadURLList loads a URL list file: one URL per line, blank lines skipped,
// and only the first tab-separated field kept, so failure reports parse the
// same way as plain URL lists.
func ReadURLList(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open url list: %w", err)
	}
	defer file.Close()

	var urls []string
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if tab := strings.IndexByte(line, '\t'); tab >= 0 {
			line = strings.TrimSpace(line[:tab])
		}
		if line == "" {
			continue
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read url list: %w", err)
	}
	return urls, nil
}
