package mergers

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"skysplit/internal/logging"
)

// Labels holds the merger-history classification of one snapshot/subhalo
// pair. Field defaults follow DefaultLabels: counts zero, flags false, and
// merger times -1 meaning unknown.
type Labels struct {
	HasMajorPast1Gyr   bool
	HasMajorFuture1Gyr bool
	HasMinorPast1Gyr   bool
	HasMinorFuture1Gyr bool
	HasMiniPast1Gyr    bool
	HasMiniFuture1Gyr  bool

	MajorCountSince1Gyr int32
	MajorCountUntil1Gyr int32
	MinorCountSince1Gyr int32
	MinorCountUntil1Gyr int32
	MiniCountSince1Gyr  int32
	MiniCountUntil1Gyr  int32

	MajorTimeSinceMerger float64
	MajorTimeUntilMerger float64
	MinorTimeSinceMerger float64
	MinorTimeUntilMerger float64
	MiniTimeSinceMerger  float64
	MiniTimeUntilMerger  float64
}

// DefaultLabels returns the labels used when no merger row exists for a
// subhalo.
func DefaultLabels() Labels {
	return Labels{
		MajorTimeSinceMerger: -1,
		MajorTimeUntilMerger: -1,
		MinorTimeSinceMerger: -1,
		MinorTimeUntilMerger: -1,
		MiniTimeSinceMerger:  -1,
		MiniTimeUntilMerger:  -1,
	}
}

// Source controls where merger CSV files are searched for.
type Source struct {
	// Dir is an explicit merger-history location: either the CSV file
	// itself or a directory containing it. When set, auto-discovery is
	// skipped.
	Dir string

	// SplitDir widens auto-discovery to the split output tree.
	SplitDir string
}

// History is the loaded merger table for one simulation, keyed by dbid.
type History struct {
	rows map[string]Labels
	path string
}

// Load reads the Mergers_TNG<sim>-1.csv table for a simulation. A missing
// CSV is not an error: the returned History is empty and every lookup
// reports defaults, matching a catalog without merger labels.
func Load(sim int, src Source, logger *slog.Logger) (*History, error) {
	logger = logging.NewComponentLogger(logger, "mergers")

	path := resolveCSVPath(sim, src)
	if path == "" {
		logger.Warn("merger history CSV not found, labels default to empty",
			logging.Int("sim", sim))
		return &History{rows: map[string]Labels{}}, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open merger history: %w", err)
	}
	defer file.Close()

	rows, err := parseCSV(file)
	if err != nil {
		return nil, fmt.Errorf("parse merger history %s: %w", path, err)
	}

	logger.Info("loaded merger history",
		logging.Int("sim", sim),
		logging.Int("rows", len(rows)),
		logging.String("path", path))
	return &History{rows: rows, path: path}, nil
}

// Lookup returns the labels for a dbid and whether a merger row existed.
func (h *History) Lookup(dbid string) (Labels, bool) {
	if h == nil {
		return DefaultLabels(), false
	}
	labels, ok := h.rows[dbid]
	if !ok {
		return DefaultLabels(), false
	}
	return labels, true
}

// Len reports the number of loaded merger rows.
func (h *History) Len() int {
	if h == nil {
		return 0
	}
	return len(h.rows)
}

// Path reports where the history was loaded from, empty when none was found.
func (h *History) Path() string {
	if h == nil {
		return ""
	}
	return h.path
}

// CSVName returns the conventional merger table filename for a simulation.
func CSVName(sim int) string {
	return fmt.Sprintf("Mergers_TNG%d-1.csv", sim)
}

func resolveCSVPath(sim int, src Source) string {
	for _, candidate := range candidatePaths(sim, src) {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
	}
	return ""
}

func candidatePaths(sim int, src Source) []string {
	filename := CSVName(sim)
	var candidates []string

	if src.Dir != "" {
		if info, err := os.Stat(src.Dir); err == nil && !info.IsDir() {
			return []string{src.Dir}
		}
		candidates = append(candidates,
			filepath.Join(src.Dir, filename),
			filepath.Join(src.Dir, "merger_history", filename),
		)
		return candidates
	}

	roots := []string{"."}
	if wd, err := os.Getwd(); err == nil {
		roots = []string{wd, filepath.Dir(wd)}
	}
	if src.SplitDir != "" {
		splitRoot := filepath.Dir(src.SplitDir)
		roots = append(roots, splitRoot, filepath.Dir(splitRoot))
	}

	seen := make(map[string]struct{})
	for _, root := range roots {
		for _, candidate := range []string{
			filepath.Join(root, filename),
			filepath.Join(root, "merger_history", filename),
		} {
			if _, dup := seen[candidate]; dup {
				continue
			}
			seen[candidate] = struct{}{}
			candidates = append(candidates, candidate)
		}
	}
	return candidates
}

func parseCSV(r io.Reader) (map[string]Labels, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}
	if _, ok := col["dbID"]; !ok {
		return nil, fmt.Errorf("missing dbID column")
	}

	field := func(record []string, name string) string {
		idx, ok := col[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return record[idx]
	}

	rows := make(map[string]Labels)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read record: %w", err)
		}
		dbid := strings.TrimSpace(field(record, "dbID"))
		if dbid == "" {
			continue
		}
		rows[dbid] = labelsFromRecord(func(name string) string { return field(record, name) })
	}
	return rows, nil
}

func labelsFromRecord(field func(string) string) Labels {
	labels := DefaultLabels()

	labels.MajorCountSince1Gyr = safeInt(field("Major_CountSince1Gyr"))
	labels.MajorCountUntil1Gyr = safeInt(field("Major_CountUntil1Gyr"))
	labels.MinorCountSince1Gyr = safeInt(field("Minor_CountSince1Gyr"))
	labels.MinorCountUntil1Gyr = safeInt(field("Minor_CountUntil1Gyr"))
	labels.MiniCountSince1Gyr = safeInt(field("Mini_CountSince1Gyr"))
	labels.MiniCountUntil1Gyr = safeInt(field("Mini_CountUntil1Gyr"))

	labels.HasMajorPast1Gyr = labels.MajorCountSince1Gyr > 0
	labels.HasMajorFuture1Gyr = labels.MajorCountUntil1Gyr > 0
	labels.HasMinorPast1Gyr = labels.MinorCountSince1Gyr > 0
	labels.HasMinorFuture1Gyr = labels.MinorCountUntil1Gyr > 0
	labels.HasMiniPast1Gyr = labels.MiniCountSince1Gyr > 0
	labels.HasMiniFuture1Gyr = labels.MiniCountUntil1Gyr > 0

	labels.MajorTimeSinceMerger = safeFloat(field("Major_TimeSinceMerger"))
	labels.MajorTimeUntilMerger = safeFloat(field("Major_TimeUntilMerger"))
	labels.MinorTimeSinceMerger = safeFloat(field("Minor_TimeSinceMerger"))
	labels.MinorTimeUntilMerger = safeFloat(field("Minor_TimeUntilMerger"))
	labels.MiniTimeSinceMerger = safeFloat(field("Mini_TimeSinceMerger"))
	labels.MiniTimeUntilMerger = safeFloat(field("Mini_TimeUntilMerger"))

	return labels
}

// safeInt tolerates float-formatted counts, returning 0 for anything
// unparseable.
func safeInt(value string) int32 {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0
	}
	return int32(f)
}

// safeFloat returns -1 for anything unparseable, the "no merger" sentinel.
func safeFloat(value string) float64 {
	value = strings.TrimSpace(value)
	if value == "" {
		return -1
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return -1
	}
	return f
}
