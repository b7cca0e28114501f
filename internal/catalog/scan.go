package catalog

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"skysplit/internal/identity"
	"skysplit/internal/logging"
	"skysplit/internal/mergers"
	"skysplit/internal/services"
)

// HistoryCache loads merger histories lazily, once per simulation.
type HistoryCache struct {
	source mergers.Source
	logger *slog.Logger
	cache  map[int]*mergers.History
}

// NewHistoryCache constructs a cache bound to the given search locations.
func NewHistoryCache(source mergers.Source, logger *slog.Logger) *HistoryCache {
	return &HistoryCache{
		source: source,
		logger: logger,
		cache:  make(map[int]*mergers.History),
	}
}

// For returns the merger history for a simulation, loading it on first use.
func (c *HistoryCache) For(sim int) (*mergers.History, error) {
	if history, ok := c.cache[sim]; ok {
		return history, nil
	}
	history, err := mergers.Load(sim, c.source, c.logger)
	if err != nil {
		return nil, err
	}
	c.cache[sim] = history
	return history, nil
}

// BuildFromDir reconstructs catalog entries by scanning dir for split images
// and parsing their filenames. Files whose names do not follow the split
// naming scheme are skipped; duplicate basenames (possible with recursive
// scans) are counted once, first occurrence wins. Entries come back sorted
// by filename for deterministic output.
func BuildFromDir(dir string, recursive bool, histories *HistoryCache, logger *slog.Logger) ([]Entry, error) {
	logger = logging.NewComponentLogger(logger, "catalog")

	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return nil, services.Wrap(services.ErrCatalog, "catalog", "scan",
			fmt.Sprintf("split directory %s does not exist", dir), err)
	}

	var names []string
	if recursive {
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			if ok, _ := filepath.Match(identity.SplitGlob, d.Name()); ok {
				names = append(names, d.Name())
			}
			return nil
		})
		if err != nil {
			return nil, services.Wrap(services.ErrCatalog, "catalog", "scan", "walk split directory", err)
		}
	} else {
		matches, err := filepath.Glob(filepath.Join(dir, identity.SplitGlob))
		if err != nil {
			return nil, services.Wrap(services.ErrCatalog, "catalog", "scan", "glob split directory", err)
		}
		for _, match := range matches {
			names = append(names, filepath.Base(match))
		}
	}
	sort.Strings(names)

	seen := make(map[string]struct{}, len(names))
	entries := make([]Entry, 0, len(names))
	scanned, duplicates := 0, 0
	for _, name := range names {
		scanned++
		if _, dup := seen[name]; dup {
			duplicates++
			continue
		}
		seen[name] = struct{}{}

		parsed, ok := identity.ParseSplitName(name)
		if !ok {
			continue
		}

		history, err := histories.For(parsed.Sim)
		if err != nil {
			return nil, services.Wrap(services.ErrCatalog, "catalog", "scan", "load merger history", err)
		}
		entries = append(entries, NewEntry(parsed.Identity, parsed.Filter, name, history))
	}

	logger.Info("scanned split directory",
		logging.String("dir", dir),
		logging.Int("scanned", scanned),
		logging.Int("parsed", len(entries)),
		logging.Int("duplicate_names", duplicates),
		logging.Bool("recursive", recursive))
	return entries, nil
}
