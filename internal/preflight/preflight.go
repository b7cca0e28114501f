package preflight

import (
	"context"

	"skysplit/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all preflight checks for the given config: working
// directories and API reachability.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Parent directory", cfg.Paths.ParentDir),
		CheckDirectoryAccess("Split directory", cfg.Paths.SplitDir),
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
		CheckAPI(ctx, cfg.API.BaseURL, cfg.API.Key),
	}
	return results
}

// AllPassed reports whether every check in results passed.
func AllPassed(results []Result) bool {
	for _, r := range results {
		if !r.Passed {
			return false
		}
	}
	return true
}
