package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"skysplit/internal/catalog"
	"skysplit/internal/config"
	"skysplit/internal/fetch"
	"skysplit/internal/fits"
	"skysplit/internal/identity"
	"skysplit/internal/logging"
	"skysplit/internal/mergers"
	"skysplit/internal/queue"
	"skysplit/internal/report"
	"skysplit/internal/services"
	"skysplit/internal/split"
)

// Options controls one batch run.
type Options struct {
	// Start and Count select the window [Start, Start+Count) of the URL
	// list. Count <= 0 means through the end.
	Start int
	Count int

	// ParentOnly stops after the download; nothing is split or cataloged.
	ParentOnly bool
	// KeepParents retains downloaded parent files after splitting.
	KeepParents bool

	// ReportPath receives the tab-separated failure report. Empty disables
	// the report.
	ReportPath string

	// RunID correlates ledger rows and log lines for this run.
	RunID string
}

// Summary aggregates the outcome of a batch run. Skipped counts URLs that
// already reached their terminal success state in the ledger; they are
// included in Processed but not in Succeeded.
type Summary struct {
	Processed   int
	Succeeded   int
	Skipped     int
	Failed      int
	SplitFiles  int
	CatalogRows int
}

// Runner drives the per-URL download, split, and catalog pipeline.
type Runner struct {
	cfg      *config.Config
	ledger   *queue.Store
	fetcher  *fetch.Client
	splitter *split.Splitter
	writer   *catalog.Writer
	logger   *slog.Logger
}

// RunnerOption customizes Runner construction, mainly for tests.
type RunnerOption func(*runnerOptions)

type runnerOptions struct {
	codec fits.Codec
	store catalog.Store
}

// WithCodec substitutes the FITS codec used by the splitter.
func WithCodec(codec fits.Codec) RunnerOption {
	return func(o *runnerOptions) { o.codec = codec }
}

// WithCatalogStore substitutes the catalog persistence backend.
func WithCatalogStore(store catalog.Store) RunnerOption {
	return func(o *runnerOptions) { o.store = store }
}

// NewRunner builds a Runner from the config, ledger, and logger.
func NewRunner(cfg *config.Config, ledger *queue.Store, logger *slog.Logger, opts ...RunnerOption) *Runner {
	var ro runnerOptions
	for _, opt := range opts {
		opt(&ro)
	}

	fetcher := fetch.NewClient(fetch.Options{
		MaxAttempts: cfg.Retry.MaxAttempts,
		Backoff:     time.Duration(cfg.Retry.BackoffSeconds) * time.Second,
		MaxBackoff:  time.Duration(cfg.Retry.MaxBackoffSeconds) * time.Second,
		Timeout:     time.Duration(cfg.Retry.TimeoutSeconds) * time.Second,
		APIKey:      cfg.API.Key,
	}, logger)

	return &Runner{
		cfg:      cfg,
		ledger:   ledger,
		fetcher:  fetcher,
		splitter: split.New(ro.codec, logger),
		writer:   catalog.NewWriter(ro.store, logger),
		logger:   logging.NewComponentLogger(logger, "pipeline"),
	}
}

// urlResult carries one URL's outcome back to the aggregation step. Results
// are stored by input index so catalog entries and failures keep list order
// regardless of worker scheduling.
type urlResult struct {
	url     string
	skipped bool
	entries []catalog.Entry
	err     error
}

// Run processes the windowed URL list: parse, fetch, split, accumulate
// catalog entries, then write the catalog once and the failure report.
// Per-URL failures are recorded and never abort the batch; a catalog write
// failure is a run-level error.
func (r *Runner) Run(ctx context.Context, urls []string, opts Options) (Summary, error) {
	window := applyWindow(urls, opts.Start, opts.Count)
	if len(window) == 0 {
		r.logger.Info("empty url window, nothing to do",
			logging.Int("urls", len(urls)),
			logging.Int("start", opts.Start),
			logging.Int("count", opts.Count))
		return Summary{}, nil
	}

	logger := r.logger
	if opts.RunID != "" {
		ctx = services.WithRunID(ctx, opts.RunID)
		logger = logger.With(logging.String(logging.FieldRunID, opts.RunID))
	}
	logger.Info("starting batch",
		logging.Int("urls", len(window)),
		logging.Int("workers", r.workers()),
		logging.Bool("parent_only", opts.ParentOnly))

	histories := catalog.NewHistoryCache(mergers.Source{
		Dir:      r.cfg.Catalog.MergerDir,
		SplitDir: r.cfg.Paths.SplitDir,
	}, logger)
	var historyMu sync.Mutex

	results := make([]urlResult, len(window))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < r.workers(); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = r.processURL(ctx, window[i], opts, histories, &historyMu, logger)
				r.politenessDelay(ctx)
			}
		}()
	}

dispatch:
	for i := range window {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break dispatch
		}
	}
	close(jobs)
	wg.Wait()

	summary := Summary{}
	var entries []catalog.Entry
	var failures report.FailureReport
	for _, res := range results {
		if res.url == "" {
			// window cut short by cancellation
			continue
		}
		summary.Processed++
		if res.err != nil {
			summary.Failed++
			failures.Add(res.url, res.err)
			continue
		}
		if res.skipped {
			summary.Skipped++
			continue
		}
		summary.Succeeded++
		summary.SplitFiles += len(res.entries)
		entries = append(entries, res.entries...)
	}

	if !opts.ParentOnly {
		rows, err := r.writer.Write(r.cfg.Catalog.Path, entries, r.cfg.Catalog.Append)
		if err != nil {
			return summary, fmt.Errorf("write catalog: %w", err)
		}
		summary.CatalogRows = rows
	}

	if opts.ReportPath != "" {
		if err := failures.WriteFile(opts.ReportPath); err != nil {
			return summary, fmt.Errorf("write failure report: %w", err)
		}
	}

	logger.Info("batch finished",
		logging.Int("processed", summary.Processed),
		logging.Int("succeeded", summary.Succeeded),
		logging.Int("skipped", summary.Skipped),
		logging.Int("failed", summary.Failed),
		logging.Int("split_files", summary.SplitFiles),
		logging.Int("catalog_rows", summary.CatalogRows))

	if err := ctx.Err(); err != nil {
		return summary, err
	}
	return summary, nil
}

// processURL walks one URL through the state machine, recording every
// transition in the ledger. URLs that already reached their terminal success
// state are skipped so re-runs only do outstanding work.
func (r *Runner) processURL(ctx context.Context, url string, opts Options, histories *catalog.HistoryCache, historyMu *sync.Mutex, logger *slog.Logger) urlResult {
	log := logger.With(logging.String(logging.FieldURL, url))

	item, err := r.ledger.Enqueue(ctx, url)
	if err != nil {
		return urlResult{url: url, err: err}
	}
	if item.Status == queue.StatusCataloged || (opts.ParentOnly && item.Status == queue.StatusFetched) {
		log.Info("already completed, skipping", logging.String("status", string(item.Status)))
		return urlResult{url: url, skipped: true}
	}

	item.RunID = opts.RunID
	item.Attempts++

	id, err := identity.Parse(url)
	if err != nil {
		return r.fail(ctx, item, url, err, log)
	}

	item.Status = queue.StatusFetching
	if err := r.ledger.Update(ctx, item); err != nil {
		return urlResult{url: url, err: err}
	}

	parentPath := filepath.Join(r.cfg.Paths.ParentDir, identity.ParentName(id))
	if err := r.fetcher.Fetch(services.WithStage(ctx, "fetch"), url, parentPath); err != nil {
		return r.fail(ctx, item, url, err, log)
	}

	item.Status = queue.StatusFetched
	item.ParentFile = parentPath
	if err := r.ledger.Update(ctx, item); err != nil {
		return urlResult{url: url, err: err}
	}

	if opts.ParentOnly {
		log.Info("parent downloaded", logging.String("file", filepath.Base(parentPath)))
		return urlResult{url: url}
	}

	item.Status = queue.StatusSplitting
	if err := r.ledger.Update(ctx, item); err != nil {
		return urlResult{url: url, err: err}
	}

	products, err := r.splitter.Split(parentPath, r.cfg.Paths.SplitDir, id)
	if err != nil {
		return r.fail(ctx, item, url, err, log)
	}

	historyMu.Lock()
	history, err := histories.For(id.Sim)
	historyMu.Unlock()
	if err != nil {
		return r.fail(ctx, item, url, err, log)
	}

	entries := make([]catalog.Entry, 0, len(products))
	for _, product := range products {
		entries = append(entries, catalog.NewEntry(id, product.Filter, product.Filename, history))
	}

	if !opts.KeepParents && !r.cfg.Batch.KeepParents {
		if err := os.Remove(parentPath); err != nil {
			log.Warn("could not remove parent file", logging.Error(err))
		} else {
			item.ParentFile = ""
		}
	}

	item.Status = queue.StatusCataloged
	if err := r.ledger.Update(ctx, item); err != nil {
		return urlResult{url: url, err: err}
	}

	log.Info("url processed", logging.Int("split_files", len(products)))
	return urlResult{url: url, entries: entries}
}

// fail records a per-URL failure in the ledger and returns it as a result.
func (r *Runner) fail(ctx context.Context, item *queue.Item, url string, cause error, log *slog.Logger) urlResult {
	item.SetFailed(cause.Error())
	if err := r.ledger.Update(ctx, item); err != nil {
		log.Warn("could not record failure in ledger", logging.Error(err))
	}
	log.Error("url failed", logging.Error(cause))
	return urlResult{url: url, err: cause}
}

func (r *Runner) workers() int {
	if r.cfg.Batch.Workers > 0 {
		return r.cfg.Batch.Workers
	}
	return 1
}

func (r *Runner) politenessDelay(ctx context.Context) {
	delay := time.Duration(r.cfg.Batch.DelaySeconds) * time.Second
	if delay <= 0 {
		return
	}
	select {
	case <-time.After(delay):
	case <-ctx.Done():
	}
}

// applyWindow clamps [start, start+count) to the list bounds.
func applyWindow(urls []string, start, count int) []string {
	if start < 0 {
		start = 0
	}
	if start >= len(urls) {
		return nil
	}
	end := len(urls)
	if count > 0 && start+count < end {
		end = start + count
	}
	return urls[start:end]
}
