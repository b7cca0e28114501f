package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"skysplit/internal/pipeline"
	"skysplit/internal/preflight"
	"skysplit/internal/report"
)

func newSplitCommand(ctx *commandContext) *cobra.Command {
	var (
		listPath    string
		start       int
		count       int
		parentOnly  bool
		keepParents bool
		reportPath  string
		workers     int
		skipChecks  bool
	)

	cmd := &cobra.Command{
		Use:   "split",
		Short: "Run a batch: download, split, and catalog images from a URL list",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			urls, err := report.ReadURLList(listPath)
			if err != nil {
				return fmt.Errorf("read url list: %w", err)
			}
			if len(urls) == 0 {
				return fmt.Errorf("url list %s is empty", listPath)
			}

			if workers > 0 {
				cfg.Batch.Workers = workers
			}

			if !skipChecks {
				results := preflight.RunAll(cmd.Context(), cfg)
				if !preflight.AllPassed(results) {
					for _, r := range results {
						if !r.Passed {
							fmt.Fprintf(cmd.ErrOrStderr(), "preflight: %s: %s\n", r.Name, r.Detail)
						}
					}
					return fmt.Errorf("preflight checks failed")
				}
			}

			return ctx.withRunLock(func() error {
				store, err := ctx.openStore()
				if err != nil {
					return err
				}
				defer store.Close()

				if reset, err := store.ResetStuck(cmd.Context()); err != nil {
					return err
				} else if reset > 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "Reset %d interrupted item(s) to pending\n", reset)
				}

				runner := pipeline.NewRunner(cfg, store, logger)
				summary, err := runner.Run(cmd.Context(), urls, pipeline.Options{
					Start:       start,
					Count:       count,
					ParentOnly:  parentOnly,
					KeepParents: keepParents,
					ReportPath:  reportPath,
					RunID:       uuid.NewString(),
				})
				if err != nil {
					return err
				}

				printSummary(cmd, summary)
				if summary.Failed > 0 && reportPath != "" {
					fmt.Fprintf(cmd.OutOrStdout(),
						"Failed URLs written to %s; re-run with --list %s to retry them\n",
						reportPath, reportPath)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&listPath, "list", "l", "", "Path to the URL list file (required)")
	cmd.Flags().IntVar(&start, "start", 0, "Index of the first URL to process")
	cmd.Flags().IntVar(&count, "count", 0, "Number of URLs to process (0 = all)")
	cmd.Flags().BoolVar(&parentOnly, "parent-only", false, "Download parent files without splitting or cataloging")
	cmd.Flags().BoolVar(&keepParents, "keep-parents", false, "Keep downloaded parent files after splitting")
	cmd.Flags().StringVar(&reportPath, "report", "failed_urls.txt", "Failure report output path (empty disables)")
	cmd.Flags().IntVar(&workers, "workers", 0, "Override the configured worker count")
	cmd.Flags().BoolVar(&skipChecks, "skip-preflight", false, "Skip directory and API preflight checks")
	_ = cmd.MarkFlagRequired("list")

	return cmd
}

func printSummary(cmd *cobra.Command, summary pipeline.Summary) {
	rows := [][2]string{
		{"Processed", strconv.Itoa(summary.Processed)},
		{"Succeeded", strconv.Itoa(summary.Succeeded)},
		{"Skipped", strconv.Itoa(summary.Skipped)},
		{"Failed", strconv.Itoa(summary.Failed)},
		{"Split files", strconv.Itoa(summary.SplitFiles)},
		{"Catalog rows", strconv.Itoa(summary.CatalogRows)},
	}
	out := renderPairs("Metric", "Value", rows, true)
	fmt.Fprintln(cmd.OutOrStdout(), strings.TrimRight(out, "\n"))
}
