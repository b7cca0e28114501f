package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"skysplit/internal/pipeline"
	"skysplit/internal/queue"
)

func newRetryCommand(ctx *commandContext) *cobra.Command {
	var (
		reportPath string
		resetOnly  bool
	)

	cmd := &cobra.Command{
		Use:   "retry",
		Short: "Re-run URLs that failed in earlier batches",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			return ctx.withRunLock(func() error {
				store, err := ctx.openStore()
				if err != nil {
					return err
				}
				defer store.Close()

				failed, err := store.List(cmd.Context(), queue.StatusFailed)
				if err != nil {
					return err
				}
				if len(failed) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No failed items to retry")
					return nil
				}

				count, err := store.RetryFailed(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Reset %d failed item(s) to pending\n", count)

				if resetOnly {
					return nil
				}

				urls := make([]string, 0, len(failed))
				for _, item := range failed {
					urls = append(urls, item.URL)
				}

				runner := pipeline.NewRunner(cfg, store, logger)
				summary, err := runner.Run(cmd.Context(), urls, pipeline.Options{
					ReportPath: reportPath,
					RunID:      uuid.NewString(),
				})
				if err != nil {
					return err
				}
				printSummary(cmd, summary)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&reportPath, "report", "failed_urls.txt", "Failure report output path (empty disables)")
	cmd.Flags().BoolVar(&resetOnly, "reset-only", false, "Only reset failed items to pending without re-running them")

	return cmd
}
