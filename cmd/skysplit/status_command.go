package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"skysplit/internal/preflight"
	"skysplit/internal/queue"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var (
		clearAll    bool
		clearFailed bool
		failures    int
		checks      bool
	)

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show ledger statistics and recent failures",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			out := cmd.OutOrStdout()

			if clearAll {
				removed, err := store.Clear(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Removed %d item(s) from the ledger\n", removed)
				return nil
			}
			if clearFailed {
				removed, err := store.ClearFailed(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Removed %d failed item(s) from the ledger\n", removed)
				return nil
			}

			stats, err := store.Stats(cmd.Context())
			if err != nil {
				return err
			}

			total := 0
			rows := make([][2]string, 0, len(stats)+1)
			for _, status := range queue.AllStatuses() {
				count := stats[status]
				total += count
				rows = append(rows, [2]string{titleCase(string(status)), strconv.Itoa(count)})
			}
			rows = append(rows, [2]string{"Total", strconv.Itoa(total)})

			fmt.Fprintln(out, strings.TrimRight(
				renderPairs("Status", "Count", rows, true), "\n"))

			if failures > 0 {
				recent, err := store.RecentFailures(cmd.Context(), failures)
				if err != nil {
					return err
				}
				if len(recent) > 0 {
					failRows := make([][2]string, 0, len(recent))
					for _, item := range recent {
						failRows = append(failRows, [2]string{item.URL, item.ErrorMessage})
					}
					fmt.Fprintln(out, strings.TrimRight(
						renderPairs("Failed URL", "Error", failRows, false), "\n"))
				}
			}

			if checks {
				colorize := shouldColorize(out)
				for _, line := range renderSectionHeader("Environment", colorize) {
					fmt.Fprintln(out, line)
				}
				for _, result := range preflight.RunAll(cmd.Context(), cfg) {
					fmt.Fprintln(out, renderCheckLine(result.Name, result.Passed, result.Detail, colorize))
				}
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&clearAll, "clear", false, "Remove all items from the ledger")
	cmd.Flags().BoolVar(&clearFailed, "clear-failed", false, "Remove failed items from the ledger")
	cmd.Flags().IntVar(&failures, "failures", 5, "Number of recent failures to show (0 disables)")
	cmd.Flags().BoolVar(&checks, "checks", false, "Also run directory and API preflight checks")

	return cmd
}
