package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"skysplit/internal/urlgen"
)

func newGenURLsCommand(ctx *commandContext) *cobra.Command {
	var (
		sim      string
		snapshot int
		output   string
	)

	cmd := &cobra.Command{
		Use:   "gen-urls",
		Short: "Generate a URL list from the TNG files API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			client, err := ctx.fetchClient(logger)
			if err != nil {
				return err
			}

			gen := urlgen.New(client, logger)
			urls, err := gen.Generate(cmd.Context(), urlgen.Options{
				BaseURL:    cfg.API.BaseURL,
				Simulation: simulationName(sim),
				Snapshot:   snapshot,
			})
			if err != nil {
				return err
			}

			if err := urlgen.WriteList(output, urls); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d URL(s) to %s\n", len(urls), output)
			return nil
		},
	}

	cmd.Flags().StringVar(&sim, "sim", "tng50", "Simulation to query (tng50 or tng100)")
	cmd.Flags().IntVar(&snapshot, "snapshot", 91, "Snapshot number to filter")
	cmd.Flags().StringVarP(&output, "output", "o", "all_file_urls.txt", "Where to write the URL list")

	return cmd
}

// simulationName maps the short CLI form to the API simulation name, e.g.
// tng50 -> TNG50-1. Full names pass through unchanged.
func simulationName(sim string) string {
	sim = strings.TrimSpace(sim)
	if strings.Contains(sim, "-") {
		return strings.ToUpper(sim)
	}
	return strings.ToUpper(sim) + "-1"
}
