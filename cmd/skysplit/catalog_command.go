package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"skysplit/internal/catalog"
	"skysplit/internal/mergers"
)

func newCatalogCommand(ctx *commandContext) *cobra.Command {
	var (
		dir        string
		recursive  bool
		output     string
		appendFlag bool
		noAppend   bool
	)

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Rebuild the catalog by scanning a split directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			if dir == "" {
				dir = cfg.Paths.SplitDir
			}
			if output == "" {
				output = cfg.Catalog.Path
			}
			appendMode := cfg.Catalog.Append
			switch {
			case noAppend:
				appendMode = false
			case appendFlag:
				appendMode = true
			}

			return ctx.withRunLock(func() error {
				histories := catalog.NewHistoryCache(mergers.Source{
					Dir:      cfg.Catalog.MergerDir,
					SplitDir: cfg.Paths.SplitDir,
				}, logger)

				entries, err := catalog.BuildFromDir(dir, recursive, histories, logger)
				if err != nil {
					return err
				}

				writer := catalog.NewWriter(nil, logger)
				rows, err := writer.Write(output, entries, appendMode)
				if err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Scanned %d split file(s); catalog %s now has %d row(s)\n",
					len(entries), output, rows)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", "", "Split directory to scan (default: configured split_dir)")
	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "Scan subdirectories too")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Catalog output path (default: configured catalog path)")
	cmd.Flags().BoolVar(&appendFlag, "append", false, "Merge with the existing catalog even when catalog.append is disabled")
	cmd.Flags().BoolVar(&noAppend, "no-append", false, "Rebuild from scratch instead of merging with the existing catalog")
	cmd.MarkFlagsMutuallyExclusive("append", "no-append")

	return cmd
}
