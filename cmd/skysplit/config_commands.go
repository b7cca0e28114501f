package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"skysplit/internal/config"
)

func newConfigCommand() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigInitCommand())
	configCmd.AddCommand(newConfigShowCommand())

	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Create a sample configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(targetPath)
			if target == "" {
				defaultPath, err := config.DefaultConfigPath()
				if err != nil {
					return fmt.Errorf("determine default config path: %w", err)
				}
				target = defaultPath
			} else {
				expanded, err := config.ExpandPath(target)
				if err != nil {
					return fmt.Errorf("resolve config path: %w", err)
				}
				target = expanded
			}

			dir := filepath.Dir(target)
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create config directory %q: %w", dir, err)
			}

			if !overwrite {
				if _, err := os.Stat(target); err == nil {
					return fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", target)
				} else if err != nil && !os.IsNotExist(err) {
					return fmt.Errorf("check config path: %w", err)
				}
			}

			if err := config.CreateSample(target); err != nil {
				return fmt.Errorf("create sample config: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
			fmt.Fprintln(out, "Edit the file to set api.key (or export SKYSPLIT_API_KEY) before running skysplit.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing configuration if present")
	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "show",
		Short:       "Show the resolved configuration",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, exists, err := config.Load("")
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config path: %s", path)
			if !exists {
				fmt.Fprint(out, " (not found, defaults in effect)")
			}
			fmt.Fprintln(out)

			rows := [][2]string{
				{"paths.parent_dir", cfg.Paths.ParentDir},
				{"paths.split_dir", cfg.Paths.SplitDir},
				{"paths.log_dir", cfg.Paths.LogDir},
				{"paths.ledger_path", cfg.Paths.LedgerPath},
				{"api.base_url", cfg.API.BaseURL},
				{"api.key", maskKey(cfg.API.Key)},
				{"batch.workers", fmt.Sprintf("%d", cfg.Batch.Workers)},
				{"batch.delay_seconds", fmt.Sprintf("%d", cfg.Batch.DelaySeconds)},
				{"batch.keep_parents", yesNo(cfg.Batch.KeepParents)},
				{"retry.max_attempts", fmt.Sprintf("%d", cfg.Retry.MaxAttempts)},
				{"retry.backoff_seconds", fmt.Sprintf("%d", cfg.Retry.BackoffSeconds)},
				{"retry.max_backoff_seconds", fmt.Sprintf("%d", cfg.Retry.MaxBackoffSeconds)},
				{"retry.timeout_seconds", fmt.Sprintf("%d", cfg.Retry.TimeoutSeconds)},
				{"catalog.path", cfg.Catalog.Path},
				{"catalog.append", yesNo(cfg.Catalog.Append)},
				{"catalog.merger_dir", cfg.Catalog.MergerDir},
				{"logging.format", cfg.Logging.Format},
				{"logging.level", cfg.Logging.Level},
			}
			fmt.Fprintln(out, strings.TrimRight(
				renderPairs("Setting", "Value", rows, false), "\n"))
			return nil
		},
	}
}

func maskKey(key string) string {
	if key == "" {
		return "(unset)"
	}
	if len(key) <= 4 {
		return "****"
	}
	return key[:2] + strings.Repeat("*", len(key)-4) + key[len(key)-2:]
}
