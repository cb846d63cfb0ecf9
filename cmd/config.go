package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zpam/nbeval/pkg/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management",
	Long:  `Generate and validate nbeval configuration files`,
}

var configGenCmd = &cobra.Command{
	Use:   "generate [config-file]",
	Short: "Generate default configuration file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath := "nbeval.yaml"
		if len(args) > 0 {
			configPath = args[0]
		}

		if _, err := os.Stat(configPath); err == nil {
			overwrite, _ := cmd.Flags().GetBool("force")
			if !overwrite {
				return fmt.Errorf("config file already exists: %s (use --force to overwrite)", configPath)
			}
		}

		if err := config.DefaultConfig().SaveConfig(configPath); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "✅ Configuration file generated: %s\n", configPath)
		fmt.Fprintf(out, "🚀 Use 'nbeval --config %s run train.txt test.txt mnb' to use it\n", configPath)
		return nil
	},
}

var configValidateCmd = &cobra.Command{
	Use:   "validate [config-file]",
	Short: "Validate configuration file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(args[0])
		if err != nil {
			return fmt.Errorf("❌ Configuration validation failed: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "✅ Configuration is valid: %s\n", args[0])

		if warnings := configWarnings(cfg); len(warnings) > 0 {
			fmt.Fprintf(out, "\n⚠️  Warnings:\n")
			for _, warning := range warnings {
				fmt.Fprintf(out, "  - %s\n", warning)
			}
		}

		fmt.Fprintf(out, "\n📊 Configuration Summary:\n")
		switch cfg.Storage.Backend {
		case "redis":
			fmt.Fprintf(out, "  Table store: redis %s (prefix %s, db %d)\n",
				cfg.Storage.Redis.RedisURL, cfg.Storage.Redis.KeyPrefix, cfg.Storage.Redis.DatabaseNum)
		default:
			fmt.Fprintf(out, "  Table store: %s\n", cfg.Storage.File.Dir)
		}
		fmt.Fprintf(out, "  Workers: %d\n", cfg.Evaluation.Workers)
		fmt.Fprintf(out, "  Score mode: %s\n", cfg.Evaluation.ScoreMode)
		fmt.Fprintf(out, "  Top terms: %d\n", cfg.Reporting.TopK)
		fmt.Fprintf(out, "  Exclude hyphenated terms: %v\n", cfg.Vocabulary.ExcludeHyphenated)
		fmt.Fprintf(out, "  Logging level: %s\n", cfg.Logging.Level)
		return nil
	},
}

// configWarnings flags settings that are valid but probably unintended
func configWarnings(cfg *config.Config) []string {
	var warnings []string

	if cfg.Evaluation.ScoreMode == "product" {
		warnings = append(warnings, "Product scoring underflows to zero on long documents; use 'log' unless reproducing old results")
	}

	if cfg.Evaluation.Workers > 64 {
		warnings = append(warnings, "High worker count rarely helps; scoring is CPU bound")
	}

	if cfg.Vocabulary.ExcludeHyphenated {
		warnings = append(warnings, "Hyphenated terms are dropped from every table, not only by the mine method")
	}

	if cfg.Storage.Backend == "redis" && cfg.Storage.Redis.TableTTL != "" {
		warnings = append(warnings, fmt.Sprintf("Tables expire after %s; evaluation fails once they are gone", cfg.Storage.Redis.TableTTL))
	}

	return warnings
}

func init() {
	configCmd.AddCommand(configGenCmd)
	configCmd.AddCommand(configValidateCmd)

	configGenCmd.Flags().Bool("force", false, "Overwrite existing config file")
}
