package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Dallionking/tradetutor/internal/config"
	"github.com/Dallionking/tradetutor/internal/tui/styles"
)

var configFormat string

// --- config (parent) ---

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long: `Show the configuration after defaults, the config file, .env, and
TRADETUTOR_* environment overrides have been merged.

Subcommands:
  validate   Check the configuration and exit non-zero on problems`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := validateFormat(configFormat); err != nil {
			return err
		}
		if ok, err := writeStructured(os.Stdout, configFormat, cfg); ok {
			return err
		}

		source := config.Path()
		if source == "" {
			source = "(defaults and environment)"
		}

		fmt.Println(styles.Title.Render("Configuration"))
		fmt.Println()
		fmt.Println(styles.Label.Render("FILE") + "      " + styles.Value.Render(source))
		fmt.Println()

		fmt.Println(styles.Subtitle.Render("Analytics service"))
		fmt.Println(styles.Label.Render("  URL") + "       " + styles.Value.Render(cfg.API.BaseURL))
		fmt.Println(styles.Label.Render("  TIMEOUT") + "   " + styles.Value.Render(cfg.Timeout().String()))
		fmt.Println(styles.Label.Render("  RATE") + "      " + styles.Value.Render(fmt.Sprintf("%d req/s", cfg.API.RequestsPerSecond)))
		fmt.Println(styles.Label.Render("  BREAKER") + "   " + styles.Value.Render(fmt.Sprintf("%d failures", cfg.API.BreakerFailures)))
		fmt.Println()

		fmt.Println(styles.Subtitle.Render("Defaults"))
		fmt.Println(styles.Label.Render("  STRATEGY") + "  " + styles.Value.Render(cfg.Defaults.Strategy))
		fmt.Println(styles.Label.Render("  SYMBOL") + "    " + styles.Value.Render(cfg.Defaults.Symbol))
		fmt.Println()

		fmt.Println(styles.Subtitle.Render("Runtime"))
		fmt.Println(styles.Label.Render("  LOG") + "       " + styles.Value.Render(cfg.Log.Level+"  "+config.ResolvePath(cfg.Log.File)))
		metrics := cfg.Metrics.Addr
		if metrics == "" {
			metrics = styles.Dim("disabled")
		}
		fmt.Println(styles.Label.Render("  METRICS") + "   " + styles.Value.Render(metrics))
		fmt.Println()

		fmt.Println(styles.Divider(50))
		if issues := config.Validate(cfg); len(issues) > 0 {
			fmt.Println(styles.Gold(fmt.Sprintf("%d problem(s); run 'tradetutor config validate'", len(issues))))
		} else {
			fmt.Println(styles.Green("Configuration is valid"))
		}
		return nil
	},
}

// --- config validate ---

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		issues := config.Validate(cfg)
		if len(issues) == 0 {
			fmt.Println(styles.Green("Configuration is valid"))
			return nil
		}
		for _, ve := range issues {
			fmt.Println("  " + styles.Red("✗") + " " + styles.Bold(ve.Field) + "  " + styles.Dim(ve.Message))
		}
		return config.MustValidate(cfg)
	},
}

func init() {
	configCmd.Flags().StringVar(&configFormat, "format", formatText, "output format: text, json, or yaml")
	configCmd.AddCommand(configValidateCmd)
	rootCmd.AddCommand(configCmd)
}
