package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Dallionking/tradetutor/internal/config"
	"github.com/Dallionking/tradetutor/internal/health"
	"github.com/Dallionking/tradetutor/internal/tui/styles"
)

var (
	healthCheck    string
	healthCategory string
	healthWait     time.Duration
)

var errUnhealthy = errors.New("health checks failed")

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the config and the analytics service",
	Long: `Run diagnostic health checks.

Checks are grouped into categories:
  config   - config file, validation, log file
  service  - reachability, feature importance, circuit breaker
  runtime  - metrics address, terminal

Use --category to run only a specific group, or --check to run a single
named check. --wait polls the service with backoff before checking, which
helps when it has just been started.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}

		ctx, stop := signalContext()
		defer stop()

		if healthWait > 0 {
			fmt.Println(styles.Dim("Waiting up to " + healthWait.String() + " for " + client.BaseURL() + " ..."))
			if _, err := client.WaitReady(ctx, healthWait); err != nil {
				fmt.Println(styles.Gold("Service did not become ready: ") + styles.Dim(err.Error()))
			}
		}

		checker := health.NewChecker(cfg, config.Path(), client)
		ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
		defer cancel()

		var report *health.Report
		switch {
		case healthCheck != "":
			report = checker.RunCheck(ctx, healthCheck)
			if report.Total == 0 {
				return fmt.Errorf("unknown check %q; available: %s", healthCheck, strings.Join(checker.Names(), ", "))
			}
		case healthCategory != "":
			report = checker.RunCategory(ctx, healthCategory)
			if report.Total == 0 {
				return fmt.Errorf("unknown category %q; use config, service, or runtime", healthCategory)
			}
		default:
			report = checker.RunAll(ctx)
		}

		fmt.Print(health.FormatReport(report))

		if !report.Healthy {
			return errUnhealthy
		}
		return nil
	},
}

func init() {
	healthCmd.Flags().StringVar(&healthCheck, "check", "", "run a specific named check")
	healthCmd.Flags().StringVar(&healthCategory, "category", "", "run checks in a category: config, service, or runtime")
	healthCmd.Flags().DurationVar(&healthWait, "wait", 0, "wait up to this long for the service before checking, e.g. 30s")
	rootCmd.AddCommand(healthCmd)
}
