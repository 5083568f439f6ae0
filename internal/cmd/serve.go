package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Dallionking/tradetutor/internal/backend"
	"github.com/Dallionking/tradetutor/internal/tui/styles"
)

var (
	serveDir       string
	serveScript    string
	serveCheckOnly bool
	serveReadyWait time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the analytics service from a local checkout",
	Long: `Start the Python analytics service and stream its output until
interrupted. The interpreter is taken from <dir>/.venv when present, then
from PATH.

The service should listen on api.baseURL; readiness is reported once it
answers. Use --check to only verify the interpreter and packages.`,
	Example: `  tradetutor serve --dir ./backend
  tradetutor serve --dir ./backend --check`,
	RunE: func(cmd *cobra.Command, args []string) error {
		runner, err := backend.NewRunner(serveDir)
		if err != nil {
			return err
		}

		ctx, stop := signalContext()
		defer stop()

		version, err := runner.Version(ctx)
		if err != nil {
			return err
		}
		fmt.Println(styles.Label.Render("PYTHON") + "    " + styles.Value.Render(version+"  "+runner.Python()))
		fmt.Println(styles.Label.Render("DIR") + "       " + styles.Value.Render(runner.Dir()))

		missing := runner.MissingPackages(ctx)
		if len(missing) > 0 {
			fmt.Println(styles.Gold("Missing packages: ") + styles.Dim(strings.Join(missing, ", ")))
			fmt.Println(styles.Dim("  pip install " + strings.Join(missing, " ")))
			if serveCheckOnly {
				return fmt.Errorf("%d required package(s) missing", len(missing))
			}
		} else {
			fmt.Println(styles.Green("All required packages installed"))
		}
		if serveCheckOnly {
			return nil
		}

		client, err := newClient()
		if err != nil {
			return err
		}

		lines, errc := runner.Stream(ctx, serveScript)
		go func() {
			info, err := client.WaitReady(ctx, serveReadyWait)
			if err != nil {
				if ctx.Err() == nil {
					log.Warn().Err(err).Str("baseURL", client.BaseURL()).Msg("Service not reachable yet")
				}
				return
			}
			log.Info().Str("baseURL", client.BaseURL()).Str("version", info.Version).Msg("Service ready")
		}()

		for line := range lines {
			log.Info().Str("src", "service").Msg(line)
		}
		return <-errc
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveDir, "dir", ".", "directory containing the analytics service")
	serveCmd.Flags().StringVar(&serveScript, "script", backend.DefaultScript, "entry point, relative to --dir")
	serveCmd.Flags().BoolVar(&serveCheckOnly, "check", false, "check the interpreter and packages, then exit")
	serveCmd.Flags().DurationVar(&serveReadyWait, "ready-timeout", 2*time.Minute, "how long to wait for the service to answer")
	rootCmd.AddCommand(serveCmd)
}
