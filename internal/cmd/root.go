package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Dallionking/tradetutor/internal/api"
	"github.com/Dallionking/tradetutor/internal/config"
	"github.com/Dallionking/tradetutor/internal/logging"
	"github.com/Dallionking/tradetutor/internal/session"
	"github.com/Dallionking/tradetutor/internal/tui/components"
)

var (
	cfgFile     string
	verbose     bool
	noColor     bool
	metricsAddr string

	// cfg is loaded once per invocation in PersistentPreRunE.
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "tradetutor",
	Short: "Learn how an ML trading strategy really performs",
	Long: `TradeTutor: an interactive backtest explorer

Pick a strategy preset and a symbol, run the backtest on the analytics
service, and see how the model's trades compare with simply buying and
holding. Every trade can be explained, and the Learn tab walks through
the signals, the model, and the risk rules.

Running tradetutor without a subcommand opens the dashboard.`,
	SilenceUsage:      true,
	PersistentPreRunE: initConfig,
	RunE:              runDashboard,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is the nearest tradetutor.json)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable color output")
	rootCmd.PersistentFlags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address (overrides metrics.addr)")
}

func initConfig(cmd *cobra.Command, _ []string) error {
	loaded, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if cmd.Flags().Changed("metrics-addr") {
		loaded.Metrics.Addr = metricsAddr
	}
	if verbose {
		loaded.Log.Level = "debug"
	}
	cfg = loaded

	if noColor || os.Getenv("NO_COLOR") != "" {
		noColor = true
		lipgloss.SetColorProfile(termenv.Ascii)
		components.MarkdownStyle = "notty"
	}

	logging.Setup(cfg.Log.Level, noColor)
	log.Debug().Str("config", config.Path()).Str("baseURL", cfg.API.BaseURL).Msg("Config loaded")
	return nil
}

// newClient builds the analytics client from the loaded config.
func newClient() (*api.Client, error) {
	client, err := api.NewClient(cfg.ClientOptions())
	if err != nil {
		return nil, fmt.Errorf("creating analytics client: %w", err)
	}
	return client, nil
}

// resolveParams starts from the configured defaults and applies any
// --strategy/--symbol overrides.
func resolveParams(strategy, symbol string) (session.Params, error) {
	st, sym, err := cfg.DefaultSelection()
	if err != nil {
		return session.Params{}, fmt.Errorf("%w: %v", config.ErrInvalid, err)
	}
	if strategy == "" {
		strategy = string(st)
	}
	if symbol == "" {
		symbol = string(sym)
	}
	return session.ParseParams(strategy, symbol)
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// addParamFlags registers the shared --strategy and --symbol flags.
func addParamFlags(c *cobra.Command, strategy, symbol *string) {
	c.Flags().StringVar(strategy, "strategy", "", "strategy preset: conservative, aggressive, or ultra (default from config)")
	c.Flags().StringVar(symbol, "symbol", "", "ticker symbol, e.g. SPY or TSLA (default from config)")
}
