package cmd

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Dallionking/tradetutor/internal/config"
	"github.com/Dallionking/tradetutor/internal/logging"
	"github.com/Dallionking/tradetutor/internal/session"
	"github.com/Dallionking/tradetutor/internal/telemetry"
	"github.com/Dallionking/tradetutor/internal/tui/models"
	"github.com/Dallionking/tradetutor/internal/tui/views"
)

var (
	dashStrategy string
	dashSymbol   string
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Open the interactive backtest dashboard",
	Long: `Open the full-screen dashboard.

Keys:
  s        cycle strategy preset
  y        cycle symbol
  r        retry or refresh the current backtest
  b        show or hide buy & hold
  tab, 1-4 switch between Overview, Trades, Features, and Learn
  enter    explain the selected trade (Trades tab)
  q        quit

Logs go to log.file while the dashboard owns the terminal. When a config
file is in use, saving it re-runs the current backtest with the new settings.`,
	RunE: runDashboard,
}

func init() {
	addParamFlags(dashboardCmd, &dashStrategy, &dashSymbol)
	rootCmd.AddCommand(dashboardCmd)
}

func runDashboard(_ *cobra.Command, _ []string) error {
	if err := config.MustValidate(cfg); err != nil {
		return err
	}
	params, err := resolveParams(dashStrategy, dashSymbol)
	if err != nil {
		return err
	}

	if cfg.Log.File == "" {
		logging.Discard()
	} else {
		closer, err := logging.SetupFile(config.ResolvePath(cfg.Log.File), cfg.Log.Level)
		if err != nil {
			return err
		}
		defer closer.Close()
	}

	client, err := newClient()
	if err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	metrics := telemetry.NewMetrics()
	if addr := cfg.Metrics.Addr; addr != "" {
		go func() {
			if err := metrics.Serve(ctx, addr); err != nil {
				log.Error().Err(err).Str("addr", addr).Msg("Metrics server stopped")
			}
		}()
	}

	sess := session.New(client,
		session.WithParams(params),
		session.WithObserver(metrics),
		session.WithLogger(log.Logger),
	)
	log.Info().Str("session", sess.ID()).Stringer("params", params).Str("baseURL", client.BaseURL()).Msg("Dashboard started")

	opts := models.DashboardOptions{
		Context:  ctx,
		OnReload: reloadConfig,
		OnApply:  applyConfig,
		Logger:   &log.Logger,
	}
	if path := config.Path(); path != "" {
		w, err := config.NewWatcher(path)
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Config hot reload disabled")
		} else {
			defer w.Close()
			opts.Reloads = w.Watch(ctx)
		}
	}

	return views.RunDashboard(sess, opts)
}

// reloadConfig re-reads the config file after a change. It runs on a
// Bubble Tea command goroutine, so it only loads and validates.
func reloadConfig() (*config.Config, error) {
	loaded, err := config.Load(config.Path())
	if err != nil {
		return nil, err
	}
	if err := config.MustValidate(loaded); err != nil {
		return nil, err
	}
	if verbose {
		loaded.Log.Level = "debug"
	}
	if metricsAddr != "" {
		loaded.Metrics.Addr = metricsAddr
	}
	return loaded, nil
}

// applyConfig installs a reloaded config on the dashboard's event loop and
// applies the settings that can change without a restart.
func applyConfig(loaded *config.Config) {
	lvl := logging.SetLevel(loaded.Log.Level)
	if cfg != nil && loaded.API.BaseURL != cfg.API.BaseURL {
		log.Warn().Str("old", cfg.API.BaseURL).Str("new", loaded.API.BaseURL).Msg("api.baseURL changed; restart to apply")
	}
	cfg = loaded
	log.Info().Str("path", config.Path()).Stringer("level", lvl).Msg("Config reloaded")
}
