package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Dallionking/tradetutor/internal/analytics"
	"github.com/Dallionking/tradetutor/internal/api"
	"github.com/Dallionking/tradetutor/internal/lessons"
	"github.com/Dallionking/tradetutor/internal/session"
	"github.com/Dallionking/tradetutor/internal/tui/components"
	"github.com/Dallionking/tradetutor/internal/tui/styles"
)

var (
	reportStrategy   string
	reportSymbol     string
	reportFormat     string
	reportImportance bool
	reportLesson     bool
)

// backtestReport is what report prints: the raw result plus everything
// derived from it.
type backtestReport struct {
	Params     session.Params            `json:"params" yaml:"params"`
	Summary    analytics.Summary         `json:"summary" yaml:"summary"`
	Result     *api.BacktestResult       `json:"result" yaml:"result"`
	Importance []analytics.RankedFeature `json:"importance,omitempty" yaml:"importance,omitempty"`
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Run one backtest and print the results",
	Long: `Run a backtest for one strategy and symbol without opening the dashboard.

The text format shows the same numbers as the dashboard Overview. json and
yaml print the raw service result together with the derived summary.`,
	Example: `  tradetutor report --strategy aggressive --symbol TSLA
  tradetutor report --format yaml --importance`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := validateFormat(reportFormat); err != nil {
			return err
		}
		params, err := resolveParams(reportStrategy, reportSymbol)
		if err != nil {
			return err
		}
		client, err := newClient()
		if err != nil {
			return err
		}

		ctx, stop := signalContext()
		defer stop()

		sess := session.New(client, session.WithParams(params), session.WithLogger(log.Logger))
		sess.Await(ctx, sess.Request(params))
		if sess.Phase() != session.PhaseReady {
			return fmt.Errorf("backtest %s: %s", params, sess.Err())
		}

		rep := backtestReport{
			Params:  sess.Params(),
			Summary: sess.Summary(),
			Result:  sess.Result(),
		}
		if reportImportance {
			sess.Await(ctx, sess.LoadImportance())
			if msg := sess.ImportanceErr(); msg != "" {
				return errors.New(msg)
			}
			rep.Importance = sess.Importance()
		}

		if ok, err := writeStructured(os.Stdout, reportFormat, rep); ok {
			return err
		}
		fmt.Print(renderReport(rep, 80))
		if reportLesson {
			fmt.Println(components.RenderMarkdown(lessons.ForResult(rep.Params, rep.Result, rep.Summary), 80))
		}
		return nil
	},
}

func init() {
	addParamFlags(reportCmd, &reportStrategy, &reportSymbol)
	reportCmd.Flags().StringVar(&reportFormat, "format", formatText, "output format: text, json, or yaml")
	reportCmd.Flags().BoolVar(&reportImportance, "importance", false, "include the model's feature importance ranking")
	reportCmd.Flags().BoolVar(&reportLesson, "lesson", false, "append a plain-language reading of the result (text format)")
	rootCmd.AddCommand(reportCmd)
}

// renderReport formats a backtest report for the terminal.
func renderReport(rep backtestReport, width int) string {
	var b strings.Builder
	r, s := rep.Result, rep.Summary

	preset := rep.Params.Strategy.Preset()
	info := rep.Params.Symbol.Info()
	fmt.Fprintf(&b, "%s  %s\n\n",
		styles.Title.Render("Backtest: "+preset.Label+" / "+string(rep.Params.Symbol)),
		styles.Dim(info.Name))

	b.WriteString(styles.Subtitle.Render("ML Strategy") + "\n")
	b.WriteString(components.RenderGauges(components.MetricsGauges(r.Metrics, width)) + "\n\n")
	b.WriteString(styles.Subtitle.Render("Buy & Hold") + "\n")
	b.WriteString(components.RenderGauges(components.MetricsGauges(r.BuyHoldMetrics, width)) + "\n\n")

	strategy, buyHold := analytics.EquitySeries(r)
	rng := styles.RangeOf(strategy, buyHold)
	sparkWidth := width - 12
	b.WriteString(labelRow("STRATEGY", 12) + styles.SparklineIn(strategy, sparkWidth, rng, styles.StrategyLine) + "\n")
	b.WriteString(labelRow("BUY & HOLD", 12) + styles.SparklineIn(buyHold, sparkWidth, rng, styles.BenchmarkLine) + "\n\n")

	b.WriteString(styles.Label.Render(labelRow("TRADES", 12)) + styles.Value.Render(fmt.Sprintf("%d", s.TradeCount)) + "\n")
	b.WriteString(styles.Label.Render(labelRow("WINNERS", 12)) + styles.Green(fmt.Sprintf("%d", s.WinningTrades)) + "\n")
	b.WriteString(styles.Label.Render(labelRow("LOSERS", 12)) + styles.Red(fmt.Sprintf("%d", s.LosingTrades)) + "\n")
	b.WriteString(styles.Label.Render(labelRow("WIN RATE", 12)) + styles.Value.Render(fmt.Sprintf("%.1f%%", s.WinRate*100)) + "\n")
	b.WriteString(styles.Label.Render(labelRow("VS B&H", 12)) + styles.PnL(s.ExcessReturn) + "\n")

	if len(s.Features) > 0 {
		b.WriteString("\n" + styles.Subtitle.Render("Winning vs losing trades") + "\n")
		scale := components.ComparisonScale(s.Features)
		for _, f := range s.Features {
			b.WriteString(components.ComparisonBar{Insight: f, Scale: scale, Width: width}.Render() + "\n")
		}
	}

	if len(rep.Importance) > 0 {
		b.WriteString("\n" + styles.Subtitle.Render("Feature importance") + "\n")
		b.WriteString(renderImportance(rep.Importance))
	}

	if r.MaxDrawdownExplanation != "" {
		b.WriteString("\n" + styles.Label.Render("MAX DRAWDOWN") + "\n")
		b.WriteString(styles.Dim(strings.TrimSpace(r.MaxDrawdownExplanation)) + "\n")
	}

	b.WriteString("\n" + styles.Divider(width) + "\n")
	b.WriteString(styles.Dim(styles.Disclaimer) + "\n")
	return b.String()
}
