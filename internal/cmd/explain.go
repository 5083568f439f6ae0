package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Dallionking/tradetutor/internal/api"
	"github.com/Dallionking/tradetutor/internal/session"
	"github.com/Dallionking/tradetutor/internal/tui/components"
	"github.com/Dallionking/tradetutor/internal/tui/styles"
)

var (
	explainStrategy string
	explainSymbol   string
	explainFormat   string
)

var explainCmd = &cobra.Command{
	Use:   "explain <index>",
	Short: "Explain why the model took one trade",
	Long: `Run the backtest for the selected strategy and symbol, then ask the
service why trade <index> (0-based, in table order) was taken and how the
signals looked at entry.

The backtest runs first so <index> is checked against the trade table before
anything is asked. The explain endpoint takes only the index and resolves it
against the service's own trade list, which can differ from the table for a
non-default strategy or symbol.`,
	Example: `  tradetutor explain 0
  tradetutor explain 3 --strategy ultra --symbol NVDA`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("trade index %q is not a number", args[0])
		}
		if err := validateFormat(explainFormat); err != nil {
			return err
		}
		params, err := resolveParams(explainStrategy, explainSymbol)
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

		sess.Await(ctx, sess.Explain(index))
		entry, ok := sess.Cache().Entry(index)
		if !ok || entry.State != session.EntryResolved {
			msg := session.ExplanationFailedText
			if ok {
				msg = entry.Text
			}
			return errors.New(msg)
		}

		trade := sess.Result().Trades[index]
		if entry.Trade != nil {
			trade = *entry.Trade
		}
		exp := api.TradeExplanation{Trade: trade, Explanation: entry.Text}
		if ok, err := writeStructured(os.Stdout, explainFormat, exp); ok {
			return err
		}

		fmt.Println(styles.Title.Render(fmt.Sprintf("Trade #%d", index+1)) + "  " + styles.Dim(params.String()))
		fmt.Println()
		fmt.Print(renderTrade(trade))
		fmt.Println()
		fmt.Println(components.RenderMarkdown(entry.Text, 80))
		return nil
	},
}

func init() {
	addParamFlags(explainCmd, &explainStrategy, &explainSymbol)
	explainCmd.Flags().StringVar(&explainFormat, "format", formatText, "output format: text, json, or yaml")
	rootCmd.AddCommand(explainCmd)
}

func renderTrade(t api.Trade) string {
	var b strings.Builder
	row := func(label, value string) {
		b.WriteString(styles.Label.Render(labelRow(label, 12)) + value + "\n")
	}
	row("ENTRY", styles.Value.Render(t.EntryDate.Short()+"  "+styles.Price(t.EntryPrice)))
	row("EXIT", styles.Value.Render(t.ExitDate.Short()+"  "+styles.Price(t.ExitPrice)))
	row("P&L", styles.PnL(t.PnL))
	row("BULLISH", styles.Value.Render(styles.Percent(t.BullishProb)))
	return b.String()
}
