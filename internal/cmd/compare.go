package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Dallionking/tradetutor/internal/tui/components"
	"github.com/Dallionking/tradetutor/internal/tui/styles"
)

var compareFormat string

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Contrast a winning and a losing trade picked by the service",
	Long: `Ask the service to compare its most profitable and least profitable
trade. The endpoint takes no strategy or symbol; the service picks both trades
from its own backtest.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := validateFormat(compareFormat); err != nil {
			return err
		}
		client, err := newClient()
		if err != nil {
			return err
		}
		ctx, stop := signalContext()
		defer stop()

		cmp, err := client.CompareTrades(ctx)
		if err != nil {
			return fmt.Errorf("comparing trades: %w", err)
		}
		if ok, err := writeStructured(os.Stdout, compareFormat, cmp); ok {
			return err
		}

		fmt.Println(styles.Title.Render("Winning vs Losing Trade"))
		fmt.Println()
		fmt.Println(styles.Green("WINNER"))
		fmt.Print(renderTrade(cmp.WinningTrade))
		fmt.Println()
		fmt.Println(styles.Red("LOSER"))
		fmt.Print(renderTrade(cmp.LosingTrade))
		fmt.Println()
		fmt.Println(components.RenderMarkdown(cmp.Comparison, 80))
		return nil
	},
}

func init() {
	compareCmd.Flags().StringVar(&compareFormat, "format", formatText, "output format: text, json, or yaml")
	rootCmd.AddCommand(compareCmd)
}
