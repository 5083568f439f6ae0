package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Dallionking/tradetutor/internal/api"
	"github.com/Dallionking/tradetutor/internal/tui/components"
	"github.com/Dallionking/tradetutor/internal/tui/styles"
)

var (
	strategiesCards bool
	strategiesJSON  bool
)

// catalog is the machine-readable form of the strategy and symbol lists.
type catalog struct {
	Strategies map[api.Strategy]api.StrategyPreset `json:"strategies"`
	Symbols    []api.SymbolInfo                    `json:"symbols"`
}

var strategiesCmd = &cobra.Command{
	Use:   "strategies",
	Short: "List strategy presets and symbols",
	Long: `List the strategy presets the service understands and the symbols
that can be backtested. The configured defaults are marked.

  conservative  - high-confidence entries, longest hold, strict volatility cap
  aggressive    - lower entry threshold, shorter hold
  ultra         - lowest threshold, shortest hold, no cooldown`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if strategiesJSON {
			cat := catalog{Strategies: map[api.Strategy]api.StrategyPreset{}, Symbols: api.AllSymbols()}
			for _, s := range api.AllStrategies() {
				cat.Strategies[s] = s.Preset()
			}
			_, err := writeStructured(os.Stdout, formatJSON, cat)
			return err
		}

		defStrategy, defSymbol, _ := cfg.DefaultSelection()

		fmt.Println(styles.Title.Render("Strategies"))
		fmt.Println()
		for _, s := range api.AllStrategies() {
			card := components.StrategyCard{Strategy: s, Active: s == defStrategy, Width: 60}
			if strategiesCards {
				fmt.Println(card.Render())
				continue
			}
			fmt.Println("  " + card.RenderCompact())
		}
		fmt.Println()

		fmt.Println(styles.Title.Render("Symbols"))
		fmt.Println()
		for _, info := range api.AllSymbols() {
			fmt.Println("  " + components.SymbolCard{Symbol: info.Symbol, Active: info.Symbol == defSymbol}.Render())
		}
		return nil
	},
}

func init() {
	strategiesCmd.Flags().BoolVar(&strategiesCards, "cards", false, "show each preset as a card")
	strategiesCmd.Flags().BoolVar(&strategiesJSON, "json", false, "output the catalog as JSON")
	rootCmd.AddCommand(strategiesCmd)
}
