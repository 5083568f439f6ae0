package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Dallionking/tradetutor/internal/analytics"
	"github.com/Dallionking/tradetutor/internal/lessons"
	"github.com/Dallionking/tradetutor/internal/tui/styles"
)

var importanceFormat string

var importanceCmd = &cobra.Command{
	Use:   "importance",
	Short: "Rank the model's input features",
	Long: `Fetch the model coefficients and rank features by absolute importance.
A positive coefficient raises the bullish probability, a negative one lowers it.
The ranking does not depend on the selected strategy or symbol.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := validateFormat(importanceFormat); err != nil {
			return err
		}
		client, err := newClient()
		if err != nil {
			return err
		}
		ctx, stop := signalContext()
		defer stop()

		features, err := client.FeatureImportance(ctx)
		if err != nil {
			return fmt.Errorf("fetching feature importance: %w", err)
		}
		ranked := analytics.RankImportance(features)

		if ok, err := writeStructured(os.Stdout, importanceFormat, ranked); ok {
			return err
		}
		fmt.Println(styles.Title.Render("What Drives the Model"))
		fmt.Println()
		fmt.Print(renderImportance(ranked))
		return nil
	},
}

func init() {
	importanceCmd.Flags().StringVar(&importanceFormat, "format", formatText, "output format: text, json, or yaml")
	rootCmd.AddCommand(importanceCmd)
}

func renderImportance(ranked []analytics.RankedFeature) string {
	var b strings.Builder
	b.WriteString(styles.TableHeader.Render(fmt.Sprintf("%4s  %-24s %12s  %s", "#", "FEATURE", "COEFFICIENT", "EFFECT")) + "\n")
	for _, f := range ranked {
		effect := styles.Green("▲ " + f.Label)
		if f.Effect == analytics.DecreasesBullish {
			effect = styles.Red("▼ " + f.Label)
		}
		fmt.Fprintf(&b, "%4d  %-24s %12.4f  %s\n", f.Rank, lessons.SignalName(f.Name), f.Coefficient, effect)
	}
	return b.String()
}
