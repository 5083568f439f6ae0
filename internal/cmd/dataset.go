package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Dallionking/tradetutor/internal/api"
	"github.com/Dallionking/tradetutor/internal/tui/styles"
)

var (
	datasetRows   int
	datasetFormat string
)

var datasetCmd = &cobra.Command{
	Use:   "dataset",
	Short: "Preview the model's training data",
	Long: `Show the last rows of the table the model is trained on: the closing
price and the five signals it reads. Signals are blank ("-") until enough
history exists to compute them. The service always previews its default
symbol.`,
	Example: `  tradetutor dataset
  tradetutor dataset --rows 30 --format json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := validateFormat(datasetFormat); err != nil {
			return err
		}
		if datasetRows < 1 {
			return fmt.Errorf("--rows must be at least 1, got %d", datasetRows)
		}
		client, err := newClient()
		if err != nil {
			return err
		}
		ctx, stop := signalContext()
		defer stop()

		preview, err := client.DatasetPreview(ctx, datasetRows)
		if err != nil {
			return fmt.Errorf("fetching dataset preview: %w", err)
		}
		if ok, err := writeStructured(os.Stdout, datasetFormat, preview); ok {
			return err
		}
		fmt.Print(renderDataset(preview))
		return nil
	},
}

func init() {
	datasetCmd.Flags().IntVar(&datasetRows, "rows", 10, "number of most recent rows to show")
	datasetCmd.Flags().StringVar(&datasetFormat, "format", formatText, "output format: text, json, or yaml")
	rootCmd.AddCommand(datasetCmd)
}

func renderDataset(p *api.DatasetPreview) string {
	var b strings.Builder
	b.WriteString(styles.Title.Render("Training Data") + "\n")
	b.WriteString(styles.Dim(fmt.Sprintf("%d rows, %s to %s", p.TotalRows, p.DateRange.Start.Short(), p.DateRange.End.Short())) + "\n\n")

	b.WriteString(styles.TableHeader.Render(fmt.Sprintf("%-10s  %9s  %8s  %8s  %8s  %6s  %8s",
		"DATE", "CLOSE", "RET 5D", "RET 20D", "MA RATIO", "RSI", "VOL 20D")) + "\n")
	for _, row := range p.Data {
		fmt.Fprintf(&b, "%-10s  %9.2f  %8s  %8s  %8s  %6s  %8s\n",
			row.Date.Short(),
			row.Close,
			optional(row.Return5d, "%+.2f%%", 100),
			optional(row.Return20d, "%+.2f%%", 100),
			optional(row.MARatio, "%.3f", 1),
			optional(row.RSI, "%.1f", 1),
			optional(row.Volatility20d, "%.2f%%", 100),
		)
	}
	return b.String()
}

// optional formats v*scale, or "-" for a missing value.
func optional(v *float64, format string, scale float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf(format, *v*scale)
}
