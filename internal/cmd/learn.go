package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Dallionking/tradetutor/internal/lessons"
	"github.com/Dallionking/tradetutor/internal/tui/components"
	"github.com/Dallionking/tradetutor/internal/tui/views"
)

var (
	learnStep  string
	learnPlain bool
)

var learnCmd = &cobra.Command{
	Use:   "learn",
	Short: "Walk through the trading lessons",
	Long: `Step through the lessons behind the dashboard: the signals, the model,
the strategy presets, the risk rules, and why buy & hold is hard to beat.

--step starts at a lesson by number (1-based) or key. --plain prints the
lessons as rendered markdown instead of opening the interactive walkthrough.`,
	Example: `  tradetutor learn
  tradetutor learn --step risk
  tradetutor learn --plain > lessons.txt`,
	RunE: func(cmd *cobra.Command, args []string) error {
		start, err := lessonIndex(learnStep)
		if err != nil {
			return err
		}

		if !learnPlain {
			return views.RunLessons(start)
		}

		if learnStep == "" {
			fmt.Println(components.RenderMarkdown(lessons.Document(), 80))
			return nil
		}
		l := lessons.All()[start]
		fmt.Println(components.RenderMarkdown("# "+l.Title+"\n\n"+l.Markdown, 80))
		return nil
	},
}

func init() {
	learnCmd.Flags().StringVar(&learnStep, "step", "", "lesson to start at: a number or one of "+strings.Join(lessons.Keys(), ", "))
	learnCmd.Flags().BoolVar(&learnPlain, "plain", false, "print lessons instead of opening the walkthrough")
	rootCmd.AddCommand(learnCmd)
}

// lessonIndex resolves a 1-based number or lesson key to a 0-based index.
func lessonIndex(step string) (int, error) {
	if step == "" {
		return 0, nil
	}
	all := lessons.All()
	if n, err := strconv.Atoi(step); err == nil {
		if n < 1 || n > len(all) {
			return 0, fmt.Errorf("lesson %d out of range 1-%d", n, len(all))
		}
		return n - 1, nil
	}
	for i, l := range all {
		if l.Key == step {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown lesson %q; use one of %s", step, strings.Join(lessons.Keys(), ", "))
}
