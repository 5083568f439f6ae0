// Package lessons holds the educational material shown in the Learn tab and
// by the learn command.
package lessons

import (
	"fmt"
	"strings"

	"github.com/Dallionking/tradetutor/internal/analytics"
	"github.com/Dallionking/tradetutor/internal/api"
)

// Lesson is one page of the walkthrough.
type Lesson struct {
	Key      string
	Label    string // short label for the progress bar
	Title    string
	Markdown string
}

// Signal describes one model input feature.
type Signal struct {
	Key         string
	Name        string
	Description string
}

// Signals are the features the model evaluates every trading day, in the
// order the service reports them.
var Signals = []Signal{
	{"return_5d", "5-Day Momentum", "Short-term price direction over 5 trading days"},
	{"return_20d", "20-Day Trend", "Medium-term momentum capturing monthly moves"},
	{"ma_ratio", "MA Ratio", "Price relative to its 20-day moving average"},
	{"trend_slope", "Trend Acceleration", "How fast the moving average is changing direction"},
	{"rsi", "RSI (14)", "Overbought / oversold gauge ranging 0-100"},
	{"atr", "True Range", "Average daily price swing, raw volatility"},
	{"volatility", "20-Day Volatility", "Rolling standard deviation measuring risk"},
	{"regime", "Stress Detector", "1 when volatility exceeds its 70th percentile"},
	{"rel_strength", "SPY Relative Strength", "Performance compared to the S&P 500 benchmark"},
}

// SignalName returns the display name for a feature key, or the key itself.
func SignalName(key string) string {
	for _, s := range Signals {
		if s.Key == key {
			return s.Name
		}
	}
	return key
}

// All returns every lesson in reading order.
func All() []Lesson {
	return []Lesson{
		{Key: "welcome", Label: "Welcome", Title: "Welcome to the Trading Tutor", Markdown: welcomeMD},
		{Key: "signals", Label: "Signals", Title: "The 9 Signals the AI Watches", Markdown: signalsMD()},
		{Key: "model", Label: "Model", Title: "From Data to Prediction", Markdown: modelMD},
		{Key: "strategies", Label: "Strategies", Title: "Three Ways to Trade the Same Signal", Markdown: strategiesMD()},
		{Key: "trade", Label: "Trade", Title: "Life of a Trade", Markdown: tradeMD},
		{Key: "risk", Label: "Risk", Title: "Why Most Traders Lose", Markdown: riskMD},
		{Key: "buyhold", Label: "Buy & Hold", Title: "The Power of Buy & Hold", Markdown: buyHoldMD},
		{Key: "takeaways", Label: "Takeaways", Title: "Key Lessons", Markdown: takeawaysMD},
	}
}

// Find returns the lesson with the given key.
func Find(key string) (Lesson, bool) {
	key = strings.ToLower(strings.TrimSpace(key))
	for _, l := range All() {
		if l.Key == key {
			return l, true
		}
	}
	return Lesson{}, false
}

// Keys lists lesson keys in order.
func Keys() []string {
	all := All()
	keys := make([]string, len(all))
	for i, l := range all {
		keys[i] = l.Key
	}
	return keys
}

// Document joins every lesson into one markdown document.
func Document() string {
	var b strings.Builder
	for i, l := range All() {
		if i > 0 {
			b.WriteString("\n\n---\n\n")
		}
		b.WriteString("# " + l.Title + "\n\n")
		b.WriteString(l.Markdown)
	}
	return b.String()
}

// ForResult writes a short reading of a backtest in the lessons' terms. It
// returns "" for a nil result.
func ForResult(p fmt.Stringer, r *api.BacktestResult, s analytics.Summary) string {
	if r == nil {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Reading your %s backtest\n\n", p)

	switch {
	case s.ExcessReturn > 0:
		fmt.Fprintf(&b, "The strategy **beat buy & hold by %.2f points** (%.2f%% vs %.2f%%). "+
			"That is rare; check whether it came from a handful of trades.\n\n",
			s.ExcessReturn*100, r.Metrics.TotalReturn*100, r.BuyHoldMetrics.TotalReturn*100)
	default:
		fmt.Fprintf(&b, "Buy & hold **won by %.2f points** (%.2f%% vs %.2f%%). "+
			"Patience beat activity again.\n\n",
			-s.ExcessReturn*100, r.BuyHoldMetrics.TotalReturn*100, r.Metrics.TotalReturn*100)
	}

	fmt.Fprintf(&b, "- %d trades, %d winners, win rate **%.1f%%**\n", s.TradeCount, s.WinningTrades, s.WinRate*100)
	fmt.Fprintf(&b, "- Strategy max drawdown %.2f%% vs %.2f%% for buy & hold\n",
		r.Metrics.MaxDrawdown*100, r.BuyHoldMetrics.MaxDrawdown*100)
	fmt.Fprintf(&b, "- Sharpe ratio %.2f vs %.2f\n", r.Metrics.SharpeRatio, r.BuyHoldMetrics.SharpeRatio)

	if len(s.Features) > 0 {
		best := s.Features[0]
		for _, f := range s.Features[1:] {
			if abs(f.DeltaPercent) > abs(best.DeltaPercent) {
				best = f
			}
		}
		fmt.Fprintf(&b, "\nThe clearest difference between winners and losers was **%s**, "+
			"which was %s (%+.1f%%).\n", SignalName(best.Name), best.Label, best.DeltaPercent)
	}

	if r.MaxDrawdownExplanation != "" {
		b.WriteString("\n> " + strings.TrimSpace(r.MaxDrawdownExplanation) + "\n")
	}
	return b.String()
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// ---------------------------------------------------------------------------
// Content
// ---------------------------------------------------------------------------

const welcomeMD = `This tutor runs a machine-learning trading strategy against years of
daily prices and shows you **what happened, trade by trade**.

- Pick a *strategy* (how eagerly the model trades) and a *symbol*.
- Compare the strategy's equity curve with simply buying and holding.
- Ask the AI tutor to **explain any single trade**.
- See which signals separated winning trades from losing ones.

> The goal is not to beat the market. The goal is to understand it.

*Educational use only. Past performance does not predict future results.*`

func signalsMD() string {
	var b strings.Builder
	b.WriteString("Every trading day the model evaluates these features to assess market conditions.\n\n")
	b.WriteString("| Signal | What it measures |\n|---|---|\n")
	for _, s := range Signals {
		fmt.Fprintf(&b, "| **%s** (`%s`) | %s |\n", s.Name, s.Key, s.Description)
	}
	return b.String()
}

const modelMD = "Raw features flow through a short pipeline that outputs a single number.\n\n" +
	"```\n" +
	"9 features ──▶ StandardScaler ──▶ Logistic Regression ──▶ P(bullish)\n" +
	"raw data       normalize          binary classifier        0-100%\n" +
	"```\n\n" +
	"Each feature gets a **coefficient**. A positive coefficient pushes the bullish probability up, " +
	"a negative one pushes it down. The Features tab ranks them by absolute size.\n\n" +
	"The model only ever sees the past. It cannot know about earnings surprises, news or crashes."

func strategiesMD() string {
	var b strings.Builder
	b.WriteString("All three strategies share the same model. They differ only in how they act on it.\n\n")
	b.WriteString("| Strategy | Entry when P(bullish) ≥ | Hold | Volatility cap | Cooldown |\n|---|---|---|---|---|\n")
	for _, s := range api.AllStrategies() {
		p := s.Preset()
		cooldown := "No"
		if p.Cooldown {
			cooldown = "Yes"
		}
		fmt.Fprintf(&b, "| **%s** | %s | %s | %s | %s |\n", p.Label, p.Entry, p.Hold, p.Volatility, cooldown)
	}
	b.WriteString("\nLower thresholds mean more trades. More trades do not mean more money.")
	return b.String()
}

const tradeMD = `1. **Signal**: the model outputs a bullish probability above the strategy threshold.
2. **Entry**: buy at the day's closing price.
3. **Hold**: wait the strategy's holding period.
4. **Exit**: sell and record the profit or loss.

Open the Trades tab and press **enter** on a row to ask the tutor why that
trade was taken and why it won or lost.`

const riskMD = `Without risk controls, a losing streak can wipe out all gains.

**Cooldown mechanism** stops revenge trading. After 3 consecutive losses the
position size drops to 30% for 30 days.

**Volatility filter** avoids chaotic markets:

- Conservative only trades below 0.45 volatility
- Aggressive allows up to 0.65
- Ultra has no filter and trades in any condition

The **max drawdown** is the worst peak-to-trough fall of the equity curve. It
is the number that tells you whether you could have stomached the strategy.`

const buyHoldMD = `Buy & hold typically **outperforms active trading strategies**, especially
over the long term.

- **Time in the market beats timing**: buy & hold captures every day of growth.
- **Compound growth**: every dollar compounds continuously.
- **Zero trading costs**: no commissions or slippage.
- **Emotional simplicity**: no daily decisions.
- **Tax efficiency**: long-term capital gains are taxed less.

Press **b** on the Overview tab to overlay the buy & hold curve.`

const takeawaysMD = `- **Patience wins**: buy & hold requires discipline.
- **Activity ≠ profit**: more trades don't mean more money.
- **Time in market** beats timing the market.
- **Past ≠ future**: history doesn't always repeat.

Even sophisticated ML models struggle to beat simple buy-and-hold in bull
markets. Active trading is exciting, but patience is profitable.`
