// Package analytics derives presentation-independent statistics from a
// backtest payload. Every function is pure and total: degenerate inputs
// produce a defined number, never an error.
package analytics

import (
	"sort"

	"github.com/Dallionking/tradetutor/internal/api"
)

// ---------------------------------------------------------------------------
// Win rate
// ---------------------------------------------------------------------------

// TradeCount returns the number of trades the service reported, falling back
// to the length of the trade list when metrics.num_trades is absent.
func TradeCount(r *api.BacktestResult) int {
	if r == nil {
		return 0
	}
	if r.Metrics.NumTrades != nil {
		return *r.Metrics.NumTrades
	}
	return len(r.Trades)
}

// WinRate returns winning trades over total trades as a ratio in [0, 1].
// Zero trades yields exactly 0.
func WinRate(r *api.BacktestResult) float64 {
	n := TradeCount(r)
	if n <= 0 {
		return 0
	}
	return float64(r.WinningTrades) / float64(n)
}

// ---------------------------------------------------------------------------
// Feature comparison
// ---------------------------------------------------------------------------

// Direction classifies how a feature differs between winning and losing
// trades.
type Direction int

const (
	LowerInWinners Direction = iota
	HigherInWinners
)

// String returns the human-readable label for d.
func (d Direction) String() string {
	if d == HigherInWinners {
		return "higher in winning trades"
	}
	return "lower in winning trades"
}

// FeatureInsight is the derived comparison for one feature.
type FeatureInsight struct {
	Name         string    `json:"name" yaml:"name"`
	Winning      float64   `json:"winning" yaml:"winning"`
	Losing       float64   `json:"losing" yaml:"losing"`
	Delta        float64   `json:"delta" yaml:"delta"`
	DeltaPercent float64   `json:"delta_percent" yaml:"delta_percent"`
	Direction    Direction `json:"-" yaml:"-"`
	Label        string    `json:"direction" yaml:"direction"`
}

// FeatureDelta returns winning average minus losing average.
func FeatureDelta(s api.FeatureStats) float64 {
	return s.Winning - s.Losing
}

// FeatureDeltaPercent returns the delta relative to |losing|, in percent.
// A zero losing average uses a denominator of 1.
func FeatureDeltaPercent(s api.FeatureStats) float64 {
	denom := s.Losing
	if denom < 0 {
		denom = -denom
	}
	if denom == 0 {
		denom = 1
	}
	return FeatureDelta(s) / denom * 100
}

// Classify returns HigherInWinners only for a strictly positive delta.
func Classify(delta float64) Direction {
	if delta > 0 {
		return HigherInWinners
	}
	return LowerInWinners
}

// FeatureInsights derives one insight per compared feature, ordered by name
// so that identical payloads always render identically.
func FeatureInsights(cmp map[string]api.FeatureStats) []FeatureInsight {
	names := make([]string, 0, len(cmp))
	for name := range cmp {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]FeatureInsight, 0, len(names))
	for _, name := range names {
		s := cmp[name]
		delta := FeatureDelta(s)
		dir := Classify(delta)
		out = append(out, FeatureInsight{
			Name:         name,
			Winning:      s.Winning,
			Losing:       s.Losing,
			Delta:        delta,
			DeltaPercent: FeatureDeltaPercent(s),
			Direction:    dir,
			Label:        dir.String(),
		})
	}
	return out
}

// ---------------------------------------------------------------------------
// Feature importance
// ---------------------------------------------------------------------------

// Effect is the sign classification of a model coefficient.
type Effect int

const (
	DecreasesBullish Effect = iota
	IncreasesBullish
)

// String returns the human-readable label for e.
func (e Effect) String() string {
	if e == IncreasesBullish {
		return "increases bullish probability"
	}
	return "decreases bullish probability"
}

// RankedFeature is a feature importance entry with its display rank.
type RankedFeature struct {
	Rank          int     `json:"rank" yaml:"rank"`
	Name          string  `json:"name" yaml:"name"`
	Coefficient   float64 `json:"coefficient" yaml:"coefficient"`
	AbsImportance float64 `json:"abs_importance" yaml:"abs_importance"`
	Effect        Effect  `json:"-" yaml:"-"`
	Label         string  `json:"effect" yaml:"effect"`
}

// RankImportance orders features by absolute importance, descending. Ties
// keep their input order. Rank is 1-based.
func RankImportance(features []api.FeatureImportance) []RankedFeature {
	ranked := make([]RankedFeature, len(features))
	for i, f := range features {
		eff := DecreasesBullish
		if f.Coefficient > 0 {
			eff = IncreasesBullish
		}
		ranked[i] = RankedFeature{
			Name:          f.Name,
			Coefficient:   f.Coefficient,
			AbsImportance: f.AbsImportance,
			Effect:        eff,
			Label:         eff.String(),
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].AbsImportance > ranked[j].AbsImportance
	})
	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked
}

// ---------------------------------------------------------------------------
// Summary
// ---------------------------------------------------------------------------

// Summary bundles every derived statistic for one backtest result.
type Summary struct {
	TradeCount    int              `json:"trade_count" yaml:"trade_count"`
	WinningTrades int              `json:"winning_trades" yaml:"winning_trades"`
	LosingTrades  int              `json:"losing_trades" yaml:"losing_trades"`
	WinRate       float64          `json:"win_rate" yaml:"win_rate"`
	ExcessReturn  float64          `json:"excess_return" yaml:"excess_return"`
	Features      []FeatureInsight `json:"features" yaml:"features"`
}

// Summarize computes the Summary for r. A nil result yields the zero value.
func Summarize(r *api.BacktestResult) Summary {
	if r == nil {
		return Summary{}
	}
	return Summary{
		TradeCount:    TradeCount(r),
		WinningTrades: r.WinningTrades,
		LosingTrades:  r.LosingTrades,
		WinRate:       WinRate(r),
		ExcessReturn:  r.Metrics.TotalReturn - r.BuyHoldMetrics.TotalReturn,
		Features:      FeatureInsights(r.FeatureComparison),
	}
}

// EquitySeries splits the equity curve into strategy and buy-and-hold value
// series for charting.
func EquitySeries(r *api.BacktestResult) (strategy, buyHold []float64) {
	if r == nil {
		return nil, nil
	}
	strategy = make([]float64, len(r.EquityCurve))
	buyHold = make([]float64, len(r.EquityCurve))
	for i, p := range r.EquityCurve {
		strategy[i] = p.Equity
		buyHold[i] = p.BuyHold
	}
	return strategy, buyHold
}
