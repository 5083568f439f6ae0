package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// ---------------------------------------------------------------------------
// Dates
// ---------------------------------------------------------------------------

// dateLayouts lists the timestamp shapes the service emits. Python's
// isoformat() omits the zone, so RFC 3339 alone is not enough.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Date is a calendar timestamp decoded leniently from the service.
type Date struct {
	time.Time
}

// ParseDate parses any of the supported timestamp layouts.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Date{Time: t}, nil
		}
	}
	return Date{}, fmt.Errorf("unrecognised date %q", s)
}

// UnmarshalJSON accepts a quoted timestamp or null.
func (d *Date) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MarshalJSON writes the timestamp in the service's own layout.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Format("2006-01-02T15:04:05"))
}

// MarshalYAML renders the date as a plain string.
func (d Date) MarshalYAML() (interface{}, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.Format("2006-01-02T15:04:05"), nil
}

// Short returns the date as YYYY-MM-DD, or "-" when unset.
func (d Date) Short() string {
	if d.IsZero() {
		return "-"
	}
	return d.Format("2006-01-02")
}

// ---------------------------------------------------------------------------
// Backtest payload
// ---------------------------------------------------------------------------

// EquityPoint is one trading day on the equity curve.
type EquityPoint struct {
	Date    Date    `json:"date" yaml:"date"`
	Equity  float64 `json:"equity" yaml:"equity"`
	BuyHold float64 `json:"buy_hold" yaml:"buy_hold"`
}

// Metrics summarises a return series. NumTrades is only reported for the
// strategy side, never for buy-and-hold.
type Metrics struct {
	TotalReturn float64 `json:"total_return" yaml:"total_return"`
	MaxDrawdown float64 `json:"max_drawdown" yaml:"max_drawdown"`
	SharpeRatio float64 `json:"sharpe_ratio" yaml:"sharpe_ratio"`
	NumTrades   *int    `json:"num_trades,omitempty" yaml:"num_trades,omitempty"`
}

// Trade is a single round trip. Its position in BacktestResult.Trades is the
// only identifier the explain endpoint understands.
type Trade struct {
	EntryDate   Date               `json:"entry_date" yaml:"entry_date"`
	ExitDate    Date               `json:"exit_date" yaml:"exit_date"`
	EntryPrice  float64            `json:"entry_price" yaml:"entry_price"`
	ExitPrice   float64            `json:"exit_price" yaml:"exit_price"`
	PnL         float64            `json:"pnl" yaml:"pnl"`
	BullishProb float64            `json:"bullish_prob" yaml:"bullish_prob"`
	Features    map[string]float64 `json:"features" yaml:"features"`
}

// IsWin reports whether the trade closed with a positive return.
func (t Trade) IsWin() bool { return t.PnL > 0 }

// FeatureStats holds a feature's average over winning and losing trades.
type FeatureStats struct {
	Winning float64 `json:"winning" yaml:"winning"`
	Losing  float64 `json:"losing" yaml:"losing"`
}

// BacktestResult is the immutable snapshot returned by GET /api/backtest.
type BacktestResult struct {
	EquityCurve            []EquityPoint           `json:"equity_curve" yaml:"equity_curve"`
	Metrics                Metrics                 `json:"metrics" yaml:"metrics"`
	BuyHoldMetrics         Metrics                 `json:"buy_hold_metrics" yaml:"buy_hold_metrics"`
	Trades                 []Trade                 `json:"trades" yaml:"trades"`
	WinningTrades          int                     `json:"winning_trades" yaml:"winning_trades"`
	LosingTrades           int                     `json:"losing_trades" yaml:"losing_trades"`
	FeatureComparison      map[string]FeatureStats `json:"feature_comparison" yaml:"feature_comparison"`
	MaxDrawdownExplanation string                  `json:"max_drawdown_explanation,omitempty" yaml:"max_drawdown_explanation,omitempty"`
	StrategyType           string                  `json:"strategy_type,omitempty" yaml:"strategy_type,omitempty"`
	Symbol                 string                  `json:"symbol,omitempty" yaml:"symbol,omitempty"`
}

// ---------------------------------------------------------------------------
// Auxiliary endpoints
// ---------------------------------------------------------------------------

// FeatureImportance is a model coefficient for one input feature. It does not
// depend on the selected strategy or symbol.
type FeatureImportance struct {
	Name          string  `json:"name" yaml:"name"`
	Coefficient   float64 `json:"coefficient" yaml:"coefficient"`
	AbsImportance float64 `json:"abs_importance" yaml:"abs_importance"`
}

type featureImportanceResponse struct {
	Features []FeatureImportance `json:"features"`
}

// TradeExplanation is the response of GET /api/trades/{index}/explain.
type TradeExplanation struct {
	Trade       Trade  `json:"trade" yaml:"trade"`
	Explanation string `json:"explanation" yaml:"explanation"`
}

// TradeComparison is the response of GET /api/trades/compare.
type TradeComparison struct {
	WinningTrade Trade  `json:"winning_trade" yaml:"winning_trade"`
	LosingTrade  Trade  `json:"losing_trade" yaml:"losing_trade"`
	Comparison   string `json:"comparison" yaml:"comparison"`
}

// DatasetRow is one day of the model's input table. Indicator values are nil
// during their warm-up window.
type DatasetRow struct {
	Date          Date     `json:"date" yaml:"date"`
	Close         float64  `json:"close" yaml:"close"`
	Return5d      *float64 `json:"return_5d" yaml:"return_5d"`
	Return20d     *float64 `json:"return_20d" yaml:"return_20d"`
	MARatio       *float64 `json:"ma_ratio" yaml:"ma_ratio"`
	RSI           *float64 `json:"rsi" yaml:"rsi"`
	Volatility20d *float64 `json:"volatility_20d" yaml:"volatility_20d"`
}

// DatasetPreview is the response of GET /api/dataset/preview.
type DatasetPreview struct {
	Data      []DatasetRow `json:"data" yaml:"data"`
	TotalRows int          `json:"total_rows" yaml:"total_rows"`
	DateRange DateRange    `json:"date_range" yaml:"date_range"`
}

// DateRange spans the first and last day of a table.
type DateRange struct {
	Start Date `json:"start" yaml:"start"`
	End   Date `json:"end" yaml:"end"`
}

// ServiceInfo is the service banner returned by GET /.
type ServiceInfo struct {
	Message    string `json:"message" yaml:"message"`
	Version    string `json:"version" yaml:"version"`
	Disclaimer string `json:"disclaimer" yaml:"disclaimer"`
}
