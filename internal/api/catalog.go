package api

import (
	"fmt"
	"strings"
)

// Strategy is one of the named backtest parameter presets understood by the
// analytics service.
type Strategy string

const (
	Conservative Strategy = "conservative"
	Aggressive   Strategy = "aggressive"
	Ultra        Strategy = "ultra"
)

var allStrategies = []Strategy{Conservative, Aggressive, Ultra}

// StrategyPreset describes the trading rules behind a strategy variant. The
// values are display strings; the service owns the real parameters.
type StrategyPreset struct {
	Label      string `json:"label" yaml:"label"`
	Entry      string `json:"entry" yaml:"entry"`           // minimum bullish probability to enter
	Hold       string `json:"hold" yaml:"hold"`             // holding period
	Volatility string `json:"volatility" yaml:"volatility"` // volatility filter ceiling
	Cooldown   bool   `json:"cooldown" yaml:"cooldown"`
}

var strategyPresets = map[Strategy]StrategyPreset{
	Conservative: {Label: "Conservative", Entry: "65%", Hold: "5 days", Volatility: "0.45", Cooldown: true},
	Aggressive:   {Label: "Aggressive", Entry: "52%", Hold: "7 days", Volatility: "0.65", Cooldown: true},
	Ultra:        {Label: "Ultra", Entry: "48%", Hold: "15 days", Volatility: "None", Cooldown: false},
}

// AllStrategies returns every strategy variant in display order.
func AllStrategies() []Strategy {
	out := make([]Strategy, len(allStrategies))
	copy(out, allStrategies)
	return out
}

// ParseStrategy validates a case-insensitive strategy name.
func ParseStrategy(s string) (Strategy, error) {
	candidate := Strategy(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := strategyPresets[candidate]; ok {
		return candidate, nil
	}
	return "", fmt.Errorf("unknown strategy %q; valid options: conservative, aggressive, ultra", s)
}

// Preset returns the display preset for s.
func (s Strategy) Preset() StrategyPreset {
	return strategyPresets[s]
}

// Next cycles to the following strategy, wrapping around.
func (s Strategy) Next() Strategy {
	for i, v := range allStrategies {
		if v == s {
			return allStrategies[(i+1)%len(allStrategies)]
		}
	}
	return allStrategies[0]
}

func (s Strategy) String() string { return string(s) }

// Symbol is an instrument ticker supported by the analytics service.
type Symbol string

const (
	SPY  Symbol = "SPY"
	QQQ  Symbol = "QQQ"
	TSLA Symbol = "TSLA"
	NVDA Symbol = "NVDA"
	AMD  Symbol = "AMD"
	AAPL Symbol = "AAPL"
)

// SymbolInfo describes a selectable instrument.
type SymbolInfo struct {
	Symbol      Symbol `json:"symbol" yaml:"symbol"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
}

var symbolCatalog = []SymbolInfo{
	{Symbol: SPY, Name: "S&P 500 ETF", Description: "Broad market, low volatility"},
	{Symbol: QQQ, Name: "Nasdaq-100 ETF", Description: "Tech-heavy, moderate volatility"},
	{Symbol: TSLA, Name: "Tesla", Description: "High volatility, big swings"},
	{Symbol: NVDA, Name: "Nvidia", Description: "Semiconductor, high volatility"},
	{Symbol: AMD, Name: "AMD", Description: "Tech stock, volatile"},
	{Symbol: AAPL, Name: "Apple", Description: "Large cap tech, moderate volatility"},
}

// AllSymbols returns the instrument catalog in display order.
func AllSymbols() []SymbolInfo {
	out := make([]SymbolInfo, len(symbolCatalog))
	copy(out, symbolCatalog)
	return out
}

// ParseSymbol validates a case-insensitive ticker.
func ParseSymbol(s string) (Symbol, error) {
	candidate := Symbol(strings.ToUpper(strings.TrimSpace(s)))
	for _, info := range symbolCatalog {
		if info.Symbol == candidate {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("unknown symbol %q; valid options: SPY, QQQ, TSLA, NVDA, AMD, AAPL", s)
}

// Info returns catalog details for s. Unknown symbols get a bare entry.
func (s Symbol) Info() SymbolInfo {
	for _, info := range symbolCatalog {
		if info.Symbol == s {
			return info
		}
	}
	return SymbolInfo{Symbol: s, Name: string(s)}
}

// Next cycles to the following symbol in catalog order, wrapping around.
func (s Symbol) Next() Symbol {
	for i, info := range symbolCatalog {
		if info.Symbol == s {
			return symbolCatalog[(i+1)%len(symbolCatalog)].Symbol
		}
	}
	return symbolCatalog[0].Symbol
}

func (s Symbol) String() string { return string(s) }
