package session

import (
	"fmt"

	"github.com/Dallionking/tradetutor/internal/api"
)

// Params is the (strategy, symbol) pair a backtest is requested for.
type Params struct {
	Strategy api.Strategy `json:"strategy" yaml:"strategy"`
	Symbol   api.Symbol   `json:"symbol" yaml:"symbol"`
}

// DefaultParams returns the selection shown before any user input.
func DefaultParams() Params {
	return Params{Strategy: api.Conservative, Symbol: api.SPY}
}

// ParseParams validates raw strategy and symbol names.
func ParseParams(strategy, symbol string) (Params, error) {
	st, err := api.ParseStrategy(strategy)
	if err != nil {
		return Params{}, err
	}
	sym, err := api.ParseSymbol(symbol)
	if err != nil {
		return Params{}, err
	}
	return Params{Strategy: st, Symbol: sym}, nil
}

func (p Params) String() string {
	return fmt.Sprintf("%s/%s", p.Strategy, p.Symbol)
}

// WithStrategy returns a copy of p with the strategy replaced.
func (p Params) WithStrategy(s api.Strategy) Params {
	p.Strategy = s
	return p
}

// WithSymbol returns a copy of p with the symbol replaced.
func (p Params) WithSymbol(s api.Symbol) Params {
	p.Symbol = s
	return p
}
