package session

import (
	"context"

	"github.com/Dallionking/tradetutor/internal/api"
)

// Effect is deferred network work produced by a state transition. The
// driver runs it off the event loop and feeds the returned Event back
// through Dispatch. A nil Effect means there is nothing to run.
type Effect func(ctx context.Context) Event

// Event is a completion fed back into the session.
type Event interface {
	event()
}

// BacktestDone completes a Request. Epoch ties it to the request that
// produced it.
type BacktestDone struct {
	Epoch  uint64
	Params Params
	Result *api.BacktestResult
	Err    error
}

// ExplanationDone completes an explanation fetch. Generation ties it to the
// backtest result that was committed when the fetch started.
type ExplanationDone struct {
	Generation  uint64
	Index       int
	Explanation *api.TradeExplanation
	Err         error
}

// ImportanceDone completes a feature-importance load.
type ImportanceDone struct {
	Features []api.FeatureImportance
	Err      error
}

func (BacktestDone) event()    {}
func (ExplanationDone) event() {}
func (ImportanceDone) event()  {}
