// Package session is the state container behind every tradetutor surface.
//
// A Session is owned by a single event loop. Transitions mutate state
// synchronously and return an Effect for any network work; the driver runs
// the Effect wherever it likes and feeds the resulting Event back through
// Dispatch. Completions can arrive in any order. Backtest completions are
// tagged with a request epoch and explanation completions with a cache
// generation, and anything superseded is dropped on arrival.
package session

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Dallionking/tradetutor/internal/analytics"
	"github.com/Dallionking/tradetutor/internal/api"
)

// Backend is the subset of the analytics service the session drives.
type Backend interface {
	Backtest(ctx context.Context, strategy api.Strategy, symbol api.Symbol) (*api.BacktestResult, error)
	ExplainTrade(ctx context.Context, index int) (*api.TradeExplanation, error)
	FeatureImportance(ctx context.Context) ([]api.FeatureImportance, error)
}

// Phase is the Fetch Coordinator state.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseReady
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	case PhaseError:
		return "error"
	default:
		return "unknown"
	}
}

var errEmptyResult = errors.New("service returned an empty backtest result")

// Session holds parameter state, the fetch coordinator, the explanation
// cache, feature importance and the active tab.
type Session struct {
	backend  Backend
	observer Observer
	logger   zerolog.Logger
	id       string

	// params reflects the data on screen; requested is the latest target.
	params    Params
	requested Params

	epoch   uint64
	phase   Phase
	result  *api.BacktestResult
	summary analytics.Summary
	errMsg  string

	cache *ExplanationCache

	importance        []analytics.RankedFeature
	importanceErr     string
	importanceLoading bool

	tab Tab
}

// Option configures a Session.
type Option func(*Session)

// WithObserver routes lifecycle notifications to o.
func WithObserver(o Observer) Option {
	return func(s *Session) {
		if o != nil {
			s.observer = o
		}
	}
}

// WithLogger replaces the package logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// WithParams sets the initial parameter selection.
func WithParams(p Params) Option {
	return func(s *Session) {
		s.params = p
		s.requested = p
	}
}

// New creates an idle session over backend.
func New(backend Backend, opts ...Option) *Session {
	s := &Session{
		backend:   backend,
		observer:  NopObserver{},
		logger:    log.Logger,
		id:        uuid.NewString(),
		params:    DefaultParams(),
		requested: DefaultParams(),
		cache:     newExplanationCache(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With().Str("component", "session").Str("session_id", s.id).Logger()
	return s
}

// ---------------------------------------------------------------------------
// Fetch coordinator
// ---------------------------------------------------------------------------

// Request supersedes any in-flight backtest and returns the fetch for p.
func (s *Session) Request(p Params) Effect {
	s.epoch++
	epoch := s.epoch
	s.requested = p
	s.phase = PhaseLoading
	s.errMsg = ""
	s.observer.BacktestRequested(p)
	s.logger.Debug().Uint64("epoch", epoch).Str("params", p.String()).Msg("Backtest requested")

	backend := s.backend
	return func(ctx context.Context) Event {
		res, err := backend.Backtest(ctx, p.Strategy, p.Symbol)
		return BacktestDone{Epoch: epoch, Params: p, Result: res, Err: err}
	}
}

// Retry re-issues the most recently requested parameters.
func (s *Session) Retry() Effect {
	return s.Request(s.requested)
}

// CycleStrategy requests the next strategy variant. It cycles from the
// latest requested pair so repeated presses are not lost while loading.
func (s *Session) CycleStrategy() Effect {
	return s.Request(s.requested.WithStrategy(s.requested.Strategy.Next()))
}

// CycleSymbol requests the next instrument symbol.
func (s *Session) CycleSymbol() Effect {
	return s.Request(s.requested.WithSymbol(s.requested.Symbol.Next()))
}

// HandleBacktest applies a backtest completion. It reports whether the
// completion was current and changed state.
func (s *Session) HandleBacktest(ev BacktestDone) bool {
	if ev.Epoch != s.epoch {
		s.observer.BacktestCompleted(ev.Params, OutcomeStale)
		s.logger.Debug().
			Uint64("epoch", ev.Epoch).
			Uint64("current", s.epoch).
			Str("params", ev.Params.String()).
			Msg("Discarding stale backtest response")
		return false
	}

	err := ev.Err
	if err == nil && ev.Result == nil {
		err = errEmptyResult
	}
	if err != nil {
		s.phase = PhaseError
		s.errMsg = err.Error()
		s.observer.BacktestCompleted(ev.Params, OutcomeError)
		s.logger.Warn().Err(err).Str("params", ev.Params.String()).Msg("Backtest failed")
		return true
	}

	s.result = ev.Result
	s.summary = analytics.Summarize(ev.Result)
	s.params = ev.Params
	s.cache.reset()
	s.phase = PhaseReady
	s.observer.BacktestCompleted(ev.Params, OutcomeAccepted)
	s.logger.Info().
		Str("params", ev.Params.String()).
		Int("trades", len(ev.Result.Trades)).
		Uint64("generation", s.cache.Generation()).
		Msg("Backtest committed")
	return true
}

// ---------------------------------------------------------------------------
// Explanation cache
// ---------------------------------------------------------------------------

// Explain selects trade index. It toggles visibility of a resolved entry,
// ignores an index already in flight, and fetches on first use or after a
// failure. The returned Effect is nil when no fetch is needed.
func (s *Session) Explain(index int) Effect {
	if s.result == nil || index < 0 || index >= len(s.result.Trades) {
		s.cache.set(index, &Entry{State: EntryFailed, Text: TradeNotFoundText})
		s.cache.expand(index)
		return nil
	}

	if e, ok := s.cache.entries[index]; ok {
		switch e.State {
		case EntryResolved:
			if s.cache.IsExpanded(index) {
				s.cache.collapse(index)
				return nil
			}
			s.cache.expand(index)
			s.observer.ExplanationCacheHit()
			return nil
		case EntryPending:
			s.cache.expand(index)
			return nil
		}
	}

	s.cache.set(index, &Entry{State: EntryPending})
	s.cache.expand(index)

	gen := s.cache.Generation()
	backend := s.backend
	return func(ctx context.Context) Event {
		exp, err := backend.ExplainTrade(ctx, index)
		return ExplanationDone{Generation: gen, Index: index, Explanation: exp, Err: err}
	}
}

// HandleExplanation applies an explanation completion. Completions from a
// previous cache generation are discarded.
func (s *Session) HandleExplanation(ev ExplanationDone) bool {
	if ev.Generation != s.cache.Generation() {
		s.observer.ExplanationFetched(OutcomeStale)
		return false
	}
	e, ok := s.cache.entries[ev.Index]
	if !ok || e.State != EntryPending {
		s.observer.ExplanationFetched(OutcomeStale)
		return false
	}

	if ev.Err != nil || ev.Explanation == nil {
		e.State = EntryFailed
		e.Text = ExplanationFailedText
		s.observer.ExplanationFetched(OutcomeError)
		s.logger.Warn().Err(ev.Err).Int("index", ev.Index).Msg("Explanation failed")
		return true
	}

	trade := ev.Explanation.Trade
	e.State = EntryResolved
	e.Text = ev.Explanation.Explanation
	e.Trade = &trade
	s.observer.ExplanationFetched(OutcomeAccepted)
	return true
}

// Collapse hides index if it is expanded. Cached state is kept.
func (s *Session) Collapse(index int) {
	s.cache.collapse(index)
}

// IsExpanded reports whether index is the expanded trade.
func (s *Session) IsExpanded(index int) bool {
	return s.cache.IsExpanded(index)
}

// ---------------------------------------------------------------------------
// Feature importance
// ---------------------------------------------------------------------------

// LoadImportance fetches feature importance once. Importance is global, so
// it survives new backtest results; a failed load may be retried.
func (s *Session) LoadImportance() Effect {
	if s.importanceLoading || s.importance != nil {
		return nil
	}
	s.importanceLoading = true
	s.importanceErr = ""

	backend := s.backend
	return func(ctx context.Context) Event {
		features, err := backend.FeatureImportance(ctx)
		return ImportanceDone{Features: features, Err: err}
	}
}

// HandleImportance applies a feature-importance completion.
func (s *Session) HandleImportance(ev ImportanceDone) bool {
	s.importanceLoading = false
	if ev.Err != nil {
		s.importanceErr = ev.Err.Error()
		s.logger.Warn().Err(ev.Err).Msg("Feature importance failed")
		return true
	}
	s.importance = analytics.RankImportance(ev.Features)
	return true
}

// ---------------------------------------------------------------------------
// Dispatch
// ---------------------------------------------------------------------------

// Dispatch routes ev to its handler.
func (s *Session) Dispatch(ev Event) bool {
	switch ev := ev.(type) {
	case BacktestDone:
		return s.HandleBacktest(ev)
	case ExplanationDone:
		return s.HandleExplanation(ev)
	case ImportanceDone:
		return s.HandleImportance(ev)
	default:
		return false
	}
}

// Await runs eff on the calling goroutine and dispatches its event. It is
// the driver for non-interactive callers.
func (s *Session) Await(ctx context.Context, eff Effect) bool {
	if eff == nil {
		return false
	}
	return s.Dispatch(eff(ctx))
}

// ---------------------------------------------------------------------------
// View selector
// ---------------------------------------------------------------------------

// Tab returns the active tab.
func (s *Session) Tab() Tab { return s.tab }

// SelectTab activates t. Unknown tabs are ignored.
func (s *Session) SelectTab(t Tab) {
	if t.valid() {
		s.tab = t
	}
}

// NextTab activates the following tab.
func (s *Session) NextTab() { s.tab = s.tab.Next() }

// PrevTab activates the preceding tab.
func (s *Session) PrevTab() { s.tab = s.tab.Prev() }

// ---------------------------------------------------------------------------
// Accessors
// ---------------------------------------------------------------------------

func (s *Session) ID() string                  { return s.id }
func (s *Session) Params() Params              { return s.params }
func (s *Session) Requested() Params           { return s.requested }
func (s *Session) Epoch() uint64               { return s.epoch }
func (s *Session) Phase() Phase                { return s.phase }
func (s *Session) Result() *api.BacktestResult { return s.result }
func (s *Session) Summary() analytics.Summary  { return s.summary }
func (s *Session) Err() string                 { return s.errMsg }
func (s *Session) Cache() *ExplanationCache    { return s.cache }

// Importance returns the ranked features, or nil before a successful load.
func (s *Session) Importance() []analytics.RankedFeature { return s.importance }

// ImportanceErr returns the last feature-importance failure message.
func (s *Session) ImportanceErr() string { return s.importanceErr }

// ImportanceLoading reports whether a feature-importance load is in flight.
func (s *Session) ImportanceLoading() bool { return s.importanceLoading }
