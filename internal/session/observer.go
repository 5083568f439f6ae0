package session

// Outcome classifies how a fetch completion was handled.
type Outcome string

const (
	OutcomeAccepted Outcome = "accepted"
	OutcomeStale    Outcome = "stale"
	OutcomeError    Outcome = "error"
)

// Observer receives session lifecycle notifications. Implementations must be
// cheap; they run on the event loop.
type Observer interface {
	BacktestRequested(p Params)
	BacktestCompleted(p Params, outcome Outcome)
	ExplanationFetched(outcome Outcome)
	ExplanationCacheHit()
}

// NopObserver discards every notification.
type NopObserver struct{}

func (NopObserver) BacktestRequested(Params)          {}
func (NopObserver) BacktestCompleted(Params, Outcome) {}
func (NopObserver) ExplanationFetched(Outcome)        {}
func (NopObserver) ExplanationCacheHit()              {}
