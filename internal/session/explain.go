package session

import "github.com/Dallionking/tradetutor/internal/api"

// Placeholder texts stored in failed cache entries.
const (
	ExplanationFailedText = "Failed to load explanation. Please try again."
	TradeNotFoundText     = "Trade not found."
)

// EntryState is the fetch state of one cached explanation.
type EntryState int

const (
	EntryPending EntryState = iota
	EntryResolved
	EntryFailed
)

func (s EntryState) String() string {
	switch s {
	case EntryPending:
		return "pending"
	case EntryResolved:
		return "resolved"
	case EntryFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Entry is the cached explanation for one trade index.
type Entry struct {
	State EntryState
	// Text is the explanation when resolved, or a placeholder when failed.
	Text string
	// Trade is the service's echo of the explained trade, when resolved.
	Trade *api.Trade
}

// ExplanationCache memoizes per-trade explanations for the committed
// backtest result. At most one index is expanded at a time.
type ExplanationCache struct {
	generation uint64
	entries    map[int]*Entry
	expanded   int
}

func newExplanationCache() *ExplanationCache {
	return &ExplanationCache{entries: make(map[int]*Entry), expanded: -1}
}

// reset drops every entry and opens a new generation so that fetches started
// against the previous result are ignored on completion.
func (c *ExplanationCache) reset() {
	c.generation++
	c.entries = make(map[int]*Entry)
	c.expanded = -1
}

// Generation identifies the backtest result the cache currently belongs to.
func (c *ExplanationCache) Generation() uint64 { return c.generation }

// Len returns the number of indices with any cached state.
func (c *ExplanationCache) Len() int { return len(c.entries) }

// Entry returns a copy of the entry for index.
func (c *ExplanationCache) Entry(index int) (Entry, bool) {
	e, ok := c.entries[index]
	if !ok {
		return Entry{}, false
	}
	return *e, true
}

// Expanded returns the expanded index, if any.
func (c *ExplanationCache) Expanded() (int, bool) {
	return c.expanded, c.expanded >= 0
}

// IsExpanded reports whether index is the expanded one.
func (c *ExplanationCache) IsExpanded(index int) bool {
	return c.expanded >= 0 && c.expanded == index
}

func (c *ExplanationCache) expand(index int) { c.expanded = index }

func (c *ExplanationCache) collapse(index int) {
	if c.expanded == index {
		c.expanded = -1
	}
}

func (c *ExplanationCache) set(index int, e *Entry) { c.entries[index] = e }
