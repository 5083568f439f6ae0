package session

// Tab is a result view in the dashboard.
type Tab int

const (
	TabOverview Tab = iota
	TabTrades
	TabFeatures
	TabLearn
)

var allTabs = []Tab{TabOverview, TabTrades, TabFeatures, TabLearn}

// AllTabs returns the tabs in display order.
func AllTabs() []Tab {
	out := make([]Tab, len(allTabs))
	copy(out, allTabs)
	return out
}

func (t Tab) String() string {
	switch t {
	case TabOverview:
		return "Overview"
	case TabTrades:
		return "Trades"
	case TabFeatures:
		return "Features"
	case TabLearn:
		return "Learn"
	default:
		return "Unknown"
	}
}

// Next returns the following tab, wrapping around.
func (t Tab) Next() Tab { return allTabs[(int(t)+1)%len(allTabs)] }

// Prev returns the preceding tab, wrapping around.
func (t Tab) Prev() Tab { return allTabs[(int(t)+len(allTabs)-1)%len(allTabs)] }

func (t Tab) valid() bool { return t >= TabOverview && t <= TabLearn }
