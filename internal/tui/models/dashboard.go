package models

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Dallionking/tradetutor/internal/analytics"
	"github.com/Dallionking/tradetutor/internal/config"
	"github.com/Dallionking/tradetutor/internal/lessons"
	"github.com/Dallionking/tradetutor/internal/session"
	"github.com/Dallionking/tradetutor/internal/tui/components"
	"github.com/Dallionking/tradetutor/internal/tui/styles"
)

// ---------------------------------------------------------------------------
// Messages
// ---------------------------------------------------------------------------

// configReloadedMsg reports the outcome of re-reading the config file.
type configReloadedMsg struct {
	cfg *config.Config
	err error
}

// ---------------------------------------------------------------------------
// Model
// ---------------------------------------------------------------------------

// DashboardOptions wires the dashboard to its environment.
type DashboardOptions struct {
	// Context bounds every backtest and explanation fetch.
	Context context.Context
	// Reloads delivers one value per config file change. May be nil.
	Reloads <-chan struct{}
	// OnReload re-reads configuration after a change. It runs off the event
	// loop and must not touch shared state.
	OnReload func() (*config.Config, error)
	// OnApply installs a reloaded config. It runs on the event loop before
	// the current parameters are fetched again.
	OnApply func(*config.Config)
	Logger  *zerolog.Logger
}

// DashboardModel is the full-screen Bubble Tea dashboard. It owns a
// session.Session and runs the session's effects as tea.Cmds; every
// completion comes back through Update as a session.Event.
type DashboardModel struct {
	sess *session.Session
	ctx  context.Context

	reloads  <-chan struct{}
	onReload func() (*config.Config, error)
	onApply  func(*config.Config)
	logger   zerolog.Logger

	// Sub-components
	header  components.Header
	tabBar  components.TabBar
	footer  components.Footer
	spinner spinner.Model
	learn   components.MarkdownPane

	// State
	selected    int  // trade row on the Trades tab
	showBuyHold bool // overlay the benchmark on the Overview tab
	flash       string
	width       int
	height      int
	ready       bool
	quitting    bool
}

// NewDashboardModel creates a dashboard over sess.
func NewDashboardModel(sess *session.Session, opts DashboardOptions) DashboardModel {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	logger := log.Logger
	if opts.Logger != nil {
		logger = *opts.Logger
	}

	sp := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(styles.AccentPrimary)),
	)

	tabs := make([]string, 0, len(session.AllTabs()))
	for _, t := range session.AllTabs() {
		tabs = append(tabs, t.String())
	}

	m := DashboardModel{
		sess:        sess,
		ctx:         ctx,
		reloads:     opts.Reloads,
		onReload:    opts.OnReload,
		onApply:     opts.OnApply,
		logger:      logger.With().Str("component", "dashboard").Logger(),
		tabBar:      components.TabBar{Tabs: tabs},
		spinner:     sp,
		learn:       components.NewMarkdownPane("Learn", 76, 20),
		showBuyHold: true,
		width:       80,
		height:      24,
	}
	m.learn.SetMarkdown(m.learnDocument())
	return m
}

// run adapts a session effect to a tea.Cmd. The returned session.Event is
// delivered back to Update.
func (m DashboardModel) run(eff session.Effect) tea.Cmd {
	if eff == nil {
		return nil
	}
	ctx := m.ctx
	return func() tea.Msg { return eff(ctx) }
}

// waitForReload blocks on the config watcher and re-reads the config.
func (m DashboardModel) waitForReload() tea.Cmd {
	if m.reloads == nil {
		return nil
	}
	ch, reload := m.reloads, m.onReload
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		if reload == nil {
			return configReloadedMsg{}
		}
		cfg, err := reload()
		return configReloadedMsg{cfg: cfg, err: err}
	}
}

// ---------------------------------------------------------------------------
// Bubble Tea interface
// ---------------------------------------------------------------------------

// Init fetches the startup parameters.
func (m DashboardModel) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.run(m.sess.Request(m.sess.Requested())),
		m.waitForReload(),
	)
}

// Update handles window resize, keyboard, session events and config reloads.
func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.reflow()

	case tea.KeyMsg:
		model, cmd := m.handleKey(msg)
		return model, cmd

	case session.BacktestDone:
		if m.sess.Dispatch(msg) && msg.Err == nil {
			m.selected = 0
			m.flash = ""
			m.learn.SetMarkdown(m.learnDocument())
		}

	case session.ExplanationDone, session.ImportanceDone:
		m.sess.Dispatch(msg.(session.Event))

	case configReloadedMsg:
		if msg.err != nil {
			m.flash = "config reload failed: " + msg.err.Error()
			m.logger.Warn().Err(msg.err).Msg("Config reload failed")
		} else {
			if m.onApply != nil && msg.cfg != nil {
				m.onApply(msg.cfg)
			}
			m.flash = "config reloaded; refreshing " + m.sess.Requested().String()
			m.logger.Info().Msg("Config reloaded")
			cmds = append(cmds, m.run(m.sess.Retry()))
		}
		cmds = append(cmds, m.waitForReload())

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	m.sync()
	return m, tea.Batch(cmds...)
}

func (m DashboardModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case "tab":
		m.sess.NextTab()
		cmd = m.enterTab()
	case "shift+tab":
		m.sess.PrevTab()
		cmd = m.enterTab()
	case "1", "2", "3", "4":
		m.sess.SelectTab(session.Tab(msg.String()[0] - '1'))
		cmd = m.enterTab()
	case "s":
		cmd = m.run(m.sess.CycleStrategy())
	case "y":
		cmd = m.run(m.sess.CycleSymbol())
	case "r":
		cmd = m.run(m.sess.Retry())
	case "b":
		m.showBuyHold = !m.showBuyHold
	case "i":
		if m.sess.Tab() == session.TabFeatures {
			cmd = m.run(m.sess.LoadImportance())
		}
	default:
		cmd = m.handleTabKey(msg)
	}

	m.sync()
	return m, cmd
}

// handleTabKey routes keys that only mean something on the active tab.
func (m *DashboardModel) handleTabKey(msg tea.KeyMsg) tea.Cmd {
	switch m.sess.Tab() {
	case session.TabTrades:
		r := m.sess.Result()
		if r == nil || m.sess.Phase() != session.PhaseReady {
			return nil
		}
		switch msg.String() {
		case "up", "k":
			m.selected = max(m.selected-1, 0)
		case "down", "j":
			m.selected = min(m.selected+1, max(len(r.Trades)-1, 0))
		case "home", "g":
			m.selected = 0
		case "end", "G":
			m.selected = max(len(r.Trades)-1, 0)
		case "enter", " ":
			return m.run(m.sess.Explain(m.selected))
		case "esc":
			m.sess.Collapse(m.selected)
		}
	case session.TabLearn:
		var cmd tea.Cmd
		m.learn, cmd = m.learn.Update(msg)
		return cmd
	}
	return nil
}

// enterTab lazily loads feature importance the first time its tab opens.
func (m *DashboardModel) enterTab() tea.Cmd {
	if m.sess.Tab() == session.TabFeatures && m.sess.ImportanceErr() == "" {
		return m.run(m.sess.LoadImportance())
	}
	return nil
}

// View renders header, tabs, the active tab body and footer.
func (m DashboardModel) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "\n  Loading dashboard..."
	}

	sections := []string{
		m.header.Render(),
		m.tabBar.Render(),
		m.renderBody(),
	}
	if m.flash != "" {
		sections = append(sections, styles.Dim(" "+styles.TruncateWithEllipsis(m.flash, max(m.width-2, 10))))
	}
	sections = append(sections, m.footer.Render())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// ---------------------------------------------------------------------------
// Layout
// ---------------------------------------------------------------------------

// sync copies session state into the header, tab bar and footer.
func (m *DashboardModel) sync() {
	p := m.sess.Requested()
	m.header = components.Header{
		Strategy: p.Strategy,
		Symbol:   p.Symbol,
		Phase:    m.sess.Phase().String(),
		Spinner:  m.spinner.View(),
		Session:  shortID(m.sess.ID()),
		Width:    m.width,
	}
	m.tabBar.ActiveTab = int(m.sess.Tab())
	m.tabBar.Width = m.width
	m.tabBar.Disabled = m.sess.Phase() != session.PhaseReady && m.sess.Tab() != session.TabLearn

	if m.sess.Phase() == session.PhaseError {
		m.footer = components.ErrorFooter(m.width)
	} else {
		m.footer = components.DashboardFooter(m.width, m.sess.Tab() == session.TabTrades)
	}
}

// reflow resizes width-dependent components after a window change.
func (m *DashboardModel) reflow() {
	m.learn.Resize(max(m.width-4, 20), m.bodyHeight())
	m.sync()
}

func (m DashboardModel) bodyHeight() int {
	h := m.height - 3 // header, tabs, footer
	if m.flash != "" {
		h--
	}
	return max(h, 5)
}

// learnDocument prefixes the lessons with a reading of the current result.
func (m DashboardModel) learnDocument() string {
	doc := lessons.Document()
	if r := m.sess.Result(); r != nil {
		doc = lessons.ForResult(m.sess.Params(), r, m.sess.Summary()) + "\n\n---\n\n" + doc
	}
	return doc
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// ---------------------------------------------------------------------------
// Tab bodies
// ---------------------------------------------------------------------------

func (m DashboardModel) renderBody() string {
	h := m.bodyHeight()
	body := lipgloss.NewStyle().Width(m.width).Height(h).MaxHeight(h)

	if m.sess.Tab() == session.TabLearn {
		return body.Render(lipgloss.NewStyle().PaddingLeft(2).Render(m.learn.View()))
	}

	switch m.sess.Phase() {
	case session.PhaseIdle, session.PhaseLoading:
		return body.Render(m.renderLoading())
	case session.PhaseError:
		return body.Render(m.renderError())
	}

	switch m.sess.Tab() {
	case session.TabTrades:
		return body.Render(m.renderTrades(h))
	case session.TabFeatures:
		return body.Render(m.renderFeatures())
	default:
		return body.Render(m.renderOverview())
	}
}

func (m DashboardModel) renderLoading() string {
	p := m.sess.Requested()
	lines := []string{
		"",
		"  " + m.spinner.View() + " " + styles.Bold("Running backtest for "+p.Strategy.Preset().Label+" on "+string(p.Symbol)),
		"",
		"  " + styles.Dim("The model replays years of daily prices; this usually takes 30-60 seconds."),
		"  " + styles.Dim("Changing strategy or symbol now supersedes this run."),
	}
	return strings.Join(lines, "\n")
}

func (m DashboardModel) renderError() string {
	content := styles.Title.Foreground(styles.StatusError).Render("Backtest failed") + "\n\n" +
		m.sess.Err() + "\n\n" +
		styles.Dim("Press r to retry "+m.sess.Requested().String()+", or pick other parameters.")
	return "\n" + lipgloss.NewStyle().PaddingLeft(2).Render(
		styles.ErrorPanel.Width(min(max(m.width-8, 30), 90)).Render(content))
}

// renderOverview shows metrics, the equity curve and the trade summary.
//
//	[ML Strategy  | Buy & Hold ]
//	[Equity curve              ]
//	[Trade summary             ]
func (m DashboardModel) renderOverview() string {
	r := m.sess.Result()
	sum := m.sess.Summary()
	w := m.width

	colW := w / 2
	if !m.showBuyHold {
		colW = w
	}
	gaugeW := max((colW-6)/3, 12)

	strategyTitle := fmt.Sprintf("ML Strategy (%s)", m.sess.Params().Strategy.Preset().Label)
	metrics := components.TitledPanel(strategyTitle,
		components.RenderGauges(components.MetricsGauges(r.Metrics, gaugeW)), colW)
	if m.showBuyHold {
		benchmark := components.TitledPanel("Buy & Hold (Benchmark)",
			components.RenderGauges(components.MetricsGauges(r.BuyHoldMetrics, gaugeW)), w-colW)
		metrics = lipgloss.JoinHorizontal(lipgloss.Top, metrics, benchmark)
	}

	sections := []string{metrics, m.renderEquity(w), m.renderTradeSummary(sum, w)}
	if r.MaxDrawdownExplanation != "" {
		sections = append(sections, components.TitledPanel("Max Drawdown",
			styles.Subtitle.Render(r.MaxDrawdownExplanation), w))
	}
	sections = append(sections, " "+styles.Dim(styles.Disclaimer))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m DashboardModel) renderEquity(width int) string {
	r := m.sess.Result()
	strat, hold := analytics.EquitySeries(r)
	if len(strat) == 0 {
		return components.TitledPanel("Equity Curve", styles.Dim("No equity data."), width)
	}

	chartW := max(width-30, 10)
	rng := styles.RangeOf(strat)
	if m.showBuyHold {
		rng = styles.RangeOf(strat, hold)
	}

	label := lipgloss.NewStyle().Width(12).Foreground(styles.TextSecondary)
	lines := []string{
		label.Render("Strategy") + " " + styles.SparklineIn(strat, chartW, rng, styles.StrategyLine) +
			" " + styles.Cyan(fmt.Sprintf("%10.0f", strat[len(strat)-1])),
	}
	if m.showBuyHold {
		lines = append(lines, label.Render("Buy & Hold")+" "+styles.SparklineIn(hold, chartW, rng, styles.BenchmarkLine)+
			" "+styles.Gold(fmt.Sprintf("%10.0f", hold[len(hold)-1])))
	}

	first, last := r.EquityCurve[0].Date.Short(), r.EquityCurve[len(r.EquityCurve)-1].Date.Short()
	lines = append(lines, label.Render("")+" "+styles.Dim(first)+
		strings.Repeat(" ", max(chartW-len(first)-len(last), 1))+styles.Dim(last))

	return components.TitledPanel("Equity Curve", strings.Join(lines, "\n"), width)
}

func (m DashboardModel) renderTradeSummary(sum analytics.Summary, width int) string {
	cell := func(label, value string, color lipgloss.Color) string {
		return lipgloss.JoinVertical(lipgloss.Center,
			lipgloss.NewStyle().Foreground(color).Bold(true).Render(value),
			styles.Label.Render(label),
		)
	}
	cellW := max((width-6)/4, 10)
	place := func(s string) string { return lipgloss.PlaceHorizontal(cellW, lipgloss.Center, s) }

	excess := styles.Green("beat buy & hold by " + styles.SignedPercent(sum.ExcessReturn))
	if sum.ExcessReturn <= 0 {
		excess = styles.Red("trailed buy & hold by " + styles.Percent(-sum.ExcessReturn))
	}

	row := lipgloss.JoinHorizontal(lipgloss.Top,
		place(cell("Total Trades", fmt.Sprintf("%d", sum.TradeCount), styles.TextPrimary)),
		place(cell("Winning", fmt.Sprintf("%d", sum.WinningTrades), styles.StatusOK)),
		place(cell("Losing", fmt.Sprintf("%d", sum.LosingTrades), styles.StatusError)),
		place(cell("Win Rate", fmt.Sprintf("%.1f%%", sum.WinRate*100), styles.TextPrimary)),
	)
	return components.TitledPanel("Trade Summary", row+"\n"+lipgloss.PlaceHorizontal(cellW*4, lipgloss.Center, excess), width)
}

func (m DashboardModel) renderTrades(height int) string {
	r := m.sess.Result()
	table := components.TradeTable{
		Trades:   r.Trades,
		Cache:    m.sess.Cache(),
		Selected: m.selected,
		Spinner:  m.spinner.View(),
		Width:    m.width - 4,
		Height:   height - 3,
	}
	title := fmt.Sprintf("Trades (%d)", len(r.Trades))
	return components.TitledPanel(title, table.Render(), m.width)
}

// renderFeatures shows winning-vs-losing averages next to the model's
// coefficient ranking.
func (m DashboardModel) renderFeatures() string {
	insights := m.sess.Summary().Features
	leftW := m.width
	if m.width >= 100 {
		leftW = m.width * 3 / 5
	}

	var bars []string
	scale := components.ComparisonScale(insights)
	for _, in := range insights {
		bars = append(bars, components.ComparisonBar{Insight: in, Scale: scale, Width: leftW - 4}.Render())
	}
	if len(bars) == 0 {
		bars = append(bars, styles.Dim("No winning/losing split: the backtest needs both kinds of trade."))
	}
	left := components.TitledPanel("Winning vs Losing Trades", strings.Join(bars, "\n\n"), leftW)

	right := components.TitledPanel("What Drives the Model", m.renderImportance(), max(m.width-leftW, 40))
	if m.width >= 100 {
		return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
	}
	return lipgloss.JoinVertical(lipgloss.Left, left, right)
}

func (m DashboardModel) renderImportance() string {
	switch {
	case m.sess.ImportanceLoading():
		return m.spinner.View() + " Loading feature importance..."
	case m.sess.ImportanceErr() != "":
		return styles.Red(m.sess.ImportanceErr()) + "\n" + styles.Dim("Press i to try again.")
	}

	ranked := m.sess.Importance()
	if len(ranked) == 0 {
		return styles.Dim("Press i to load the model's coefficients.")
	}

	top := ranked[0].AbsImportance
	var lines []string
	for _, f := range ranked {
		barW := 0
		if top > 0 {
			barW = int(f.AbsImportance / top * 12)
		}
		color := styles.StatusError
		if f.Effect == analytics.IncreasesBullish {
			color = styles.StatusOK
		}
		bar := lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("█", max(barW, 1)))
		lines = append(lines, fmt.Sprintf("%2d. %-22s %s %s",
			f.Rank, lessons.SignalName(f.Name), bar, styles.Dim(fmt.Sprintf("%+.3f", f.Coefficient))))
	}
	lines = append(lines, "", styles.Green("█")+styles.Dim(" raises P(bullish)  ")+styles.Red("█")+styles.Dim(" lowers it"))
	return strings.Join(lines, "\n")
}
