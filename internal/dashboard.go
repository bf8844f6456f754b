package darkgraph

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/benbjohnson/clock"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

// fetchedMsg carries the outcome of one poll back to the event loop.
type fetchedMsg struct {
	seq     uint64
	snap    *Snapshot
	err     error
	elapsed time.Duration
}

type dashboardModel struct {
	fetcher  Fetcher
	renderer *Renderer
	cache    *Cache
	sched    *Scheduler
	metrics  *Metrics
	log      *zap.SugaredLogger
	clock    clock.Clock

	tabbed  bool
	tabs    *TabSet
	views   []SeriesView
	header  *HeaderView
	cursors []int

	selectedPane int
	details      bool
	loading      bool
	lastErr      error
	lastUpdate   time.Time

	width  int
	height int
	ready  bool
}

// DashboardOptions wires the dashboard to its collaborators.
type DashboardOptions struct {
	Config  *Config
	Fetcher Fetcher
	Metrics *Metrics
	Logger  *zap.SugaredLogger
	Clock   clock.Clock
}

func NewDashboard(opts DashboardOptions) dashboardModel {
	cfg := opts.Config
	clk := opts.Clock
	if clk == nil {
		clk = clock.New()
	}
	titles := make([]string, len(cfg.Series))
	for i, s := range cfg.Series {
		titles[i] = s.Title
	}
	cursors := make([]int, len(cfg.Series))
	for i := range cursors {
		cursors[i] = -1
	}

	return dashboardModel{
		fetcher:  opts.Fetcher,
		renderer: NewRenderer(cfg.Series, cfg.Graph),
		cache:    NewCache(cfg.StrictOrder),
		sched:    NewScheduler(clk, cfg.Interval),
		metrics:  opts.Metrics,
		log:      opts.Logger,
		clock:    clk,
		tabbed:   cfg.Layout == "tabs",
		tabs:     NewTabSet(titles...),
		cursors:  cursors,
	}
}

func (m dashboardModel) Init() tea.Cmd {
	_, cmd := m.reload()
	return cmd
}

// reload issues one fetch without waiting for any earlier one.
func (m dashboardModel) reload() (dashboardModel, tea.Cmd) {
	if !m.sched.Enabled() {
		m.loading = true
	}
	seq := m.cache.NextSeq()
	fetcher, clk := m.fetcher, m.clock
	m.log.Debugw("reloading", "seq", seq)

	return m, func() tea.Msg {
		start := clk.Now()
		snap, err := fetcher.Fetch(context.Background())
		if snap != nil {
			snap.Seq = seq
			snap.FetchedAt = clk.Now()
		}
		return fetchedMsg{seq: seq, snap: snap, err: err, elapsed: clk.Since(start)}
	}
}

// toggleAutoReload starts the loop with an immediate reload, or stops it.
func (m dashboardModel) toggleAutoReload() (dashboardModel, tea.Cmd) {
	token, started := m.sched.Toggle()
	m.log.Infow("automatic reload toggled", "enabled", started)
	if !started {
		return m, nil
	}
	m, cmd := m.reload()
	return m, tea.Batch(cmd, m.sched.Wait(token))
}

func (m dashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

	case autoReloadMsg:
		if !m.sched.Due(msg.token) {
			return m, nil
		}
		m, cmd := m.reload()
		return m, tea.Batch(cmd, m.sched.Wait(msg.token))

	case fetchedMsg:
		return m.apply(msg), nil
	}

	return m, nil
}

// apply renders a completed poll and swaps in the new views in one step.
// On any failure the previous charts stay untouched.
func (m dashboardModel) apply(msg fetchedMsg) dashboardModel {
	if m.cache.Newest(msg.seq) {
		m.loading = false
	}
	err := msg.err
	var views []SeriesView
	if err == nil {
		if m.cache.Stale(msg.seq) {
			m.metrics.ObserveFetch(msg.elapsed, nil)
			m.metrics.ObserveStale()
			m.log.Debugw("dropping stale response", "seq", msg.seq)
			return m
		}
		views, err = m.renderer.Render(msg.snap)
	}
	m.metrics.ObserveFetch(msg.elapsed, err)

	if err != nil {
		m.log.Warnw("poll failed", "seq", msg.seq, "error", err)
		m.lastErr = err
		return m
	}

	m.cache.Apply(msg.snap)
	m.views = views
	header := FormatHeader(msg.snap.Header)
	m.header = &header
	m.lastErr = nil
	m.lastUpdate = msg.snap.FetchedAt
	for i, v := range views {
		if m.cursors[i] >= len(v.Bars) {
			m.cursors[i] = len(v.Bars) - 1
		}
	}
	m.metrics.ObserveRender(views)
	return m
}

func (m dashboardModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := len(m.renderer.Series())
	switch msg.String() {
	case "ctrl+c", "q":
		m.sched.Stop(m.sched.Active())
		return m, tea.Quit
	case "r":
		return m.reload()
	case "a":
		return m.toggleAutoReload()
	case "h", "left", "shift+tab":
		m.selectedPane = m.tabs.PrevTab().GetSelectedTab()
	case "l", "right", "tab":
		m.selectedPane = m.tabs.NextTab().GetSelectedTab()
	case "j", "down":
		if cols := m.columns(); m.selectedPane+cols < n {
			m.selectedPane += cols
		}
	case "k", "up":
		if cols := m.columns(); m.selectedPane-cols >= 0 {
			m.selectedPane -= cols
		}
	case "[":
		m.moveCursor(-1)
	case "]":
		m.moveCursor(1)
	case "esc":
		m.cursors[m.selectedPane] = -1
	case "d":
		m.details = !m.details
	}
	m.tabs.SelectTab(m.selectedPane)
	return m, nil
}

// moveCursor steps the bucket cursor of the selected pane. From no selection
// the first step lands on the newest bucket.
func (m dashboardModel) moveCursor(delta int) {
	if m.selectedPane >= len(m.views) {
		return
	}
	bars := len(m.views[m.selectedPane].Bars)
	if bars == 0 {
		return
	}
	c := m.cursors[m.selectedPane]
	if c < 0 {
		c = bars - 1
	} else {
		c = min(max(c+delta, 0), bars-1)
	}
	m.cursors[m.selectedPane] = c
}

func (m dashboardModel) paneWidth() int {
	w := m.renderer.dims.Width
	for _, v := range m.views {
		w = max(w, lipgloss.Width(RenderLegend(v)))
	}
	return w
}

func (m dashboardModel) columns() int {
	if m.tabbed {
		return 1
	}
	return GridColumns(m.width, m.paneWidth()+2)
}

func (m dashboardModel) View() string {
	if !m.ready {
		return "Initializing..."
	}

	sections := []string{m.renderHeader()}
	switch {
	case m.views == nil && m.lastErr == nil:
		sections = append(sections, "Graphs are being loaded...")
	case m.views == nil:
		sections = append(sections, "No graphs yet.")
	case m.details:
		sections = append(sections, m.renderDetails())
	default:
		sections = append(sections, m.renderCharts())
	}
	sections = append(sections, m.renderStatus(), m.renderHelp())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m dashboardModel) renderHeader() string {
	if m.header == nil {
		return ""
	}
	label := lipgloss.NewStyle().Bold(true)
	h := m.header
	return fmt.Sprintf("%s %s %s %s %s (%s %s %s %s) %s %s",
		label.Render("Seen"), h.TotalBytes,
		label.Render("bytes, in"), h.TotalPackets, label.Render("packets."),
		h.Captured, label.Render("captured,"), h.Dropped, label.Render("dropped)"),
		label.Render("Measuring for"), h.RunningFor,
	)
}

// pane builds the box for view i
func (m dashboardModel) pane(i int) Pane {
	v := m.views[i]
	chart := Chart{View: v, Cursor: m.cursors[i]}

	parts := []string{chart.Render(), RenderLegend(v)}
	if tip := chart.Tooltip(); tip != "" {
		parts = append(parts, cursorStyle.Render(tip))
	}

	return NewPane(m.paneWidth(), 0).
		SetContent(strings.Join(parts, "\n")).
		SetCaption(v.Series.Title).
		SetFocused(i == m.selectedPane)
}

func (m dashboardModel) renderCharts() string {
	if m.tabbed {
		return m.tabs.Render(m.pane(m.selectedPane))
	}
	panes := make([]Pane, len(m.views))
	for i := range m.views {
		panes[i] = m.pane(i)
	}
	return Wrap(m.columns(), panes...)
}

func (m dashboardModel) renderDetails() string {
	v := m.views[m.selectedPane]
	// header, status and help lines plus the caption
	height := max(m.height-5, 6)
	t := BucketTable(v, height, m.cursors[m.selectedPane])
	caption := lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true).Render(v.Series.Title)
	return lipgloss.JoinVertical(lipgloss.Left, caption, t.String())
}

func (m dashboardModel) renderStatus() string {
	reload := "reload graphs"
	if m.loading {
		reload = "loading..."
	}
	auto := "off"
	if m.sched.Enabled() {
		auto = "on, every " + m.sched.Period().String()
	}
	status := fmt.Sprintf("%s - automatic reload is: %s", reload, auto)
	if !m.lastUpdate.IsZero() {
		status += " - updated " + m.lastUpdate.Format("15:04:05")
	}
	if m.lastErr != nil {
		status += " - " + lipgloss.NewStyle().Foreground(lipgloss.Color("160")).Render("error: "+m.lastErr.Error())
	}
	return status
}

func (m dashboardModel) renderHelp() string {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Background(lipgloss.Color("235")).
		Width(max(m.width, 1)).
		Align(lipgloss.Center).
		Render("r=Reload  a=Auto Reload  hjkl/tab=Select  []=Bucket  d=Details  q=Quit")
}

// Dashboard runs the terminal dashboard until the user quits.
func Dashboard(opts DashboardOptions) error {
	m := NewDashboard(opts)
	p := tea.NewProgram(m, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running dashboard: %w", err)
	}
	return nil
}
