// Package tui provides the interactive Bubble Tea dashboard for proplife.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/theirongolddev/proplife/internal/cli"
	"github.com/theirongolddev/proplife/internal/config"
	"github.com/theirongolddev/proplife/internal/finance"
	"github.com/theirongolddev/proplife/internal/lifecycle"
	"github.com/theirongolddev/proplife/internal/model"
	"github.com/theirongolddev/proplife/internal/portfolio"
	"github.com/theirongolddev/proplife/internal/tui/components"
	"github.com/theirongolddev/proplife/internal/tui/theme"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// Source is the data the dashboard reads. *store.Store satisfies it.
type Source interface {
	portfolio.Reader
	Ledger(ctx context.Context, propertyID string) (finance.Ledger, error)
}

// Options configures a new App.
type Options struct {
	Filter    portfolio.Filter
	Currency  string
	NeedSetup bool
}

// DataLoadedMsg is sent when the portfolio finishes loading.
type DataLoadedMsg struct {
	Result   *portfolio.LoadResult
	Err      error
	LoadTime time.Duration
}

// ProgressMsg reports evaluation progress while loading.
type ProgressMsg struct {
	Current int
	Total   int
}

// RefreshDataMsg is sent when a background reload completes.
type RefreshDataMsg struct {
	Result   *portfolio.LoadResult
	Err      error
	LoadTime time.Duration
}

// LedgerMsg carries the finance summaries of one property.
type LedgerMsg struct {
	PropertyID string
	Summaries  []model.FinanceSummary
	Err        error
}

const (
	tabOverview = iota
	tabProperties
	tabFinance
)

const (
	minTerminalWidth = 60
	maxContentWidth  = 180
	compactWidth     = 100
	minContentHeight = 5
)

var statusCycle = []string{
	portfolio.All,
	string(model.FilterActive),
	string(model.FilterPending),
	string(model.FilterCompleted),
	string(model.FilterInactive),
}

// App is the root Bubble Tea model.
type App struct {
	src      Source
	engine   *lifecycle.Engine
	currency string

	// Data
	snapshots []model.Snapshot
	visible   []model.Snapshot
	counts    map[model.WorkflowType]int
	loaded    bool
	loadErr   error
	loadTime  time.Duration
	withStage int

	// Filters
	filter      portfolio.Filter
	searching   bool
	searchInput textinput.Model

	// Finance summaries keyed by property ID
	ledgers   map[string][]model.FinanceSummary
	ledgerErr map[string]error
	fetching  string

	// UI
	width      int
	height     int
	activeTab  int
	cursor     int
	showHelp   bool
	refreshing bool

	// Loading
	spinner     spinner.Model
	progress    int
	progressMax int
	loadSub     chan tea.Msg

	// First-run setup
	needSetup bool
	setupForm *huh.Form
	setupVals *setupValues
}

// NewApp creates a new TUI app model.
func NewApp(src Source, engine *lifecycle.Engine, opts Options) App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent)

	currency := opts.Currency
	if currency == "" {
		currency = config.DefaultConfig().General.Currency
	}

	return App{
		src:         src,
		engine:      engine,
		currency:    currency,
		filter:      opts.Filter,
		needSetup:   opts.NeedSetup,
		activeTab:   tabProperties,
		ledgers:     make(map[string][]model.FinanceSummary),
		ledgerErr:   make(map[string]error),
		searchInput: newSearchInput(),
		spinner:     sp,
		loadSub:     make(chan tea.Msg, 1),
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnableMouseCellMotion,
		loadDataCmd(a.src, a.engine, a.loadSub),
		a.spinner.Tick,
	)
}

// recompute re-applies the filter to the loaded snapshots. Workflow
// counts ignore the workflow filter so every pill stays meaningful.
func (a *App) recompute() {
	a.visible = portfolio.Apply(a.snapshots, a.filter)
	a.counts = portfolio.CountSnapshots(portfolio.Apply(a.snapshots, a.filter.WithoutPipeline()))

	if a.cursor >= len(a.visible) {
		a.cursor = len(a.visible) - 1
	}
	if a.cursor < 0 {
		a.cursor = 0
	}
}

// selected returns the snapshot under the cursor.
func (a App) selected() (model.Snapshot, bool) {
	if a.cursor < 0 || a.cursor >= len(a.visible) {
		return model.Snapshot{}, false
	}
	return a.visible[a.cursor], true
}

// ensureLedger returns a command that fetches the selected property's
// finances unless they are cached or already in flight.
func (a *App) ensureLedger() tea.Cmd {
	snap, ok := a.selected()
	if !ok || a.src == nil {
		return nil
	}
	id := snap.Property.ID
	if _, ok := a.ledgers[id]; ok {
		return nil
	}
	if a.fetching == id {
		return nil
	}
	a.fetching = id
	return fetchLedgerCmd(a.src, a.engine, id)
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.setupForm != nil {
			a.setupForm = a.setupForm.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		return a, nil

	case tea.MouseMsg:
		if !a.loaded || a.showHelp || a.setupForm != nil {
			return a, nil
		}
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			return a.moveCursor(-1)
		case tea.MouseButtonWheelDown:
			return a.moveCursor(1)
		case tea.MouseButtonLeft:
			if msg.Action == tea.MouseActionPress && msg.Y == 0 {
				if tab := a.tabAtX(msg.X); tab >= 0 {
					a.activeTab = tab
					return a.withTabCmd()
				}
			}
		}
		return a, nil

	case tea.KeyMsg:
		return a.updateKey(msg)

	case DataLoadedMsg:
		a.loaded = true
		a.loadTime = msg.LoadTime
		a.applyResult(msg.Result, msg.Err)

		if a.needSetup {
			a.setupForm, a.setupVals = newSetupForm(len(a.snapshots))
			if a.width > 0 {
				a.setupForm = a.setupForm.WithWidth(a.width).WithHeight(a.height)
			}
			return a, a.setupForm.Init()
		}
		return a.withTabCmd()

	case ProgressMsg:
		a.progress = msg.Current
		a.progressMax = msg.Total
		return a, waitForLoadMsg(a.loadSub)

	case RefreshDataMsg:
		a.refreshing = false
		a.loadTime = msg.LoadTime
		a.applyResult(msg.Result, msg.Err)
		// Stage changes can come with new ledger rows, so drop the cache.
		a.ledgers = make(map[string][]model.FinanceSummary)
		a.ledgerErr = make(map[string]error)
		return a.withTabCmd()

	case LedgerMsg:
		if a.fetching == msg.PropertyID {
			a.fetching = ""
		}
		if msg.Err != nil {
			a.ledgerErr[msg.PropertyID] = msg.Err
			return a, nil
		}
		delete(a.ledgerErr, msg.PropertyID)
		a.ledgers[msg.PropertyID] = msg.Summaries
		return a, nil

	case spinner.TickMsg:
		if !a.loaded || a.refreshing {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	// Forward unhandled messages to the setup form (cursor blinks, etc.)
	if a.setupForm != nil {
		return a.updateSetupForm(msg)
	}
	return a, nil
}

func (a *App) applyResult(res *portfolio.LoadResult, err error) {
	a.loadErr = err
	if err != nil || res == nil {
		return
	}
	a.snapshots = res.Snapshots
	a.withStage = res.WithStages
	a.recompute()
}

func (a App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		return a, tea.Quit
	}
	if !a.loaded {
		return a, nil
	}
	if a.setupForm != nil {
		return a.updateSetupForm(msg)
	}
	if a.searching {
		return a.updateSearch(msg)
	}

	if key == "?" {
		a.showHelp = !a.showHelp
		return a, nil
	}
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	switch key {
	case "q":
		return a, tea.Quit
	case "/":
		a.searching = true
		a.searchInput.SetValue(a.filter.Search)
		a.searchInput.Focus()
		return a, a.searchInput.Cursor.BlinkCmd()
	case "esc":
		if a.filter.Search != "" {
			a.filter.Search = ""
			a.cursor = 0
			a.recompute()
			return a.withTabCmd()
		}
		return a, nil
	case "w":
		a.filter.Pipeline = nextPipeline(a.filter.Pipeline)
		a.cursor = 0
		a.recompute()
		return a.withTabCmd()
	case "s":
		a.filter.Status = nextStatus(a.filter.Status)
		a.cursor = 0
		a.recompute()
		return a.withTabCmd()
	case "r":
		if a.refreshing || a.src == nil {
			return a, nil
		}
		a.refreshing = true
		return a, tea.Batch(refreshDataCmd(a.src, a.engine), a.spinner.Tick)
	case "j", "down":
		return a.moveCursor(1)
	case "k", "up":
		return a.moveCursor(-1)
	case "g":
		return a.moveCursor(-len(a.visible))
	case "G":
		return a.moveCursor(len(a.visible))
	case "left":
		a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
		return a.withTabCmd()
	case "right", "tab":
		a.activeTab = (a.activeTab + 1) % len(components.Tabs)
		return a.withTabCmd()
	}

	if len(key) == 1 {
		if idx := components.TabIdxByKey(rune(key[0])); idx >= 0 {
			a.activeTab = idx
			return a.withTabCmd()
		}
	}
	return a, nil
}

func (a App) moveCursor(delta int) (tea.Model, tea.Cmd) {
	if a.activeTab == tabOverview || len(a.visible) == 0 {
		return a, nil
	}
	a.cursor += delta
	if a.cursor >= len(a.visible) {
		a.cursor = len(a.visible) - 1
	}
	if a.cursor < 0 {
		a.cursor = 0
	}
	return a.withTabCmd()
}

// withTabCmd runs tabCmd on a and returns the updated model with it.
func (a App) withTabCmd() (tea.Model, tea.Cmd) {
	cmd := a.tabCmd()
	return a, cmd
}

// tabCmd fetches whatever the active tab needs for the current selection.
func (a *App) tabCmd() tea.Cmd {
	if a.activeTab == tabOverview {
		return nil
	}
	return a.ensureLedger()
}

// updateSearch handles key events while the search input is focused.
func (a App) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		a.filter.Search = strings.TrimSpace(a.searchInput.Value())
		a.searching = false
		a.searchInput.Blur()
		a.cursor = 0
		a.recompute()
		return a.withTabCmd()
	case "esc":
		a.searching = false
		a.searchInput.Blur()
		return a, nil
	}

	var cmd tea.Cmd
	a.searchInput, cmd = a.searchInput.Update(msg)
	return a, cmd
}

func (a App) contentWidth() int {
	cw := a.width
	if cw > maxContentWidth {
		cw = maxContentWidth
	}
	return cw
}

func (a App) isCompactLayout() bool {
	return a.contentWidth() < compactWidth
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}
	if !a.loaded {
		return a.viewLoading()
	}
	if a.setupForm != nil {
		return a.setupForm.View()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := a.height
	if h < 5 {
		h = 5
	}
	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  proplife needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)
	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewLoading() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(2, 4)
	logoStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	subtitleStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	spinnerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface)
	countStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)

	var b strings.Builder
	b.WriteString(logoStyle.Render("◈ proplife"))
	b.WriteString(subtitleStyle.Render(" · Property Lifecycle"))
	b.WriteString("\n\n")

	if a.progressMax > 0 {
		barW := 40
		if barW > a.width-30 {
			barW = a.width - 30
		}
		if barW < 20 {
			barW = 20
		}
		pct := float64(a.progress) / float64(a.progressMax)
		b.WriteString(spinnerStyle.Render(a.spinner.View()))
		b.WriteString(subtitleStyle.Render(" Evaluating pipelines\n\n"))
		b.WriteString(components.LoadBar(pct, barW))
		b.WriteString("\n")
		b.WriteString(countStyle.Render(cli.FormatNumber(int64(a.progress))))
		b.WriteString(subtitleStyle.Render(" / "))
		b.WriteString(countStyle.Render(cli.FormatNumber(int64(a.progressMax))))
	} else {
		b.WriteString(spinnerStyle.Render(a.spinner.View()))
		b.WriteString(subtitleStyle.Render(" Reading properties..."))
	}

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)
	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Cyan).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	bindings := []struct{ key, desc string }{
		{"o p f", "Jump to tab"},
		{"← →", "Previous / next tab"},
		{"j k", "Move selection"},
		{"g G", "First / last property"},
		{"w", "Cycle workflow filter"},
		{"s", "Cycle status filter"},
		{"/", "Search name, address, type, notes"},
		{"esc", "Clear search"},
		{"r", "Reload from database"},
		{"q", "Quit"},
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n\n")
	for _, kb := range bindings {
		b.WriteString(keyStyle.Render(fmt.Sprintf("%-8s", kb.key)))
		b.WriteString(descStyle.Render(kb.desc))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	header := components.RenderTabBar(a.activeTab, w) + "\n" +
		components.RenderWorkflowPills(a.workflowPills(), w)
	if a.searching {
		header += "\n" + lipgloss.NewStyle().Background(t.Surface).Width(w).Render(" "+a.searchInput.View())
	}

	info := fmt.Sprintf("%d/%d properties · %.0fms", len(a.visible), len(a.snapshots), float64(a.loadTime.Microseconds())/1000)
	if a.refreshing {
		info = a.spinner.View() + " reloading"
	}
	statusBar := components.RenderStatusBar(w, a.filterDesc(), info)

	contentH := h - lipgloss.Height(header) - lipgloss.Height(statusBar)
	if contentH < minContentHeight {
		contentH = minContentHeight
	}

	var content string
	switch {
	case a.loadErr != nil:
		content = lipgloss.NewStyle().Foreground(t.Red).Render("  Failed to load portfolio: " + a.loadErr.Error())
	case a.activeTab == tabOverview:
		content = a.renderOverviewTab(cw)
	case a.activeTab == tabProperties:
		content = a.renderPropertiesTab(cw, contentH)
	case a.activeTab == tabFinance:
		content = a.renderFinanceTab(cw, contentH)
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) workflowPills() []components.WorkflowPill {
	total := 0
	for _, n := range a.counts {
		total += n
	}
	pills := []components.WorkflowPill{{
		Label:  "All",
		Count:  total,
		Active: a.filter.Pipeline == "" || a.filter.Pipeline == portfolio.All,
	}}
	for _, wt := range model.WorkflowTypes {
		pills = append(pills, components.WorkflowPill{
			Label:  cli.FormatWorkflow(wt),
			Count:  a.counts[wt],
			Active: a.filter.Pipeline == string(wt),
		})
	}
	return pills
}

func (a App) filterDesc() string {
	var parts []string
	if a.filter.Status != "" && a.filter.Status != portfolio.All {
		parts = append(parts, "status:"+a.filter.Status)
	}
	if len(a.filter.Types) > 0 {
		parts = append(parts, "type:"+strings.Join(a.filter.Types, ","))
	}
	if a.filter.Search != "" {
		parts = append(parts, fmt.Sprintf("%q", a.filter.Search))
	}
	return strings.Join(parts, " ")
}

// ─── Loading ────────────────────────────────────────────────────

// loadDataCmd evaluates the portfolio in a background goroutine. It streams
// ProgressMsg updates and a final DataLoadedMsg through sub.
func loadDataCmd(src Source, engine *lifecycle.Engine, sub chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		go func() {
			start := time.Now()

			// Non-blocking send so workers aren't stalled; the next update catches up.
			progressFn := func(current, total int) {
				select {
				case sub <- ProgressMsg{Current: current, Total: total}:
				default:
				}
			}

			res, err := portfolio.Load(context.Background(), src, engine, progressFn)
			sub <- DataLoadedMsg{Result: res, Err: err, LoadTime: time.Since(start)}
		}()

		// Block until the first message (either ProgressMsg or DataLoadedMsg)
		return <-sub
	}
}

// waitForLoadMsg blocks until the next message arrives from the loader goroutine.
func waitForLoadMsg(sub chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-sub
	}
}

// refreshDataCmd reloads the portfolio without progress reporting.
func refreshDataCmd(src Source, engine *lifecycle.Engine) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		res, err := portfolio.Load(context.Background(), src, engine, nil)
		return RefreshDataMsg{Result: res, Err: err, LoadTime: time.Since(start)}
	}
}

func fetchLedgerCmd(src Source, engine *lifecycle.Engine, propertyID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		l, err := src.Ledger(ctx, propertyID)
		if err != nil {
			return LedgerMsg{PropertyID: propertyID, Err: err}
		}
		return LedgerMsg{PropertyID: propertyID, Summaries: finance.SummarizeLedger(engine.Catalog(), l)}
	}
}

// ─── Helpers ────────────────────────────────────────────────────

func newSearchInput() textinput.Model {
	ti := textinput.New()
	ti.Prompt = "/ "
	ti.Placeholder = "name, address, type or notes"
	ti.CharLimit = 80
	ti.Width = 40
	return ti
}

func nextPipeline(current string) string {
	if current == "" || current == portfolio.All {
		return string(model.WorkflowTypes[0])
	}
	for i, wt := range model.WorkflowTypes {
		if string(wt) == current {
			if i+1 < len(model.WorkflowTypes) {
				return string(model.WorkflowTypes[i+1])
			}
			return portfolio.All
		}
	}
	return portfolio.All
}

func nextStatus(current string) string {
	if current == "" {
		current = portfolio.All
	}
	for i, s := range statusCycle {
		if s == current {
			return statusCycle[(i+1)%len(statusCycle)]
		}
	}
	return portfolio.All
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with the background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")
	var result strings.Builder
	for i, line := range lines {
		result.WriteString(lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg)))
		if i < len(lines)-1 {
			result.WriteString("\n")
		}
	}
	return result.String()
}

// ─── Mouse Support ──────────────────────────────────────────────

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes follow the widths RenderTabBar draws.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == a.activeTab)
		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW
		if i < len(components.Tabs)-1 {
			pos++ // separator
		}
	}
	return -1
}
