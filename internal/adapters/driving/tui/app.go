package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/leadbench/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/leadbench/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/leadbench/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/leadbench/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/leadbench/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/leadbench/internal/adapters/driving/tui/views/model"
	"github.com/custodia-labs/leadbench/internal/core/domain"
)

// watchStarted carries the transcript change stream once watching begins.
type watchStarted struct {
	changes <-chan domain.TranscriptChange
}

// App is the dashboard following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports *Ports
	ctx   context.Context

	styles  *styles.Styles
	keymap  *keymap.KeyMap
	ranking *list.RankingList
	detail  *model.View
	status  *status.Bar
	spinner spinner.Model
	help    help.Model

	currentView messages.ViewType
	report      *domain.AnalysisReport

	// analysing is set while an analysis command is in flight. rerun
	// records changes that arrived meanwhile so they cost one more run.
	analysing bool
	rerun     bool
	ticking   bool

	changes  <-chan domain.TranscriptChange
	watching bool

	err error

	width  int
	height int
	ready  bool
}

var _ tea.Model = (*App)(nil)

// NewApp creates a dashboard over the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = s.Title

	return &App{
		ports:       ports,
		ctx:         context.Background(),
		styles:      s,
		keymap:      km,
		ranking:     list.NewRankingList(s),
		detail:      model.NewView(s),
		status:      status.NewBar(s, km),
		spinner:     sp,
		help:        help.New(),
		currentView: messages.ViewRankings,
	}, nil
}

// WithContext sets the context used for analysis and watching.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init starts the first analysis and the transcript watcher.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("leadbench"),
		a.startAnalysis(),
		a.watchCmd(),
	)
}

// startAnalysis marks an analysis as running and returns the commands for it.
func (a *App) startAnalysis() tea.Cmd {
	a.analysing = true
	a.status.SetState(status.StateAnalysing)

	cmds := []tea.Cmd{a.analysisCmd()}
	if !a.ticking {
		a.ticking = true
		cmds = append(cmds, a.spinner.Tick)
	}
	return tea.Batch(cmds...)
}

func (a *App) analysisCmd() tea.Cmd {
	ctx, svc, opts := a.ctx, a.ports.Analysis, a.ports.Options
	return func() tea.Msg {
		report, err := svc.Analyze(ctx, opts)
		return messages.AnalysisCompleted{Report: report, Err: err}
	}
}

func (a *App) watchCmd() tea.Cmd {
	if a.ports.Watcher == nil {
		return nil
	}
	ctx, w := a.ctx, a.ports.Watcher
	return func() tea.Msg {
		changes, err := w.Watch(ctx)
		if err != nil {
			return messages.ErrorOccurred{Err: fmt.Errorf("watching transcripts: %w", err)}
		}
		return watchStarted{changes: changes}
	}
}

// waitForChange delivers the next transcript change.
func waitForChange(changes <-chan domain.TranscriptChange) tea.Cmd {
	return func() tea.Msg {
		change, ok := <-changes
		if !ok {
			return messages.WatchStopped{}
		}
		return messages.TranscriptChanged{Change: change}
	}
}

// Update handles messages and updates the model state.
//
//nolint:gocognit,gocyclo // central message handler
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case spinner.TickMsg:
		if !a.analysing {
			a.ticking = false
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case messages.AnalysisRequested:
		if a.analysing {
			a.rerun = true
			return a, nil
		}
		return a, a.startAnalysis()

	case messages.AnalysisCompleted:
		a.analysing = false
		a.applyReport(msg)
		if a.rerun {
			a.rerun = false
			return a, a.startAnalysis()
		}
		return a, nil

	case watchStarted:
		a.changes = msg.changes
		a.watching = true
		a.status.SetWatching(true)
		return a, waitForChange(a.changes)

	case messages.TranscriptChanged:
		next := waitForChange(a.changes)
		if a.analysing {
			a.rerun = true
			return a, next
		}
		return a, tea.Batch(a.startAnalysis(), next)

	case messages.WatchStopped:
		a.watching = false
		a.status.SetWatching(false)
		return a, nil

	case messages.ErrorOccurred:
		a.err = msg.Err
		a.status.SetState(status.StateError)
		a.status.SetMessage(msg.Err.Error())
		return a, nil

	case messages.ViewChanged:
		a.setView(msg.View)
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	if a.currentView == messages.ViewModel {
		var cmd tea.Cmd
		a.detail, cmd = a.detail.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keymap.Quit):
		return a, tea.Quit

	case key.Matches(msg, a.keymap.Help):
		if a.currentView == messages.ViewHelp {
			a.setView(messages.ViewRankings)
		} else {
			a.setView(messages.ViewHelp)
		}
		return a, nil

	case key.Matches(msg, a.keymap.Back):
		a.setView(messages.ViewRankings)
		return a, nil

	case key.Matches(msg, a.keymap.Refresh):
		return a.Update(messages.AnalysisRequested{})
	}

	switch a.currentView {
	case messages.ViewRankings:
		switch {
		case key.Matches(msg, a.keymap.Up):
			a.ranking.MoveUp()
		case key.Matches(msg, a.keymap.Down):
			a.ranking.MoveDown()
		case key.Matches(msg, a.keymap.Select):
			if a.showSelected() {
				a.setView(messages.ViewModel)
			}
		}
		return a, nil

	case messages.ViewModel:
		var cmd tea.Cmd
		a.detail, cmd = a.detail.Update(msg)
		return a, cmd
	}
	return a, nil
}

// applyReport updates the views from a finished analysis.
func (a *App) applyReport(msg messages.AnalysisCompleted) {
	if msg.Err != nil {
		a.err = msg.Err
		a.status.SetState(status.StateError)
		a.status.SetMessage(msg.Err.Error())
		return
	}

	a.err = nil
	a.report = msg.Report
	a.ranking.SetEntries(msg.Report.Rankings)
	a.status.SetCounts(len(msg.Report.Rankings), len(msg.Report.Failures))
	a.status.SetMessage("")
	a.status.SetState(status.StateReady)
	a.setView(a.currentView)

	if a.currentView == messages.ViewModel && !a.showModel(a.detail.Model()) {
		a.setView(messages.ViewRankings)
	}
}

// showSelected loads the selected ranking entry into the detail view.
func (a *App) showSelected() bool {
	e, ok := a.ranking.Selected()
	if !ok {
		return false
	}
	return a.showModel(e.Model)
}

func (a *App) showModel(modelID string) bool {
	if a.report == nil {
		return false
	}
	result, ok := a.report.Results[modelID]
	if !ok {
		return false
	}
	for _, e := range a.report.Rankings {
		if e.Model == modelID {
			a.detail.SetResult(e, result)
			return true
		}
	}
	return false
}

func (a *App) setView(v messages.ViewType) {
	a.currentView = v
	if a.status.State() == status.StateError || a.analysing {
		return
	}
	switch v {
	case messages.ViewModel:
		a.status.SetState(status.StateDetail)
	case messages.ViewHelp:
		a.status.SetState(status.StateHelp)
	default:
		a.status.SetState(status.StateReady)
	}
}

// View renders the dashboard.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	var body string
	switch a.currentView {
	case messages.ViewModel:
		body = a.detail.View()
	case messages.ViewHelp:
		body = a.help.FullHelpView(a.keymap.FullHelp())
	default:
		body = a.ranking.View()
	}

	bodyHeight := max(a.height-3, 1)
	body = lipgloss.NewStyle().Height(bodyHeight).MaxHeight(bodyHeight).Render(body)

	return strings.Join([]string{a.header(), body, a.status.View()}, "\n")
}

func (a *App) header() string {
	title := a.styles.Title.Render("leadbench")
	switch {
	case a.analysing:
		return title + " " + a.spinner.View()
	case a.report != nil:
		return title + " " + a.styles.Muted.Render(fmt.Sprintf("run %s at %s",
			shortID(a.report.RunID), a.report.StartedAt.Format("15:04:05")))
	}
	return title
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// Run starts the dashboard and blocks until it exits or the context ends.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}

// CurrentView returns the active view.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Report returns the last successful analysis report.
func (a *App) Report() *domain.AnalysisReport {
	return a.report
}

// Ranking returns the ranking component.
func (a *App) Ranking() *list.RankingList {
	return a.ranking
}

// Analysing reports whether an analysis is in flight.
func (a *App) Analysing() bool {
	return a.analysing
}

// Watching reports whether transcript changes are being received.
func (a *App) Watching() bool {
	return a.watching
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the terminal size is known.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.ranking.SetDimensions(width, max(height-3, 1))
	a.detail.SetDimensions(width, max(height-1, 1))
	a.status.SetWidth(width)
	a.help.Width = width
}
