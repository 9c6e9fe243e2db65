package tui

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/leadbench/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/leadbench/internal/core/domain"
)

type mockAnalysis struct {
	mu     sync.Mutex
	report *domain.AnalysisReport
	err    error
	calls  int
}

func (m *mockAnalysis) Analyze(context.Context, domain.AnalysisOptions) (*domain.AnalysisReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	return m.report, m.err
}

func (m *mockAnalysis) ExtractTranscript(context.Context, string, string) (*domain.ExtractionOutput, error) {
	return nil, nil
}

func (m *mockAnalysis) ExtractStructured(context.Context) (map[string]*domain.LeadResults, error) {
	return nil, nil
}

func (m *mockAnalysis) Score(context.Context, string, []domain.Contact) (*domain.MatchResult, float64, error) {
	return nil, 0, nil
}

func (m *mockAnalysis) LatestRun(context.Context) (*domain.AnalysisReport, error) {
	return m.report, nil
}

func (m *mockAnalysis) ListRuns(context.Context, int) ([]domain.RunSummary, error) {
	return nil, nil
}

type mockWatcher struct {
	changes chan domain.TranscriptChange
	err     error
}

func (w *mockWatcher) Watch(context.Context) (<-chan domain.TranscriptChange, error) {
	return w.changes, w.err
}

func sampleReport() *domain.AnalysisReport {
	return &domain.AnalysisReport{
		RunID:     "0f8c2d4e-1111-2222-3333-444455556666",
		StartedAt: time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC),
		Order:     []string{"claude_sonnet_4", "gpt_4_1"},
		Results: map[string]domain.MatchResult{
			"claude_sonnet_4": {
				ContactsFound:    2,
				Contacts:         []domain.Contact{{Name: "Travis Hopkins", Title: "Director"}, {Name: "Joe Parker", Title: "Superintendent"}},
				BenchmarkMatches: []string{"Travis Hopkins", "Joe Parker"},
				Accuracy:         2.0 / 6,
			},
			"gpt_4_1": {BenchmarkMissed: []string{"Joe Parker"}},
		},
		Rankings: []domain.RankingEntry{
			{Model: "claude_sonnet_4", Score: 43.3, Accuracy: 2.0 / 6, TotalContacts: 2, BenchmarkMatches: 2},
			{Model: "gpt_4_1", Score: 0},
		},
		Failures: map[string]string{"qwen3": "read failed"},
	}
}

func newTestApp(t *testing.T, analysis *mockAnalysis) *App {
	t.Helper()
	app, err := NewApp(&Ports{Analysis: analysis})
	require.NoError(t, err)
	app.SetDimensions(120, 30)
	return app
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewApp_RequiresAnalysis(t *testing.T) {
	_, err := NewApp(&Ports{})
	assert.ErrorIs(t, err, ErrMissingAnalysisService)
}

func TestApp_ViewBeforeReady(t *testing.T) {
	app, err := NewApp(&Ports{Analysis: &mockAnalysis{}})
	require.NoError(t, err)
	assert.False(t, app.Ready())
	assert.Equal(t, "Initialising...", app.View())
}

func TestApp_InitStartsAnalysis(t *testing.T) {
	app := newTestApp(t, &mockAnalysis{})

	cmd := app.Init()
	assert.NotNil(t, cmd)
	assert.True(t, app.Analysing())
	assert.Contains(t, app.View(), "Analysing...")
}

func TestApp_AnalysisCmd(t *testing.T) {
	analysis := &mockAnalysis{report: sampleReport()}
	app := newTestApp(t, analysis)

	msg := app.analysisCmd()()
	done, ok := msg.(messages.AnalysisCompleted)
	require.True(t, ok)
	assert.NoError(t, done.Err)
	assert.Equal(t, "0f8c2d4e-1111-2222-3333-444455556666", done.Report.RunID)
	assert.Equal(t, 1, analysis.calls)
}

func TestApp_AnalysisCompleted(t *testing.T) {
	app := newTestApp(t, &mockAnalysis{})
	app.Init()

	app.Update(messages.AnalysisCompleted{Report: sampleReport()})

	assert.False(t, app.Analysing())
	assert.Len(t, app.Ranking().Entries(), 2)
	view := app.View()
	assert.Contains(t, view, "claude_sonnet_4")
	assert.Contains(t, view, "run 0f8c2d4e at 09:30:00")
	assert.Contains(t, view, "2 models ranked")
	assert.Contains(t, view, "1 failed")
}

func TestApp_AnalysisError(t *testing.T) {
	app := newTestApp(t, &mockAnalysis{})
	app.Init()

	app.Update(messages.AnalysisCompleted{Err: errors.New("no transcripts")})

	assert.EqualError(t, app.Err(), "no transcripts")
	assert.Contains(t, app.View(), "Error: no transcripts")

	app.Update(messages.AnalysisRequested{})
	app.Update(messages.AnalysisCompleted{Report: sampleReport()})
	assert.NoError(t, app.Err())
	assert.Contains(t, app.View(), "2 models ranked")
}

func TestApp_ChangesDuringAnalysisCoalesce(t *testing.T) {
	app := newTestApp(t, &mockAnalysis{})
	changes := make(chan domain.TranscriptChange, 1)
	app.Update(watchStarted{changes: changes})
	app.Init()

	change := domain.TranscriptChange{ModelID: "gpt_4_1", Type: domain.TranscriptWritten}
	_, cmd := app.Update(messages.TranscriptChanged{Change: change})
	assert.NotNil(t, cmd, "keeps listening")
	app.Update(messages.TranscriptChanged{Change: change})

	_, cmd = app.Update(messages.AnalysisCompleted{Report: sampleReport()})
	assert.NotNil(t, cmd)
	assert.True(t, app.Analysing(), "one follow-up run")

	_, cmd = app.Update(messages.AnalysisCompleted{Report: sampleReport()})
	assert.Nil(t, cmd)
	assert.False(t, app.Analysing())
}

func TestApp_ChangeWhenIdleStartsAnalysis(t *testing.T) {
	app := newTestApp(t, &mockAnalysis{})
	app.Update(watchStarted{changes: make(chan domain.TranscriptChange)})

	app.Update(messages.TranscriptChanged{Change: domain.TranscriptChange{ModelID: "kimi_k2"}})
	assert.True(t, app.Analysing())
}

func TestApp_Watch(t *testing.T) {
	changes := make(chan domain.TranscriptChange, 1)
	app, err := NewApp(&Ports{Analysis: &mockAnalysis{}, Watcher: &mockWatcher{changes: changes}})
	require.NoError(t, err)
	app.SetDimensions(120, 30)

	msg := app.watchCmd()()
	started, ok := msg.(watchStarted)
	require.True(t, ok)

	_, wait := app.Update(started)
	require.NotNil(t, wait)
	assert.True(t, app.Watching())
	assert.Contains(t, app.View(), "watching")

	changes <- domain.TranscriptChange{ModelID: "qwen3", Type: domain.TranscriptRemoved}
	got, ok := wait().(messages.TranscriptChanged)
	require.True(t, ok)
	assert.Equal(t, "qwen3", got.Change.ModelID)

	close(changes)
	stopped := wait()
	assert.IsType(t, messages.WatchStopped{}, stopped)
	app.Update(stopped)
	assert.False(t, app.Watching())
}

func TestApp_WatchError(t *testing.T) {
	app, err := NewApp(&Ports{Analysis: &mockAnalysis{}, Watcher: &mockWatcher{err: errors.New("no inotify")}})
	require.NoError(t, err)
	app.SetDimensions(120, 30)

	msg := app.watchCmd()()
	app.Update(msg)
	assert.ErrorContains(t, app.Err(), "no inotify")
}

func TestApp_NoWatcher(t *testing.T) {
	app := newTestApp(t, &mockAnalysis{})
	assert.Nil(t, app.watchCmd())
}

func TestApp_Navigation(t *testing.T) {
	app := newTestApp(t, &mockAnalysis{})
	app.Update(messages.AnalysisCompleted{Report: sampleReport()})

	app.Update(keyMsg("enter"))
	assert.Equal(t, messages.ViewModel, app.CurrentView())
	assert.Contains(t, app.View(), "CLAUDE_SONNET_4")
	assert.Contains(t, app.View(), "esc: back")

	app.Update(keyMsg("esc"))
	assert.Equal(t, messages.ViewRankings, app.CurrentView())

	app.Update(keyMsg("j"))
	assert.Equal(t, 1, app.Ranking().SelectedIndex())
	app.Update(keyMsg("k"))
	assert.Equal(t, 0, app.Ranking().SelectedIndex())

	app.Update(keyMsg("?"))
	assert.Equal(t, messages.ViewHelp, app.CurrentView())
	assert.Contains(t, app.View(), "re-run")
	app.Update(keyMsg("?"))
	assert.Equal(t, messages.ViewRankings, app.CurrentView())
}

func TestApp_SelectWithoutReport(t *testing.T) {
	app := newTestApp(t, &mockAnalysis{})
	app.Update(keyMsg("enter"))
	assert.Equal(t, messages.ViewRankings, app.CurrentView())
}

func TestApp_DetailDroppedWhenModelDisappears(t *testing.T) {
	app := newTestApp(t, &mockAnalysis{})
	app.Update(messages.AnalysisCompleted{Report: sampleReport()})
	app.Update(keyMsg("enter"))
	require.Equal(t, messages.ViewModel, app.CurrentView())

	report := sampleReport()
	delete(report.Results, "claude_sonnet_4")
	report.Rankings = report.Rankings[1:]
	app.Update(messages.AnalysisCompleted{Report: report})

	assert.Equal(t, messages.ViewRankings, app.CurrentView())
}

func TestApp_Refresh(t *testing.T) {
	app := newTestApp(t, &mockAnalysis{})

	_, cmd := app.Update(keyMsg("r"))
	assert.NotNil(t, cmd)
	assert.True(t, app.Analysing())

	_, cmd = app.Update(keyMsg("r"))
	assert.Nil(t, cmd, "coalesced into the running analysis")
}

func TestApp_Quit(t *testing.T) {
	app := newTestApp(t, &mockAnalysis{})

	_, cmd := app.Update(keyMsg("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestApp_WindowSize(t *testing.T) {
	app, err := NewApp(&Ports{Analysis: &mockAnalysis{}})
	require.NoError(t, err)

	app.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	assert.True(t, app.Ready())
	assert.NotEqual(t, "Initialising...", app.View())
}

func TestApp_ViewChanged(t *testing.T) {
	app := newTestApp(t, &mockAnalysis{})
	app.Update(messages.ViewChanged{View: messages.ViewHelp})
	assert.Equal(t, messages.ViewHelp, app.CurrentView())
}
