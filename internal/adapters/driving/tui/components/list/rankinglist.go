// Package list provides the ranking table component.
package list

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/leadbench/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/leadbench/internal/core/domain"
)

// RankingList displays ranked models with a movable selection.
type RankingList struct {
	styles   *styles.Styles
	entries  []domain.RankingEntry
	selected int
	width    int
	height   int
}

// NewRankingList creates a new ranking list component.
func NewRankingList(s *styles.Styles) *RankingList {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &RankingList{
		styles: s,
		width:  80,
		height: 20,
	}
}

// SetEntries replaces the ranking. The selection is kept on the same model
// when it is still ranked.
func (l *RankingList) SetEntries(entries []domain.RankingEntry) {
	current := ""
	if e, ok := l.Selected(); ok {
		current = e.Model
	}
	l.entries = entries
	l.selected = 0
	for i, e := range entries {
		if e.Model == current {
			l.selected = i
			break
		}
	}
}

// Entries returns the current ranking.
func (l *RankingList) Entries() []domain.RankingEntry {
	return l.entries
}

// Selected returns the selected entry.
func (l *RankingList) Selected() (domain.RankingEntry, bool) {
	if l.selected < 0 || l.selected >= len(l.entries) {
		return domain.RankingEntry{}, false
	}
	return l.entries[l.selected], true
}

// SelectedIndex returns the selected row.
func (l *RankingList) SelectedIndex() int {
	return l.selected
}

// MoveUp moves the selection up one row.
func (l *RankingList) MoveUp() {
	if l.selected > 0 {
		l.selected--
	}
}

// MoveDown moves the selection down one row.
func (l *RankingList) MoveDown() {
	if l.selected < len(l.entries)-1 {
		l.selected++
	}
}

// SetDimensions sets the available space.
func (l *RankingList) SetDimensions(width, height int) {
	l.width = width
	l.height = height
}

// View renders the ranking table.
func (l *RankingList) View() string {
	if len(l.entries) == 0 {
		return l.styles.Muted.Render("No models ranked.")
	}

	nameWidth := len("Model")
	for _, e := range l.entries {
		nameWidth = max(nameWidth, len(e.Model))
	}

	var b strings.Builder
	b.WriteString(l.styles.Subtitle.Render(
		fmt.Sprintf("  %-3s %-*s %8s %9s %9s %8s", "#", nameWidth, "Model", "Score", "Accuracy", "Contacts", "Matches")))
	b.WriteString("\n")

	start, end := l.window()
	for i := start; i < end; i++ {
		e := l.entries[i]
		accuracy := l.styles.Accuracy(e.Accuracy).Render(fmt.Sprintf("%8.0f%%", e.Accuracy*100))
		row := fmt.Sprintf("%-3d %-*s %8.1f %s %9d %8d",
			i+1, nameWidth, e.Model, e.Score, accuracy, e.TotalContacts, e.BenchmarkMatches)
		if i == l.selected {
			b.WriteString(l.styles.Selected.Render("> " + row))
		} else {
			b.WriteString(l.styles.Normal.Render("  " + row))
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// window returns the visible row range, keeping the selection in view.
func (l *RankingList) window() (int, int) {
	rows := l.height - 1
	if rows < 1 || rows >= len(l.entries) {
		return 0, len(l.entries)
	}
	start := 0
	if l.selected >= rows {
		start = l.selected - rows + 1
	}
	return start, start + rows
}
