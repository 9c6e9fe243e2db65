// Package model renders one model's benchmark result.
package model

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/leadbench/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/leadbench/internal/core/domain"
)

// View shows the contacts and benchmark matches of a model.
type View struct {
	styles   *styles.Styles
	viewport viewport.Model
	entry    domain.RankingEntry
	result   domain.MatchResult
	loaded   bool
	width    int
	height   int
}

// NewView creates a new model detail view.
func NewView(s *styles.Styles) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:   s,
		viewport: viewport.New(80, 20),
		width:    80,
		height:   20,
	}
}

// SetResult sets the model to display.
func (v *View) SetResult(entry domain.RankingEntry, result domain.MatchResult) {
	v.entry = entry
	v.result = result
	v.loaded = true
	v.viewport.SetContent(v.render())
	v.viewport.GotoTop()
}

// Model returns the displayed model id.
func (v *View) Model() string {
	return v.entry.Model
}

// SetDimensions sets the available space.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.viewport.Width = width
	v.viewport.Height = max(height-2, 1)
	if v.loaded {
		v.viewport.SetContent(v.render())
	}
}

// Update scrolls the viewport.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	var cmd tea.Cmd
	v.viewport, cmd = v.viewport.Update(msg)
	return v, cmd
}

// View renders the detail view.
func (v *View) View() string {
	if !v.loaded {
		return v.styles.Muted.Render("No model selected.")
	}
	return v.viewport.View()
}

func (v *View) render() string {
	var b strings.Builder
	r := v.result

	b.WriteString(v.styles.Title.Render(strings.ToUpper(v.entry.Model)))
	b.WriteString("\n")
	fmt.Fprintf(&b, "Score %.1f  ", v.entry.Score)
	b.WriteString(v.styles.Accuracy(r.Accuracy).Render(fmt.Sprintf("accuracy %.0f%%", r.Accuracy*100)))
	b.WriteString("\n\n")

	b.WriteString(v.styles.Subtitle.Render(fmt.Sprintf("Contacts (%d)", r.ContactsFound)))
	b.WriteString("\n")
	if len(r.Contacts) == 0 {
		b.WriteString(v.styles.Muted.Render("  none"))
		b.WriteString("\n")
	}
	for _, c := range r.Contacts {
		fmt.Fprintf(&b, "  %s %s\n", c.Name, v.styles.Muted.Render("("+c.Title+")"))
	}

	total := len(r.BenchmarkMatches) + len(r.BenchmarkMissed)
	b.WriteString("\n")
	b.WriteString(v.styles.Subtitle.Render(fmt.Sprintf("Benchmark %d/%d", len(r.BenchmarkMatches), total)))
	b.WriteString("\n")
	for _, name := range r.BenchmarkMatches {
		b.WriteString(v.styles.Success.Render("  ✓ " + name))
		b.WriteString("\n")
	}
	for _, name := range r.BenchmarkMissed {
		b.WriteString(v.styles.Error.Render("  ✗ " + name))
		b.WriteString("\n")
	}

	if len(r.ExtraContacts) > 0 {
		b.WriteString("\n")
		b.WriteString(v.styles.Subtitle.Render(fmt.Sprintf("Not in benchmark (%d)", len(r.ExtraContacts))))
		b.WriteString("\n")
		for _, c := range r.ExtraContacts {
			fmt.Fprintf(&b, "  %s %s\n", c.Name, v.styles.Muted.Render("("+c.Title+")"))
		}
	}
	return v.styles.Panel.Width(max(v.width-2, 20)).Render(strings.TrimRight(b.String(), "\n"))
}
