package cli

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/custodia-labs/leadbench/internal/core/domain"
)

// palette is the colour set used on terminals.
var palette = struct {
	Primary, Secondary, Muted, Success, Warning, Error lipgloss.Color
}{
	Primary:   lipgloss.Color("#7C3AED"), // Purple
	Secondary: lipgloss.Color("#06B6D4"), // Cyan
	Muted:     lipgloss.Color("#6C7086"), // Medium gray
	Success:   lipgloss.Color("#A6E3A1"), // Green
	Warning:   lipgloss.Color("#F9E2AF"), // Yellow
	Error:     lipgloss.Color("#F38BA8"), // Red
}

// printer writes command output, styled when the writer is a terminal.
type printer struct {
	w io.Writer

	title   lipgloss.Style
	header  lipgloss.Style
	muted   lipgloss.Style
	success lipgloss.Style
	warning lipgloss.Style
	failure lipgloss.Style
}

// isTerminal reports whether w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// newPrinter returns a printer for w. Styles are only applied on a TTY so
// piped output stays plain.
func newPrinter(w io.Writer) *printer {
	plain := lipgloss.NewStyle()
	p := &printer{w: w, title: plain, header: plain, muted: plain, success: plain, warning: plain, failure: plain}
	if !isTerminal(w) {
		return p
	}

	r := lipgloss.NewRenderer(w)
	p.title = r.NewStyle().Bold(true).Foreground(palette.Primary)
	p.header = r.NewStyle().Bold(true).Foreground(palette.Secondary)
	p.muted = r.NewStyle().Foreground(palette.Muted)
	p.success = r.NewStyle().Foreground(palette.Success)
	p.warning = r.NewStyle().Foreground(palette.Warning)
	p.failure = r.NewStyle().Foreground(palette.Error)
	return p
}

func (p *printer) printf(format string, args ...any) {
	fmt.Fprintf(p.w, format, args...)
}

func (p *printer) println(s string) {
	fmt.Fprintln(p.w, s)
}

// modelSummary prints one model's match result.
func (p *printer) modelSummary(model string, r domain.MatchResult) {
	p.println("")
	p.println(p.title.Render("=== " + strings.ToUpper(model) + " ==="))
	p.printf("Found %d contacts:\n", r.ContactsFound)
	for _, c := range r.Contacts {
		p.printf("  - %s %s\n", c.Name, p.muted.Render("("+c.Title+")"))
	}

	total := len(r.BenchmarkMatches) + len(r.BenchmarkMissed)
	matches := fmt.Sprintf("%d/%d", len(r.BenchmarkMatches), total)
	switch {
	case total > 0 && len(r.BenchmarkMatches) == total:
		matches = p.success.Render(matches)
	case len(r.BenchmarkMatches) == 0:
		matches = p.failure.Render(matches)
	}
	p.printf("Benchmark matches: %s\n", matches)
	if len(r.BenchmarkMissed) > 0 {
		p.printf("Missed: %s\n", p.warning.Render(strings.Join(r.BenchmarkMissed, ", ")))
	}
}

// rankingTable prints the ranking as aligned columns.
func (p *printer) rankingTable(rankings []domain.RankingEntry) {
	p.println("")
	p.println(p.title.Render("=== MODEL RANKINGS ==="))
	if len(rankings) == 0 {
		p.println(p.muted.Render("No models ranked."))
		return
	}

	width := len("Model")
	for _, r := range rankings {
		width = max(width, len(r.Model))
	}

	header := fmt.Sprintf("%-3s %-*s %8s %9s %9s %8s", "#", width, "Model", "Score", "Accuracy", "Contacts", "Matches")
	p.println(p.header.Render(header))
	for i, r := range rankings {
		p.printf("%-3d %-*s %8.1f %8.0f%% %9d %8d\n",
			i+1, width, r.Model, r.Score, r.Accuracy*100, r.TotalContacts, r.BenchmarkMatches)
	}
}

// failures prints models whose transcripts could not be processed.
func (p *printer) failures(failures map[string]string) {
	if len(failures) == 0 {
		return
	}
	models := make([]string, 0, len(failures))
	for m := range failures {
		models = append(models, m)
	}
	sort.Strings(models)

	p.println("")
	p.println(p.failure.Render("Failed transcripts:"))
	for _, model := range models {
		p.printf("  - %s: %s\n", model, failures[model])
	}
}
