// Package messages defines Bubbletea message types for the dashboard.
package messages

import (
	"github.com/custodia-labs/leadbench/internal/core/domain"
)

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewRankings is the ranking table.
	ViewRankings ViewType = iota
	// ViewModel shows one model's match result.
	ViewModel
	// ViewHelp lists keybindings.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewRankings:
		return "rankings"
	case ViewModel:
		return "model"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// AnalysisRequested asks the app to run an analysis.
type AnalysisRequested struct{}

// AnalysisCompleted carries an analysis report back to the model.
type AnalysisCompleted struct {
	Report *domain.AnalysisReport
	Err    error
}

// TranscriptChanged is sent for each transcript write or removal.
type TranscriptChanged struct {
	Change domain.TranscriptChange
}

// WatchStopped is sent when the transcript watcher closes.
type WatchStopped struct{}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}
