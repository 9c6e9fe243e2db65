package list

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/leadbench/internal/core/domain"
)

func sampleEntries() []domain.RankingEntry {
	return []domain.RankingEntry{
		{Model: "claude_sonnet_4", Score: 83.3, Accuracy: 5.0 / 6, TotalContacts: 7, BenchmarkMatches: 5},
		{Model: "gpt_4_1", Score: 43.3, Accuracy: 2.0 / 6, TotalContacts: 2, BenchmarkMatches: 2},
		{Model: "kimi_k2", Score: 0, Accuracy: 0, TotalContacts: 0, BenchmarkMatches: 0},
	}
}

func TestRankingList_Empty(t *testing.T) {
	l := NewRankingList(nil)

	_, ok := l.Selected()
	assert.False(t, ok)
	assert.Contains(t, l.View(), "No models ranked.")

	l.MoveDown()
	l.MoveUp()
	assert.Equal(t, 0, l.SelectedIndex())
}

func TestRankingList_Navigation(t *testing.T) {
	l := NewRankingList(nil)
	l.SetEntries(sampleEntries())

	l.MoveUp()
	assert.Equal(t, 0, l.SelectedIndex(), "stops at the top")

	l.MoveDown()
	l.MoveDown()
	l.MoveDown()
	assert.Equal(t, 2, l.SelectedIndex(), "stops at the bottom")

	e, ok := l.Selected()
	require.True(t, ok)
	assert.Equal(t, "kimi_k2", e.Model)
}

func TestRankingList_SetEntriesKeepsSelection(t *testing.T) {
	l := NewRankingList(nil)
	l.SetEntries(sampleEntries())
	l.MoveDown()

	reordered := sampleEntries()
	reordered[0], reordered[1] = reordered[1], reordered[0]
	l.SetEntries(reordered)

	e, ok := l.Selected()
	require.True(t, ok)
	assert.Equal(t, "gpt_4_1", e.Model)
	assert.Equal(t, 0, l.SelectedIndex())

	l.SetEntries(sampleEntries()[2:])
	e, _ = l.Selected()
	assert.Equal(t, "kimi_k2", e.Model, "falls back to the first row")
}

func TestRankingList_View(t *testing.T) {
	l := NewRankingList(nil)
	l.SetEntries(sampleEntries())

	view := l.View()
	assert.Contains(t, view, "Model")
	assert.Contains(t, view, "> 1   claude_sonnet_4")
	assert.Contains(t, view, "43.3")
	assert.Contains(t, view, "83%")
}

func TestRankingList_ScrollsToSelection(t *testing.T) {
	l := NewRankingList(nil)
	l.SetEntries(sampleEntries())
	l.SetDimensions(80, 3)

	l.MoveDown()
	l.MoveDown()
	view := l.View()
	assert.NotContains(t, view, "claude_sonnet_4")
	assert.Contains(t, view, "kimi_k2")
}
