package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/custodia-labs/leadbench/internal/core/domain"
	"github.com/custodia-labs/leadbench/internal/core/ports/driven"
)

// Ensure ResultStore implements the interface.
var _ driven.ResultStore = (*ResultStore)(nil)

// ResultStore is an in-memory implementation of driven.ResultStore.
// History lasts as long as the process; `serve` uses it with --no-db.
type ResultStore struct {
	mu   sync.RWMutex
	runs map[string]domain.AnalysisReport
	seq  map[string]int
	next int
}

// NewResultStore creates a new in-memory result store.
func NewResultStore() *ResultStore {
	return &ResultStore{
		runs: make(map[string]domain.AnalysisReport),
		seq:  make(map[string]int),
	}
}

// SaveRun stores a copy of the report, replacing any run with the same id.
func (s *ResultStore) SaveRun(_ context.Context, report *domain.AnalysisReport) error {
	if report == nil || report.RunID == "" {
		return fmt.Errorf("%w: report needs a run id", domain.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[report.RunID] = *report
	s.seq[report.RunID] = s.next
	s.next++
	return nil
}

// GetRun returns a run by id.
func (s *ResultStore) GetRun(_ context.Context, id string) (*domain.AnalysisReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.runs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &r, nil
}

// LatestRun returns the most recently started run.
func (s *ResultStore) LatestRun(ctx context.Context) (*domain.AnalysisReport, error) {
	s.mu.RLock()
	ids := s.orderedLocked()
	s.mu.RUnlock()
	if len(ids) == 0 {
		return nil, domain.ErrNotFound
	}
	return s.GetRun(ctx, ids[0])
}

// ListRuns returns summaries, most recent first.
func (s *ResultStore) ListRuns(_ context.Context, limit int) ([]domain.RunSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.orderedLocked()
	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}
	out := make([]domain.RunSummary, 0, len(ids))
	for _, id := range ids {
		r := s.runs[id]
		sum := domain.RunSummary{
			ID:        r.RunID,
			StartedAt: r.StartedAt,
			Models:    len(r.Order),
			Rankings:  append([]domain.RankingEntry(nil), r.Rankings...),
		}
		if len(r.Rankings) > 0 {
			top := r.Rankings[0]
			sum.Top = &top
		}
		out = append(out, sum)
	}
	return out, nil
}

// orderedLocked returns run ids by start time, newest first; ties go to
// the later save. Caller must hold the lock.
func (s *ResultStore) orderedLocked() []string {
	ids := make([]string, 0, len(s.runs))
	for id := range s.runs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, b := s.runs[ids[i]], s.runs[ids[j]]
		if !a.StartedAt.Equal(b.StartedAt) {
			return a.StartedAt.After(b.StartedAt)
		}
		return s.seq[ids[i]] > s.seq[ids[j]]
	})
	return ids
}

// Close is a no-op.
func (s *ResultStore) Close() error {
	return nil
}
