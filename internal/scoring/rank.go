package scoring

import (
	"sort"

	"github.com/custodia-labs/leadbench/internal/core/domain"
)

// Weights are the coefficients of the composite score.
type Weights struct {
	Accuracy float64 `toml:"accuracy" json:"accuracy"`
	Contact  float64 `toml:"contact" json:"contact"`
	Extra    float64 `toml:"extra" json:"extra"`
}

// DefaultWeights returns accuracy*100 + contacts*5 + extras*2.
func DefaultWeights() Weights {
	return Weights{Accuracy: 100, Contact: 5, Extra: 2}
}

// Score computes the composite score of a result.
func Score(r domain.MatchResult, w Weights) float64 {
	return r.Accuracy*w.Accuracy +
		float64(len(r.Contacts))*w.Contact +
		float64(len(r.ExtraContacts))*w.Extra
}

// Rank scores every result and sorts descending by score.
// Ties keep their input order.
func Rank(results []domain.MatchResult, w Weights) []domain.RankingEntry {
	rankings := make([]domain.RankingEntry, 0, len(results))
	for _, r := range results {
		rankings = append(rankings, domain.RankingEntry{
			Model:            r.ModelID,
			Score:            Score(r, w),
			Accuracy:         r.Accuracy,
			TotalContacts:    len(r.Contacts),
			BenchmarkMatches: len(r.BenchmarkMatches),
		})
	}
	sort.SliceStable(rankings, func(i, j int) bool {
		return rankings[i].Score > rankings[j].Score
	})
	return rankings
}
