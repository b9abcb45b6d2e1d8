package service

import (
	"sort"

	"github.com/bchiyangwa9/london-property-analyzer/internal/core/domain"
)

// Ranker orders processed properties by total score.
type Ranker struct{}

func NewRanker() *Ranker {
	return &Ranker{}
}

// Rank returns a new slice sorted by total score, highest first. The sort
// is stable, so equal scores keep their input order. Unscored records
// count as zero and sink to the bottom.
func (r *Ranker) Rank(records []domain.ProcessedProperty) []domain.ProcessedProperty {
	ranked := make([]domain.ProcessedProperty, len(records))
	copy(ranked, records)

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].TotalScore() > ranked[j].TotalScore()
	})

	return ranked
}

// TopN returns the n best records. Asking for more than exist returns
// everything; n <= 0 returns an empty slice.
func (r *Ranker) TopN(records []domain.ProcessedProperty, n int) []domain.ProcessedProperty {
	if n <= 0 {
		return []domain.ProcessedProperty{}
	}

	ranked := r.Rank(records)
	if n >= len(ranked) {
		return ranked
	}
	return ranked[:n]
}
