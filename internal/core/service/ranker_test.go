package service

import (
	"testing"

	"github.com/bchiyangwa9/london-property-analyzer/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scored(id string, total float64) domain.ProcessedProperty {
	return domain.ProcessedProperty{
		Record: domain.PropertyRecord{PropertyID: id},
		Scores: &domain.ScoreBreakdown{TotalScore: total},
	}
}

func ids(records []domain.ProcessedProperty) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Record.PropertyID
	}
	return out
}

func TestRankerOrdersByScoreDescending(t *testing.T) {
	t.Parallel()

	r := NewRanker()
	input := []domain.ProcessedProperty{
		scored("low", 42.5),
		scored("high", 88),
		scored("mid", 61),
	}

	ranked := r.Rank(input)

	assert.Equal(t, []string{"high", "mid", "low"}, ids(ranked))
	// input order untouched
	assert.Equal(t, []string{"low", "high", "mid"}, ids(input))
}

func TestRankerTiesKeepInputOrder(t *testing.T) {
	t.Parallel()

	r := NewRanker()
	input := []domain.ProcessedProperty{
		scored("first", 70),
		scored("second", 70),
		scored("third", 70),
	}

	ranked := r.Rank(input)

	assert.Equal(t, []string{"first", "second", "third"}, ids(ranked))
}

func TestRankerUnscoredSinkToBottom(t *testing.T) {
	t.Parallel()

	r := NewRanker()
	unscored := domain.ProcessedProperty{
		Record:           domain.PropertyRecord{PropertyID: "invalid"},
		ValidationErrors: []domain.FieldIssue{{Field: "price", Code: domain.CodeInvalidPrice}},
	}
	input := []domain.ProcessedProperty{unscored, scored("valid", 55)}

	ranked := r.Rank(input)

	assert.Equal(t, []string{"valid", "invalid"}, ids(ranked))
}

func TestRankerTopN(t *testing.T) {
	t.Parallel()

	r := NewRanker()
	input := []domain.ProcessedProperty{
		scored("a", 10),
		scored("b", 90),
		scored("c", 50),
		scored("d", 70),
	}

	tests := []struct {
		name string
		n    int
		want []string
	}{
		{name: "top two", n: 2, want: []string{"b", "d"}},
		{name: "exact length", n: 4, want: []string{"b", "d", "c", "a"}},
		{name: "more than exist", n: 10, want: []string{"b", "d", "c", "a"}},
		{name: "zero", n: 0, want: []string{}},
		{name: "negative", n: -3, want: []string{}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := r.TopN(input, tt.n)
			require.Len(t, got, len(tt.want))
			assert.Equal(t, tt.want, ids(got))
		})
	}
}
