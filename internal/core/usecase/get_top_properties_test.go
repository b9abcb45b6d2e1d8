package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/bchiyangwa9/london-property-analyzer/internal/core/domain"
	"github.com/bchiyangwa9/london-property-analyzer/internal/core/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func storedRecord(id string, total float64) domain.ProcessedProperty {
	return domain.ProcessedProperty{
		Record: domain.PropertyRecord{PropertyID: id},
		Scores: &domain.ScoreBreakdown{TotalScore: total},
	}
}

func TestGetTopPropertiesRanksStoredRecords(t *testing.T) {
	t.Parallel()

	storage := &stubStorage{all: []domain.ProcessedProperty{
		storedRecord("mid", 60),
		storedRecord("best", 92),
		storedRecord("worst", 31),
	}}
	uc := NewGetTopPropertiesUseCase(storage, service.NewRanker())

	top, err := uc.Execute(context.Background(), 2)
	require.NoError(t, err)

	require.Len(t, top, 2)
	assert.Equal(t, "best", top[0].Record.PropertyID)
	assert.Equal(t, "mid", top[1].Record.PropertyID)
}

func TestGetTopPropertiesMoreThanStored(t *testing.T) {
	t.Parallel()

	storage := &stubStorage{all: []domain.ProcessedProperty{
		storedRecord("only", 45),
	}}
	uc := NewGetTopPropertiesUseCase(storage, service.NewRanker())

	top, err := uc.Execute(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, top, 1)
}

func TestGetTopPropertiesStorageFailure(t *testing.T) {
	t.Parallel()

	storage := &stubStorage{findAllErr: errors.New("connection refused")}
	uc := NewGetTopPropertiesUseCase(storage, service.NewRanker())

	_, err := uc.Execute(context.Background(), 5)
	require.Error(t, err)
}
