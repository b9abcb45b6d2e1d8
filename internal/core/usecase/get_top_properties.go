package usecase

import (
	"context"
	"fmt"

	"github.com/bchiyangwa9/london-property-analyzer/internal/contextkeys"
	"github.com/bchiyangwa9/london-property-analyzer/internal/core/domain"
	"github.com/bchiyangwa9/london-property-analyzer/internal/core/port"
	"github.com/bchiyangwa9/london-property-analyzer/internal/core/service"
)

// GetTopPropertiesUseCase returns the best-scoring properties on record.
type GetTopPropertiesUseCase struct {
	storage port.PropertyStoragePort
	ranker  *service.Ranker
}

func NewGetTopPropertiesUseCase(storage port.PropertyStoragePort, ranker *service.Ranker) *GetTopPropertiesUseCase {
	return &GetTopPropertiesUseCase{
		storage: storage,
		ranker:  ranker,
	}
}

func (uc *GetTopPropertiesUseCase) Execute(ctx context.Context, n int) ([]domain.ProcessedProperty, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case": "GetTopProperties",
		"top_n":    n,
	})

	records, err := uc.storage.FindAll(ctx)
	if err != nil {
		ucLogger.Error("Storage returned an error while loading records", err, nil)
		return nil, fmt.Errorf("failed to load properties for ranking: %w", err)
	}

	top := uc.ranker.TopN(records, n)

	ucLogger.Info("Ranking finished", port.Fields{
		"total_records": len(records),
		"returned":      len(top),
	})

	return top, nil
}
