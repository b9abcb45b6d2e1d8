package usecases_port

import (
	"context"

	"github.com/bchiyangwa9/london-property-analyzer/internal/core/domain"
)

type IngestPropertiesUseCase interface {
	Execute(ctx context.Context, raws []domain.RawProperty) ([]domain.ProcessedProperty, *domain.BatchSaveStats, error)
}
