package usecases_port

import (
	"context"

	"github.com/bchiyangwa9/london-property-analyzer/internal/core/domain"
)

type FindPropertiesUseCase interface {
	Execute(ctx context.Context, limit, offset int) ([]domain.ProcessedProperty, error)
}

type GetPropertyDetailsUseCase interface {
	Execute(ctx context.Context, propertyID string) (*domain.ProcessedProperty, error)
}
