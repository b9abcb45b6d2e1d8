package port

import (
	"context"

	"github.com/bchiyangwa9/london-property-analyzer/internal/core/domain"
)

// PropertyStoragePort persists processed properties.
type PropertyStoragePort interface {
	Save(ctx context.Context, record domain.ProcessedProperty) error
	BatchSave(ctx context.Context, records []domain.ProcessedProperty) (*domain.BatchSaveStats, error)

	GetByID(ctx context.Context, propertyID string) (*domain.ProcessedProperty, error)
	Find(ctx context.Context, limit, offset int) ([]domain.ProcessedProperty, error)
	FindAll(ctx context.Context) ([]domain.ProcessedProperty, error)
	Delete(ctx context.Context, propertyID string) error
}
