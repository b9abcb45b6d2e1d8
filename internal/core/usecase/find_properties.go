package usecase

import (
	"context"
	"fmt"

	"github.com/bchiyangwa9/london-property-analyzer/internal/contextkeys"
	"github.com/bchiyangwa9/london-property-analyzer/internal/core/domain"
	"github.com/bchiyangwa9/london-property-analyzer/internal/core/port"
)

// FindPropertiesUseCase pages through stored properties.
type FindPropertiesUseCase struct {
	storage port.PropertyStoragePort
}

func NewFindPropertiesUseCase(storage port.PropertyStoragePort) *FindPropertiesUseCase {
	return &FindPropertiesUseCase{storage: storage}
}

func (uc *FindPropertiesUseCase) Execute(ctx context.Context, limit, offset int) ([]domain.ProcessedProperty, error) {
	records, err := uc.storage.Find(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to find properties: %w", err)
	}
	return records, nil
}

// GetPropertyDetailsUseCase loads a single property by its id.
type GetPropertyDetailsUseCase struct {
	storage port.PropertyStoragePort
}

func NewGetPropertyDetailsUseCase(storage port.PropertyStoragePort) *GetPropertyDetailsUseCase {
	return &GetPropertyDetailsUseCase{storage: storage}
}

func (uc *GetPropertyDetailsUseCase) Execute(ctx context.Context, propertyID string) (*domain.ProcessedProperty, error) {
	logger := contextkeys.LoggerFromContext(ctx)

	record, err := uc.storage.GetByID(ctx, propertyID)
	if err != nil {
		logger.Warn("Property lookup failed", port.Fields{
			"property_id": propertyID,
			"error":       err.Error(),
		})
		return nil, fmt.Errorf("failed to get property %s: %w", propertyID, err)
	}

	return record, nil
}
