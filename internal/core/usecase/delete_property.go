package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/bchiyangwa9/london-property-analyzer/internal/contextkeys"
	"github.com/bchiyangwa9/london-property-analyzer/internal/core/domain"
	"github.com/bchiyangwa9/london-property-analyzer/internal/core/port"
)

// DeletePropertyUseCase removes one stored property.
type DeletePropertyUseCase struct {
	storage port.PropertyStoragePort
}

func NewDeletePropertyUseCase(storage port.PropertyStoragePort) *DeletePropertyUseCase {
	return &DeletePropertyUseCase{storage: storage}
}

// Execute deletes the record with the given id. A missing record surfaces
// as domain.ErrPropertyNotFound.
func (uc *DeletePropertyUseCase) Execute(ctx context.Context, propertyID string) error {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":    "DeleteProperty",
		"property_id": propertyID,
	})

	if err := uc.storage.Delete(ctx, propertyID); err != nil {
		if errors.Is(err, domain.ErrPropertyNotFound) {
			return err
		}
		ucLogger.Error("Storage returned an error during delete", err, nil)
		return fmt.Errorf("failed to delete property %q: %w", propertyID, err)
	}

	ucLogger.Info("Property deleted", nil)
	return nil
}
