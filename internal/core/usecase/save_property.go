package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/bchiyangwa9/london-property-analyzer/internal/contextkeys"
	"github.com/bchiyangwa9/london-property-analyzer/internal/core/domain"
	"github.com/bchiyangwa9/london-property-analyzer/internal/core/port"
	"github.com/bchiyangwa9/london-property-analyzer/internal/core/port/usecases_port"
)

// SavePropertyUseCase runs one raw property through the pipeline and
// persists the result when it is valid.
type SavePropertyUseCase struct {
	processor usecases_port.ProcessPropertyUseCase
	storage   port.PropertyStoragePort
	reporter  port.ResultReporterPort
}

func NewSavePropertyUseCase(processor usecases_port.ProcessPropertyUseCase, storage port.PropertyStoragePort, reporter port.ResultReporterPort) *SavePropertyUseCase {
	return &SavePropertyUseCase{
		processor: processor,
		storage:   storage,
		reporter:  reporter,
	}
}

// Execute returns the pipeline outcome. Invalid records come back with
// their errors attached and are never persisted. A record whose listing
// fingerprint already belongs to another property surfaces as
// domain.ErrDuplicateProperty.
func (uc *SavePropertyUseCase) Execute(ctx context.Context, raw domain.RawProperty) (*domain.ProcessedProperty, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":    "SaveProperty",
		"property_id": raw.PropertyID,
	})

	processed, err := uc.processor.Execute(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("failed to process property %q: %w", raw.PropertyID, err)
	}

	if !processed.Valid() {
		ucLogger.Warn("Record failed validation, nothing to persist", port.Fields{
			"error_count": len(processed.ValidationErrors),
		})
		return processed, nil
	}

	if err := uc.storage.Save(ctx, *processed); err != nil {
		if errors.Is(err, domain.ErrDuplicateProperty) {
			return nil, err
		}
		ucLogger.Error("Storage returned an error during save", err, nil)
		return nil, fmt.Errorf("failed to save property %q: %w", raw.PropertyID, err)
	}

	if err := uc.reporter.ReportProcessed(ctx, []domain.ProcessedProperty{*processed}); err != nil {
		// Same rule as the batch path: the save already succeeded, so a
		// failed report must not fail the request.
		ucLogger.Error("Failed to report processed record after successful save", err, nil)
	}

	ucLogger.Info("Property saved", nil)
	return processed, nil
}
