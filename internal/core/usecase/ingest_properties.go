package usecase

import (
	"context"
	"fmt"

	"github.com/bchiyangwa9/london-property-analyzer/internal/contextkeys"
	"github.com/bchiyangwa9/london-property-analyzer/internal/core/domain"
	"github.com/bchiyangwa9/london-property-analyzer/internal/core/port"
	"github.com/bchiyangwa9/london-property-analyzer/internal/core/port/usecases_port"
)

// IngestPropertiesUseCase processes a batch, persists the valid results
// and announces them downstream.
type IngestPropertiesUseCase struct {
	processor usecases_port.ProcessPropertyUseCase
	storage   port.PropertyStoragePort
	reporter  port.ResultReporterPort
}

func NewIngestPropertiesUseCase(processor usecases_port.ProcessPropertyUseCase, storage port.PropertyStoragePort, reporter port.ResultReporterPort) *IngestPropertiesUseCase {
	return &IngestPropertiesUseCase{
		processor: processor,
		storage:   storage,
		reporter:  reporter,
	}
}

// Execute returns every pipeline outcome (valid and invalid) plus the
// storage stats for the valid subset. Invalid records are reported back
// to the caller, never persisted.
func (uc *IngestPropertiesUseCase) Execute(ctx context.Context, raws []domain.RawProperty) ([]domain.ProcessedProperty, *domain.BatchSaveStats, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":     "IngestProperties",
		"record_count": len(raws),
	})

	ucLogger.Info("Use case started: ingesting batch", nil)

	processed, err := uc.processor.ExecuteBatch(ctx, raws)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to process batch of %d records: %w", len(raws), err)
	}

	valid := make([]domain.ProcessedProperty, 0, len(processed))
	for _, p := range processed {
		if p.Valid() {
			valid = append(valid, p)
		}
	}

	if len(valid) == 0 {
		ucLogger.Warn("No valid records in batch, nothing to persist", port.Fields{
			"invalid_count": len(processed),
		})
		return processed, &domain.BatchSaveStats{}, nil
	}

	stats, err := uc.storage.BatchSave(ctx, valid)
	if err != nil {
		ucLogger.Error("Storage returned an error during batch save", err, nil)
		return nil, nil, fmt.Errorf("failed to save %d processed records: %w", len(valid), err)
	}

	ucLogger.Info("Storage batch save completed", port.Fields{"stats": stats})

	if stats != nil && (stats.Created > 0 || stats.Updated > 0) {
		if err := uc.reporter.ReportProcessed(ctx, valid); err != nil {
			// The save succeeded; a failed report must not trigger a
			// reprocessing of already persisted data.
			ucLogger.Error("Failed to report processed records after successful save", err, nil)
		}
	}

	ucLogger.Info("Use case finished", nil)
	return processed, stats, nil
}
