package usecase

import (
	"context"
	"fmt"

	"github.com/bchiyangwa9/london-property-analyzer/internal/contextkeys"
	"github.com/bchiyangwa9/london-property-analyzer/internal/core/port"
	"github.com/bchiyangwa9/london-property-analyzer/internal/core/service"
)

// ExportPropertiesUseCase renders the ranked portfolio as a document.
type ExportPropertiesUseCase struct {
	storage  port.PropertyStoragePort
	ranker   *service.Ranker
	exporter port.ExporterPort
}

func NewExportPropertiesUseCase(storage port.PropertyStoragePort, ranker *service.Ranker, exporter port.ExporterPort) *ExportPropertiesUseCase {
	return &ExportPropertiesUseCase{
		storage:  storage,
		ranker:   ranker,
		exporter: exporter,
	}
}

func (uc *ExportPropertiesUseCase) Execute(ctx context.Context) ([]byte, string, string, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case": "ExportProperties",
	})

	records, err := uc.storage.FindAll(ctx)
	if err != nil {
		ucLogger.Error("Storage returned an error while loading records", err, nil)
		return nil, "", "", fmt.Errorf("failed to load properties for export: %w", err)
	}

	ranked := uc.ranker.Rank(records)

	document, err := uc.exporter.Export(ranked)
	if err != nil {
		ucLogger.Error("Exporter failed to render the document", err, nil)
		return nil, "", "", fmt.Errorf("failed to export %d properties: %w", len(ranked), err)
	}

	ucLogger.Info("Export finished", port.Fields{
		"record_count": len(ranked),
		"bytes":        len(document),
	})

	return document, uc.exporter.ContentType(), uc.exporter.FileName(), nil
}
