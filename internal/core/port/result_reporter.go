package port

import (
	"context"

	"github.com/bchiyangwa9/london-property-analyzer/internal/core/domain"
)

// ResultReporterPort announces processed properties to downstream
// consumers (message queue, webhook, nothing at all).
type ResultReporterPort interface {
	ReportProcessed(ctx context.Context, records []domain.ProcessedProperty) error
}
