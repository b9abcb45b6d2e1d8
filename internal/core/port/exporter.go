package port

import (
	"github.com/bchiyangwa9/london-property-analyzer/internal/core/domain"
)

// ExporterPort renders processed properties into a downloadable document.
type ExporterPort interface {
	Export(records []domain.ProcessedProperty) ([]byte, error)
	ContentType() string
	FileName() string
}
