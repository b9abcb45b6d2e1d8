package usecases_port

import (
	"context"

	"github.com/bchiyangwa9/london-property-analyzer/internal/core/domain"
)

type SavePropertyUseCase interface {
	Execute(ctx context.Context, raw domain.RawProperty) (*domain.ProcessedProperty, error)
}
