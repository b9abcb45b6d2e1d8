package usecases_port

import (
	"context"

	"github.com/bchiyangwa9/london-property-analyzer/internal/core/domain"
)

type GetTopPropertiesUseCase interface {
	Execute(ctx context.Context, n int) ([]domain.ProcessedProperty, error)
}
