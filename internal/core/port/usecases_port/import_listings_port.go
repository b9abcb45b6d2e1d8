package usecases_port

import (
	"context"

	"github.com/bchiyangwa9/london-property-analyzer/internal/core/domain"
)

type ImportListingsUseCase interface {
	Execute(ctx context.Context, searchURL string, maxPages int) (*domain.ImportReport, error)
}
