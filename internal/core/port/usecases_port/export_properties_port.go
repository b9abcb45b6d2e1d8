package usecases_port

import (
	"context"
)

type ExportPropertiesUseCase interface {
	// Execute renders the ranked portfolio and returns the document bytes
	// together with its content type and suggested file name.
	Execute(ctx context.Context) ([]byte, string, string, error)
}
