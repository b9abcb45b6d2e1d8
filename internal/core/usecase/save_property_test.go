package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/bchiyangwa9/london-property-analyzer/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSavePersistsValidRecord(t *testing.T) {
	t.Parallel()

	storage := &stubStorage{}
	reporter := &stubReporter{}
	uc := NewSavePropertyUseCase(&stubProcessor{}, storage, reporter)

	result, err := uc.Execute(context.Background(), domain.RawProperty{PropertyID: "prop-001"})
	require.NoError(t, err)

	require.NotNil(t, result)
	assert.True(t, result.Valid())

	require.Len(t, storage.saved, 1)
	assert.Equal(t, "prop-001", storage.saved[0].Record.PropertyID)

	require.Len(t, reporter.reported, 1)
	assert.Len(t, reporter.reported[0], 1)
}

func TestSaveSkipsInvalidRecord(t *testing.T) {
	t.Parallel()

	storage := &stubStorage{}
	reporter := &stubReporter{}
	uc := NewSavePropertyUseCase(&stubProcessor{}, storage, reporter)

	result, err := uc.Execute(context.Background(), domain.RawProperty{PropertyID: "bad-001"})
	require.NoError(t, err)

	require.NotNil(t, result)
	assert.False(t, result.Valid())
	assert.Empty(t, storage.saved)
	assert.Empty(t, reporter.reported)
}

func TestSaveDuplicatePropagates(t *testing.T) {
	t.Parallel()

	storage := &stubStorage{saveErr: domain.ErrDuplicateProperty}
	uc := NewSavePropertyUseCase(&stubProcessor{}, storage, &stubReporter{})

	_, err := uc.Execute(context.Background(), domain.RawProperty{PropertyID: "prop-001"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDuplicateProperty)
}

func TestSaveStorageFailureWraps(t *testing.T) {
	t.Parallel()

	storage := &stubStorage{saveErr: errors.New("connection refused")}
	uc := NewSavePropertyUseCase(&stubProcessor{}, storage, &stubReporter{})

	_, err := uc.Execute(context.Background(), domain.RawProperty{PropertyID: "prop-001"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestSaveReporterFailureDoesNotFailSave(t *testing.T) {
	t.Parallel()

	storage := &stubStorage{}
	reporter := &stubReporter{err: errors.New("broker down")}
	uc := NewSavePropertyUseCase(&stubProcessor{}, storage, reporter)

	result, err := uc.Execute(context.Background(), domain.RawProperty{PropertyID: "prop-001"})
	require.NoError(t, err)
	assert.True(t, result.Valid())
	assert.Len(t, storage.saved, 1)
}
