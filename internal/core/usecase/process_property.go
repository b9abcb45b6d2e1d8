package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/bchiyangwa9/london-property-analyzer/internal/contextkeys"
	"github.com/bchiyangwa9/london-property-analyzer/internal/core/domain"
	"github.com/bchiyangwa9/london-property-analyzer/internal/core/port"
	"github.com/bchiyangwa9/london-property-analyzer/internal/core/service"
)

const defaultMaxWorkers = 4

// ProcessPropertyUseCase runs the validate -> enrich -> score pipeline.
type ProcessPropertyUseCase struct {
	validator  *service.Validator
	enricher   *service.Enricher
	scorer     *service.Scorer
	maxWorkers int
}

// NewProcessPropertyUseCase creates the pipeline use case. maxWorkers
// bounds batch concurrency; zero or negative selects the default.
func NewProcessPropertyUseCase(validator *service.Validator, enricher *service.Enricher, scorer *service.Scorer, maxWorkers int) *ProcessPropertyUseCase {
	if maxWorkers <= 0 {
		maxWorkers = defaultMaxWorkers
	}

	return &ProcessPropertyUseCase{
		validator:  validator,
		enricher:   enricher,
		scorer:     scorer,
		maxWorkers: maxWorkers,
	}
}

// Execute pushes one raw property through the pipeline. A record that
// fails validation comes back with its errors attached and no scores;
// the error return is reserved for context cancellation.
func (uc *ProcessPropertyUseCase) Execute(ctx context.Context, raw domain.RawProperty) (*domain.ProcessedProperty, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":    "ProcessProperty",
		"property_id": raw.PropertyID,
	})

	res := uc.validator.Validate(raw)

	out := domain.ProcessedProperty{
		Record:           res.Record,
		ValidationErrors: res.Errors,
		Warnings:         res.Warnings,
	}

	if !res.Valid() {
		ucLogger.Warn("Record failed validation, skipping enrichment and scoring", port.Fields{
			"error_count": len(res.Errors),
		})
		out.ProcessedAt = time.Now().UTC()
		return &out, nil
	}

	if out.Record.AddedAt.IsZero() {
		out.Record.AddedAt = time.Now().UTC()
	}

	out.Record = uc.enricher.Enrich(ctx, out.Record)

	breakdown := uc.scorer.Score(out.Record)
	out.Scores = &breakdown
	out.ProcessedAt = time.Now().UTC()

	ucLogger.Debug("Record processed", port.Fields{
		"total_score": breakdown.TotalScore,
	})

	return &out, nil
}

// ExecuteBatch processes raws over a bounded worker pool. The result
// slice mirrors the input order regardless of which worker finished
// first.
func (uc *ProcessPropertyUseCase) ExecuteBatch(ctx context.Context, raws []domain.RawProperty) ([]domain.ProcessedProperty, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":     "ProcessPropertyBatch",
		"record_count": len(raws),
	})

	ucLogger.Info("Use case started: processing batch", nil)

	results := make([]domain.ProcessedProperty, len(raws))
	sem := make(chan struct{}, uc.maxWorkers)
	var wg sync.WaitGroup

	for i, raw := range raws {
		if err := ctx.Err(); err != nil {
			wg.Wait()
			return nil, err
		}

		wg.Add(1)
		sem <- struct{}{}

		go func(i int, raw domain.RawProperty) {
			defer wg.Done()
			defer func() { <-sem }()

			processed, err := uc.Execute(ctx, raw)
			if err != nil {
				// context cancelled mid-flight; leave a stub so the slice
				// still lines up with the input
				results[i] = domain.ProcessedProperty{
					Record:      domain.PropertyRecord{PropertyID: raw.PropertyID},
					ProcessedAt: time.Now().UTC(),
				}
				return
			}
			results[i] = *processed
		}(i, raw)
	}

	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ucLogger.Info("Use case finished: batch processed", nil)
	return results, nil
}
