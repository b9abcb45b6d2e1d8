package usecase

import (
	"context"
	"fmt"
	"sync"

	"github.com/bchiyangwa9/london-property-analyzer/internal/contextkeys"
	"github.com/bchiyangwa9/london-property-analyzer/internal/core/domain"
	"github.com/bchiyangwa9/london-property-analyzer/internal/core/port"
	"github.com/bchiyangwa9/london-property-analyzer/internal/core/port/usecases_port"
)

// ImportListingsUseCase scrapes a portal search and pushes everything it
// finds through the ingestion pipeline.
type ImportListingsUseCase struct {
	fetcher    port.ListingFetcherPort
	ingest     usecases_port.IngestPropertiesUseCase
	maxWorkers int
}

func NewImportListingsUseCase(fetcher port.ListingFetcherPort, ingest usecases_port.IngestPropertiesUseCase, maxWorkers int) *ImportListingsUseCase {
	if maxWorkers <= 0 {
		maxWorkers = defaultMaxWorkers
	}

	return &ImportListingsUseCase{
		fetcher:    fetcher,
		ingest:     ingest,
		maxWorkers: maxWorkers,
	}
}

func (uc *ImportListingsUseCase) Execute(ctx context.Context, searchURL string, maxPages int) (*domain.ImportReport, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":  "ImportListings",
		"max_pages": maxPages,
	})

	ucLogger.Info("Use case started: collecting listing links", nil)

	links, err := uc.fetcher.FetchListingLinks(ctx, searchURL, maxPages)
	if err != nil {
		return nil, fmt.Errorf("failed to collect listing links: %w", err)
	}

	ucLogger.Info("Links collected, fetching details", port.Fields{
		"link_count": len(links),
	})

	raws := make([]*domain.RawProperty, len(links))
	sem := make(chan struct{}, uc.maxWorkers)
	var wg sync.WaitGroup

	for i, link := range links {
		if err := ctx.Err(); err != nil {
			wg.Wait()
			return nil, err
		}

		wg.Add(1)
		sem <- struct{}{}

		go func(i int, link string) {
			defer wg.Done()
			defer func() { <-sem }()

			raw, err := uc.fetcher.FetchListingDetails(ctx, link)
			if err != nil {
				ucLogger.Warn("Failed to fetch listing details, skipping", port.Fields{
					"url":   link,
					"error": err.Error(),
				})
				return
			}
			raws[i] = raw
		}(i, link)
	}

	wg.Wait()

	fetched := make([]domain.RawProperty, 0, len(raws))
	for _, raw := range raws {
		if raw != nil {
			fetched = append(fetched, *raw)
		}
	}

	report := &domain.ImportReport{
		LinksFound: len(links),
		Fetched:    len(fetched),
		Failed:     len(links) - len(fetched),
	}

	if len(fetched) == 0 {
		ucLogger.Warn("No listings fetched, nothing to ingest", nil)
		return report, nil
	}

	outcomes, _, err := uc.ingest.Execute(ctx, fetched)
	if err != nil {
		return nil, fmt.Errorf("failed to ingest %d scraped listings: %w", len(fetched), err)
	}
	report.Outcomes = outcomes

	ucLogger.Info("Use case finished: import complete", port.Fields{
		"links_found": report.LinksFound,
		"fetched":     report.Fetched,
		"failed":      report.Failed,
	})

	return report, nil
}
