package rest

import (
	"github.com/bchiyangwa9/london-property-analyzer/internal/core/domain"
)

// ProcessPropertyRequest is the body of POST /api/v1/properties/process.
type ProcessPropertyRequest struct {
	Property domain.RawProperty `json:"property"`
}

// BatchIngestRequest is the body of POST /api/v1/properties/batch.
type BatchIngestRequest struct {
	Properties []domain.RawProperty `json:"properties"`
}

// BatchIngestResponse reports per-record outcomes plus storage stats.
type BatchIngestResponse struct {
	Results []domain.ProcessedProperty `json:"results"`
	Stats   *domain.BatchSaveStats     `json:"stats"`
}

// PropertyListResponse wraps a page of stored properties.
type PropertyListResponse struct {
	Count  int                        `json:"count"`
	Limit  int                        `json:"limit"`
	Offset int                        `json:"offset"`
	Data   []domain.ProcessedProperty `json:"data"`
}

// TopPropertiesResponse wraps the ranked shortlist.
type TopPropertiesResponse struct {
	Count int                        `json:"count"`
	Data  []domain.ProcessedProperty `json:"data"`
}

// ScrapeRequest is the body of POST /api/v1/scrape.
type ScrapeRequest struct {
	SearchURL string `json:"search_url"`
	MaxPages  int    `json:"max_pages"`
}
