package port

import (
	"context"

	"github.com/bchiyangwa9/london-property-analyzer/internal/core/domain"
)

// ListingFetcherPort pulls property listings from a portal.
type ListingFetcherPort interface {
	// FetchListingLinks walks search result pages and collects detail URLs.
	FetchListingLinks(ctx context.Context, searchURL string, maxPages int) ([]string, error)
	// FetchListingDetails loads one detail page and maps it to a raw property.
	FetchListingDetails(ctx context.Context, listingURL string) (*domain.RawProperty, error)
}
