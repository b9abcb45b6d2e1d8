package rightmovefetcher

import (
	"fmt"
	"time"

	"github.com/gocolly/colly/v2"
	"github.com/gocolly/colly/v2/extensions"
)

// RightmoveFetcherAdapter handles all traffic to the Rightmove portal.
// A single parent collector owns the rate limits; every fetch clones it
// so handlers never leak between requests.
type RightmoveFetcherAdapter struct {
	collector *colly.Collector
}

func NewRightmoveFetcherAdapter() (*RightmoveFetcherAdapter, error) {
	c := colly.NewCollector(
		colly.AllowedDomains("www.rightmove.co.uk", "rightmove.co.uk"),
		colly.AllowURLRevisit(),
	)

	// Inherited by every clone.
	err := c.Limit(&colly.LimitRule{
		DomainGlob:  "*rightmove.co.uk",
		Parallelism: 1,
		RandomDelay: 3 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("RightmoveFetcherAdapter: failed to set limit rule: %w", err)
	}

	extensions.RandomUserAgent(c)
	extensions.Referer(c)

	return &RightmoveFetcherAdapter{collector: c}, nil
}
