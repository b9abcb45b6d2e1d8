package rightmovefetcher

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/bchiyangwa9/london-property-analyzer/internal/contextkeys"
	"github.com/bchiyangwa9/london-property-analyzer/internal/core/port"

	"github.com/gocolly/colly/v2"
)

// resultsPerPage is the fixed page size of Rightmove search results; the
// "index" query parameter is an offset in listings, not in pages.
const resultsPerPage = 24

// FetchListingLinks walks search result pages and collects the detail
// page URL of every property card, deduplicated across pages.
func (a *RightmoveFetcherAdapter) FetchListingLinks(ctx context.Context, searchURL string, maxPages int) ([]string, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	fetchLogger := logger.WithFields(port.Fields{"component": "RightmoveFetcherAdapter(FetchListingLinks)"})

	base, err := url.Parse(searchURL)
	if err != nil {
		return nil, fmt.Errorf("rightmove adapter: invalid search URL %s: %w", searchURL, err)
	}

	collector := a.collector.Clone()

	seen := make(map[string]struct{})
	var links []string
	var responseErr error

	collector.OnRequest(func(r *colly.Request) {
		if err := ctx.Err(); err != nil {
			r.Abort()
			return
		}
		fetchLogger.Debug("Making request to fetch links", port.Fields{
			"url": r.URL.String(),
		})
	})

	collector.OnHTML("a.propertyCard-link[href]", func(e *colly.HTMLElement) {
		href := e.Attr("href")
		if !strings.Contains(href, "/properties/") {
			return
		}
		absolute := e.Request.AbsoluteURL(href)
		if _, ok := seen[absolute]; ok {
			return
		}
		seen[absolute] = struct{}{}
		links = append(links, absolute)
	})

	collector.OnError(func(r *colly.Response, err error) {
		fetchLogger.Error("Failed to fetch search results page", err, port.Fields{
			"url":    r.Request.URL.String(),
			"status": r.StatusCode,
		})
		responseErr = fmt.Errorf("rightmove adapter: request to %s failed with status %d: %w", r.Request.URL, r.StatusCode, err)
	})

	for page := 0; page < maxPages; page++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if responseErr != nil {
			break
		}

		pageURL := *base
		q := pageURL.Query()
		q.Set("index", strconv.Itoa(page*resultsPerPage))
		pageURL.RawQuery = q.Encode()

		before := len(links)
		if visitErr := collector.Visit(pageURL.String()); visitErr != nil {
			fetchLogger.Error("Failed to initiate visit for search page", visitErr, port.Fields{"url": pageURL.String()})
			return nil, fmt.Errorf("rightmove adapter: failed to visit URL %s: %w", pageURL.String(), visitErr)
		}
		collector.Wait()

		// An empty page means we ran past the last results page.
		if len(links) == before {
			fetchLogger.Debug("No new links on page, stopping pagination", port.Fields{"page": page})
			break
		}
	}

	if responseErr != nil {
		return nil, responseErr
	}

	fetchLogger.Info("Finished fetching listing links", port.Fields{
		"search_url":  searchURL,
		"links_found": len(links),
	})
	return links, nil
}
