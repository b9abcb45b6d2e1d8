package rightmovefetcher

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/bchiyangwa9/london-property-analyzer/internal/contextkeys"
	"github.com/bchiyangwa9/london-property-analyzer/internal/core/domain"
	"github.com/bchiyangwa9/london-property-analyzer/internal/core/port"

	"github.com/gocolly/colly/v2"
)

var (
	postcodeInAddressRe = regexp.MustCompile(`[A-Z]{1,2}\d[A-Z\d]?\s?\d[A-Z]{2}`)
	// Detail pages embed the map position in a page-model script.
	latitudeRe  = regexp.MustCompile(`"latitude"\s*:\s*(-?\d+(?:\.\d+)?)`)
	longitudeRe = regexp.MustCompile(`"longitude"\s*:\s*(-?\d+(?:\.\d+)?)`)
	listingIDRe = regexp.MustCompile(`/properties/(\d+)`)
)

// FetchListingDetails loads one detail page and maps it to a raw property.
// All fields stay strings; cleaning is the validator's job.
func (a *RightmoveFetcherAdapter) FetchListingDetails(ctx context.Context, listingURL string) (*domain.RawProperty, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	fetchLogger := logger.WithFields(port.Fields{"component": "RightmoveFetcherAdapter(FetchListingDetails)"})

	collector := a.collector.Clone()

	raw := &domain.RawProperty{
		PropertyID: listingIDFromURL(listingURL),
		SourceURL:  listingURL,
	}
	var criticalError error
	var gone bool

	collector.OnRequest(func(r *colly.Request) {
		if err := ctx.Err(); err != nil {
			r.Abort()
		}
	})

	collector.OnHTML(".property-header-price", func(e *colly.HTMLElement) {
		raw.Price = strings.TrimSpace(e.Text)
	})

	collector.OnHTML(".property-header-subtitle", func(e *colly.HTMLElement) {
		subtitle := strings.TrimSpace(e.Text)
		if raw.PropertyType == "" {
			raw.PropertyType = propertyTypeFromSubtitle(subtitle)
		}
		if raw.Bedrooms == "" {
			raw.Bedrooms = bedroomsFromText(subtitle)
		}
	})

	collector.OnHTML(".property-header-address", func(e *colly.HTMLElement) {
		address := strings.TrimSpace(e.Text)
		if pc := postcodeInAddressRe.FindString(strings.ToUpper(address)); pc != "" {
			raw.Postcode = pc
		}
	})

	collector.OnHTML(".agent-name, .contactBranch-title", func(e *colly.HTMLElement) {
		if raw.AgentName == "" {
			raw.AgentName = strings.TrimSpace(e.Text)
		}
	})

	collector.OnHTML(".agent-phone, .contactBranch-telephone", func(e *colly.HTMLElement) {
		if raw.AgentPhone == "" {
			raw.AgentPhone = strings.TrimSpace(e.Text)
		}
	})

	collector.OnHTML(".property-description", func(e *colly.HTMLElement) {
		raw.Description = strings.TrimSpace(e.Text)
		if raw.OutdoorSpace == "" {
			raw.OutdoorSpace = outdoorSpaceFromDescription(raw.Description)
		}
	})

	collector.OnResponse(func(r *colly.Response) {
		body := string(r.Body)
		if m := latitudeRe.FindStringSubmatch(body); m != nil {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil {
				raw.Latitude = &v
			}
		}
		if m := longitudeRe.FindStringSubmatch(body); m != nil {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil {
				raw.Longitude = &v
			}
		}
	})

	collector.OnError(func(r *colly.Response, err error) {
		fetchLogger.Error("Failed to fetch listing details", err, port.Fields{
			"url":    r.Request.URL.String(),
			"status": r.StatusCode,
		})

		if r.StatusCode == http.StatusNotFound || r.StatusCode == http.StatusGone {
			gone = true
			return
		}
		criticalError = fmt.Errorf("rightmove adapter: request to %s failed with status %d: %w", r.Request.URL, r.StatusCode, err)
	})

	if visitErr := collector.Visit(listingURL); visitErr != nil {
		fetchLogger.Error("Failed to initiate visit for listing details", visitErr, port.Fields{"url": listingURL})
		return nil, fmt.Errorf("rightmove adapter: failed to visit URL %s: %w", listingURL, visitErr)
	}
	collector.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if criticalError != nil {
		return nil, criticalError
	}
	if gone {
		fetchLogger.Warn("Listing is no longer available (404/410)", port.Fields{"url": listingURL})
		return nil, fmt.Errorf("rightmove adapter: listing %s is no longer available", listingURL)
	}

	fetchLogger.Debug("Fetched listing details", port.Fields{
		"url":         listingURL,
		"property_id": raw.PropertyID,
	})
	return raw, nil
}

func listingIDFromURL(listingURL string) string {
	if m := listingIDRe.FindStringSubmatch(listingURL); m != nil {
		return "RM-" + m[1]
	}
	return listingURL
}

var bedroomsRe = regexp.MustCompile(`(\d+)\s*[-\s]?bed`)

// bedroomsFromText pulls the count out of texts like "3 bedroom terraced
// house for sale" or "3-bed".
func bedroomsFromText(text string) string {
	if m := bedroomsRe.FindStringSubmatch(strings.ToLower(text)); m != nil {
		return m[1]
	}
	return ""
}

// propertyTypeFromSubtitle strips the leading bedroom count and trailing
// sale suffix from subtitles like "3 bedroom semi-detached house for sale".
func propertyTypeFromSubtitle(subtitle string) string {
	s := strings.ToLower(subtitle)
	if idx := strings.Index(s, "for sale"); idx >= 0 {
		subtitle = subtitle[:idx]
		s = s[:idx]
	}
	if idx := strings.Index(s, "bedroom"); idx >= 0 {
		subtitle = subtitle[idx+len("bedroom"):]
	}
	return strings.TrimSpace(subtitle)
}

// outdoorSpaceKeywords in the order they should win when a description
// mentions several.
var outdoorSpaceKeywords = []string{
	"large garden",
	"garden",
	"roof terrace",
	"terrace",
	"patio",
	"courtyard",
	"balcony",
	"yard",
}

func outdoorSpaceFromDescription(description string) string {
	lower := strings.ToLower(description)
	for _, kw := range outdoorSpaceKeywords {
		if strings.Contains(lower, kw) {
			return kw
		}
	}
	return ""
}
