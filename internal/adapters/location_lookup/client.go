package location_lookup

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/bchiyangwa9/london-property-analyzer/internal/contextkeys"
	"github.com/bchiyangwa9/london-property-analyzer/internal/core/domain"
	"github.com/bchiyangwa9/london-property-analyzer/internal/core/port"
)

// Client implements LocationLookupPort against the location API service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// doRequest is the shared request helper. It forwards the trace id so the
// location service logs line up with ours.
func (c *Client) doRequest(ctx context.Context, path string, query url.Values) (*http.Response, error) {
	traceID := contextkeys.TraceIDFromContext(ctx)

	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if traceID != "" {
		req.Header.Set("X-Trace-ID", traceID)
	}
	req.Header.Set("Accept", "application/json")

	return c.httpClient.Do(req)
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	logger := contextkeys.LoggerFromContext(ctx)
	clientLogger := logger.WithFields(port.Fields{
		"component": "LocationApiClient",
		"path":      path,
	})

	clientLogger.Debug("Sending request to location service", port.Fields{"query": query.Encode()})

	resp, err := c.doRequest(ctx, path, query)
	if err != nil {
		clientLogger.Error("Failed to perform request to location service", err, nil)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		err := fmt.Errorf("location service returned non-success status code %d: %s", resp.StatusCode, string(bodyBytes))
		clientLogger.Error("Received error response from location service", err, port.Fields{"status_code": resp.StatusCode})
		return err
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		clientLogger.Error("Failed to decode response from location service", err, nil)
		return err
	}

	return nil
}

func (c *Client) CommuteTime(ctx context.Context, fromPostcode, toPostcode string) (*port.CommuteInfo, error) {
	query := url.Values{}
	query.Set("from", fromPostcode)
	query.Set("to", toPostcode)

	var dto commuteResponse
	if err := c.getJSON(ctx, "/api/v1/commute", query, &dto); err != nil {
		return nil, err
	}

	return &port.CommuteInfo{
		DurationMinutes: dto.DurationMinutes,
		DistanceKM:      dto.DistanceKM,
		RouteSummary:    dto.RouteSummary,
	}, nil
}

func (c *Client) NearestStation(ctx context.Context, postcode string) (*port.StationInfo, error) {
	query := url.Values{}
	query.Set("postcode", postcode)

	var dto stationResponse
	if err := c.getJSON(ctx, "/api/v1/stations/nearest", query, &dto); err != nil {
		return nil, err
	}

	return &port.StationInfo{
		Name:       dto.Name,
		DistanceKM: dto.DistanceKM,
		Lines:      dto.Lines,
	}, nil
}

func (c *Client) NearestSchool(ctx context.Context, postcode string) (*port.SchoolInfo, error) {
	query := url.Values{}
	query.Set("postcode", postcode)

	var dto schoolResponse
	if err := c.getJSON(ctx, "/api/v1/schools/nearest", query, &dto); err != nil {
		return nil, err
	}

	return &port.SchoolInfo{
		Name:         dto.Name,
		OfstedRating: domain.OfstedRating(dto.OfstedRating),
		DistanceKM:   dto.DistanceKM,
	}, nil
}

func (c *Client) GrammarSchools(ctx context.Context, postcode string) (*port.GrammarInfo, error) {
	query := url.Values{}
	query.Set("postcode", postcode)

	var dto grammarResponse
	if err := c.getJSON(ctx, "/api/v1/grammar-schools", query, &dto); err != nil {
		return nil, err
	}

	return &port.GrammarInfo{
		Proximity: domain.GrammarProximity(dto.InCatchment),
		Schools:   dto.Schools,
	}, nil
}
