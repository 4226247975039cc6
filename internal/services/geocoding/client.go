package geocoding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Nazarious-ucu/weather-lookup/internal/models"
)

var (
	// ErrEmptyInput is returned before any network access when the query is blank.
	ErrEmptyInput = errors.New("empty location query")
	// ErrTransport covers request failures, non-2xx statuses and unreadable bodies.
	ErrTransport = errors.New("geocoding request failed")
	// ErrLocationNotFound means the service answered but no candidate was acceptable.
	ErrLocationNotFound = errors.New("location not found")
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type apiResponse struct {
	Results []struct {
		Name      *string  `json:"name"`
		Latitude  *float64 `json:"latitude"`
		Longitude *float64 `json:"longitude"`
	} `json:"results"`
}

// Client resolves place names through the Open-Meteo geocoding API.
type Client struct {
	apiURL string
	client HTTPClient
	logger zerolog.Logger
}

// NewClient constructs a geocoding client against apiURL
// (e.g. https://geocoding-api.open-meteo.com/v1/search).
func NewClient(apiURL string, httpClient HTTPClient, logger zerolog.Logger) *Client {
	return &Client{apiURL: apiURL, client: httpClient, logger: logger}
}

// Resolve returns the coordinates of the single best match for query.
// Exactly one request is issued for non-blank input; none for blank input.
func (c *Client) Resolve(ctx context.Context, query string, policy MatchPolicy) (models.Coordinate, error) {
	start := time.Now()

	name := strings.TrimSpace(query)
	if name == "" {
		return models.Coordinate{}, ErrEmptyInput
	}

	params := url.Values{
		"name":  {name},
		"count": {"1"},
	}
	reqURL := c.apiURL + "?" + params.Encode()

	c.logger.Debug().
		Str("city", name).
		Str("url", reqURL).
		Str("policy", string(policy)).
		Msg("starting geocoding request")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		c.logger.Error().
			Err(err).
			Str("city", name).
			Msg("failed to create HTTP request")
		return models.Coordinate{}, fmt.Errorf("%w: create request: %w", ErrTransport, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Error().
			Err(err).
			Str("city", name).
			Msg("error sending HTTP request to geocoding API")
		return models.Coordinate{}, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer func(body io.ReadCloser) {
		if cerr := body.Close(); cerr != nil {
			c.logger.Error().
				Err(cerr).
				Str("city", name).
				Msg("failed to close response body")
		}
	}(resp.Body)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		c.logger.Error().
			Str("city", name).
			Str("status", resp.Status).
			Msg("geocoding API returned non-success status")
		return models.Coordinate{}, fmt.Errorf("%w: status %s", ErrTransport, resp.Status)
	}

	var raw apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		c.logger.Error().
			Err(err).
			Str("city", name).
			Msg("failed to decode geocoding response")
		return models.Coordinate{}, fmt.Errorf("%w: decode: %w", ErrTransport, err)
	}

	if len(raw.Results) == 0 {
		c.logger.Info().
			Str("city", name).
			Msg("geocoding returned no candidates")
		return models.Coordinate{}, fmt.Errorf("%w: %q", ErrLocationNotFound, name)
	}

	top := raw.Results[0]
	if top.Latitude == nil || top.Longitude == nil {
		c.logger.Warn().
			Str("city", name).
			Msg("top candidate has no coordinates")
		return models.Coordinate{}, fmt.Errorf("%w: %q has no coordinates", ErrLocationNotFound, name)
	}

	if policy != MatchLoose && (top.Name == nil || !policy.accepts(name, *top.Name)) {
		candidate := ""
		if top.Name != nil {
			candidate = *top.Name
		}
		c.logger.Info().
			Str("city", name).
			Str("candidate", candidate).
			Msg("top candidate name does not match query")
		return models.Coordinate{}, fmt.Errorf("%w: %q matched %q", ErrLocationNotFound, name, candidate)
	}

	coord := models.Coordinate{Latitude: *top.Latitude, Longitude: *top.Longitude}

	c.logger.Info().
		Str("city", name).
		Float64("latitude", coord.Latitude).
		Float64("longitude", coord.Longitude).
		Dur("duration_ms", time.Since(start)).
		Msg("resolved location")

	return coord, nil
}
