package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/Nazarious-ucu/weather-lookup/internal/models"
)

// ForecastDays is the length of every five-day forecast.
const ForecastDays = 5

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type currentResponse struct {
	CurrentWeather *struct {
		Temperature *float64 `json:"temperature"`
	} `json:"current_weather"`
}

type dailyResponse struct {
	Daily *struct {
		Time           []*string  `json:"time"`
		TemperatureMax []*float64 `json:"temperature_2m_max"`
		TemperatureMin []*float64 `json:"temperature_2m_min"`
		WeatherCode    []*int     `json:"weathercode"`
	} `json:"daily"`
}

// ClientOpenMeteo fetches current conditions and daily aggregates from the
// Open-Meteo forecast API.
type ClientOpenMeteo struct {
	apiURL string
	client HTTPClient
	logger zerolog.Logger
}

// NewClientOpenMeteo constructs a forecast client against apiURL
// (e.g. https://api.open-meteo.com/v1/forecast).
func NewClientOpenMeteo(apiURL string, httpClient HTTPClient, logger zerolog.Logger) *ClientOpenMeteo {
	return &ClientOpenMeteo{apiURL: apiURL, client: httpClient, logger: logger}
}

// FetchCurrent returns the current temperature at coord, unconverted.
func (c *ClientOpenMeteo) FetchCurrent(ctx context.Context, coord models.Coordinate) (models.CurrentReading, error) {
	start := time.Now()

	params := coordinateParams(coord)
	params.Set("current_weather", "true")

	var raw currentResponse
	if err := c.get(ctx, params, &raw, ErrCurrentTransport); err != nil {
		if isDecodeError(err) {
			return models.CurrentReading{}, fmt.Errorf("%w: %w", ErrNoCurrentData, err)
		}
		return models.CurrentReading{}, err
	}

	if raw.CurrentWeather == nil || raw.CurrentWeather.Temperature == nil {
		c.logger.Warn().
			Float64("latitude", coord.Latitude).
			Float64("longitude", coord.Longitude).
			Msg("response has no current_weather block")
		return models.CurrentReading{}, ErrNoCurrentData
	}

	c.logger.Info().
		Float64("latitude", coord.Latitude).
		Float64("longitude", coord.Longitude).
		Dur("duration_ms", time.Since(start)).
		Msg("successfully fetched current weather")

	return models.CurrentReading{Temperature: *raw.CurrentWeather.Temperature}, nil
}

// FetchFiveDay returns the first ForecastDays daily aggregates at coord, in
// upstream order. A shorter or malformed series is rejected as a whole.
func (c *ClientOpenMeteo) FetchFiveDay(ctx context.Context, coord models.Coordinate) ([]models.ForecastDay, error) {
	start := time.Now()

	params := coordinateParams(coord)
	params.Set("daily", "temperature_2m_max,temperature_2m_min,weathercode")
	params.Set("timezone", "auto")

	var raw dailyResponse
	if err := c.get(ctx, params, &raw, ErrForecastTransport); err != nil {
		if isDecodeError(err) {
			return nil, fmt.Errorf("%w: %w", ErrIncompleteForecast, err)
		}
		return nil, err
	}

	d := raw.Daily
	if d == nil || d.Time == nil || d.TemperatureMax == nil || d.TemperatureMin == nil || d.WeatherCode == nil {
		c.logger.Warn().
			Float64("latitude", coord.Latitude).
			Float64("longitude", coord.Longitude).
			Msg("response is missing daily arrays")
		return nil, ErrIncompleteForecast
	}

	shortest := min(len(d.Time), len(d.TemperatureMax), len(d.TemperatureMin), len(d.WeatherCode))
	if shortest < ForecastDays {
		c.logger.Warn().
			Int("entries", shortest).
			Msg("daily series shorter than forecast window")
		return nil, fmt.Errorf("%w: %d of %d days", ErrIncompleteForecast, shortest, ForecastDays)
	}

	days := make([]models.ForecastDay, 0, ForecastDays)
	for i := 0; i < ForecastDays; i++ {
		if d.Time[i] == nil || d.TemperatureMax[i] == nil || d.TemperatureMin[i] == nil || d.WeatherCode[i] == nil {
			return nil, fmt.Errorf("%w: null value on day %d", ErrIncompleteForecast, i)
		}
		days = append(days, models.ForecastDay{
			Date:           *d.Time[i],
			TemperatureMin: *d.TemperatureMin[i],
			TemperatureMax: *d.TemperatureMax[i],
			WeatherCode:    *d.WeatherCode[i],
		})
	}

	c.logger.Info().
		Float64("latitude", coord.Latitude).
		Float64("longitude", coord.Longitude).
		Int("days", len(days)).
		Dur("duration_ms", time.Since(start)).
		Msg("successfully fetched daily forecast")

	return days, nil
}

type decodeError struct {
	err error
}

func (e *decodeError) Error() string { return "decode response: " + e.err.Error() }

func (e *decodeError) Unwrap() error { return e.err }

func isDecodeError(err error) bool {
	_, ok := err.(*decodeError)
	return ok
}

// get issues one GET request and decodes the JSON body into out. Request
// failures and non-2xx statuses are wrapped with transportErr.
func (c *ClientOpenMeteo) get(ctx context.Context, params url.Values, out any, transportErr error) error {
	reqURL := c.apiURL + "?" + params.Encode()

	c.logger.Debug().
		Str("url", reqURL).
		Msg("starting Open-Meteo request")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		c.logger.Error().
			Err(err).
			Str("url", reqURL).
			Msg("failed to create HTTP request")
		return fmt.Errorf("%w: create request: %w", transportErr, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Error().
			Err(err).
			Str("url", reqURL).
			Msg("error sending HTTP request to Open-Meteo")
		return fmt.Errorf("%w: %w", transportErr, err)
	}
	defer func(body io.ReadCloser) {
		if cerr := body.Close(); cerr != nil {
			c.logger.Error().
				Err(cerr).
				Msg("failed to close response body")
		}
	}(resp.Body)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		c.logger.Error().
			Str("url", reqURL).
			Str("status", resp.Status).
			Msg("Open-Meteo API returned non-success status")
		return fmt.Errorf("%w: status %s", transportErr, resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.logger.Error().
			Err(err).
			Str("url", reqURL).
			Msg("failed to decode Open-Meteo response")
		return &decodeError{err: err}
	}
	return nil
}

func coordinateParams(coord models.Coordinate) url.Values {
	return url.Values{
		"latitude":  {strconv.FormatFloat(coord.Latitude, 'f', -1, 64)},
		"longitude": {strconv.FormatFloat(coord.Longitude, 'f', -1, 64)},
	}
}
