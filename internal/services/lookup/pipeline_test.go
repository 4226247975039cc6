package lookup_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nazarious-ucu/weather-lookup/internal/models"
	"github.com/Nazarious-ucu/weather-lookup/internal/services/geocoding"
	"github.com/Nazarious-ucu/weather-lookup/internal/services/lookup"
	"github.com/Nazarious-ucu/weather-lookup/internal/services/weather"
)

type upstream struct {
	geoCalls      atomic.Int32
	forecastCalls atomic.Int32
	geoBody       string
	forecastBody  string
	forecastCode  int
}

func (u *upstream) server(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/search", func(w http.ResponseWriter, _ *http.Request) {
		u.geoCalls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(u.geoBody))
	})
	mux.HandleFunc("/v1/forecast", func(w http.ResponseWriter, _ *http.Request) {
		u.forecastCalls.Add(1)
		if u.forecastCode != 0 {
			w.WriteHeader(u.forecastCode)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(u.forecastBody))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newPipeline(srv *httptest.Server) *lookup.Service {
	l := zerolog.Nop()
	return lookup.NewService(l,
		geocoding.NewClient(srv.URL+"/v1/search", srv.Client(), l),
		weather.NewClientOpenMeteo(srv.URL+"/v1/forecast", srv.Client(), l),
		geocoding.MatchStrict,
		nil,
	)
}

func TestPipeline_KrakowCurrentTemperature(t *testing.T) {
	u := &upstream{
		geoBody:      `{"results":[{"name":"Kraków","latitude":50.0614,"longitude":19.9366}]}`,
		forecastBody: `{"current_weather":{"temperature":25}}`,
	}
	svc := newPipeline(u.server(t))

	result, err := svc.Current(context.Background(), "Kraków", "")
	require.NoError(t, err)

	assert.Equal(t, "Kraków", result.City)
	assert.Equal(t, 25.0, result.Temperature)
	assert.Equal(t, models.Coordinate{Latitude: 50.0614, Longitude: 19.9366}, result.Coordinate)
	assert.Equal(t, int32(1), u.geoCalls.Load())
	assert.Equal(t, int32(1), u.forecastCalls.Load())
}

func TestPipeline_BlankInputTouchesNothing(t *testing.T) {
	u := &upstream{}
	svc := newPipeline(u.server(t))

	for _, q := range []string{"", "   "} {
		_, err := svc.Current(context.Background(), q, "")
		assert.Equal(t, lookup.MsgEmptyInput, lookup.UserMessage(err))
	}
	assert.Equal(t, int32(0), u.geoCalls.Load())
	assert.Equal(t, int32(0), u.forecastCalls.Load())
}

func TestPipeline_WeatherFailureMessage(t *testing.T) {
	u := &upstream{
		geoBody:      `{"results":[{"name":"Warszawa","latitude":52.2297,"longitude":21.0122}]}`,
		forecastCode: http.StatusInternalServerError,
	}
	svc := newPipeline(u.server(t))

	_, err := svc.Current(context.Background(), "Warszawa", "")
	assert.Equal(t, lookup.MsgCurrentTransport, lookup.UserMessage(err))

	_, err = svc.Forecast(context.Background(), "Warszawa", "")
	assert.Equal(t, lookup.MsgForecastTransport, lookup.UserMessage(err))
}

func TestPipeline_CityNotFound(t *testing.T) {
	u := &upstream{geoBody: `{"results":[]}`}
	svc := newPipeline(u.server(t))

	_, err := svc.Current(context.Background(), "NieistniejąceMiasto", "")
	assert.Equal(t, lookup.MsgLocationNotFound, lookup.UserMessage(err))
	assert.Equal(t, int32(0), u.forecastCalls.Load())
}
