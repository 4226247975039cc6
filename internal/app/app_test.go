package app_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Nazarious-ucu/weather-lookup/internal/app"
	"github.com/Nazarious-ucu/weather-lookup/internal/config"
	"github.com/Nazarious-ucu/weather-lookup/internal/services/geocoding"
	metricsSvc "github.com/Nazarious-ucu/weather-lookup/internal/services/metrics"
)

const (
	krakowGeo = `{"results":[{"name":"Kraków","latitude":50.0614,"longitude":19.9366}]}`
	lvivDaily = `{"daily":{
		"time":["2025-06-01","2025-06-02","2025-06-03","2025-06-04","2025-06-05","2025-06-06"],
		"temperature_2m_max":[20,21,22,23,24,25],
		"temperature_2m_min":[10,11,12,13,14,15],
		"weathercode":[0,61,12345,3,95,1]}}`
)

func fakeOpenMeteo(t *testing.T, geoBody, forecastBody string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/search", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(geoBody))
	})
	mux.HandleFunc("/v1/forecast", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("current_weather") == "true" {
			_, _ = w.Write([]byte(`{"current_weather":{"temperature":25}}`))
			return
		}
		_, _ = w.Write([]byte(forecastBody))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(t *testing.T, srv *httptest.Server) config.Config {
	t.Helper()
	dir := t.TempDir()
	return config.Config{
		Server: config.Server{Host: "127.0.0.1", Port: "0", ReadTimeout: 5},
		Breaker: config.Breaker{
			Enabled:      true,
			TimeInterval: 30,
			TimeTimeOut:  10,
			RepeatNumber: 5,
		},
		Upstream: config.Upstream{
			GeocodingURL: srv.URL + "/v1/search",
			ForecastURL:  srv.URL + "/v1/forecast",
			MatchPolicy:  geocoding.MatchStrict,
			Timeout:      5,
		},
		LogsPath:     filepath.Join(dir, "app.log"),
		HTTPLogsPath: filepath.Join(dir, "http.log"),
	}
}

func newRouter(t *testing.T, cfg config.Config, met *metricsSvc.Metrics) http.Handler {
	t.Helper()
	client := app.NewHTTPClient(cfg, zap.NewNop())
	if met == nil {
		return app.NewRouter(app.NewLookupService(cfg, zerolog.Nop(), client, nil), nil)
	}
	return app.NewRouter(app.NewLookupService(cfg, zerolog.Nop(), client, met), met)
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	h.ServeHTTP(rec, req)
	return rec
}

func TestRouter_CurrentEndToEnd(t *testing.T) {
	srv := fakeOpenMeteo(t, krakowGeo, "")
	h := newRouter(t, testConfig(t, srv), nil)

	rec := get(t, h, "/api/weather/current?city=Krak%C3%B3w")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t,
		`{"city":"Kraków","coordinate":{"latitude":50.0614,"longitude":19.9366},"temperature":25}`,
		rec.Body.String())
}

func TestRouter_ForecastEndToEnd(t *testing.T) {
	srv := fakeOpenMeteo(t, `{"results":[{"name":"Lviv","latitude":49.84,"longitude":24.03}]}`, lvivDaily)
	h := newRouter(t, testConfig(t, srv), nil)

	rec := get(t, h, "/api/weather/forecast?city=Lviv")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `"description":"Thunderstorm"`)
	assert.Contains(t, body, `"description":"Unknown"`)
	assert.NotContains(t, body, "2025-06-06")
}

func TestRouter_StrictAndLooseMatching(t *testing.T) {
	srv := fakeOpenMeteo(t, krakowGeo, "")
	h := newRouter(t, testConfig(t, srv), nil)

	rec := get(t, h, "/api/weather/current?city=Krakow")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"City not found. Please check the spelling."}`, rec.Body.String())

	rec = get(t, h, "/api/weather/current?city=Krakow&match=loose")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_BlankCity(t *testing.T) {
	srv := fakeOpenMeteo(t, krakowGeo, "")
	h := newRouter(t, testConfig(t, srv), nil)

	rec := get(t, h, "/api/weather/current?city=%20%20")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Please enter a city name."}`, rec.Body.String())
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	srv := fakeOpenMeteo(t, krakowGeo, "")
	h := newRouter(t, testConfig(t, srv), metricsSvc.NewMetrics("weather_lookup"))

	rec := get(t, h, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = get(t, h, "/api/weather/current?city=Krak%C3%B3w")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = get(t, h, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body,
		`weather_lookup_lookups_total{operation="current",outcome="ok"} 1`), body)
	assert.Contains(t, body, `endpoint="/api/weather/current"`)
}

func TestApp_StartStopsOnCancel(t *testing.T) {
	srv := fakeOpenMeteo(t, krakowGeo, "")
	a := app.New(testConfig(t, srv), zerolog.Nop(), metricsSvc.NewMetrics("weather_lookup"))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Start(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Start did not return after cancel")
	}
}
