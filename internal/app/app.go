package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"go.uber.org/zap"

	"github.com/Nazarious-ucu/weather-lookup/internal/config"
	"github.com/Nazarious-ucu/weather-lookup/internal/handlers/weather"
	"github.com/Nazarious-ucu/weather-lookup/internal/models"
	"github.com/Nazarious-ucu/weather-lookup/internal/services/geocoding"
	loggerT "github.com/Nazarious-ucu/weather-lookup/internal/services/logger"
	"github.com/Nazarious-ucu/weather-lookup/internal/services/lookup"
	metricsSvc "github.com/Nazarious-ucu/weather-lookup/internal/services/metrics"
	serviceWeather "github.com/Nazarious-ucu/weather-lookup/internal/services/weather"
	fLogger "github.com/Nazarious-ucu/weather-lookup/pkg/logger"
)

const shutdownTimeout = 5 * time.Second

// ServiceContainer holds initialized dependencies for the HTTP server.
type ServiceContainer struct {
	LookupService *lookup.Service

	Router     *gin.Engine
	Srv        *http.Server
	fileLogger *zap.Logger
}

// App ties together config, logger, and metrics for startup/shutdown.
type App struct {
	cfg config.Config
	l   zerolog.Logger
	m   *metricsSvc.Metrics
}

type resolver interface {
	Resolve(ctx context.Context, query string, policy geocoding.MatchPolicy) (models.Coordinate, error)
}

type forecaster interface {
	FetchCurrent(ctx context.Context, coord models.Coordinate) (models.CurrentReading, error)
	FetchFiveDay(ctx context.Context, coord models.Coordinate) ([]models.ForecastDay, error)
}

type lookupRecorder interface {
	ObserveLookup(operation string, outcome string, d time.Duration)
}

// New prepares a new App with given config, zerolog logger, and metrics.
func New(cfg config.Config, logger zerolog.Logger, met *metricsSvc.Metrics) *App {
	return &App{
		cfg: cfg,
		l:   logger,
		m:   met,
	}
}

// Start serves HTTP until ctx is cancelled or the listener fails, then
// shuts down gracefully.
func (a *App) Start(ctx context.Context) error {
	srvContainer, err := a.init()
	if err != nil {
		return err
	}

	a.l.Info().
		Str("address", srvContainer.Srv.Addr).
		Msg("starting weather lookup service")

	errCh := make(chan error, 1)
	go func() {
		if err := srvContainer.Srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		a.l.Info().Msg("shutdown signal received, stopping weather lookup service")
	case serveErr = <-errCh:
		if serveErr != nil {
			a.l.Error().Err(serveErr).Msg("HTTP server failed")
		}
	}

	if err := a.Shutdown(srvContainer); err != nil {
		a.l.Error().Err(err).Msg("failed to shutdown application")
		return err
	}
	a.l.Info().Msg("application shutdown successfully")
	return serveErr
}

// Shutdown stops the HTTP server and syncs the request log.
func (a *App) Shutdown(srvContainer ServiceContainer) error {
	a.l.Info().Msg("stopping weather lookup service…")

	defer func(logger *zap.Logger) {
		if err := logger.Sync(); err != nil {
			a.l.Error().Err(err).Msg("failed to sync file logger")
		} else {
			a.l.Info().Msg("file logger synced successfully")
		}
	}(srvContainer.fileLogger)

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srvContainer.Srv.Shutdown(ctx); err != nil {
		return err
	}
	a.l.Info().Msg("shutdown complete")
	return nil
}

// init builds the lookup pipeline and router without starting anything.
func (a *App) init() (ServiceContainer, error) {
	a.l.Info().Msgf("initializing weather lookup service with config: %+v", a.cfg)

	fileLogger, err := fLogger.NewRequestLogger(a.cfg.HTTPLogsPath)
	if err != nil {
		a.l.Error().Err(err).Msg("failed to create file logger")
		return ServiceContainer{}, err
	}

	var rec lookupRecorder
	if a.m != nil {
		rec = a.m
	}
	svc := NewLookupService(a.cfg, a.l, NewHTTPClient(a.cfg, fileLogger), rec)

	router := NewRouter(svc, a.m)

	return ServiceContainer{
		LookupService: svc,
		Router:        router,
		Srv: &http.Server{
			Addr:        a.cfg.ServerAddress(),
			Handler:     router,
			ReadTimeout: time.Duration(a.cfg.Server.ReadTimeout) * time.Second,
		},
		fileLogger: fileLogger,
	}, nil
}

// NewHTTPClient returns the client shared by both upstream APIs. Every call
// is bounded by the configured timeout and logged to fileLogger.
func NewHTTPClient(cfg config.Config, fileLogger *zap.Logger) *http.Client {
	return &http.Client{
		Transport: loggerT.NewRoundTripper(fileLogger),
		Timeout:   cfg.ClientTimeout(),
	}
}

// NewLookupService wires the geocoding and forecast clients, behind circuit
// breakers when enabled, into a lookup.Service. rec may be nil.
func NewLookupService(
	cfg config.Config,
	logger zerolog.Logger,
	httpClient *http.Client,
	rec lookupRecorder,
) *lookup.Service {
	var (
		res resolver   = geocoding.NewClient(cfg.Upstream.GeocodingURL, httpClient, logger)
		fc  forecaster = serviceWeather.NewClientOpenMeteo(cfg.Upstream.ForecastURL, httpClient, logger)
	)

	if cfg.Breaker.Enabled {
		interval := time.Duration(cfg.Breaker.TimeInterval) * time.Second
		timeout := time.Duration(cfg.Breaker.TimeTimeOut) * time.Second

		res = geocoding.NewBreakerResolver("Geocoding", geocoding.BreakerConfig{
			TimeInterval: interval,
			TimeTimeOut:  timeout,
			RepeatNumber: cfg.Breaker.RepeatNumber,
		}, res)
		fc = serviceWeather.NewBreakerClient("OpenMeteo", serviceWeather.BreakerConfig{
			TimeInterval: interval,
			TimeTimeOut:  timeout,
			RepeatNumber: cfg.Breaker.RepeatNumber,
		}, fc)
	}

	return lookup.NewService(logger, res, fc, cfg.Upstream.MatchPolicy, rec)
}

// NewRouter mounts the weather endpoints, liveness, and metrics. met may be
// nil, in which case neither the middleware nor /metrics is installed.
func NewRouter(svc *lookup.Service, met *metricsSvc.Metrics) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	if met != nil {
		router.Use(met.HTTPMiddleware())
		router.GET("/metrics", gin.WrapH(met.Handler()))
	}

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	weatherHandler := weather.NewHandler(svc)
	api := router.Group("/api/weather")
	{
		api.GET("/current", weatherHandler.GetCurrent)
		api.GET("/forecast", weatherHandler.GetForecast)
	}
	return router
}
