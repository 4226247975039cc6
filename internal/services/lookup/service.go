package lookup

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Nazarious-ucu/weather-lookup/internal/models"
	"github.com/Nazarious-ucu/weather-lookup/internal/services/geocoding"
)

const (
	OperationCurrent  = "current"
	OperationForecast = "forecast"
)

type resolver interface {
	Resolve(ctx context.Context, query string, policy geocoding.MatchPolicy) (models.Coordinate, error)
}

type forecaster interface {
	FetchCurrent(ctx context.Context, coord models.Coordinate) (models.CurrentReading, error)
	FetchFiveDay(ctx context.Context, coord models.Coordinate) ([]models.ForecastDay, error)
}

type recorder interface {
	ObserveLookup(operation string, kind string, d time.Duration)
}

type noopRecorder struct{}

func (noopRecorder) ObserveLookup(string, string, time.Duration) {}

// Service runs the resolve-then-fetch pipeline. It holds no per-request
// state, so one instance serves concurrent callers.
type Service struct {
	resolver   resolver
	forecaster forecaster
	policy     geocoding.MatchPolicy
	logger     zerolog.Logger
	metrics    recorder
}

// NewService wires the pipeline. policy is used whenever a call does not
// request one; rec may be nil.
func NewService(
	logger zerolog.Logger,
	res resolver,
	fc forecaster,
	policy geocoding.MatchPolicy,
	rec recorder,
) *Service {
	if policy == "" {
		policy = geocoding.DefaultMatchPolicy
	}
	if rec == nil {
		rec = noopRecorder{}
	}
	return &Service{resolver: res, forecaster: fc, policy: policy, logger: logger, metrics: rec}
}

// Policy reports the default match policy.
func (s *Service) Policy() geocoding.MatchPolicy {
	return s.policy
}

// Current resolves query and returns the temperature there.
func (s *Service) Current(
	ctx context.Context,
	query string,
	policy geocoding.MatchPolicy,
) (result models.CurrentResult, err error) {
	start := time.Now()
	defer func() { s.finish(ctx, OperationCurrent, query, start, err) }()

	coord, err := s.resolver.Resolve(ctx, query, s.policyOr(policy))
	if err != nil {
		return models.CurrentResult{}, err
	}

	reading, err := s.forecaster.FetchCurrent(ctx, coord)
	if err != nil {
		return models.CurrentResult{}, err
	}

	return models.CurrentResult{
		City:        strings.TrimSpace(query),
		Coordinate:  coord,
		Temperature: reading.Temperature,
	}, nil
}

// Forecast resolves query and returns its five-day forecast.
func (s *Service) Forecast(
	ctx context.Context,
	query string,
	policy geocoding.MatchPolicy,
) (result models.ForecastResult, err error) {
	start := time.Now()
	defer func() { s.finish(ctx, OperationForecast, query, start, err) }()

	coord, err := s.resolver.Resolve(ctx, query, s.policyOr(policy))
	if err != nil {
		return models.ForecastResult{}, err
	}

	days, err := s.forecaster.FetchFiveDay(ctx, coord)
	if err != nil {
		return models.ForecastResult{}, err
	}

	return models.ForecastResult{
		City:       strings.TrimSpace(query),
		Coordinate: coord,
		Days:       days,
	}, nil
}

func (s *Service) policyOr(policy geocoding.MatchPolicy) geocoding.MatchPolicy {
	if policy == "" {
		return s.policy
	}
	return policy
}

func (s *Service) finish(ctx context.Context, operation, query string, start time.Time, err error) {
	kind := Classify(err)
	d := time.Since(start)
	s.metrics.ObserveLookup(operation, string(kind), d)

	if err != nil {
		s.logger.Warn().
			Ctx(ctx).
			Str("operation", operation).
			Str("city", query).
			Str("kind", string(kind)).
			Err(err).
			Dur("duration_ms", d).
			Msg("lookup failed")
		return
	}
	s.logger.Info().
		Ctx(ctx).
		Str("operation", operation).
		Str("city", query).
		Dur("duration_ms", d).
		Msg("lookup succeeded")
}
