package weather

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"

	"github.com/Nazarious-ucu/weather-lookup/internal/models"
)

type client interface {
	FetchCurrent(ctx context.Context, coord models.Coordinate) (models.CurrentReading, error)
	FetchFiveDay(ctx context.Context, coord models.Coordinate) ([]models.ForecastDay, error)
}

type BreakerConfig struct {
	TimeInterval time.Duration
	TimeTimeOut  time.Duration
	RepeatNumber uint32
}

// BreakerClient shares one circuit breaker between both forecast paths.
// Only transport failures count against it; a call rejected by an open
// breaker is reported as a transport failure of the requested path.
type BreakerClient struct {
	name    string
	cb      *gobreaker.CircuitBreaker
	wrapped client
}

func NewBreakerClient(name string, cfg BreakerConfig, wrapped client) *BreakerClient {
	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    cfg.TimeInterval,
		Timeout:     cfg.TimeTimeOut,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.RepeatNumber
		},
		// A caller that gave up says nothing about the upstream.
		IsSuccessful: func(err error) bool {
			return err == nil || !errors.Is(err, ErrTransport) || errors.Is(err, context.Canceled)
		},
	}
	return &BreakerClient{
		name:    name,
		cb:      gobreaker.NewCircuitBreaker(settings),
		wrapped: wrapped,
	}
}

func (b *BreakerClient) FetchCurrent(ctx context.Context, coord models.Coordinate) (models.CurrentReading, error) {
	result, err := b.cb.Execute(func() (interface{}, error) {
		return b.wrapped.FetchCurrent(ctx, coord)
	})
	if err != nil {
		return models.CurrentReading{}, b.wrapErr(err, ErrCurrentTransport)
	}
	res, ok := result.(models.CurrentReading)
	if !ok {
		return models.CurrentReading{}, fmt.Errorf("%s returned unexpected result: %w", b.name, ErrCurrentTransport)
	}
	return res, nil
}

func (b *BreakerClient) FetchFiveDay(ctx context.Context, coord models.Coordinate) ([]models.ForecastDay, error) {
	result, err := b.cb.Execute(func() (interface{}, error) {
		return b.wrapped.FetchFiveDay(ctx, coord)
	})
	if err != nil {
		return nil, b.wrapErr(err, ErrForecastTransport)
	}
	res, ok := result.([]models.ForecastDay)
	if !ok {
		return nil, fmt.Errorf("%s returned unexpected result: %w", b.name, ErrForecastTransport)
	}
	return res, nil
}

func (b *BreakerClient) wrapErr(err, transportErr error) error {
	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return fmt.Errorf("%s unavailable: %w: %w", b.name, transportErr, err)
	case errors.Is(err, ErrTransport):
		return fmt.Errorf("%s unavailable: %w", b.name, err)
	default:
		return err
	}
}
