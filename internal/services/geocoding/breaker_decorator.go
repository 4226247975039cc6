package geocoding

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"

	"github.com/Nazarious-ucu/weather-lookup/internal/models"
)

type resolver interface {
	Resolve(ctx context.Context, query string, policy MatchPolicy) (models.Coordinate, error)
}

type BreakerConfig struct {
	TimeInterval time.Duration
	TimeTimeOut  time.Duration
	RepeatNumber uint32
}

// BreakerResolver fails fast while the geocoding service keeps failing at the
// transport level. Blank input and unmatched names do not count as failures.
type BreakerResolver struct {
	name    string
	cb      *gobreaker.CircuitBreaker
	wrapped resolver
}

func NewBreakerResolver(name string, cfg BreakerConfig, wrapped resolver) *BreakerResolver {
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
	return &BreakerResolver{
		name:    name,
		cb:      gobreaker.NewCircuitBreaker(settings),
		wrapped: wrapped,
	}
}

func (b *BreakerResolver) Resolve(ctx context.Context, query string, policy MatchPolicy) (models.Coordinate, error) {
	result, err := b.cb.Execute(func() (interface{}, error) {
		return b.wrapped.Resolve(ctx, query, policy)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return models.Coordinate{}, fmt.Errorf("%s unavailable: %w: %w", b.name, ErrTransport, err)
		}
		if errors.Is(err, ErrTransport) {
			return models.Coordinate{}, fmt.Errorf("%s unavailable: %w", b.name, err)
		}
		return models.Coordinate{}, err
	}
	res, ok := result.(models.Coordinate)
	if !ok {
		return models.Coordinate{}, fmt.Errorf("%s returned unexpected result: %w", b.name, ErrTransport)
	}
	return res, nil
}
