package weather

import (
	"errors"
	"fmt"
)

var (
	// ErrTransport covers request failures and non-2xx statuses of the forecast API.
	ErrTransport = errors.New("forecast request failed")
	// ErrCurrentTransport is the current-conditions flavour of ErrTransport.
	ErrCurrentTransport = fmt.Errorf("%w: current conditions", ErrTransport)
	// ErrForecastTransport is the daily-aggregates flavour of ErrTransport.
	ErrForecastTransport = fmt.Errorf("%w: daily forecast", ErrTransport)

	// ErrNoCurrentData means the response lacked a usable current_weather block.
	ErrNoCurrentData = errors.New("no current weather data")
	// ErrIncompleteForecast means the daily arrays were missing, malformed or too short.
	ErrIncompleteForecast = errors.New("incomplete forecast data")
)
