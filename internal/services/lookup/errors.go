package lookup

import (
	"errors"

	"github.com/Nazarious-ucu/weather-lookup/internal/services/geocoding"
	"github.com/Nazarious-ucu/weather-lookup/internal/services/weather"
)

// Kind names one category of the lookup error taxonomy.
type Kind string

const (
	KindNone                Kind = "ok"
	KindEmptyInput          Kind = "empty_input"
	KindResolutionTransport Kind = "resolution_transport"
	KindLocationNotFound    Kind = "location_not_found"
	KindForecastTransport   Kind = "forecast_transport"
	KindNoCurrentData       Kind = "no_current_data"
	KindIncompleteForecast  Kind = "incomplete_forecast"
	KindUnknown             Kind = "unknown"
)

const (
	MsgEmptyInput          = "Please enter a city name."
	MsgResolutionTransport = "Failed to fetch coordinates"
	MsgLocationNotFound    = "City not found. Please check the spelling."
	MsgCurrentTransport    = "Failed to fetch weather data"
	MsgForecastTransport   = "Failed to fetch weather forecast"
	MsgNoCurrentData       = "Weather data not found for this location"
	MsgIncompleteForecast  = "Incomplete weather data received"
	MsgUnexpected          = "An unexpected error occurred."
)

// Classify maps err onto exactly one Kind.
func Classify(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, geocoding.ErrEmptyInput):
		return KindEmptyInput
	case errors.Is(err, geocoding.ErrLocationNotFound):
		return KindLocationNotFound
	case errors.Is(err, geocoding.ErrTransport):
		return KindResolutionTransport
	case errors.Is(err, weather.ErrTransport):
		return KindForecastTransport
	case errors.Is(err, weather.ErrNoCurrentData):
		return KindNoCurrentData
	case errors.Is(err, weather.ErrIncompleteForecast):
		return KindIncompleteForecast
	default:
		return KindUnknown
	}
}

// UserMessage converts err into the single message shown to the user.
// Uncategorized errors never leak their diagnostic text.
func UserMessage(err error) string {
	switch Classify(err) {
	case KindNone:
		return ""
	case KindEmptyInput:
		return MsgEmptyInput
	case KindResolutionTransport:
		return MsgResolutionTransport
	case KindLocationNotFound:
		return MsgLocationNotFound
	case KindForecastTransport:
		if errors.Is(err, weather.ErrForecastTransport) {
			return MsgForecastTransport
		}
		return MsgCurrentTransport
	case KindNoCurrentData:
		return MsgNoCurrentData
	case KindIncompleteForecast:
		return MsgIncompleteForecast
	default:
		return MsgUnexpected
	}
}
