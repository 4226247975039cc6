package models

// Coordinate is a resolved geographic point.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// CurrentReading is the temperature reported for the instant of the query.
type CurrentReading struct {
	Temperature float64 `json:"temperature"`
}

// ForecastDay is one daily aggregate of a multi-day forecast.
type ForecastDay struct {
	Date           string  `json:"date"`
	TemperatureMin float64 `json:"temperature_min"`
	TemperatureMax float64 `json:"temperature_max"`
	WeatherCode    int     `json:"weather_code"`
}

// CurrentResult associates a current reading with the text the user asked for.
type CurrentResult struct {
	City        string     `json:"city"`
	Coordinate  Coordinate `json:"coordinate"`
	Temperature float64    `json:"temperature"`
}

// ForecastResult associates a five-day forecast with the text the user asked for.
type ForecastResult struct {
	City       string        `json:"city"`
	Coordinate Coordinate    `json:"coordinate"`
	Days       []ForecastDay `json:"days"`
}
