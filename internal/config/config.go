package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/Nazarious-ucu/weather-lookup/internal/services/geocoding"
)

type Server struct {
	Host        string `envconfig:"LOOKUP_SERVER_HOST" default:"0.0.0.0"`
	Port        string `envconfig:"LOOKUP_SERVER_PORT" default:"8080"`
	ReadTimeout int    `envconfig:"LOOKUP_SERVER_TIMEOUT" default:"10"`
}

type Breaker struct {
	Enabled      bool   `envconfig:"BREAKER_ENABLED" default:"true"`
	TimeInterval int    `envconfig:"BREAKER_INTERVAL" default:"30"`
	TimeTimeOut  int    `envconfig:"BREAKER_TIMEOUT" default:"10"`
	RepeatNumber uint32 `envconfig:"BREAKER_REPEAT_NUM" default:"5"`
}

type Upstream struct {
	GeocodingURL string                `envconfig:"GEOCODING_API_URL" default:"https://geocoding-api.open-meteo.com/v1/search"`
	ForecastURL  string                `envconfig:"FORECAST_API_URL" default:"https://api.open-meteo.com/v1/forecast"`
	MatchPolicy  geocoding.MatchPolicy `envconfig:"GEOCODING_MATCH_POLICY" default:"strict"`
	Timeout      int                   `envconfig:"HTTP_CLIENT_TIMEOUT" default:"10"`
}

type Config struct {
	Server   Server
	Breaker  Breaker
	Upstream Upstream

	LogLevel     string `envconfig:"LOG_LEVEL" default:"debug"`
	LogsPath     string `envconfig:"LOGS_PATH" default:"./log/weather-lookup.log"`
	HTTPLogsPath string `envconfig:"HTTP_LOGS_PATH" default:"./log/weather-lookup-http.log"`
}

func NewConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) ServerAddress() string {
	return c.Server.Host + ":" + c.Server.Port
}

// ClientTimeout bounds each upstream call.
func (c *Config) ClientTimeout() time.Duration {
	return time.Duration(c.Upstream.Timeout) * time.Second
}
