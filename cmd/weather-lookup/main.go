package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/Nazarious-ucu/weather-lookup/internal/app"
	"github.com/Nazarious-ucu/weather-lookup/internal/config"
	metricsSvc "github.com/Nazarious-ucu/weather-lookup/internal/services/metrics"
	"github.com/Nazarious-ucu/weather-lookup/pkg/logger"
)

const serviceName = "weather_lookup"

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found: %v", err)
	}

	cfg, err := config.NewConfig()
	if err != nil {
		log.Panicf("failed to load configuration: %v", err)
	}

	l, err := logger.NewLogger(logger.Options{
		Service:  serviceName,
		FilePath: cfg.LogsPath,
		Level:    cfg.LogLevel,
	})
	if err != nil {
		log.Panicf("failed to create logger: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application := app.New(*cfg, l, metricsSvc.NewMetrics(serviceName))

	if err := application.Start(ctx); err != nil {
		l.Fatal().Err(err).Msg("application failed to run")
	}
}
