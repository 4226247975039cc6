package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"go.uber.org/zap"

	"github.com/Nazarious-ucu/weather-lookup/internal/app"
	"github.com/Nazarious-ucu/weather-lookup/internal/config"
	"github.com/Nazarious-ucu/weather-lookup/internal/models"
	"github.com/Nazarious-ucu/weather-lookup/internal/render"
	"github.com/Nazarious-ucu/weather-lookup/internal/services/geocoding"
	"github.com/Nazarious-ucu/weather-lookup/internal/services/lookup"
	"github.com/Nazarious-ucu/weather-lookup/internal/services/state"
	"github.com/Nazarious-ucu/weather-lookup/pkg/logger"
)

const (
	modeCurrent  = "current"
	modeForecast = "forecast"
)

type options struct {
	city    string
	mode    string
	policy  geocoding.MatchPolicy
	verbose bool
}

func main() {
	_ = godotenv.Load()

	opts, err := parseFlags(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		os.Exit(2)
	}

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	// Logs, including the outbound request log, are only written with -v.
	l := zerolog.Nop()
	var fileLogger *zap.Logger
	if opts.verbose {
		if l, err = logger.NewLogger(logger.Options{Service: "weather_cli", Level: cfg.LogLevel}); err != nil {
			log.Fatalf("failed to create logger: %v", err)
		}
		if fileLogger, err = logger.NewRequestLogger(cfg.HTTPLogsPath); err != nil {
			log.Fatalf("failed to create file logger: %v", err)
		}
	}

	svc := app.NewLookupService(*cfg, l, app.NewHTTPClient(*cfg, fileLogger), nil)

	code := run(context.Background(), svc, state.NewTracker(clockwork.NewRealClock()), opts, os.Stdout, os.Stderr)
	if fileLogger != nil {
		_ = fileLogger.Sync()
	}
	os.Exit(code)
}

func parseFlags(args []string, output io.Writer) (options, error) {
	var (
		opts  options
		match string
	)
	fs := flag.NewFlagSet("weather-cli", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&opts.city, "city", "", "city name to look up")
	fs.StringVar(&opts.mode, "mode", modeCurrent, "current or forecast")
	fs.StringVar(&match, "match", "", "geocoding match policy: strict or loose (default from GEOCODING_MATCH_POLICY)")
	fs.BoolVar(&opts.verbose, "v", false, "log pipeline activity to stderr")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if opts.mode != modeCurrent && opts.mode != modeForecast {
		err := fmt.Errorf("unknown mode %q", opts.mode)
		_, _ = fmt.Fprintln(output, err)
		return options{}, err
	}
	policy, err := geocoding.ParseOverride(match)
	if err != nil {
		_, _ = fmt.Fprintln(output, err)
		return options{}, err
	}
	opts.policy = policy
	return opts, nil
}

type lookupService interface {
	Current(ctx context.Context, query string, policy geocoding.MatchPolicy) (models.CurrentResult, error)
	Forecast(ctx context.Context, query string, policy geocoding.MatchPolicy) (models.ForecastResult, error)
}

// run performs one lookup and prints either the result or a single user
// message. The result is rendered in full before it is written, so a
// failure never leaves half a table behind. It returns the process exit code.
func run(
	ctx context.Context,
	svc lookupService,
	tracker *state.Tracker,
	opts options,
	out, errOut io.Writer,
) int {
	ticket := tracker.Submit(opts.city)
	_ = render.Status(out, tracker.Snapshot())

	var (
		buf bytes.Buffer
		err error
	)
	switch opts.mode {
	case modeForecast:
		var res models.ForecastResult
		if res, err = svc.Forecast(ctx, opts.city, opts.policy); err == nil {
			err = render.Forecast(&buf, res)
		}
	default:
		var res models.CurrentResult
		if res, err = svc.Current(ctx, opts.city, opts.policy); err == nil {
			err = render.Current(&buf, res)
		}
	}

	if err != nil {
		if tracker.Fail(ticket, lookup.UserMessage(err)) {
			_ = render.Status(out, tracker.Snapshot())
		}
		return 1
	}

	if _, err := buf.WriteTo(out); err != nil {
		tracker.Fail(ticket, lookup.UserMessage(err))
		_ = render.Status(errOut, tracker.Snapshot())
		return 1
	}
	tracker.Succeed(ticket)
	return 0
}
