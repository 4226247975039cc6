package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Options configures the application logger.
type Options struct {
	Service string
	// FilePath enables a rotated file sink next to the console.
	FilePath string
	// Level is a zerolog level name. Empty means debug.
	Level string
	// Console defaults to os.Stderr so stdout stays free for program output.
	Console io.Writer
}

// NewLogger builds the zerolog logger handed to every component.
func NewLogger(opts Options) (zerolog.Logger, error) {
	level := zerolog.DebugLevel
	if name := strings.ToLower(strings.TrimSpace(opts.Level)); name != "" {
		parsed, err := zerolog.ParseLevel(name)
		if err != nil {
			return zerolog.Nop(), fmt.Errorf("parse log level %q: %w", opts.Level, err)
		}
		level = parsed
	}

	console := opts.Console
	if console == nil {
		console = os.Stderr
	}

	writers := []io.Writer{zerolog.ConsoleWriter{Out: console, TimeFormat: time.RFC3339}}
	if opts.FilePath != "" {
		writers = append(writers, newRotator(opts.FilePath))
	}

	logger := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(level).
		With().
		Timestamp().
		Caller().
		Str("service", opts.Service).
		Logger()

	logger.Debug().
		Str("logs_path", opts.FilePath).
		Str("level", level.String()).
		Msg("logger initialized")

	return logger, nil
}
