package logger

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewRequestLogger returns the JSON zap logger that records outbound upstream
// calls. It rotates like the application log.
func NewRequestLogger(filePath string) (*zap.Logger, error) {
	path := filepath.Clean(filePath)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create request log directory: %w", err)
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.TimeKey = "time"

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderCfg),
		zapcore.AddSync(newRotator(path)),
		zap.InfoLevel,
	)
	return zap.New(core).With(zap.String("log", "upstream_requests")), nil
}
