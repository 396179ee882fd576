// Package logging builds the file-backed zap logger used for a session.
package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Exported constants.
const (
	// LogFilePermissions is the mode the debug log is created with
	LogFilePermissions = 0o600
)

// New opens (appending) the log file at path and returns a JSON logger writing to it.
// Every entry carries a session id. The returned func syncs and closes the file.
func New(path string, debug bool) (*zap.Logger, func(), error) {
	if path == "" {
		return zap.NewNop(), func() {}, nil
	}

	err := os.MkdirAll(filepath.Dir(path), 0o750) //nolint:mnd // private log dir
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, LogFilePermissions) // #nosec G304 - user-chosen log path
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file %s: %w", path, err)
	}

	level := zapcore.InfoLevel
	if debug {
		level = zapcore.DebugLevel
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(file),
		level,
	)

	logger := zap.New(core).With(zap.String("session", uuid.NewString()))

	closer := func() {
		_ = logger.Sync()
		_ = file.Close()
	}

	return logger, closer, nil
}

// OrNop returns logger, or a no-op logger when it is nil.
func OrNop(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}

	return logger
}
