package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// NewComponentLogger returns a logger that appends to
// <logDir>/<component>.log and tees human-readable output to stderr.
// The log directory is created if absent. The returned closer owns the
// log file handle.
func NewComponentLogger(logDir, component string) (zerolog.Logger, io.Closer, error) {
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("could not create log directory %s: %w", logDir, err)
	}

	path := filepath.Join(logDir, component+".log")
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("could not open log file %s: %w", path, err)
	}

	writer := zerolog.MultiLevelWriter(zerolog.ConsoleWriter{Out: os.Stderr}, f)
	logger := zerolog.New(writer).With().Timestamp().Str("component", component).Logger()
	return logger, f, nil
}
