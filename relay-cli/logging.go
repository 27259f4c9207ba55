package relaycli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

func Logger(service Service) zerolog.Logger {
	return NewLogger(os.Stdout, service)
}

// NewLogger builds the service logger on top of w, honouring the --pretty and
// --log-level options.
func NewLogger(w io.Writer, service Service) zerolog.Logger {
	if CommonOpts.Pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	level, err := ParseLevel(CommonOpts.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	return zerolog.New(w).Level(level).With().
		Timestamp().
		Str("service", service.Name).
		Str("version", service.Version).
		Logger()
}

func ParseLevel(s string) (zerolog.Level, error) {
	if strings.TrimSpace(s) == "" {
		return zerolog.InfoLevel, nil
	}
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}
