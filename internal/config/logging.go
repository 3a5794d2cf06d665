package config

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Supported LOG_FORMAT values.
const (
	LogFormatJSON    = "json"
	LogFormatConsole = "console"
)

// ZerologLevel maps Level onto a zerolog level. Unknown or empty levels fall
// back to info.
func (c LoggingConfig) ZerologLevel() zerolog.Level {
	level, err := zerolog.ParseLevel(strings.ToLower(c.Level))
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}

func (c LoggingConfig) console() bool {
	return strings.EqualFold(c.Format, LogFormatConsole)
}

func (c LoggingConfig) validate() error {
	switch strings.ToLower(c.Format) {
	case LogFormatJSON, LogFormatConsole:
	default:
		return errLogFormat(c.Format)
	}
	if _, err := zerolog.ParseLevel(strings.ToLower(c.Level)); err != nil {
		return errLogLevel(c.Level)
	}
	return nil
}

// NewLogger builds the process logger on stdout and installs it as the
// zerolog global.
func NewLogger(cfg LoggingConfig) zerolog.Logger {
	logger := newLogger(cfg, os.Stdout)
	log.Logger = logger
	return logger
}

func newLogger(cfg LoggingConfig, out io.Writer) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	if cfg.console() {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}
	return zerolog.New(out).
		Level(cfg.ZerologLevel()).
		With().
		Timestamp().
		Str("service", "eventhub").
		Logger()
}
