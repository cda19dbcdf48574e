// Package logging provides structured logging for crosscheck using
// zerolog: human-readable console output when attached to a terminal,
// JSON elsewhere.
//
//	log := logging.Default()
//	log.Info().Str("table", "sideA").Int("rows", n).Msg("normalized")
package logging

import (
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// defaultLogger is the global logger instance.
var defaultLogger zerolog.Logger

func init() {
	defaultLogger = NewLoggerFromConfig(DefaultConfig())
}

// Default returns the default global logger.
func Default() *zerolog.Logger {
	return &defaultLogger
}

// SetDefault sets the default global logger.
func SetDefault(logger zerolog.Logger) {
	defaultLogger = logger
	log.Logger = logger // keep zerolog's package-level logger in step
}

// New creates a new logger writing to w at the global level.
func New(w io.Writer) zerolog.Logger {
	return zerolog.New(w).
		Level(zerolog.GlobalLevel()).
		With().
		Timestamp().
		Logger()
}

// Config holds logger configuration options.
type Config struct {
	// Level is the minimum log level to output.
	Level string
	// Format is the output format: json, console, or auto.
	Format string
	// Output is where to write logs: stderr, stdout, or discard.
	Output string
	// NoColor disables color in console mode.
	NoColor bool
	// AddCaller includes file:line in log output.
	AddCaller bool
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Level:   levelFromEnv(),
		Format:  "auto",
		Output:  "stderr",
		NoColor: os.Getenv("NO_COLOR") != "",
	}
}

// NewLoggerFromConfig creates a new logger from configuration.
func NewLoggerFromConfig(cfg *Config) zerolog.Logger {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	logger := zerolog.New(writerFor(cfg)).
		Level(level).
		With().
		Timestamp().
		Logger()

	if cfg.AddCaller || level <= zerolog.DebugLevel {
		logger = logger.With().Caller().Logger()
	}

	return logger
}

// Configure updates the default logger with the given configuration.
func Configure(cfg *Config) {
	SetDefault(NewLoggerFromConfig(cfg))
}

// writerFor picks the output writer and format for a config.
func writerFor(cfg *Config) io.Writer {
	var output *os.File
	switch cfg.Output {
	case "stdout":
		output = os.Stdout
	case "discard", "none":
		return io.Discard
	default:
		output = os.Stderr
	}

	format := cfg.Format
	if format == "" || format == "auto" {
		if isatty.IsTerminal(output.Fd()) {
			format = "console"
		} else {
			format = "json"
		}
	}

	if format == "console" || format == "pretty" {
		return zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: time.Kitchen,
			NoColor:    cfg.NoColor,
		}
	}
	return output
}

// levelFromEnv reads the initial level from LOG_LEVEL or DEBUG.
func levelFromEnv() string {
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		return level
	}
	if os.Getenv("DEBUG") != "" {
		return "debug"
	}
	return "info"
}
