package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		// Basic logger for errors raised before or outside the run logger
		log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).With().Timestamp().Logger()
		log.Error().Err(err).Msg("infuranode failed")
		os.Exit(1)
	}
}

// setupLogger configures the zerolog logger. Output goes to stderr so stdout
// only carries output items.
func setupLogger(level string) zerolog.Logger {
	// Set log level
	var logLevel zerolog.Level
	switch level {
	case "debug":
		logLevel = zerolog.DebugLevel
	case "info":
		logLevel = zerolog.InfoLevel
	case "warn":
		logLevel = zerolog.WarnLevel
	case "error":
		logLevel = zerolog.ErrorLevel
	default:
		logLevel = zerolog.InfoLevel
	}

	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}

	return zerolog.New(output).Level(logLevel).With().Timestamp().Logger()
}
