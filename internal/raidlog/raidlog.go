// Package raidlog is the volume's structured logger: a thin wrapper
// around zerolog providing a package-level Logger plus Debug/Info/Warn/
// Error helpers.
package raidlog

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger is the package-level logger used by raidctl. The device and
// raid5 packages do not log.
var Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).With().Timestamp().Logger()

// SetLevel sets the global logging threshold.
func SetLevel(level string) {
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// WithVolume returns a logger extended with a volume identifier, used
// when a process manages more than one volume.
func WithVolume(name string) zerolog.Logger {
	return Logger.With().Str("volume", name).Logger()
}

// Debugf logs a formatted message at DEBUG level.
func Debugf(format string, v ...interface{}) {
	Logger.Debug().Msgf(format, v...)
}

// Infof logs a formatted message at INFO level.
func Infof(format string, v ...interface{}) {
	Logger.Info().Msgf(format, v...)
}

// Warnf logs a formatted message at WARN level.
func Warnf(format string, v ...interface{}) {
	Logger.Warn().Msgf(format, v...)
}

// Errorf logs a formatted message at ERROR level.
func Errorf(format string, v ...interface{}) {
	Logger.Error().Msgf(format, v...)
}
