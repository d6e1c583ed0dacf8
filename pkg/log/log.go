// Package log wraps zerolog behind a single process-wide Logger, so every
// collaborator in the replicator that logs (the scheduler, the consumer)
// tags its lines with the same vocabulary: component, resource key,
// token. See doc.go for the full usage guide.
package log

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger is shared process-wide; Init must run once before any
// collaborator starts logging, and every child logger below derives
// from whatever Logger currently holds.
var Logger zerolog.Logger

// Level names one of zerolog's four levels this replicator ever emits at.
type Level string

const (
	DebugLevel Level = "debug"
	InfoLevel  Level = "info"
	WarnLevel  Level = "warn"
	ErrorLevel Level = "error"
)

// Config controls Init: the minimum level to emit, whether to emit JSON
// (for log aggregation) or a human-readable console format (for local
// development), and where to write to.
type Config struct {
	Level      Level
	JSONOutput bool
	Output     io.Writer
}

// Init builds the process-wide Logger from cfg. An unrecognized or empty
// Level falls back to InfoLevel rather than failing startup over a
// logging misconfiguration.
func Init(cfg Config) {
	zerolog.SetGlobalLevel(zerologLevel(cfg.Level))

	output := cfg.Output
	if output == nil {
		output = os.Stdout
	}

	if cfg.JSONOutput {
		Logger = zerolog.New(output).With().Timestamp().Logger()
		return
	}
	Logger = zerolog.New(zerolog.ConsoleWriter{
		Out:        output,
		TimeFormat: time.RFC3339,
	}).With().Timestamp().Logger()
}

func zerologLevel(l Level) zerolog.Level {
	switch l {
	case DebugLevel:
		return zerolog.DebugLevel
	case WarnLevel:
		return zerolog.WarnLevel
	case ErrorLevel:
		return zerolog.ErrorLevel
	case InfoLevel, "":
		return zerolog.InfoLevel
	default:
		return zerolog.InfoLevel
	}
}

// WithComponent scopes a logger to one collaborator (e.g. "scheduler",
// "consumer"), so log lines can be filtered by subsystem.
func WithComponent(component string) zerolog.Logger {
	return Logger.With().Str("component", component).Logger()
}

// WithResourceKey scopes a logger to a ResourceKey's canonical string,
// the one identifier every lock-related log line should carry so a
// single key's history can be grepped out of a busy log stream.
func WithResourceKey(canonicalKey string) zerolog.Logger {
	return Logger.With().Str("resource_key", canonicalKey).Logger()
}

// WithToken scopes a logger to a Token's formatted key, for tracing one
// acquisition from grant through release.
func WithToken(tokenKey string) zerolog.Logger {
	return Logger.With().Str("token", tokenKey).Logger()
}

// Info, Debug, Warn, Error, Errorf, and Fatal log a single message
// against the package-level Logger, for call sites that don't otherwise
// need a scoped child logger.

func Info(msg string) {
	Logger.Info().Msg(msg)
}

func Debug(msg string) {
	Logger.Debug().Msg(msg)
}

func Warn(msg string) {
	Logger.Warn().Msg(msg)
}

func Error(msg string) {
	Logger.Error().Msg(msg)
}

func Errorf(format string, err error) {
	Logger.Error().Err(err).Msg(format)
}

func Fatal(msg string) {
	Logger.Fatal().Msg(msg)
}
