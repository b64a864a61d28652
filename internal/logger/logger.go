// Package logger provides structured logging for the token warehouse
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger wraps zerolog with warehouse-specific functionality
type Logger struct {
	zlog zerolog.Logger
}

// Config holds logger configuration
type Config struct {
	Level      string // debug, info, warn, error
	Pretty     bool   // pretty-print for development
	Output     io.Writer
	WithCaller bool
}

// NewLogger creates a new structured logger
func NewLogger(cfg Config) *Logger {
	level := zerolog.InfoLevel
	switch cfg.Level {
	case "debug":
		level = zerolog.DebugLevel
	case "info":
		level = zerolog.InfoLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}
	zerolog.SetGlobalLevel(level)

	output := cfg.Output
	if output == nil {
		output = os.Stdout
	}

	if cfg.Pretty {
		output = zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: time.RFC3339,
		}
	}

	zlog := zerolog.New(output).
		With().
		Timestamp().
		Str("service", "tokenhouse").
		Logger()

	if cfg.WithCaller {
		zlog = zlog.With().Caller().Logger()
	}

	return &Logger{zlog: zlog}
}

// GetZerolog returns the underlying zerolog logger
func (l *Logger) GetZerolog() *zerolog.Logger {
	return &l.zlog
}

// Info logs an info message
func (l *Logger) Info(msg string) *zerolog.Event {
	return l.zlog.Info().Str("msg", msg)
}

// Debug logs a debug message
func (l *Logger) Debug(msg string) *zerolog.Event {
	return l.zlog.Debug().Str("msg", msg)
}

// Warn logs a warning message
func (l *Logger) Warn(msg string) *zerolog.Event {
	return l.zlog.Warn().Str("msg", msg)
}

// Error logs an error message
func (l *Logger) Error(msg string) *zerolog.Event {
	return l.zlog.Error().Str("msg", msg)
}

// Fatal logs a fatal message and exits
func (l *Logger) Fatal(msg string) *zerolog.Event {
	return l.zlog.Fatal().Str("msg", msg)
}

// PassLogger returns a logger scoped to one dispatch pass
func (l *Logger) PassLogger(passID, source string) *Logger {
	return &Logger{
		zlog: l.zlog.With().
			Str("component", "dispatch").
			Str("pass_id", passID).
			Str("source", source).
			Logger(),
	}
}

// LogPassStart logs the beginning of a dispatch pass
func (l *Logger) LogPassStart(tokens int) {
	l.zlog.Info().
		Str("event", "pass_start").
		Int("tokens", tokens).
		Msg("Dispatch pass starting")
}

// LogPassComplete logs a finished pass with its stats
func (l *Logger) LogPassComplete(tokens, dispatches, sections, errCount int, duration time.Duration) {
	event := l.zlog.Info()
	if errCount > 0 {
		event = l.zlog.Warn()
	}
	event.
		Str("event", "pass_complete").
		Int("tokens", tokens).
		Int("dispatches", dispatches).
		Int("sections", sections).
		Int("collector_errors", errCount).
		Dur("duration_ms", duration).
		Msg("Dispatch pass completed")
}

// LogCollectorError logs one isolated collector failure
func (l *Logger) LogCollectorError(name string, tokenIndex int, err error) {
	l.zlog.Error().
		Str("component", "collector").
		Str("collector", name).
		Int("token_index", tokenIndex).
		Err(err).
		Msg("Collector failure isolated")
}

// Global logger instance
var globalLogger *Logger

// InitGlobalLogger initializes the global logger
func InitGlobalLogger(cfg Config) {
	globalLogger = NewLogger(cfg)
	log.Logger = *globalLogger.GetZerolog()
}

// GetGlobalLogger returns the global logger instance
func GetGlobalLogger() *Logger {
	if globalLogger == nil {
		InitGlobalLogger(Config{
			Level:  "info",
			Pretty: true,
		})
	}
	return globalLogger
}
