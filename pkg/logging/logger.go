// Package logging provides structured logging built on zerolog.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger wraps a zerolog.Logger behind a small key-value API so callers
// never import zerolog directly.
type Logger struct {
	logger zerolog.Logger
}

// Init builds the process logger from configuration and installs it as the
// zerolog global. Unknown levels fall back to info.
func Init(level, format, output string) (*Logger, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	writer, err := openWriter(output)
	if err != nil {
		return nil, err
	}
	if strings.ToLower(format) == "text" {
		writer = zerolog.ConsoleWriter{Out: writer, TimeFormat: time.RFC3339}
	}

	zl := zerolog.New(writer).With().Timestamp().Logger()
	log.Logger = zl

	return &Logger{logger: zl}, nil
}

func openWriter(output string) (io.Writer, error) {
	switch output {
	case "", "stdout":
		return os.Stdout, nil
	case "stderr":
		return os.Stderr, nil
	default:
		return os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	}
}

// NewNoopLogger returns a logger that discards everything. Intended for tests
// and components constructed without a configured logger.
func NewNoopLogger() *Logger {
	return &Logger{logger: zerolog.New(io.Discard)}
}

// With returns a child logger carrying the given key-value pairs on every
// entry it emits.
func (l *Logger) With(fields ...interface{}) *Logger {
	ctx := l.logger.With()
	for i := 0; i+1 < len(fields); i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			continue
		}
		ctx = ctx.Interface(key, fields[i+1])
	}
	return &Logger{logger: ctx.Logger()}
}

// Debug logs a debug message with optional key-value fields.
func (l *Logger) Debug(msg string, fields ...interface{}) {
	l.emit(l.logger.Debug(), msg, fields)
}

// Info logs an info message with optional key-value fields.
func (l *Logger) Info(msg string, fields ...interface{}) {
	l.emit(l.logger.Info(), msg, fields)
}

// Warn logs a warning message with optional key-value fields.
func (l *Logger) Warn(msg string, fields ...interface{}) {
	l.emit(l.logger.Warn(), msg, fields)
}

// Error logs an error message with optional key-value fields.
func (l *Logger) Error(msg string, fields ...interface{}) {
	l.emit(l.logger.Error(), msg, fields)
}

// Fatal logs a fatal message and exits the process.
func (l *Logger) Fatal(msg string, fields ...interface{}) {
	l.emit(l.logger.Fatal(), msg, fields)
}

func (l *Logger) emit(event *zerolog.Event, msg string, fields []interface{}) {
	for i := 0; i+1 < len(fields); i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			continue
		}
		event.Interface(key, fields[i+1])
	}
	event.Msg(msg)
}
