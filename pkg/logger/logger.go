package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"document-portal/internal/domain"

	"github.com/rs/zerolog"
)

// AppLogger implements the domain.Logger interface on top of zerolog.
// Records are JSON lines written to stdout and, when a log directory is
// configured, to <dir>/<YYYY-MM-DD>.log for the current UTC day.
type AppLogger struct {
	logger zerolog.Logger
	// root is the logger before any name was attached
	root zerolog.Logger
	file *dailyFile
}

// NewLogger creates the process-wide logger. It is meant to be called once
// at startup and passed to consumers; the caller closes it on shutdown.
func NewLogger(levelStr string, logDir string) (*AppLogger, error) {
	if logDir == "" {
		return NewWithWriter(levelStr, os.Stdout), nil
	}

	file, err := openDailyFile(logDir, time.Now)
	if err != nil {
		return nil, err
	}

	l := NewWithWriter(levelStr, io.MultiWriter(os.Stdout, file))
	l.file = file
	return l, nil
}

// NewWithWriter creates a logger writing only to w.
func NewWithWriter(levelStr string, w io.Writer) *AppLogger {
	zl := zerolog.New(w).
		Level(parseLogLevel(levelStr)).
		With().
		Timestamp().
		Logger()
	return &AppLogger{logger: zl, root: zl}
}

// LogFileName returns the daily log file name for t in UTC.
func LogFileName(t time.Time) string {
	return t.UTC().Format("2006-01-02") + ".log"
}

// Info logs an info message
func (l *AppLogger) Info(msg string, fields ...interface{}) {
	withFields(l.logger.Info(), fields).Msg(msg)
}

// Error logs an error message
func (l *AppLogger) Error(msg string, err error, fields ...interface{}) {
	withFields(l.logger.Error().Err(err), fields).Msg(msg)
}

// Debug logs a debug message
func (l *AppLogger) Debug(msg string, fields ...interface{}) {
	withFields(l.logger.Debug(), fields).Msg(msg)
}

// Warn logs a warning message
func (l *AppLogger) Warn(msg string, fields ...interface{}) {
	withFields(l.logger.Warn(), fields).Msg(msg)
}

// Named returns a child logger carrying a logger_name field. Naming a
// named logger replaces the name. The child shares the parent's outputs;
// only the parent closes the file.
func (l *AppLogger) Named(name string) domain.Logger {
	return &AppLogger{
		logger: l.root.With().Str("logger_name", name).Logger(),
		root:   l.root,
	}
}

// FilePath returns the log file currently written to, or "" without one.
func (l *AppLogger) FilePath() string {
	if l.file == nil {
		return ""
	}
	return l.file.Path()
}

// Close closes the log file, if any. Later records go to stdout only.
func (l *AppLogger) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

// withFields appends key/value pairs to the event. A trailing key without
// a value is dropped.
func withFields(e *zerolog.Event, fields []interface{}) *zerolog.Event {
	for i := 0; i+1 < len(fields); i += 2 {
		key := fmt.Sprint(fields[i])
		switch v := fields[i+1].(type) {
		case error:
			e = e.AnErr(key, v)
		case string:
			e = e.Str(key, v)
		case fmt.Stringer:
			e = e.Str(key, v.String())
		default:
			e = e.Interface(key, v)
		}
	}
	return e
}

// parseLogLevel converts string log level to a zerolog level
func parseLogLevel(levelStr string) zerolog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
