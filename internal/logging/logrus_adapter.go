package logging

import (
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

// LogrusAdapter backs Logger with logrus. Output goes to stderr unless
// redirected, so reports written to stdout stay machine-readable.
type LogrusAdapter struct {
	entry *logrus.Entry
}

// AdapterOption customizes the underlying logrus.Logger.
type AdapterOption func(*logrus.Logger)

// WithOutput sends log lines to w.
func WithOutput(w io.Writer) AdapterOption {
	return func(l *logrus.Logger) { l.SetOutput(w) }
}

// NewLogrusAdapter creates a logger at level ("debug", "info", "warn",
// "error") in "text" or "json" format. An unknown level falls back to info.
func NewLogrusAdapter(level, format string, opts ...AdapterOption) Logger {
	logger := logrus.New()
	logger.SetFormatter(formatter(format))
	for _, opt := range opts {
		opt(logger)
	}

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
		logger.WithField("requested", level).Warn("Invalid log level, using info")
	}
	logger.SetLevel(lvl)

	return &LogrusAdapter{entry: logrus.NewEntry(logger)}
}

func formatter(format string) logrus.Formatter {
	if strings.EqualFold(format, "json") {
		return &logrus.JSONFormatter{}
	}
	return &logrus.TextFormatter{FullTimestamp: true}
}

func (l *LogrusAdapter) log(level logrus.Level, msg string, fields []Field) {
	l.entry.WithFields(convertFields(fields)).Log(level, msg)
}

// Debug logs a debug-level message with optional fields.
func (l *LogrusAdapter) Debug(msg string, fields ...Field) { l.log(logrus.DebugLevel, msg, fields) }

// Info logs an info-level message with optional fields.
func (l *LogrusAdapter) Info(msg string, fields ...Field) { l.log(logrus.InfoLevel, msg, fields) }

// Warn logs a warning-level message with optional fields.
func (l *LogrusAdapter) Warn(msg string, fields ...Field) { l.log(logrus.WarnLevel, msg, fields) }

// Error logs an error-level message with optional fields.
func (l *LogrusAdapter) Error(msg string, fields ...Field) { l.log(logrus.ErrorLevel, msg, fields) }

// WithError returns a logger that attaches err to every entry.
func (l *LogrusAdapter) WithError(err error) Logger {
	return &LogrusAdapter{entry: l.entry.WithError(err)}
}

// WithField returns a logger that attaches key=value to every entry.
func (l *LogrusAdapter) WithField(key string, value interface{}) Logger {
	return &LogrusAdapter{entry: l.entry.WithField(key, value)}
}

// WithFields returns a logger that attaches fields to every entry.
func (l *LogrusAdapter) WithFields(fields ...Field) Logger {
	return &LogrusAdapter{entry: l.entry.WithFields(convertFields(fields))}
}

func convertFields(fields []Field) logrus.Fields {
	out := make(logrus.Fields, len(fields))
	for _, f := range fields {
		out[f.Key] = f.Value
	}
	return out
}
