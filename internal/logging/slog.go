package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// swapped by tests
var osStdout io.Writer = os.Stdout

// Options selects the sinks of a SlogManager.
type Options struct {
	Level string
	// File receives text logs. When nil, logs go to stdout instead.
	File io.Writer
	// Graylog, when set, receives one JSON record per write (see NewGraylogWriter).
	Graylog io.Writer
	// Context adds dynamic attributes to every record.
	Context AttrsFunc
}

// SlogManager manages slog-based logging with an optional Graylog sink.
type SlogManager struct {
	logger  *slog.Logger
	closers []io.Closer
}

// NewSlogManager creates a new slog-based logging manager.
func NewSlogManager() *SlogManager {
	return &SlogManager{}
}

// parseLevel converts a string log level to slog.Level.
func parseLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Setup initializes the logging system. Sinks that implement io.Closer are
// closed by Close.
func (m *SlogManager) Setup(opts Options) {
	lvl := parseLevel(opts.Level)

	// Common handler options with RFC3339 time formatting
	handlerOpts := &slog.HandlerOptions{
		Level: lvl,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				if t, ok := a.Value.Any().(time.Time); ok {
					a.Value = slog.StringValue(t.UTC().Format(time.RFC3339))
				}
			}
			return a
		},
	}

	var handlers []slog.Handler
	m.closers = nil

	if opts.File != nil {
		handlers = append(handlers, slog.NewTextHandler(opts.File, handlerOpts))
		m.track(opts.File)
	} else {
		handlers = append(handlers, slog.NewTextHandler(osStdout, handlerOpts))
	}

	if opts.Graylog != nil {
		handlers = append(handlers, slog.NewJSONHandler(opts.Graylog, handlerOpts))
		m.track(opts.Graylog)
	}

	var handler slog.Handler = NewFanout(handlers...)
	if opts.Context != nil {
		handler = NewStamped(handler, opts.Context)
	}

	m.logger = slog.New(handler)
	m.logger.Info("Logging initialized", "level", lvl.String())
}

func (m *SlogManager) track(w io.Writer) {
	if c, ok := w.(io.Closer); ok {
		m.closers = append(m.closers, c)
	}
}

// Logger returns the configured slog.Logger.
func (m *SlogManager) Logger() *slog.Logger {
	if m.logger == nil {
		// Return a default logger if Setup hasn't been called
		return slog.Default()
	}
	return m.logger
}

// Close closes the file and Graylog sinks.
func (m *SlogManager) Close() error {
	var first error
	for _, c := range m.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	m.closers = nil
	return first
}
