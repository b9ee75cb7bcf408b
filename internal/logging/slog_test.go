package logging

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup_FileOnly_NoStdout(t *testing.T) {
	// Capture stdout to verify nothing is written there
	origStdout := captureStdout(t)

	var fileBuf bytes.Buffer
	m := NewSlogManager()
	m.Setup(Options{File: &fileBuf, Level: "info"})
	m.Logger().Info("hello file")

	stdout := origStdout()

	assert.Contains(t, fileBuf.String(), "hello file", "log should appear in file")
	// The "Logging initialized" message from Setup also goes to file, not stdout
	assert.Empty(t, stdout, "nothing should be written to stdout when file is provided")
}

func TestSetup_NoFile_WritesToStdout(t *testing.T) {
	origStdout := captureStdout(t)

	m := NewSlogManager()
	m.Setup(Options{Level: "info"})
	m.Logger().Info("hello console")

	stdout := origStdout()

	assert.Contains(t, stdout, "hello console", "log should appear on stdout")
}

func TestSetup_DebugLevel(t *testing.T) {
	var buf bytes.Buffer
	m := NewSlogManager()
	m.Setup(Options{File: &buf, Level: "debug"})

	m.Logger().Debug("debug msg")
	m.Logger().Info("info msg")

	output := buf.String()
	assert.Contains(t, output, "debug msg")
	assert.Contains(t, output, "info msg")
}

func TestSetup_InfoLevel_FiltersDebug(t *testing.T) {
	var buf bytes.Buffer
	m := NewSlogManager()
	m.Setup(Options{File: &buf, Level: "info"})

	m.Logger().Debug("should be filtered")
	m.Logger().Info("should appear")

	output := buf.String()
	assert.NotContains(t, output, "should be filtered")
	assert.Contains(t, output, "should appear")
}

func TestSetup_ReplacesLogger(t *testing.T) {
	var buf1, buf2 bytes.Buffer
	m := NewSlogManager()

	m.Setup(Options{File: &buf1, Level: "info"})
	m.Logger().Info("first")

	m.Setup(Options{File: &buf2, Level: "info"})
	m.Logger().Info("second")

	assert.Contains(t, buf1.String(), "first")
	assert.NotContains(t, buf1.String(), "second", "old file should not receive new logs")
	assert.Contains(t, buf2.String(), "second")
}

func TestLogger_DefaultBeforeSetup(t *testing.T) {
	m := NewSlogManager()
	logger := m.Logger()
	assert.Equal(t, slog.Default(), logger)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"WARN", slog.LevelWarn},
		{"error", slog.LevelError},
		{"ERROR", slog.LevelError},
		{"", slog.LevelInfo},
		{"invalid", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLevel(tt.input))
		})
	}
}

func TestFanout(t *testing.T) {
	var info, debug bytes.Buffer
	infoSink := slog.NewTextHandler(&info, &slog.HandlerOptions{Level: slog.LevelInfo})
	debugSink := slog.NewTextHandler(&debug, &slog.HandlerOptions{Level: slog.LevelDebug})

	f := NewFanout(nil, infoSink, nil, debugSink)
	require.Len(t, f.sinks, 2)

	logger := slog.New(f)
	logger.Debug("skipped list element", "list", "competitors", "index", 3)
	logger.Info("applied markers", "count", 12)

	assert.NotContains(t, info.String(), "skipped list element")
	assert.Contains(t, info.String(), "count=12")
	assert.Contains(t, debug.String(), "list=competitors")
	assert.Contains(t, debug.String(), "count=12")
}

func TestFanout_Enabled(t *testing.T) {
	ctx := context.Background()
	infoSink := slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelInfo})
	debugSink := slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelDebug})

	tests := []struct {
		name  string
		sinks []slog.Handler
		level slog.Level
		want  bool
	}{
		{"no sinks", nil, slog.LevelError, false},
		{"info sink at debug", []slog.Handler{infoSink}, slog.LevelDebug, false},
		{"info sink at info", []slog.Handler{infoSink}, slog.LevelInfo, true},
		{"any sink enables", []slog.Handler{infoSink, debugSink}, slog.LevelDebug, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewFanout(tt.sinks...).Enabled(ctx, tt.level))
		})
	}
}

func TestFanout_WithAttrsAndGroup(t *testing.T) {
	var buf bytes.Buffer
	f := NewFanout(slog.NewTextHandler(&buf, nil))

	logger := slog.New(f.WithAttrs([]slog.Attr{slog.String("command", "sync-reviews")}).WithGroup("tile"))
	logger.Info("applied", "x", 5, "y", 9)

	out := buf.String()
	assert.Contains(t, out, "command=sync-reviews")
	assert.Contains(t, out, "tile.x=5")
	assert.Same(t, f, f.WithGroup(""))
}

// errorHandler is a slog.Handler that always returns an error from Handle.
type errorHandler struct {
	slog.Handler
}

func (h *errorHandler) Handle(_ context.Context, _ slog.Record) error {
	return errors.New("handler error")
}

func (h *errorHandler) Enabled(_ context.Context, _ slog.Level) bool {
	return true
}

func TestFanout_HandleError(t *testing.T) {
	var buf bytes.Buffer
	spy := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})
	f := NewFanout(&errorHandler{}, spy)

	r := slog.NewRecord(time.Now(), slog.LevelInfo, "should reach spy", 0)
	err := f.Handle(context.Background(), r)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "handler error")
	assert.Contains(t, buf.String(), "should reach spy")
}

// captureStdout redirects os.Stdout to a pipe and returns a function
// that restores stdout and returns what was captured.
func captureStdout(t *testing.T) func() string {
	t.Helper()

	r, w, err := os.Pipe()
	require.NoError(t, err)

	origStdout := osStdout
	osStdout = w

	return func() string {
		w.Close()
		osStdout = origStdout
		var buf bytes.Buffer
		buf.ReadFrom(r)
		r.Close()
		return buf.String()
	}
}

type closeSpy struct {
	bytes.Buffer
	closed bool
}

func (c *closeSpy) Close() error {
	c.closed = true
	return nil
}

func TestSetup_GraylogSink(t *testing.T) {
	var file bytes.Buffer
	var gelf closeSpy
	m := NewSlogManager()
	m.Setup(Options{File: &file, Graylog: &gelf, Level: "info"})

	m.Logger().Warn("unknown marker type", "poiType", "Lighthouse")

	assert.Contains(t, file.String(), "poiType=Lighthouse")
	assert.Contains(t, gelf.String(), `"poiType":"Lighthouse"`)

	require.NoError(t, m.Close())
	assert.True(t, gelf.closed)
}

func TestSetup_ContextAttrs(t *testing.T) {
	var buf bytes.Buffer
	calls := 0
	m := NewSlogManager()
	m.Setup(Options{File: &buf, Level: "info", Context: func() []slog.Attr {
		calls++
		return []slog.Attr{slog.String("command", "sync-markers")}
	}})

	m.Logger().Info("applied")

	assert.Contains(t, buf.String(), "command=sync-markers")
	assert.Equal(t, 2, calls, "provider runs once per record")
}

func TestClose_NoSinks(t *testing.T) {
	m := NewSlogManager()
	assert.NoError(t, m.Close())

	var w io.Writer = &bytes.Buffer{}
	m.Setup(Options{File: w})
	assert.NoError(t, m.Close())
}

func TestStamped(t *testing.T) {
	var buf bytes.Buffer
	backend := "memory"
	h := NewStamped(slog.NewTextHandler(&buf, nil), func() []slog.Attr {
		return []slog.Attr{slog.String("storage", backend)}
	})

	logger := slog.New(h.WithAttrs([]slog.Attr{slog.String("tile", "5,9")}).WithGroup("g"))
	logger.Info("msg", "k", "v")
	backend = "sqlite"
	logger.Info("msg")

	out := buf.String()
	assert.Contains(t, out, "tile=5,9")
	assert.Contains(t, out, "g.k=v")
	assert.Contains(t, out, "g.storage=memory")
	assert.Contains(t, out, "g.storage=sqlite")
	assert.Same(t, h, h.WithGroup(""))
}
