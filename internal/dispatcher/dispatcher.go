package dispatcher

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/seamarks/poisync/pkg/core"
)

// Event is one service response to be applied.
// Tile is set only for responses scoped to a tile.
type Event struct {
	Command   string
	Payload   []byte
	Tile      *core.TileCoordinate
	Timestamp time.Time
}

// HandlerFunc processes an event and returns a result.
type HandlerFunc func(Event) (any, error)

// Logger interface for pluggable logging.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

// Option configures handler registration.
type Option func(*config)

type config struct {
	logged bool
}

// Logged adds debug logging to the handler.
func Logged() Option {
	return func(c *config) {
		c.logged = true
	}
}

// Dispatcher routes events to registered handlers. Handlers run on the
// caller's goroutine and their result is returned from Dispatch.
type Dispatcher struct {
	handlers map[string]HandlerFunc
	logger   Logger
	metrics  instruments
}

// New creates a new Dispatcher with the given logger.
// Metrics go to the global OTel meter.
func New(logger Logger) (*Dispatcher, error) {
	ins, err := newInstruments(meter())
	if err != nil {
		return nil, err
	}
	return &Dispatcher{
		handlers: make(map[string]HandlerFunc),
		logger:   logger,
		metrics:  ins,
	}, nil
}

// Register adds a handler for the given command with optional configuration.
func (d *Dispatcher) Register(command string, h HandlerFunc, opts ...Option) {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}

	handler := h
	if cfg.logged {
		handler = d.withLogging(command, handler)
	}

	d.handlers[command] = handler
}

// Dispatch routes an event to its registered handler.
func (d *Dispatcher) Dispatch(e Event) (any, error) {
	h, ok := d.handlers[e.Command]
	if !ok {
		return nil, fmt.Errorf("unknown command: %s", e.Command)
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}

	ctx := context.Background()
	attrs := eventAttrs(e)
	start := time.Now()
	result, err := h(e)
	d.metrics.duration.Record(ctx, float64(time.Since(start).Microseconds())/1000, attrs)
	d.metrics.processed.Add(ctx, 1, attrs)
	if err != nil {
		d.metrics.failed.Add(ctx, 1, attrs)
	}
	return result, err
}

// HasHandler returns true if a handler is registered for the command.
func (d *Dispatcher) HasHandler(command string) bool {
	_, ok := d.handlers[command]
	return ok
}

// Commands returns the registered command names in sorted order.
func (d *Dispatcher) Commands() []string {
	out := make([]string, 0, len(d.handlers))
	for cmd := range d.handlers {
		out = append(out, cmd)
	}
	slices.Sort(out)
	return out
}

func (d *Dispatcher) withLogging(command string, h HandlerFunc) HandlerFunc {
	return func(e Event) (any, error) {
		start := time.Now()
		kv := []any{"command", command, "bytes", len(e.Payload)}
		if e.Tile != nil {
			kv = append(kv, "tile", e.Tile.String())
		}
		d.logger.Debug("handling event", kv...)

		result, err := h(e)

		if err != nil {
			d.logger.Error("event failed", "command", command, "duration", time.Since(start), "error", err)
		} else {
			d.logger.Debug("event complete", "command", command, "duration", time.Since(start))
		}

		return result, err
	}
}
