package dispatcher

import (
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/seamarks/poisync/internal/dispatcher"

// instruments are the dispatcher's metrics. With no global provider they are no-ops.
type instruments struct {
	processed metric.Int64Counter
	failed    metric.Int64Counter
	duration  metric.Float64Histogram
}

func newInstruments(m metric.Meter) (instruments, error) {
	var (
		ins instruments
		err error
	)
	if ins.processed, err = m.Int64Counter("dispatcher.events.processed",
		metric.WithDescription("Events handed to their handler")); err != nil {
		return ins, fmt.Errorf("creating processed counter: %w", err)
	}
	if ins.failed, err = m.Int64Counter("dispatcher.events.failed",
		metric.WithDescription("Events whose handler returned an error")); err != nil {
		return ins, fmt.Errorf("creating failed counter: %w", err)
	}
	if ins.duration, err = m.Float64Histogram("dispatcher.event.duration",
		metric.WithDescription("Time spent dispatching one service response"),
		metric.WithUnit("ms")); err != nil {
		return ins, fmt.Errorf("creating duration histogram: %w", err)
	}
	return ins, nil
}

// eventAttrs labels a dispatch by command and by whether it was tile scoped.
func eventAttrs(e Event) metric.MeasurementOption {
	return metric.WithAttributes(
		attribute.String("command", e.Command),
		attribute.Bool("tile_scoped", e.Tile != nil),
	)
}

func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}
