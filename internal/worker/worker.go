package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/seamarks/poisync/internal/parser"
	"github.com/seamarks/poisync/internal/storage"
	"github.com/seamarks/poisync/pkg/core"
)

const instrumentationName = "github.com/seamarks/poisync/internal/worker"

// ErrMissingTile is returned when a tile-scoped sync arrives without a tile.
var ErrMissingTile = errors.New("tile required")

// UpdateRecorder receives one record per orchestrated update.
type UpdateRecorder interface {
	RecordUpdate(operation string, tile *core.TileCoordinate, markers, reviews int, ok bool)
}

// Dependencies holds all dependencies for the worker manager
type Dependencies struct {
	ParserService parser.Service
	Storage       storage.Backend
	Logger        *slog.Logger
	Recorder      UpdateRecorder // optional
}

// Manager decodes service responses and applies them to storage
type Manager struct {
	deps Dependencies

	updates metric.Int64Counter
	records metric.Int64Counter
}

// NewManager creates a new worker manager.
// Uses the global OTel meter for metrics (no-op if not configured).
func NewManager(deps Dependencies) (*Manager, error) {
	if deps.ParserService == nil {
		return nil, fmt.Errorf("parser service is required")
	}
	if deps.Storage == nil {
		return nil, fmt.Errorf("storage backend is required")
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	m := &Manager{deps: deps}
	meter := otel.GetMeterProvider().Meter(instrumentationName)

	var err error
	m.updates, err = meter.Int64Counter(
		"worker.updates",
		metric.WithDescription("Orchestrated updates by operation and outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating updates counter: %w", err)
	}

	m.records, err = meter.Int64Counter(
		"worker.records.applied",
		metric.WithDescription("Records handed to storage"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating records counter: %w", err)
	}

	return m, nil
}

// observe counts an update and forwards it to the recorder.
func (m *Manager) observe(operation string, tile *core.TileCoordinate, markers, reviews int, err error) {
	ok := err == nil
	ctx := context.Background()
	op := attribute.String("operation", operation)

	m.updates.Add(ctx, 1, metric.WithAttributes(op, attribute.Bool("ok", ok)))
	if ok && markers+reviews > 0 {
		m.records.Add(ctx, int64(markers+reviews), metric.WithAttributes(op))
	}

	if err != nil {
		m.deps.Logger.Error("Update failed", "operation", operation, "error", err)
	} else {
		m.deps.Logger.Debug("Update applied", "operation", operation, "markers", markers, "reviews", reviews)
	}

	if m.deps.Recorder != nil {
		m.deps.Recorder.RecordUpdate(operation, tile, markers, reviews, ok)
	}
}
