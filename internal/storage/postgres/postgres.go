// Package postgres implements the storage.Backend interface on PostgreSQL.
// Writes go through the GORM backend; this package owns the connection.
package postgres

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/seamarks/poisync/internal/database"
	gormstorage "github.com/seamarks/poisync/internal/storage/gorm"
	"github.com/seamarks/poisync/pkg/core"
)

var errNotInitialized = errors.New("postgres backend not initialized")

// Dependencies holds all dependencies for the Postgres storage backend.
// DB may be injected; otherwise Init connects using the db.* config keys.
type Dependencies struct {
	DB     *gorm.DB
	Logger zerolog.Logger
}

// Backend implements storage.Backend using GORM/PostgreSQL.
type Backend struct {
	deps  Dependencies
	store *gormstorage.Backend
	// set when Init opened the connection itself
	mgr *database.Manager
}

// New creates a new Postgres storage backend.
func New(deps Dependencies) *Backend {
	deps.Logger = deps.Logger.With().Str("component", "postgres").Logger()
	return &Backend{
		deps: deps,
	}
}

// Init connects if no DB was injected and runs schema migration.
func (b *Backend) Init() error {
	db := b.deps.DB
	if db == nil {
		mgr := database.NewManager(b.deps.Logger)
		if err := mgr.ConnectPostgres(); err != nil {
			return err
		}
		b.mgr = mgr
		db = mgr.DB
	}

	store := gormstorage.New(gormstorage.Dependencies{DB: db, Logger: b.deps.Logger})
	if err := store.Init(); err != nil {
		return fmt.Errorf("failed to setup DB: %w", err)
	}
	b.store = store
	return nil
}

// Close releases the connection if Init opened it.
func (b *Backend) Close() error {
	b.store = nil
	if b.mgr == nil {
		return nil
	}
	err := b.mgr.Close()
	b.mgr = nil
	return err
}

// ApplyMarkerUpdates writes a marker batch in one transaction.
func (b *Backend) ApplyMarkerUpdates(markers []core.MarkerRecordCollection, tile *core.TileCoordinate) error {
	if b.store == nil {
		return errNotInitialized
	}
	return b.store.ApplyMarkerUpdates(markers, tile)
}

// ApplyReviewUpdates writes a review batch in one transaction.
func (b *Backend) ApplyReviewUpdates(reviews []core.ReviewRecordCollection, tile *core.TileCoordinate) error {
	if b.store == nil {
		return errNotInitialized
	}
	return b.store.ApplyReviewUpdates(reviews, tile)
}
