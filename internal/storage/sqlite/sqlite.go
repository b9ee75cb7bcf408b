// Package sqlitestorage implements the storage.Backend interface on SQLite.
// It wraps the GORM backend; the only SQLite-specific concerns are opening the
// database and, for in-memory databases, dumping to disk via VACUUM INTO.
package sqlitestorage

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/seamarks/poisync/internal/config"
	"github.com/seamarks/poisync/internal/database"
	gormstorage "github.com/seamarks/poisync/internal/storage/gorm"
)

// Backend wraps the GORM backend for SQLite-specific behavior.
type Backend struct {
	*gormstorage.Backend
	mgr       *database.Manager
	interval  time.Duration
	log       zerolog.Logger
	stopChan  chan struct{}
	done      sync.WaitGroup
	closeOnce sync.Once
}

// New opens the SQLite database and creates the backend.
// An empty cfg.Path opens an in-memory database that is dumped to cfg.DumpPath.
func New(cfg config.SQLiteConfig, log zerolog.Logger) (*Backend, error) {
	log = log.With().Str("component", "sqlite").Logger()
	mgr := database.NewManager(log)
	mgr.DumpPath = cfg.DumpPath
	if err := mgr.ConnectSqlite(cfg.Path); err != nil {
		return nil, err
	}

	gormBackend := gormstorage.New(gormstorage.Dependencies{
		DB:     mgr.DB,
		Logger: log,
	})

	return &Backend{
		Backend:  gormBackend,
		mgr:      mgr,
		interval: cfg.DumpInterval,
		log:      log,
		stopChan: make(chan struct{}),
	}, nil
}

// InMemory reports whether the database lives only in memory.
func (b *Backend) InMemory() bool {
	return b.mgr.InMemory
}

// Init initializes the embedded GORM backend and starts the dump goroutine.
func (b *Backend) Init() error {
	if err := b.Backend.Init(); err != nil {
		return err
	}

	if b.InMemory() && b.mgr.DumpPath != "" && b.interval > 0 {
		b.done.Add(1)
		go b.dumpLoop()
	}

	return nil
}

// Close stops the dump goroutine, writes a final dump for in-memory databases,
// and closes the connection.
func (b *Backend) Close() error {
	var err error
	b.closeOnce.Do(func() {
		close(b.stopChan)
		b.done.Wait()

		if b.InMemory() && b.mgr.DumpPath != "" {
			err = b.Dump()
		}
		if closeErr := b.mgr.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	})
	return err
}

// Dump writes a point-in-time copy of an in-memory database to its dump path.
func (b *Backend) Dump() error {
	if err := b.mgr.DumpMemoryToDisk(); err != nil {
		b.log.Error().Err(err).Msg("Error dumping to disk")
		return err
	}
	return nil
}

// dumpLoop periodically dumps the in-memory SQLite database to disk via VACUUM INTO.
// VACUUM INTO creates a point-in-time snapshot, so no pause mechanism is needed.
func (b *Backend) dumpLoop() {
	defer b.done.Done()
	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()

	for {
		select {
		case <-b.stopChan:
			return
		case <-ticker.C:
			_ = b.Dump()
		}
	}
}
