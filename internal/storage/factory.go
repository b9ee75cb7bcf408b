// internal/storage/factory.go
package storage

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/seamarks/poisync/internal/config"
	"github.com/seamarks/poisync/internal/storage/memory"
	"github.com/seamarks/poisync/internal/storage/postgres"
	sqlitestorage "github.com/seamarks/poisync/internal/storage/sqlite"
)

// NewBackend creates a storage backend based on configuration
func NewBackend(cfg config.StorageConfig, log zerolog.Logger) (Backend, error) {
	switch cfg.Type {
	case "postgres":
		return postgres.New(postgres.Dependencies{Logger: log}), nil
	case "sqlite":
		b, err := sqlitestorage.New(cfg.SQLite, log)
		if err != nil {
			return nil, err
		}
		return b, nil
	case "memory":
		return memory.New(cfg.Memory), nil
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}
