package main

import (
	"fmt"

	"github.com/seamarks/poisync/internal/config"
	"github.com/seamarks/poisync/internal/dispatcher"
	"github.com/seamarks/poisync/internal/logging"
	"github.com/seamarks/poisync/internal/storage"
	"github.com/seamarks/poisync/internal/worker"
)

func (a *app) initStorage() error {
	a.logger.Debug("Initializing storage")

	storageCfg := config.GetStorageConfig()

	backend, err := storage.NewBackend(storageCfg, a.zlog)
	if err != nil {
		a.logger.Error("Failed to create storage backend", "error", err)
		return err
	}
	if err := backend.Init(); err != nil {
		a.logger.Error("Failed to initialize storage backend", "error", err)
		return err
	}
	a.backend = backend
	a.logger.Info("Storage backend initialized", "type", storageCfg.Type)

	a.eventDispatcher, err = dispatcher.New(logging.NewDispatcherLogger(a.zlog))
	if err != nil {
		return fmt.Errorf("failed to create dispatcher: %w", err)
	}

	deps := worker.Dependencies{
		ParserService: newParser(a.logger),
		Storage:       a.backend,
		Logger:        a.logger,
	}
	if a.influxManager != nil {
		deps.Recorder = a.influxManager
	}
	a.workerManager, err = worker.NewManager(deps)
	if err != nil {
		return fmt.Errorf("failed to create worker: %w", err)
	}

	// Register worker handlers with the dispatcher
	a.workerManager.RegisterHandlers(a.eventDispatcher)
	a.logger.Debug("Worker handlers registered with dispatcher", "commands", a.eventDispatcher.Commands())
	return nil
}

func (a *app) export() (string, error) {
	exp, ok := a.backend.(storage.Exportable)
	if !ok {
		return "", fmt.Errorf("storage type %q cannot export snapshots", config.GetStorageConfig().Type)
	}
	path, err := exp.Export()
	if err != nil {
		return "", fmt.Errorf("failed to export snapshot: %w", err)
	}
	a.logger.Info("Exported snapshot", "path", path)
	return path, nil
}
