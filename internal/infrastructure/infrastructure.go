// Package infrastructure provides core service initialization for application startup.
// It assembles common dependencies (logging, database, storage, annotation engine)
// that domain systems require.
package infrastructure

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/physiome-tools/opbmap/internal/config"
	"github.com/physiome-tools/opbmap/internal/engine"
	"github.com/physiome-tools/opbmap/internal/engine/ontology"
	"github.com/physiome-tools/opbmap/pkg/database"
	"github.com/physiome-tools/opbmap/pkg/lifecycle"
	"github.com/physiome-tools/opbmap/pkg/storage"
)

// Infrastructure holds the core systems required by all domain modules.
// It provides a single point of initialization for lifecycle coordination,
// logging, database access, file storage, and the annotation engine.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Database  database.System
	Storage   storage.System
	Annotator *engine.Annotator
}

// New creates an Infrastructure from the application configuration.
// It initializes all systems but does not start them; call Start separately.
// A missing or invalid ontology table is fatal.
func New(cfg *config.Config) (*Infrastructure, error) {
	lc := lifecycle.New()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	db, err := database.New(&cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}

	store, err := storage.New(&cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("storage init failed: %w", err)
	}

	table, err := loadTable(cfg.Engine.OntologyTable)
	if err != nil {
		return nil, fmt.Errorf("ontology table init failed: %w", err)
	}

	annotator, err := engine.New(engine.Config{
		Workers:   cfg.Engine.Workers,
		QueueSize: cfg.Engine.QueueSize,
		Metrics:   prometheus.DefaultRegisterer,
	}, table, logger)
	if err != nil {
		return nil, fmt.Errorf("engine init failed: %w", err)
	}

	return &Infrastructure{
		Lifecycle: lc,
		Logger:    logger,
		Database:  db,
		Storage:   store,
		Annotator: annotator,
	}, nil
}

func loadTable(path string) (*ontology.Table, error) {
	if path == "" {
		return ontology.Default(), nil
	}
	return ontology.Load(path)
}

const engineStopTimeout = 5 * time.Second

// Start registers all infrastructure systems with the lifecycle coordinator.
// Database and storage hooks are registered for startup and shutdown
// coordination; the engine worker pool is drained on shutdown.
func (i *Infrastructure) Start() error {
	if err := i.Database.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("database start failed: %w", err)
	}
	if err := i.Storage.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("storage start failed: %w", err)
	}

	i.Lifecycle.OnShutdown(func() {
		<-i.Lifecycle.Context().Done()
		if err := i.Annotator.Close(engineStopTimeout); err != nil {
			i.Logger.Error("engine shutdown failed", "error", err)
		}
	})

	return nil
}
