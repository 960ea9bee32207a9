package api

import (
	"github.com/physiome-tools/opbmap/internal/config"
	"github.com/physiome-tools/opbmap/internal/infrastructure"
	"github.com/physiome-tools/opbmap/pkg/pagination"
)

// Runtime extends Infrastructure with API-specific configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	Pagination pagination.Config
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle: infra.Lifecycle,
			Logger:    infra.Logger.With("module", "api"),
			Database:  infra.Database,
			Storage:   infra.Storage,
			Annotator: infra.Annotator,
		},
		Pagination: cfg.API.Pagination,
	}
}
