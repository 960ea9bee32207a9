package api

import (
	"net/http"

	"github.com/physiome-tools/opbmap/internal/config"
	"github.com/physiome-tools/opbmap/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
) {
	routes.Register(
		mux,
		domain.Models.Handler(cfg.API.MaxUploadSizeBytes()).Routes(),
		domain.Variables.Handler().Routes(),
		domain.Annotations.Handler().Routes(),
		domain.Reports.Handler().Routes(),
	)
}
