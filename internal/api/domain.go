package api

import (
	"github.com/physiome-tools/opbmap/internal/annotations"
	"github.com/physiome-tools/opbmap/internal/models"
	"github.com/physiome-tools/opbmap/internal/reports"
	"github.com/physiome-tools/opbmap/internal/variables"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Models      models.System
	Variables   variables.System
	Annotations annotations.System
	Reports     reports.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) *Domain {
	modelSys := models.New(
		runtime.Database.Connection(),
		runtime.Storage,
		runtime.Logger,
		runtime.Pagination,
	)

	variableSys := variables.New(
		runtime.Database.Connection(),
		runtime.Logger,
		runtime.Pagination,
	)

	annotationSys := annotations.New(
		runtime.Database.Connection(),
		runtime.Annotator,
		modelSys,
		variableSys,
		runtime.Logger,
		runtime.Pagination,
	)

	reportSys := reports.New(
		runtime.Database.Connection(),
		runtime.Logger,
	)

	return &Domain{
		Models:      modelSys,
		Variables:   variableSys,
		Annotations: annotationSys,
		Reports:     reportSys,
	}
}
