package annotations

import (
	"context"

	"github.com/google/uuid"

	"github.com/physiome-tools/opbmap/pkg/pagination"
)

// System defines the public contract for annotation domain operations.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Annotation], error)

	Find(ctx context.Context, id uuid.UUID) (*Annotation, error)
	FindByVariable(ctx context.Context, variableID uuid.UUID) (*Annotation, error)
	// Annotate runs the mapping pipeline for one variable and upserts the
	// result. Re-annotating replaces the previous result.
	Annotate(ctx context.Context, variableID uuid.UUID) (*Annotation, error)
	// AnnotateModel runs the pipeline for every variable of a model using
	// the engine's worker pool and stores all results.
	AnnotateModel(ctx context.Context, modelID uuid.UUID) (*ModelSummary, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
