package variables

import (
	"context"

	"github.com/google/uuid"

	"github.com/physiome-tools/opbmap/pkg/pagination"
)

// System defines the public contract for variable domain operations.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Variable], error)

	Find(ctx context.Context, id uuid.UUID) (*Variable, error)
	// ListByModel returns every variable of a model without pagination,
	// in (component, name) order, for batch annotation.
	ListByModel(ctx context.Context, modelID uuid.UUID) ([]Variable, error)
	// ReplaceForModel atomically replaces a model's variables with the
	// extracted set. Re-scanning a model never leaves stale rows behind.
	ReplaceForModel(ctx context.Context, modelID uuid.UUID, cmds []CreateCommand) ([]Variable, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
