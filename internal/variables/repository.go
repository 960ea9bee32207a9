package variables

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/physiome-tools/opbmap/pkg/pagination"
	"github.com/physiome-tools/opbmap/pkg/query"
	"github.com/physiome-tools/opbmap/pkg/repository"
)

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a variable repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "variables"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Variable], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Name", "UnitExpression")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count variables: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanVariable)
	if err != nil {
		return nil, fmt.Errorf("query variables: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Variable, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	v, err := repository.QueryOne(ctx, r.db, q, args, scanVariable)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &v, nil
}

func (r *repo) ListByModel(ctx context.Context, modelID uuid.UUID) ([]Variable, error) {
	q := `
		SELECT id, model_id, name, component, unit_expression, created_at
		FROM variables
		WHERE model_id = $1
		ORDER BY component, name`

	items, err := repository.QueryMany(ctx, r.db, q, []any{modelID}, scanVariable)
	if err != nil {
		return nil, fmt.Errorf("list variables for model %s: %w", modelID, err)
	}
	return items, nil
}

func (r *repo) ReplaceForModel(
	ctx context.Context,
	modelID uuid.UUID,
	cmds []CreateCommand,
) ([]Variable, error) {
	insertQ := `
		INSERT INTO variables(model_id, name, component, unit_expression)
		VALUES ($1, $2, $3, $4)
		RETURNING id, model_id, name, component, unit_expression, created_at`

	created, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) ([]Variable, error) {
		if _, err := tx.ExecContext(ctx, "DELETE FROM variables WHERE model_id = $1", modelID); err != nil {
			return nil, fmt.Errorf("clear variables: %w", err)
		}

		items := make([]Variable, 0, len(cmds))
		for _, cmd := range cmds {
			v, err := repository.QueryOne(ctx, tx, insertQ,
				[]any{modelID, cmd.Name, cmd.Component, cmd.UnitExpression},
				scanVariable,
			)
			if err != nil {
				return nil, fmt.Errorf("insert variable %s: %w", cmd.Name, err)
			}
			items = append(items, v)
		}
		return items, nil
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("variables replaced", "model_id", modelID, "count", len(created))
	return created, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if err := repository.ExecExpectOne(
			ctx, tx,
			"DELETE FROM variables WHERE id = $1",
			id,
		); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, nil
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("variable deleted", "id", id)
	return nil
}
