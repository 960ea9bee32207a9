package annotations

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/physiome-tools/opbmap/internal/engine"
	"github.com/physiome-tools/opbmap/internal/models"
	"github.com/physiome-tools/opbmap/internal/variables"
	"github.com/physiome-tools/opbmap/pkg/pagination"
	"github.com/physiome-tools/opbmap/pkg/query"
	"github.com/physiome-tools/opbmap/pkg/repository"
)

type repo struct {
	db         *sql.DB
	annotator  *engine.Annotator
	models     models.System
	variables  variables.System
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates an annotation repository implementing the System interface.
func New(
	db *sql.DB,
	annotator *engine.Annotator,
	modelSys models.System,
	variableSys variables.System,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		annotator:  annotator,
		models:     modelSys,
		variables:  variableSys,
		logger:     logger.With("system", "annotations"),
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
) (*pagination.PageResult[Annotation], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "UnitSymbol", "TermLabel")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count annotations: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanAnnotation)
	if err != nil {
		return nil, fmt.Errorf("query annotations: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Annotation, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	a, err := repository.QueryOne(ctx, r.db, q, args, scanAnnotation)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &a, nil
}

func (r *repo) FindByVariable(ctx context.Context, variableID uuid.UUID) (*Annotation, error) {
	q, args := query.NewBuilder(projection).BuildSingle("VariableID", variableID)

	a, err := repository.QueryOne(ctx, r.db, q, args, scanAnnotation)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &a, nil
}

const upsertQ = `
	INSERT INTO annotations(
		variable_id, status, reason, category, unit_symbol,
		unit_scale, dimension_signature, term_id, term_label, engine_version
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	ON CONFLICT (variable_id) DO UPDATE SET
		status = EXCLUDED.status,
		reason = EXCLUDED.reason,
		category = EXCLUDED.category,
		unit_symbol = EXCLUDED.unit_symbol,
		unit_scale = EXCLUDED.unit_scale,
		dimension_signature = EXCLUDED.dimension_signature,
		term_id = EXCLUDED.term_id,
		term_label = EXCLUDED.term_label,
		engine_version = EXCLUDED.engine_version,
		annotated_at = NOW()
	RETURNING id, variable_id, status, reason, category, unit_symbol,
			  unit_scale, dimension_signature, term_id, term_label,
			  engine_version, annotated_at`

func upsertArgs(result engine.MappingResult) []any {
	args := []any{
		result.VariableID,
		string(result.Status),
		nullString(string(result.Reason)),
		string(result.Category),
		result.UnitSymbol,
	}

	if result.Unit != nil {
		sig := result.Unit.Vector.Signature()
		args = append(args, result.Unit.Scale, sig)
	} else {
		args = append(args, nil, nil)
	}

	if result.Term != nil {
		args = append(args, result.Term.ID, result.Term.Label)
	} else {
		args = append(args, nil, nil)
	}

	return append(args, engine.Version)
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func (r *repo) Annotate(ctx context.Context, variableID uuid.UUID) (*Annotation, error) {
	v, err := r.variables.Find(ctx, variableID)
	if err != nil {
		return nil, fmt.Errorf("annotate variable %s: %w", variableID, err)
	}

	result := r.annotator.Annotate(engine.VariableRecord{
		ID:             v.ID,
		Name:           v.Name,
		UnitExpression: v.UnitExpression,
		Hints:          []string{v.Component},
	})

	a, err := repository.QueryOne(ctx, r.db, upsertQ, upsertArgs(result), scanAnnotation)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("variable annotated",
		"id", a.ID,
		"variable_id", variableID,
		"status", a.Status,
		"category", a.Category,
	)
	return &a, nil
}

func (r *repo) AnnotateModel(ctx context.Context, modelID uuid.UUID) (*ModelSummary, error) {
	if _, err := r.models.Find(ctx, modelID); err != nil {
		return nil, fmt.Errorf("annotate model %s: %w", modelID, err)
	}

	vars, err := r.variables.ListByModel(ctx, modelID)
	if err != nil {
		return nil, err
	}
	if len(vars) == 0 {
		return nil, ErrNoVariables
	}

	records := make([]engine.VariableRecord, len(vars))
	for i, v := range vars {
		records[i] = engine.VariableRecord{
			ID:             v.ID,
			Name:           v.Name,
			UnitExpression: v.UnitExpression,
			Hints:          []string{v.Component},
		}
	}

	results, err := r.annotator.AnnotateBatch(ctx, records)
	if err != nil {
		return nil, fmt.Errorf("annotate model %s: %w", modelID, err)
	}

	summary := &ModelSummary{ModelID: modelID, Variables: len(results)}

	_, err = repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		for _, result := range results {
			if _, err := repository.QueryOne(ctx, tx, upsertQ, upsertArgs(result), scanAnnotation); err != nil {
				return struct{}{}, fmt.Errorf("store annotation for %s: %w", result.VariableID, err)
			}
			if result.Mapped() {
				summary.Mapped++
			} else {
				summary.Unmapped++
			}
		}
		return struct{}{}, nil
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	if _, err := r.models.MarkAnnotated(ctx, modelID); err != nil {
		// Status bookkeeping only; the annotations themselves are stored.
		r.logger.Warn("model status update failed", "model_id", modelID, "error", err)
	}

	r.logger.Info("model annotated",
		"model_id", modelID,
		"variables", summary.Variables,
		"mapped", summary.Mapped,
		"unmapped", summary.Unmapped,
	)
	return summary, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if err := repository.ExecExpectOne(
			ctx, tx,
			"DELETE FROM annotations WHERE id = $1",
			id,
		); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, nil
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("annotation deleted", "id", id)
	return nil
}
