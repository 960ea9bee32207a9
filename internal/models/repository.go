package models

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/physiome-tools/opbmap/pkg/pagination"
	"github.com/physiome-tools/opbmap/pkg/query"
	"github.com/physiome-tools/opbmap/pkg/repository"
	"github.com/physiome-tools/opbmap/pkg/storage"
)

const contentType = "application/xml"

type repo struct {
	db         *sql.DB
	store      storage.System
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a model repository implementing the System interface.
func New(
	db *sql.DB,
	store storage.System,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		store:      store,
		logger:     logger.With("system", "models"),
		pagination: pagination,
	}
}

func (r *repo) Handler(maxUploadSize int64) *Handler {
	return NewHandler(r, r.logger, r.pagination, maxUploadSize)
}

func contentKey(id uuid.UUID) string {
	return "models/" + id.String()
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Model], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Path", "Name")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count models: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanModel)
	if err != nil {
		return nil, fmt.Errorf("query models: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Model, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	m, err := repository.QueryOne(ctx, r.db, q, args, scanModel)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &m, nil
}

func (r *repo) FindByPath(ctx context.Context, path string) (*Model, error) {
	q, args := query.NewBuilder(projection).BuildSingle("Path", path)

	m, err := repository.QueryOne(ctx, r.db, q, args, scanModel)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &m, nil
}

func (r *repo) Register(ctx context.Context, cmd RegisterCommand, content io.Reader) (*Model, error) {
	if cmd.Format == "" {
		cmd.Format = "cellml"
	}

	insertQ := `
		INSERT INTO models(path, name, format)
		VALUES ($1, $2, $3)
		ON CONFLICT (path) DO UPDATE SET
			name = EXCLUDED.name,
			format = EXCLUDED.format
		RETURNING id, path, name, format, status, variable_count, scanned_at, created_at`

	m, err := repository.QueryOne(ctx, r.db, insertQ,
		[]any{cmd.Path, cmd.Name, cmd.Format},
		scanModel,
	)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	if content != nil {
		if err := r.store.Upload(ctx, contentKey(m.ID), content, contentType); err != nil {
			return nil, fmt.Errorf("archive model content: %w", err)
		}
	}

	r.logger.Info("model registered", "id", m.ID, "path", m.Path)
	return &m, nil
}

func (r *repo) MarkScanned(ctx context.Context, id uuid.UUID, variableCount int) (*Model, error) {
	updateQ := `
		UPDATE models
		SET status = 'scanned', variable_count = $1, scanned_at = NOW()
		WHERE id = $2
		RETURNING id, path, name, format, status, variable_count, scanned_at, created_at`

	m, err := repository.QueryOne(ctx, r.db, updateQ, []any{variableCount, id}, scanModel)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	return &m, nil
}

func (r *repo) MarkAnnotated(ctx context.Context, id uuid.UUID) (*Model, error) {
	updateQ := `
		UPDATE models
		SET status = 'annotated'
		WHERE id = $1 AND status = 'scanned'
		RETURNING id, path, name, format, status, variable_count, scanned_at, created_at`

	m, err := repository.QueryOne(ctx, r.db, updateQ, []any{id}, scanModel)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	return &m, nil
}

func (r *repo) ReplaceContent(ctx context.Context, id uuid.UUID, content io.Reader) (*Model, error) {
	m, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := r.store.Upload(ctx, contentKey(m.ID), content, contentType); err != nil {
		return nil, fmt.Errorf("archive model content: %w", err)
	}

	r.logger.Info("model content replaced", "id", m.ID, "path", m.Path)
	return m, nil
}

func (r *repo) Content(ctx context.Context, id uuid.UUID) (io.ReadCloser, error) {
	rc, err := r.store.Download(ctx, contentKey(id))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNoContent
		}
		return nil, fmt.Errorf("download model content: %w", err)
	}
	return rc, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if err := repository.ExecExpectOne(
			ctx, tx,
			"DELETE FROM models WHERE id = $1",
			id,
		); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, nil
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	// Best effort: a missing blob is not an error for delete.
	if err := r.store.Delete(ctx, contentKey(id)); err != nil && !errors.Is(err, storage.ErrNotFound) {
		r.logger.Warn("model content cleanup failed", "id", id, "error", err)
	}

	r.logger.Info("model deleted", "id", id)
	return nil
}
