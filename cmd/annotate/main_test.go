package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/physiome-tools/opbmap/internal/annotations"
	"github.com/physiome-tools/opbmap/internal/models"
	"github.com/physiome-tools/opbmap/pkg/pagination"
)

type stubModels struct {
	models.System
	listFn          func(context.Context, pagination.PageRequest, models.Filters) (*pagination.PageResult[models.Model], error)
	markAnnotatedFn func(context.Context, uuid.UUID) (*models.Model, error)
}

func (s *stubModels) List(ctx context.Context, page pagination.PageRequest, filters models.Filters) (*pagination.PageResult[models.Model], error) {
	return s.listFn(ctx, page, filters)
}

func (s *stubModels) MarkAnnotated(ctx context.Context, id uuid.UUID) (*models.Model, error) {
	return s.markAnnotatedFn(ctx, id)
}

type stubAnnotations struct {
	annotations.System
	annotateModelFn func(context.Context, uuid.UUID) (*annotations.ModelSummary, error)
}

func (s *stubAnnotations) AnnotateModel(ctx context.Context, modelID uuid.UUID) (*annotations.ModelSummary, error) {
	return s.annotateModelFn(ctx, modelID)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestAnnotateAllSkipsModelsWithoutVariables(t *testing.T) {
	full := models.Model{ID: uuid.New(), Path: "models/beeler_reuter_1977.cellml"}
	empty := models.Model{ID: uuid.New(), Path: "models/units_only.cellml"}

	marked := map[uuid.UUID]bool{}
	modelSys := &stubModels{
		listFn: func(_ context.Context, _ pagination.PageRequest, _ models.Filters) (*pagination.PageResult[models.Model], error) {
			data := []models.Model{full, empty}
			result := pagination.NewPageResult(data, len(data), 1, 100)
			return &result, nil
		},
		markAnnotatedFn: func(_ context.Context, id uuid.UUID) (*models.Model, error) {
			marked[id] = true
			return &empty, nil
		},
	}

	var annotated []uuid.UUID
	annotationSys := &stubAnnotations{
		annotateModelFn: func(_ context.Context, id uuid.UUID) (*annotations.ModelSummary, error) {
			annotated = append(annotated, id)
			if id == empty.ID {
				return nil, annotations.ErrNoVariables
			}
			return &annotations.ModelSummary{ModelID: id, Variables: 3, Mapped: 2, Unmapped: 1}, nil
		},
	}

	err := annotateAll(context.Background(), modelSys, annotationSys, testLogger())
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{full.ID, empty.ID}, annotated)
	assert.True(t, marked[empty.ID], "empty model should be marked annotated")
	assert.False(t, marked[full.ID], "annotated model is marked by the pipeline itself")
}

func TestAnnotateAllPropagatesFailures(t *testing.T) {
	m := models.Model{ID: uuid.New(), Path: "models/noble_1962.cellml"}
	boom := errors.New("pool stopped")

	modelSys := &stubModels{
		listFn: func(_ context.Context, _ pagination.PageRequest, _ models.Filters) (*pagination.PageResult[models.Model], error) {
			data := []models.Model{m}
			result := pagination.NewPageResult(data, 1, 1, 100)
			return &result, nil
		},
	}
	annotationSys := &stubAnnotations{
		annotateModelFn: func(context.Context, uuid.UUID) (*annotations.ModelSummary, error) {
			return nil, boom
		},
	}

	err := annotateAll(context.Background(), modelSys, annotationSys, testLogger())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), m.Path)
}
