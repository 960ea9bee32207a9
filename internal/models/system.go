package models

import (
	"context"
	"io"

	"github.com/google/uuid"

	"github.com/physiome-tools/opbmap/pkg/pagination"
)

// System defines the public contract for model domain operations.
type System interface {
	Handler(maxUploadSize int64) *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Model], error)

	Find(ctx context.Context, id uuid.UUID) (*Model, error)
	FindByPath(ctx context.Context, path string) (*Model, error)
	// Register inserts the model row and archives its raw content to blob
	// storage. A nil content reader registers metadata only.
	Register(ctx context.Context, cmd RegisterCommand, content io.Reader) (*Model, error)
	// MarkScanned records a completed variable extraction.
	MarkScanned(ctx context.Context, id uuid.UUID, variableCount int) (*Model, error)
	// MarkAnnotated records a completed annotation pass over the model's variables.
	MarkAnnotated(ctx context.Context, id uuid.UUID) (*Model, error)
	// ReplaceContent archives new raw content for an existing model.
	ReplaceContent(ctx context.Context, id uuid.UUID, content io.Reader) (*Model, error)
	// Content streams the archived raw file. The caller must close the reader.
	Content(ctx context.Context, id uuid.UUID) (io.ReadCloser, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
