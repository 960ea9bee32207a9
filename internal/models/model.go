// Package models implements the model-file domain: the registry of corpus
// files whose variables feed the annotation pipeline. Raw file content is
// archived to blob storage keyed by model id, so a registered model can be
// re-extracted without touching the original corpus location.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Model lifecycle statuses.
const (
	StatusRegistered = "registered"
	StatusScanned    = "scanned"
	StatusAnnotated  = "annotated"
)

// Model represents a registered model file.
type Model struct {
	ID            uuid.UUID  `json:"id"`
	Path          string     `json:"path"`
	Name          string     `json:"name"`
	Format        string     `json:"format"`
	Status        string     `json:"status"`
	VariableCount int        `json:"variable_count"`
	ScannedAt     *time.Time `json:"scanned_at"`
	CreatedAt     time.Time  `json:"created_at"`
}

// RegisterCommand carries the data needed to register a model file.
type RegisterCommand struct {
	Path   string `json:"path"`
	Name   string `json:"name"`
	Format string `json:"format"`
}
