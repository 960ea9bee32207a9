// Package annotations implements the annotation domain: stored mapping
// results produced by the engine, one row per variable. It provides types,
// data access, and the operations that run the unit normalization and
// ontology mapping pipeline for a single variable or a whole model.
package annotations

import (
	"time"

	"github.com/google/uuid"
)

// Annotation is a stored mapping result. It mirrors the annotations table
// schema with the engine's canonical unit flattened into symbol, scale,
// and dimension signature columns. TermID and TermLabel are set iff
// Status is mapped.
type Annotation struct {
	ID                 uuid.UUID `json:"id"`
	VariableID         uuid.UUID `json:"variable_id"`
	Status             string    `json:"status"`
	Reason             *string   `json:"reason"`
	Category           string    `json:"category"`
	UnitSymbol         string    `json:"unit_symbol"`
	UnitScale          *float64  `json:"unit_scale"`
	DimensionSignature *string   `json:"dimension_signature"`
	TermID             *string   `json:"term_id"`
	TermLabel          *string   `json:"term_label"`
	EngineVersion      string    `json:"engine_version"`
	AnnotatedAt        time.Time `json:"annotated_at"`
}

// ModelSummary reports the outcome of annotating every variable of one model.
type ModelSummary struct {
	ModelID   uuid.UUID `json:"model_id"`
	Variables int       `json:"variables"`
	Mapped    int       `json:"mapped"`
	Unmapped  int       `json:"unmapped"`
}
