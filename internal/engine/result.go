package engine

import (
	"github.com/google/uuid"

	"github.com/physiome-tools/opbmap/internal/engine/category"
	"github.com/physiome-tools/opbmap/internal/engine/ontology"
	"github.com/physiome-tools/opbmap/internal/engine/units"
)

// Version tags every mapping result with the engine revision that produced
// it, so stored annotations can be re-run after table updates.
const Version = "2025.2"

// VariableRecord is one declared variable extracted from a model file.
// Records are immutable inputs produced by the corpus extractor.
type VariableRecord struct {
	ID             uuid.UUID
	OriginFile     string
	Name           string
	UnitExpression string
	Hints          []string
}

// Status of a mapping result.
type Status string

const (
	StatusMapped   Status = "mapped"
	StatusUnmapped Status = "unmapped"
)

// MappingResult is the single output produced for every input record.
// Status is Mapped iff Term is non-nil; Unit is nil only when the raw
// expression failed to parse, in which case UnitSymbol preserves the raw
// spelling for the unmapped-units report.
type MappingResult struct {
	VariableID uuid.UUID
	Status     Status
	Reason     ontology.Reason
	Category   category.Category
	Unit       *units.Unit
	UnitSymbol string
	Term       *ontology.Term
}

// Mapped reports whether a term was resolved.
func (r MappingResult) Mapped() bool {
	return r.Status == StatusMapped
}
