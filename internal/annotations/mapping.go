package annotations

import (
	"net/url"

	"github.com/google/uuid"

	"github.com/physiome-tools/opbmap/pkg/query"
	"github.com/physiome-tools/opbmap/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "annotations", "a").
	Project("id", "ID").
	Project("variable_id", "VariableID").
	Project("status", "Status").
	Project("reason", "Reason").
	Project("category", "Category").
	Project("unit_symbol", "UnitSymbol").
	Project("unit_scale", "UnitScale").
	Project("dimension_signature", "DimensionSignature").
	Project("term_id", "TermID").
	Project("term_label", "TermLabel").
	Project("engine_version", "EngineVersion").
	Project("annotated_at", "AnnotatedAt")

var defaultSort = query.SortField{Field: "AnnotatedAt", Descending: true}

// Filters contains optional filtering criteria for annotation queries.
// Nil fields are ignored. All fields use exact matching.
type Filters struct {
	Status     *string    `json:"status,omitempty"`
	Reason     *string    `json:"reason,omitempty"`
	Category   *string    `json:"category,omitempty"`
	TermID     *string    `json:"term_id,omitempty"`
	VariableID *uuid.UUID `json:"variable_id,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Status", f.Status).
		WhereEquals("Reason", f.Reason).
		WhereEquals("Category", f.Category).
		WhereEquals("TermID", f.TermID).
		WhereEquals("VariableID", f.VariableID)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if s := values.Get("status"); s != "" {
		f.Status = &s
	}

	if re := values.Get("reason"); re != "" {
		f.Reason = &re
	}

	if c := values.Get("category"); c != "" {
		f.Category = &c
	}

	if t := values.Get("term_id"); t != "" {
		f.TermID = &t
	}

	if v := values.Get("variable_id"); v != "" {
		if id, err := uuid.Parse(v); err == nil {
			f.VariableID = &id
		}
	}

	return f
}

func scanAnnotation(s repository.Scanner) (Annotation, error) {
	var a Annotation

	err := s.Scan(
		&a.ID,
		&a.VariableID,
		&a.Status,
		&a.Reason,
		&a.Category,
		&a.UnitSymbol,
		&a.UnitScale,
		&a.DimensionSignature,
		&a.TermID,
		&a.TermLabel,
		&a.EngineVersion,
		&a.AnnotatedAt,
	)

	return a, err
}
