package variables

import (
	"net/url"

	"github.com/google/uuid"

	"github.com/physiome-tools/opbmap/pkg/query"
	"github.com/physiome-tools/opbmap/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "variables", "v").
	Project("id", "ID").
	Project("model_id", "ModelID").
	Project("name", "Name").
	Project("component", "Component").
	Project("unit_expression", "UnitExpression").
	Project("created_at", "CreatedAt")

var defaultSort = query.SortField{Field: "CreatedAt", Descending: true}

// Filters contains optional filtering criteria for variable queries.
// Nil fields are ignored.
type Filters struct {
	ModelID        *uuid.UUID `json:"model_id,omitempty"`
	Name           *string    `json:"name,omitempty"`
	Component      *string    `json:"component,omitempty"`
	UnitExpression *string    `json:"unit_expression,omitempty"`
}

// Apply adds filter conditions to a query builder. Name matches as a
// substring so callers can find related variables (V, V_m, V_membrane).
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("ModelID", f.ModelID).
		WhereContains("Name", f.Name).
		WhereEquals("Component", f.Component).
		WhereEquals("UnitExpression", f.UnitExpression)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if m := values.Get("model_id"); m != "" {
		if id, err := uuid.Parse(m); err == nil {
			f.ModelID = &id
		}
	}

	if n := values.Get("name"); n != "" {
		f.Name = &n
	}

	if c := values.Get("component"); c != "" {
		f.Component = &c
	}

	if u := values.Get("unit"); u != "" {
		f.UnitExpression = &u
	}

	return f
}

func scanVariable(s repository.Scanner) (Variable, error) {
	var v Variable

	err := s.Scan(
		&v.ID,
		&v.ModelID,
		&v.Name,
		&v.Component,
		&v.UnitExpression,
		&v.CreatedAt,
	)

	return v, err
}
