package models

import (
	"net/url"

	"github.com/physiome-tools/opbmap/pkg/query"
	"github.com/physiome-tools/opbmap/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "models", "m").
	Project("id", "ID").
	Project("path", "Path").
	Project("name", "Name").
	Project("format", "Format").
	Project("status", "Status").
	Project("variable_count", "VariableCount").
	Project("scanned_at", "ScannedAt").
	Project("created_at", "CreatedAt")

var defaultSort = query.SortField{Field: "CreatedAt", Descending: true}

// Filters contains optional filtering criteria for model queries.
// Nil fields are ignored. All fields use exact matching.
type Filters struct {
	Status *string `json:"status,omitempty"`
	Format *string `json:"format,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Status", f.Status).
		WhereEquals("Format", f.Format)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if s := values.Get("status"); s != "" {
		f.Status = &s
	}

	if fm := values.Get("format"); fm != "" {
		f.Format = &fm
	}

	return f
}

func scanModel(s repository.Scanner) (Model, error) {
	var m Model

	err := s.Scan(
		&m.ID,
		&m.Path,
		&m.Name,
		&m.Format,
		&m.Status,
		&m.VariableCount,
		&m.ScannedAt,
		&m.CreatedAt,
	)

	return m, err
}
