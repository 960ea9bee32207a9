// Package reports aggregates stored annotations into corpus-level
// summaries: overall mapping coverage, category breakdown, and the most
// frequent units and ontology terms.
package reports

import (
	"fmt"
	"strings"
	"time"
)

// CategoryCount is one row of the category breakdown.
type CategoryCount struct {
	Category string  `json:"category"`
	Label    string  `json:"label"`
	Count    int     `json:"count"`
	Percent  float64 `json:"percent"`
}

// UnitCount is one row of a unit frequency ranking.
type UnitCount struct {
	Unit  string `json:"unit"`
	Count int    `json:"count"`
}

// TermCount is one row of the ontology term frequency ranking.
type TermCount struct {
	TermID    string `json:"term_id"`
	TermLabel string `json:"term_label"`
	Count     int    `json:"count"`
}

// Summary is the full corpus report. Percentages are computed against
// TotalVariables and rounded at render time, not in storage.
type Summary struct {
	GeneratedAt      time.Time       `json:"generated_at"`
	EngineVersion    string          `json:"engine_version"`
	TotalModels      int             `json:"total_models"`
	TotalVariables   int             `json:"total_variables"`
	Mapped           int             `json:"mapped"`
	Unmapped         int             `json:"unmapped"`
	Categories       []CategoryCount `json:"categories"`
	TopMappedUnits   []UnitCount     `json:"top_mapped_units"`
	TopUnmappedUnits []UnitCount     `json:"top_unmapped_units"`
	TopTerms         []TermCount     `json:"top_terms"`
}

func percent(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(count) / float64(total) * 100
}

// Render produces the plain-text report.
func (s *Summary) Render() string {
	var b strings.Builder

	fmt.Fprintf(&b, "UNIT ANNOTATION REPORT (engine %s)\n", s.EngineVersion)
	fmt.Fprintf(&b, "Generated: %s\n\n", s.GeneratedAt.Format(time.RFC3339))

	b.WriteString("OVERVIEW\n")
	fmt.Fprintf(&b, "  Models:    %d\n", s.TotalModels)
	fmt.Fprintf(&b, "  Variables: %d\n", s.TotalVariables)
	fmt.Fprintf(&b, "  Mapped:    %d (%.1f%%)\n", s.Mapped, percent(s.Mapped, s.TotalVariables))
	fmt.Fprintf(&b, "  Unmapped:  %d (%.1f%%)\n\n", s.Unmapped, percent(s.Unmapped, s.TotalVariables))

	b.WriteString("CATEGORY BREAKDOWN\n")
	for _, c := range s.Categories {
		fmt.Fprintf(&b, "  %-16s %6d (%.1f%%)\n", c.Label, c.Count, c.Percent)
	}
	b.WriteString("\n")

	writeUnits := func(title string, units []UnitCount) {
		fmt.Fprintf(&b, "TOP %d %s\n", len(units), title)
		for _, u := range units {
			fmt.Fprintf(&b, "  %-24s %6d\n", u.Unit, u.Count)
		}
		b.WriteString("\n")
	}

	writeUnits("MAPPED UNITS", s.TopMappedUnits)
	writeUnits("UNMAPPED UNITS", s.TopUnmappedUnits)

	fmt.Fprintf(&b, "TOP %d OPB MAPPING\n", len(s.TopTerms))
	for _, t := range s.TopTerms {
		fmt.Fprintf(&b, "  %-12s %-40s %6d\n", t.TermID, t.TermLabel, t.Count)
	}

	return b.String()
}
