package reports_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/physiome-tools/opbmap/internal/reports"
)

func sampleSummary() *reports.Summary {
	return &reports.Summary{
		GeneratedAt:    time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC),
		EngineVersion:  "2025.2",
		TotalModels:    12,
		TotalVariables: 400,
		Mapped:         300,
		Unmapped:       100,
		Categories: []reports.CategoryCount{
			{Category: "quantity", Label: "Quantities", Count: 200, Percent: 50},
			{Category: "flow_rate", Label: "Flow rates", Count: 100, Percent: 25},
			{Category: "effort", Label: "Efforts", Count: 60, Percent: 15},
			{Category: "thermodynamic", Label: "Thermodynamics", Count: 20, Percent: 5},
			{Category: "unclassified", Label: "Unclassified", Count: 20, Percent: 5},
		},
		TopMappedUnits: []reports.UnitCount{
			{Unit: "mmol_per_m3", Count: 120},
			{Unit: "mV", Count: 80},
		},
		TopUnmappedUnits: []reports.UnitCount{
			{Unit: "per_millisecond", Count: 40},
		},
		TopTerms: []reports.TermCount{
			{TermID: "OPB_00340", TermLabel: "Concentration of chemical", Count: 120},
			{TermID: "OPB_01058", TermLabel: "Membrane potential", Count: 80},
		},
	}
}

func TestRenderSections(t *testing.T) {
	text := sampleSummary().Render()

	for _, section := range []string{
		"OVERVIEW",
		"CATEGORY BREAKDOWN",
		"TOP 2 MAPPED UNITS",
		"TOP 1 UNMAPPED UNITS",
		"TOP 2 OPB MAPPING",
	} {
		assert.Contains(t, text, section)
	}
}

func TestRenderValues(t *testing.T) {
	text := sampleSummary().Render()

	assert.Contains(t, text, "engine 2025.2")
	assert.Contains(t, text, "Mapped:    300 (75.0%)")
	assert.Contains(t, text, "Unmapped:  100 (25.0%)")
	assert.Contains(t, text, "mmol_per_m3")
	assert.Contains(t, text, "OPB_00340")
	assert.Contains(t, text, "Concentration of chemical")
}

func TestRenderEmptyCorpus(t *testing.T) {
	s := &reports.Summary{
		GeneratedAt:   time.Now().UTC(),
		EngineVersion: "2025.2",
	}

	text := s.Render()
	assert.Contains(t, text, "Variables: 0")
	// Zero totals must not divide by zero.
	assert.Contains(t, text, "Mapped:    0 (0.0%)")
}

func TestRenderOrderingPreserved(t *testing.T) {
	text := sampleSummary().Render()

	first := strings.Index(text, "mmol_per_m3")
	second := strings.Index(text, "mV")
	assert.Less(t, first, second, "ranking order must follow the summary")
}
