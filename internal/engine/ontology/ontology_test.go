package ontology_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/physiome-tools/opbmap/internal/engine/category"
	"github.com/physiome-tools/opbmap/internal/engine/ontology"
	"github.com/physiome-tools/opbmap/internal/engine/units"
)

func normalize(t *testing.T, expr string) units.Unit {
	t.Helper()
	u, err := units.Normalize(expr)
	require.NoError(t, err)
	return u
}

func TestDefaultTable(t *testing.T) {
	table := ontology.Default()
	assert.Greater(t, table.Size(), 20)
}

func TestResolveUnique(t *testing.T) {
	table := ontology.Default()

	tests := []struct {
		expr   string
		cat    category.Category
		wantID string
	}{
		{"m2", category.Quantity, "OPB_00295"},
		{"dimensionless", category.Quantity, "OPB_01376"},
		{"kg", category.Quantity, "OPB_01226"},
		{"s", category.Quantity, "OPB_00402"},
		{"rad_per_s", category.FlowRate, "OPB_01490"},
		{"fA", category.FlowRate, "OPB_00318"},
		{"N", category.Effort, "OPB_00034"},
		{"J_per_mol", category.Effort, "OPB_00378"},
		{"K", category.Thermodynamic, "OPB_00293"},
		{"J_per_K", category.Thermodynamic, "OPB_00100"},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			term, reason := table.Resolve(tt.cat, normalize(t, tt.expr), nil)
			require.NotNil(t, term)
			assert.Equal(t, tt.wantID, term.ID)
			assert.Equal(t, ontology.ReasonNone, reason)
		})
	}
}

// A fan-out signature with no usable hints is ambiguous, never a guess.
func TestResolveAmbiguous(t *testing.T) {
	table := ontology.Default()

	term, reason := table.Resolve(category.Quantity, normalize(t, "mM"), nil)
	assert.Nil(t, term)
	assert.Equal(t, ontology.ReasonAmbiguous, reason)

	term, reason = table.Resolve(category.Effort, normalize(t, "mV"),
		[]string{"some_variable"})
	assert.Nil(t, term)
	assert.Equal(t, ontology.ReasonAmbiguous, reason)
}

func TestResolveHintDisambiguation(t *testing.T) {
	table := ontology.Default()

	tests := []struct {
		name   string
		expr   string
		cat    category.Category
		hints  []string
		wantID string
	}{
		{"membrane potential", "mV", category.Effort,
			[]string{"membrane_voltage"}, "OPB_01058"},
		{"nernst potential", "mV", category.Effort,
			[]string{"E_Na", "reversal_potential"}, "OPB_01169"},
		{"ion concentration", "mM", category.Quantity,
			[]string{"Ca_i"}, "OPB_00340"},
		{"fluid pressure", "Pa", category.Effort,
			[]string{"blood_pressure"}, "OPB_00509"},
		{"wall stress", "Pa", category.Effort,
			[]string{"wall_stress"}, "OPB_01053"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			term, reason := table.Resolve(tt.cat, normalize(t, tt.expr), tt.hints)
			require.NotNil(t, term, "reason: %s", reason)
			assert.Equal(t, tt.wantID, term.ID)
		})
	}
}

// Hints intersecting multiple candidates leave the result ambiguous.
func TestResolveConflictingHints(t *testing.T) {
	table := ontology.Default()

	term, reason := table.Resolve(category.Effort, normalize(t, "Pa"),
		[]string{"blood_wall_stress"})
	assert.Nil(t, term)
	assert.Equal(t, ontology.ReasonAmbiguous, reason)
}

func TestResolveNoMatch(t *testing.T) {
	table := ontology.Default()

	// Capacitance classifies as a quantity but has no curated row.
	term, reason := table.Resolve(category.Quantity, normalize(t, "F"), nil)
	assert.Nil(t, term)
	assert.Equal(t, ontology.ReasonNoMatch, reason)
}

func TestResolveUnclassified(t *testing.T) {
	table := ontology.Default()

	term, reason := table.Resolve(category.Unclassified,
		normalize(t, "dimensionless"), []string{"gating_variable"})
	assert.Nil(t, term)
	assert.Equal(t, ontology.ReasonUnclassified, reason)
}

// Short keywords only match whole tokens: a potassium keyword "k" must
// not fire inside unrelated words.
func TestResolveShortKeywordTokenMatch(t *testing.T) {
	table := ontology.Default()

	term, _ := table.Resolve(category.Quantity, normalize(t, "mM"),
		[]string{"K_o"})
	require.NotNil(t, term)
	assert.Equal(t, "OPB_00340", term.ID)

	term, reason := table.Resolve(category.Quantity, normalize(t, "mM"),
		[]string{"dark_matter"})
	assert.Nil(t, term)
	assert.Equal(t, ontology.ReasonAmbiguous, reason)
}

// Scale never affects resolution: mM and M resolve through the same row.
func TestResolveIgnoresScale(t *testing.T) {
	table := ontology.Default()
	hints := []string{"Na_concentration"}

	milli, _ := table.Resolve(category.Quantity, normalize(t, "mM"), hints)
	molar, _ := table.Resolve(category.Quantity, normalize(t, "M"), hints)

	require.NotNil(t, milli)
	require.NotNil(t, molar)
	assert.Equal(t, milli.ID, molar.ID)
}

func TestCandidates(t *testing.T) {
	table := ontology.Default()

	terms := table.Candidates(category.Effort, normalize(t, "mV").Vector)
	require.Len(t, terms, 3)
	assert.Equal(t, "OPB_01058", terms[0].ID)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "table.toml")

	content := `
[[rows]]
category = "quantity"
unit = "um"

[[rows.terms]]
id = "OPB_01064"
label = "Spatial span"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	table, err := ontology.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1, table.Size())

	term, reason := table.Resolve(category.Quantity, normalize(t, "um"), nil)
	require.NotNil(t, term)
	assert.Equal(t, "OPB_01064", term.ID)
	assert.Equal(t, ontology.ReasonNone, reason)
}

func TestLoadRejects(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
	}{
		{"bad category", `
[[rows]]
category = "mystery"
unit = "um"
[[rows.terms]]
id = "OPB_01064"
label = "Spatial span"
`},
		{"bad unit", `
[[rows]]
category = "quantity"
unit = "xyz_bogus"
[[rows.terms]]
id = "OPB_01064"
label = "Spatial span"
`},
		{"no terms", `
[[rows]]
category = "quantity"
unit = "um"
`},
		{"missing label", `
[[rows]]
category = "quantity"
unit = "um"
[[rows.terms]]
id = "OPB_01064"
`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, "bad.toml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			_, err := ontology.Load(path)
			assert.Error(t, err)
		})
	}
}
