package category_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/physiome-tools/opbmap/internal/engine/category"
	"github.com/physiome-tools/opbmap/internal/engine/units"
)

func normalize(t *testing.T, expr string) units.Unit {
	t.Helper()
	u, err := units.Normalize(expr)
	require.NoError(t, err)
	return u
}

func TestClassify(t *testing.T) {
	tests := []struct {
		expr string
		want category.Category
	}{
		// quantities: stocks with no inverse time dependence
		{"um", category.Quantity},
		{"m2", category.Quantity},
		{"m3", category.Quantity},
		{"kg", category.Quantity},
		{"fmol", category.Quantity},
		{"s", category.Quantity},
		{"mM", category.Quantity},
		{"kg_per_m3", category.Quantity},
		{"C", category.Quantity},

		// flow rates: one inverse time power, no other negatives
		{"m_per_s", category.FlowRate},
		{"m3_per_s", category.FlowRate},
		{"rad_per_s", category.FlowRate},
		{"fmol_per_s", category.FlowRate},
		{"fA", category.FlowRate},
		{"Hz", category.Unclassified},

		// efforts: force, pressure, and potential shapes
		{"N", category.Effort},
		{"Pa", category.Effort},
		{"mV", category.Effort},
		{"J_per_mol", category.Effort},
		{"mM_per_s", category.Effort},

		// thermodynamics: temperature, energy, and power
		{"K", category.Thermodynamic},
		{"J_per_K", category.Thermodynamic},
		{"J_per_K_s", category.Thermodynamic},

		// dimensionless ratios (strain, gating fractions) are stocks
		{"dimensionless", category.Quantity},
		{"percent", category.Quantity},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got := category.Classify(normalize(t, tt.expr), nil)
			assert.Equal(t, tt.want, got)
		})
	}
}

// Energy and power shapes match both the thermodynamic and effort
// patterns. Without hints the thermodynamic bucket wins on precedence;
// an effort-flavored variable name flips the result.
func TestClassifyTieBreak(t *testing.T) {
	joule := normalize(t, "J")
	watt := normalize(t, "mW")

	assert.Equal(t, category.Thermodynamic, category.Classify(joule, nil))
	assert.Equal(t, category.Thermodynamic, category.Classify(watt, nil))

	assert.Equal(t, category.Effort,
		category.Classify(joule, []string{"elastic_potential"}))
	assert.Equal(t, category.Thermodynamic,
		category.Classify(joule, []string{"heat_production"}))
}

// Hints never override a unique dimensional match.
func TestClassifyHintsCannotOverride(t *testing.T) {
	conc := normalize(t, "mM")

	got := category.Classify(conc, []string{"calcium_flux_rate"})
	assert.Equal(t, category.Quantity, got)
}

// Scale plays no part in classification.
func TestClassifyIgnoresScale(t *testing.T) {
	milli := normalize(t, "mM")
	molar := normalize(t, "M")

	assert.Equal(t,
		category.Classify(molar, nil),
		category.Classify(milli, nil),
	)
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "Quantities", category.Quantity.Label())
	assert.Equal(t, "Flow rates", category.FlowRate.Label())
	assert.Equal(t, "Efforts", category.Effort.Label())
	assert.Equal(t, "Thermodynamics", category.Thermodynamic.Label())
	assert.Equal(t, "Unclassified", category.Unclassified.Label())
}

func TestValid(t *testing.T) {
	assert.True(t, category.FlowRate.Valid())
	assert.True(t, category.Unclassified.Valid())
	assert.False(t, category.Category("bogus").Valid())
}
