package units_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/physiome-tools/opbmap/internal/engine/units"
)

func vec(length, mass, time, charge, amount, temperature, angle int) units.Vector {
	return units.Vector{length, mass, time, charge, amount, temperature, angle}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		expr      string
		wantScale float64
		wantVec   units.Vector
	}{
		{"m", 1, vec(1, 0, 0, 0, 0, 0, 0)},
		{"um", 1e-6, vec(1, 0, 0, 0, 0, 0, 0)},
		{"m2", 1, vec(2, 0, 0, 0, 0, 0, 0)},
		{"mm2", 1e-6, vec(2, 0, 0, 0, 0, 0, 0)},
		{"m3", 1, vec(3, 0, 0, 0, 0, 0, 0)},
		{"kg", 1, vec(0, 1, 0, 0, 0, 0, 0)},
		{"g", 1e-3, vec(0, 1, 0, 0, 0, 0, 0)},
		{"s", 1, vec(0, 0, 1, 0, 0, 0, 0)},
		{"ms", 1e-3, vec(0, 0, 1, 0, 0, 0, 0)},
		{"mM", 1e-3, vec(-3, 0, 0, 0, 1, 0, 0)},
		{"M", 1, vec(-3, 0, 0, 0, 1, 0, 0)},
		{"fmol", 1e-15, vec(0, 0, 0, 0, 1, 0, 0)},
		{"fmol_per_s", 1e-15, vec(0, 0, -1, 0, 1, 0, 0)},
		{"rad_per_s", 1, vec(0, 0, -1, 0, 0, 0, 1)},
		{"m_per_s", 1, vec(1, 0, -1, 0, 0, 0, 0)},
		{"mV", 1e-3, vec(2, 1, -2, -1, 0, 0, 0)},
		{"fA", 1e-15, vec(0, 0, -1, 1, 0, 0, 0)},
		{"J_per_mol", 1, vec(2, 1, -2, 0, -1, 0, 0)},
		{"J_per_K_s", 1, vec(2, 1, -3, 0, 0, -1, 0)},
		{"kg_per_m3", 1, vec(-3, 1, 0, 0, 0, 0, 0)},
		{"uL", 1e-6, vec(3, 0, 0, 0, 0, 0, 0)},
		{"dimensionless", 1, units.Vector{}},
		{"percent", 1e-2, units.Vector{}},
		{"Hz", 1, vec(0, 0, -1, 0, 0, 0, 0)},
		{"mS_per_cm2", 1e1, vec(-4, -1, 1, 2, 0, 0, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			u, err := units.Normalize(tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.wantVec, u.Vector)
			assert.InEpsilon(t, tt.wantScale, u.Scale, 1e-9)
		})
	}
}

func TestNormalizeSlashDivision(t *testing.T) {
	slash, err := units.Normalize("m/s")
	require.NoError(t, err)

	underscore, err := units.Normalize("m_per_s")
	require.NoError(t, err)

	assert.Equal(t, underscore, slash)
}

func TestNormalizeDivisorOrderIrrelevant(t *testing.T) {
	a, err := units.Normalize("mol_per_s_per_m2")
	require.NoError(t, err)

	b, err := units.Normalize("mol_per_m2_per_s")
	require.NoError(t, err)

	assert.Equal(t, a.Vector, b.Vector)
	assert.InEpsilon(t, a.Scale, b.Scale, 1e-9)
}

// The molar and litre spellings share one convention, so the physically
// identical M and mol_per_L normalize to the same scale and render the
// same symbol.
func TestNormalizeMolarLitreAgree(t *testing.T) {
	molar, err := units.Normalize("M")
	require.NoError(t, err)

	perLitre, err := units.Normalize("mol_per_L")
	require.NoError(t, err)

	assert.Equal(t, molar.Vector, perLitre.Vector)
	assert.InEpsilon(t, molar.Scale, perLitre.Scale, 1e-9)
	assert.Equal(t, molar.Render(), perLitre.Render())

	milli, err := units.Normalize("mmol_per_L")
	require.NoError(t, err)
	assert.InEpsilon(t, 1e-3, milli.Scale, 1e-9)
}

func TestNormalizeRejects(t *testing.T) {
	exprs := []string{
		"",
		"   ",
		"xyz_bogus",
		"m_per_",
		"_per_s",
		"47",
		"m0",
		"millimeter",
	}

	for _, expr := range exprs {
		t.Run(expr, func(t *testing.T) {
			_, err := units.Normalize(expr)
			require.Error(t, err)
			assert.True(t, errors.Is(err, units.ErrParse), "want ErrParse, got %v", err)
		})
	}
}

// A failed expression must never yield a partial unit: the error carries
// the raw spelling and the caller keeps its own record untouched.
func TestParseErrorDetail(t *testing.T) {
	_, err := units.Normalize("furlong_per_fortnight")

	var perr *units.ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "furlong_per_fortnight", perr.Expr)
	assert.Contains(t, perr.Error(), "furlong")
}

func TestSignature(t *testing.T) {
	tests := []struct {
		expr string
		want string
	}{
		{"mM", "L-3 N1"},
		{"m_per_s", "L1 T-1"},
		{"rad_per_s", "T-1 A1"},
		{"J_per_mol", "L2 M1 T-2 N-1"},
		{"dimensionless", "1"},
		{"kg", "M1"},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			u, err := units.Normalize(tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.want, u.Vector.Signature())
		})
	}
}

// Scaled spellings of the same dimension share a signature; the scale is
// the only thing distinguishing them.
func TestSignatureIgnoresScale(t *testing.T) {
	mm, err := units.Normalize("mM")
	require.NoError(t, err)
	m, err := units.Normalize("M")
	require.NoError(t, err)

	assert.Equal(t, m.Vector.Signature(), mm.Vector.Signature())
	assert.NotEqual(t, m.Scale, mm.Scale)
}

func TestRenderRoundTrip(t *testing.T) {
	exprs := []string{
		"mM",
		"m_per_s",
		"rad_per_s",
		"kg_per_m3",
		"fA",
		"mV",
		"J_per_mol",
		"dimensionless",
		"Hz",
		"um",
	}

	for _, expr := range exprs {
		t.Run(expr, func(t *testing.T) {
			u, err := units.Normalize(expr)
			require.NoError(t, err)

			again, err := units.Normalize(u.Render())
			require.NoError(t, err)

			assert.Equal(t, u.Vector, again.Vector, "vector drifted through render")
			assert.Equal(t, u.Render(), again.Render(), "render is not a fixed point")
		})
	}
}

func TestRenderSpellings(t *testing.T) {
	tests := []struct {
		expr string
		want string
	}{
		{"mM", "mmol_per_m3"},
		{"dimensionless", "dimensionless"},
		{"Hz", "dimensionless_per_s"},
		{"um", "um"},
		{"m_per_s", "m_per_s"},
		{"N", "m_kg_per_s2"},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			u, err := units.Normalize(tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.want, u.Render())
		})
	}
}

func TestVectorAdd(t *testing.T) {
	v := vec(1, 0, -1, 0, 0, 0, 0)
	sum := v.Add(vec(0, 0, 1, 0, 0, 0, 0), -1)
	assert.Equal(t, vec(1, 0, -2, 0, 0, 0, 0), sum)
	// Add is value-semantic; the receiver is untouched.
	assert.Equal(t, vec(1, 0, -1, 0, 0, 0, 0), v)
}
