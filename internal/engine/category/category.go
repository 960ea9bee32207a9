// Package category classifies canonical units into the four coarse
// physical-quantity classes used to partition annotation results. The
// classifier is a fixed, ordered pattern table over dimension vectors;
// naming hints only ever break ties between patterns of equal precedence
// and never override a unique dimensional match.
package category

import (
	"strings"

	"github.com/physiome-tools/opbmap/internal/engine/units"
)

// Category is the closed set of physical-quantity classes.
type Category string

const (
	Quantity      Category = "quantity"
	FlowRate      Category = "flow_rate"
	Effort        Category = "effort"
	Thermodynamic Category = "thermodynamic"
	Unclassified  Category = "unclassified"
)

// Label returns the human-readable name used in summary reports.
func (c Category) Label() string {
	switch c {
	case Quantity:
		return "Quantities"
	case FlowRate:
		return "Flow rates"
	case Effort:
		return "Efforts"
	case Thermodynamic:
		return "Thermodynamics"
	default:
		return "Unclassified"
	}
}

// Valid reports whether c is a member of the closed enumeration.
func (c Category) Valid() bool {
	switch c {
	case Quantity, FlowRate, Effort, Thermodynamic, Unclassified:
		return true
	}
	return false
}

// pattern constrains a subset of dimension slots. Patterns are evaluated in
// declaration order; the first match wins, so the most specific (and
// observed-rarest) buckets come first to avoid being shadowed by the broad
// Quantity bucket.
type pattern struct {
	category Category
	matches  func(v units.Vector) bool
}

var patterns = []pattern{
	// Anything touching the temperature dimension, plus pure energy and
	// pure power, belongs to the thermodynamic bucket.
	{category: Thermodynamic, matches: func(v units.Vector) bool {
		if v[units.Temperature] != 0 {
			return true
		}
		return v[units.Mass] == 1 && v[units.Length] == 2 &&
			(v[units.Time] == -2 || v[units.Time] == -3) &&
			v[units.Charge] == 0 && v[units.Amount] == 0 && v[units.Angle] == 0
	}},

	// A flow rate is a pure amount per unit time: exactly one inverse
	// time power and no negative spatial exponents.
	{category: FlowRate, matches: func(v units.Vector) bool {
		if v[units.Time] != -1 {
			return false
		}
		positive := false
		for i, exp := range v {
			if i == units.Time {
				continue
			}
			if exp < 0 {
				return false
			}
			if exp > 0 {
				positive = true
			}
		}
		return positive
	}},

	// Force, pressure, and potential-like units: mass-bearing with at
	// least two inverse time powers (energy per area, per amount, per
	// charge all reduce to this shape).
	{category: Effort, matches: func(v units.Vector) bool {
		return v[units.Mass] > 0 && v[units.Time] <= -2
	}},

	// Density-change rates (concentration or areal density per time)
	// drive transport and act as efforts in bond-graph terms.
	{category: Effort, matches: func(v units.Vector) bool {
		if v[units.Time] >= 0 {
			return false
		}
		for i, exp := range v {
			if i != units.Time && exp < 0 {
				return true
			}
		}
		return false
	}},

	// Plain stocks: anything with no inverse time dependence. The zero
	// vector is included so dimensionless ratios (strain, gating
	// fractions) resolve as quantities rather than falling through.
	{category: Quantity, matches: func(v units.Vector) bool {
		return v[units.Time] >= 0
	}},
}

// Tie-break vocabulary. A variable named "transmural_pressure" pulls an
// energy-shaped vector toward Effort; "ion_flux" pulls toward FlowRate.
var (
	effortHints = []string{"potential", "pressure", "force", "tension", "voltage", "stress"}
	flowHints   = []string{"rate", "flux", "flow", "current", "velocity"}
)

// Classify maps a canonical unit to its category. It never fails:
// a vector matching no pattern is Unclassified, which downstream mapping
// converts into a typed unmapped result.
//
// Classification is a pure function of (vector, hints); the scale never
// participates, so mM and M always classify identically.
func Classify(u units.Unit, hints []string) Category {
	candidates := make([]Category, 0, 2)
	for _, p := range patterns {
		if p.matches(u.Vector) && !contains(candidates, p.category) {
			candidates = append(candidates, p.category)
		}
	}

	if len(candidates) == 1 {
		return candidates[0]
	}

	if len(candidates) > 1 {
		if c, ok := breakTie(candidates, hints); ok {
			return c
		}
		return candidates[0]
	}

	return Unclassified
}

// breakTie consults naming hints between exactly two candidate categories.
// It is deterministic: the first candidate whose hint vocabulary intersects
// the hint tokens wins; no intersection leaves the tie unbroken.
func breakTie(candidates []Category, hints []string) (Category, bool) {
	for _, c := range candidates {
		var words []string
		switch c {
		case Effort:
			words = effortHints
		case FlowRate:
			words = flowHints
		default:
			continue
		}
		if intersects(words, hints) {
			return c, true
		}
	}
	return Unclassified, false
}

func contains(categories []Category, c Category) bool {
	for _, existing := range categories {
		if existing == c {
			return true
		}
	}
	return false
}

func intersects(words, hints []string) bool {
	for _, h := range hints {
		lower := strings.ToLower(h)
		for _, w := range words {
			if strings.Contains(lower, w) {
				return true
			}
		}
	}
	return false
}
