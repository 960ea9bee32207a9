// Package units implements the unit normalizer: it parses raw unit
// expressions from model files into a canonical dimensional representation
// (scale + exponent vector over physical base dimensions). Normalization is
// deterministic and table-driven; the prefix and atom tables live in
// tables.go and are immutable after process start.
package units

import (
	"fmt"
	"strings"
)

// Base dimension indices into a Vector.
const (
	Length = iota
	Mass
	Time
	Charge
	Amount
	Temperature
	Angle

	NumDimensions
)

var dimensionSymbols = [NumDimensions]string{"L", "M", "T", "Q", "N", "K", "A"}

// Vector holds the exponent of a unit over each base dimension.
// Two units are dimensionally equal iff their vectors are equal.
type Vector [NumDimensions]int

// IsZero reports whether every exponent is zero (a dimensionless unit).
func (v Vector) IsZero() bool {
	return v == Vector{}
}

// Add returns the element-wise sum of v and o scaled by factor.
// factor is +1 for numerator atoms and -1 for divisor atoms.
func (v Vector) Add(o Vector, factor int) Vector {
	for i := range o {
		v[i] += o[i] * factor
	}
	return v
}

// Signature renders the vector as a stable string key, e.g. "L-3 N1" for a
// volumetric molar concentration. Zero exponents are omitted; a fully
// dimensionless vector renders as "1". Signatures key the ontology table
// and the annotations schema.
func (v Vector) Signature() string {
	parts := make([]string, 0, NumDimensions)
	for i, exp := range v {
		if exp != 0 {
			parts = append(parts, fmt.Sprintf("%s%d", dimensionSymbols[i], exp))
		}
	}
	if len(parts) == 0 {
		return "1"
	}
	return strings.Join(parts, " ")
}

// Unit is the canonical form of a unit expression. Scale is the product of
// the SI prefix multipliers and atom factors encountered during parsing;
// it distinguishes convertible spellings (mM vs M) without affecting
// dimensional equality.
type Unit struct {
	Scale  float64
	Vector Vector
}

// Normalize parses a raw unit expression into its canonical form.
//
// The grammar is the underscore convention used throughout biophysical
// model corpora: multiplicative atoms joined by "_", division marked by
// "_per_" (or "/"), and trailing integer exponents on atoms (m3, s2).
// Every atom must resolve against the atom table, optionally preceded by
// a single SI prefix. Any unresolved atom rejects the whole expression.
func Normalize(expr string) (Unit, error) {
	trimmed := strings.TrimSpace(expr)
	if trimmed == "" {
		return Unit{}, &ParseError{Expr: expr, Detail: "empty expression"}
	}

	unit := Unit{Scale: 1}

	for i, group := range splitGroups(trimmed) {
		if group == "" {
			return Unit{}, &ParseError{Expr: expr, Detail: "empty term"}
		}

		// The first group multiplies; every subsequent group divides.
		sign := 1
		if i > 0 {
			sign = -1
		}

		for _, token := range strings.Split(group, "_") {
			if token == "" {
				return Unit{}, &ParseError{Expr: expr, Detail: "empty atom"}
			}

			atom, exp, err := resolveToken(expr, token)
			if err != nil {
				return Unit{}, err
			}

			unit.Vector = unit.Vector.Add(scaleVector(atom.vector, exp), sign)
			unit.Scale *= pow(atom.factor, sign*exp)
		}
	}

	return unit, nil
}

// Render produces a symbolic spelling of the unit that Normalize maps back
// to the same vector and scale. The scale is folded into an SI prefix on
// the first numerator atom when an exact prefix exists; a unit whose scale
// matches no prefix renders without it and round-trips dimension only.
func (u Unit) Render() string {
	num := make([]string, 0, 4)
	den := make([]string, 0, 4)

	prefix := prefixForScale(u.Scale)
	for i, exp := range u.Vector {
		if exp == 0 {
			continue
		}

		atom := baseAtomSymbols[i]
		switch {
		case exp > 0:
			// Folding a prefix onto an exponentiated atom would raise it
			// to the exponent on re-parse, so only unit exponents carry it.
			if prefix != "" && exp == 1 {
				atom = prefix + atom
				prefix = ""
			}
			num = append(num, renderAtom(atom, exp))
		default:
			den = append(den, renderAtom(atom, -exp))
		}
	}

	if len(num) == 0 && len(den) == 0 {
		return "dimensionless"
	}

	if len(num) == 0 {
		// Pure divisor units keep an explicit dimensionless numerator.
		num = append(num, "dimensionless")
	}

	out := strings.Join(num, "_")
	for _, d := range den {
		out += "_per_" + d
	}
	return out
}

func renderAtom(symbol string, exp int) string {
	if exp == 1 {
		return symbol
	}
	return fmt.Sprintf("%s%d", symbol, exp)
}

// splitGroups splits an expression into its numerator and divisor groups.
// Both "_per_" and "/" act as division markers.
func splitGroups(expr string) []string {
	normalized := strings.ReplaceAll(expr, "/", "_per_")
	return strings.Split(normalized, "_per_")
}

// resolveToken splits a trailing integer exponent off the token and
// resolves the remaining symbol against the atom table, trying the bare
// symbol before prefixed forms so that "mol" never parses as milli-"ol".
func resolveToken(expr, token string) (atom, int, error) {
	symbol, exp, err := splitExponent(expr, token)
	if err != nil {
		return atom{}, 0, err
	}

	if a, ok := atoms[symbol]; ok {
		return a, exp, nil
	}

	for _, p := range prefixes {
		rest, ok := strings.CutPrefix(symbol, p.symbol)
		if !ok || rest == "" {
			continue
		}
		if a, ok := atoms[rest]; ok {
			a.factor *= p.factor
			return a, exp, nil
		}
	}

	return atom{}, 0, &ParseError{Expr: expr, Detail: fmt.Sprintf("unknown unit %q", symbol)}
}

func splitExponent(expr, token string) (string, int, error) {
	cut := len(token)
	for cut > 0 && token[cut-1] >= '0' && token[cut-1] <= '9' {
		cut--
	}

	if cut == len(token) {
		return token, 1, nil
	}
	if cut == 0 {
		return "", 0, &ParseError{Expr: expr, Detail: fmt.Sprintf("bare exponent %q", token)}
	}

	exp := 0
	for _, c := range token[cut:] {
		exp = exp*10 + int(c-'0')
	}
	if exp == 0 {
		return "", 0, &ParseError{Expr: expr, Detail: fmt.Sprintf("zero exponent in %q", token)}
	}

	return token[:cut], exp, nil
}

func scaleVector(v Vector, exp int) Vector {
	for i := range v {
		v[i] *= exp
	}
	return v
}

func pow(f float64, exp int) float64 {
	out := 1.0
	for range abs(exp) {
		out *= f
	}
	if exp < 0 {
		return 1 / out
	}
	return out
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
