package units

// atom is one resolvable unit symbol: a conventional factor relative to the
// reference spelling of its dimension signature, plus its base-dimension
// exponents. Factors default to 1; gram carries 1e-3 so that "kg" (kilo +
// gram) lands back on a factor of exactly 1.
type atom struct {
	factor float64
	vector Vector
}

type prefix struct {
	symbol string
	factor float64
}

// prefixes holds the accepted SI prefixes, longest symbol first so that
// "da" wins over "d" during resolution.
var prefixes = []prefix{
	{"da", 1e1},
	{"f", 1e-15},
	{"p", 1e-12},
	{"n", 1e-9},
	{"u", 1e-6},
	{"m", 1e-3},
	{"c", 1e-2},
	{"d", 1e-1},
	{"h", 1e2},
	{"k", 1e3},
	{"M", 1e6},
	{"G", 1e9},
	{"T", 1e12},
}

// baseAtomSymbols names the reference atom per dimension, used when
// re-rendering a canonical unit symbolically.
var baseAtomSymbols = [NumDimensions]string{"m", "kg", "s", "C", "mol", "K", "rad"}

func vec(length, mass, time, charge, amount, temperature, angle int) Vector {
	return Vector{length, mass, time, charge, amount, temperature, angle}
}

// atoms is the base-unit table. It covers the SI base and derived symbols
// observed across CellML corpora plus the conventional biophysics spellings
// (molar, litre, dimensionless). Unlisted symbols are a hard parse error.
var atoms = map[string]atom{
	// SI base
	"m":   {factor: 1, vector: vec(1, 0, 0, 0, 0, 0, 0)},
	"g":   {factor: 1e-3, vector: vec(0, 1, 0, 0, 0, 0, 0)},
	"kg":  {factor: 1, vector: vec(0, 1, 0, 0, 0, 0, 0)},
	"s":   {factor: 1, vector: vec(0, 0, 1, 0, 0, 0, 0)},
	"A":   {factor: 1, vector: vec(0, 0, -1, 1, 0, 0, 0)},
	"mol": {factor: 1, vector: vec(0, 0, 0, 0, 1, 0, 0)},
	"K":   {factor: 1, vector: vec(0, 0, 0, 0, 0, 1, 0)},

	// angle and ratio
	"rad":           {factor: 1, vector: vec(0, 0, 0, 0, 0, 0, 1)},
	"deg":           {factor: 0.017453292519943295, vector: vec(0, 0, 0, 0, 0, 0, 1)},
	"dimensionless": {factor: 1, vector: Vector{}},
	"ratio":         {factor: 1, vector: Vector{}},
	"percent":       {factor: 1e-2, vector: Vector{}},

	// SI derived
	"Hz": {factor: 1, vector: vec(0, 0, -1, 0, 0, 0, 0)},
	"N":  {factor: 1, vector: vec(1, 1, -2, 0, 0, 0, 0)},
	"Pa": {factor: 1, vector: vec(-1, 1, -2, 0, 0, 0, 0)},
	"J":  {factor: 1, vector: vec(2, 1, -2, 0, 0, 0, 0)},
	"W":  {factor: 1, vector: vec(2, 1, -3, 0, 0, 0, 0)},
	"C":  {factor: 1, vector: vec(0, 0, 0, 1, 0, 0, 0)},
	"V":  {factor: 1, vector: vec(2, 1, -2, -1, 0, 0, 0)},
	"F":  {factor: 1, vector: vec(-2, -1, 2, 2, 0, 0, 0)},
	"S":  {factor: 1, vector: vec(-2, -1, 1, 2, 0, 0, 0)},
	"ohm": {factor: 1, vector: vec(2, 1, -1, -2, 0, 0, 0)},

	// conventional biophysics spellings. Molar and litre share one
	// convention: both carry factor 1, so M and mol_per_L normalize
	// identically while mM keeps the 1e-3 scale that distinguishes it
	// from M. Scales separate spellings within a family; they are not
	// physical converters across families.
	"M":     {factor: 1, vector: vec(-3, 0, 0, 0, 1, 0, 0)},
	"molar": {factor: 1, vector: vec(-3, 0, 0, 0, 1, 0, 0)},
	"L":     {factor: 1, vector: vec(3, 0, 0, 0, 0, 0, 0)},
	"l":     {factor: 1, vector: vec(3, 0, 0, 0, 0, 0, 0)},
	"litre": {factor: 1, vector: vec(3, 0, 0, 0, 0, 0, 0)},
	"liter": {factor: 1, vector: vec(3, 0, 0, 0, 0, 0, 0)},
}

// prefixForScale returns the SI prefix whose multiplier matches scale, or
// "" when the scale is 1 or matches no single prefix.
func prefixForScale(scale float64) string {
	if approxEqual(scale, 1) {
		return ""
	}
	for _, p := range prefixes {
		if approxEqual(scale, p.factor) {
			return p.symbol
		}
	}
	return ""
}

// approxEqual compares positive multipliers with a relative tolerance to
// absorb float drift from repeated factor products.
func approxEqual(a, b float64) bool {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return diff <= b*1e-9
}
