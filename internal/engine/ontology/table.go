package ontology

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/physiome-tools/opbmap/internal/engine/category"
	"github.com/physiome-tools/opbmap/internal/engine/units"
)

// Row is one curated table entry: a representative unit expression, the
// category it resolves under, and the OPB terms sharing that signature.
// The unit expression is normalized at load time so curators never write
// dimension signatures by hand.
type Row struct {
	Category string    `toml:"category"`
	Unit     string    `toml:"unit"`
	Terms    []RowTerm `toml:"terms"`
}

// RowTerm is one OPB candidate of a Row, with the keyword vocabulary
// consulted during hint disambiguation.
type RowTerm struct {
	ID       string   `toml:"id"`
	Label    string   `toml:"label"`
	Keywords []string `toml:"keywords"`
}

type tableFile struct {
	Rows []Row `toml:"rows"`
}

// Load reads a versioned ontology table from a TOML file. Any problem in
// the file, from unreadable bytes to an unparseable unit or unknown
// category, rejects the whole table.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read ontology table: %w", err)
	}

	var file tableFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse ontology table: %w", err)
	}

	return build(file.Rows)
}

// Default returns the built-in curated table.
func Default() *Table {
	t, err := build(builtinRows)
	if err != nil {
		// The builtin rows are covered by tests; reaching this is a
		// programming error, not a runtime condition.
		panic(err)
	}
	return t
}

func build(rows []Row) (*Table, error) {
	entries := make(map[string][]candidate, len(rows))

	for _, row := range rows {
		cat := category.Category(row.Category)
		if !cat.Valid() || cat == category.Unclassified {
			return nil, fmt.Errorf("ontology row %q: invalid category %q", row.Unit, row.Category)
		}

		u, err := units.Normalize(row.Unit)
		if err != nil {
			return nil, fmt.Errorf("ontology row %q: %w", row.Unit, err)
		}

		if len(row.Terms) == 0 {
			return nil, fmt.Errorf("ontology row %q: no terms", row.Unit)
		}

		k := key(cat, u.Vector)
		for _, rt := range row.Terms {
			if rt.ID == "" || rt.Label == "" {
				return nil, fmt.Errorf("ontology row %q: term missing id or label", row.Unit)
			}
			entries[k] = append(entries[k], candidate{
				term:     Term{ID: rt.ID, Label: rt.Label},
				keywords: rt.Keywords,
			})
		}
	}

	return &Table{entries: entries}, nil
}

// builtinRows is the curated OPB table distilled from the Physiome corpus
// annotation reference. Fan-out rows carry keyword vocabularies; unique
// rows omit them.
var builtinRows = []Row{
	// quantities
	{Category: "quantity", Unit: "um", Terms: []RowTerm{
		{ID: "OPB_01064", Label: "Spatial span", Keywords: []string{"length", "span", "radius", "diameter", "width", "thickness"}},
		{ID: "OPB_00269", Label: "Translational displacement", Keywords: []string{"displacement", "position", "extension"}},
	}},
	{Category: "quantity", Unit: "m2", Terms: []RowTerm{
		{ID: "OPB_00295", Label: "Spatial area"},
	}},
	{Category: "quantity", Unit: "m3", Terms: []RowTerm{
		{ID: "OPB_00523", Label: "Spatial volume", Keywords: []string{"volume", "cell", "compartment"}},
		{ID: "OPB_00154", Label: "Fluid volume", Keywords: []string{"fluid", "blood", "plasma", "water"}},
	}},
	{Category: "quantity", Unit: "dimensionless", Terms: []RowTerm{
		{ID: "OPB_01376", Label: "Tensile distortion"},
	}},
	{Category: "quantity", Unit: "rad", Terms: []RowTerm{
		{ID: "OPB_01072", Label: "Plane angle", Keywords: []string{"angle", "theta", "phi"}},
		{ID: "OPB_01601", Label: "Rotational displacement", Keywords: []string{"rotation", "twist"}},
	}},
	{Category: "quantity", Unit: "kg", Terms: []RowTerm{
		{ID: "OPB_01226", Label: "Mass of solid entity"},
	}},
	{Category: "quantity", Unit: "fmol", Terms: []RowTerm{
		{ID: "OPB_00425", Label: "Molar amount of chemical"},
	}},
	{Category: "quantity", Unit: "s", Terms: []RowTerm{
		{ID: "OPB_00402", Label: "Temporal location"},
	}},
	{Category: "quantity", Unit: "kg_per_m2", Terms: []RowTerm{
		{ID: "OPB_01593", Label: "Areal density of mass"},
	}},
	{Category: "quantity", Unit: "kg_per_m3", Terms: []RowTerm{
		{ID: "OPB_01619", Label: "Volumnal density of matter"},
	}},
	{Category: "quantity", Unit: "mM", Terms: []RowTerm{
		{ID: "OPB_00340", Label: "Concentration of chemical", Keywords: []string{"concentration", "chemical", "ca", "na", "k", "ion"}},
		{ID: "OPB_01532", Label: "Volumetric concentration of particles", Keywords: []string{"particle", "vesicle", "count"}},
	}},
	{Category: "quantity", Unit: "mol_per_m2", Terms: []RowTerm{
		{ID: "OPB_01529", Label: "Areal concentration of chemical", Keywords: []string{"concentration", "chemical"}},
		{ID: "OPB_01530", Label: "Areal concentration of particles", Keywords: []string{"particle", "receptor", "channel"}},
	}},
	{Category: "quantity", Unit: "C", Terms: []RowTerm{
		{ID: "OPB_00411", Label: "Charge amount"},
	}},
	{Category: "quantity", Unit: "C_per_m2", Terms: []RowTerm{
		{ID: "OPB_01238", Label: "Charge areal density"},
	}},
	{Category: "quantity", Unit: "C_per_m3", Terms: []RowTerm{
		{ID: "OPB_01237", Label: "Charge volumetric density"},
	}},
	// flow rates
	{Category: "flow_rate", Unit: "m_per_s", Terms: []RowTerm{
		{ID: "OPB_00251", Label: "Lineal translational velocity", Keywords: []string{"velocity", "speed", "propagation"}},
		{ID: "OPB_01643", Label: "Tensile distortion velocity", Keywords: []string{"distortion", "strain", "shortening"}},
	}},
	{Category: "flow_rate", Unit: "m3_per_s", Terms: []RowTerm{
		{ID: "OPB_00299", Label: "Fluid flow rate"},
	}},
	{Category: "flow_rate", Unit: "rad_per_s", Terms: []RowTerm{
		{ID: "OPB_01490", Label: "Rotational solid velocity"},
	}},
	{Category: "flow_rate", Unit: "kg_per_s", Terms: []RowTerm{
		{ID: "OPB_01220", Label: "Material flow rate"},
	}},
	{Category: "flow_rate", Unit: "fmol_per_s", Terms: []RowTerm{
		{ID: "OPB_00592", Label: "Chemical amount flow rate", Keywords: []string{"chemical", "reaction", "ca", "na", "k"}},
		{ID: "OPB_00544", Label: "Particle flow rate", Keywords: []string{"particle", "vesicle"}},
	}},
	{Category: "flow_rate", Unit: "fA", Terms: []RowTerm{
		{ID: "OPB_00318", Label: "Charge flow rate"},
	}},

	// efforts
	{Category: "effort", Unit: "N", Terms: []RowTerm{
		{ID: "OPB_00034", Label: "Mechanical force"},
	}},
	{Category: "effort", Unit: "Pa", Terms: []RowTerm{
		{ID: "OPB_00509", Label: "Fluid pressure", Keywords: []string{"pressure", "fluid", "blood", "transmural"}},
		{ID: "OPB_01053", Label: "Mechanical stress", Keywords: []string{"stress", "tension", "wall"}},
	}},
	{Category: "effort", Unit: "J_per_mol", Terms: []RowTerm{
		{ID: "OPB_00378", Label: "Chemical potential"},
	}},
	{Category: "effort", Unit: "mV", Terms: []RowTerm{
		{ID: "OPB_01058", Label: "Membrane potential", Keywords: []string{"membrane", "vm", "transmembrane"}},
		{ID: "OPB_01169", Label: "Electrodiffusional potential", Keywords: []string{"nernst", "reversal", "equilibrium", "diffusion"}},
		{ID: "OPB_00506", Label: "Electrical potential", Keywords: []string{"electrical", "applied", "stimulus"}},
	}},

	// thermodynamics
	{Category: "thermodynamic", Unit: "K", Terms: []RowTerm{
		{ID: "OPB_00293", Label: "Temperature"},
	}},
	{Category: "thermodynamic", Unit: "J", Terms: []RowTerm{
		{ID: "OPB_00562", Label: "Energy amount"},
	}},
	{Category: "thermodynamic", Unit: "mW", Terms: []RowTerm{
		{ID: "OPB_00563", Label: "Energy flow rate"},
	}},
	{Category: "thermodynamic", Unit: "J_per_K", Terms: []RowTerm{
		{ID: "OPB_00100", Label: "Thermodynamic entropy amount"},
	}},
	{Category: "thermodynamic", Unit: "J_per_K_s", Terms: []RowTerm{
		{ID: "OPB_00564", Label: "Entropy flow rate"},
	}},
}
