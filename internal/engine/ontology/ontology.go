// Package ontology resolves classified canonical units against the OPB
// physical-quantity ontology. The lookup table is keyed by (category,
// dimension signature) with deliberate 1-to-many fan-out: several OPB
// terms share a unit shape and differ only in physical meaning.
// Resolution tries a unique candidate first, then keyword-hint
// disambiguation, and otherwise returns a typed unmapped result.
package ontology

import (
	"strings"

	"github.com/physiome-tools/opbmap/internal/engine/category"
	"github.com/physiome-tools/opbmap/internal/engine/units"
)

// Term is one entry of the OPB ontology.
type Term struct {
	ID    string `json:"id" toml:"id"`
	Label string `json:"label" toml:"label"`
}

// Reason explains an unmapped result. None of these are faults: NoMatch
// and Ambiguous are the expected failure modes of a curated table.
type Reason string

const (
	ReasonNone         Reason = ""
	ReasonParseError   Reason = "parse_error"
	ReasonNoMatch      Reason = "no_match"
	ReasonAmbiguous    Reason = "ambiguous"
	ReasonUnclassified Reason = "unclassified_category"
)

// candidate pairs a term with the keyword vocabulary used for hint
// disambiguation when its signature fans out to multiple terms.
type candidate struct {
	term     Term
	keywords []string
}

// Table is the immutable ontology lookup table. Load it once at startup;
// a load failure is fatal to the run, since a partial table would silently
// corrupt mapping correctness.
type Table struct {
	entries map[string][]candidate
}

func key(cat category.Category, v units.Vector) string {
	return string(cat) + "|" + v.Signature()
}

// Resolve selects a single OPB term for the classified unit, or reports
// why none could be selected. Scale is ignored: OPB terms denote physical
// concepts independent of measurement scale, so mM and M resolve alike.
func (t *Table) Resolve(cat category.Category, u units.Unit, hints []string) (*Term, Reason) {
	if cat == category.Unclassified {
		return nil, ReasonUnclassified
	}

	candidates := t.entries[key(cat, u.Vector)]
	switch len(candidates) {
	case 0:
		return nil, ReasonNoMatch
	case 1:
		term := candidates[0].term
		return &term, ReasonNone
	}

	if c, ok := disambiguate(candidates, hints); ok {
		term := c.term
		return &term, ReasonNone
	}

	return nil, ReasonAmbiguous
}

// Candidates returns the terms registered for a signature, in table order.
// The report layer uses it to expose fan-out without re-running resolution.
func (t *Table) Candidates(cat category.Category, v units.Vector) []Term {
	entries := t.entries[key(cat, v)]
	terms := make([]Term, 0, len(entries))
	for _, c := range entries {
		terms = append(terms, c.term)
	}
	return terms
}

// Size returns the number of (category, signature) keys in the table.
func (t *Table) Size() int {
	return len(t.entries)
}

// disambiguate applies the keyword-hint tier: it succeeds iff exactly one
// candidate's keyword set intersects the hint tokens. Zero or multiple
// surviving candidates leave the result ambiguous. The function is pure
// over its two inputs, so its behavior is reproducible in isolation.
func disambiguate(candidates []candidate, hints []string) (candidate, bool) {
	var match candidate
	found := 0

	for _, c := range candidates {
		if keywordsIntersect(c.keywords, hints) {
			match = c
			found++
		}
	}

	return match, found == 1
}

// keywordsIntersect matches keywords against hint tokens. Hints are split
// on the separators common in variable names; short keywords (ion species
// like "ca" or "na") require whole-token equality so that "k" never
// matches inside an unrelated word.
func keywordsIntersect(keywords, hints []string) bool {
	for _, h := range hints {
		for _, token := range tokenize(h) {
			for _, k := range keywords {
				if token == k {
					return true
				}
				if len(k) >= 4 && strings.Contains(token, k) {
					return true
				}
			}
		}
	}
	return false
}

func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	})
}
