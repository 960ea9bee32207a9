package corpus

import (
	"encoding/xml"
	"fmt"
	"io"
)

// Document is the subset of a CellML file the scanner extracts:
// the model name plus every component's variable declarations. Math,
// connections, and unit definitions are ignored.
type Document struct {
	XMLName    xml.Name    `xml:"model"`
	Name       string      `xml:"name,attr"`
	Components []Component `xml:"component"`
}

// Component is one CellML component element.
type Component struct {
	Name      string        `xml:"name,attr"`
	Variables []Declaration `xml:"variable"`
}

// Declaration is one CellML variable element. Units holds the raw unit
// expression exactly as written in the source file.
type Declaration struct {
	Name  string `xml:"name,attr"`
	Units string `xml:"units,attr"`
}

// Decode parses a CellML document from r. Element matching ignores XML
// namespaces so CellML 1.0, 1.1, and 2.0 files all decode.
func Decode(r io.Reader) (*Document, error) {
	var doc Document
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return &doc, nil
}

// VariableCount returns the total variable declarations across components.
func (d *Document) VariableCount() int {
	total := 0
	for _, c := range d.Components {
		total += len(c.Variables)
	}
	return total
}
