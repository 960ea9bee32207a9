package units

import (
	"errors"
	"fmt"
)

// ErrParse is the sentinel all normalization failures wrap, so callers can
// branch with errors.Is without inspecting the detail.
var ErrParse = errors.New("unit parse error")

// ParseError reports a rejected unit expression. The whole expression is
// rejected on the first unresolvable atom; there is no partial acceptance.
type ParseError struct {
	Expr   string
	Detail string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse unit %q: %s", e.Expr, e.Detail)
}

func (e *ParseError) Unwrap() error {
	return ErrParse
}
