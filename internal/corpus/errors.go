package corpus

import "errors"

var (
	ErrDecode  = errors.New("malformed cellml document")
	ErrNoRoot  = errors.New("corpus root does not exist")
	ErrNoFiles = errors.New("no cellml files under corpus root")
)
