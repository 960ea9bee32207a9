// Package variables implements the variable domain: the declared variables
// extracted from registered model files, one row per (model, component,
// name). Variables are the immutable inputs of the annotation engine.
package variables

import (
	"time"

	"github.com/google/uuid"
)

// Variable is one declared variable of a model file.
type Variable struct {
	ID             uuid.UUID `json:"id"`
	ModelID        uuid.UUID `json:"model_id"`
	Name           string    `json:"name"`
	Component      string    `json:"component"`
	UnitExpression string    `json:"unit_expression"`
	CreatedAt      time.Time `json:"created_at"`
}

// CreateCommand carries the data needed to register one extracted variable.
type CreateCommand struct {
	Name           string `json:"name"`
	Component      string `json:"component"`
	UnitExpression string `json:"unit_expression"`
}
