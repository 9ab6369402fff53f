package domain

import (
	"github.com/google/uuid"
)

// ValidateID comprueba que un identificador de agregado sea un UUID.
func ValidateID(field, value string) error {
	if _, err := uuid.Parse(value); err != nil {
		return NewValidationError("Invalid "+field+": must be a valid UUID", field, value)
	}
	return nil
}

// NewID genera un identificador nuevo para un agregado.
func NewID() string {
	return uuid.NewString()
}
