package domain

import (
	"errors"
	"fmt"
)

// ---------- Errores de dominio compartidos ----------
var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation error")
	ErrConflict   = errors.New("conflict")
)

// ValidationError describe un valor rechazado al construir o mutar un agregado.
type ValidationError struct {
	Message string
	Field   string
	Value   interface{}
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Is permite errors.Is(err, ErrValidation).
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func NewValidationError(message, field string, value interface{}) error {
	return &ValidationError{Message: message, Field: field, Value: value}
}

// NotFound construye un error "<entidad> not found" que envuelve ErrNotFound.
func NotFound(entity string) error {
	return fmt.Errorf("%s %w", entity, ErrNotFound)
}

type conflictError struct{ msg string }

func (e *conflictError) Error() string        { return e.msg }
func (e *conflictError) Is(target error) bool { return target == ErrConflict }

// Conflict construye un error con mensaje propio que cumple errors.Is(err, ErrConflict).
func Conflict(msg string) error {
	return &conflictError{msg: msg}
}
