package apierror

import (
	"errors"
	"fmt"
)

// Error kinds. Services wrap them with a client-safe message; handlers map
// them to HTTP status codes with errors.Is.
var (
	ErrValidation = errors.New("validacion")
	ErrNotFound   = errors.New("no encontrado")
	ErrConflict   = errors.New("conflicto")
)

type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }
func (e *kindError) Unwrap() error { return e.kind }

// Validation reports malformed input (negative prices, empty codes, ...).
func Validation(format string, args ...any) error {
	return &kindError{kind: ErrValidation, msg: fmt.Sprintf(format, args...)}
}

// NotFound reports a missing unit, equipment, sale or counter.
func NotFound(format string, args ...any) error {
	return &kindError{kind: ErrNotFound, msg: fmt.Sprintf(format, args...)}
}

// Conflict reports a state violation such as selling a unit twice.
func Conflict(format string, args ...any) error {
	return &kindError{kind: ErrConflict, msg: fmt.Sprintf(format, args...)}
}

// AuthorizationError is returned when a sale price is below the equipment
// minimum and no valid manager credential accompanied the request.
type AuthorizationError struct {
	Motivo               string
	RequiereAutorizacion bool
}

func (e *AuthorizationError) Error() string { return e.Motivo }

func Authorization(motivo string) error {
	return &AuthorizationError{Motivo: motivo, RequiereAutorizacion: true}
}

// IsAuthorization unwraps err into an *AuthorizationError.
func IsAuthorization(err error) (*AuthorizationError, bool) {
	var ae *AuthorizationError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}
