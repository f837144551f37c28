// Package apierror provides the error taxonomy shared by services and the
// standardized response envelopes returned to clients. Handlers translate
// domain errors into envelopes so internal details (DB errors, stack traces)
// never reach the client.
package apierror

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Detail               string `json:"detail"`
	RequiereAutorizacion bool   `json:"requiere_autorizacion,omitempty"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// ValidationError wraps multiple field errors.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Error de validacion", Fields: fields}
}
