package service

import "errors"

// Tipos de error que los endpoints callable exponen al cliente.
var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrInternal        = errors.New("internal")
)

// CallableError asocia un tipo de error con el mensaje visible para el cliente.
// La causa original queda disponible vía errors.Is/As pero no se muestra.
type CallableError struct {
	Kind    error
	Message string
	Cause   error
}

func (e *CallableError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *CallableError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Cause}
}

func internalError(message string, cause error) error {
	return &CallableError{Kind: ErrInternal, Message: message, Cause: cause}
}

func unauthenticatedError(message string) error {
	return &CallableError{Kind: ErrUnauthenticated, Message: message}
}
