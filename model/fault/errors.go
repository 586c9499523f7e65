// Package fault defines the error taxonomy shared by every sanction layer.
//
// Callers detect conditions with errors.Is against the sentinels below; the
// constructors wrap both the sentinel and the underlying cause so either can
// be matched.
package fault

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation indicates malformed or missing input.
	ErrValidation = errors.New("validation error")

	// ErrNotFound is returned when the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrSerialization indicates a command payload could not be encoded or decoded.
	ErrSerialization = errors.New("serialization error")

	// ErrUnauthorized is returned for missing, malformed or invalid credentials.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrRepository wraps failures of a backing store.
	ErrRepository = errors.New("repository error")

	// ErrCommandExecution wraps failures reported by a domain service while
	// executing an approved command.
	ErrCommandExecution = errors.New("command execution error")

	// ErrAlreadyCompleted is returned when executing a request that has
	// already been approved and executed.
	ErrAlreadyCompleted = errors.New("request already completed")
)

// Error carries a sentinel kind together with an optional cause.
type Error struct {
	Kind    error
	Message string
	Cause   error
}

func (e *Error) Error() string {
	switch {
	case e.Message != "" && e.Cause != nil:
		return fmt.Sprintf("%v: %s: %v", e.Kind, e.Message, e.Cause)
	case e.Message != "":
		return fmt.Sprintf("%v: %s", e.Kind, e.Message)
	case e.Cause != nil:
		return fmt.Sprintf("%v: %v", e.Kind, e.Cause)
	}
	return e.Kind.Error()
}

// Unwrap exposes both the kind and the cause to errors.Is / errors.As.
func (e *Error) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Cause}
}

func newError(kind error, cause error, format string, args ...interface{}) error {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	return &Error{Kind: kind, Message: msg, Cause: cause}
}

// Validation returns a validation error with a formatted message.
func Validation(format string, args ...interface{}) error {
	return newError(ErrValidation, nil, format, args...)
}

// NotFound returns a not-found error naming the missing entity.
func NotFound(entity, id string) error {
	return newError(ErrNotFound, nil, "%s %q", entity, id)
}

// Serialization wraps an encoding or decoding failure.
func Serialization(cause error, format string, args ...interface{}) error {
	return newError(ErrSerialization, cause, format, args...)
}

// Unauthorized returns an authentication failure with an optional cause.
func Unauthorized(cause error, reason string) error {
	return newError(ErrUnauthorized, cause, "%s", reason)
}

// Repository wraps a backing store failure, passing through errors that
// already carry a fault kind.
func Repository(cause error, operation string) error {
	if cause == nil {
		return nil
	}
	if IsKnown(cause) {
		return cause
	}
	return newError(ErrRepository, cause, "%s", operation)
}

// CommandExecution wraps a domain failure raised while running command name.
func CommandExecution(cause error, name string) error {
	return newError(ErrCommandExecution, cause, "%s", name)
}

// IsKnown reports whether err already carries one of the fault kinds.
func IsKnown(err error) bool {
	for _, kind := range []error{ErrValidation, ErrNotFound, ErrSerialization, ErrUnauthorized,
		ErrRepository, ErrCommandExecution, ErrAlreadyCompleted} {
		if errors.Is(err, kind) {
			return true
		}
	}
	return false
}
