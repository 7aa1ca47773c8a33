package errkind

import (
	"errors"
	"fmt"

	"github.com/imamik/sagerec/internal/resource"
)

// Error is a classified failure. Its message is rendered from a fixed
// template per Kind so orchestrator output stays stable across providers.
type Error struct {
	Kind      Kind
	Operation resource.Operation
	TypeName  string
	Identity  string
	// Detail is the provider message, kept for kinds whose template shows it.
	Detail string
	Err    error
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch e.Kind {
	case InvalidRequest:
		return fmt.Sprintf("Invalid request provided: %s", e.Detail)
	case AccessDenied:
		return fmt.Sprintf("Access denied for operation '%s'.", e.Operation)
	case NotFound:
		return fmt.Sprintf("Resource of type '%s' with identifier '%s' was not found.", e.TypeName, e.Identity)
	case AlreadyExists:
		return fmt.Sprintf("Resource of type '%s' with identifier '%s' already exists.", e.TypeName, e.Identity)
	case ResourceConflict:
		return fmt.Sprintf("Resource of type '%s' with identifier '%s' has a conflict. Reason: %s", e.TypeName, e.Identity, e.Detail)
	case ServiceLimitExceeded:
		return fmt.Sprintf("Limit exceeded for resource of type '%s'. Reason: %s", e.TypeName, e.Detail)
	case ServiceInternal:
		return fmt.Sprintf("Internal error reported from downstream service during operation '%s'.", e.Operation)
	case Throttling:
		return fmt.Sprintf("Rate exceeded during operation '%s'.", e.Operation)
	case NotStabilized:
		if e.Detail != "" {
			return fmt.Sprintf("Resource of type '%s' with identifier '%s' did not stabilize. Reason: %s", e.TypeName, e.Identity, e.Detail)
		}
		return fmt.Sprintf("Resource of type '%s' with identifier '%s' did not stabilize.", e.TypeName, e.Identity)
	default:
		if e.Detail != "" {
			return fmt.Sprintf("Error occurred during operation '%s': %s", e.Operation, e.Detail)
		}
		return fmt.Sprintf("Error occurred during operation '%s'.", e.Operation)
	}
}

// Unwrap returns the underlying provider error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error of the same Kind, so sentinel style checks like
// errors.Is(err, &errkind.Error{Kind: errkind.NotFound}) work.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// New builds a classified error.
func New(kind Kind, typeName, identity, detail string) *Error {
	return &Error{Kind: kind, TypeName: typeName, Identity: identity, Detail: detail}
}

// Invalid builds an InvalidRequest error from a formatted detail message.
func Invalid(format string, args ...any) *Error {
	return &Error{Kind: InvalidRequest, Detail: fmt.Sprintf(format, args...)}
}

// NotStable builds a NotStabilized error for a resource.
func NotStable(typeName, identity, reason string) *Error {
	return &Error{Kind: NotStabilized, TypeName: typeName, Identity: identity, Detail: reason}
}

// As extracts a classified error from err's chain.
func As(err error) (*Error, bool) {
	var classified *Error
	if errors.As(err, &classified) {
		return classified, true
	}
	return nil, false
}

// KindOf returns the kind of a classified error, or "" for anything else.
func KindOf(err error) Kind {
	if classified, ok := As(err); ok {
		return classified.Kind
	}
	return ""
}

// IsNotFound reports whether err was classified as NotFound.
func IsNotFound(err error) bool {
	return KindOf(err) == NotFound
}
