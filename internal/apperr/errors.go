// Package apperr holds the error taxonomy shared by the workflow use cases.
package apperr

import (
	"errors"
	"fmt"
	"strings"
)

type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindValidation
	KindConflict
	KindAuthenticationRequired
	KindAuthorizationDenied
	KindInvalidTransition
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindValidation:
		return "validation_error"
	case KindConflict:
		return "conflict"
	case KindAuthenticationRequired:
		return "authentication_required"
	case KindAuthorizationDenied:
		return "authorization_denied"
	case KindInvalidTransition:
		return "invalid_transition"
	default:
		return "internal"
	}
}

type Error struct {
	Kind    Kind
	Message string
	Details map[string]any
}

func (e *Error) Error() string { return e.Message }

// Is matches another *Error of the same kind with an empty message,
// so the package sentinels work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Message == ""
}

var (
	ErrNotFound               = &Error{Kind: KindNotFound}
	ErrValidation             = &Error{Kind: KindValidation}
	ErrConflict               = &Error{Kind: KindConflict}
	ErrAuthenticationRequired = &Error{Kind: KindAuthenticationRequired}
	ErrAuthorizationDenied    = &Error{Kind: KindAuthorizationDenied}
	ErrInvalidTransition      = &Error{Kind: KindInvalidTransition}
)

func NotFound(entity string, id any) *Error {
	return &Error{
		Kind:    KindNotFound,
		Message: fmt.Sprintf("%s with id %v not found", entity, id),
		Details: map[string]any{"entity": entity, "id": id},
	}
}

func Validation(msg string) *Error { return &Error{Kind: KindValidation, Message: msg} }

// MissingFields reports required input fields that were not supplied.
func MissingFields(fields ...string) *Error {
	return &Error{
		Kind:    KindValidation,
		Message: "Missing required fields: " + strings.Join(fields, ", "),
		Details: map[string]any{"fields": fields},
	}
}

func Conflict(msg string) *Error { return &Error{Kind: KindConflict, Message: msg} }

// WrongStatus is the conflict raised when an entity is not in the status an action needs.
func WrongStatus(msg, current string, required ...string) *Error {
	return &Error{
		Kind:    KindConflict,
		Message: fmt.Sprintf("%s (status: %s)", msg, current),
		Details: map[string]any{"current_status": current, "required_status": required},
	}
}

func AuthenticationRequired() *Error {
	return &Error{Kind: KindAuthenticationRequired, Message: "Authentication required"}
}

func AuthorizationDenied(msg string) *Error {
	return &Error{Kind: KindAuthorizationDenied, Message: msg}
}

func InvalidTransition(from, to string, allowed []string) *Error {
	list := "none"
	if len(allowed) > 0 {
		list = strings.Join(allowed, ", ")
	}
	return &Error{
		Kind: KindInvalidTransition,
		Message: fmt.Sprintf("Invalid state transition: Cannot change from %q to %q. Allowed transitions: %s",
			from, to, list),
		Details: map[string]any{"from": from, "to": to, "allowed": allowed},
	}
}

// KindOf returns the kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
