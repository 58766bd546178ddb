// Package apperr defines the error kinds surfaced to callers. Every domain
// rejection carries a Kind and, where one exists, the offending field so the
// transport layer can render a precise message.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	KindPermissionDenied  Kind = "PERMISSION_DENIED"
	KindUnauthenticated   Kind = "UNAUTHENTICATED"
	KindInvalidTransition Kind = "INVALID_TRANSITION"
	KindIncompleteQuote   Kind = "INCOMPLETE_QUOTE"
	KindOutOfOrderEvent   Kind = "OUT_OF_ORDER_EVENT"
	KindShipmentClosed    Kind = "SHIPMENT_CLOSED"
	KindNotFound          Kind = "NOT_FOUND"
	KindValidation        Kind = "VALIDATION_ERROR"
	KindInfrastructure    Kind = "INFRASTRUCTURE"
)

type Error struct {
	Kind    Kind
	Field   string
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches kind sentinels (no field, no message) by kind, and otherwise
// requires kind, field and message to agree.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	if t.Field == "" && t.Message == "" {
		return true
	}
	return t.Field == e.Field && t.Message == e.Message
}

// Kind sentinels for errors.Is.
var (
	ErrPermissionDenied  = &Error{Kind: KindPermissionDenied}
	ErrUnauthenticated   = &Error{Kind: KindUnauthenticated}
	ErrInvalidTransition = &Error{Kind: KindInvalidTransition}
	ErrIncompleteQuote   = &Error{Kind: KindIncompleteQuote}
	ErrOutOfOrderEvent   = &Error{Kind: KindOutOfOrderEvent}
	ErrShipmentClosed    = &Error{Kind: KindShipmentClosed}
	ErrNotFound          = &Error{Kind: KindNotFound}
	ErrValidation        = &Error{Kind: KindValidation}
	ErrInfrastructure    = &Error{Kind: KindInfrastructure}
)

func New(kind Kind, field, format string, args ...any) *Error {
	return &Error{Kind: kind, Field: field, Message: fmt.Sprintf(format, args...)}
}

func PermissionDenied(entity, op string) *Error {
	return New(KindPermissionDenied, entity, "permission denied: cannot %s %s", op, entity)
}

func Unauthenticated() *Error {
	return New(KindUnauthenticated, "", "authentication required")
}

func InvalidTransition(field string, from, to any) *Error {
	return New(KindInvalidTransition, field, "invalid %s transition from %v to %v", field, from, to)
}

func NotFound(entity string) *Error {
	return New(KindNotFound, entity, "%s not found", entity)
}

func Validation(field, format string, args ...any) *Error {
	return New(KindValidation, field, format, args...)
}

// Infrastructure wraps an unexpected collaborator failure.
func Infrastructure(op string, err error) *Error {
	return &Error{Kind: KindInfrastructure, Message: op, Err: err}
}

// KindOf returns the kind of err, or KindInfrastructure for foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInfrastructure
}

// FieldOf returns the offending field of err, if any.
func FieldOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Field
	}
	return ""
}

// HTTPStatus maps an error to the response status code.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindPermissionDenied:
		return http.StatusForbidden
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	case KindValidation, KindIncompleteQuote:
		return http.StatusUnprocessableEntity
	case KindInvalidTransition, KindOutOfOrderEvent, KindShipmentClosed:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// IsDomain reports whether err is a caller-recoverable domain error.
func IsDomain(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind != KindInfrastructure
}
