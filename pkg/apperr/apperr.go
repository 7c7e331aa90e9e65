// Package apperr defines the error taxonomy shared by all HTTP handlers.
// Use-case handlers return these errors and the delivery layer maps them
// to status codes, so no handler inspects database errors directly.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for HTTP mapping.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindNotFound
	KindMethodNotAllowed
	KindInvalidTransition
	KindCompositionCycle
	KindPersistence
	KindUpstreamPayment
)

// Error carries a kind, a human-readable message and an optional cause.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Validation builds a validation error (400).
func Validation(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Msg: fmt.Sprintf(format, args...)}
}

// NotFound builds a not-found error (404).
func NotFound(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Msg: fmt.Sprintf(format, args...)}
}

// MethodNotAllowed builds a wrong-verb error (405).
func MethodNotAllowed(method string) *Error {
	return &Error{Kind: KindMethodNotAllowed, Msg: fmt.Sprintf("method %s not allowed", method)}
}

// InvalidTransition builds an order state-machine violation (409).
func InvalidTransition(from, to string) *Error {
	return &Error{Kind: KindInvalidTransition, Msg: fmt.Sprintf("invalid status transition %s -> %s", from, to)}
}

// CompositionCycle builds a cyclic recipe graph error (422).
func CompositionCycle(ingredientID uint) *Error {
	return &Error{Kind: KindCompositionCycle, Msg: fmt.Sprintf("ingredient composition cycle detected at ingredient %d", ingredientID)}
}

// Persistence wraps an underlying store failure (500).
func Persistence(msg string, err error) *Error {
	return &Error{Kind: KindPersistence, Msg: msg, Err: err}
}

// UpstreamPayment wraps a payment-gateway failure (502).
func UpstreamPayment(msg string, err error) *Error {
	return &Error{Kind: KindUpstreamPayment, Msg: msg, Err: err}
}

// KindOf returns the kind of err, or KindUnknown for foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Is reports whether err has the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// HTTPStatus maps an error to the status code surfaced to clients.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case KindInvalidTransition:
		return http.StatusConflict
	case KindCompositionCycle:
		return http.StatusUnprocessableEntity
	case KindUpstreamPayment:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
