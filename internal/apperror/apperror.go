// Package apperror defines the error taxonomy shared by the fetcher, the model
// clients and the HTTP layer. Every failure that can reach a caller is one of
// these kinds, and the handler maps kinds to status codes in one place.
package apperror

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// Kind classifies a failure.
type Kind string

const (
	KindValidation Kind = "VALIDATION_FAILED"
	KindNetwork    Kind = "NETWORK_FAILURE"
	KindProvider   Kind = "PROVIDER_ERROR"
	KindInternal   Kind = "INTERNAL_ERROR"
)

// FieldError describes one invalid field of a request body.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is a classified failure. Source names the upstream involved
// ("coingecko", "cohere", ...) and is empty for request validation.
type Error struct {
	Kind   Kind
	Source string
	Fields []FieldError
	Err    error
}

func (e *Error) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("%s[%s]: %v", e.Kind, e.Source, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Validation reports a malformed or ill-typed request body.
func Validation(err error, fields ...FieldError) *Error {
	return &Error{Kind: KindValidation, Fields: fields, Err: err}
}

// Network reports an upstream that could not be reached or timed out.
func Network(source string, err error) *Error {
	return &Error{Kind: KindNetwork, Source: source, Err: err}
}

// Provider reports an upstream that answered with an error or an unusable body.
func Provider(source string, err error) *Error {
	return &Error{Kind: KindProvider, Source: source, Err: err}
}

// FromUpstream classifies an error returned by an SDK or HTTP client call.
// Transport failures and deadlines become KindNetwork, anything else KindProvider.
// An error that is already classified is returned unchanged.
func FromUpstream(source string, err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return Network(source, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return Network(source, err)
	}
	return Provider(source, err)
}

// KindOf returns the kind of err, or KindInternal when err is unclassified.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// HTTPStatus maps a kind to the response status code.
func HTTPStatus(kind Kind) int {
	switch kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindNetwork:
		return http.StatusServiceUnavailable
	case KindProvider:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage is the caller-facing text for a kind. It never carries upstream
// bodies or credentials; those only go to the log.
func PublicMessage(kind Kind) string {
	switch kind {
	case KindValidation:
		return "invalid request body"
	case KindNetwork:
		return "upstream service unavailable"
	case KindProvider:
		return "upstream service returned an error"
	default:
		return "internal error"
	}
}
