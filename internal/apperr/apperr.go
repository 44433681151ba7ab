// Package apperr defines the request-failure taxonomy and the stable
// JSON error envelope served to clients. Every failure that reaches the
// edge of the pipeline is classified into exactly one Kind; internals
// (stack traces, connection strings, raw error text) never leak into
// the wire body for DatabaseError/InternalError kinds.
package apperr

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/keithlinneman/linnemanlabs-api/internal/xerrors"
)

// Kind tags a failure for both the wire response and the log event.
type Kind string

const (
	KindValidation Kind = "ValidationError"
	KindBusiness   Kind = "BusinessError"
	KindNotFound   Kind = "NotFoundError"
	KindDatabase   Kind = "DatabaseError"
	KindExternal   Kind = "ExternalError"
	KindInternal   Kind = "InternalError"
)

// DefaultStatus returns the status code a kind maps to when the error
// does not declare its own.
func (k Kind) DefaultStatus() int {
	switch k {
	case KindValidation:
		return http.StatusUnprocessableEntity
	case KindBusiness:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindExternal:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// safe reports whether an error of this kind may expose its own message
// and details to callers.
func (k Kind) safe() bool {
	switch k {
	case KindValidation, KindBusiness, KindNotFound:
		return true
	default:
		return false
	}
}

// Error is a classified failure. Message and Details are caller-facing
// for safe kinds; Err holds the internal cause for the log stream.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Details map[string]any
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return string(e.Kind) + ": " + e.Err.Error()
	}
	return string(e.Kind) + ": " + e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Validation builds a 422 error naming the offending field and reason.
func Validation(field, issue string) *Error {
	return &Error{
		Kind:    KindValidation,
		Status:  http.StatusUnprocessableEntity,
		Message: "request validation failed",
		Details: map[string]any{"field": field, "issue": issue},
	}
}

// Business builds a 400 domain-rule violation. Details come from the
// caller and are exposed on the wire.
func Business(msg string, details map[string]any) *Error {
	return &Error{
		Kind:    KindBusiness,
		Status:  http.StatusBadRequest,
		Message: msg,
		Details: details,
	}
}

// NotFound builds a 404 for a missing resource.
func NotFound(resource string) *Error {
	return &Error{
		Kind:    KindNotFound,
		Status:  http.StatusNotFound,
		Message: resource + " not found",
	}
}

// Database wraps a persistence/connectivity fault. The cause stays
// internal; callers see only a generic message.
func Database(err error) *Error {
	return &Error{
		Kind:    KindDatabase,
		Status:  http.StatusInternalServerError,
		Message: "database operation failed",
		Err:     xerrors.EnsureTrace(err),
	}
}

// External wraps an upstream-service fault (502).
func External(err error) *Error {
	return &Error{
		Kind:    KindExternal,
		Status:  http.StatusBadGateway,
		Message: "upstream service error",
		Err:     xerrors.EnsureTrace(err),
	}
}

// Internal wraps an unclassified fault. Generic message, no details.
func Internal(err error) *Error {
	return &Error{
		Kind:    KindInternal,
		Status:  http.StatusInternalServerError,
		Message: "an unexpected error occurred",
		Err:     xerrors.EnsureTrace(err),
	}
}

// WithStatus overrides the status code, for application errors that
// declare their own (for example a 409 business conflict).
func (e *Error) WithStatus(status int) *Error {
	e.Status = status
	return e
}

// Classify maps any failure to a *Error. Ordered, first match wins:
// declared *Error values pass through with defaults filled in; anything
// else becomes an InternalError. Classify never fails.
func Classify(err error) *Error {
	if err == nil {
		return nil
	}
	if ae, ok := err.(*Error); ok {
		if ae.Kind == "" {
			ae.Kind = KindInternal
		}
		if ae.Status == 0 {
			ae.Status = ae.Kind.DefaultStatus()
		}
		if ae.Message == "" {
			ae.Message = "an unexpected error occurred"
		}
		if !ae.Kind.safe() {
			// never expose internal details for unsafe kinds
			ae.Details = nil
		}
		return ae
	}
	// wrapped declared errors still classify by their kind
	var ae *Error
	if errors.As(err, &ae) {
		out := *ae
		out.Err = err
		return Classify(&out)
	}
	return Internal(err)
}

// FromPanic converts a recovered panic value into an InternalError,
// capturing the stack at the recovery site.
func FromPanic(v any) *Error {
	var err error
	switch x := v.(type) {
	case error:
		err = x
	default:
		err = fmt.Errorf("panic: %v", x)
	}
	return Internal(xerrors.WithStack(err))
}
