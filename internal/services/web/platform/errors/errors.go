// Package errors defines the normalized error shape shared by the gateway's
// upstream client, resource services, and query cache.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// Kind classifies a failure by where it originated.
type Kind string

const (
	KindUnknown Kind = "unknown"
	// KindValidation marks input rejected before any request was sent.
	KindValidation Kind = "validation"
	// KindTransport marks connectivity or timeout failures below HTTP.
	KindTransport Kind = "transport"
	// KindApplication marks a well-formed upstream response carrying an error.
	KindApplication Kind = "application"
)

// FieldError reports one rejected input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error renders "field: message".
func (e FieldError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// Error is the normalized failure value returned by every gateway layer.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Fields  []FieldError
	Cause   error
}

// Error renders the human-readable message.
func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	if e.Cause != nil {
		return e.Cause.Error()
	}
	return string(e.Kind)
}

// Unwrap exposes the underlying cause.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Validation converts aggregated field failures into a validation error.
//
// It returns nil when fields is nil, so callers can pass
// multierror.Error.ErrorOrNil() straight through.
func Validation(fields error) error {
	if fields == nil {
		return nil
	}
	var collected []FieldError
	var merr *multierror.Error
	if stderrors.As(fields, &merr) {
		for _, wrapped := range merr.WrappedErrors() {
			collected = append(collected, toFieldError(wrapped))
		}
	} else {
		collected = append(collected, toFieldError(fields))
	}
	if len(collected) == 0 {
		return nil
	}
	messages := make([]string, 0, len(collected))
	for _, field := range collected {
		messages = append(messages, field.Error())
	}
	return &Error{
		Kind:    KindValidation,
		Status:  http.StatusBadRequest,
		Message: "validation failed: " + strings.Join(messages, "; "),
		Fields:  collected,
		Cause:   fields,
	}
}

func toFieldError(err error) FieldError {
	var field FieldError
	if stderrors.As(err, &field) {
		return field
	}
	return FieldError{Message: err.Error()}
}

// Transport wraps a connectivity failure.
func Transport(cause error) error {
	message := "upstream request failed"
	if cause != nil {
		message = fmt.Sprintf("%s: %v", message, cause)
	}
	return &Error{
		Kind:    KindTransport,
		Status:  http.StatusBadGateway,
		Message: message,
		Cause:   cause,
	}
}

// Application builds an error from an upstream error response.
//
// An empty message falls back to the HTTP status text.
func Application(status int, message string) error {
	message = strings.TrimSpace(message)
	if message == "" {
		message = strings.TrimSpace(http.StatusText(status))
	}
	if message == "" {
		message = "request failed"
	}
	return &Error{
		Kind:    KindApplication,
		Status:  status,
		Message: message,
	}
}

// KindOf returns the kind of the first normalized error in err's chain.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var appErr *Error
	if !stderrors.As(err, &appErr) {
		return KindUnknown
	}
	return appErr.Kind
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// StatusOf returns the upstream HTTP status for application errors, or zero.
func StatusOf(err error) int {
	var appErr *Error
	if !stderrors.As(err, &appErr) {
		return 0
	}
	return appErr.Status
}

// FieldsOf returns the rejected fields of a validation error.
func FieldsOf(err error) []FieldError {
	var appErr *Error
	if !stderrors.As(err, &appErr) {
		return nil
	}
	return append([]FieldError(nil), appErr.Fields...)
}

// UserMessage returns the message worth showing to a user, if any.
//
// Server-reported and validation messages qualify; transport and unknown
// failures do not, so callers substitute a generic message.
func UserMessage(err error) (string, bool) {
	var appErr *Error
	if !stderrors.As(err, &appErr) {
		return "", false
	}
	switch appErr.Kind {
	case KindApplication, KindValidation:
		message := strings.TrimSpace(appErr.Message)
		return message, message != ""
	default:
		return "", false
	}
}

// HTTPStatus maps an error to the status the gateway should answer with.
func HTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}
	var appErr *Error
	if !stderrors.As(err, &appErr) {
		return http.StatusInternalServerError
	}
	switch appErr.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindTransport:
		return http.StatusBadGateway
	case KindApplication:
		if appErr.Status >= http.StatusBadRequest {
			return appErr.Status
		}
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
