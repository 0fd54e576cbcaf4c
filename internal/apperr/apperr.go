// Package apperr defines the error taxonomy shared by services and the REST
// layer: domain validation, not-found, and the upstream failure kinds.
package apperr

import (
	"errors"
	"net/http"
)

// Kind is a machine-checkable error category
type Kind string

const (
	KindBadRequest        Kind = "bad_request"
	KindNotFound          Kind = "not_found"
	KindUpstreamTimeout   Kind = "upstream_timeout"
	KindUpstreamTransport Kind = "upstream_transport"
	KindUpstreamStatus    Kind = "upstream_status"
	KindUpstreamMalformed Kind = "upstream_malformed"
	KindTokenExpired      Kind = "token_expired"
	KindTokenInvalid      Kind = "token_invalid"
	KindInternal          Kind = "internal"
)

// Error carries a human-readable message plus an HTTP-friendly status and an
// optional detail payload (e.g. the upstream response body).
type Error struct {
	Kind    Kind
	Message string
	Status  int
	Details interface{}
}

func (e *Error) Error() string {
	return e.Message
}

// BadRequest is a domain validation failure.
func BadRequest(message string) *Error {
	return &Error{Kind: KindBadRequest, Message: message, Status: http.StatusBadRequest}
}

// NotFound marks a missing form, conversation, assessment or question.
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message, Status: http.StatusNotFound}
}

// Internal wraps an unexpected server-side failure.
func Internal(message string, details interface{}) *Error {
	return &Error{Kind: KindInternal, Message: message, Status: http.StatusInternalServerError, Details: details}
}

// UpstreamTimeout means the external API exceeded the call timeout.
func UpstreamTimeout() *Error {
	return &Error{Kind: KindUpstreamTimeout, Message: "Upstream timeout", Status: http.StatusGatewayTimeout}
}

// UpstreamTransport means the external API was unreachable.
func UpstreamTransport(details interface{}) *Error {
	return &Error{Kind: KindUpstreamTransport, Message: "Upstream request error", Status: http.StatusBadGateway, Details: details}
}

// UpstreamStatus forwards a non-2xx upstream response with its body so
// provider-side issues stay diagnosable.
func UpstreamStatus(status int, details interface{}) *Error {
	return &Error{Kind: KindUpstreamStatus, Message: "Upstream API error", Status: status, Details: details}
}

// UpstreamMalformed means a success status with an unparseable body.
func UpstreamMalformed(details interface{}) *Error {
	return &Error{Kind: KindUpstreamMalformed, Message: "Invalid JSON from upstream", Status: http.StatusBadGateway, Details: details}
}

// TokenExpired marks a share link past its validity window.
func TokenExpired() *Error {
	return &Error{Kind: KindTokenExpired, Message: "Link has expired", Status: http.StatusNotFound}
}

// TokenInvalid marks a share link with a bad signature or shape.
func TokenInvalid() *Error {
	return &Error{Kind: KindTokenInvalid, Message: "Invalid link", Status: http.StatusNotFound}
}

// From normalizes any error into an *Error, wrapping unknown ones as internal.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal("Internal error", err.Error())
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == kind
}
