// Package errors defines the typed errors returned by the comment retrieval core.
//
// Every failure the resolver, signer, client and credential validator can report maps to
// exactly one of these types, so callers can branch with errors.As instead of matching
// message text.
package errors

import (
	"fmt"
	"strings"
)

// EmptyInputError indicates a blank identifier or credential was supplied.
type EmptyInputError struct {
	// Field names the missing input ("input", "credential")
	Field string
}

func (e *EmptyInputError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("empty input: %s is required", e.Field)
	}
	return "empty input"
}

// UnresolvableIdentifierError indicates no resolution rule produced a numeric content ID.
type UnresolvableIdentifierError struct {
	// Input is the raw value supplied by the caller
	Input string
	// Reason describes why resolution failed
	Reason string
	// StatusCode is set when a short link resolved to a non-200 response
	StatusCode int
}

func (e *UnresolvableIdentifierError) Error() string {
	var parts []string
	if e.Reason != "" {
		parts = append(parts, e.Reason)
	}
	if e.StatusCode > 0 {
		parts = append(parts, fmt.Sprintf("status %d", e.StatusCode))
	}
	if len(parts) == 0 {
		return fmt.Sprintf("unresolvable identifier %q", e.Input)
	}
	return fmt.Sprintf("unresolvable identifier %q: %s", e.Input, strings.Join(parts, ", "))
}

// SignatureError indicates the signature provider failed or returned nothing.
type SignatureError struct {
	// Message contains the detailed error message
	Message string
	// Err contains the underlying error if available
	Err error
}

func (e *SignatureError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	} else if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if msg == "" {
		return "signature error"
	}
	return "signature error: " + msg
}

func (e *SignatureError) Unwrap() error {
	return e.Err
}

// TransportError indicates a network failure or timeout before a response was read.
type TransportError struct {
	// Operation is the name of the call that failed
	Operation string
	// URL is the URL that was being accessed, with the query stripped
	URL string
	// Err contains the underlying error
	Err error
}

func (e *TransportError) Error() string {
	msg := "transport failure"
	if e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Operation != "" && e.URL != "" {
		return fmt.Sprintf("transport error during %s to %s: %s", e.Operation, e.URL, msg)
	} else if e.Operation != "" {
		return fmt.Sprintf("transport error during %s: %s", e.Operation, msg)
	}
	return fmt.Sprintf("transport error: %s", msg)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ProtocolError indicates the server answered with an unexpected status or body shape.
type ProtocolError struct {
	// Operation is the name of the call whose response was rejected
	Operation string
	// StatusCode is the HTTP status when the rejection was status-based
	StatusCode int
	// Message contains the detailed error message
	Message string
	// Err contains the underlying decode error if available
	Err error
}

func (e *ProtocolError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.StatusCode > 0 {
		msg = fmt.Sprintf("status %d: %s", e.StatusCode, msg)
	}
	if e.Operation != "" {
		return fmt.Sprintf("protocol error during %s: %s", e.Operation, msg)
	}
	return fmt.Sprintf("protocol error: %s", msg)
}

func (e *ProtocolError) Unwrap() error {
	return e.Err
}

// AuthError indicates the platform refused the session credential.
type AuthError struct {
	// StatusCode is the HTTP status code, normally 403
	StatusCode int
	// Message contains the detailed error message
	Message string
}

func (e *AuthError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("auth error (status %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("auth error (status %d): credential invalid or expired", e.StatusCode)
}

// ValidationError indicates a credential probe answered with a status that is neither
// success nor forbidden.
type ValidationError struct {
	StatusCode int
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("credential validation failed: unexpected status %d", e.StatusCode)
}
