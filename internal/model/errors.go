package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Errors raised eagerly by constructors
var (
	ErrEmptyCustomTaxName      = errors.New("custom tax name must not be empty")
	ErrNegativeCustomTaxAmount = errors.New("custom tax amount must not be negative")
)

// ErrorKind discriminates the closed set of failure kinds so callers can
// branch exhaustively without type assertions.
type ErrorKind string

const (
	KindValidation ErrorKind = "validation"
	KindAuth       ErrorKind = "auth"
	KindRemote     ErrorKind = "remote"
	KindTransport  ErrorKind = "transport"
)

// APIError is the common shape of every failure the client raises: a kind
// discriminator, a human-readable message, and a structured context map that
// round-trips to JSON for logging and telemetry.
type APIError interface {
	error
	Kind() ErrorKind
	Context() map[string]interface{}
}

// ErrorSet is a mapping from field path (e.g. "items[0].taxes[1]") to a
// human-readable message. Keys are unique and keep the order violations were
// discovered; a second Add for the same key is ignored.
type ErrorSet struct {
	keys   []string
	values map[string]string
}

// NewErrorSet creates an empty error set
func NewErrorSet() *ErrorSet {
	return &ErrorSet{values: make(map[string]string)}
}

// Add records a violation under key. The first message for a key wins.
func (s *ErrorSet) Add(key, message string) {
	if _, exists := s.values[key]; exists {
		return
	}
	s.keys = append(s.keys, key)
	s.values[key] = message
}

// Addf records a violation with a formatted message
func (s *ErrorSet) Addf(key, format string, args ...interface{}) {
	s.Add(key, fmt.Sprintf(format, args...))
}

// Has reports whether a violation was recorded under key
func (s *ErrorSet) Has(key string) bool {
	_, ok := s.values[key]
	return ok
}

// Get returns the message recorded under key, or ""
func (s *ErrorSet) Get(key string) string {
	return s.values[key]
}

// Len returns the number of recorded violations
func (s *ErrorSet) Len() int {
	return len(s.keys)
}

// Keys returns the field paths in discovery order
func (s *ErrorSet) Keys() []string {
	out := make([]string, len(s.keys))
	copy(out, s.keys)
	return out
}

// Map returns a copy of the violations as a plain map
func (s *ErrorSet) Map() map[string]string {
	out := make(map[string]string, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// MarshalJSON emits the set as a JSON object in discovery order
func (s *ErrorSet) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range s.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(s.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// ValidationError carries the complete error set aggregated by the validation
// engine, never just the first violation.
type ValidationError struct {
	Errors *ErrorSet
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invoice validation failed: %d violation(s)", e.Errors.Len())
}

func (e *ValidationError) Kind() ErrorKind {
	return KindValidation
}

func (e *ValidationError) Context() map[string]interface{} {
	return map[string]interface{}{
		"kind":    string(KindValidation),
		"message": e.Error(),
		"errors":  e.Errors.Map(),
	}
}

// NewValidationError wraps an aggregated error set
func NewValidationError(errs *ErrorSet) *ValidationError {
	return &ValidationError{Errors: errs}
}

// AuthReason narrows an AuthError
type AuthReason string

const (
	AuthMissingToken  AuthReason = "missing_token"
	AuthTokenTooShort AuthReason = "token_too_short"
	AuthExpired       AuthReason = "expired"
	AuthUnauthorized  AuthReason = "unauthorized"
)

// AuthError represents authentication failures, raised locally (missing or
// too-short token) or remotely (HTTP 401).
type AuthError struct {
	Reason  AuthReason
	Message string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication failed [%s]: %s", e.Reason, e.Message)
}

func (e *AuthError) Kind() ErrorKind {
	return KindAuth
}

func (e *AuthError) Context() map[string]interface{} {
	return map[string]interface{}{
		"kind":    string(KindAuth),
		"reason":  string(e.Reason),
		"message": e.Message,
	}
}

// NewAuthError creates a new auth error
func NewAuthError(reason AuthReason, message string) *AuthError {
	return &AuthError{Reason: reason, Message: message}
}

// RemoteError represents a non-success HTTP response from the signing
// service. Body holds the decoded JSON body when one was present.
type RemoteError struct {
	StatusCode int
	Body       interface{}
	Message    string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("remote error (HTTP %d): %s", e.StatusCode, e.Message)
}

func (e *RemoteError) Kind() ErrorKind {
	return KindRemote
}

// IsClientError reports whether the status is in the 4xx range
func (e *RemoteError) IsClientError() bool {
	return e.StatusCode >= 400 && e.StatusCode < 500
}

// IsServerError reports whether the status is in the 5xx range
func (e *RemoteError) IsServerError() bool {
	return e.StatusCode >= 500 && e.StatusCode < 600
}

func (e *RemoteError) Context() map[string]interface{} {
	ctx := map[string]interface{}{
		"kind":         string(KindRemote),
		"status_code":  e.StatusCode,
		"client_error": e.IsClientError(),
		"server_error": e.IsServerError(),
		"message":      e.Message,
	}
	if e.Body != nil {
		ctx["body"] = e.Body
	}
	return ctx
}

// NewRemoteError creates a new remote error
func NewRemoteError(statusCode int, body interface{}, message string) *RemoteError {
	return &RemoteError{StatusCode: statusCode, Body: body, Message: message}
}

// TransportKind sub-classifies a transport failure
type TransportKind string

const (
	TransportTimeout     TransportKind = "timeout"
	TransportDNS         TransportKind = "dns"
	TransportConnRefused TransportKind = "connection_refused"
	TransportConnReset   TransportKind = "connection_reset"
	TransportTLS         TransportKind = "tls"
	TransportGeneric     TransportKind = "generic"
)

// TransportError represents a failure below the HTTP layer: DNS, connection,
// TLS, or an attempt exceeding its timeout.
type TransportError struct {
	Sub     TransportKind
	Message string
	Cause   error
}

func (e *TransportError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("transport failure [%s]: %s (%v)", e.Sub, e.Message, e.Cause)
	}
	return fmt.Sprintf("transport failure [%s]: %s", e.Sub, e.Message)
}

func (e *TransportError) Kind() ErrorKind {
	return KindTransport
}

func (e *TransportError) Unwrap() error {
	return e.Cause
}

func (e *TransportError) Context() map[string]interface{} {
	ctx := map[string]interface{}{
		"kind":    string(KindTransport),
		"sub":     string(e.Sub),
		"message": e.Message,
	}
	if e.Cause != nil {
		ctx["cause"] = e.Cause.Error()
	}
	return ctx
}

// NewTransportError creates a new transport error
func NewTransportError(sub TransportKind, message string, cause error) *TransportError {
	return &TransportError{Sub: sub, Message: message, Cause: cause}
}
