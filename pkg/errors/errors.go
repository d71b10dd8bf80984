// Package errors holds the typed errors returned at the edges of flowsheet:
// reading sheets and snapshots, talking to barcode catalogs, loading
// configuration. The editing engines themselves never fail.
//
// Every typed error answers errors.Is against one of the sentinels below,
// which is what the HTTP layer and the CLI switch on.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Re-exported from the standard library so callers need one import.
var (
	New = errors.New
	Is  = errors.Is
	As  = errors.As
)

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnavailable means a catalog answered 5xx or could not be reached.
	ErrUnavailable = errors.New("catalog unavailable")
	ErrTimeout     = errors.New("operation timed out")
	ErrCanceled    = errors.New("operation canceled")
)

// NotFoundError names a missing project, barcode set or catalog entry.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Resource, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// ValidationError rejects a flag, request field or configuration value.
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "invalid input: " + e.Message
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool { return target == ErrInvalidInput }

func NewValidationError(field string, value any, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// ParseError reports malformed input in some textual format such as a lane
// multi-range, a bases mask, a sheet file or a catalog payload. Offset is
// the byte position of the bad token, -1 when not known.
type ParseError struct {
	Format  string
	Input   string
	Offset  int
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	switch {
	case e.Input == "":
		return fmt.Sprintf("cannot parse %s: %s", e.Format, e.Message)
	case e.Offset < 0:
		return fmt.Sprintf("cannot parse %s %q: %s", e.Format, e.Input, e.Message)
	default:
		return fmt.Sprintf("cannot parse %s %q at offset %d: %s", e.Format, e.Input, e.Offset, e.Message)
	}
}

func (e *ParseError) Unwrap() error { return e.Err }

// Is treats every parse failure as invalid input.
func (e *ParseError) Is(target error) bool { return target == ErrInvalidInput }

// NewParseError returns a ParseError without an offset.
func NewParseError(format, input, message string, err error) *ParseError {
	return &ParseError{Format: format, Input: input, Offset: -1, Message: message, Err: err}
}

// APIError is a failed request to a remote barcode catalog. A 404 counts as
// ErrNotFound and any 5xx as ErrUnavailable.
type APIError struct {
	Endpoint   string
	StatusCode int
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("catalog request %s failed: %s", e.Endpoint, e.Message)
	}
	return fmt.Sprintf("catalog request %s failed with status %d: %s", e.Endpoint, e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error { return e.Err }

func (e *APIError) Is(target error) bool {
	if e.StatusCode == http.StatusNotFound {
		return target == ErrNotFound
	}
	return e.StatusCode >= 500 && target == ErrUnavailable
}

func NewAPIError(endpoint string, statusCode int, message string) *APIError {
	return &APIError{Endpoint: endpoint, StatusCode: statusCode, Message: message}
}

// ConfigError is a bad or missing setting; Component names the key or the
// subsystem that needed it.
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

func (e *ConfigError) Error() string {
	if e.Component == "" {
		return "config: " + e.Message
	}
	return fmt.Sprintf("config %s: %s", e.Component, e.Message)
}

func (e *ConfigError) Unwrap() error { return e.Err }

func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{Component: component, Message: message, Err: err}
}

// IOError wraps a filesystem or network failure with the operation
// ("read", "write", "listen", ...) and the path or address involved.
type IOError struct {
	Operation string
	Path      string
	Message   string
	Err       error
}

func (e *IOError) Error() string {
	if e.Path == "" {
		return e.Operation + ": " + e.Message
	}
	return fmt.Sprintf("%s %s: %s", e.Operation, e.Path, e.Message)
}

func (e *IOError) Unwrap() error { return e.Err }

func NewIOError(operation, path string, err error) *IOError {
	var msg string
	if err != nil {
		msg = err.Error()
	}
	return &IOError{Operation: operation, Path: path, Message: msg, Err: err}
}

func IsNotFound(err error) bool        { return errors.Is(err, ErrNotFound) }
func IsValidationError(err error) bool { return errors.Is(err, ErrInvalidInput) }
func IsUnavailable(err error) bool     { return errors.Is(err, ErrUnavailable) }
func IsTimeout(err error) bool         { return errors.Is(err, ErrTimeout) }

// The Wrap helpers return nil for a nil err so they can wrap a call's
// result directly.

func WrapValidation(field string, err error) error {
	if err == nil {
		return nil
	}
	return &ValidationError{Field: field, Message: err.Error()}
}

func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return NewIOError(operation, path, err)
}

func WrapParse(format, input string, err error) error {
	if err == nil {
		return nil
	}
	return NewParseError(format, input, err.Error(), err)
}

func WrapAPI(endpoint string, statusCode int, err error) error {
	if err == nil {
		return nil
	}
	return &APIError{Endpoint: endpoint, StatusCode: statusCode, Message: err.Error(), Err: err}
}
