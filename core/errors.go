package core

import (
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Code  string
	Error string
}

// ValidationError is raised before any request is made. It names every offending field.
type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err != nil {
		return err.Err.Error()
	}
	if len(err.Fields) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(err.Fields))
	for _, fe := range err.Fields {
		parts = append(parts, fe.Field+": "+fe.Error)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Field returns the error reported for the named field, if any.
func (err ValidationError) Field(name string) (FieldError, bool) {
	for _, fe := range err.Fields {
		if fe.Field == name {
			return fe, true
		}
	}
	return FieldError{}, false
}

// FieldNames returns the sorted names of the offending fields.
func (err ValidationError) FieldNames() []string {
	names := make([]string, 0, len(err.Fields))
	for _, fe := range err.Fields {
		names = append(names, fe.Field)
	}
	sort.Strings(names)
	return names
}

func (err ValidationError) Map() map[string]string {
	m := make(map[string]string, len(err.Fields))
	for _, fe := range err.Fields {
		m[fe.Field] = fe.Error
	}
	return m
}

// HTTPError is a non-2xx response.
type HTTPError struct {
	Status  int
	Message string
}

func (err HTTPError) Error() string {
	msg := err.Message
	if msg == "" {
		msg = http.StatusText(err.Status)
	}
	return fmt.Sprintf("http %d: %s", err.Status, msg)
}

// NetworkError means no response was received.
type NetworkError struct {
	Err error
}

func (err NetworkError) Error() string {
	return "network error: " + err.Err.Error()
}

func (err NetworkError) Unwrap() error { return err.Err }

// ParseError is a non-JSON body or an unexpected envelope shape.
type ParseError struct {
	Message string
	Err     error
}

func (err ParseError) Error() string {
	switch {
	case err.Err != nil && err.Message != "":
		return "parse error: " + err.Message + ": " + err.Err.Error()
	case err.Err != nil:
		return "parse error: " + err.Err.Error()
	default:
		return "parse error: " + err.Message
	}
}

func (err ParseError) Unwrap() error { return err.Err }

func AsValidationError(err error) (*ValidationError, bool) {
	switch e := errors.Cause(err).(type) {
	case *ValidationError:
		return e, true
	case ValidationError:
		return &e, true
	}
	return nil, false
}

func AsHTTPError(err error) (*HTTPError, bool) {
	switch e := errors.Cause(err).(type) {
	case *HTTPError:
		return e, true
	case HTTPError:
		return &e, true
	}
	return nil, false
}

// IsHTTPError reports whether err is an HTTPError, optionally with one of the given statuses.
func IsHTTPError(err error, statuses ...int) bool {
	herr, ok := AsHTTPError(err)
	if !ok {
		return false
	}
	if len(statuses) == 0 {
		return true
	}
	for _, s := range statuses {
		if herr.Status == s {
			return true
		}
	}
	return false
}

func IsNetworkError(err error) bool {
	switch errors.Cause(err).(type) {
	case *NetworkError, NetworkError:
		return true
	}
	return false
}

func IsParseError(err error) bool {
	switch errors.Cause(err).(type) {
	case *ParseError, ParseError:
		return true
	}
	return false
}

// IsRequestError reports whether err is one of the errors a request round trip can produce.
func IsRequestError(err error) bool {
	return IsHTTPError(err) || IsNetworkError(err) || IsParseError(err)
}

type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
