// Package faults defines the closed set of error kinds surfaced by the service
// and the single table that maps each kind to its response code and HTTP status.
package faults

import (
	"errors"
	"fmt"
	"maps"
	"net/http"
)

// Kind classifies an error for the response layer.
type Kind int

// Error kinds. Internal is the zero value so unclassified errors map to it.
const (
	Internal Kind = iota
	InvalidFile
	EmptyFile
	FileTooLarge
	TooManyFiles
	InvalidParameter
	PasswordInvalid
	Password
	Processing
	ProcessingFatal
	NotFound
	MethodNotAllowed
	Unavailable
)

// Response codes carried in the error envelope.
const (
	CodeInvalidFile      = "INVALID_FILE"
	CodeEmptyFile        = "EMPTY_FILE"
	CodeFileSizeExceeded = "FILE_SIZE_EXCEEDED"
	CodeTooManyFiles     = "TOO_MANY_FILES"
	CodeValidation       = "VALIDATION_ERROR"
	CodePassword         = "PASSWORD_ERROR"
	CodeProcessing       = "PROCESSING_ERROR"
	CodeNotFound         = "RESOURCE_NOT_FOUND"
	CodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
	CodeUnavailable      = "SERVICE_UNAVAILABLE"
	CodeInternal         = "INTERNAL_ERROR"
)

type entry struct {
	name   string
	code   string
	status int
}

var table = map[Kind]entry{
	Internal:         {"internal", CodeInternal, http.StatusInternalServerError},
	InvalidFile:      {"invalid_file", CodeInvalidFile, http.StatusBadRequest},
	EmptyFile:        {"empty_file", CodeEmptyFile, http.StatusBadRequest},
	FileTooLarge:     {"file_too_large", CodeFileSizeExceeded, http.StatusRequestEntityTooLarge},
	TooManyFiles:     {"too_many_files", CodeTooManyFiles, http.StatusBadRequest},
	InvalidParameter: {"invalid_parameter", CodeValidation, http.StatusBadRequest},
	PasswordInvalid:  {"password_invalid", CodeValidation, http.StatusBadRequest},
	Password:         {"password", CodePassword, http.StatusUnauthorized},
	Processing:       {"processing", CodeProcessing, http.StatusUnprocessableEntity},
	ProcessingFatal:  {"processing_fatal", CodeProcessing, http.StatusInternalServerError},
	NotFound:         {"not_found", CodeNotFound, http.StatusNotFound},
	MethodNotAllowed: {"method_not_allowed", CodeMethodNotAllowed, http.StatusMethodNotAllowed},
	Unavailable:      {"unavailable", CodeUnavailable, http.StatusServiceUnavailable},
}

func lookup(k Kind) entry {
	if e, ok := table[k]; ok {
		return e
	}
	return table[Internal]
}

// String returns the snake_case name of the kind.
func (k Kind) String() string {
	return lookup(k).name
}

// Code returns the machine-readable response code for the kind.
func (k Kind) Code() string {
	return lookup(k).code
}

// Status returns the HTTP status for the kind.
func (k Kind) Status() int {
	return lookup(k).status
}

// Error is an immutable classified error. Use the With* methods to derive
// annotated copies.
type Error struct {
	Kind    Kind
	Message string
	Details map[string]any
	cause   error
}

// New creates a classified error.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf creates a classified error with a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap classifies cause under kind with the given message. The cause remains
// reachable through errors.Is and errors.As.
func Wrap(kind Kind, cause error, message string) *Error {
	return &Error{Kind: kind, Message: message, cause: cause}
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Code returns the response code of the error's kind.
func (e *Error) Code() string {
	return e.Kind.Code()
}

// Status returns the HTTP status of the error's kind.
func (e *Error) Status() int {
	return e.Kind.Status()
}

// WithDetail returns a copy of e with key set in its details.
func (e *Error) WithDetail(key string, value any) *Error {
	out := *e
	out.Details = make(map[string]any, len(e.Details)+1)
	maps.Copy(out.Details, e.Details)
	out.Details[key] = value
	return &out
}

// Annotate returns a copy of e with prefix prepended to its message.
func (e *Error) Annotate(prefix string) *Error {
	out := *e
	out.Message = prefix + ": " + e.Message
	return &out
}

// As extracts the classified error from err's chain.
func As(err error) (*Error, bool) {
	var fe *Error
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

// KindOf returns the kind of err, or Internal when err is unclassified.
func KindOf(err error) Kind {
	if fe, ok := As(err); ok {
		return fe.Kind
	}
	return Internal
}

// Is reports whether err is classified as kind.
func Is(err error, kind Kind) bool {
	fe, ok := As(err)
	return ok && fe.Kind == kind
}

// Status maps any error to an HTTP status.
func Status(err error) int {
	return KindOf(err).Status()
}

// Code maps any error to a response code.
func Code(err error) string {
	return KindOf(err).Code()
}
