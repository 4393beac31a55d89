package domain

import (
	"errors"
	"net/http"
)

// Sentinel errors - match with errors.Is()
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("already exists")
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	// ErrTransient marks collaborator failures worth retrying. It never
	// reaches a response: every collaborator surface degrades instead.
	ErrTransient = errors.New("transient failure")
)

// HTTPError defines errors that can be mapped to HTTP status codes.
type HTTPError interface {
	error
	StatusCode() int
}

// ConflictError represents a uniqueness conflict with details about the
// existing resource (e.g., a duplicate chapter number within a story).
type ConflictError struct {
	Message      string // Human-readable error message
	ResourceType string // Type of resource (story, chapter, version)
	ResourceID   string // ID of the existing/conflicting resource
}

// Error implements the error interface
func (e *ConflictError) Error() string {
	return e.Message
}

// StatusCode implements the HTTPError interface
func (e *ConflictError) StatusCode() int {
	return http.StatusConflict
}

// Is allows errors.Is() to match against ErrConflict
func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}
