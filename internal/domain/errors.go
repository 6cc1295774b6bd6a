package domain

import (
	"errors"
)

// Common domain errors
var (
	ErrNotFound = errors.New("not found")

	// Course domain errors
	ErrEmptyCourseTree = errors.New("course tree has no content")
	ErrMissingLessonID = errors.New("lesson has no identifier")

	// Manifest domain errors
	ErrManifestSchema = errors.New("manifest structure not recognized")
)

// SkippableError represents an error that is logged and isolated to its
// unit of work. Processing continues with the next item when it occurs.
type SkippableError struct {
	Err     error
	Context string
}

// Error returns the error message
func (e *SkippableError) Error() string {
	if e.Context != "" {
		if e.Err != nil {
			return e.Context + ": " + e.Err.Error()
		}
		return e.Context
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "skippable error"
}

// Unwrap returns the underlying error
func (e *SkippableError) Unwrap() error {
	return e.Err
}

// NewSkippableError creates a new skippable error
func NewSkippableError(err error, context string) *SkippableError {
	return &SkippableError{Err: err, Context: context}
}

// IsSkippable returns true if the error can be skipped
func IsSkippable(err error) bool {
	var se *SkippableError
	return errors.As(err, &se)
}
