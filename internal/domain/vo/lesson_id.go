package vo

import (
	"errors"
	"strings"
)

// LessonID represents a lesson identifier value object. It is the
// platform's key for one sub-chapter and the argument to the lesson
// resource fetch.
type LessonID struct {
	value string
}

var (
	ErrEmptyLessonID = errors.New("lesson ID cannot be empty")
)

// NewLessonID creates a new LessonID value object.
func NewLessonID(id string) (LessonID, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return LessonID{}, ErrEmptyLessonID
	}
	return LessonID{value: id}, nil
}

// MustLessonID creates a new LessonID, panicking if invalid.
func MustLessonID(id string) LessonID {
	lid, err := NewLessonID(id)
	if err != nil {
		panic(err)
	}
	return lid
}

// EmptyLessonID returns an empty LessonID.
func EmptyLessonID() LessonID {
	return LessonID{}
}

// String returns the string representation of the ID.
func (id LessonID) String() string {
	return id.value
}

// IsEmpty returns true if the ID is empty.
func (id LessonID) IsEmpty() bool {
	return id.value == ""
}

// Equals checks if two IDs are equal.
func (id LessonID) Equals(other LessonID) bool {
	return id.value == other.value
}
