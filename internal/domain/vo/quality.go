package vo

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// AdaptiveLabel is the rendition label the video host uses for its
// stream-agnostic adaptive variant.
const AdaptiveLabel = "adaptive"

// Quality represents a video rendition label value object, e.g. "360p".
type Quality struct {
	label string
}

var (
	ErrEmptyQuality = errors.New("quality label cannot be empty")
)

// NewQuality creates a new Quality value object.
func NewQuality(label string) (Quality, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return Quality{}, ErrEmptyQuality
	}
	return Quality{label: label}, nil
}

// MustQuality creates a new Quality, panicking if invalid.
func MustQuality(label string) Quality {
	q, err := NewQuality(label)
	if err != nil {
		panic(err)
	}
	return q
}

// String returns the rendition label.
func (q Quality) String() string {
	return q.label
}

// IsAdaptive returns true for the adaptive rendition.
func (q Quality) IsAdaptive() bool {
	return q.label == AdaptiveLabel
}

// Equals checks if two qualities are equal.
func (q Quality) Equals(other Quality) bool {
	return q.label == other.label
}

// Numeric returns the encoded numeric quality with the trailing unit
// suffix stripped: "360p" yields 360. Labels without a numeric prefix
// ("adaptive") fail.
func (q Quality) Numeric() (int, error) {
	end := len(q.label)
	for end > 0 && (q.label[end-1] < '0' || q.label[end-1] > '9') {
		end--
	}
	if end == 0 {
		return 0, fmt.Errorf("quality %q has no numeric component", q.label)
	}
	n, err := strconv.Atoi(q.label[:end])
	if err != nil {
		return 0, fmt.Errorf("quality %q has no numeric component", q.label)
	}
	return n, nil
}
